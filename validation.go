package godi

import (
	"fmt"
)

// validateDecoration checks the shape of a decoration request. Whether the
// decorator's dependencies can be satisfied is only known at resolution time.
func validateDecoration(serviceType ServiceType, decoratorType any, decoratorFactory DecoratorFunc) error {
	if serviceType == nil {
		return ValidationError{Cause: ErrServiceTypeNil}
	}

	if IsDecorated(serviceType) {
		return ValidationError{ServiceType: serviceType, Cause: ErrDecoratedTypeKey}
	}

	if decoratorFactory != nil {
		return nil
	}

	if decoratorType == nil {
		return ValidationError{ServiceType: serviceType, Cause: ErrDecoratorNil}
	}

	instantiations, isSet := decoratorType.(Instantiations)
	if isSet && !IsOpenGeneric(serviceType) {
		return ValidationError{
			ServiceType: serviceType,
			Cause:       fmt.Errorf("%w: instantiations require an open generic service type", ErrInvalidDecorator),
		}
	}

	if !isSet {
		instantiations = Instantiations{decoratorType}
	}

	if len(instantiations) == 0 {
		return ValidationError{ServiceType: serviceType, Cause: ErrDecoratorNil}
	}

	for _, constructor := range instantiations {
		if constructor == nil {
			return ValidationError{ServiceType: serviceType, Cause: ErrDecoratorNil}
		}

		if _, err := defaultInvoker.Analyzer().Analyze(constructor); err != nil {
			return ValidationError{
				ServiceType: serviceType,
				Cause:       fmt.Errorf("%w %T: %w", ErrInvalidDecorator, constructor, err),
			}
		}
	}

	return nil
}

// validateLifetimes ensures singleton constructors don't depend on scoped
// services. Factories are opaque and not checked.
func validateLifetimes(registrations map[ServiceType][]*registration) error {
	for serviceType, regs := range registrations {
		for _, reg := range regs {
			descriptor := reg.descriptor
			if descriptor.Lifetime != Singleton || !descriptor.IsConstructor() {
				continue // Only validate singleton dependencies
			}

			info, err := defaultInvoker.Analyzer().Analyze(descriptor.Constructor.Interface())
			if err != nil {
				return ValidationError{ServiceType: serviceType, Cause: err}
			}

			for _, param := range info.Parameters {
				deps := registrations[param.Type]
				if len(deps) == 0 {
					continue
				}

				// Resolution picks the last registration
				if deps[len(deps)-1].descriptor.Lifetime == Scoped {
					return ValidationError{
						ServiceType: serviceType,
						Cause:       fmt.Errorf("singleton service cannot depend on scoped service %s", formatType(param.Type)),
					}
				}
			}
		}
	}

	return nil
}
