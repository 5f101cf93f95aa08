package godi

import (
	"reflect"

	"github.com/rs/zerolog"
)

// RegistrationList is the ordered, indexable store of descriptors that
// decoration rewrites in place. Collection implements it.
type RegistrationList interface {
	// Count returns the number of descriptors.
	Count() int

	// At returns the descriptor at index i.
	At(i int) *Descriptor

	// Set replaces the descriptor at index i.
	Set(i int, descriptor *Descriptor)

	// Add appends a descriptor.
	Add(descriptor *Descriptor)
}

// Decorator rewrites the registrations of one service type so that resolving
// it yields a decorator wrapping the originally registered instance.
//
// Each eligible registration is re-keyed under DecoratedType(original) and
// replaced, at its index, by a factory that resolves the re-keyed original and
// wraps it. Lifetimes are preserved and no factory is executed.
//
// A Decorator skips the registrations it wrote itself, so applying it again
// to the same list is a no-op. A different Decorator for the same service
// type wraps the previous decoration.
//
// A Decorator is not safe for concurrent use with other mutations of the same
// registration list.
type Decorator struct {
	strategy decoratorStrategy
	logger   zerolog.Logger
	written  map[*Descriptor]struct{}
}

// NewDecorator creates a Decorator for serviceType. Exactly one of
// decoratorType and decoratorFactory should be set:
//
//   - decoratorType is a constructor taking the decorated service, or for an
//     open generic serviceType (a GenericDefinition) an Instantiations set;
//   - decoratorFactory is called with the inner instance and the provider.
//
// A GenericDefinition selects the open generic strategy, which decorates
// every registered instantiation; any other service type is matched exactly.
func NewDecorator(serviceType ServiceType, decoratorType any, decoratorFactory DecoratorFunc) Decorator {
	var strategy decoratorStrategy

	if definition, ok := serviceType.(GenericDefinition); ok {
		instantiations, ok := decoratorType.(Instantiations)
		if !ok && decoratorType != nil {
			instantiations = Instantiations{decoratorType}
		}

		strategy = openGenericStrategy{
			definition:       definition,
			decoratorType:    instantiations,
			decoratorFactory: decoratorFactory,
		}
	} else {
		strategy = closedTypeStrategy{
			serviceType:      serviceType,
			decoratorType:    decoratorType,
			decoratorFactory: decoratorFactory,
		}
	}

	return Decorator{
		strategy: strategy,
		logger:   zerolog.Nop(),
		written:  make(map[*Descriptor]struct{}),
	}
}

// WithLogger returns a copy of the decorator that logs rewrites to logger.
func (d Decorator) WithLogger(logger zerolog.Logger) Decorator {
	d.logger = logger
	return d
}

// ServiceType returns the decoration target.
func (d Decorator) ServiceType() ServiceType {
	if d.strategy == nil {
		return nil
	}
	return d.strategy.ServiceType()
}

// Decorate decorates every eligible registration and returns services for
// chaining. It returns a MissingTypeRegistrationError when nothing was
// decorated, which usually means the service was not registered yet.
func (d Decorator) Decorate(services RegistrationList) (RegistrationList, error) {
	if d.TryDecorate(services) {
		return services, nil
	}

	err := MissingTypeRegistrationError{ServiceType: d.ServiceType()}
	d.logger.Warn().Err(err).Msg("nothing to decorate")

	return nil, err
}

// TryDecorate decorates every eligible registration and reports whether at
// least one was decorated. A zero Decorator decorates nothing.
func (d Decorator) TryDecorate(services RegistrationList) bool {
	if d.strategy == nil || services == nil {
		return false
	}

	decorated := false
	ordinals := make(map[DecoratedType]int)

	// Scanning backwards over the original range never revisits the entries
	// appended below.
	for i := services.Count() - 1; i >= 0; i-- {
		descriptor := services.At(i)
		if descriptor == nil {
			continue
		}

		if IsDecorated(descriptor.ServiceType) {
			continue // Already decorated.
		}

		if _, ok := d.written[descriptor]; ok {
			continue
		}

		serviceType, ok := descriptor.ServiceType.(reflect.Type)
		if !ok || !d.strategy.CanDecorate(serviceType) {
			continue
		}

		decoratedType := DecoratedType{Inner: serviceType}

		ordinal, seen := ordinals[decoratedType]
		if !seen {
			ordinal = countRegistrations(services, decoratedType)
		}
		ordinals[decoratedType] = ordinal + 1

		// insert decorated
		services.Add(descriptor.WithServiceType(decoratedType))

		// replace decorator
		factory := d.strategy.CreateDecorator(decoratedType, ordinal)
		replacement := NewFactoryDescriptor(serviceType, factory, descriptor.Lifetime)
		services.Set(i, replacement)
		d.written[replacement] = struct{}{}

		d.logger.Debug().
			Stringer("service_type", serviceType).
			Stringer("lifetime", descriptor.Lifetime).
			Int("index", i).
			Int("ordinal", ordinal).
			Msg("decorated registration")

		decorated = true
	}

	return decorated
}

// countRegistrations counts the descriptors keyed by serviceType. It is the
// ordinal the next appended registration of serviceType will have.
func countRegistrations(services RegistrationList, serviceType ServiceType) int {
	count := 0
	for i := 0; i < services.Count(); i++ {
		if d := services.At(i); d != nil && d.ServiceType == serviceType {
			count++
		}
	}
	return count
}
