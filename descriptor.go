package godi

import (
	"fmt"
	"reflect"

	"github.com/junioryono/godi/v5/internal/reflection"
)

// Factory produces a service instance from a provider. Factories run at
// resolution time, never while registering or decorating.
type Factory func(sp ServiceProvider) (any, error)

// Descriptor binds a service type to one implementation and a lifetime.
// Exactly one of Factory, Constructor or Instance is set.
//
// Descriptors are treated as immutable values: decoration replaces entries
// of a registration list rather than editing them. Use WithServiceType to
// derive a re-keyed copy.
type Descriptor struct {
	// ServiceType is the key the descriptor is registered under
	ServiceType ServiceType

	// Lifetime determines instance caching behavior
	Lifetime Lifetime

	// Factory creates the instance from a provider
	Factory Factory

	// Constructor is a reflected constructor function activated with
	// constructor injection
	Constructor reflect.Value

	// Instance is a pre-built value, always a singleton
	Instance any

	// IsInstance distinguishes a registered nil-able instance from no instance
	IsInstance bool
}

// NewConstructorDescriptor creates a descriptor for a constructor function.
// The service type is the constructor's first result unless overridden with
// the As option.
func NewConstructorDescriptor(constructor any, lifetime Lifetime, opts ...AddOption) (*Descriptor, error) {
	if constructor == nil {
		return nil, ValidationError{Cause: ErrConstructorNil}
	}

	info, err := defaultInvoker.Analyzer().Analyze(constructor)
	if err != nil {
		return nil, ValidationError{Cause: fmt.Errorf("invalid constructor %T: %w", constructor, err)}
	}

	options := applyAddOptions(opts)

	serviceType := info.ResultType
	if options.as != nil {
		if !info.ResultType.AssignableTo(options.as) {
			return nil, ValidationError{
				ServiceType: options.as,
				Cause:       fmt.Errorf("%w: %s", ErrNotAssignable, formatType(info.ResultType)),
			}
		}
		serviceType = options.as
	}

	d := &Descriptor{
		ServiceType: serviceType,
		Lifetime:    lifetime,
		Constructor: info.Value,
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	return d, nil
}

// NewInstanceDescriptor creates a singleton descriptor for an existing value.
// The service type is the value's dynamic type unless overridden with As.
func NewInstanceDescriptor(instance any, opts ...AddOption) (*Descriptor, error) {
	options := applyAddOptions(opts)

	serviceType := options.as
	if serviceType == nil {
		if instance == nil {
			return nil, ValidationError{Cause: fmt.Errorf("nil instance requires an explicit service type")}
		}
		serviceType = reflect.TypeOf(instance)
	} else if instance != nil && !reflect.TypeOf(instance).AssignableTo(serviceType) {
		return nil, ValidationError{
			ServiceType: serviceType,
			Cause:       fmt.Errorf("%w: %T", ErrNotAssignable, instance),
		}
	}

	d := &Descriptor{
		ServiceType: serviceType,
		Lifetime:    Singleton,
		Instance:    instance,
		IsInstance:  true,
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	return d, nil
}

// NewFactoryDescriptor creates a descriptor that calls factory to produce the
// service.
func NewFactoryDescriptor(serviceType ServiceType, factory Factory, lifetime Lifetime) *Descriptor {
	return &Descriptor{
		ServiceType: serviceType,
		Lifetime:    lifetime,
		Factory:     factory,
	}
}

// WithServiceType returns a copy of the descriptor registered under a
// different service type. Implementation and lifetime are preserved.
func (d *Descriptor) WithServiceType(serviceType ServiceType) *Descriptor {
	clone := *d
	clone.ServiceType = serviceType
	return &clone
}

// IsFactory reports whether the descriptor is implemented by a Factory.
func (d *Descriptor) IsFactory() bool {
	return d.Factory != nil
}

// IsConstructor reports whether the descriptor is implemented by a constructor.
func (d *Descriptor) IsConstructor() bool {
	return d.Constructor.IsValid()
}

// Validate validates the descriptor's configuration.
func (d *Descriptor) Validate() error {
	if d.ServiceType == nil {
		return ValidationError{Cause: ErrServiceTypeNil}
	}

	if IsOpenGeneric(d.ServiceType) {
		return ValidationError{
			ServiceType: d.ServiceType,
			Cause:       fmt.Errorf("open generic definitions can only be decorated, not registered"),
		}
	}

	if !d.Lifetime.IsValid() {
		return LifetimeError{Value: d.Lifetime}
	}

	implementations := 0
	if d.IsFactory() {
		implementations++
	}
	if d.IsConstructor() {
		implementations++
	}
	if d.IsInstance {
		implementations++
	}

	switch {
	case implementations == 0:
		return ValidationError{ServiceType: d.ServiceType, Cause: ErrNoImplementation}
	case implementations > 1:
		return ValidationError{
			ServiceType: d.ServiceType,
			Cause:       fmt.Errorf("descriptor must have exactly one implementation, got %d", implementations),
		}
	}

	if d.IsInstance && d.Lifetime != Singleton {
		return ValidationError{ServiceType: d.ServiceType, Cause: ErrInstanceNotSingle}
	}

	return nil
}

// String describes the descriptor for diagnostics.
func (d *Descriptor) String() string {
	var impl string
	switch {
	case d.IsInstance:
		impl = fmt.Sprintf("instance %T", d.Instance)
	case d.IsConstructor():
		impl = "constructor " + formatType(d.Constructor.Type())
	case d.IsFactory():
		impl = "factory"
	default:
		impl = "no implementation"
	}

	return fmt.Sprintf("%s (%s, %s)", formatServiceType(d.ServiceType), d.Lifetime, impl)
}

// AddOption configures a registration.
type AddOption interface {
	applyAddOption(*addOptions)
}

type addOptions struct {
	as reflect.Type
}

type addOptionFunc func(*addOptions)

func (f addOptionFunc) applyAddOption(o *addOptions) {
	f(o)
}

// As registers the service under the interface or type T instead of the
// constructor's result type.
//
//	collection.AddSingleton(NewConsoleGreeter, godi.As[Greeter]())
func As[T any]() AddOption {
	return AsType(TypeOf[T]())
}

// AsType is the non-generic form of As.
func AsType(serviceType reflect.Type) AddOption {
	return addOptionFunc(func(o *addOptions) {
		o.as = serviceType
	})
}

func applyAddOptions(opts []AddOption) *addOptions {
	options := &addOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt.applyAddOption(options)
		}
	}
	return options
}

// defaultInvoker activates constructors for every provider.
var defaultInvoker = reflection.NewInvoker(reflection.New())
