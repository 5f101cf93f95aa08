package godi

import (
	"reflect"

	"github.com/rs/zerolog"
)

// Collection represents a collection of service descriptors that define
// the services available in the dependency injection container.
//
// Collection follows a builder pattern where services are registered
// with their lifetimes and dependencies, then built into a Provider.
// Registrations keep their order: resolving a service type returns its last
// registration and decoration rewrites entries in place.
//
// Collection is NOT thread-safe. It should be configured in a single
// goroutine before building the Provider.
//
// Example:
//
//	collection := godi.NewCollection()
//	collection.AddSingleton(NewLogger)
//	collection.AddScoped(NewDatabase)
//	collection.Decorate(godi.TypeOf[Database](), NewTracingDatabase)
//
//	provider, err := collection.Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
type Collection interface {
	RegistrationList

	// Build creates a Provider from the registered services
	// using default options.
	Build() (Provider, error)

	// BuildWithOptions creates a Provider with custom options
	// for validation and behavior configuration.
	BuildWithOptions(options *ProviderOptions) (Provider, error)

	// AddModules applies one or more module configurations to the service collection.
	// Modules provide a way to group related service registrations.
	AddModules(modules ...ModuleOption) error

	// AddSingleton registers a service with singleton lifetime.
	// Only one instance is created and shared across all resolutions.
	AddSingleton(constructor any, opts ...AddOption) error

	// AddScoped registers a service with scoped lifetime.
	// One instance is created per scope and shared within that scope.
	AddScoped(constructor any, opts ...AddOption) error

	// AddTransient registers a service with transient lifetime.
	// A new instance is created every time the service is resolved.
	AddTransient(constructor any, opts ...AddOption) error

	// AddInstance registers an existing value as a singleton.
	AddInstance(instance any, opts ...AddOption) error

	// AddFactory registers a factory function for serviceType.
	AddFactory(serviceType reflect.Type, lifetime Lifetime, factory Factory) error

	// Decorate wraps every registration of serviceType with decorator, a
	// constructor taking the decorated service. An open generic serviceType
	// takes an Instantiations set. It fails with a
	// MissingTypeRegistrationError when nothing is registered yet.
	Decorate(serviceType ServiceType, decorator any) error

	// TryDecorate is Decorate reporting whether anything was decorated
	// instead of failing. The error only reports invalid arguments.
	TryDecorate(serviceType ServiceType, decorator any) (bool, error)

	// DecorateFunc is Decorate with a decorator function.
	DecorateFunc(serviceType ServiceType, decorator DecoratorFunc) error

	// TryDecorateFunc is TryDecorate with a decorator function.
	TryDecorateFunc(serviceType ServiceType, decorator DecoratorFunc) (bool, error)

	// Contains checks if a service type is registered.
	Contains(serviceType ServiceType) bool

	// ToSlice returns a copy of all registered service descriptors.
	// This is useful for inspection and debugging.
	ToSlice() []*Descriptor
}

// CollectionOption configures a Collection.
type CollectionOption func(*collection)

// WithLogger sets the logger of the collection and of the providers built
// from it. The default logger discards everything.
func WithLogger(logger zerolog.Logger) CollectionOption {
	return func(c *collection) {
		c.logger = logger
	}
}

// collection is the ordered registration list behind Collection.
type collection struct {
	descriptors []*Descriptor
	logger      zerolog.Logger
}

var _ Collection = (*collection)(nil)

// NewCollection creates a new empty Collection instance.
//
// Example:
//
//	collection := godi.NewCollection(godi.WithLogger(log.Logger))
//	collection.AddSingleton(NewLogger)
//	provider, err := collection.Build()
func NewCollection(opts ...CollectionOption) Collection {
	c := &collection{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Build creates a Provider from the registered services using default options.
func (sc *collection) Build() (Provider, error) {
	return sc.BuildWithOptions(nil)
}

// BuildWithOptions creates a Provider with custom options for validation and behavior configuration.
func (sc *collection) BuildWithOptions(options *ProviderOptions) (Provider, error) {
	p, err := newProvider(sc.ToSlice(), options, sc.logger)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// AddModules applies one or more module configurations to the service collection.
func (sc *collection) AddModules(modules ...ModuleOption) error {
	for _, module := range modules {
		if module == nil {
			continue
		}

		if err := module(sc); err != nil {
			return err
		}
	}

	return nil
}

// AddSingleton adds a singleton service to the collection.
func (sc *collection) AddSingleton(constructor any, opts ...AddOption) error {
	return sc.addService(constructor, Singleton, opts...)
}

// AddScoped adds a scoped service to the collection.
func (sc *collection) AddScoped(constructor any, opts ...AddOption) error {
	return sc.addService(constructor, Scoped, opts...)
}

// AddTransient adds a transient service to the collection.
func (sc *collection) AddTransient(constructor any, opts ...AddOption) error {
	return sc.addService(constructor, Transient, opts...)
}

func (sc *collection) AddInstance(instance any, opts ...AddOption) error {
	descriptor, err := NewInstanceDescriptor(instance, opts...)
	if err != nil {
		return err
	}

	sc.Add(descriptor)
	return nil
}

func (sc *collection) AddFactory(serviceType reflect.Type, lifetime Lifetime, factory Factory) error {
	if serviceType == nil {
		return ValidationError{Cause: ErrServiceTypeNil}
	}

	if factory == nil {
		return ValidationError{ServiceType: serviceType, Cause: ErrConstructorNil}
	}

	descriptor := NewFactoryDescriptor(serviceType, factory, lifetime)
	if err := descriptor.Validate(); err != nil {
		return err
	}

	sc.Add(descriptor)
	return nil
}

func (sc *collection) addService(constructor any, lifetime Lifetime, opts ...AddOption) error {
	descriptor, err := NewConstructorDescriptor(constructor, lifetime, opts...)
	if err != nil {
		return err
	}

	sc.Add(descriptor)

	sc.logger.Debug().
		Stringer("service_type", descriptor.ServiceType).
		Stringer("lifetime", lifetime).
		Msg("service registered")

	return nil
}

func (sc *collection) Decorate(serviceType ServiceType, decorator any) error {
	d, err := sc.decorator(serviceType, decorator, nil)
	if err != nil {
		return err
	}

	_, err = d.Decorate(sc)
	return err
}

func (sc *collection) TryDecorate(serviceType ServiceType, decorator any) (bool, error) {
	d, err := sc.decorator(serviceType, decorator, nil)
	if err != nil {
		return false, err
	}

	return d.TryDecorate(sc), nil
}

func (sc *collection) DecorateFunc(serviceType ServiceType, decorator DecoratorFunc) error {
	d, err := sc.decorator(serviceType, nil, decorator)
	if err != nil {
		return err
	}

	_, err = d.Decorate(sc)
	return err
}

func (sc *collection) TryDecorateFunc(serviceType ServiceType, decorator DecoratorFunc) (bool, error) {
	d, err := sc.decorator(serviceType, nil, decorator)
	if err != nil {
		return false, err
	}

	return d.TryDecorate(sc), nil
}

// decorator validates a decoration request and builds its Decorator.
func (sc *collection) decorator(serviceType ServiceType, decoratorType any, decoratorFactory DecoratorFunc) (Decorator, error) {
	if err := validateDecoration(serviceType, decoratorType, decoratorFactory); err != nil {
		return Decorator{}, err
	}

	return NewDecorator(serviceType, decoratorType, decoratorFactory).WithLogger(sc.logger), nil
}

// Contains checks if a service type is registered.
func (sc *collection) Contains(serviceType ServiceType) bool {
	if serviceType == nil {
		return false
	}

	for _, d := range sc.descriptors {
		if d != nil && d.ServiceType == serviceType {
			return true
		}
	}
	return false
}

// ToSlice returns a copy of all registered service descriptors.
func (sc *collection) ToSlice() []*Descriptor {
	result := make([]*Descriptor, len(sc.descriptors))
	copy(result, sc.descriptors)
	return result
}

// Count returns the number of registered descriptors.
func (sc *collection) Count() int {
	return len(sc.descriptors)
}

// At returns the descriptor at index i.
func (sc *collection) At(i int) *Descriptor {
	return sc.descriptors[i]
}

// Set replaces the descriptor at index i.
func (sc *collection) Set(i int, descriptor *Descriptor) {
	sc.descriptors[i] = descriptor
}

// Add appends a descriptor without validating it. Invalid descriptors are
// reported by Build.
func (sc *collection) Add(descriptor *Descriptor) {
	sc.descriptors = append(sc.descriptors, descriptor)
}
