package godi

import "reflect"

// ModuleOption represents a registration action within a module.
type ModuleOption func(Collection) error

// NewModule creates a new module with the given name and builders.
// Modules are a way to group related service registrations together.
// Builders run in order, so a decorator must come after the services it
// decorates.
//
// Example:
//
//	var DatabaseModule = godi.NewModule("database",
//	    godi.AddSingleton(NewDatabaseConnection),
//	    godi.AddScoped(NewUserRepository, godi.As[UserRepository]()),
//	    godi.AddDecorator(godi.TypeOf[UserRepository](), NewCachingUserRepository),
//	)
//
//	var AppModule = godi.NewModule("app",
//	    DatabaseModule,
//	    godi.AddScoped(NewUserService),
//	)
func NewModule(name string, builders ...ModuleOption) ModuleOption {
	return func(s Collection) error {
		// Execute all builders in order
		for _, builder := range builders {
			if builder == nil {
				continue
			}

			if err := builder(s); err != nil {
				return ModuleError{Module: name, Cause: err}
			}
		}

		return nil
	}
}

// AddSingleton creates a ModuleOption for adding a singleton service.
func AddSingleton(service any, opts ...AddOption) ModuleOption {
	return func(s Collection) error {
		return s.AddSingleton(service, opts...)
	}
}

// AddScoped creates a ModuleOption for adding a scoped service.
func AddScoped(service any, opts ...AddOption) ModuleOption {
	return func(s Collection) error {
		return s.AddScoped(service, opts...)
	}
}

// AddTransient creates a ModuleOption for adding a transient service.
func AddTransient(service any, opts ...AddOption) ModuleOption {
	return func(s Collection) error {
		return s.AddTransient(service, opts...)
	}
}

// AddInstance creates a ModuleOption for adding an existing value.
func AddInstance(instance any, opts ...AddOption) ModuleOption {
	return func(s Collection) error {
		return s.AddInstance(instance, opts...)
	}
}

// AddFactory creates a ModuleOption for adding a factory.
func AddFactory(serviceType reflect.Type, lifetime Lifetime, factory Factory) ModuleOption {
	return func(s Collection) error {
		return s.AddFactory(serviceType, lifetime, factory)
	}
}

// AddDecorator creates a ModuleOption decorating serviceType with a
// decorator constructor or, for an open generic, an Instantiations set.
func AddDecorator(serviceType ServiceType, decorator any) ModuleOption {
	return func(s Collection) error {
		return s.Decorate(serviceType, decorator)
	}
}

// AddDecoratorFunc creates a ModuleOption decorating serviceType with a
// decorator function.
func AddDecoratorFunc(serviceType ServiceType, decorator DecoratorFunc) ModuleOption {
	return func(s Collection) error {
		return s.DecorateFunc(serviceType, decorator)
	}
}

// TryAddDecorator creates a ModuleOption that decorates serviceType if it is
// registered and does nothing otherwise.
func TryAddDecorator(serviceType ServiceType, decorator any) ModuleOption {
	return func(s Collection) error {
		_, err := s.TryDecorate(serviceType, decorator)
		return err
	}
}
