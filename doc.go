// Package godi provides a dependency injection container for Go applications
// with first-class service decoration.
// It offers familiar patterns for developers coming from .NET and other DI frameworks,
// while maintaining idiomatic Go code.
//
// # Overview
//
// godi makes dependency injection in Go simple and familiar. The library provides:
//   - Three service lifetimes: Singleton, Scoped, and Transient
//   - Constructor injection with automatic wiring
//   - Decoration of registered services, including open generic types
//   - Module system for organizing services
//   - Thread-safe providers and scopes
//
// # Basic Usage
//
// Create a service collection, register your services, build a provider, and resolve:
//
//	services := godi.NewCollection()
//	services.AddSingleton(NewLogger)
//	services.AddScoped(NewUserService)
//
//	provider, err := services.Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	userService, err := godi.Resolve[*UserService](provider)
//
// # Service Lifetimes
//
// godi supports three service lifetimes:
//
//   - Singleton: One instance created and shared across the entire application
//   - Scoped: One instance per scope (useful for per-request isolation in web apps)
//   - Transient: New instance created every time the service is requested
//
// # Multiple Registrations
//
// A service type can be registered more than once. Resolving it returns the
// last registration; GetServices and ResolveAll return all of them in
// registration order:
//
//	services.AddSingleton(NewConsoleSink, godi.As[Sink]())
//	services.AddSingleton(NewFileSink, godi.As[Sink]())
//
//	sinks, err := godi.ResolveAll[Sink](provider)
//
// # Decorators
//
// Decoration wraps every registration of a service type. A decorator is a
// constructor taking the decorated service; its other parameters are
// resolved from the provider:
//
//	func NewLoggingStore(inner Store, logger Logger) Store {
//	    return &loggingStore{inner: inner, logger: logger}
//	}
//
//	services.AddScoped(NewStore, godi.As[Store]())
//	services.Decorate(godi.TypeOf[Store](), NewLoggingStore)
//
// Decoration rewrites the registrations already in the collection, so it
// must come after them. Each original registration moves to a DecoratedType
// key and is replaced in place by a factory that wraps it, with the same
// lifetime. Decorating again wraps the previous decorator. TryDecorate
// reports whether anything was decorated instead of failing with a
// MissingTypeRegistrationError.
//
// Decorator functions receive the inner instance directly:
//
//	godi.DecorateWith(services, func(inner Store, sp godi.ServiceProvider) (Store, error) {
//	    return &countingStore{inner: inner}, nil
//	})
//
// # Open Generic Decorators
//
// An open generic service type, such as Cache[T] for every T, is named with
// OpenGeneric. Its decorator lists the instantiations of a generic
// constructor the application uses; each registered Cache[X] is wrapped by
// the instantiation that fits it:
//
//	services.Decorate(godi.OpenGeneric[Cache[any]](),
//	    godi.Generic(NewLoggingCache[string], NewLoggingCache[int]))
//
// # Modules
//
// Organize service registrations into reusable modules:
//
//	var DatabaseModule = godi.NewModule("database",
//	    godi.AddSingleton(NewDatabaseConnection),
//	    godi.AddScoped(NewUserRepository, godi.As[UserRepository]()),
//	    godi.AddDecorator(godi.TypeOf[UserRepository](), NewCachingUserRepository),
//	)
//
//	services.AddModules(DatabaseModule)
//
// # Scopes
//
// Create isolated scopes for request-scoped services:
//
//	http.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
//	    scope, err := provider.CreateScope(r.Context())
//	    if err != nil {
//	        http.Error(w, err.Error(), http.StatusInternalServerError)
//	        return
//	    }
//	    defer scope.Close()
//
//	    // Services resolved in this scope are isolated
//	    service, _ := godi.Resolve[*UserService](scope)
//	})
//
// # Configuration and Logging
//
// ProviderOptions can be loaded with viper through LoadProviderOptions, and
// a zerolog logger passed with WithLogger records registrations, decorations
// and scope lifecycles at debug level.
//
// # Thread Safety
//
// Provider and Scope can be used from multiple goroutines concurrently.
// Collection and Decorator are meant for single-goroutine configuration
// before Build.
//
// # Error Handling
//
// godi provides detailed error types for different failure scenarios:
//   - MissingTypeRegistrationError: Nothing to decorate
//   - CircularDependencyError: Circular dependency detected
//   - ResolutionError: Service resolution failed
//   - ActivationError: A constructor, factory or decorator failed
//   - ValidationError: Service validation failed
package godi
