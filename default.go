package godi

import "sync/atomic"

type providerHolder struct {
	provider ServiceProvider
}

// defaultProvider holds the default ServiceProvider.
var defaultProvider atomic.Pointer[providerHolder]

// SetDefaultServiceProvider sets the default ServiceProvider used by
// ResolveDefault. This is similar to slog.SetDefault.
// Pass nil to remove the default provider.
func SetDefaultServiceProvider(provider ServiceProvider) {
	if provider == nil {
		defaultProvider.Store(nil)
		return
	}
	defaultProvider.Store(&providerHolder{provider: provider})
}

// DefaultServiceProvider returns the current default ServiceProvider.
// Returns nil if no default provider has been set.
func DefaultServiceProvider() ServiceProvider {
	holder := defaultProvider.Load()
	if holder == nil {
		return nil
	}
	return holder.provider
}

// ResolveDefault resolves T from the default ServiceProvider.
func ResolveDefault[T any]() (T, error) {
	sp := DefaultServiceProvider()
	if sp == nil {
		var zero T
		return zero, ErrProviderNil
	}
	return Resolve[T](sp)
}
