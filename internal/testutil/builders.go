package testutil

import (
	"context"
	"testing"

	"github.com/junioryono/godi/v5"
	"github.com/stretchr/testify/require"
)

// CollectionBuilder provides a fluent interface for building test collections.
// Every registration must succeed.
type CollectionBuilder struct {
	t          *testing.T
	collection godi.Collection
}

// NewCollectionBuilder creates a new CollectionBuilder.
func NewCollectionBuilder(t *testing.T, opts ...godi.CollectionOption) *CollectionBuilder {
	return &CollectionBuilder{
		t:          t,
		collection: godi.NewCollection(opts...),
	}
}

// WithSingleton adds a singleton service.
func (b *CollectionBuilder) WithSingleton(constructor any, opts ...godi.AddOption) *CollectionBuilder {
	require.NoError(b.t, b.collection.AddSingleton(constructor, opts...))
	return b
}

// WithScoped adds a scoped service.
func (b *CollectionBuilder) WithScoped(constructor any, opts ...godi.AddOption) *CollectionBuilder {
	require.NoError(b.t, b.collection.AddScoped(constructor, opts...))
	return b
}

// WithTransient adds a transient service.
func (b *CollectionBuilder) WithTransient(constructor any, opts ...godi.AddOption) *CollectionBuilder {
	require.NoError(b.t, b.collection.AddTransient(constructor, opts...))
	return b
}

// WithDecorator decorates serviceType.
func (b *CollectionBuilder) WithDecorator(serviceType godi.ServiceType, decorator any) *CollectionBuilder {
	require.NoError(b.t, b.collection.Decorate(serviceType, decorator))
	return b
}

// WithModule applies a module.
func (b *CollectionBuilder) WithModule(module godi.ModuleOption) *CollectionBuilder {
	require.NoError(b.t, b.collection.AddModules(module))
	return b
}

// Collection returns the collection built so far.
func (b *CollectionBuilder) Collection() godi.Collection {
	return b.collection
}

// BuildProvider builds the provider and closes it when the test ends.
func (b *CollectionBuilder) BuildProvider(opts ...*godi.ProviderOptions) godi.Provider {
	var options *godi.ProviderOptions
	if len(opts) > 0 {
		options = opts[0]
	}

	provider, err := b.collection.BuildWithOptions(options)
	require.NoError(b.t, err, "failed to build provider")

	b.t.Cleanup(func() {
		_ = provider.Close()
	})

	return provider
}

// BuildScope builds the provider and opens a scope on it.
func (b *CollectionBuilder) BuildScope(ctx context.Context) godi.Scope {
	provider := b.BuildProvider()

	scope, err := provider.CreateScope(ctx)
	require.NoError(b.t, err, "failed to create scope")

	b.t.Cleanup(func() {
		_ = scope.Close()
	})

	return scope
}

// StoreModule registers a Store with its database and logger.
func StoreModule(lifetime godi.Lifetime) godi.ModuleOption {
	add := godi.AddSingleton
	switch lifetime {
	case godi.Scoped:
		add = godi.AddScoped
	case godi.Transient:
		add = godi.AddTransient
	}

	return godi.NewModule("store",
		godi.AddSingleton(NewLogger),
		godi.AddSingleton(NewDatabase),
		add(NewStore),
	)
}
