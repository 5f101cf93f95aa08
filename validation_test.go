package godi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDecoration(t *testing.T) {
	t.Parallel()

	greeterType := TypeOf[Greeter]()
	cacheDefinition := OpenGeneric[Cache[any]]()
	fn := func(inner any, _ ServiceProvider) (any, error) { return inner, nil }

	tests := []struct {
		name      string
		st        ServiceType
		decorator any
		fn        DecoratorFunc
		wantErr   error
	}{
		{name: "constructor", st: greeterType, decorator: NewLoudGreeter},
		{name: "constructor with dependencies", st: greeterType, decorator: NewSuffixGreeter},
		{name: "function", st: greeterType, fn: fn},
		{name: "function for open generic", st: cacheDefinition, fn: fn},
		{name: "instantiations", st: cacheDefinition, decorator: Generic(NewRecordingCache[int])},
		{name: "single instantiation", st: cacheDefinition, decorator: NewRecordingCache[int]},
		{name: "nil type", decorator: NewLoudGreeter, wantErr: ErrServiceTypeNil},
		{name: "nil type with function", fn: fn, wantErr: ErrServiceTypeNil},
		{name: "decorated type", st: DecoratedType{Inner: greeterType}, fn: fn, wantErr: ErrDecoratedTypeKey},
		{name: "no decorator", st: greeterType, wantErr: ErrDecoratorNil},
		{name: "variadic", st: greeterType, decorator: func(inner ...Greeter) Greeter { return inner[0] }, wantErr: ErrInvalidDecorator},
		{name: "no result", st: greeterType, decorator: func(Greeter) {}, wantErr: ErrInvalidDecorator},
		{name: "instantiations for closed type", st: greeterType, decorator: Generic(NewLoudGreeter), wantErr: ErrInvalidDecorator},
		{name: "invalid instantiation", st: cacheDefinition, decorator: Generic(NewRecordingCache[int], 1), wantErr: ErrInvalidDecorator},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateDecoration(tt.st, tt.decorator, tt.fn)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			var validationErr ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateLifetimes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modules []ModuleOption
		wantErr bool
	}{
		{
			name:    "singleton on singleton",
			modules: []ModuleOption{AddSingleton(NewTService), AddSingleton(NewTDependency), AddSingleton(NewTServiceWithDeps)},
		},
		{
			name:    "scoped on singleton",
			modules: []ModuleOption{AddSingleton(NewTService), AddSingleton(NewTDependency), AddScoped(NewTServiceWithDeps)},
		},
		{
			name:    "singleton on transient",
			modules: []ModuleOption{AddTransient(NewTService), AddTransient(NewTDependency), AddSingleton(NewTServiceWithDeps)},
		},
		{
			name:    "singleton on scoped",
			modules: []ModuleOption{AddScoped(NewTService), AddSingleton(NewTDependency), AddSingleton(NewTServiceWithDeps)},
			wantErr: true,
		},
		{
			name: "last registration decides",
			modules: []ModuleOption{
				AddScoped(NewTService),
				AddSingleton(NewTService),
				AddSingleton(NewTDependency),
				AddSingleton(NewTServiceWithDeps),
			},
		},
		{
			name: "singleton factory is not inspected",
			modules: []ModuleOption{
				AddScoped(NewTService),
				AddFactory(TypeOf[*TServiceWithDeps](), Singleton, func(sp ServiceProvider) (any, error) {
					return &TServiceWithDeps{}, nil
				}),
			},
		},
		{
			name:    "param object field",
			modules: []ModuleOption{AddScoped(NewTService), AddSingleton(NewTFromParams)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := BuildCollection(t, tt.modules...).Build()
			if tt.wantErr {
				var validationErr ValidationError
				assert.ErrorAs(t, err, &validationErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateLifetimes_DecoratedSingleton(t *testing.T) {
	t.Parallel()

	// Decorated registrations are factories and are not inspected. A scoped
	// dependency of a singleton decorator comes from the root scope.
	c := BuildCollection(t,
		AddScoped(NewTDependency),
		AddSingleton(NewGreeter),
		AddDecorator(TypeOf[Greeter](), NewSuffixGreeter),
	)

	p := BuildProviderFrom(t, c)
	g := RequireResolve[Greeter](t, p)
	assert.Equal(t, "hello, bob from dep", g.Greet("bob"))
}
