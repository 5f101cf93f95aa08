package godi

import (
	"testing"

	"github.com/junioryono/godi/v5/internal/reflection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInstance(t *testing.T) {
	t.Parallel()

	t.Run("resolves parameters", func(t *testing.T) {
		t.Parallel()

		p := BuildProvider(t, AddSingleton(NewTService), AddSingleton(NewTDependency))

		instance, err := CreateInstance(p, NewTServiceWithDeps)
		require.NoError(t, err)

		withDeps := instance.(*TServiceWithDeps)
		assert.Same(t, RequireResolve[*TService](t, p), withDeps.Svc)
		assert.Same(t, RequireResolve[*TDependency](t, p), withDeps.Dep)
	})

	t.Run("binds arguments", func(t *testing.T) {
		t.Parallel()

		p := BuildProvider(t, AddSingleton(NewTService))
		dep := &TDependency{Name: "supplied"}

		instance, err := CreateInstance(p, NewTServiceWithDeps, Arg(dep))
		require.NoError(t, err)
		assert.Same(t, dep, instance.(*TServiceWithDeps).Dep)
		assert.False(t, p.Contains(TypeOf[*TDependency]()))
	})

	t.Run("binds to the first assignable parameter", func(t *testing.T) {
		t.Parallel()

		p := BuildProvider(t, AddSingleton(NewGreeterWith("resolved")))
		first := NewGreeterWith("first")()

		instance, err := CreateInstance(p, func(a, b Greeter) *TService {
			return &TService{ID: a.Greet("a") + " " + b.Greet("b")}
		}, Arg(first))
		require.NoError(t, err)
		assert.Equal(t, "first, a resolved, b", instance.(*TService).ID)
	})

	t.Run("unbound argument", func(t *testing.T) {
		t.Parallel()

		p := BuildProvider(t)

		_, err := CreateInstance(p, NewTService, Arg(&TDependency{}))
		var activationErr ActivationError
		require.ErrorAs(t, err, &activationErr)
		assert.ErrorIs(t, err, reflection.ErrUnboundArgument)
	})

	t.Run("missing dependency", func(t *testing.T) {
		t.Parallel()

		p := BuildProvider(t)

		_, err := CreateInstance(p, NewTServiceWithDeps)
		assert.True(t, IsNotFound(err))
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()

		p := BuildProvider(t)

		_, err := CreateInstance(nil, NewTService)
		assert.ErrorIs(t, err, ErrProviderNil)

		_, err = CreateInstance(p, nil)
		assert.ErrorIs(t, err, ErrConstructorNil)

		_, err = CreateInstance(p, "not a function")
		var activationErr ActivationError
		assert.ErrorAs(t, err, &activationErr)
	})

	t.Run("constructor error", func(t *testing.T) {
		t.Parallel()

		p := BuildProvider(t)

		_, err := CreateInstance(p, NewTServiceError)
		var activationErr ActivationError
		require.ErrorAs(t, err, &activationErr)
		assert.Equal(t, TypeOf[*TService](), activationErr.ServiceType)
	})
}

func TestArg(t *testing.T) {
	t.Parallel()

	g := NewGreeter()
	arg := Arg(g)
	assert.Equal(t, TypeOf[Greeter](), arg.Type, "typed by the type parameter, not the dynamic type")
	assert.Same(t, g, arg.Value)
}

func TestActivateDecorator(t *testing.T) {
	t.Parallel()

	p := BuildProvider(t, AddSingleton(NewTDependency))
	greeterType := TypeOf[Greeter]()
	inner := NewGreeter()

	t.Run("wraps the instance", func(t *testing.T) {
		t.Parallel()

		decorated, err := activateDecorator(p, greeterType, NewSuffixGreeter, inner)
		require.NoError(t, err)
		assert.Equal(t, "hello, bob from dep", decorated.(Greeter).Greet("bob"))
	})

	t.Run("result must fit the service type", func(t *testing.T) {
		t.Parallel()

		_, err := activateDecorator(p, greeterType, func(inner Greeter) *TService {
			return &TService{}
		}, inner)

		var mismatch TypeMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, greeterType, mismatch.Expected)
		assert.Equal(t, TypeOf[*TService](), mismatch.Actual)
	})

	t.Run("nil result", func(t *testing.T) {
		t.Parallel()

		_, err := activateDecorator(p, greeterType, func(inner Greeter) Greeter { return nil }, inner)

		var mismatch TypeMismatchError
		assert.ErrorAs(t, err, &mismatch)
	})
}
