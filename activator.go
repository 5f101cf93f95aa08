package godi

import (
	"reflect"

	"github.com/junioryono/godi/v5/internal/reflection"
)

// Argument is a value passed to CreateInstance instead of being resolved.
// It binds to the first unbound constructor parameter its Type is assignable
// to.
type Argument = reflection.Argument

// Arg builds an Argument typed as T.
//
//	godi.CreateInstance(sp, NewRetryingClient, godi.Arg[Client](inner))
func Arg[T any](value T) Argument {
	return Argument{Type: TypeOf[T](), Value: value}
}

// CreateInstance calls constructor, binding args to their parameters and
// resolving every other parameter from sp. The constructor does not need to
// be registered.
//
// A decorator constructor is activated this way with the decorated instance
// as the single argument, so the instance goes to the first parameter the
// decorated service type is assignable to.
func CreateInstance(sp ServiceProvider, constructor any, args ...Argument) (any, error) {
	if sp == nil {
		return nil, ActivationError{Cause: ErrProviderNil}
	}

	if constructor == nil {
		return nil, ActivationError{Cause: ErrConstructorNil}
	}

	info, err := defaultInvoker.Analyzer().Analyze(constructor)
	if err != nil {
		return nil, ActivationError{Constructor: reflect.TypeOf(constructor), Cause: err}
	}

	instance, err := defaultInvoker.Call(info, providerResolver{sp: sp}, args...)
	if err != nil {
		return nil, ActivationError{ServiceType: info.ResultType, Constructor: info.Type, Cause: err}
	}

	return instance, nil
}

// activateDecorator builds a decorator around inner and checks that the
// result can stand in for serviceType.
func activateDecorator(sp ServiceProvider, serviceType reflect.Type, constructor any, inner any) (any, error) {
	decorated, err := CreateInstance(sp, constructor, Argument{Type: serviceType, Value: inner})
	if err != nil {
		return nil, err
	}

	if decorated == nil || !reflect.TypeOf(decorated).AssignableTo(serviceType) {
		return nil, TypeMismatchError{
			Expected: serviceType,
			Actual:   reflect.TypeOf(decorated),
			Context:  "decorator result",
		}
	}

	return decorated, nil
}

// providerResolver adapts a ServiceProvider to constructor injection.
type providerResolver struct {
	sp ServiceProvider
}

func (r providerResolver) Resolve(t reflect.Type) (any, error) {
	return r.sp.GetService(t)
}

func (r providerResolver) Contains(t reflect.Type) bool {
	return r.sp.Contains(t)
}
