package godi

import (
	"errors"
	"fmt"
	"reflect"
)

// Resolve is a generic helper function that resolves a service as type T.
func Resolve[T any](sp ServiceProvider) (T, error) {
	var zero T

	if sp == nil {
		return zero, ErrProviderNil
	}

	instance, err := sp.GetService(TypeOf[T]())
	if err != nil {
		return zero, err
	}

	return assertType[T](instance, "resolved service")
}

// ResolveAll resolves every registration of T in registration order.
func ResolveAll[T any](sp ServiceProvider) ([]T, error) {
	if sp == nil {
		return nil, ErrProviderNil
	}

	instances, err := sp.GetServices(TypeOf[T]())
	if err != nil {
		return nil, err
	}

	results := make([]T, 0, len(instances))
	for i, instance := range instances {
		result, err := assertType[T](instance, fmt.Sprintf("resolved service %d", i))
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

// MustResolve resolves a service and panics on error.
func MustResolve[T any](sp ServiceProvider) T {
	result, err := Resolve[T](sp)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", formatType(TypeOf[T]()), err))
	}
	return result
}

// MustResolveAll resolves every registration of T and panics on error.
func MustResolveAll[T any](sp ServiceProvider) []T {
	results, err := ResolveAll[T](sp)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve all %s: %v", formatType(TypeOf[T]()), err))
	}
	return results
}

// IsRegistered checks if a service type can be resolved from sp.
func IsRegistered[T any](sp ServiceProvider) bool {
	return sp != nil && sp.Contains(TypeOf[T]())
}

func assertType[T any](instance any, context string) (T, error) {
	var zero T

	// A nil instance stands for the zero value of interface and pointer types
	if instance == nil {
		return zero, nil
	}

	result, ok := instance.(T)
	if !ok {
		return zero, TypeMismatchError{
			Expected: TypeOf[T](),
			Actual:   reflect.TypeOf(instance),
			Context:  context,
		}
	}

	return result, nil
}

// IsCircularDependencyError reports whether err is caused by a circular
// dependency.
func IsCircularDependencyError(err error) bool {
	var circErr CircularDependencyError
	return errors.As(err, &circErr)
}

// IsNotFound reports whether err is caused by a missing registration.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrServiceNotFound)
}
