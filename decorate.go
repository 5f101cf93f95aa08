package godi

import "reflect"

// Decorate wraps every registration of T with decorator, a constructor taking
// a T and returning a T.
//
//	godi.Decorate[Greeter](collection, NewLoudGreeter)
func Decorate[T any](c Collection, decorator any) error {
	return c.Decorate(TypeOf[T](), decorator)
}

// TryDecorate is Decorate reporting whether a registration of T was found.
func TryDecorate[T any](c Collection, decorator any) (bool, error) {
	return c.TryDecorate(TypeOf[T](), decorator)
}

// DecorateWith wraps every registration of T with a typed decorator function.
//
//	godi.DecorateWith(collection, func(inner Greeter, sp godi.ServiceProvider) (Greeter, error) {
//	    return &loudGreeter{inner: inner}, nil
//	})
func DecorateWith[T any](c Collection, decorator func(inner T, sp ServiceProvider) (T, error)) error {
	if decorator == nil {
		return ValidationError{ServiceType: TypeOf[T](), Cause: ErrDecoratorNil}
	}
	return c.DecorateFunc(TypeOf[T](), typedDecoratorFunc(decorator))
}

// TryDecorateWith is DecorateWith reporting whether a registration of T was
// found.
func TryDecorateWith[T any](c Collection, decorator func(inner T, sp ServiceProvider) (T, error)) (bool, error) {
	if decorator == nil {
		return false, ValidationError{ServiceType: TypeOf[T](), Cause: ErrDecoratorNil}
	}
	return c.TryDecorateFunc(TypeOf[T](), typedDecoratorFunc(decorator))
}

func typedDecoratorFunc[T any](decorator func(inner T, sp ServiceProvider) (T, error)) DecoratorFunc {
	return func(inner any, sp ServiceProvider) (any, error) {
		typed, ok := inner.(T)
		if !ok && inner != nil {
			return nil, TypeMismatchError{
				Expected: TypeOf[T](),
				Actual:   reflect.TypeOf(inner),
				Context:  "decorated instance",
			}
		}

		return decorator(typed, sp)
	}
}
