package godi

import (
	"reflect"
)

// DecoratorFunc wraps the instance that was registered before decoration.
// It runs at resolution time with the provider resolving the decorated
// service.
type DecoratorFunc func(inner any, sp ServiceProvider) (any, error)

// Instantiations decorates an open generic service type. Go cannot
// instantiate a generic constructor at runtime, so the decorator is given as
// the instantiations of one generic constructor that the application needs:
//
//	godi.Generic(NewLoggingCache[string], NewLoggingCache[int])
//
// Each decorated registration is paired with the instantiation that fits its
// type arguments; see closeOver.
type Instantiations []any

// Generic collects instantiations of a generic decorator constructor.
func Generic(constructors ...any) Instantiations {
	return Instantiations(constructors)
}

// closeOver picks the instantiation decorating serviceType. Rules are tried
// in order over all instantiations, first match wins:
//  1. a parameter and a result of exactly serviceType;
//  2. a parameter of exactly serviceType and a result assignable to it;
//  3. a result of exactly serviceType;
//  4. a result assignable to serviceType and a parameter serviceType is
//     assignable to.
//
// A parameter alone never selects an instantiation.
func (inst Instantiations) closeOver(serviceType reflect.Type) (any, bool) {
	takes := func(fn reflect.Type, match func(in reflect.Type) bool) bool {
		for i := 0; i < fn.NumIn(); i++ {
			if match(fn.In(i)) {
				return true
			}
		}
		return false
	}
	exact := func(t reflect.Type) bool { return t == serviceType }
	accepts := func(t reflect.Type) bool { return serviceType.AssignableTo(t) }

	rules := []func(fn reflect.Type) bool{
		func(fn reflect.Type) bool {
			return fn.NumOut() > 0 && fn.Out(0) == serviceType && takes(fn, exact)
		},
		func(fn reflect.Type) bool {
			return fn.NumOut() > 0 && fn.Out(0).AssignableTo(serviceType) && takes(fn, exact)
		},
		func(fn reflect.Type) bool {
			return fn.NumOut() > 0 && fn.Out(0) == serviceType
		},
		func(fn reflect.Type) bool {
			return fn.NumOut() > 0 && fn.Out(0).AssignableTo(serviceType) && takes(fn, accepts)
		},
	}

	for _, rule := range rules {
		for _, constructor := range inst {
			fn := reflect.TypeOf(constructor)
			if fn == nil || fn.Kind() != reflect.Func {
				continue
			}
			if rule(fn) {
				return constructor, true
			}
		}
	}

	return nil, false
}

func (inst Instantiations) types() []reflect.Type {
	types := make([]reflect.Type, 0, len(inst))
	for _, constructor := range inst {
		types = append(types, reflect.TypeOf(constructor))
	}
	return types
}

// decoratorStrategy decides which registrations a decoration applies to and
// builds the factory replacing each of them.
type decoratorStrategy interface {
	// ServiceType is the decoration target.
	ServiceType() ServiceType

	// CanDecorate reports whether a registration keyed by serviceType is
	// eligible.
	CanDecorate(serviceType ServiceType) bool

	// CreateDecorator returns the factory for the decorated registration. It
	// resolves the ordinal-th registration of decorated and wraps it.
	CreateDecorator(decorated DecoratedType, ordinal int) Factory
}

// closedTypeStrategy decorates registrations of exactly one service type.
type closedTypeStrategy struct {
	serviceType      ServiceType
	decoratorType    any
	decoratorFactory DecoratorFunc
}

func (s closedTypeStrategy) ServiceType() ServiceType {
	return s.serviceType
}

func (s closedTypeStrategy) CanDecorate(serviceType ServiceType) bool {
	return serviceType == s.serviceType
}

func (s closedTypeStrategy) CreateDecorator(decorated DecoratedType, ordinal int) Factory {
	if s.decoratorFactory != nil {
		return wrapWithFunc(decorated, ordinal, s.decoratorFactory)
	}
	return wrapWithConstructor(decorated, ordinal, s.decoratorType)
}

// openGenericStrategy decorates every instantiation of a generic definition.
type openGenericStrategy struct {
	definition       GenericDefinition
	decoratorType    Instantiations
	decoratorFactory DecoratorFunc
}

func (s openGenericStrategy) ServiceType() ServiceType {
	return s.definition
}

func (s openGenericStrategy) CanDecorate(serviceType ServiceType) bool {
	t, ok := serviceType.(reflect.Type)
	return ok && s.definition.Matches(t)
}

func (s openGenericStrategy) CreateDecorator(decorated DecoratedType, ordinal int) Factory {
	if s.decoratorFactory != nil {
		return wrapWithFunc(decorated, ordinal, s.decoratorFactory)
	}

	constructor, ok := s.decoratorType.closeOver(decorated.Inner)
	if !ok {
		// Reported when the service is resolved, like any other activation failure
		closureErr := DecoratorClosureError{
			Definition:  s.definition,
			ServiceType: decorated.Inner,
			Available:   s.decoratorType.types(),
		}
		return func(ServiceProvider) (any, error) {
			return nil, closureErr
		}
	}

	return wrapWithConstructor(decorated, ordinal, constructor)
}

func wrapWithFunc(decorated DecoratedType, ordinal int, fn DecoratorFunc) Factory {
	return func(sp ServiceProvider) (any, error) {
		inner, err := sp.GetServiceAt(decorated, ordinal)
		if err != nil {
			return nil, err
		}
		return fn(inner, sp)
	}
}

func wrapWithConstructor(decorated DecoratedType, ordinal int, constructor any) Factory {
	return func(sp ServiceProvider) (any, error) {
		inner, err := sp.GetServiceAt(decorated, ordinal)
		if err != nil {
			return nil, err
		}
		return activateDecorator(sp, decorated.Inner, constructor, inner)
	}
}
