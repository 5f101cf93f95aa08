package godi

import (
	"fmt"
	"reflect"

	"github.com/junioryono/godi/v5/internal/generics"
)

// ServiceType is the key a descriptor is registered under and services are
// resolved by. It is one of:
//
//   - a reflect.Type, for ordinary closed service types (see TypeOf);
//   - a DecoratedType, the key decoration moves an original registration to;
//   - a GenericDefinition, which names an open generic type and is only
//     meaningful as a decoration target.
//
// All three are comparable and usable as map keys.
type ServiceType interface {
	String() string
}

var (
	_ ServiceType = reflect.Type(nil)
	_ ServiceType = DecoratedType{}
	_ ServiceType = GenericDefinition{}
)

// TypeOf returns the reflect.Type of T. It works for interface types, which
// reflect.TypeOf cannot express from a value.
//
//	godi.TypeOf[Greeter]()
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// DecoratedType wraps the service type of a registration that has been
// decorated. The original registration is re-keyed under it so the decorator
// can resolve the instance that was registered before decoration.
//
// Two DecoratedType values are equal iff their inner types are equal. A
// DecoratedType is never equal to a reflect.Type, so it cannot collide with
// user registrations.
type DecoratedType struct {
	Inner reflect.Type
}

// String returns a readable name for diagnostics.
func (d DecoratedType) String() string {
	return "Decorated[" + formatType(d.Inner) + "]"
}

// GenericDefinition identifies an open generic type, such as Cache[T]
// regardless of T, by the package and base name of its instantiations.
type GenericDefinition struct {
	PkgPath string
	Name    string
}

// OpenGeneric returns the generic definition of the instantiated type T.
// Any instantiation works, by convention with any:
//
//	godi.OpenGeneric[Cache[any]]()
//
// The definition matches the named instantiations only. A constructor
// returning *Box[int] registers a pointer type, which the definition of Box
// does not match; decorate it by its closed type instead.
//
// It panics if T is not an instantiation of a generic type.
func OpenGeneric[T any]() GenericDefinition {
	def, err := GenericDefinitionOf(TypeOf[T]())
	if err != nil {
		panic(err)
	}
	return def
}

// GenericDefinitionOf returns the generic definition t instantiates.
func GenericDefinitionOf(t reflect.Type) (GenericDefinition, error) {
	if t == nil {
		return GenericDefinition{}, ErrServiceTypeNil
	}

	sig, ok := generics.Parse(t)
	if !ok || !sig.IsInstantiation() {
		return GenericDefinition{}, ValidationError{
			ServiceType: t,
			Cause:       fmt.Errorf("%v is not an instantiation of a generic type", t),
		}
	}

	return GenericDefinition{PkgPath: sig.PkgPath, Name: sig.Name}, nil
}

// Matches reports whether t is an instantiation of the definition, with any
// type arguments. Pointers to instantiations do not match.
func (g GenericDefinition) Matches(t reflect.Type) bool {
	sig, ok := generics.Parse(t)
	if !ok || !sig.IsInstantiation() {
		return false
	}

	return sig.PkgPath == g.PkgPath && sig.Name == g.Name
}

// String returns the definition as Name[...].
func (g GenericDefinition) String() string {
	if g.PkgPath == "" {
		return g.Name + "[...]"
	}
	return g.PkgPath + "." + g.Name + "[...]"
}

// IsOpenGeneric reports whether serviceType names an open generic definition.
func IsOpenGeneric(serviceType ServiceType) bool {
	_, ok := serviceType.(GenericDefinition)
	return ok
}

// IsDecorated reports whether serviceType is the key of a decorated original.
func IsDecorated(serviceType ServiceType) bool {
	_, ok := serviceType.(DecoratedType)
	return ok
}

// formatServiceType formats any service type for error messages.
func formatServiceType(serviceType ServiceType) string {
	switch st := serviceType.(type) {
	case nil:
		return "<nil>"
	case reflect.Type:
		return formatType(st)
	default:
		return st.String()
	}
}
