package godi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// These are base errors that should be wrapped in typed errors when returned.

var (
	// Service resolution errors.
	ErrServiceNotFound = errors.New("service not found")
	ErrServiceTypeNil  = errors.New("service type cannot be nil")

	// Lifecycle errors.
	ErrProviderNil       = errors.New("service provider cannot be nil")
	ErrProviderDisposed  = errors.New("service provider has been disposed")
	ErrScopeDisposed     = errors.New("scope has been disposed")
	ErrScopeNotInContext = errors.New("no scope found in context")

	// Validation errors.
	ErrConstructorNil     = errors.New("constructor cannot be nil")
	ErrDescriptorNil      = errors.New("descriptor cannot be nil")
	ErrNoImplementation   = errors.New("descriptor has no factory, constructor or instance")
	ErrDecoratorNil       = errors.New("decorator cannot be nil")
	ErrInvalidDecorator   = errors.New("invalid decorator")
	ErrDecoratedTypeKey   = errors.New("decorated types cannot be registered or decorated directly")
	ErrInstanceNotSingle  = errors.New("instances must be registered as singletons")
	ErrNotAssignable      = errors.New("service is not assignable to the registered type")
	ErrIndexOutOfRange    = errors.New("registration index out of range")
	ErrDecoratorNotClosed = errors.New("no decorator instantiation matches the service type")
)

var (
	_ error = LifetimeError{}
	_ error = MissingTypeRegistrationError{}
	_ error = ResolutionError{}
	_ error = ActivationError{}
	_ error = DecoratorClosureError{}
	_ error = ValidationError{}
	_ error = ModuleError{}
	_ error = TypeMismatchError{}
	_ error = CircularDependencyError{}
	_ error = TimeoutError{}
	_ error = DisposalError{}
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// LifetimeError indicates an invalid service lifetime value.
type LifetimeError struct {
	Value any
}

func (e LifetimeError) Error() string {
	return fmt.Sprintf("invalid service lifetime: %v", e.Value)
}

// MissingTypeRegistrationError is returned by the strict decoration entry
// points when no registration matched the decoration target. It usually means
// the decorator was added before the service it decorates.
type MissingTypeRegistrationError struct {
	ServiceType ServiceType
}

func (e MissingTypeRegistrationError) Error() string {
	return fmt.Sprintf("could not find any registered services for type %s", formatServiceType(e.ServiceType))
}

// Is reports ErrServiceNotFound as a match so callers can treat a missing
// decoration target like any other missing registration.
func (e MissingTypeRegistrationError) Is(target error) bool {
	return target == ErrServiceNotFound
}

// ResolutionError wraps errors that occur during service resolution.
type ResolutionError struct {
	ServiceType ServiceType
	Cause       error
}

func (e ResolutionError) Error() string {
	if e.Cause == nil || e.Cause == ErrServiceNotFound {
		return fmt.Sprintf("service not found: %s", formatServiceType(e.ServiceType))
	}
	return fmt.Sprintf("unable to resolve %s: %v", formatServiceType(e.ServiceType), e.Cause)
}

func (e ResolutionError) Unwrap() error {
	return e.Cause
}

// ActivationError indicates a constructor, factory or decorator failed to
// produce an instance at resolution time.
type ActivationError struct {
	ServiceType ServiceType
	Constructor reflect.Type // nil for factories
	Cause       error
}

func (e ActivationError) Error() string {
	if e.Constructor != nil {
		return fmt.Sprintf("failed to activate %s with %s: %v", formatServiceType(e.ServiceType), formatType(e.Constructor), e.Cause)
	}
	return fmt.Sprintf("failed to activate %s: %v", formatServiceType(e.ServiceType), e.Cause)
}

func (e ActivationError) Unwrap() error {
	return e.Cause
}

// DecoratorClosureError indicates an open generic decoration matched a
// registration but none of the supplied decorator instantiations fits it.
type DecoratorClosureError struct {
	Definition  GenericDefinition
	ServiceType reflect.Type
	Available   []reflect.Type
}

func (e DecoratorClosureError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("cannot close decorator for %s over %s", e.Definition, formatType(e.ServiceType)))

	if len(e.Available) > 0 {
		b.WriteString("; available instantiations:")
		for _, t := range e.Available {
			b.WriteString(" ")
			b.WriteString(formatType(t))
		}
	}

	return b.String()
}

func (e DecoratorClosureError) Unwrap() error {
	return ErrDecoratorNotClosed
}

// ValidationError indicates a validation failure.
type ValidationError struct {
	ServiceType ServiceType
	Cause       error
}

func (e ValidationError) Error() string {
	if e.ServiceType != nil {
		return fmt.Sprintf("%s: %v", formatServiceType(e.ServiceType), e.Cause)
	}
	return e.Cause.Error()
}

func (e ValidationError) Unwrap() error {
	return e.Cause
}

// ModuleError wraps errors from module registration.
type ModuleError struct {
	Module string
	Cause  error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %q: %v", e.Module, e.Cause)
}

func (e ModuleError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError indicates a type assertion or conversion failed.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
	Context  string // "interface implementation", "type assertion", etc.
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Context, formatType(e.Expected), formatType(e.Actual))
}

// CircularDependencyError indicates a service depends on itself through the
// resolution chain.
type CircularDependencyError struct {
	Chain []ServiceType
}

func (e CircularDependencyError) Error() string {
	names := make([]string, len(e.Chain))
	for i, st := range e.Chain {
		names[i] = formatServiceType(st)
	}
	return "circular dependency detected: " + strings.Join(names, " -> ")
}

// TimeoutError indicates building the provider took too long.
type TimeoutError struct {
	Operation string
	Cause     error
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out: %v", e.Operation, e.Cause)
}

func (e TimeoutError) Unwrap() error {
	return e.Cause
}

// DisposalError aggregates the errors of closing owned instances.
type DisposalError struct {
	Context string // "provider" or "scope"
	Errors  []error
}

func (e DisposalError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s disposal failed: %v", e.Context, e.Errors[0])
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s disposal failed with %d errors:", e.Context, len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
	}
	return sb.String()
}

func (e DisposalError) Unwrap() []error {
	return e.Errors
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		// Format pointers as *Type instead of *package.Type
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Slice:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "[]" + elem.Name()
		}
		return t.String()
	case reflect.Func:
		return t.String()
	default:
		// Named types use their short name, generic arguments included
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
