package reflection

import (
	"errors"
	"fmt"
	"reflect"
	"runtime/debug"
)

// ErrUnboundArgument is returned when a supplied argument fits no parameter.
var ErrUnboundArgument = errors.New("no parameter accepts the supplied argument")

// DependencyResolver resolves constructor dependencies by type.
type DependencyResolver interface {
	Resolve(t reflect.Type) (any, error)
	Contains(t reflect.Type) bool
}

// Argument is a value supplied by the caller instead of being resolved.
// It binds to the first unbound positional parameter that Type is
// assignable to.
type Argument struct {
	Type  reflect.Type
	Value any
}

// PanicError reports a constructor that panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("constructor panicked: %v", e.Value)
}

// Invoker calls constructors with resolved dependencies.
type Invoker struct {
	analyzer *Analyzer
}

// NewInvoker creates a new constructor invoker.
func NewInvoker(analyzer *Analyzer) *Invoker {
	if analyzer == nil {
		analyzer = New()
	}
	return &Invoker{analyzer: analyzer}
}

// Analyzer returns the analyzer used by the invoker.
func (iv *Invoker) Analyzer() *Analyzer {
	return iv.analyzer
}

// Invoke analyzes and calls constructor.
func (iv *Invoker) Invoke(constructor any, resolver DependencyResolver, args ...Argument) (any, error) {
	info, err := iv.analyzer.Analyze(constructor)
	if err != nil {
		return nil, err
	}
	return iv.Call(info, resolver, args...)
}

// Call calls an analyzed constructor. Supplied arguments are bound first,
// every remaining parameter is resolved through resolver.
func (iv *Invoker) Call(info *ConstructorInfo, resolver DependencyResolver, args ...Argument) (any, error) {
	if resolver == nil {
		return nil, fmt.Errorf("resolver cannot be nil")
	}

	var (
		in  []reflect.Value
		err error
	)

	if info.IsParamObject {
		if len(args) > 0 {
			return nil, fmt.Errorf("parameter object constructors cannot take supplied arguments: %w", ErrUnboundArgument)
		}
		in, err = iv.buildParamObject(info, resolver)
	} else {
		in, err = iv.buildArguments(info, resolver, args)
	}
	if err != nil {
		return nil, err
	}

	results, err := call(info.Value, in)
	if err != nil {
		return nil, err
	}

	if info.HasErrorReturn {
		if errValue := results[1]; !errValue.IsNil() {
			return nil, errValue.Interface().(error)
		}
	}

	return results[0].Interface(), nil
}

// buildArguments binds supplied arguments and resolves the rest.
func (iv *Invoker) buildArguments(info *ConstructorInfo, resolver DependencyResolver, args []Argument) ([]reflect.Value, error) {
	in := make([]reflect.Value, len(info.Parameters))

	for _, arg := range args {
		bound := false
		for i, param := range info.Parameters {
			if in[i].IsValid() || !arg.Type.AssignableTo(param.Type) {
				continue
			}

			value, err := valueOf(arg.Value, param.Type)
			if err != nil {
				return nil, fmt.Errorf("parameter %d (%v): %w", i, param.Type, err)
			}

			in[i] = value
			bound = true
			break
		}

		if !bound {
			return nil, fmt.Errorf("%v: %w", arg.Type, ErrUnboundArgument)
		}
	}

	for i, param := range info.Parameters {
		if in[i].IsValid() {
			continue
		}

		dep, err := resolver.Resolve(param.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %d (%v): %w", i, param.Type, err)
		}

		value, err := valueOf(dep, param.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %d (%v): %w", i, param.Type, err)
		}

		in[i] = value
	}

	return in, nil
}

// buildParamObject creates and populates an In struct.
func (iv *Invoker) buildParamObject(info *ConstructorInfo, resolver DependencyResolver) ([]reflect.Value, error) {
	structValue := reflect.New(info.Type.In(0)).Elem()

	for _, param := range info.Parameters {
		if param.Optional && !resolver.Contains(param.Type) {
			continue
		}

		dep, err := resolver.Resolve(param.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s (%v): %w", param.Name, param.Type, err)
		}

		value, err := valueOf(dep, param.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s (%v): %w", param.Name, param.Type, err)
		}

		structValue.Field(param.Index).Set(value)
	}

	return []reflect.Value{structValue}, nil
}

// valueOf converts a resolved value to the parameter type. A nil value
// becomes the zero value of nillable parameter types.
func valueOf(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("nil value for non-nillable type %v", t)
	}

	value := reflect.ValueOf(v)
	if !value.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("value of type %v is not assignable to %v", value.Type(), t)
	}

	return value, nil
}

// call invokes fn, converting a panic into a PanicError.
func call(fn reflect.Value, in []reflect.Value) (results []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	return fn.Call(in), nil
}
