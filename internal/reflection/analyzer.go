package reflection

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/dig"
)

// In marks a parameter object. A constructor taking a single struct that
// embeds In (or dig.In) gets every exported field resolved individually.
type In struct{}

var (
	inType  = reflect.TypeOf((*In)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// Analyzer performs reflection-based analysis of constructors.
// Results depend only on the function signature and are cached per type.
type Analyzer struct {
	mu    sync.RWMutex
	cache map[reflect.Type]*ConstructorInfo
}

// ConstructorInfo contains analyzed information about a constructor function.
type ConstructorInfo struct {
	Type           reflect.Type
	Value          reflect.Value
	Parameters     []ParameterInfo
	ResultType     reflect.Type // First non-error return
	HasErrorReturn bool         // Returns error as last value
	IsParamObject  bool         // Single In or dig.In struct parameter
}

// ParameterInfo describes a constructor parameter or a field of an In struct.
type ParameterInfo struct {
	Type     reflect.Type
	Name     string // Field name for In structs
	Index    int    // Parameter index or field index
	Optional bool   // From optional:"true" tag
}

// New creates a new Analyzer.
func New() *Analyzer {
	return &Analyzer{
		cache: make(map[reflect.Type]*ConstructorInfo),
	}
}

// Analyze analyzes a constructor function and extracts its parameters and
// service type.
func (a *Analyzer) Analyze(constructor any) (*ConstructorInfo, error) {
	if constructor == nil {
		return nil, fmt.Errorf("constructor cannot be nil")
	}

	val := reflect.ValueOf(constructor)
	if val.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function, got %v", val.Type())
	}
	if val.IsNil() {
		return nil, fmt.Errorf("constructor cannot be nil")
	}

	a.mu.RLock()
	cached, ok := a.cache[val.Type()]
	a.mu.RUnlock()
	if ok {
		return cached.withValue(val), nil
	}

	info := &ConstructorInfo{Type: val.Type()}

	if err := a.analyzeParameters(info); err != nil {
		return nil, fmt.Errorf("failed to analyze parameters: %w", err)
	}

	if err := a.analyzeReturns(info); err != nil {
		return nil, fmt.Errorf("failed to analyze returns: %w", err)
	}

	a.mu.Lock()
	a.cache[info.Type] = info
	a.mu.Unlock()

	return info.withValue(val), nil
}

// withValue binds a cached signature analysis to a concrete function value.
// Closures share code pointers, so the value is never cached.
func (info *ConstructorInfo) withValue(val reflect.Value) *ConstructorInfo {
	bound := *info
	bound.Value = val
	return &bound
}

// analyzeParameters analyzes function parameters or In struct fields.
func (a *Analyzer) analyzeParameters(info *ConstructorInfo) error {
	fnType := info.Type

	if fnType.NumIn() == 1 && IsParamObject(fnType.In(0)) {
		info.IsParamObject = true
		return a.analyzeParamObject(info, fnType.In(0))
	}

	if fnType.IsVariadic() {
		return fmt.Errorf("variadic constructors are not supported")
	}

	info.Parameters = make([]ParameterInfo, fnType.NumIn())
	for i := 0; i < fnType.NumIn(); i++ {
		info.Parameters[i] = ParameterInfo{
			Type:  fnType.In(i),
			Index: i,
		}
	}

	return nil
}

// analyzeParamObject analyzes an In struct's fields.
func (a *Analyzer) analyzeParamObject(info *ConstructorInfo, structType reflect.Type) error {
	if structType.Kind() == reflect.Pointer {
		return fmt.Errorf("parameter object %v must be passed by value", structType)
	}

	params := make([]ParameterInfo, 0, structType.NumField())

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if !field.IsExported() || (field.Anonymous && isMarker(field.Type)) {
			continue
		}

		if val, ok := field.Tag.Lookup("inject"); ok && val == "-" {
			continue
		}

		for _, unsupported := range []string{"name", "group"} {
			if _, ok := field.Tag.Lookup(unsupported); ok {
				return fmt.Errorf("field %s: %q tags are not supported", field.Name, unsupported)
			}
		}

		params = append(params, ParameterInfo{
			Type:     field.Type,
			Name:     field.Name,
			Index:    i,
			Optional: field.Tag.Get("optional") == "true",
		})
	}

	info.Parameters = params
	return nil
}

// analyzeReturns finds the service type and the optional trailing error.
func (a *Analyzer) analyzeReturns(info *ConstructorInfo) error {
	fnType := info.Type

	switch fnType.NumOut() {
	case 1:
		if fnType.Out(0) == errType {
			return fmt.Errorf("constructor only returns error")
		}
	case 2:
		if fnType.Out(1) != errType {
			return fmt.Errorf("second return value must be error, got %v", fnType.Out(1))
		}
		info.HasErrorReturn = true
	default:
		return fmt.Errorf("constructor must return a service and an optional error, got %d values", fnType.NumOut())
	}

	info.ResultType = fnType.Out(0)
	return nil
}

// Clear clears the analysis cache.
func (a *Analyzer) Clear() {
	a.mu.Lock()
	a.cache = make(map[reflect.Type]*ConstructorInfo)
	a.mu.Unlock()
}

// CacheSize returns the number of cached analyses.
func (a *Analyzer) CacheSize() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.cache)
}

// IsParamObject reports whether t is a struct embedding In or dig.In.
func IsParamObject(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return false
	}

	if dig.IsIn(t) {
		return true
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type == inType {
			return true
		}
	}

	return false
}

func isMarker(t reflect.Type) bool {
	return t == inType || dig.IsIn(t)
}
