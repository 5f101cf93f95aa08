package godi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// Shared Test Types
// ============================================================================

// TService is a basic service for testing.
type TService struct {
	ID    string
	Value int
}

// TDependency is a basic dependency for testing.
type TDependency struct {
	Name string
}

// TServiceWithDeps demonstrates dependency injection.
type TServiceWithDeps struct {
	Svc *TService
	Dep *TDependency
}

// TInterface is a basic interface for testing.
type TInterface interface {
	GetID() string
}

func (s *TService) GetID() string { return s.ID }

// TDisposable implements Disposable for lifecycle testing.
type TDisposable struct {
	Name     string
	closed   atomic.Bool
	closeErr error
	onClose  func(name string)
	mu       sync.Mutex
}

func (d *TDisposable) Close() error {
	if d.closed.Swap(true) {
		return errors.New("already closed")
	}
	if d.onClose != nil {
		d.onClose(d.Name)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeErr
}

func (d *TDisposable) IsClosed() bool {
	return d.closed.Load()
}

// SetCloseError sets an error to return on Close.
func (d *TDisposable) SetCloseError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeErr = err
}

// TContextDisposable implements DisposableWithContext.
type TContextDisposable struct {
	closedWith context.Context
}

func (d *TContextDisposable) Close(ctx context.Context) error {
	d.closedWith = ctx
	return nil
}

// TScoped represents a scoped service with creation tracking.
type TScoped struct {
	Created time.Time
}

// TTransient represents a transient service.
type TTransient struct {
	Instance int
}

// ============================================================================
// Decoration Test Types
// ============================================================================

// Greeter is the service decorated in most decoration tests.
type Greeter interface {
	Greet(name string) string
}

type baseGreeter struct {
	greeting string
}

func (g *baseGreeter) Greet(name string) string {
	return g.greeting + ", " + name
}

func NewGreeter() Greeter {
	return &baseGreeter{greeting: "hello"}
}

func NewGreeterWith(greeting string) func() Greeter {
	return func() Greeter {
		return &baseGreeter{greeting: greeting}
	}
}

type loudGreeter struct {
	inner Greeter
}

func (g *loudGreeter) Greet(name string) string {
	return strings.ToUpper(g.inner.Greet(name))
}

func NewLoudGreeter(inner Greeter) Greeter {
	return &loudGreeter{inner: inner}
}

type bracketGreeter struct {
	inner Greeter
}

func (g *bracketGreeter) Greet(name string) string {
	return "[" + g.inner.Greet(name) + "]"
}

func NewBracketGreeter(inner Greeter) Greeter {
	return &bracketGreeter{inner: inner}
}

// suffixGreeter takes a dependency besides the decorated instance.
type suffixGreeter struct {
	inner Greeter
	dep   *TDependency
}

func (g *suffixGreeter) Greet(name string) string {
	return g.inner.Greet(name) + " from " + g.dep.Name
}

func NewSuffixGreeter(dep *TDependency, inner Greeter) Greeter {
	return &suffixGreeter{inner: inner, dep: dep}
}

// Cache is a generic service decorated as an open generic.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
}

type memoryCache[T any] struct {
	mu    sync.Mutex
	items map[string]T
}

func NewMemoryCache[T any]() Cache[T] {
	return &memoryCache[T]{items: make(map[string]T)}
}

func (c *memoryCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *memoryCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

// recordingCache records every key it is asked for.
type recordingCache[T any] struct {
	inner Cache[T]
	mu    sync.Mutex
	keys  []string
}

func NewRecordingCache[T any](inner Cache[T]) Cache[T] {
	return &recordingCache[T]{inner: inner}
}

func (c *recordingCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	c.keys = append(c.keys, "get:"+key)
	c.mu.Unlock()
	return c.inner.Get(key)
}

func (c *recordingCache[T]) Set(key string, value T) {
	c.mu.Lock()
	c.keys = append(c.keys, "set:"+key)
	c.mu.Unlock()
	c.inner.Set(key, value)
}

func (c *recordingCache[T]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.keys...)
}

// Box is a generic struct type, for closing over pointer results.
type Box[T any] struct {
	Value T
	Trail []string
}

// ============================================================================
// Circular Dependency Test Types
// ============================================================================

type TCircularA struct{ B *TCircularB }
type TCircularB struct{ A *TCircularA }

func NewTCircularA(b *TCircularB) *TCircularA { return &TCircularA{B: b} }
func NewTCircularB(a *TCircularA) *TCircularB { return &TCircularB{A: a} }

// ============================================================================
// Param Object Test Types
// ============================================================================

// TParams demonstrates parameter object injection.
type TParams struct {
	In
	Svc   *TService
	Dep   *TDependency `optional:"true"`
	Iface TInterface   `optional:"true"`
}

func NewTFromParams(p TParams) *TServiceWithDeps {
	return &TServiceWithDeps{Svc: p.Svc, Dep: p.Dep}
}

// ============================================================================
// Shared Constructors
// ============================================================================

var instanceCounter atomic.Int64

func NewTService() *TService {
	return &TService{ID: "test", Value: 42}
}

func NewTServiceWithID(id string) func() *TService {
	return func() *TService {
		return &TService{ID: id, Value: 42}
	}
}

func NewTDependency() *TDependency {
	return &TDependency{Name: "dep"}
}

func NewTDependencyWithName(name string) func() *TDependency {
	return func() *TDependency {
		return &TDependency{Name: name}
	}
}

func NewTServiceWithDeps(svc *TService, dep *TDependency) *TServiceWithDeps {
	return &TServiceWithDeps{Svc: svc, Dep: dep}
}

func NewTDisposableWithName(name string) func() *TDisposable {
	return func() *TDisposable {
		return &TDisposable{Name: name}
	}
}

func NewTScoped() *TScoped {
	return &TScoped{Created: time.Now()}
}

func NewTTransient() *TTransient {
	return &TTransient{Instance: int(instanceCounter.Add(1))}
}

// Error-returning constructors

func NewTServiceError() (*TService, error) {
	return nil, errors.New("constructor error")
}

// counter counts constructor calls.
type counter struct {
	calls atomic.Int64
}

func (c *counter) greeter(greeting string) func() Greeter {
	return func() Greeter {
		c.calls.Add(1)
		return &baseGreeter{greeting: greeting}
	}
}

func (c *counter) decorator() func(inner Greeter) Greeter {
	return func(inner Greeter) Greeter {
		c.calls.Add(1)
		return &loudGreeter{inner: inner}
	}
}

// ============================================================================
// Test Helpers
// ============================================================================

// BuildProvider creates a provider with the given module options.
// Automatically registers cleanup.
func BuildProvider(t *testing.T, opts ...ModuleOption) Provider {
	t.Helper()
	c := BuildCollection(t, opts...)
	p, err := c.Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

// BuildScope creates a scope with the given module options.
// Automatically registers cleanup.
func BuildScope(t *testing.T, opts ...ModuleOption) Scope {
	t.Helper()
	p := BuildProvider(t, opts...)
	s, err := p.CreateScope(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// BuildCollection creates a collection with the given module options.
func BuildCollection(t *testing.T, opts ...ModuleOption) Collection {
	t.Helper()
	c := NewCollection()
	if len(opts) > 0 {
		require.NoError(t, c.AddModules(opts...))
	}
	return c
}

// RequireResolve resolves a service or fails the test.
func RequireResolve[T any](t *testing.T, sp ServiceProvider) T {
	t.Helper()
	v, err := Resolve[T](sp)
	require.NoError(t, err)
	return v
}

// keys lists the service types of a registration list, in order.
func keys(list RegistrationList) []string {
	result := make([]string, list.Count())
	for i := range result {
		result[i] = fmt.Sprint(list.At(i).ServiceType)
	}
	return result
}
