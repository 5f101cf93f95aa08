package godi

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Scope defines a disposable service scope.
// Scopes are used to control the lifetime of scoped services.
//
// In web applications, a scope is typically created for each HTTP request,
// ensuring that services like database connections are properly managed
// and disposed at the end of the request.
//
// Example:
//
//	scope, err := provider.CreateScope(ctx)
//	if err != nil {
//	    return err
//	}
//	defer scope.Close()
//
//	service, err := godi.Resolve[MyService](scope)
type Scope interface {
	ServiceProvider
	Disposable

	// ID returns the unique ID of this scope.
	ID() string

	// Context returns the context associated with this scope.
	Context() context.Context

	// IsRootScope returns true if this is the provider's root scope.
	IsRootScope() bool

	// Parent returns the parent scope of this scope, nil for the root scope.
	Parent() Scope

	// CreateScope creates a child scope. Closing a scope closes its children.
	CreateScope(ctx context.Context) (Scope, error)
}

// scope implements Scope
type scope struct {
	ctx      context.Context
	scopeID  string
	provider *provider
	parent   *scope

	disposed  atomic.Bool
	lifecycle *lifecycleManager

	cache *instanceCache

	mu       sync.Mutex
	children map[*scope]struct{}
}

// newScope creates a scope. A nil parent creates the root scope.
func newScope(p *provider, parent *scope, ctx context.Context) *scope {
	if ctx == nil {
		ctx = context.Background()
	}

	s := &scope{
		scopeID:   uuid.NewString(),
		provider:  p,
		parent:    parent,
		lifecycle: newLifecycleManager(),
		cache:     newInstanceCache(),
		children:  make(map[*scope]struct{}),
	}

	s.ctx = contextWithScope(ctx, s)

	return s
}

func (s *scope) ID() string {
	return s.scopeID
}

func (s *scope) Context() context.Context {
	return s.ctx
}

func (s *scope) IsRootScope() bool {
	return s.parent == nil
}

func (s *scope) Parent() Scope {
	if s.parent == nil {
		return nil
	}
	return s.parent
}

// IsDisposed reports whether the scope has been closed.
func (s *scope) IsDisposed() bool {
	return s.disposed.Load()
}

func (s *scope) root() *scope {
	current := s
	for current.parent != nil {
		current = current.parent
	}
	return current
}

func (s *scope) CreateScope(ctx context.Context) (Scope, error) {
	if s.IsDisposed() {
		return nil, ErrScopeDisposed
	}

	child := newScope(s.provider, s, ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check under the lock so a concurrent Close cannot miss the child
	if s.IsDisposed() {
		return nil, ErrScopeDisposed
	}
	s.children[child] = struct{}{}

	s.provider.logger.Debug().
		Str("scope_id", child.scopeID).
		Str("parent_id", s.scopeID).
		Msg("scope created")

	return child, nil
}

func (s *scope) GetService(serviceType ServiceType) (any, error) {
	return s.resolver().GetService(serviceType)
}

func (s *scope) GetServices(serviceType ServiceType) ([]any, error) {
	return s.resolver().GetServices(serviceType)
}

func (s *scope) GetServiceAt(serviceType ServiceType, index int) (any, error) {
	return s.resolver().GetServiceAt(serviceType, index)
}

func (s *scope) Contains(serviceType ServiceType) bool {
	return s.resolver().Contains(serviceType)
}

func (s *scope) resolver() *resolver {
	return &resolver{scope: s}
}

// Close closes the child scopes, then disposes the instances the scope owns
// in reverse creation order. It is safe to call more than once.
func (s *scope) Close() error {
	if !s.disposed.CompareAndSwap(false, true) {
		return nil
	}

	s.mu.Lock()
	children := make([]*scope, 0, len(s.children))
	for child := range s.children {
		children = append(children, child)
	}
	s.children = nil
	s.mu.Unlock()

	s.cache.clear()

	var errs error
	for _, child := range children {
		errs = multierr.Append(errs, child.Close())
	}

	owned := s.lifecycle.count()
	errs = multierr.Append(errs, s.lifecycle.dispose(context.WithoutCancel(s.ctx)))

	if s.parent != nil {
		s.parent.removeChild(s)
	}

	s.provider.logger.Debug().
		Str("scope_id", s.scopeID).
		Int("disposed", owned).
		Bool("root", s.parent == nil).
		Msg("scope closed")

	if errs != nil {
		return DisposalError{Context: "scope", Errors: multierr.Errors(errs)}
	}

	return nil
}

func (s *scope) removeChild(child *scope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.children != nil {
		delete(s.children, child)
	}
}

type scopeContextKey struct{}

func contextWithScope(ctx context.Context, s *scope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, s)
}

// ScopeFromContext gets the scope a context was created for.
func ScopeFromContext(ctx context.Context) (Scope, error) {
	if ctx == nil {
		return nil, ErrScopeNotInContext
	}

	s, ok := ctx.Value(scopeContextKey{}).(*scope)
	if !ok || s == nil {
		return nil, ErrScopeNotInContext
	}

	if s.IsDisposed() {
		return nil, ErrScopeDisposed
	}

	return s, nil
}

// IsScopeDisposed reports whether err comes from using a closed scope or
// provider.
func IsScopeDisposed(err error) bool {
	return errors.Is(err, ErrScopeDisposed) || errors.Is(err, ErrProviderDisposed)
}
