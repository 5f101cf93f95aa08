package godi

import (
	"context"
	"sync"

	"go.uber.org/multierr"
)

// lifecycleManager manages the lifecycle of disposable instances
type lifecycleManager struct {
	disposables []any
	mu          sync.Mutex
}

// newLifecycleManager creates a new lifecycle manager
func newLifecycleManager() *lifecycleManager {
	return &lifecycleManager{}
}

// track adds an instance to be managed if it is disposable. It reports
// whether the instance was tracked.
func (m *lifecycleManager) track(instance any) bool {
	switch instance.(type) {
	case Disposable, DisposableWithContext:
	default:
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposables = append(m.disposables, instance)
	return true
}

// count returns the number of tracked instances
func (m *lifecycleManager) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.disposables)
}

// dispose disposes all tracked instances in reverse order. Every instance is
// closed even when an earlier one fails.
func (m *lifecycleManager) dispose(ctx context.Context) error {
	m.mu.Lock()
	disposables := m.disposables
	m.disposables = nil
	m.mu.Unlock()

	var errs error

	// Dispose in reverse order (LIFO)
	for i := len(disposables) - 1; i >= 0; i-- {
		switch d := disposables[i].(type) {
		case DisposableWithContext:
			errs = multierr.Append(errs, d.Close(ctx))
		case Disposable:
			errs = multierr.Append(errs, d.Close())
		}
	}

	return errs
}
