package godi

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

var (
	serviceProviderType = TypeOf[ServiceProvider]()
	scopeType           = TypeOf[Scope]()
	contextType         = TypeOf[context.Context]()
)

// resolver resolves services for one scope and carries the chain of
// registrations being created, which detects circular dependencies.
// Factories and constructors receive a resolver as their ServiceProvider.
type resolver struct {
	scope *scope
	chain []*registration
}

var _ ServiceProvider = (*resolver)(nil)

func (r *resolver) GetService(serviceType ServiceType) (any, error) {
	regs, err := r.lookup(serviceType)
	if err != nil {
		return nil, err
	}

	if instance, ok := r.builtin(serviceType); ok && len(regs) == 0 {
		return instance, nil
	}

	if len(regs) == 0 {
		return nil, ResolutionError{ServiceType: serviceType, Cause: ErrServiceNotFound}
	}

	// The last registration wins
	return r.resolve(regs[len(regs)-1])
}

func (r *resolver) GetServices(serviceType ServiceType) ([]any, error) {
	regs, err := r.lookup(serviceType)
	if err != nil {
		return nil, err
	}

	instances := make([]any, 0, len(regs))
	for _, reg := range regs {
		instance, err := r.resolve(reg)
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}

	return instances, nil
}

func (r *resolver) GetServiceAt(serviceType ServiceType, index int) (any, error) {
	regs, err := r.lookup(serviceType)
	if err != nil {
		return nil, err
	}

	if len(regs) == 0 {
		return nil, ResolutionError{ServiceType: serviceType, Cause: ErrServiceNotFound}
	}

	if index < 0 || index >= len(regs) {
		return nil, ResolutionError{
			ServiceType: serviceType,
			Cause:       fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(regs)),
		}
	}

	return r.resolve(regs[index])
}

func (r *resolver) Contains(serviceType ServiceType) bool {
	if serviceType == nil {
		return false
	}

	if _, ok := r.builtin(serviceType); ok {
		return true
	}

	return len(r.scope.provider.registrations[serviceType]) > 0
}

// lookup returns the registrations of serviceType in collection order.
func (r *resolver) lookup(serviceType ServiceType) ([]*registration, error) {
	if r.scope.IsDisposed() {
		return nil, ErrScopeDisposed
	}

	if serviceType == nil {
		return nil, ResolutionError{Cause: ErrServiceTypeNil}
	}

	return r.scope.provider.registrations[serviceType], nil
}

// builtin resolves the services every scope provides about itself.
func (r *resolver) builtin(serviceType ServiceType) (any, bool) {
	switch serviceType {
	case serviceProviderType, scopeType:
		return r.scope, true
	case contextType:
		return r.scope.ctx, true
	}
	return nil, false
}

// resolve returns the instance of one registration according to its lifetime.
func (r *resolver) resolve(reg *registration) (any, error) {
	if slices.Contains(r.chain, reg) {
		chain := make([]ServiceType, 0, len(r.chain)+1)
		for _, c := range r.chain {
			chain = append(chain, c.descriptor.ServiceType)
		}
		chain = append(chain, reg.descriptor.ServiceType)
		return nil, CircularDependencyError{Chain: chain}
	}

	switch reg.descriptor.Lifetime {
	case Singleton:
		return r.scope.root().getOrCreate(reg, r.chain)
	case Scoped:
		return r.scope.getOrCreate(reg, r.chain)
	default:
		return r.scope.createInstance(reg, r.chain)
	}
}

// getOrCreate returns the instance cached in the scope, creating it once.
func (s *scope) getOrCreate(reg *registration, chain []*registration) (any, error) {
	sl, ok := s.cache.slot(reg.id)
	if !ok {
		return nil, ErrScopeDisposed
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.created {
		return sl.instance, nil
	}

	instance, err := s.createInstance(reg, chain)
	if err != nil {
		return nil, err
	}

	sl.instance = instance
	sl.created = true

	return instance, nil
}

// createInstance creates a new instance of a registration. Instances are
// owned by s and disposed when it closes.
func (s *scope) createInstance(reg *registration, chain []*registration) (any, error) {
	descriptor := reg.descriptor
	if descriptor.IsInstance {
		return descriptor.Instance, nil
	}

	next := &resolver{scope: s, chain: append(slices.Clip(chain), reg)}

	var (
		instance any
		err      error
	)

	if descriptor.IsFactory() {
		instance, err = descriptor.Factory(next)
	} else {
		instance, err = CreateInstance(next, descriptor.Constructor.Interface())
	}

	if err != nil {
		return nil, activationFailure(descriptor.ServiceType, err)
	}

	if s.lifecycle.track(instance) {
		s.provider.logger.Debug().
			Stringer("service_type", descriptor.ServiceType).
			Str("scope_id", s.scopeID).
			Msg("tracking disposable instance")
	}

	return instance, nil
}

// activationFailure attributes err to serviceType unless it already is.
func activationFailure(serviceType ServiceType, err error) error {
	var activationErr ActivationError
	if errors.As(err, &activationErr) && activationErr.ServiceType == serviceType {
		return err
	}

	return ActivationError{ServiceType: serviceType, Cause: err}
}
