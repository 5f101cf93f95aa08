package godi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ServiceProvider resolves services by service type.
// Factories and decorators receive one to resolve their own dependencies.
type ServiceProvider interface {
	// GetService resolves the last registration of serviceType.
	GetService(serviceType ServiceType) (any, error)

	// GetServices resolves every registration of serviceType in registration
	// order. It returns an empty slice when there is none.
	GetServices(serviceType ServiceType) ([]any, error)

	// GetServiceAt resolves the index-th registration of serviceType in
	// registration order.
	GetServiceAt(serviceType ServiceType, index int) (any, error)

	// Contains reports whether serviceType can be resolved.
	Contains(serviceType ServiceType) bool
}

// Provider is the root service provider built from a Collection.
//
// Singletons are cached by the provider, scoped services by each Scope.
// Close disposes every owned instance implementing Disposable or
// DisposableWithContext, in reverse creation order.
type Provider interface {
	ServiceProvider
	Disposable

	// ID returns the unique identifier of the provider.
	ID() string

	// CreateScope creates a scope for resolving scoped services.
	CreateScope(ctx context.Context) (Scope, error)
}

// registration is a descriptor placed in the built provider.
type registration struct {
	id         int // position in the collection
	descriptor *Descriptor
}

// provider implements Provider.
type provider struct {
	id string

	// registrations by service type, in collection order (immutable after build)
	registrations map[ServiceType][]*registration

	root   *scope
	logger zerolog.Logger

	disposed atomic.Bool
}

// newProvider builds a provider from the registration list.
func newProvider(descriptors []*Descriptor, options *ProviderOptions, logger zerolog.Logger) (*provider, error) {
	if options == nil {
		options = &ProviderOptions{}
	}

	if options.LogLevel != "" {
		level, err := zerolog.ParseLevel(options.LogLevel)
		if err != nil {
			return nil, ValidationError{Cause: fmt.Errorf("invalid log level %q: %w", options.LogLevel, err)}
		}
		logger = logger.Level(level)
	}

	p := &provider{
		id:            uuid.NewString(),
		registrations: make(map[ServiceType][]*registration),
		logger:        logger,
	}

	for i, descriptor := range descriptors {
		if descriptor == nil {
			return nil, ValidationError{Cause: fmt.Errorf("registration %d: %w", i, ErrDescriptorNil)}
		}

		if err := descriptor.Validate(); err != nil {
			return nil, err
		}

		p.registrations[descriptor.ServiceType] = append(p.registrations[descriptor.ServiceType], &registration{
			id:         i,
			descriptor: descriptor,
		})
	}

	if err := validateLifetimes(p.registrations); err != nil {
		return nil, err
	}

	p.root = newScope(p, nil, context.Background())

	p.logger.Debug().
		Str("provider_id", p.id).
		Int("registrations", len(descriptors)).
		Msg("provider built")

	if options.ValidateOnBuild {
		if err := p.createSingletons(options.BuildTimeout); err != nil {
			_ = p.Close()
			return nil, err
		}
	}

	return p, nil
}

// createSingletons resolves every singleton registration in collection order.
func (p *provider) createSingletons(timeout time.Duration) error {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var singletons []*registration
	for _, regs := range p.registrations {
		for _, reg := range regs {
			if reg.descriptor.Lifetime == Singleton {
				singletons = append(singletons, reg)
			}
		}
	}
	sort.Slice(singletons, func(i, j int) bool { return singletons[i].id < singletons[j].id })

	r := &resolver{scope: p.root}
	for _, reg := range singletons {
		if err := ctx.Err(); err != nil {
			return TimeoutError{Operation: "provider build", Cause: err}
		}

		if _, err := r.resolve(reg); err != nil {
			return err
		}
	}

	return nil
}

func (p *provider) ID() string {
	return p.id
}

func (p *provider) GetService(serviceType ServiceType) (any, error) {
	if p.disposed.Load() {
		return nil, ErrProviderDisposed
	}
	return p.root.GetService(serviceType)
}

func (p *provider) GetServices(serviceType ServiceType) ([]any, error) {
	if p.disposed.Load() {
		return nil, ErrProviderDisposed
	}
	return p.root.GetServices(serviceType)
}

func (p *provider) GetServiceAt(serviceType ServiceType, index int) (any, error) {
	if p.disposed.Load() {
		return nil, ErrProviderDisposed
	}
	return p.root.GetServiceAt(serviceType, index)
}

func (p *provider) Contains(serviceType ServiceType) bool {
	return p.root.Contains(serviceType)
}

func (p *provider) CreateScope(ctx context.Context) (Scope, error) {
	if p.disposed.Load() {
		return nil, ErrProviderDisposed
	}
	return p.root.CreateScope(ctx)
}

// Close disposes every scope and then the singletons. It is safe to call
// more than once.
func (p *provider) Close() error {
	if !p.disposed.CompareAndSwap(false, true) {
		return nil
	}

	err := p.root.Close()

	var disposalErr DisposalError
	if errors.As(err, &disposalErr) {
		disposalErr.Context = "provider"
		return disposalErr
	}

	return err
}
