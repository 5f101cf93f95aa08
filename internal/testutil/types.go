package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Common test errors
var (
	ErrTest          = errors.New("test error")
	ErrConstructor   = errors.New("constructor error")
	ErrDisposal      = errors.New("disposal error")
	ErrAlreadyClosed = errors.New("already closed")
)

// Logger records messages in memory.
type Logger interface {
	Log(msg string)
	Messages() []string
}

type memoryLogger struct {
	mu   sync.Mutex
	msgs []string
}

func NewLogger() Logger {
	return &memoryLogger{}
}

func (l *memoryLogger) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *memoryLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.msgs...)
}

// Database is a disposable dependency.
type Database struct {
	ID     string
	closed atomic.Bool
}

func NewDatabase() *Database {
	return &Database{ID: uuid.NewString()}
}

func (d *Database) Close() error {
	if d.closed.Swap(true) {
		return ErrAlreadyClosed
	}
	return nil
}

func (d *Database) IsClosed() bool {
	return d.closed.Load()
}

// Store is the service the decoration scenarios wrap.
type Store interface {
	Get(key string) (string, error)
	Describe() string
}

type dbStore struct {
	db   *Database
	name string
}

// NewStore creates a Store backed by db.
func NewStore(db *Database) Store {
	return &dbStore{db: db, name: "db"}
}

// NewNamedStore returns a constructor for a Store describing itself as name.
func NewNamedStore(name string) func() Store {
	return func() Store {
		return &dbStore{name: name}
	}
}

func (s *dbStore) Get(key string) (string, error) {
	if s.db != nil && s.db.IsClosed() {
		return "", ErrAlreadyClosed
	}
	return s.name + ":" + key, nil
}

func (s *dbStore) Describe() string {
	return s.name
}

// LoggingStore logs every lookup.
type LoggingStore struct {
	Inner  Store
	Logger Logger
}

func NewLoggingStore(inner Store, logger Logger) Store {
	return &LoggingStore{Inner: inner, Logger: logger}
}

func (s *LoggingStore) Get(key string) (string, error) {
	s.Logger.Log("get " + key)
	return s.Inner.Get(key)
}

func (s *LoggingStore) Describe() string {
	return "logging(" + s.Inner.Describe() + ")"
}

// CachingStore memoizes lookups.
type CachingStore struct {
	Inner Store
	mu    sync.Mutex
	items map[string]string
	Hits  atomic.Int64
}

func NewCachingStore(inner Store) Store {
	return &CachingStore{Inner: inner, items: make(map[string]string)}
}

func (s *CachingStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.items[key]; ok {
		s.Hits.Add(1)
		return v, nil
	}

	v, err := s.Inner.Get(key)
	if err != nil {
		return "", err
	}
	s.items[key] = v
	return v, nil
}

func (s *CachingStore) Describe() string {
	return "caching(" + s.Inner.Describe() + ")"
}

// Repository is a generic service for open generic decoration.
type Repository[T any] interface {
	Find(id string) (T, error)
	Describe() string
}

type memoryRepository[T any] struct {
	items map[string]T
}

func NewRepository[T any]() Repository[T] {
	return &memoryRepository[T]{items: make(map[string]T)}
}

// NewRepositoryWith returns a constructor for a repository holding items.
func NewRepositoryWith[T any](items map[string]T) func() Repository[T] {
	return func() Repository[T] {
		return &memoryRepository[T]{items: items}
	}
}

func (r *memoryRepository[T]) Find(id string) (T, error) {
	v, ok := r.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: %w", id, ErrTest)
	}
	return v, nil
}

func (r *memoryRepository[T]) Describe() string {
	return "memory"
}

// TracingRepository logs every lookup of any repository.
type TracingRepository[T any] struct {
	Inner  Repository[T]
	Logger Logger
}

func NewTracingRepository[T any](inner Repository[T], logger Logger) Repository[T] {
	return &TracingRepository[T]{Inner: inner, Logger: logger}
}

func (r *TracingRepository[T]) Find(id string) (T, error) {
	r.Logger.Log("find " + id)
	return r.Inner.Find(id)
}

func (r *TracingRepository[T]) Describe() string {
	return "tracing(" + r.Inner.Describe() + ")"
}

// RequestContext is a scoped service carrying the scope's context.
type RequestContext struct {
	ID  string
	Ctx context.Context
}

func NewRequestContext(ctx context.Context) *RequestContext {
	return &RequestContext{ID: uuid.NewString(), Ctx: ctx}
}

// Describe unwraps a decoration chain for assertions, outermost first.
func Describe(s interface{ Describe() string }) []string {
	return strings.FieldsFunc(s.Describe(), func(r rune) bool {
		return r == '(' || r == ')'
	})
}
