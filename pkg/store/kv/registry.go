package kv

import (
	"database/sql"
	"fmt"
	"sort"
	"sync"
)

// Options carries what the backend factories may need. Unused fields are ignored.
type Options struct {
	DB        *sql.DB
	Driver    string
	Dynamo    DynamoAPI
	TableName string
}

// Factory creates a Store from options
type Factory func(opts Options) (Store, error)

// Registry manages key-value backend factories
type Registry interface {
	// Register adds a new backend factory
	Register(backend string, factory Factory) error
	// Create instantiates the named backend
	Create(backend string, opts Options) (Store, error)
	// ListBackends returns the registered backend names, sorted
	ListBackends() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() Registry {
	return &registry{
		factories: make(map[string]Factory),
	}
}

// DefaultRegistry has the memory, sql and dynamodb backends registered.
func DefaultRegistry() Registry {
	r := NewRegistry()
	_ = r.Register("memory", func(Options) (Store, error) {
		return NewMemoryStore(), nil
	})
	_ = r.Register("sql", func(opts Options) (Store, error) {
		return NewSQLStore(opts.DB, opts.Driver)
	})
	_ = r.Register("dynamodb", func(opts Options) (Store, error) {
		return NewDynamoStore(opts.Dynamo, opts.TableName)
	})
	return r
}

func (r *registry) Register(backend string, factory Factory) error {
	if backend == "" {
		return fmt.Errorf("backend name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[backend]; exists {
		return fmt.Errorf("backend %q is already registered", backend)
	}

	r.factories[backend] = factory
	return nil
}

func (r *registry) Create(backend string, opts Options) (Store, error) {
	r.mu.RLock()
	factory, exists := r.factories[backend]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unsupported kv backend: %s", backend)
	}

	store, err := factory(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s kv store: %w", backend, err)
	}
	return store, nil
}

func (r *registry) ListBackends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	backends := make([]string, 0, len(r.factories))
	for backend := range r.factories {
		backends = append(backends, backend)
	}
	sort.Strings(backends)
	return backends
}
