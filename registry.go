package svcreg

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Registry holds service descriptors by key and resolves them to singletons on demand.
//
// A registry goes through two phases. While it is open, services are added with Add (or the
// Register and MustAdd shorthands). Close freezes the set of keys; from then on Add fails with
// ErrReadOnly. Get can be called in either phase.
//
// Get resolves a key by first resolving every dependency key, in the order they were declared,
// then handing the constructible and the dependency instances to the Builder. The result is
// cached on the descriptor and returned by every later Get for that key without touching the
// dependencies again. If the builder fails, the error is returned unchanged and nothing is
// cached, so a later Get will try again.
//
// A key that shows up again on its own resolution chain is a cycle. The CircularDependency
// error lists only the keys in the cycle, not the unrelated keys that led to it. The chain is
// tracked per branch, so two siblings depending on the same service is not a cycle.
//
// Resolution is serialized: one Get runs at a time, so a service is built at most once even
// when the registry is shared between goroutines. Builders receive their dependencies as
// arguments. A constructor that needs more services can look them up with the context it was
// given; the lookup joins the running resolution.
type Registry struct {
	tableLock   sync.RWMutex
	descriptors map[string]*Descriptor
	writable    bool

	resolving *resolutionLock

	builder Builder
	logger  zerolog.Logger
	timing  TimingMode
}

// New creates an empty, writable registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		descriptors: map[string]*Descriptor{},
		writable:    true,
		resolving:   newResolutionLock(),
		builder:     ReflectBuilder{},
		logger:      zerolog.Nop(),
		timing:      TimingDisable,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers a descriptor. It fails with ErrReadOnly once the registry is closed, with
// ErrAlreadyRegistered if the key is taken and with ErrNilDescriptor for a nil descriptor; in
// every case the registry is left unchanged. The registry is returned to allow chaining.
func (r *Registry) Add(d *Descriptor) (*Registry, error) {
	if d == nil {
		return r, &DependencyError{Kind: ErrNilDescriptor}
	}

	r.tableLock.Lock()
	defer r.tableLock.Unlock()

	if !r.writable {
		return r, &DependencyError{Kind: ErrReadOnly, Key: d.key}
	}
	if _, found := r.descriptors[d.key]; found {
		return r, &DependencyError{Kind: ErrAlreadyRegistered, Key: d.key}
	}
	r.descriptors[d.key] = d
	r.logger.Debug().
		Str("service", d.key).
		Strs("dependencies", d.dependencyKeys).
		Msg("service registered")
	return r, nil
}

// MustAdd is Add for set-up code: it panics instead of returning an error.
//
//	reg := svcreg.New().
//	    MustAdd(svcreg.NewDescriptor("db", NewDB, "config")).
//	    MustAdd(svcreg.NewDescriptor("config", LoadConfig))
func (r *Registry) MustAdd(d *Descriptor) *Registry {
	if _, err := r.Add(d); err != nil {
		panic(err)
	}
	return r
}

// Register is shorthand for Add(NewDescriptor(key, constructible, dependencyKeys...)).
func (r *Registry) Register(key string, constructible any, dependencyKeys ...string) error {
	_, err := r.Add(NewDescriptor(key, constructible, dependencyKeys...))
	return err
}

// Close makes the registry read-only. Calling it again has no effect.
func (r *Registry) Close() {
	r.tableLock.Lock()
	defer r.tableLock.Unlock()
	if r.writable {
		r.writable = false
		r.logger.Debug().Int("services", len(r.descriptors)).Msg("registry closed")
	}
}

// IsClosed reports whether Close has been called.
func (r *Registry) IsClosed() bool {
	r.tableLock.RLock()
	defer r.tableLock.RUnlock()
	return !r.writable
}

// Has reports whether a service is registered under key.
func (r *Registry) Has(key string) bool {
	_, found := r.lookup(key)
	return found
}

// IsResolved reports whether the service under key already holds its instance. It fails with
// ErrNotFound if nothing is registered under key.
func (r *Registry) IsResolved(key string) (bool, error) {
	d, found := r.lookup(key)
	if !found {
		return false, notFoundError(key)
	}
	return d.IsResolved(), nil
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.tableLock.RLock()
	defer r.tableLock.RUnlock()
	return r.sortedKeys()
}

func (r *Registry) lookup(key string) (*Descriptor, bool) {
	r.tableLock.RLock()
	defer r.tableLock.RUnlock()
	d, found := r.descriptors[key]
	return d, found
}

// sortedKeys must be called with tableLock held.
func (r *Registry) sortedKeys() []string {
	keys := make([]string, 0, len(r.descriptors))
	for key := range r.descriptors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
