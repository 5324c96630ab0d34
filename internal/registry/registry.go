// Package registry provides a small generic registry of named builders.
//
// Builders are registered once, typically from package initialization, and
// looked up by name when a configuration names them. Duplicate registrations
// are rejected and Seal freezes the registry once the process is configured.
//
//	var Methods = registry.New[Config, Spec]()
//	func init() {
//	    registry.MustRegister(Methods, "hnsw", buildHNSW, registry.WithDoc("hierarchical navigable small world graph"))
//	}
package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"
)

// Builder builds a concrete value T from a specification S.
type Builder[T any, S any] func(spec S) (T, error)

// Entry holds a registered builder with its name and optional documentation.
type Entry[T any, S any] struct {
	Name    string
	Builder Builder[T, S]
	Doc     string // optional human-readable description
}

// RegOption modifies per-entry registration parameters.
type RegOption func(*regOpts)

type regOpts struct {
	doc string
}

// WithDoc attaches a human-readable note to the entry.
func WithDoc(doc string) RegOption { return func(o *regOpts) { o.doc = doc } }

// Registry maps names to builders. It is safe for concurrent use.
type Registry[T any, S any] struct {
	mu     sync.RWMutex
	data   map[string]Entry[T, S]
	sealed atomic.Bool
}

// New creates an empty registry.
func New[T any, S any]() *Registry[T, S] {
	return &Registry[T, S]{
		data: make(map[string]Entry[T, S]),
	}
}

var (
	// ErrDuplicate indicates an attempt to register a duplicate name.
	ErrDuplicate = errors.New("registry: duplicate registration")
	// ErrUnknown indicates a lookup or build for an unregistered name.
	ErrUnknown = errors.New("registry: unknown name")
	// ErrSealed indicates an attempt to register in a sealed registry.
	ErrSealed = errors.New("registry: sealed registry")
)

// Sealed reports whether the registry is sealed.
func (r *Registry[T, S]) Sealed() bool { return r.sealed.Load() }

// Seal prevents further registrations. It is idempotent. Callers seal once
// package initialization has registered every builder.
// Returns true if this call changed the state from unsealed to sealed.
func (r *Registry[T, S]) Seal() bool { return !r.sealed.Swap(true) }

// Register adds a builder for the given name. It fails if the name already
// exists or if the registry is sealed.
func (r *Registry[T, S]) Register(name string, b Builder[T, S], ropts ...RegOption) error {
	if r.Sealed() {
		return ErrSealed
	}
	if name == "" || b == nil {
		return errors.New("registry: invalid name or builder")
	}

	var o regOpts
	for _, fn := range ropts {
		fn(&o)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	r.data[name] = Entry[T, S]{Name: name, Builder: b, Doc: o.doc}
	return nil
}

// MustRegister panics on registration error. Useful from init() blocks.
func MustRegister[T any, S any](r *Registry[T, S], name string, b Builder[T, S], ropts ...RegOption) {
	if err := r.Register(name, b, ropts...); err != nil {
		panic(err)
	}
}

// Lookup returns the builder for name, if present.
func (r *Registry[T, S]) Lookup(name string) (Builder[T, S], bool) {
	r.mu.RLock()
	e, ok := r.data[name]
	r.mu.RUnlock()
	return e.Builder, ok
}

// Build locates the builder for name and invokes it with spec.
// The returned error wraps ErrUnknown when no builder is registered for name.
func (r *Registry[T, S]) Build(name string, spec S) (T, error) {
	b, ok := r.Lookup(name)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	return b(spec)
}

// Names returns all registered names in lexicographic order.
func (r *Registry[T, S]) Names() []string {
	r.mu.RLock()
	names := lo.Keys(r.data)
	r.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Entries returns a snapshot of all registered entries ordered by name.
func (r *Registry[T, S]) Entries() []Entry[T, S] {
	r.mu.RLock()
	items := lo.Values(r.data)
	r.mu.RUnlock()

	slices.SortFunc(items, func(a, b Entry[T, S]) int { return strings.Compare(a.Name, b.Name) })
	return items
}
