// Package registry provides the thread-safe named-node map shared by
// typeset, component, colormodel and pixfmt: a single sync.RWMutex guarding
// a map[string]*T keyed by name plus a []*T in registration order,
// mirroring core.Graph's muVert/vertices split (one lock, one map).
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicateIncompatible is returned when a name is re-registered with
// attributes that do not match the already-registered node (spec.md
// error kind DuplicateIncompatible).
var ErrDuplicateIncompatible = fmt.Errorf("registry: name re-registered with incompatible attributes")

// Entry is the minimal shape a registered value must expose so Registry
// can index it by name and detect incompatible re-registration.
type Entry interface {
	EntryName() string
	// SameAs reports whether other is attribute-identical to this entry
	// (used to make re-registration of an identical name idempotent).
	SameAs(other interface{}) bool
}

// Registry[T] is a thread-safe name->T map plus a dense id-ordered slice.
// T must be a pointer type implementing Entry.
type Registry[T Entry] struct {
	mu      sync.RWMutex
	byName  map[string]T
	ordered []T
}

// New returns an empty Registry.
func New[T Entry]() *Registry[T] {
	return &Registry[T]{byName: make(map[string]T)}
}

// Register inserts name->value. If name already exists, Register succeeds
// silently (idempotent) when value.SameAs(existing) is true, and returns
// ErrDuplicateIncompatible otherwise. The existing handle is always what
// gets returned on a duplicate, never the new one, so callers never hold
// two distinct handles for one name.
func (r *Registry[T]) Register(value T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := value.EntryName()
	if existing, ok := r.byName[name]; ok {
		if existing.SameAs(value) {
			return existing, nil
		}
		var zero T
		return zero, fmt.Errorf("registry: %q: %w", name, ErrDuplicateIncompatible)
	}

	r.byName[name] = value
	r.ordered = append(r.ordered, value)

	return value, nil
}

// Lookup returns the registered value for name, or the zero value and false.
func (r *Registry[T]) Lookup(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byName[name]
	return v, ok
}

// Exists reports whether name is registered.
func (r *Registry[T]) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byName[name]
	return ok
}

// Iterate returns a snapshot slice of all registered values in
// registration order (ids are monotone, so this is also id order).
func (r *Registry[T]) Iterate() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, len(r.ordered))
	copy(out, r.ordered)

	return out
}

// Names returns a sorted snapshot of registered names, useful for
// deterministic CLI listings.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}
