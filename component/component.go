// Package component is the Component registry: named channels (e.g. "R",
// "G", "B", "A", "L", "a", "b", "Y", "Cb", ...) with no numeric content of
// their own — channel semantics only.
package component

import (
	"fmt"

	"github.com/vantblack/pixelfish/internal/node"
	"github.com/vantblack/pixelfish/internal/registry"
)

// Component is a named channel within a color model.
type Component struct {
	node.Header
}

func (c *Component) EntryName() string { return c.Name() }

func (c *Component) SameAs(other interface{}) bool {
	o, ok := other.(*Component)
	return ok && o.Name() == c.Name()
}

// Registry is the Component registry (spec.md §4.1).
type Registry struct {
	alloc *node.Allocator
	reg   *registry.Registry[*Component]
}

// NewRegistry returns an empty Component registry sharing alloc.
func NewRegistry(alloc *node.Allocator) *Registry {
	return &Registry{alloc: alloc, reg: registry.New[*Component]()}
}

// Register registers name, or returns the existing handle if already
// registered (Components have no attributes to conflict on, so
// re-registration is always idempotent).
func (r *Registry) Register(name string) (*Component, error) {
	c := &Component{Header: node.NewHeader(r.alloc.Next(), name, node.KindComponent)}
	got, err := r.reg.Register(c)
	if err != nil {
		return nil, fmt.Errorf("component: %w", err)
	}

	return got, nil
}

// Lookup returns the Component for name, or (nil, false).
func (r *Registry) Lookup(name string) (*Component, bool) { return r.reg.Lookup(name) }

// Exists reports whether name is registered.
func (r *Registry) Exists(name string) bool { return r.reg.Exists(name) }

// Iterate returns every registered Component in registration order.
func (r *Registry) Iterate() []*Component { return r.reg.Iterate() }

// Names returns every registered Component name, sorted.
func (r *Registry) Names() []string { return r.reg.Names() }
