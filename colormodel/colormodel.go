// Package colormodel is the Model registry: named color models — an
// ordered list of component references plus flags (premultiplied,
// perceptual, associated-alpha) and an optional bound color space name.
package colormodel

import (
	"fmt"

	"github.com/vantblack/pixelfish/component"
	"github.com/vantblack/pixelfish/internal/node"
	"github.com/vantblack/pixelfish/internal/registry"
)

// Flags bundles the boolean attributes a Model may carry.
type Flags struct {
	Premultiplied   bool
	Perceptual      bool
	AssociatedAlpha bool
}

// Model is a named color model: an ordered component list plus flags and
// an optional bound color space.
type Model struct {
	node.Header

	components []*component.Component
	flags      Flags
	space      string // optional bound color space name; "" if unbound
}

// Components returns the model's ordered component list. The returned
// slice is a defensive copy; the model itself is immutable.
func (m *Model) Components() []*component.Component {
	out := make([]*component.Component, len(m.components))
	copy(out, m.components)
	return out
}

// NComponents returns len(Components()).
func (m *Model) NComponents() int { return len(m.components) }

// Flags returns the model's boolean attributes.
func (m *Model) Flags() Flags { return m.flags }

// Space returns the model's bound color space name, or "" if unbound.
func (m *Model) Space() string { return m.space }

func (m *Model) EntryName() string { return m.Name() }

func (m *Model) SameAs(other interface{}) bool {
	o, ok := other.(*Model)
	if !ok || len(o.components) != len(m.components) || o.flags != m.flags || o.space != m.space {
		return false
	}
	for i, c := range m.components {
		if o.components[i].Name() != c.Name() {
			return false
		}
	}
	return true
}

// Registry is the Model registry (spec.md §4.1).
type Registry struct {
	alloc *node.Allocator
	reg   *registry.Registry[*Model]
}

// NewRegistry returns an empty Model registry sharing alloc.
func NewRegistry(alloc *node.Allocator) *Registry {
	return &Registry{alloc: alloc, reg: registry.New[*Model]()}
}

// Register registers name with the given ordered components, flags and
// bound color space (space may be ""), or returns the existing handle if
// name is already registered with matching attributes.
//
// Fails if components contains a duplicate (spec.md §3's "components are
// distinct within a model" invariant) or is empty.
func (r *Registry) Register(name string, components []*component.Component, flags Flags, space string) (*Model, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("colormodel: %q: model must have at least one component", name)
	}
	seen := make(map[string]struct{}, len(components))
	for _, c := range components {
		if _, dup := seen[c.Name()]; dup {
			return nil, fmt.Errorf("colormodel: %q: duplicate component %q", name, c.Name())
		}
		seen[c.Name()] = struct{}{}
	}

	cs := make([]*component.Component, len(components))
	copy(cs, components)

	m := &Model{
		Header:     node.NewHeader(r.alloc.Next(), name, node.KindModel),
		components: cs,
		flags:      flags,
		space:      space,
	}
	got, err := r.reg.Register(m)
	if err != nil {
		return nil, fmt.Errorf("colormodel: %w", err)
	}

	return got, nil
}

// Lookup returns the Model for name, or (nil, false).
func (r *Registry) Lookup(name string) (*Model, bool) { return r.reg.Lookup(name) }

// Exists reports whether name is registered.
func (r *Registry) Exists(name string) bool { return r.reg.Exists(name) }

// Iterate returns every registered Model in registration order.
func (r *Registry) Iterate() []*Model { return r.reg.Iterate() }

// Names returns every registered Model name, sorted.
func (r *Registry) Names() []string { return r.reg.Names() }
