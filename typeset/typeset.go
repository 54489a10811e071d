// Package typeset is the Numeric Type registry: named scalar pixel
// encodings (bit width, signedness, integer-vs-float, linear-vs-gamma).
//
// Types are immutable once registered and live for the lifetime of the
// owning Registry. Re-registering an existing name with identical
// attributes is a no-op; re-registering with different attributes fails
// with ErrDuplicateIncompatible.
package typeset

import (
	"fmt"

	"github.com/vantblack/pixelfish/internal/node"
	"github.com/vantblack/pixelfish/internal/registry"
)

// Type is a named scalar numeric encoding, e.g. u8, u16, half, float.
type Type struct {
	node.Header

	bits   int
	float  bool
	signed bool
	linear bool // false => gamma/perceptually-encoded
}

// BitWidth returns the type's storage width in bits (8, 16, 32, 64).
func (t *Type) BitWidth() int { return t.bits }

// IsFloat reports whether this type is a floating-point encoding.
func (t *Type) IsFloat() bool { return t.float }

// IsSigned reports whether this type is signed.
func (t *Type) IsSigned() bool { return t.signed }

// IsLinear reports whether values of this type are linear-light (as
// opposed to gamma/perceptually encoded).
func (t *Type) IsLinear() bool { return t.linear }

// Bytes returns the type's storage width in bytes.
func (t *Type) Bytes() int { return t.bits / 8 }

func (t *Type) EntryName() string { return t.Name() }

func (t *Type) SameAs(other interface{}) bool {
	o, ok := other.(*Type)
	if !ok {
		return false
	}
	return t.bits == o.bits && t.float == o.float && t.signed == o.signed && t.linear == o.linear
}

// Registry is the Numeric Type registry (spec.md §4.1).
type Registry struct {
	alloc *node.Allocator
	reg   *registry.Registry[*Type]
}

// NewRegistry returns an empty Type registry sharing alloc for id
// allocation (callers pass the owning Instance's allocator so ids stay
// dense across all six node kinds).
func NewRegistry(alloc *node.Allocator) *Registry {
	return &Registry{alloc: alloc, reg: registry.New[*Type]()}
}

// Register registers name with the given attributes, or returns the
// existing handle if name is already registered with identical attributes.
func (r *Registry) Register(name string, bits int, float, signed, linear bool) (*Type, error) {
	if bits <= 0 || bits%8 != 0 {
		return nil, fmt.Errorf("typeset: %q: bit width %d must be a positive multiple of 8", name, bits)
	}
	t := &Type{
		Header: node.NewHeader(r.alloc.Next(), name, node.KindType),
		bits:   bits,
		float:  float,
		signed: signed,
		linear: linear,
	}
	got, err := r.reg.Register(t)
	if err != nil {
		return nil, fmt.Errorf("typeset: %w", err)
	}

	return got, nil
}

// Lookup returns the Type for name, or (nil, false) if unregistered.
func (r *Registry) Lookup(name string) (*Type, bool) { return r.reg.Lookup(name) }

// Exists reports whether name is registered.
func (r *Registry) Exists(name string) bool { return r.reg.Exists(name) }

// Iterate returns every registered Type in registration order.
func (r *Registry) Iterate() []*Type { return r.reg.Iterate() }

// Names returns every registered Type name, sorted.
func (r *Registry) Names() []string { return r.reg.Names() }
