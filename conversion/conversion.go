// Package conversion is the Conversion registry: directed edges between
// registry nodes (Type, Model or Format — both endpoints always the same
// kind) carrying cost, error and a callable primitive. The registry also
// maintains the source-indexed adjacency list the planner walks (spec.md
// §4.1's Format "from_list", generalized here to any node kind since a
// Conversion's endpoints may be Type, Model or Format nodes alike).
package conversion

import (
	"fmt"
	"sync"

	"github.com/vantblack/pixelfish/internal/node"
)

// Kind is the shape of a Conversion's primitive (spec.md §4.2).
type Kind uint8

const (
	// Linear: one tight loop over a packed source/destination buffer.
	Linear Kind = iota
	// Planar: one pointer per component, per-component pitch.
	Planar
	// Reference: arbitrary slow path, no performance guarantees.
	Reference
)

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Planar:
		return "planar"
	case Reference:
		return "reference"
	default:
		return "unknown"
	}
}

// baseline cost units (cycles*10 + chain-length penalty, per spec.md §3).
// Reference primitives carry a large penalty so the planner prefers direct
// Format<->Format edges when one exists (spec.md §4.3 "Layer crossings").
const (
	DefaultLinearCost    = 10
	DefaultPlanarCost    = 25
	DefaultReferenceCost = 10_000
)

// LinearFn converts n packed pixels from src to dst in one tight loop.
type LinearFn func(src, dst []byte, n int) error

// PlanarFn converts n pixels given one []byte plane per component, with a
// byte pitch (stride) per plane.
type PlanarFn func(srcPlanes [][]byte, srcPitch []int, dstPlanes [][]byte, dstPitch []int, n int) error

// ReferenceFn is an arbitrary, possibly multi-stage, slow-path conversion.
type ReferenceFn func(src, dst []byte, n int) error

// MeasureFn computes one pixel's transform in idealized float64 arithmetic,
// with no intermediate byte-buffer rounding. The planner composes MeasureFn
// across a whole candidate chain to get an "ideal" output and diffs it
// against the chain's real, byte-quantized output (spec.md §4.3 "Empirical
// error measurement"); this isolates the quantization error a chain's
// intermediate Format representations actually introduce. MeasureFn is
// optional: a nil MeasureFn makes this edge contribute zero additional
// measured error (appropriate for lossless, e.g. pure bit-width widening,
// conversions).
type MeasureFn func(in []float64) []float64

// Primitive is a sealed union over the three primitive shapes; exactly one
// of Linear/PlanarFn/Reference is non-nil, matching Kind. Measure is
// independent of Kind.
type Primitive struct {
	Linear    LinearFn
	PlanarFn  PlanarFn
	Reference ReferenceFn
	Measure   MeasureFn
}

// Conversion is a registered edge between two same-kind Babl nodes.
type Conversion struct {
	node.Header

	src, dst  node.Ref
	kind      Kind
	primitive Primitive
	cost      int

	mu       sync.Mutex
	errKnown bool
	err      float64
}

// Src returns the conversion's source node.
func (c *Conversion) Src() node.Ref { return c.src }

// Dst returns the conversion's destination node.
func (c *Conversion) Dst() node.Ref { return c.dst }

// PrimitiveKind returns the shape of this conversion's primitive.
func (c *Conversion) PrimitiveKind() Kind { return c.kind }

// Cost returns the conversion's declared cost.
func (c *Conversion) Cost() int { return c.cost }

// Error returns the conversion's measured RMS error and whether it has
// been measured yet (spec.md §4.2: "computed on first use if absent").
func (c *Conversion) Error() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err, c.errKnown
}

// SetError records a measured error value (called by the planner after
// corpus round-tripping; idempotent, last writer wins).
func (c *Conversion) SetError(e float64) {
	c.mu.Lock()
	c.err = e
	c.errKnown = true
	c.mu.Unlock()
}

// RunLinear invokes this conversion's linear primitive. The caller must
// have already checked PrimitiveKind() == Linear.
func (c *Conversion) RunLinear(src, dst []byte, n int) error {
	return c.primitive.Linear(src, dst, n)
}

// Run invokes this conversion's primitive over packed byte buffers,
// dispatching on PrimitiveKind so callers that walk a mixed chain (the
// dispatcher, the planner's error measurer) don't have to. Linear and
// Reference primitives share the (src, dst, n) packed-buffer shape, so
// both run directly here; a Planar primitive needs per-component
// plane/pitch buffers this shape cannot express, so Run rejects it with
// an error instead of dereferencing the unset Linear/Reference field.
func (c *Conversion) Run(src, dst []byte, n int) error {
	switch c.kind {
	case Linear:
		return c.primitive.Linear(src, dst, n)
	case Reference:
		return c.primitive.Reference(src, dst, n)
	default:
		return fmt.Errorf("conversion: %s: planar primitives cannot run over packed byte buffers", c.Name())
	}
}

// RunPlanar invokes this conversion's planar primitive.
func (c *Conversion) RunPlanar(srcPlanes [][]byte, srcPitch []int, dstPlanes [][]byte, dstPitch []int, n int) error {
	return c.primitive.PlanarFn(srcPlanes, srcPitch, dstPlanes, dstPitch, n)
}

// RunReference invokes this conversion's reference primitive.
func (c *Conversion) RunReference(src, dst []byte, n int) error {
	return c.primitive.Reference(src, dst, n)
}

// Measure returns this conversion's idealized-arithmetic pixel transform,
// or in unchanged (identity) if none was supplied at registration.
func (c *Conversion) Measure(in []float64) []float64 {
	if c.primitive.Measure == nil {
		return in
	}
	return c.primitive.Measure(in)
}

func (c *Conversion) EntryName() string { return c.Name() }

func (c *Conversion) SameAs(other interface{}) bool {
	o, ok := other.(*Conversion)
	return ok && o.src.Name() == c.src.Name() && o.dst.Name() == c.dst.Name() && o.kind == c.kind
}

// Registry is the Conversion registry (spec.md §4.2). Unlike the four
// named-node registries it is not built on internal/registry.Registry,
// because Conversions are named by a generated "src->dst#n" string (not a
// user-chosen identity) and because it must additionally maintain the
// source-indexed adjacency list.
type Registry struct {
	alloc *node.Allocator

	mu       sync.RWMutex
	byName   map[string]*Conversion
	ordered  []*Conversion
	fromList map[uint64][]*Conversion // srcNodeID -> outgoing Conversions
}

// NewRegistry returns an empty Conversion registry sharing alloc.
func NewRegistry(alloc *node.Allocator) *Registry {
	return &Registry{
		alloc:    alloc,
		byName:   make(map[string]*Conversion),
		fromList: make(map[uint64][]*Conversion),
	}
}

// Register registers a new Conversion from src to dst. src and dst must be
// the same Kind (spec.md §3 edge-graph invariant); cost defaults to a
// kind-dependent baseline when cost <= 0.
func (r *Registry) Register(src, dst node.Ref, kind Kind, primitive Primitive, cost int) (*Conversion, error) {
	if src.Kind() != dst.Kind() {
		return nil, fmt.Errorf("conversion: src kind %s != dst kind %s", src.Kind(), dst.Kind())
	}
	if err := validatePrimitive(kind, primitive); err != nil {
		return nil, fmt.Errorf("conversion: %w", err)
	}
	if cost <= 0 {
		cost = defaultCost(kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := fmt.Sprintf("%s->%s#%d", src.Name(), dst.Name(), len(r.byName))
	c := &Conversion{
		Header:    node.NewHeader(r.alloc.Next(), name, node.KindConversion),
		src:       src,
		dst:       dst,
		kind:      kind,
		primitive: primitive,
		cost:      cost,
	}
	r.byName[name] = c
	r.ordered = append(r.ordered, c)
	r.fromList[src.ID()] = append(r.fromList[src.ID()], c)

	return c, nil
}

func validatePrimitive(kind Kind, p Primitive) error {
	switch kind {
	case Linear:
		if p.Linear == nil {
			return fmt.Errorf("linear primitive is nil")
		}
	case Planar:
		if p.PlanarFn == nil {
			return fmt.Errorf("planar primitive is nil")
		}
	case Reference:
		if p.Reference == nil {
			return fmt.Errorf("reference primitive is nil")
		}
	default:
		return fmt.Errorf("unknown primitive kind %d", kind)
	}
	return nil
}

func defaultCost(kind Kind) int {
	switch kind {
	case Linear:
		return DefaultLinearCost
	case Planar:
		return DefaultPlanarCost
	default:
		return DefaultReferenceCost
	}
}

// Lookup returns the Conversion registered under name, or (nil, false).
func (r *Registry) Lookup(name string) (*Conversion, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	return c, ok
}

// Iterate returns every registered Conversion in registration order.
func (r *Registry) Iterate() []*Conversion {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Conversion, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// FromList returns every Conversion whose source node has the given id —
// the adjacency list the planner walks during its DFS (spec.md §4.1/§4.3).
func (r *Registry) FromList(srcID uint64) []*Conversion {
	r.mu.RLock()
	defer r.mu.RUnlock()
	edges := r.fromList[srcID]
	out := make([]*Conversion, len(edges))
	copy(out, edges)
	return out
}
