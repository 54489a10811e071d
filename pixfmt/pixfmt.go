// Package pixfmt is the Format registry: fully-qualified packed pixel
// layouts — a Model plus a per-component Type and sampling factor, bytes
// per pixel, planar/interleaved, an optional color-space binding, and a
// palette bit.
package pixfmt

import (
	"fmt"

	"github.com/vantblack/pixelfish/colormodel"
	"github.com/vantblack/pixelfish/internal/node"
	"github.com/vantblack/pixelfish/internal/registry"
	"github.com/vantblack/pixelfish/typeset"
)

// Sampling is a per-component subsampling factor. {1, 1} means full
// resolution (no subsampling) and is the only factor the baseline formats
// in this repository use; chroma subsampling is carried as a first-class
// attribute so a future extender can register subsampled formats without
// touching the Format type.
type Sampling struct {
	H, V int
}

// FullSampling is the default, unsubsampled factor.
var FullSampling = Sampling{H: 1, V: 1}

// Format is a fully-qualified packed pixel layout.
type Format struct {
	node.Header

	model        *colormodel.Model
	types        []*typeset.Type // one per component, same order as model.Components()
	sampling     []Sampling      // one per component
	bpp          int             // computed: sum of per-component type byte widths
	planar       bool
	space        string
	palette      bool
	encodingName string
}

// Model returns the Format's color model.
func (f *Format) Model() *colormodel.Model { return f.model }

// NComponents returns the number of components (== f.Model().NComponents()).
func (f *Format) NComponents() int { return len(f.types) }

// TypeAt returns the Type of the i'th component, or nil if i is out of range.
func (f *Format) TypeAt(i int) *typeset.Type {
	if i < 0 || i >= len(f.types) {
		return nil
	}
	return f.types[i]
}

// SamplingAt returns the Sampling of the i'th component.
func (f *Format) SamplingAt(i int) Sampling {
	if i < 0 || i >= len(f.sampling) {
		return FullSampling
	}
	return f.sampling[i]
}

// BytesPerPixel returns the format's computed bytes-per-pixel (spec.md §3
// invariant: equals the sum of per-component type widths for interleaved
// layouts).
func (f *Format) BytesPerPixel() int { return f.bpp }

// Planar reports whether this format stores components in separate planes
// (true) or interleaved per pixel (false).
func (f *Format) Planar() bool { return f.planar }

// Space returns the format's bound color space name, or "" if unbound.
func (f *Format) Space() string { return f.space }

// Palette reports whether this format is palette-indexed.
func (f *Format) Palette() bool { return f.palette }

// EncodingName returns the format's canonical string encoding (spec.md §6:
// model-name then space then type-name, e.g. "R'G'B' float").
func (f *Format) EncodingName() string { return f.encodingName }

func (f *Format) EntryName() string { return f.Name() }

func (f *Format) SameAs(other interface{}) bool {
	o, ok := other.(*Format)
	if !ok || o.model.Name() != f.model.Name() || len(o.types) != len(f.types) ||
		o.bpp != f.bpp || o.planar != f.planar || o.space != f.space || o.palette != f.palette {
		return false
	}
	for i := range f.types {
		if o.types[i].Name() != f.types[i].Name() || o.sampling[i] != f.sampling[i] {
			return false
		}
	}
	return true
}

// Options configures a Format registration beyond its required
// model/types.
type Options struct {
	Sampling []Sampling // optional, one per component; defaults to FullSampling
	Planar   bool
	Space    string
	Palette  bool
}

// Registry is the Format registry (spec.md §4.1).
type Registry struct {
	alloc *node.Allocator
	reg   *registry.Registry[*Format]
}

// NewRegistry returns an empty Format registry sharing alloc.
func NewRegistry(alloc *node.Allocator) *Registry {
	return &Registry{alloc: alloc, reg: registry.New[*Format]()}
}

// Register registers name as a Format over model with one Type per
// component (per spec.md §3: "component count matches the model's"), or
// returns the existing handle if name is already registered with matching
// attributes.
func (r *Registry) Register(name string, model *colormodel.Model, types []*typeset.Type, opts Options) (*Format, error) {
	if model == nil {
		return nil, fmt.Errorf("pixfmt: %q: nil model", name)
	}
	if len(types) != model.NComponents() {
		return nil, fmt.Errorf("pixfmt: %q: %d types given, model %q has %d components",
			name, len(types), model.Name(), model.NComponents())
	}

	sampling := make([]Sampling, len(types))
	for i := range sampling {
		sampling[i] = FullSampling
	}
	if opts.Sampling != nil {
		if len(opts.Sampling) != len(types) {
			return nil, fmt.Errorf("pixfmt: %q: sampling slice length %d != component count %d",
				name, len(opts.Sampling), len(types))
		}
		copy(sampling, opts.Sampling)
	}

	bpp := 0
	for _, t := range types {
		if t == nil {
			return nil, fmt.Errorf("pixfmt: %q: nil component type", name)
		}
		bpp += t.Bytes()
	}

	ts := make([]*typeset.Type, len(types))
	copy(ts, types)

	f := &Format{
		Header:       node.NewHeader(r.alloc.Next(), name, node.KindFormat),
		model:        model,
		types:        ts,
		sampling:     sampling,
		bpp:          bpp,
		planar:       opts.Planar,
		space:        opts.Space,
		palette:      opts.Palette,
		encodingName: name,
	}
	got, err := r.reg.Register(f)
	if err != nil {
		return nil, fmt.Errorf("pixfmt: %w", err)
	}

	return got, nil
}

// Lookup returns the Format for name, or (nil, false).
func (r *Registry) Lookup(name string) (*Format, bool) { return r.reg.Lookup(name) }

// Exists reports whether name is registered.
func (r *Registry) Exists(name string) bool { return r.reg.Exists(name) }

// Iterate returns every registered Format in registration order.
func (r *Registry) Iterate() []*Format { return r.reg.Iterate() }

// Names returns every registered Format name, sorted.
func (r *Registry) Names() []string { return r.reg.Names() }

// OfModel returns every registered Format sharing the given model name
// (spec.md §4.1: "the set of formats of a given model is enumerable").
func (r *Registry) OfModel(modelName string) []*Format {
	var out []*Format
	for _, f := range r.reg.Iterate() {
		if f.model.Name() == modelName {
			out = append(out, f)
		}
	}
	return out
}
