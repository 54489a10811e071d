package planner

import (
	"fmt"

	"github.com/vantblack/pixelfish/colormodel"
	"github.com/vantblack/pixelfish/conversion"
	"github.com/vantblack/pixelfish/corpus"
	"github.com/vantblack/pixelfish/fish"
	"github.com/vantblack/pixelfish/internal/buf"
	"github.com/vantblack/pixelfish/pixfmt"
	"github.com/vantblack/pixelfish/typeset"
)

// layerCrossCost is the large, fixed cost penalty a synthesized layer
// crossing carries on top of the sum of its bridging edges' own costs
// (spec.md §4.3: "these have a large cost penalty so the planner prefers
// direct Format<->Format edges when they exist"). A single Reference
// primitive already costs conversion.DefaultReferenceCost; a crossing
// costs several times that, so the ordinary Reference fallback — a real
// multi-hop Format chain — always wins the tie-break when one exists.
const layerCrossCost = conversion.DefaultReferenceCost * 4

// crossLayers synthesizes the two layer-crossing rescues spec.md §4.3
// allows beyond ordinary Format<->Format chains: Format -> Model -> Format
// when src and dst have different color models, and Model -> Type -> Model
// when they share a model but differ componentwise in Type. Neither
// crossing is ever stored in conversion.Registry as a Format edge (Format
// and Model/Type are different node kinds, and Registry.Register rejects
// mixed-kind endpoints by construction) — crossLayers builds a fresh
// Reference Conversion on every call, which Plan then treats exactly like
// any other Reference fallback.
//
// It is tried only after Plan's ordinary searches (direct/Path, then the
// relaxed Reference search) have both failed, and only returns a usable
// bridge if one can actually be found; Plan falls through to
// buildUnreachableFish otherwise.
func (p *Planner) crossLayers(src, dst *pixfmt.Format, cfg config) (*conversion.Conversion, bool) {
	if src.Model().ID() == dst.Model().ID() {
		return p.crossTypeLayer(src, dst, cfg)
	}
	return p.crossModelLayer(src, dst, cfg)
}

// crossTypeLayer bridges two same-model Formats whose components differ in
// Type by converting each component independently through the Type layer
// (Model -> Type -> Model, spec.md §4.3). Same model guarantees src and dst
// have identical component counts, order and semantics — only the storage
// Type per component may differ.
func (p *Planner) crossTypeLayer(src, dst *pixfmt.Format, cfg config) (*conversion.Conversion, bool) {
	n := src.NComponents()
	chains := make([][]*conversion.Conversion, n)
	cost := layerCrossCost
	for i := 0; i < n; i++ {
		st, dt := src.TypeAt(i), dst.TypeAt(i)
		if st.ID() == dt.ID() {
			continue // identical Type: component i is a byte-for-byte copy
		}
		chain, ok := p.searchTypeChain(st.ID(), dt.ID(), cfg, i)
		if !ok {
			return nil, false
		}
		chains[i] = chain
		for _, c := range chain {
			cost += c.Cost()
		}
	}

	srcOffsets, dstOffsets := componentOffsets(src), componentOffsets(dst)
	srcBpp, dstBpp := src.BytesPerPixel(), dst.BytesPerPixel()

	return p.convs.Register(src, dst, conversion.Reference, conversion.Primitive{
		Reference: func(s, d []byte, pixN int) error {
			return runTypeBridgedComponents(chains, src, dst, srcOffsets, dstOffsets, srcBpp, dstBpp, s, d, pixN)
		},
	}, cost)
}

// searchTypeChain finds a Type-kind Conversion chain from srcID to dstID,
// reusing the generic DFS/branch-and-bound searchEngine (its traversal is
// node-id based and has no Format-specific assumptions). Candidate chains
// are judged purely by cost: corpus.ForType() pixels are still run through
// every edge's Measure so a broken Measure func fails loudly during
// planning rather than silently at Process time, but the reported error is
// fixed at 0 — there is no single-component "ideal" target to diff
// against, the way Format-level chains diff against the shared RGBA pivot.
func (p *Planner) searchTypeChain(srcID, dstID uint64, cfg config, componentIdx int) ([]*conversion.Conversion, bool) {
	pixels := corpus.ForType()
	engine := &searchEngine{
		convs: p.convs,
		cfg:   cfg,
		dstID: dstID,
		measure: func(chain []*conversion.Conversion) float64 {
			return exerciseScalarChain(chain, pixels, componentIdx)
		},
	}
	chain, _, ok := engine.search(srcID)
	return chain, ok
}

func exerciseScalarChain(chain []*conversion.Conversion, pixels []corpus.Pixel, componentIdx int) float64 {
	for _, px := range pixels {
		in := []float64{px[componentIdx%4]}
		for _, edge := range chain {
			in = edge.Measure(in)
		}
	}
	return 0
}

// crossModelLayer bridges two different-model Formats by decoding each
// pixel's components into its Model's abstract per-component float64
// representation, searching for a Model-kind Conversion chain between the
// two models, and re-encoding into the destination Format's bytes (Format
// -> Model -> Format, spec.md §4.3).
func (p *Planner) crossModelLayer(src, dst *pixfmt.Format, cfg config) (*conversion.Conversion, bool) {
	chain, ok := p.searchModelChain(src.Model(), dst.Model(), cfg)
	if !ok {
		return nil, false
	}

	cost := layerCrossCost
	for _, c := range chain {
		cost += c.Cost()
	}

	srcN, dstN := src.NComponents(), dst.NComponents()
	srcOffsets, dstOffsets := componentOffsets(src), componentOffsets(dst)
	srcBpp, dstBpp := src.BytesPerPixel(), dst.BytesPerPixel()
	maxMid := maxModelChainBpp(chain)

	return p.convs.Register(src, dst, conversion.Reference, conversion.Primitive{
		Reference: func(s, d []byte, pixN int) error {
			for px := 0; px < pixN; px++ {
				mid := make([]byte, srcN*8)
				view := buf.Float64s(mid)
				for i := 0; i < srcN; i++ {
					t := src.TypeAt(i)
					off := srcOffsets[i]
					view[i] = decodeComponentToFloat64(t, s[px*srcBpp+off:px*srcBpp+off+t.Bytes()])
				}

				out := make([]byte, dstN*8)
				if err := fish.RunChain(chain, mid, out, 1, maxMid); err != nil {
					return fmt.Errorf("planner: model-layer crossing: %w", err)
				}

				outView := buf.Float64s(out)
				for i := 0; i < dstN; i++ {
					t := dst.TypeAt(i)
					off := dstOffsets[i]
					encodeFloat64ToComponent(t, outView[i], d[px*dstBpp+off:px*dstBpp+off+t.Bytes()])
				}
			}
			return nil
		},
	}, cost)
}

// searchModelChain finds a Model-kind Conversion chain between two models.
// Like the Type layer, candidates are judged purely by cost: two unrelated
// models share no canonical "ideal" pixel to measure against, so the
// measure func here only exercises each edge's Measure over
// corpus.ForModel() (catching a panicking or malformed Measure during
// planning) and always reports zero error.
func (p *Planner) searchModelChain(src, dst *colormodel.Model, cfg config) ([]*conversion.Conversion, bool) {
	pixels := corpus.ForModel()
	engine := &searchEngine{
		convs: p.convs,
		cfg:   cfg,
		dstID: dst.ID(),
		measure: func(chain []*conversion.Conversion) float64 {
			return exerciseModelChain(chain, pixels)
		},
	}
	chain, _, ok := engine.search(src.ID())
	return chain, ok
}

func exerciseModelChain(chain []*conversion.Conversion, pixels []corpus.Pixel) float64 {
	for _, px := range pixels {
		in := []float64{px[0], px[1], px[2], px[3]}
		for _, edge := range chain {
			in = edge.Measure(in)
		}
	}
	return 0
}

// componentOffsets returns the byte offset of each component within one
// interleaved pixel of f, derived from the cumulative sum of the preceding
// components' Type widths.
func componentOffsets(f *pixfmt.Format) []int {
	offsets := make([]int, f.NComponents())
	sum := 0
	for i := range offsets {
		offsets[i] = sum
		sum += f.TypeAt(i).Bytes()
	}
	return offsets
}

// maxModelChainBpp finds the largest packed-float64 width (NComponents*8)
// among a Model-layer chain's internal (non-terminal) Model nodes, sizing
// the scratch buffers fish.RunChain ping-pongs across for a multi-hop
// bridge. A single-edge chain never touches scratch (fish.RunChain
// bypasses it when len(chain) == 1), so the zero this returns for that
// case is never used as a buffer size.
func maxModelChainBpp(chain []*conversion.Conversion) int {
	max := 0
	for i, edge := range chain {
		if i == len(chain)-1 {
			continue
		}
		if m, ok := edge.Dst().(*colormodel.Model); ok {
			if w := m.NComponents() * 8; w > max {
				max = w
			}
		}
	}
	return max
}

// maxTypeChainBpp is maxModelChainBpp's Type-layer counterpart: the
// largest byte width among a component's internal (non-terminal) Type
// nodes, falling back to fallback (the component's own source width) when
// the chain is a single edge.
func maxTypeChainBpp(chain []*conversion.Conversion, fallback int) int {
	max := fallback
	for i, edge := range chain {
		if i == len(chain)-1 {
			continue
		}
		if t, ok := edge.Dst().(*typeset.Type); ok && t.Bytes() > max {
			max = t.Bytes()
		}
	}
	return max
}

// runTypeBridgedComponents de-interleaves each component of src's packed
// pixels, runs it through its own Type-kind chain (or copies it directly
// when src and dst share that component's Type), and re-interleaves the
// result into dst.
func runTypeBridgedComponents(chains [][]*conversion.Conversion, src, dst *pixfmt.Format, srcOffsets, dstOffsets []int, srcBpp, dstBpp int, s, d []byte, n int) error {
	for i, chain := range chains {
		st, dt := src.TypeAt(i), dst.TypeAt(i)
		stW, dtW := st.Bytes(), dt.Bytes()

		comp := make([]byte, n*stW)
		for px := 0; px < n; px++ {
			from := px*srcBpp + srcOffsets[i]
			copy(comp[px*stW:(px+1)*stW], s[from:from+stW])
		}

		if chain == nil {
			for px := 0; px < n; px++ {
				to := px*dstBpp + dstOffsets[i]
				copy(d[to:to+dtW], comp[px*stW:(px+1)*stW])
			}
			continue
		}

		out := make([]byte, n*dtW)
		if err := fish.RunChain(chain, comp, out, n, maxTypeChainBpp(chain, stW)); err != nil {
			return fmt.Errorf("planner: type-layer crossing component %d: %w", i, err)
		}
		for px := 0; px < n; px++ {
			to := px*dstBpp + dstOffsets[i]
			copy(d[to:to+dtW], out[px*dtW:(px+1)*dtW])
		}
	}
	return nil
}

// decodeComponentToFloat64/encodeFloat64ToComponent are a small, generic
// numeric codec for the Model layer's packed-float64 representation, built
// entirely on typeset.Type's public accessors. It deliberately does not
// support "half" (IEEE-754 binary16): no baseline Format that needs a
// Model-layer crossing uses a half-typed component without an existing
// direct Format<->Format edge already covering it, and a correct half
// codec belongs with the rest of baseline's domain-specific numeric code,
// not duplicated here (see DESIGN.md).
func decodeComponentToFloat64(t *typeset.Type, raw []byte) float64 {
	switch {
	case t.IsFloat() && t.Bytes() == 4:
		return float64(buf.Float32s(raw)[0])
	case t.IsFloat() && t.Bytes() == 8:
		return buf.Float64s(raw)[0]
	case !t.IsFloat() && t.Bytes() == 1:
		return float64(raw[0]) / 255.0
	case !t.IsFloat() && t.Bytes() == 2:
		return float64(buf.Uint16s(raw)[0]) / 65535.0
	default:
		return 0
	}
}

func encodeFloat64ToComponent(t *typeset.Type, v float64, out []byte) {
	switch {
	case t.IsFloat() && t.Bytes() == 4:
		buf.Float32s(out)[0] = float32(v)
	case t.IsFloat() && t.Bytes() == 8:
		buf.Float64s(out)[0] = v
	case !t.IsFloat() && t.Bytes() == 1:
		out[0] = clampRoundU8(v)
	case !t.IsFloat() && t.Bytes() == 2:
		buf.Uint16s(out)[0] = clampRoundU16(v)
	}
}

func clampRoundU8(v float64) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return byte(v*255 + 0.5)
	}
}

func clampRoundU16(v float64) uint16 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 65535
	default:
		return uint16(v*65535 + 0.5)
	}
}
