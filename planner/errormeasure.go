package planner

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/vantblack/pixelfish/conversion"
	"github.com/vantblack/pixelfish/corpus"
	"github.com/vantblack/pixelfish/pixfmt"
)

// errorMeasurer turns a candidate chain plus the shared pivot Format
// ("RGBA double", the staging format the baseline Formats round-trip
// through) into a single scalar error estimate against the corpus
// (spec.md §4.3's "Empirical error measurement").
//
// For each corpus pixel it:
//
//  1. runs the pivot->src edge's MeasureFn, every chain edge's MeasureFn
//     and the dst->pivot edge's MeasureFn in idealized float64 arithmetic
//     to get the "ideal" pixel, with no intermediate rounding;
//  2. stages the corpus pixel into the chain's actual source bytes via the
//     same pivot->src edge (identity if src IS the pivot), executes the
//     real, byte-quantized chain, and stages the result back to the pivot
//     via the same dst->pivot edge;
//  3. accumulates the squared difference between the two, both now RGBA
//     double pivot pixels.
//
// The reported error is the root-mean-square difference across every
// corpus pixel and all four channels. Results are memoized per chain so a
// re-visited candidate during branch-and-bound is never re-measured.
type errorMeasurer struct {
	convs *conversion.Registry
	pivot *pixfmt.Format
	src   *pixfmt.Format
	dst   *pixfmt.Format

	pixels []corpus.Pixel

	cache map[string]float64
}

func newErrorMeasurer(convs *conversion.Registry, pivot, src, dst *pixfmt.Format) *errorMeasurer {
	return &errorMeasurer{
		convs:  convs,
		pivot:  pivot,
		src:    src,
		dst:    dst,
		pixels: corpus.ForFormat(),
		cache:  make(map[string]float64),
	}
}

func (m *errorMeasurer) measure(chain []*conversion.Conversion) float64 {
	key := chainKey(chain)
	if v, ok := m.cache[key]; ok {
		return v
	}

	pivotToSrc, srcIsPivot := findEdge(m.convs, m.pivot.ID(), m.src.ID())
	dstToPivot, dstIsPivot := findEdge(m.convs, m.dst.ID(), m.pivot.ID())

	var sumSq float64
	n := 0

	for _, px := range m.pixels {
		ideal := []float64{px[0], px[1], px[2], px[3]}
		if pivotToSrc != nil {
			ideal = pivotToSrc.Measure(ideal)
		}
		for _, edge := range chain {
			ideal = edge.Measure(ideal)
		}
		if dstToPivot != nil {
			ideal = dstToPivot.Measure(ideal)
		}
		if len(ideal) < 4 {
			continue
		}

		srcBytes, ok := stageIn(px, pivotToSrc, srcIsPivot)
		if !ok {
			continue
		}
		dstBytes := make([]byte, m.dst.BytesPerPixel())
		if err := runChainBytes(chain, srcBytes, dstBytes); err != nil {
			continue
		}
		measured, ok := stageOut(dstBytes, dstToPivot, dstIsPivot)
		if !ok {
			continue
		}

		for i := 0; i < 4; i++ {
			d := ideal[i] - measured[i]
			sumSq += d * d
		}
		n++
	}

	var rms float64
	if n > 0 {
		rms = math.Sqrt(sumSq / float64(n*4))
	}
	m.cache[key] = rms
	return rms
}

// findEdge reports the single-hop Conversion from fromID to toID, if the
// registry has one, and whether fromID == toID (in which case no edge is
// needed at all — the stage is an identity).
func findEdge(convs *conversion.Registry, fromID, toID uint64) (edge *conversion.Conversion, identity bool) {
	if fromID == toID {
		return nil, true
	}
	for _, e := range convs.FromList(fromID) {
		if e.Dst().ID() == toID {
			return e, false
		}
	}
	return nil, false
}

func stageIn(px corpus.Pixel, pivotToSrc *conversion.Conversion, srcIsPivot bool) ([]byte, bool) {
	pivotBytes := encodePivotPixel(px)
	if srcIsPivot {
		return pivotBytes, true
	}
	if pivotToSrc == nil {
		return nil, false
	}
	srcFmt, ok := pivotToSrc.Dst().(*pixfmt.Format)
	if !ok {
		return nil, false
	}
	out := make([]byte, srcFmt.BytesPerPixel())
	if err := pivotToSrc.Run(pivotBytes, out, 1); err != nil {
		return nil, false
	}
	return out, true
}

func stageOut(dstBytes []byte, dstToPivot *conversion.Conversion, dstIsPivot bool) (corpus.Pixel, bool) {
	if dstIsPivot {
		return decodePivotPixel(dstBytes), true
	}
	if dstToPivot == nil {
		return corpus.Pixel{}, false
	}
	out := make([]byte, pivotBytesPerPixel)
	if err := dstToPivot.Run(dstBytes, out, 1); err != nil {
		return corpus.Pixel{}, false
	}
	return decodePivotPixel(out), true
}

// runChainBytes executes chain over exactly one pixel, allocating each
// intermediate buffer from the real per-component byte width of the
// chain's own intermediate Format nodes (not the conservative max-bpp
// scratch sizing a streaming Fish uses, since this path only ever runs
// n=1 pixel at measurement time).
func runChainBytes(chain []*conversion.Conversion, src, dst []byte) error {
	cur := src
	for i, edge := range chain {
		var out []byte
		if i == len(chain)-1 {
			out = dst
		} else {
			df, ok := edge.Dst().(*pixfmt.Format)
			if !ok {
				return fmt.Errorf("planner: chain edge destination is not a Format")
			}
			out = make([]byte, df.BytesPerPixel())
		}
		if err := edge.Run(cur, out, 1); err != nil {
			return err
		}
		cur = out
	}
	return nil
}

const pivotBytesPerPixel = 32 // 4 channels * 8-byte float64

// encodePivotPixel/decodePivotPixel give the RGBA-double pivot a fixed,
// endian-explicit wire layout shared by every baseline pivot<->Format edge,
// so the error measurer never depends on a particular Format's registered
// LinearFn to interpret its own pivot encoding.
func encodePivotPixel(px corpus.Pixel) []byte {
	b := make([]byte, pivotBytesPerPixel)
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(b[i*8:], math.Float64bits(px[i]))
	}
	return b
}

func decodePivotPixel(b []byte) corpus.Pixel {
	var px corpus.Pixel
	for i := 0; i < 4; i++ {
		px[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return px
}

func chainKey(chain []*conversion.Conversion) string {
	var b strings.Builder
	for _, c := range chain {
		fmt.Fprintf(&b, "%d|", c.ID())
	}
	return b.String()
}
