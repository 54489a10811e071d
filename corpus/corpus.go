// Package corpus generates the fixed, deterministic set of RGBA-double test
// pixels the planner uses to measure a candidate chain's error (spec.md
// §4.5). The full corpus is generated once, from a fixed seed, and shared;
// the smaller per-kind corpora (Type/Model/Format/Conversion) are aliases
// into the same array prefix, never independently generated, so every
// error measurement in a process is comparing against the same pixels.
package corpus

import "math/rand"

// Pixel is an RGBA double pixel: R, G, B, A in that order.
type Pixel [4]float64

// DefaultSeed is the fixed seed the shared corpus is generated from.
// Grounded on builder.newBuilderConfig's deterministic-seed rng pattern:
// a fixed seed makes Generate reproducible across runs for equal n.
const DefaultSeed = 0xBAB1

// DefaultNPath is N_path, the default size of the full planner corpus.
const DefaultNPath = 3072

// Per-kind aliases into the shared corpus's prefix (spec.md §4.5).
const (
	ConversionCorpusSize = 128
	FormatCorpusSize     = 256
	ModelCorpusSize      = 512
	TypeCorpusSize       = 512
)

// Generate deterministically builds a corpus of nPath pixels from seed,
// following the fixed composition in spec.md §4.5:
//
//   - 256 pixels uniform in [0,1]^4
//   - 16 pixels uniform in [-1,0]^4        (negative linear values)
//   - 16 pixels uniform in [1,2]^4         (over-range values)
//   - 16 pixels uniform in [0,1]^3, alpha=0 (premultiplied paths)
//   - the remaining nPath-304 pixels uniform in [0,1]^4
//
// Segments are filled in the order above until nPath pixels exist, so if
// nPath < 304 the later segments are cut short or left out: for any
// nPath <= 256 the result holds only [0,1]^4 pixels.
func Generate(seed int64, nPath int) []Pixel {
	rng := rand.New(rand.NewSource(seed))
	out := make([]Pixel, 0, nPath)

	segments := []struct {
		n    int
		fill func(r *rand.Rand) Pixel
	}{
		{256, func(r *rand.Rand) Pixel { return uniform4(r, 0, 1) }},
		{16, func(r *rand.Rand) Pixel { return uniform4(r, -1, 0) }},
		{16, func(r *rand.Rand) Pixel { return uniform4(r, 1, 2) }},
		{16, func(r *rand.Rand) Pixel {
			p := uniform4(r, 0, 1)
			p[3] = 0
			return p
		}},
	}

	for _, seg := range segments {
		for i := 0; i < seg.n && len(out) < nPath; i++ {
			out = append(out, seg.fill(rng))
		}
	}
	for len(out) < nPath {
		out = append(out, uniform4(rng, 0, 1))
	}

	return out
}

func uniform4(r *rand.Rand, lo, hi float64) Pixel {
	var p Pixel
	for i := range p {
		p[i] = lo + r.Float64()*(hi-lo)
	}
	return p
}

var shared []Pixel

func init() {
	shared = Generate(DefaultSeed, DefaultNPath)
}

// Shared returns the process-wide corpus (generated once at startup; read
// only, so no lock is required — spec.md §5 "Test corpus: read-only after
// generation; no lock.").
func Shared() []Pixel { return shared }

// ForConversion returns the 128-pixel alias used to rate a single edge.
func ForConversion() []Pixel { return shared[:ConversionCorpusSize] }

// ForFormat returns the 256-pixel alias used to rate Format-level chains.
func ForFormat() []Pixel { return shared[:FormatCorpusSize] }

// ForModel returns the 512-pixel alias used to rate Model-layer crossings.
func ForModel() []Pixel { return shared[:ModelCorpusSize] }

// ForType returns the 512-pixel alias used to rate Type-layer crossings.
func ForType() []Pixel { return shared[:TypeCorpusSize] }
