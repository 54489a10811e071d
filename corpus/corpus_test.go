package corpus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vantblack/pixelfish/corpus"
)

func TestGenerateIsDeterministic(t *testing.T) {
	a := corpus.Generate(corpus.DefaultSeed, 64)
	b := corpus.Generate(corpus.DefaultSeed, 64)
	assert.Equal(t, a, b)
}

func TestGenerateDifferentSeedsDiffer(t *testing.T) {
	a := corpus.Generate(1, 64)
	b := corpus.Generate(2, 64)
	assert.NotEqual(t, a, b)
}

func TestGenerateLength(t *testing.T) {
	for _, n := range []int{0, 1, 48, 304, 1000} {
		got := corpus.Generate(corpus.DefaultSeed, n)
		assert.Len(t, got, n)
	}
}

// TestGenerateSegmentRanges asserts the fixed composition from spec.md
// §4.5: the first 256 pixels are [0,1]^4, the next 16 are [-1,0]^4
// (negative linear values), the next 16 are [1,2]^4 (over-range), and the
// next 16 have alpha pinned to 0 (premultiplied paths).
func TestGenerateSegmentRanges(t *testing.T) {
	got := corpus.Generate(corpus.DefaultSeed, corpus.DefaultNPath)

	for i := 0; i < 256; i++ {
		for _, v := range got[i] {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
	for i := 256; i < 272; i++ {
		for _, v := range got[i] {
			assert.GreaterOrEqual(t, v, -1.0)
			assert.LessOrEqual(t, v, 0.0)
		}
	}
	for i := 272; i < 288; i++ {
		for _, v := range got[i] {
			assert.GreaterOrEqual(t, v, 1.0)
			assert.LessOrEqual(t, v, 2.0)
		}
	}
	for i := 288; i < 304; i++ {
		assert.Equal(t, 0.0, got[i][3], "premultiplied segment pins alpha to 0")
	}
}

func TestSharedIsStableAcrossCalls(t *testing.T) {
	assert.Same(t, &corpus.Shared()[0], &corpus.Shared()[0])
	assert.Len(t, corpus.Shared(), corpus.DefaultNPath)
}

func TestPerKindAliasesArePrefixesOfShared(t *testing.T) {
	shared := corpus.Shared()

	assert.Equal(t, shared[:corpus.ConversionCorpusSize], corpus.ForConversion())
	assert.Equal(t, shared[:corpus.FormatCorpusSize], corpus.ForFormat())
	assert.Equal(t, shared[:corpus.ModelCorpusSize], corpus.ForModel())
	assert.Equal(t, shared[:corpus.TypeCorpusSize], corpus.ForType())
}
