package fish_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantblack/pixelfish/conversion"
	"github.com/vantblack/pixelfish/fish"
	"github.com/vantblack/pixelfish/internal/node"
)

type fakeNode struct {
	node.Header
}

func newFakeNode(alloc *node.Allocator, name string) *fakeNode {
	return &fakeNode{Header: node.NewHeader(alloc.Next(), name, node.KindFormat)}
}

// scaleConversion builds a single-byte-per-pixel Conversion that multiplies
// every byte by factor (mod 256), used to assemble deterministic chains
// whose expected composite output is easy to compute by hand.
func scaleConversion(t *testing.T, alloc *node.Allocator, convs *conversion.Registry, name string, factor byte) (*conversion.Conversion, *fakeNode, *fakeNode) {
	t.Helper()
	src := newFakeNode(alloc, name+"-src")
	dst := newFakeNode(alloc, name+"-dst")
	fn := func(s, d []byte, n int) error {
		for i := 0; i < n; i++ {
			d[i] = s[i] * factor
		}
		return nil
	}
	c, err := convs.Register(src, dst, conversion.Linear, conversion.Primitive{Linear: fn}, 1)
	require.NoError(t, err)
	return c, src, dst
}

func TestProcessSimple(t *testing.T) {
	alloc := &node.Allocator{}
	convs := conversion.NewRegistry(alloc)
	c, _, _ := scaleConversion(t, alloc, convs, "double", 2)

	f := fish.NewSimple(alloc.Next(), "double", c, 1, 1)
	src := []byte{1, 2, 3}
	dst := make([]byte, 3)

	n, err := fish.Process(f, src, dst, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{2, 4, 6}, dst)
	assert.Equal(t, uint64(3), f.PixelsProcessed())
}

func TestProcessPathChainsEdgesInOrder(t *testing.T) {
	alloc := &node.Allocator{}
	convs := conversion.NewRegistry(alloc)
	c1, _, _ := scaleConversion(t, alloc, convs, "double", 2)
	c2, _, _ := scaleConversion(t, alloc, convs, "triple", 3)
	c3, _, _ := scaleConversion(t, alloc, convs, "plusone", 1)

	f := fish.NewPath(alloc.Next(), "chain", []*conversion.Conversion{c1, c2, c3}, 1, 1, 1, 3)
	src := []byte{1, 2}
	dst := make([]byte, 2)

	n, err := fish.Process(f, src, dst, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{6, 12}, dst, "1*2*3=6, 2*2*3=12")
	assert.Equal(t, 3, f.PathLength())
}

func TestProcessPathSingleEdgeBypassesScratch(t *testing.T) {
	alloc := &node.Allocator{}
	convs := conversion.NewRegistry(alloc)
	c, _, _ := scaleConversion(t, alloc, convs, "double", 2)

	f := fish.NewPath(alloc.Next(), "chain1", []*conversion.Conversion{c}, 1, 1, 0, 1)
	src := []byte{5}
	dst := make([]byte, 1)

	_, err := fish.Process(f, src, dst, 1)
	require.NoError(t, err)
	assert.Equal(t, byte(10), dst[0])
}

func TestProcessReference(t *testing.T) {
	alloc := &node.Allocator{}
	fn := func(src, dst []byte, n int) error {
		for i := 0; i < n; i++ {
			dst[i] = src[i] + 1
		}
		return nil
	}
	f := fish.NewReference(alloc.Next(), "ref", fn, 1, 1, 100)
	src := []byte{1, 2, 3}
	dst := make([]byte, 3)

	_, err := fish.Process(f, src, dst, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3, 4}, dst)
}

func TestProcessPropagatesPrimitiveFailure(t *testing.T) {
	alloc := &node.Allocator{}
	convs := conversion.NewRegistry(alloc)
	src := newFakeNode(alloc, "s")
	dst := newFakeNode(alloc, "d")
	failing := func(s, d []byte, n int) error { return fmt.Errorf("boom") }
	c, err := convs.Register(src, dst, conversion.Linear, conversion.Primitive{Linear: failing}, 1)
	require.NoError(t, err)

	f := fish.NewSimple(alloc.Next(), "fails", c, 1, 1)
	_, err = fish.Process(f, []byte{1}, make([]byte, 1), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, fish.ErrPrimitiveFailed)
}

func TestProcessPanicsOnUndersizedBuffers(t *testing.T) {
	alloc := &node.Allocator{}
	convs := conversion.NewRegistry(alloc)
	c, _, _ := scaleConversion(t, alloc, convs, "double", 2)
	f := fish.NewSimple(alloc.Next(), "double", c, 1, 1)

	assert.Panics(t, func() {
		_, _ = fish.Process(f, []byte{1}, make([]byte, 1), 5)
	})
}

func TestErrorAccessors(t *testing.T) {
	alloc := &node.Allocator{}
	convs := conversion.NewRegistry(alloc)
	c, _, _ := scaleConversion(t, alloc, convs, "double", 2)
	f := fish.NewSimple(alloc.Next(), "double", c, 1, 1)

	assert.Equal(t, 0.0, f.Error())
	f.SetError(0.0042)
	assert.Equal(t, 0.0042, f.Error())
}

func TestEdgesReturnsDefensiveCopy(t *testing.T) {
	alloc := &node.Allocator{}
	convs := conversion.NewRegistry(alloc)
	c1, _, _ := scaleConversion(t, alloc, convs, "a", 2)
	c2, _, _ := scaleConversion(t, alloc, convs, "b", 3)
	f := fish.NewPath(alloc.Next(), "chain", []*conversion.Conversion{c1, c2}, 1, 1, 1, 2)

	edges := f.Edges()
	edges[0] = nil
	assert.NotNil(t, f.Edges()[0])
}

// TestProcessConcurrentDeterminism drives the same Path Fish from many
// goroutines at once and asserts every call's output is exactly what a
// single-threaded call would produce — Process must not share mutable
// state across concurrent invocations beyond the advisory counters.
func TestProcessConcurrentDeterminism(t *testing.T) {
	alloc := &node.Allocator{}
	convs := conversion.NewRegistry(alloc)
	c1, _, _ := scaleConversion(t, alloc, convs, "double", 2)
	c2, _, _ := scaleConversion(t, alloc, convs, "triple", 3)
	f := fish.NewPath(alloc.Next(), "chain", []*conversion.Conversion{c1, c2}, 1, 1, 1, 2)

	const goroutines = 16
	const n = 64

	src := make([]byte, n)
	for i := range src {
		src[i] = byte(i)
	}
	want := make([]byte, n)
	for i := range want {
		want[i] = src[i] * 2 * 3
	}

	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dst := make([]byte, n)
			if _, err := fish.Process(f, src, dst, n); err != nil {
				errs <- err
				return
			}
			for i := range dst {
				if dst[i] != want[i] {
					errs <- fmt.Errorf("goroutine produced %v, want %v", dst, want)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Equal(t, uint64(goroutines*n), f.PixelsProcessed())
}

func TestVariantString(t *testing.T) {
	assert.Equal(t, "Simple", fish.Simple.String())
	assert.Equal(t, "Path", fish.Path.String())
	assert.Equal(t, "Reference", fish.ReferenceVariant.String())
	assert.Equal(t, "Unknown", fish.Variant(99).String())
}

func TestRunChainRejectsEmptyChain(t *testing.T) {
	err := fish.RunChain(nil, []byte{1}, make([]byte, 1), 1, 1)
	assert.Error(t, err)
}
