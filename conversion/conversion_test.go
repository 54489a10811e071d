package conversion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantblack/pixelfish/conversion"
	"github.com/vantblack/pixelfish/internal/node"
)

// fakeNode is a minimal node.Ref for exercising the edge registry without
// pulling in typeset/pixfmt.
type fakeNode struct {
	node.Header
}

func newFakeNode(alloc *node.Allocator, name string, kind node.Kind) *fakeNode {
	return &fakeNode{Header: node.NewHeader(alloc.Next(), name, kind)}
}

func identityLinear(src, dst []byte, n int) error {
	copy(dst, src)
	return nil
}

func TestRegisterDefaultsAndLookup(t *testing.T) {
	alloc := &node.Allocator{}
	convs := conversion.NewRegistry(alloc)
	a := newFakeNode(alloc, "A", node.KindFormat)
	b := newFakeNode(alloc, "B", node.KindFormat)

	c, err := convs.Register(a, b, conversion.Linear, conversion.Primitive{Linear: identityLinear}, 0)
	require.NoError(t, err)
	assert.Equal(t, conversion.DefaultLinearCost, c.Cost(), "cost<=0 selects the kind baseline")
	assert.Equal(t, conversion.Linear, c.PrimitiveKind())
	assert.Same(t, a, c.Src())
	assert.Same(t, b, c.Dst())

	got, ok := convs.Lookup(c.Name())
	require.True(t, ok)
	assert.Same(t, c, got)
}

func TestRegisterRejectsKindMismatch(t *testing.T) {
	alloc := &node.Allocator{}
	convs := conversion.NewRegistry(alloc)
	a := newFakeNode(alloc, "A", node.KindFormat)
	b := newFakeNode(alloc, "B", node.KindType)

	_, err := convs.Register(a, b, conversion.Linear, conversion.Primitive{Linear: identityLinear}, 0)
	assert.Error(t, err)
}

func TestRegisterRejectsMissingPrimitiveForKind(t *testing.T) {
	alloc := &node.Allocator{}
	convs := conversion.NewRegistry(alloc)
	a := newFakeNode(alloc, "A", node.KindFormat)
	b := newFakeNode(alloc, "B", node.KindFormat)

	_, err := convs.Register(a, b, conversion.Linear, conversion.Primitive{}, 0)
	assert.Error(t, err)

	_, err = convs.Register(a, b, conversion.Planar, conversion.Primitive{}, 0)
	assert.Error(t, err)

	_, err = convs.Register(a, b, conversion.Reference, conversion.Primitive{}, 0)
	assert.Error(t, err)
}

func TestFromListAdjacency(t *testing.T) {
	alloc := &node.Allocator{}
	convs := conversion.NewRegistry(alloc)
	a := newFakeNode(alloc, "A", node.KindFormat)
	b := newFakeNode(alloc, "B", node.KindFormat)
	c := newFakeNode(alloc, "C", node.KindFormat)

	e1, err := convs.Register(a, b, conversion.Linear, conversion.Primitive{Linear: identityLinear}, 0)
	require.NoError(t, err)
	e2, err := convs.Register(a, c, conversion.Linear, conversion.Primitive{Linear: identityLinear}, 0)
	require.NoError(t, err)

	edges := convs.FromList(a.ID())
	assert.ElementsMatch(t, []*conversion.Conversion{e1, e2}, edges)
	assert.Empty(t, convs.FromList(b.ID()))
}

func TestFromListSnapshotIsolation(t *testing.T) {
	alloc := &node.Allocator{}
	convs := conversion.NewRegistry(alloc)
	a := newFakeNode(alloc, "A", node.KindFormat)
	b := newFakeNode(alloc, "B", node.KindFormat)
	_, err := convs.Register(a, b, conversion.Linear, conversion.Primitive{Linear: identityLinear}, 0)
	require.NoError(t, err)

	edges := convs.FromList(a.ID())
	edges[0] = nil

	assert.NotNil(t, convs.FromList(a.ID())[0])
}

func TestErrorIsUnknownUntilSet(t *testing.T) {
	alloc := &node.Allocator{}
	convs := conversion.NewRegistry(alloc)
	a := newFakeNode(alloc, "A", node.KindFormat)
	b := newFakeNode(alloc, "B", node.KindFormat)
	c, err := convs.Register(a, b, conversion.Linear, conversion.Primitive{Linear: identityLinear}, 0)
	require.NoError(t, err)

	_, known := c.Error()
	assert.False(t, known)

	c.SetError(0.25)
	e, known := c.Error()
	assert.True(t, known)
	assert.Equal(t, 0.25, e)
}

func TestMeasureDefaultsToIdentityWhenNil(t *testing.T) {
	alloc := &node.Allocator{}
	convs := conversion.NewRegistry(alloc)
	a := newFakeNode(alloc, "A", node.KindFormat)
	b := newFakeNode(alloc, "B", node.KindFormat)
	c, err := convs.Register(a, b, conversion.Linear, conversion.Primitive{Linear: identityLinear}, 0)
	require.NoError(t, err)

	in := []float64{1, 2, 3, 4}
	assert.Equal(t, in, c.Measure(in))
}

func TestRunLinearInvokesPrimitive(t *testing.T) {
	alloc := &node.Allocator{}
	convs := conversion.NewRegistry(alloc)
	a := newFakeNode(alloc, "A", node.KindFormat)
	b := newFakeNode(alloc, "B", node.KindFormat)
	c, err := convs.Register(a, b, conversion.Linear, conversion.Primitive{Linear: identityLinear}, 0)
	require.NoError(t, err)

	src := []byte{1, 2, 3, 4}
	dst := make([]byte, 4)
	require.NoError(t, c.RunLinear(src, dst, 1))
	assert.Equal(t, src, dst)
}

func TestDefaultCostByKind(t *testing.T) {
	alloc := &node.Allocator{}
	convs := conversion.NewRegistry(alloc)
	a := newFakeNode(alloc, "A", node.KindFormat)
	b := newFakeNode(alloc, "B", node.KindFormat)

	planarC, err := convs.Register(a, b, conversion.Planar,
		conversion.Primitive{PlanarFn: func(sp [][]byte, spitch []int, dp [][]byte, dpitch []int, n int) error { return nil }}, 0)
	require.NoError(t, err)
	assert.Equal(t, conversion.DefaultPlanarCost, planarC.Cost())

	refC, err := convs.Register(a, b, conversion.Reference,
		conversion.Primitive{Reference: func(src, dst []byte, n int) error { return nil }}, 0)
	require.NoError(t, err)
	assert.Equal(t, conversion.DefaultReferenceCost, refC.Cost())
}
