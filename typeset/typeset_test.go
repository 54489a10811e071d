package typeset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantblack/pixelfish/internal/node"
	"github.com/vantblack/pixelfish/typeset"
)

func newRegistry() *typeset.Registry {
	return typeset.NewRegistry(&node.Allocator{})
}

func TestRegisterAndAccessors(t *testing.T) {
	r := newRegistry()

	u8, err := r.Register("u8", 8, false, false, false)
	require.NoError(t, err)
	assert.Equal(t, 8, u8.BitWidth())
	assert.Equal(t, 1, u8.Bytes())
	assert.False(t, u8.IsFloat())
	assert.False(t, u8.IsSigned())
	assert.False(t, u8.IsLinear())
	assert.Equal(t, "u8", u8.Name())
	assert.Equal(t, node.KindType, u8.Kind())

	double, err := r.Register("double", 64, true, true, true)
	require.NoError(t, err)
	assert.Equal(t, 8, double.Bytes())
	assert.True(t, double.IsFloat())
	assert.True(t, double.IsLinear())
}

func TestRegisterRejectsBadBitWidth(t *testing.T) {
	r := newRegistry()

	_, err := r.Register("weird", 0, false, false, false)
	assert.Error(t, err)

	_, err = r.Register("weird", 12, false, false, false)
	assert.Error(t, err, "12 is not a multiple of 8")
}

func TestRegisterIdempotentOnIdenticalAttrs(t *testing.T) {
	r := newRegistry()

	a, err := r.Register("u8", 8, false, false, false)
	require.NoError(t, err)
	b, err := r.Register("u8", 8, false, false, false)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestRegisterIncompatibleConflicts(t *testing.T) {
	r := newRegistry()

	_, err := r.Register("u8", 8, false, false, false)
	require.NoError(t, err)

	_, err = r.Register("u8", 16, false, false, false)
	assert.Error(t, err)
}

func TestLookupExistsIterateNames(t *testing.T) {
	r := newRegistry()
	_, _ = r.Register("u16", 16, false, false, false)
	_, _ = r.Register("half", 16, true, true, true)

	got, ok := r.Lookup("half")
	require.True(t, ok)
	assert.Equal(t, "half", got.Name())

	_, ok = r.Lookup("nope")
	assert.False(t, ok)

	assert.True(t, r.Exists("u16"))
	assert.False(t, r.Exists("nope"))

	assert.Len(t, r.Iterate(), 2)
	assert.Equal(t, []string{"half", "u16"}, r.Names())
}

// TestIdsAreDenseAcrossSharedAllocator asserts two registries sharing one
// Allocator never collide on id, matching the "ids dense across all six
// node kinds" contract internal/node documents.
func TestIdsAreDenseAcrossSharedAllocator(t *testing.T) {
	alloc := &node.Allocator{}
	r1 := typeset.NewRegistry(alloc)
	r2 := typeset.NewRegistry(alloc)

	a, _ := r1.Register("u8", 8, false, false, false)
	b, _ := r2.Register("u16", 16, false, false, false)

	assert.NotEqual(t, a.ID(), b.ID())
}
