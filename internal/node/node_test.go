package node_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vantblack/pixelfish/internal/node"
)

func TestHeaderAccessors(t *testing.T) {
	h := node.NewHeader(7, "R'G'B' u8", node.KindFormat)

	assert.Equal(t, uint64(7), h.ID())
	assert.Equal(t, "R'G'B' u8", h.Name())
	assert.Equal(t, node.KindFormat, h.Kind())
}

func TestKindString(t *testing.T) {
	cases := map[node.Kind]string{
		node.KindType:       "Type",
		node.KindComponent:  "Component",
		node.KindModel:      "Model",
		node.KindFormat:     "Format",
		node.KindConversion: "Conversion",
		node.KindFish:       "Fish",
		node.Kind(99):       "Unknown",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}

// TestAllocatorNext locks in that ids are dense, monotone, and start at 0
// (internal/registry and every named registry depend on this for the
// "ids are dense within an Instance" invariant).
func TestAllocatorNext(t *testing.T) {
	a := &node.Allocator{}
	for i := uint64(0); i < 5; i++ {
		assert.Equal(t, i, a.Next())
	}
}

// TestAllocatorNextConcurrent asserts Next() hands out unique ids under
// concurrent use, mirroring core.Graph.nextEdgeID's atomic-counter
// concurrency guarantee.
func TestAllocatorNextConcurrent(t *testing.T) {
	a := &node.Allocator{}
	const goroutines = 32
	const perGoroutine = 200

	seen := make(chan uint64, goroutines*perGoroutine)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				seen <- a.Next()
			}
		}()
	}
	wg.Wait()
	close(seen)

	uniq := make(map[uint64]struct{}, goroutines*perGoroutine)
	for id := range seen {
		_, dup := uniq[id]
		assert.False(t, dup, "id %d handed out twice", id)
		uniq[id] = struct{}{}
	}
	assert.Len(t, uniq, goroutines*perGoroutine)
}
