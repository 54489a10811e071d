package fishcache_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vantblack/pixelfish/fish"
	"github.com/vantblack/pixelfish/fishcache"
	"github.com/vantblack/pixelfish/internal/node"
)

func dummyFish(alloc *node.Allocator, name string) *fish.Fish {
	fn := func(src, dst []byte, n int) error { return nil }
	return fish.NewReference(alloc.Next(), name, fn, 1, 1, 0)
}

func TestGetOrCreateCallsCreateOnce(t *testing.T) {
	c := fishcache.New()
	alloc := &node.Allocator{}
	var calls int32

	key := fishcache.Key{SrcID: 1, DstID: 2, Version: 1}
	create := func() *fish.Fish {
		atomic.AddInt32(&calls, 1)
		return dummyFish(alloc, "f")
	}

	f1 := c.GetOrCreate(key, create)
	f2 := c.GetOrCreate(key, create)

	assert.Same(t, f1, f2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, c.Len())
}

func TestGetOrCreateDistinctKeysDontShare(t *testing.T) {
	c := fishcache.New()
	alloc := &node.Allocator{}

	a := c.GetOrCreate(fishcache.Key{SrcID: 1, DstID: 2, Version: 1}, func() *fish.Fish { return dummyFish(alloc, "a") })
	b := c.GetOrCreate(fishcache.Key{SrcID: 1, DstID: 3, Version: 1}, func() *fish.Fish { return dummyFish(alloc, "b") })

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, c.Len())
}

// TestGetOrCreateConcurrentSingleflight races many goroutines on the same
// key and asserts create runs exactly once and every goroutine observes
// the same published Fish (spec.md §4.4's publish-once contract).
func TestGetOrCreateConcurrentSingleflight(t *testing.T) {
	c := fishcache.New()
	alloc := &node.Allocator{}
	var calls int32
	release := make(chan struct{})

	create := func() *fish.Fish {
		atomic.AddInt32(&calls, 1)
		<-release
		return dummyFish(alloc, "slow")
	}

	const goroutines = 20
	key := fishcache.Key{SrcID: 9, DstID: 10, Version: 1}
	results := make([]*fish.Fish, goroutines)

	var wg sync.WaitGroup
	var started sync.WaitGroup
	started.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Done()
			results[i] = c.GetOrCreate(key, create)
		}(i)
	}
	started.Wait()
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestReset(t *testing.T) {
	c := fishcache.New()
	alloc := &node.Allocator{}
	c.GetOrCreate(fishcache.Key{SrcID: 1, DstID: 2, Version: 1}, func() *fish.Fish { return dummyFish(alloc, "a") })
	require := assert.New(t)
	require.Equal(1, c.Len())

	c.Reset()
	require.Equal(0, c.Len())
}
