// Package fishcache implements the process-wide Fish cache (spec.md §4.4):
// keyed by (src format id, dst format id, planner version), publish-once,
// and safe for concurrent Get-or-create calls racing on the same key.
package fishcache

import (
	"sync"

	"github.com/vantblack/pixelfish/fish"
)

// Key identifies one cached Fish. Version lets a future planner revision
// invalidate older cached entries without a cache-wide flush.
type Key struct {
	SrcID, DstID uint64
	Version      int
}

// entry is published exactly once: the first caller to observe a miss
// builds the fish and closes ready; every other caller for the same key
// blocks on ready rather than re-running the planner (spec.md §4.4:
// "concurrent make-fish calls for the same key must not duplicate planning
// work unnecessarily but must produce a single stable published fish").
type entry struct {
	ready chan struct{}
	fish  *fish.Fish
}

// Cache is the Fish cache. The zero value is not usable; use New.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[Key]*entry)}
}

// GetOrCreate returns the cached Fish for key, or calls create exactly
// once to build and publish it. Every call, hit or miss, takes the mutex
// briefly for the map lookup; the mutex only ever guards the map itself,
// never the (possibly slow) planning call, and callers that find an
// in-flight entry wait on its channel outside the lock.
//
// create must not itself call GetOrCreate on the same Cache for the same
// key — doing so would deadlock waiting on its own publish. This library's
// planner never does: error measurement stages corpus pixels through
// direct Conversion edges, not through fish lookups, so no fishcache call
// ever re-enters itself (see DESIGN.md).
func (c *Cache) GetOrCreate(key Key, create func() *fish.Fish) *fish.Fish {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		<-e.ready
		return e.fish
	}
	e := &entry{ready: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	e.fish = create()
	close(e.ready)
	return e.fish
}

// Len reports the number of published or in-flight entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset drops every cached entry. Intended for test isolation and for
// library teardown (spec.md §5: "teardown drains the fish cache").
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*entry)
}
