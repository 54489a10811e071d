// Package planner implements the path planner (spec.md §4.3): a bounded
// depth-first, branch-and-bound search over the Conversion registry's
// Format-to-Format adjacency that compiles a Fish for any two Formats.
package planner

import (
	"fmt"
	"math"
	"sync"

	"github.com/vantblack/pixelfish/conversion"
	"github.com/vantblack/pixelfish/diskcache"
	"github.com/vantblack/pixelfish/fish"
	"github.com/vantblack/pixelfish/internal/node"
	"github.com/vantblack/pixelfish/pixfmt"
)

// ErrNoPath marks a Reference Fish compiled for two Formats that turned
// out, at Process time, to have no conversion path between them at all —
// not even under the Reference fallback's relaxed bounds. Plan itself
// never returns this error; spec.md §6 guarantees Fish(S, D) never returns
// nil once the library is initialized, so an unreachable pair degrades to
// a Fish that fails lazily, on first use, instead.
var ErrNoPath = fmt.Errorf("planner: no conversion path exists between these formats")

// Planner compiles Fish instances between pairs of Formats registered in
// convs. One Planner is shared process-wide (spec.md §5: "Fish cache:
// singleton, process-wide"); it is safe for concurrent use.
type Planner struct {
	convs *conversion.Registry
	alloc *node.Allocator
	pivot *pixfmt.Format
	disk  *diskcache.Cache // optional; nil disables persistence (spec.md §4.7)

	idMu       sync.Mutex
	identities map[uint64]*conversion.Conversion
}

// New returns a Planner over convs, using pivot as the universal RGBA
// double staging Format that error measurement and the Reference fallback
// both route corpus pixels through. disk may be nil, in which case Plan
// neither consults nor persists to a disk cache.
func New(convs *conversion.Registry, alloc *node.Allocator, pivot *pixfmt.Format, disk *diskcache.Cache) *Planner {
	return &Planner{
		convs:      convs,
		alloc:      alloc,
		pivot:      pivot,
		disk:       disk,
		identities: make(map[uint64]*conversion.Conversion),
	}
}

// Plan compiles a Fish converting src to dst (spec.md §4.3). It always
// succeeds: a direct or chained match under the configured bounds becomes
// a Simple or Path Fish; anything else falls back to a Reference Fish
// compiled from a relaxed, unbounded-error search; a genuinely
// disconnected pair becomes a Reference Fish whose primitive always
// reports ErrNoPath.
func (p *Planner) Plan(src, dst *pixfmt.Format, opts ...Option) *fish.Fish {
	if src.ID() == dst.ID() {
		return p.identityFish(src)
	}

	cfg := resolve(opts...)

	if p.disk != nil {
		if chain, rec, ok := p.disk.Resolve(src.Name(), dst.Name(), p.convs, cfg.errorFloor); ok {
			return p.buildFish(src, dst, chain, rec.Error)
		}
	}

	measurer := newErrorMeasurer(p.convs, p.pivot, src, dst)

	engine := &searchEngine{convs: p.convs, cfg: cfg, dstID: dst.ID(), measure: measurer.measure}
	if chain, measuredErr, ok := engine.search(src.ID()); ok {
		f := p.buildFish(src, dst, chain, measuredErr)
		p.persist(src, dst, chain, measuredErr)
		return f
	}

	relaxed := cfg
	relaxed.errorFloor = math.Inf(1)
	relaxed.maxPathLength = cfg.maxPathLength * 3
	if relaxed.maxPathLength < 8 {
		relaxed.maxPathLength = 8
	}
	refEngine := &searchEngine{convs: p.convs, cfg: relaxed, dstID: dst.ID(), measure: measurer.measure}
	if chain, measuredErr, ok := refEngine.search(src.ID()); ok {
		f := p.buildReferenceFish(src, dst, chain, measuredErr)
		p.persist(src, dst, chain, measuredErr)
		return f
	}

	if bridge, ok := p.crossLayers(src, dst, relaxed); ok {
		chain := []*conversion.Conversion{bridge}
		measuredErr := measurer.measure(chain)
		bridge.SetError(measuredErr)
		f := p.buildReferenceFish(src, dst, chain, measuredErr)
		p.persist(src, dst, chain, measuredErr)
		return f
	}

	return p.buildUnreachableFish(src, dst)
}

// persist appends a freshly planned chain to the disk cache, if one is
// configured. Append failures are not surfaced: Plan has already produced
// a usable Fish, and persistence is a best-effort optimization for future
// process launches (spec.md §4.7), not a correctness requirement of this
// call.
func (p *Planner) persist(src, dst *pixfmt.Format, chain []*conversion.Conversion, measuredErr float64) {
	if p.disk == nil {
		return
	}
	totalCost, _ := chainCostAndMaxMid(chain)
	names := make([]string, len(chain))
	for i, c := range chain {
		names[i] = c.Name()
	}
	_ = p.disk.Append(diskcache.Record{
		Src: src.Name(), Dst: dst.Name(), Cost: totalCost, Error: measuredErr, Chain: names,
	})
}

func (p *Planner) identityFish(f *pixfmt.Format) *fish.Fish {
	c := p.identityConversion(f)
	name := fmt.Sprintf("%s->%s#identity", f.Name(), f.Name())
	return fish.NewSimple(p.alloc.Next(), name, c, f.BytesPerPixel(), f.BytesPerPixel())
}

func (p *Planner) identityConversion(f *pixfmt.Format) *conversion.Conversion {
	p.idMu.Lock()
	defer p.idMu.Unlock()

	if c, ok := p.identities[f.ID()]; ok {
		return c
	}
	c, err := p.convs.Register(f, f, conversion.Linear, conversion.Primitive{Linear: copyBytes}, 1)
	if err != nil {
		// Register only fails on a kind mismatch or a bad primitive,
		// neither of which can happen for a same-node identity edge;
		// surviving this would mean the registry itself is corrupt.
		panic(fmt.Sprintf("planner: identity conversion for %q: %v", f.Name(), err))
	}
	p.identities[f.ID()] = c
	return c
}

func copyBytes(src, dst []byte, n int) error {
	copy(dst, src)
	return nil
}

func (p *Planner) buildFish(src, dst *pixfmt.Format, chain []*conversion.Conversion, measuredErr float64) *fish.Fish {
	name := fmt.Sprintf("%s->%s", src.Name(), dst.Name())

	if len(chain) == 1 {
		f := fish.NewSimple(p.alloc.Next(), name, chain[0], src.BytesPerPixel(), dst.BytesPerPixel())
		f.SetError(measuredErr)
		return f
	}

	totalCost, maxMid := chainCostAndMaxMid(chain)
	f := fish.NewPath(p.alloc.Next(), name, chain, src.BytesPerPixel(), dst.BytesPerPixel(), maxMid, totalCost)
	f.SetError(measuredErr)
	return f
}

func (p *Planner) buildReferenceFish(src, dst *pixfmt.Format, chain []*conversion.Conversion, measuredErr float64) *fish.Fish {
	name := fmt.Sprintf("%s=>%s#reference", src.Name(), dst.Name())
	totalCost, maxMid := chainCostAndMaxMid(chain)

	srcBpp, dstBpp := src.BytesPerPixel(), dst.BytesPerPixel()
	refFn := func(s, d []byte, n int) error {
		return fish.RunChain(chain, s[:n*srcBpp], d[:n*dstBpp], n, maxMid)
	}

	f := fish.NewReference(p.alloc.Next(), name, refFn, srcBpp, dstBpp, totalCost)
	f.SetError(measuredErr)
	return f
}

func (p *Planner) buildUnreachableFish(src, dst *pixfmt.Format) *fish.Fish {
	name := fmt.Sprintf("%s=>%s#unreachable", src.Name(), dst.Name())
	refFn := func(s, d []byte, n int) error { return ErrNoPath }
	f := fish.NewReference(p.alloc.Next(), name, refFn, src.BytesPerPixel(), dst.BytesPerPixel(), math.Inf(1))
	f.SetError(math.Inf(1))
	return f
}

// chainCostAndMaxMid sums a chain's declared edge costs and finds the
// largest bytes-per-pixel among its internal (non-terminal) Format nodes,
// which sizes a streaming Fish's ping-pong scratch buffers.
func chainCostAndMaxMid(chain []*conversion.Conversion) (totalCost float64, maxMid int) {
	for i, edge := range chain {
		totalCost += float64(edge.Cost())
		if i == len(chain)-1 {
			continue
		}
		if df, ok := edge.Dst().(*pixfmt.Format); ok && df.BytesPerPixel() > maxMid {
			maxMid = df.BytesPerPixel()
		}
	}
	return totalCost, maxMid
}
