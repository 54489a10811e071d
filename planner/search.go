package planner

import (
	"math"
	"sort"

	"github.com/vantblack/pixelfish/conversion"
)

// searchEngine holds all state for one bounded DFS / branch-and-bound
// search for a chain from src to dst. Grounded directly on tsp.bbEngine
// (tsp/bb.go): a dedicated engine struct rather than closures, explicit
// path/visited state, and an incumbent best-objective cutoff that tightens
// as better chains are discovered (spec.md §4.3 "branch-and-bound").
type searchEngine struct {
	convs *conversion.Registry
	cfg   config

	dstID uint64

	// current DFS path
	path    []*conversion.Conversion
	visited map[uint64]bool // node ids visited at the current layer

	// incumbent
	bestChain     []*conversion.Conversion
	bestObjective float64
	bestErr       float64
	found         bool

	// ceiling is max(cfg.errorFloor, incumbent's error); starts at +Inf
	// (no incumbent yet admits any error) and only ever tightens as a
	// new incumbent is accepted (spec.md §4.3: "the planner tightens the
	// ceiling as it discovers better chains"). A candidate whose measured
	// error exceeds ceiling is rejected outright in consider, regardless
	// of how good its weighted objective looks.
	ceiling float64

	// measure computes a completed chain's error against the shared
	// corpus (spec.md §4.3's empirical error measurement); the caller
	// supplies a memoizing wrapper so repeat chains aren't re-measured.
	measure func(chain []*conversion.Conversion) float64
}

// search runs iterative-deepening DFS from srcID to e.dstID, for lengths
// 1..e.cfg.maxPathLength, and returns the best chain found under the
// ceiling, or (nil, false) if none qualifies.
func (e *searchEngine) search(srcID uint64) ([]*conversion.Conversion, float64, bool) {
	e.visited = make(map[uint64]bool)
	e.bestObjective = math.Inf(1)
	e.ceiling = math.Inf(1)

	for depth := 1; depth <= e.cfg.maxPathLength; depth++ {
		e.path = e.path[:0]
		e.visited[srcID] = true
		e.dfs(srcID, depth, 0)
		delete(e.visited, srcID)
	}

	if !e.found {
		return nil, 0, false
	}

	return e.bestChain, e.bestErr, true
}

// dfs explores chains of at most remaining more edges from current node id
// cur, accumulating costSoFar; it updates the incumbent whenever a
// complete, admissible chain reaching dstID is found.
func (e *searchEngine) dfs(cur uint64, remaining int, costSoFar int) {
	if remaining == 0 {
		return
	}

	// prune: even a free remainder cannot beat the incumbent's objective
	// once cost alone (with the minimum possible error contribution of 0)
	// already exceeds it.
	if e.found && e.cfg.costWeight*float64(costSoFar) >= e.bestObjective {
		return
	}

	edges := e.convs.FromList(cur)
	// deterministic branch order: ascending cost, then lexicographic id
	// (spec.md §4.3 tie-breaking/determinism).
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].Cost() != edges[j].Cost() {
			return edges[i].Cost() < edges[j].Cost()
		}
		return edges[i].ID() < edges[j].ID()
	})

	for _, edge := range edges {
		dst := edge.Dst()
		nextID := dst.ID()
		if e.visited[nextID] && nextID != e.dstID {
			continue // spec.md §4.3 "Cycle prevention"
		}

		e.path = append(e.path, edge)
		newCost := costSoFar + edge.Cost()

		if nextID == e.dstID {
			e.consider(e.path, newCost)
		}
		if remaining > 1 {
			e.visited[nextID] = true
			e.dfs(nextID, remaining-1, newCost)
			delete(e.visited, nextID)
		}

		e.path = e.path[:len(e.path)-1]
	}
}

// consider evaluates a freshly completed chain and, if it improves on the
// incumbent, updates it (spec.md §4.3 objective + tie-breaking).
func (e *searchEngine) consider(chain []*conversion.Conversion, cost int) {
	cp := make([]*conversion.Conversion, len(chain))
	copy(cp, chain)

	measuredErr := e.measure(cp)
	if measuredErr > e.ceiling {
		return // spec.md §4.3 hard constraint: measured_error(chain) <= ErrorCeiling
	}
	objective := e.cfg.costWeight*float64(cost) + e.cfg.errorWeight*measuredErr

	if !e.found {
		e.accept(cp, objective, measuredErr)
		return
	}

	// within tie-break band: prefer fewer edges, then fewer Reference-kind
	// edges, then lexicographically smaller id sequence.
	band := e.bestObjective * e.cfg.tieBreakPct
	if objective < e.bestObjective-band {
		e.accept(cp, objective, measuredErr)
		return
	}
	if objective <= e.bestObjective+band {
		if isBetterTieBreak(cp, e.bestChain) {
			e.accept(cp, objective, measuredErr)
		}
	}
}

func (e *searchEngine) accept(chain []*conversion.Conversion, objective, measuredErr float64) {
	e.bestChain = chain
	e.bestObjective = objective
	e.bestErr = measuredErr
	e.found = true
	e.ceiling = math.Max(e.cfg.errorFloor, measuredErr)
}

// isBetterTieBreak implements spec.md §4.3's tie-break order: (a) fewer
// edges; (b) fewer high-cost (Reference-kind) edges; (c) lexicographically
// smaller id sequence.
func isBetterTieBreak(candidate, incumbent []*conversion.Conversion) bool {
	if len(candidate) != len(incumbent) {
		return len(candidate) < len(incumbent)
	}
	cRef, iRef := refCount(candidate), refCount(incumbent)
	if cRef != iRef {
		return cRef < iRef
	}
	for i := range candidate {
		if candidate[i].ID() != incumbent[i].ID() {
			return candidate[i].ID() < incumbent[i].ID()
		}
	}
	return false
}

func refCount(chain []*conversion.Conversion) int {
	n := 0
	for _, c := range chain {
		if c.PrimitiveKind() == conversion.Reference {
			n++
		}
	}
	return n
}
