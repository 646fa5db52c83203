// Package graph implements the navigable proximity graph: the entry-point
// sampler, beam search, the diversity-preserving neighbor-selection
// heuristic, bidirectional insertion wiring, query extraction, and the
// in-place relabel pass, all operating directly on a fixed-stride node
// arena.
package graph

import (
	"fmt"
	"math"
	"sort"

	"github.com/hupe1980/annidx/distance"
	"github.com/hupe1980/annidx/internal/arena"
	"github.com/hupe1980/annidx/internal/queue"
	"github.com/hupe1980/annidx/internal/visited"
)

// Result is a single (distance, label) pair returned by Search, sorted
// ascending by Distance.
type Result struct {
	Distance float32
	Label    uint64
}

// Graph owns the arena, the distance capability, and the scratch state
// (visited set, decode buffers) needed to run beam search, insertion, and
// reorder without per-call allocation in the hot path.
type Graph struct {
	arena   *arena.NodeArena
	dist    distance.Capability
	m       int
	visited *visited.VisitedSet

	scratchX []float32
	scratchY []float32
}

// New wraps an arena and a distance capability into a Graph with degree m.
func New(a *arena.NodeArena, dist distance.Capability, m int) *Graph {
	dim := dist.DataSize() / 4
	return &Graph{
		arena:    a,
		dist:     dist,
		m:        m,
		visited:  visited.New(int(a.Capacity()) + 1),
		scratchX: make([]float32, dim),
		scratchY: make([]float32, dim),
	}
}

// Arena exposes the underlying arena, for serialization and tests.
func (g *Graph) Arena() *arena.NodeArena { return g.arena }

// queryDistance computes the distance between an in-memory query vector and
// a node's stored payload, decoding through the caller-supplied scratch
// buffer. Kept private and scratch-parameterized so EntryPoint/BeamSearch
// can be driven either by Add's shared scratch (single writer, reused for
// speed) or by Search's freshly allocated per-call scratch (safe to run
// from multiple goroutines at once).
func (g *Graph) queryDistance(query []float32, node uint32, scratch []float32) float32 {
	g.arena.DataFloat32(node, scratch)
	return g.dist.Distance(query, scratch)
}

// NodeDistance computes the distance between two stored nodes, decoding
// through the reused scratchX/scratchY buffers. Only ever called from the
// insertion path (Add, SelectNeighbors, backwardWire), which §5 reserves to
// a single exclusive writer, so sharing these buffers is safe.
func (g *Graph) NodeDistance(a, b uint32) float32 {
	g.arena.DataFloat32(a, g.scratchX)
	g.arena.DataFloat32(b, g.scratchY)
	return g.dist.Distance(g.scratchX, g.scratchY)
}

// newQueryScratch allocates a decode buffer sized to the capability's
// dimension, for a single Search call's private use.
func (g *Graph) newQueryScratch() []float32 {
	return make([]float32, g.dist.DataSize()/4)
}

// EntryPoint samples the node closest to query among a stride-sampled
// subset of size approximately kInit, using a deterministic (non-random)
// stride so the result is reproducible. With current_node_count == 0 the
// loop never executes and the degenerate result 0 is returned; callers
// must not rely on this value when the graph is empty.
func (g *Graph) EntryPoint(query []float32, kInit int) uint32 {
	return g.entryPoint(query, kInit, g.scratchX)
}

func (g *Graph) entryPoint(query []float32, kInit int, scratch []float32) uint32 {
	if kInit <= 0 {
		panic("graph: k_init must be positive")
	}

	n := g.arena.Count()
	step := n / uint32(kInit)
	if step == 0 {
		step = 1
	}

	var best uint32
	minDist := float32(math.MaxFloat32)
	for node := uint32(0); node < n; node += step {
		d := g.queryDistance(query, node, scratch)
		if d < minDist {
			minDist = d
			best = node
		}
	}
	return best
}

// BeamSearch runs best-first traversal from entry, bounded by bufSize,
// using the shared scratch and visited set (only safe for the single
// exclusive writer — see Add). Concurrent queries must go through Search.
func (g *Graph) BeamSearch(query []float32, entry uint32, bufSize int) *queue.PriorityQueue {
	return g.beamSearch(query, entry, bufSize, g.scratchX, g.visited)
}

func (g *Graph) beamSearch(query []float32, entry uint32, bufSize int, scratch []float32, vis *visited.VisitedSet) *queue.PriorityQueue {
	w := queue.NewMax(bufSize)
	c := queue.NewMin(bufSize)

	vis.Reset()

	d := g.queryDistance(query, entry, scratch)
	worst := d
	w.PushItem(queue.PriorityQueueItem{Node: entry, Distance: d})
	c.PushItem(queue.PriorityQueueItem{Node: entry, Distance: d})
	vis.Visit(entry)

	for c.Len() > 0 {
		cur, ok := c.PopItem()
		if !ok {
			break
		}
		if w.Len() >= bufSize && cur.Distance > worst {
			break
		}

		for i := 0; i < g.m; i++ {
			v := g.arena.GetLink(cur.Node, i)
			if vis.Visited(v) {
				continue
			}
			vis.Visit(v)

			dv := g.queryDistance(query, v, scratch)
			if w.Len() < bufSize || dv < worst {
				c.PushItem(queue.PriorityQueueItem{Node: v, Distance: dv})
				w.PushItemBounded(queue.PriorityQueueItem{Node: v, Distance: dv}, bufSize)
				if top, ok := w.TopItem(); ok {
					worst = top.Distance
				}
			}
		}
	}
	return w
}

// SelectNeighbors reduces a max-heap of candidates (distance measured to a
// common center u) to at most m diverse neighbors via the HNSW heuristic: a
// candidate is kept only if no already-kept neighbor is closer to it than u
// is. Heaps with fewer than m entries are returned unchanged.
func (g *Graph) SelectNeighbors(candidates *queue.PriorityQueue, m int) *queue.PriorityQueue {
	if candidates.Len() < m {
		return candidates
	}

	closest := queue.NewMin(candidates.Len())
	for candidates.Len() > 0 {
		item, _ := candidates.PopItem()
		closest.PushItem(item)
	}

	kept := make([]queue.PriorityQueueItem, 0, m)
	for closest.Len() > 0 && len(kept) < m {
		cur, _ := closest.PopItem()

		keep := true
		for _, k := range kept {
			if g.NodeDistance(k.Node, cur.Node) < cur.Distance {
				keep = false
				break
			}
		}
		if keep {
			kept = append(kept, cur)
		}
	}

	result := queue.NewMax(m)
	for _, item := range kept {
		result.PushItem(item)
	}
	return result
}

// Add inserts data as a new node labeled label. It returns false if the
// arena has no room left, or if this is the first insertion into an empty
// graph (new_id == 0): the node is still allocated and retained in that
// case, but reports failure — a documented quirk preserved from the
// reference this algorithm is drawn from.
func (g *Graph) Add(data []float32, label uint64, efConstruction, kInit int) bool {
	// The entry point must be sampled before the new node is allocated:
	// sampling afterwards could select the new node itself (distance 0,
	// no outgoing links yet), making the traversal terminate trivially
	// and leaving the node isolated.
	entry := g.EntryPoint(data, kInit)

	newID, ok := g.arena.Alloc()
	if !ok {
		return false
	}

	g.dist.Transform(g.scratchX, data)
	g.arena.SetDataFloat32(newID, g.scratchX)
	g.arena.SetLabel(newID, label)

	if newID == 0 {
		return false
	}

	candidates := g.BeamSearch(data, entry, efConstruction)
	neighbors := g.SelectNeighbors(candidates, g.m)

	slot := 0
	for neighbors.Len() > 0 && slot < g.m {
		item, _ := neighbors.PopItem()
		g.arena.SetLink(newID, slot, item.Node)
		slot++
		g.backwardWire(item.Node, newID)
	}
	return true
}

// backwardWire connects v back to newID: if v has a free (self-loop) slot,
// it is used directly; otherwise v is saturated and its whole neighbor set
// is re-pruned with newID added as an extra candidate, which may drop one
// of v's existing edges.
func (g *Graph) backwardWire(v, newID uint32) {
	for j := 0; j < g.m; j++ {
		if g.arena.GetLink(v, j) == v {
			g.arena.SetLink(v, j, newID)
			return
		}
	}

	candidates := queue.NewMax(g.m + 1)
	candidates.PushItem(queue.PriorityQueueItem{Node: newID, Distance: g.NodeDistance(v, newID)})
	for j := 0; j < g.m; j++ {
		nb := g.arena.GetLink(v, j)
		if nb != v {
			candidates.PushItem(queue.PriorityQueueItem{Node: nb, Distance: g.NodeDistance(v, nb)})
		}
	}

	pruned := g.SelectNeighbors(candidates, g.m)
	j := 0
	for pruned.Len() > 0 {
		item, _ := pruned.PopItem()
		g.arena.SetLink(v, j, item.Node)
		j++
	}
	for ; j < g.m; j++ {
		g.arena.SetLink(v, j, v)
	}
}

// Search runs a query: sample an entry, beam search with efSearch, then
// extract the k closest results sorted ascending by distance. It panics on
// an empty graph, matching the precondition-violation contract for
// programmer errors. Search allocates its own scratch decode buffer and
// visited set per call, so concurrent callers never share mutable state —
// the only property §5 requires for safe concurrent search.
func (g *Graph) Search(query []float32, k, efSearch, kInit int) []Result {
	if g.arena.Count() == 0 {
		panic("graph: search called on an empty index")
	}

	scratch := g.newQueryScratch()
	vis := visited.New(int(g.arena.Count()))

	entry := g.entryPoint(query, kInit, scratch)
	w := g.beamSearch(query, entry, efSearch, scratch, vis)

	for w.Len() > k {
		w.PopItem()
	}

	results := make([]Result, 0, w.Len())
	for w.Len() > 0 {
		item, _ := w.PopItem()
		results = append(results, Result{Distance: item.Distance, Label: g.arena.Label(item.Node)})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	return results
}

// Adjacency builds the [][]uint32 adjacency list the permutation providers
// consume: for each node, its non-self-loop outgoing links.
func (g *Graph) Adjacency() [][]uint32 {
	n := g.arena.Count()
	adj := make([][]uint32, n)
	for i := uint32(0); i < n; i++ {
		var out []uint32
		for j := 0; j < g.m; j++ {
			v := g.arena.GetLink(i, j)
			if v != i {
				out = append(out, v)
			}
		}
		adj[i] = out
	}
	return adj
}

// Relabel applies a permutation P (a bijection over [0, current_node_count))
// to the graph: every link value is rewritten through P, then the arena is
// physically relaid out in place via cycle-following with the arena's
// single scratch slot.
func (g *Graph) Relabel(perm []uint32) error {
	n := g.arena.Count()
	if uint32(len(perm)) != n {
		return fmt.Errorf("graph: permutation length %d does not match node count %d", len(perm), n)
	}

	seen := make([]bool, n)
	for _, p := range perm {
		if p >= n || seen[p] {
			return fmt.Errorf("graph: P is not a valid permutation over [0, %d)", n)
		}
		seen[p] = true
	}

	for nd := uint32(0); nd < n; nd++ {
		for slot := 0; slot < g.m; slot++ {
			old := g.arena.GetLink(nd, slot)
			g.arena.SetLink(nd, slot, perm[old])
		}
	}

	g.visited.Reset()
	for nd := uint32(0); nd < n; nd++ {
		if g.visited.Visited(nd) {
			continue
		}

		src := nd
		dst := perm[src]
		g.arena.Swap(src, dst)
		g.visited.Visit(src)

		for !g.visited.Visited(dst) {
			g.visited.Visit(dst)
			dst = perm[dst]
			g.arena.Swap(src, dst)
		}
	}
	return nil
}
