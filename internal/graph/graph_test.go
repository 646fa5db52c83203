package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/annidx/distance"
	"github.com/hupe1980/annidx/internal/arena"
	"github.com/hupe1980/annidx/internal/queue"
)

func newGraph(t *testing.T, dim, m int, capacity uint32) *Graph {
	t.Helper()
	dist := &distance.L2{Dimension: dim}
	a := arena.New(dist.DataSize(), m, 8, capacity)
	return New(a, dist, m)
}

func TestGraph_FirstInsertReportsFailureButRetainsNode(t *testing.T) {
	g := newGraph(t, 2, 4, 8)

	ok := g.Add([]float32{1, 1}, 100, 8, 4)
	assert.False(t, ok, "inserting into an empty graph allocates node 0 but must report failure")
	assert.Equal(t, uint32(1), g.Arena().Count(), "the node must still be retained")
	assert.Equal(t, uint64(100), g.Arena().Label(0))
}

func TestGraph_TwoPointWiring(t *testing.T) {
	g := newGraph(t, 2, 4, 8)

	ok := g.Add([]float32{0, 0}, 1, 8, 4)
	require.False(t, ok)

	ok = g.Add([]float32{1, 0}, 2, 8, 4)
	require.True(t, ok, "the second insertion must succeed")

	links0 := g.Arena().Links(0)
	links1 := g.Arena().Links(1)
	assert.Contains(t, links0, uint32(1), "node 0 must have been backward-wired to node 1")
	assert.Contains(t, links1, uint32(0), "node 1 must link forward to node 0")
}

func TestGraph_SearchReturnsClosestByLabel(t *testing.T) {
	g := newGraph(t, 2, 4, 8)

	pts := []struct {
		v []float32
		l uint64
	}{
		{[]float32{0, 0}, 1},
		{[]float32{10, 0}, 2},
		{[]float32{0, 10}, 3},
		{[]float32{1, 1}, 4},
	}
	for _, p := range pts {
		g.Add(p.v, p.l, 8, 4)
	}

	results := g.Search([]float32{0.9, 0.9}, 1, 8, 4)
	require.Len(t, results, 1)
	assert.Equal(t, uint64(4), results[0].Label, "the closest point to (0.9,0.9) is (1,1), label 4")
}

func TestGraph_SearchOnEmptyGraphPanics(t *testing.T) {
	g := newGraph(t, 2, 4, 8)
	assert.Panics(t, func() { g.Search([]float32{0, 0}, 1, 8, 4) })
}

func TestGraph_EntryPointOnEmptyGraphDoesNotPanic(t *testing.T) {
	g := newGraph(t, 2, 4, 8)
	assert.NotPanics(t, func() { g.EntryPoint([]float32{0, 0}, 4) })
}

func TestGraph_EntryPointRejectsNonPositiveKInit(t *testing.T) {
	g := newGraph(t, 2, 4, 8)
	assert.Panics(t, func() { g.EntryPoint([]float32{0, 0}, 0) })
}

func TestGraph_SelectNeighborsPreservesDegreeWhenUnderCapacity(t *testing.T) {
	g := newGraph(t, 2, 4, 8)
	cand := queue.NewMax(4)
	cand.PushItem(queue.PriorityQueueItem{Node: 0, Distance: 1})
	cand.PushItem(queue.PriorityQueueItem{Node: 1, Distance: 2})
	cand.PushItem(queue.PriorityQueueItem{Node: 2, Distance: 3})

	kept := g.SelectNeighbors(cand, 4)
	assert.Equal(t, 3, kept.Len(), "fewer candidates than m must be returned unchanged")
}

func TestGraph_AdjacencyExcludesSelfLoops(t *testing.T) {
	g := newGraph(t, 2, 4, 16)
	for i, v := range [][]float32{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}} {
		_ = i
		g.Add(v, uint64(i+1), 8, 4)
	}

	adj := g.Adjacency()
	require.Len(t, adj, 5)
	for id, out := range adj {
		for _, v := range out {
			assert.NotEqual(t, uint32(id), v, "adjacency must never report a self-loop as a real edge")
		}
	}
}

func TestGraph_RelabelRejectsWrongLength(t *testing.T) {
	g := newGraph(t, 2, 4, 8)
	g.Add([]float32{0, 0}, 1, 8, 4)
	g.Add([]float32{1, 0}, 2, 8, 4)

	err := g.Relabel([]uint32{0})
	assert.Error(t, err)
}

func TestGraph_RelabelCycleFour(t *testing.T) {
	g := newGraph(t, 2, 4, 8)
	for i, v := range [][]float32{{0, 0}, {1, 0}, {2, 0}, {3, 0}} {
		g.Add(v, uint64(i+100), 8, 4)
	}

	// record every node's label before the permutation is applied.
	before := make(map[uint32]uint64, 4)
	for id := uint32(0); id < 4; id++ {
		before[id] = g.Arena().Label(id)
	}

	perm := []uint32{2, 0, 3, 1}
	require.NoError(t, g.Relabel(perm))

	for oldID, label := range before {
		newID := perm[oldID]
		assert.Equal(t, label, g.Arena().Label(newID), "node formerly at %d must now carry its label at %d", oldID, newID)
	}
}
