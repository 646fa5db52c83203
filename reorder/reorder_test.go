package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func isPermutation(t *testing.T, p []uint32, n int) {
	t.Helper()
	seen := make([]bool, n)
	for _, v := range p {
		assert.False(t, seen[v], "duplicate target %d in permutation", v)
		assert.Less(t, int(v), n)
		seen[v] = true
	}
}

func TestRCM_EmptyGraph(t *testing.T) {
	assert.Equal(t, []uint32{}, RCM(nil))
}

func TestRCM_IsAPermutation(t *testing.T) {
	adj := [][]uint32{
		{1, 2},
		{0, 3},
		{0, 3},
		{1, 2},
	}
	p := RCM(adj)
	isPermutation(t, p, 4)
}

func TestRCM_DisconnectedComponentsBothVisited(t *testing.T) {
	adj := [][]uint32{
		{1},
		{0},
		{3},
		{2},
	}
	p := RCM(adj)
	isPermutation(t, p, 4)
}

func TestGorder_EmptyGraph(t *testing.T) {
	assert.Equal(t, []uint32{}, Gorder(nil, 5))
}

func TestGorder_IsAPermutation(t *testing.T) {
	adj := [][]uint32{
		{1, 2, 3},
		{0, 2},
		{0, 1, 3},
		{0, 2},
	}
	p := Gorder(adj, 2)
	isPermutation(t, p, 4)
}

func TestGorder_SingleNode(t *testing.T) {
	adj := [][]uint32{{}}
	p := Gorder(adj, 3)
	assert.Equal(t, []uint32{0}, p)
}

func TestGorder_GroupsSharedNeighborsTogether(t *testing.T) {
	// 0 and 1 share neighbors 4,5; 2 and 3 share neighbors 6,7 — a good
	// ordering should place {0,1} next to each other and {2,3} next to
	// each other, separated from the other pair.
	adj := [][]uint32{
		{4, 5},
		{4, 5},
		{6, 7},
		{6, 7},
		{0, 1},
		{0, 1},
		{2, 3},
		{2, 3},
	}
	p := Gorder(adj, 4)
	isPermutation(t, p, 8)

	pos0, pos1 := p[0], p[1]
	assert.LessOrEqual(t, abs(int(pos0)-int(pos1)), 1, "nodes 0 and 1 share both neighbors and should end up adjacent")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
