// Package reorder computes node permutations that improve cache locality
// when a navigable graph is laid out in memory: nodes that are frequently
// traversed together during beam search should sit close together in the
// arena. Both providers here consume a plain [][]uint32 adjacency list (no
// arena dependency) and return a permutation P where P[oldID] = newID,
// ready to hand to a graph's Relabel.
package reorder

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// Gorder computes a windowed-greedy vertex ordering: starting from the
// highest out-degree vertex, it repeatedly appends whichever unplaced
// vertex shares the most neighbors (in either direction) with the last
// `window` vertices already placed. Vertices that are frequently
// co-accessed during beam search — because they share many neighbors —
// end up adjacent in the arena.
func Gorder(adj [][]uint32, window int) []uint32 {
	n := len(adj)
	if n == 0 {
		return []uint32{}
	}
	if window <= 0 {
		window = 1
	}

	out := make([]*roaring.Bitmap, n)
	in := make([]*roaring.Bitmap, n)
	for i := 0; i < n; i++ {
		out[i] = roaring.New()
		in[i] = roaring.New()
	}
	for u, neighbors := range adj {
		for _, v := range neighbors {
			if int(v) == u || int(v) >= n {
				continue
			}
			out[u].Add(v)
			in[v].Add(uint32(u))
		}
	}

	placed := make([]bool, n)

	start := 0
	for v := 1; v < n; v++ {
		if out[v].GetCardinality() > out[start].GetCardinality() {
			start = v
		}
	}

	order := make([]uint32, 0, n)
	order = append(order, uint32(start))
	placed[start] = true

	win := make([]uint32, 0, window)
	win = append(win, uint32(start))

	score := func(v, u uint32) uint64 {
		s := out[v].AndCardinality(out[u]) + in[v].AndCardinality(in[u])
		if out[u].Contains(v) {
			s++
		}
		if out[v].Contains(u) {
			s++
		}
		return s
	}

	for len(order) < n {
		best := -1
		var bestScore uint64
		for v := 0; v < n; v++ {
			if placed[v] {
				continue
			}
			var s uint64
			for _, u := range win {
				s += score(uint32(v), u)
			}
			if best == -1 || s > bestScore {
				bestScore = s
				best = v
			}
		}

		order = append(order, uint32(best))
		placed[best] = true

		win = append(win, uint32(best))
		if len(win) > window {
			win = win[1:]
		}
	}

	return invert(order)
}

// RCM computes a reverse Cuthill-McKee ordering over the graph's
// undirected closure (union of forward and backward edges): each connected
// component is BFS-labeled starting from its lowest-degree vertex,
// discovering each frontier in ascending-degree order, and the resulting
// label sequence is reversed. RCM tends to pull a vertex's whole
// neighborhood into a narrow index range, which keeps beam search's
// traversal working set small.
func RCM(adj [][]uint32) []uint32 {
	n := len(adj)
	if n == 0 {
		return []uint32{}
	}

	undirected := make([]*roaring.Bitmap, n)
	for i := 0; i < n; i++ {
		undirected[i] = roaring.New()
	}
	for u, neighbors := range adj {
		for _, v := range neighbors {
			if int(v) == u || int(v) >= n {
				continue
			}
			undirected[u].Add(v)
			undirected[v].Add(uint32(u))
		}
	}

	degree := make([]int, n)
	for i := 0; i < n; i++ {
		degree[i] = int(undirected[i].GetCardinality())
	}

	visited := make([]bool, n)
	order := make([]uint32, 0, n)

	for {
		root := -1
		rootDeg := -1
		for v := 0; v < n; v++ {
			if !visited[v] && (root == -1 || degree[v] < rootDeg) {
				root = v
				rootDeg = degree[v]
			}
		}
		if root == -1 {
			break
		}

		queue := []uint32{uint32(root)}
		visited[root] = true
		order = append(order, uint32(root))

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]

			neighbors := undirected[cur].ToArray()
			sort.Slice(neighbors, func(i, j int) bool {
				return degree[neighbors[i]] < degree[neighbors[j]]
			})
			for _, nb := range neighbors {
				if !visited[nb] {
					visited[nb] = true
					order = append(order, nb)
					queue = append(queue, nb)
				}
			}
		}
	}

	reverse(order)
	return invert(order)
}

// invert turns a placement sequence (order[i] = the old id placed at
// position i) into a permutation P where P[oldID] = newID.
func invert(order []uint32) []uint32 {
	perm := make([]uint32, len(order))
	for newPos, oldID := range order {
		perm[oldID] = uint32(newPos)
	}
	return perm
}

func reverse(s []uint32) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
