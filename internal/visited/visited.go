// Package visited implements the O(1)-amortized-clear visited set used by
// beam search and by the reorder pass's is-relocated tracking.
package visited

// VisitedSet tracks visited node ids using a generation-counter array: each
// slot records the generation it was last touched in, and Reset clears the
// whole set in O(1) by bumping the current generation rather than zeroing
// the array. A plain bitset would need O(N/64) work per Reset; the
// generation counter trades a 4-byte-per-node array for that.
type VisitedSet struct {
	gen     []uint32
	current uint32
}

// New creates a visited set over node ids in [0, capacity).
func New(capacity int) *VisitedSet {
	return &VisitedSet{
		gen:     make([]uint32, capacity),
		current: 1,
	}
}

// Visit marks id as visited for the current generation.
func (v *VisitedSet) Visit(id uint32) {
	v.EnsureCapacity(int(id) + 1)
	v.gen[id] = v.current
}

// Visited reports whether id has been visited in the current generation.
func (v *VisitedSet) Visited(id uint32) bool {
	if int(id) >= len(v.gen) {
		return false
	}
	return v.gen[id] == v.current
}

// Reset clears the set in O(1) by advancing the generation. Wraps around
// the rare uint32 overflow by falling back to a real zero-fill, which is
// O(N) but only ever happens once every 2^32 resets.
func (v *VisitedSet) Reset() {
	v.current++
	if v.current == 0 {
		for i := range v.gen {
			v.gen[i] = 0
		}
		v.current = 1
	}
}

// EnsureCapacity grows the set to cover at least `capacity` node ids.
func (v *VisitedSet) EnsureCapacity(capacity int) {
	if capacity <= len(v.gen) {
		return
	}
	newCap := len(v.gen) * 2
	if newCap < capacity {
		newCap = capacity
	}
	grown := make([]uint32, newCap)
	copy(grown, v.gen)
	v.gen = grown
}
