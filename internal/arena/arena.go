package arena

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrArenaFull is returned by Alloc once count has reached capacity.
var ErrArenaFull = errors.New("arena: full")

// NodeArena is a contiguous byte buffer holding fixed-stride node records.
//
// Each node occupies exactly Stride() bytes, laid out as
// [data (DataSize bytes) | links (M * 4 bytes) | label (8 bytes)].
// Node ids are dense and assigned monotonically starting at 0; the buffer is
// sized to hold Capacity nodes from the moment it is created and is never
// resized.
type NodeArena struct {
	buf       []byte
	scratch   []byte
	dataSize  int
	m         int
	labelSize int
	stride    int
	capacity  uint32
	count     uint32
}

// New allocates a fresh arena sized for capacity nodes of the given shape.
// dataSize is D (bytes), m is the fixed out-degree, labelSize is L (bytes).
func New(dataSize, m, labelSize int, capacity uint32) *NodeArena {
	stride := dataSize + m*4 + labelSize
	return &NodeArena{
		buf:       make([]byte, uint64(stride)*uint64(capacity)),
		scratch:   make([]byte, stride),
		dataSize:  dataSize,
		m:         m,
		labelSize: labelSize,
		stride:    stride,
		capacity:  capacity,
	}
}

// NewFromBuffer wraps an already-populated arena buffer, as produced by
// loading a saved index. buf must have length stride*capacity exactly,
// where stride = dataSize + m*4 + labelSize.
func NewFromBuffer(buf []byte, dataSize, m, labelSize int, capacity, count uint32) *NodeArena {
	stride := dataSize + m*4 + labelSize
	return &NodeArena{
		buf:       buf,
		scratch:   make([]byte, stride),
		dataSize:  dataSize,
		m:         m,
		labelSize: labelSize,
		stride:    stride,
		capacity:  capacity,
		count:     count,
	}
}

// Stride returns S, the per-node byte count.
func (a *NodeArena) Stride() int { return a.stride }

// DataSize returns D, the per-node payload byte count.
func (a *NodeArena) DataSize() int { return a.dataSize }

// M returns the fixed out-degree (link slot count) per node.
func (a *NodeArena) M() int { return a.m }

// LabelSize returns L, the per-node label byte count.
func (a *NodeArena) LabelSize() int { return a.labelSize }

// Capacity returns the maximum number of nodes the arena can hold.
func (a *NodeArena) Capacity() uint32 { return a.capacity }

// Count returns the current number of allocated nodes.
func (a *NodeArena) Count() uint32 { return a.count }

// SetCount overrides the current node count. Used only when restoring an
// arena from a saved buffer.
func (a *NodeArena) SetCount(n uint32) { a.count = n }

// Bytes returns the full backing buffer, for serialization.
func (a *NodeArena) Bytes() []byte { return a.buf }

func (a *NodeArena) nodeSlice(n uint32) []byte {
	off := uint64(n) * uint64(a.stride)
	return a.buf[off : off+uint64(a.stride)]
}

// Alloc reserves the next node id, initializing all M link slots to
// self-loops. It fails once Count has reached Capacity.
func (a *NodeArena) Alloc() (uint32, bool) {
	if a.count >= a.capacity {
		return 0, false
	}
	id := a.count
	a.count++
	for i := 0; i < a.m; i++ {
		a.SetLink(id, i, id)
	}
	return id, true
}

// DataBytes returns the raw D-byte payload slot for node n, as stored by the
// distance capability's Transform.
func (a *NodeArena) DataBytes(n uint32) []byte {
	return a.nodeSlice(n)[:a.dataSize]
}

// DataFloat32 decodes node n's payload into dst, which must have length
// DataSize()/4. The arena stores data as opaque bytes; this decoding is a
// convenience for capabilities that store plain little-endian float32s.
func (a *NodeArena) DataFloat32(n uint32, dst []float32) {
	b := a.DataBytes(n)
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
}

// SetDataFloat32 encodes src as little-endian float32s into node n's payload
// slot. len(src) must equal DataSize()/4.
func (a *NodeArena) SetDataFloat32(n uint32, src []float32) {
	b := a.DataBytes(n)
	for i, v := range src {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
}

func (a *NodeArena) linkOffset(slot int) int {
	return a.dataSize + slot*4
}

// GetLink returns the node id stored in link slot `slot` of node n.
func (a *NodeArena) GetLink(n uint32, slot int) uint32 {
	b := a.nodeSlice(n)
	return binary.LittleEndian.Uint32(b[a.linkOffset(slot):])
}

// SetLink stores v in link slot `slot` of node n.
func (a *NodeArena) SetLink(n uint32, slot int, v uint32) {
	b := a.nodeSlice(n)
	binary.LittleEndian.PutUint32(b[a.linkOffset(slot):], v)
}

// Links returns a fresh copy of all M link values of node n, in slot order.
// Used off the hot path (pruning, adjacency extraction) where an allocation
// is acceptable.
func (a *NodeArena) Links(n uint32) []uint32 {
	out := make([]uint32, a.m)
	b := a.nodeSlice(n)
	off := a.dataSize
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[off:])
		off += 4
	}
	return out
}

func (a *NodeArena) labelOffset() int {
	return a.dataSize + a.m*4
}

// Label returns the opaque label of node n.
func (a *NodeArena) Label(n uint32) uint64 {
	b := a.nodeSlice(n)
	return binary.LittleEndian.Uint64(b[a.labelOffset():])
}

// SetLabel stores the opaque label of node n.
func (a *NodeArena) SetLabel(n uint32, v uint64) {
	b := a.nodeSlice(n)
	binary.LittleEndian.PutUint64(b[a.labelOffset():], v)
}

// Swap exchanges the full byte contents of slots x and y through the
// arena's single reused scratch slot. This is the only primitive Reorder
// needs to perform an in-place cycle-following relayout in O(S) extra space.
func (a *NodeArena) Swap(x, y uint32) {
	if x == y {
		return
	}
	sx := a.nodeSlice(x)
	sy := a.nodeSlice(y)
	copy(a.scratch, sx)
	copy(sx, sy)
	copy(sy, a.scratch)
}
