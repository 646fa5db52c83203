package distance

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Capability is the abstract distance contract the index core consumes.
// It owns the mapping between a raw input vector and its stored form,
// computes distance between two stored-form vectors, and knows how to
// persist/restore its own parameters (dimension, distance id).
//
// DISTANCE_ID 0 is reserved for L2, 1 for inner product.
type Capability interface {
	// Transform copies/converts one raw vector into storage form.
	Transform(dst, src []float32)
	// Distance returns a non-negative real where smaller means closer.
	Distance(x, y []float32) float32
	// DataSize reports D, the stored payload size in bytes.
	DataSize() int
	// ID reports the DISTANCE_ID tag written to the binary format.
	ID() int32
	// Serialize persists this capability's own parameters (not the
	// DISTANCE_ID tag itself, which Save writes ahead of it).
	Serialize(w io.Writer) error
	// Deserialize restores this capability's own parameters (the
	// DISTANCE_ID tag has already been read and dispatched on by Load).
	Deserialize(r io.Reader) error
}

const (
	// DistanceIDL2 identifies the squared-L2 distance capability.
	DistanceIDL2 int32 = 0
	// DistanceIDInnerProduct identifies the inner-product distance capability.
	DistanceIDInnerProduct int32 = 1
)

// L2 is the squared-Euclidean distance capability. Transform performs no
// normalization — it is a plain copy, matching the reference behavior.
type L2 struct {
	Dimension int
}

var _ Capability = (*L2)(nil)

func (l *L2) Transform(dst, src []float32) { copy(dst, src) }

func (l *L2) Distance(x, y []float32) float32 { return SquaredL2(x, y) }

func (l *L2) DataSize() int { return l.Dimension * 4 }

func (l *L2) ID() int32 { return DistanceIDL2 }

func (l *L2) Serialize(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, uint64(l.Dimension))
}

func (l *L2) Deserialize(r io.Reader) error {
	var dim uint64
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return err
	}
	l.Dimension = int(dim)
	return nil
}

// InnerProduct is the 1-minus-dot-product distance capability. Like the
// reference implementation, Transform performs no normalization: callers
// wanting cosine-style behavior must normalize their vectors themselves
// before calling Add/Search.
type InnerProduct struct {
	Dimension int
}

var _ Capability = (*InnerProduct)(nil)

func (p *InnerProduct) Transform(dst, src []float32) { copy(dst, src) }

func (p *InnerProduct) Distance(x, y []float32) float32 { return 1 - Dot(x, y) }

func (p *InnerProduct) DataSize() int { return p.Dimension * 4 }

func (p *InnerProduct) ID() int32 { return DistanceIDInnerProduct }

func (p *InnerProduct) Serialize(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, uint64(p.Dimension))
}

func (p *InnerProduct) Deserialize(r io.Reader) error {
	var dim uint64
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return err
	}
	p.Dimension = int(dim)
	return nil
}

// Save writes c's DISTANCE_ID tag followed by c's own serialized parameters.
func Save(w io.Writer, c Capability) error {
	if err := binary.Write(w, binary.LittleEndian, c.ID()); err != nil {
		return err
	}
	return c.Serialize(w)
}

// Load reads a serialized Capability from r, dispatching on the leading
// DISTANCE_ID tag to the matching concrete type's Deserialize.
func Load(r io.Reader) (Capability, error) {
	var id int32
	if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
		return nil, err
	}

	var c Capability
	switch id {
	case DistanceIDL2:
		c = &L2{}
	case DistanceIDInnerProduct:
		c = &InnerProduct{}
	default:
		return nil, fmt.Errorf("distance: unrecognized DISTANCE_ID %d", id)
	}
	if err := c.Deserialize(r); err != nil {
		return nil, err
	}
	return c, nil
}
