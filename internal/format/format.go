// Package format implements the on-disk binary layout for a saved index:
// a little-endian header describing the distance capability and arena
// shape, followed by the arena's raw bytes (optionally lz4-compressed).
// Every multi-byte field is written with encoding/binary.LittleEndian so
// the format is portable across host byte orders.
package format

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/annidx/distance"
	"github.com/hupe1980/annidx/internal/arena"
)

// compressionNone and compressionLZ4 tag the byte immediately following the
// header, selecting how the arena payload that follows was encoded.
const (
	compressionNone byte = 0
	compressionLZ4  byte = 1
)

// FormatMismatchError reports a saved file whose header field doesn't
// match what the capability or caller expected, naming the offending
// field so callers can tell a corrupt file from an incompatible one.
type FormatMismatchError struct {
	Field    string
	Expected uint32
	Got      uint32
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("format: field %q mismatch: expected %d, got %d", e.Field, e.Expected, e.Got)
}

type header struct {
	DataSize  uint32
	Stride    uint32
	Capacity  uint32
	Count     uint32
	M         uint32
	LabelSize uint32
}

func writeHeader(w io.Writer, h header) error {
	fields := []uint32{h.DataSize, h.Stride, h.Capacity, h.Count, h.M, h.LabelSize}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func readHeader(r io.Reader) (header, error) {
	var h header
	fields := []*uint32{&h.DataSize, &h.Stride, &h.Capacity, &h.Count, &h.M, &h.LabelSize}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return header{}, err
		}
	}
	return h, nil
}

// Save writes cap's serialized parameters, the arena's shape header, and
// the arena's raw bytes (lz4-compressed when compress is true) to w.
func Save(w io.Writer, cap distance.Capability, a *arena.NodeArena, compress bool) error {
	if err := distance.Save(w, cap); err != nil {
		return err
	}

	h := header{
		DataSize:  uint32(a.DataSize()),
		Stride:    uint32(a.Stride()),
		Capacity:  a.Capacity(),
		Count:     a.Count(),
		M:         uint32(a.M()),
		LabelSize: uint32(a.LabelSize()),
	}
	if err := writeHeader(w, h); err != nil {
		return err
	}

	if compress {
		if _, err := w.Write([]byte{compressionLZ4}); err != nil {
			return err
		}
		lw := lz4.NewWriter(w)
		if _, err := lw.Write(a.Bytes()); err != nil {
			return err
		}
		return lw.Close()
	}

	if _, err := w.Write([]byte{compressionNone}); err != nil {
		return err
	}
	_, err := w.Write(a.Bytes())
	return err
}

// Load reads a capability, header, and arena payload from r, validating
// that the header's stride formula and payload size agree with the
// capability's own declared data size before materializing the arena.
func Load(r io.Reader) (distance.Capability, *arena.NodeArena, error) {
	cap, err := distance.Load(r)
	if err != nil {
		return nil, nil, err
	}

	h, err := readHeader(r)
	if err != nil {
		return nil, nil, err
	}

	if int(h.DataSize) != cap.DataSize() {
		return nil, nil, &FormatMismatchError{Field: "data_size_bytes", Expected: uint32(cap.DataSize()), Got: h.DataSize}
	}

	wantStride := h.DataSize + h.M*4 + h.LabelSize
	if h.Stride != wantStride {
		return nil, nil, &FormatMismatchError{Field: "node_size_bytes", Expected: wantStride, Got: h.Stride}
	}
	if h.Count > h.Capacity {
		return nil, nil, &FormatMismatchError{Field: "cur_num_nodes", Expected: h.Capacity, Got: h.Count}
	}

	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return nil, nil, err
	}

	payloadLen := uint64(h.Stride) * uint64(h.Capacity)
	buf := make([]byte, payloadLen)

	switch tag[0] {
	case compressionNone:
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, nil, err
		}
	case compressionLZ4:
		if _, err := io.ReadFull(lz4.NewReader(r), buf); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("format: unrecognized compression tag %d", tag[0])
	}

	a := arena.NewFromBuffer(buf, int(h.DataSize), int(h.M), int(h.LabelSize), h.Capacity, h.Count)
	return cap, a, nil
}
