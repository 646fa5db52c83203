package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/annidx/distance"
	"github.com/hupe1980/annidx/internal/arena"
)

func buildArena(t *testing.T) (*distance.L2, *arena.NodeArena) {
	t.Helper()
	cap := &distance.L2{Dimension: 3}
	a := arena.New(cap.DataSize(), 4, 8, 4)
	id, ok := a.Alloc()
	require.True(t, ok)
	a.SetDataFloat32(id, []float32{1, 2, 3})
	a.SetLabel(id, 42)
	return cap, a
}

func TestFormat_SaveLoadRoundTripUncompressed(t *testing.T) {
	cap, a := buildArena(t)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, cap, a, false))

	gotCap, gotArena, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, cap.DataSize(), gotCap.DataSize())
	assert.Equal(t, a.Stride(), gotArena.Stride())
	assert.Equal(t, a.Count(), gotArena.Count())

	var vec [3]float32
	gotArena.DataFloat32(0, vec[:])
	assert.Equal(t, [3]float32{1, 2, 3}, vec)
	assert.Equal(t, uint64(42), gotArena.Label(0))
}

func TestFormat_SaveLoadRoundTripCompressed(t *testing.T) {
	cap, a := buildArena(t)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, cap, a, true))

	gotCap, gotArena, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, cap.DataSize(), gotCap.DataSize())

	var vec [3]float32
	gotArena.DataFloat32(0, vec[:])
	assert.Equal(t, [3]float32{1, 2, 3}, vec)
}

func TestFormat_LoadRejectsStrideMismatch(t *testing.T) {
	cap, a := buildArena(t)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, cap, a, false))

	raw := buf.Bytes()
	// The stride field sits right after DISTANCE_ID(4) + Dimension(8) +
	// DataSize(4): corrupt it so it no longer matches dataSize+M*4+labelSize.
	offset := 4 + 8 + 4
	raw[offset]++

	_, _, err := Load(bytes.NewReader(raw))
	require.Error(t, err)
	var mismatch *FormatMismatchError
	assert.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "node_size_bytes", mismatch.Field)
}
