package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeArena_AllocInitializesSelfLoops(t *testing.T) {
	a := New(8, 3, 8, 4)

	id, ok := a.Alloc()
	require.True(t, ok)
	assert.Equal(t, uint32(0), id)

	for i := 0; i < a.M(); i++ {
		assert.Equal(t, id, a.GetLink(id, i), "unused slot must self-loop")
	}
}

func TestNodeArena_AllocFailsAtCapacity(t *testing.T) {
	a := New(4, 2, 8, 2)

	_, ok := a.Alloc()
	require.True(t, ok)
	_, ok = a.Alloc()
	require.True(t, ok)

	_, ok = a.Alloc()
	assert.False(t, ok, "arena must refuse allocation past capacity")
	assert.Equal(t, uint32(2), a.Count())
}

func TestNodeArena_DataRoundTrip(t *testing.T) {
	a := New(8, 2, 8, 1)
	id, ok := a.Alloc()
	require.True(t, ok)

	in := []float32{1.5, -2.25}
	a.SetDataFloat32(id, in)

	out := make([]float32, 2)
	a.DataFloat32(id, out)
	assert.Equal(t, in, out)
}

func TestNodeArena_LabelRoundTrip(t *testing.T) {
	a := New(4, 1, 8, 1)
	id, ok := a.Alloc()
	require.True(t, ok)

	a.SetLabel(id, 123456789)
	assert.Equal(t, uint64(123456789), a.Label(id))
}

func TestNodeArena_LinksRoundTrip(t *testing.T) {
	a := New(4, 3, 8, 4)
	id, ok := a.Alloc()
	require.True(t, ok)

	a.SetLink(id, 0, 7)
	a.SetLink(id, 2, 9)

	links := a.Links(id)
	assert.Equal(t, []uint32{7, id, 9}, links)
}

func TestNodeArena_SwapExchangesFullSlots(t *testing.T) {
	a := New(4, 1, 8, 2)
	x, _ := a.Alloc()
	y, _ := a.Alloc()

	a.SetDataFloat32(x, []float32{1})
	a.SetLabel(x, 10)
	a.SetLink(x, 0, x)

	a.SetDataFloat32(y, []float32{2})
	a.SetLabel(y, 20)
	a.SetLink(y, 0, y)

	a.Swap(x, y)

	gotX := make([]float32, 1)
	a.DataFloat32(x, gotX)
	gotY := make([]float32, 1)
	a.DataFloat32(y, gotY)

	assert.Equal(t, []float32{2}, gotX)
	assert.Equal(t, uint64(20), a.Label(x))
	assert.Equal(t, []float32{1}, gotY)
	assert.Equal(t, uint64(10), a.Label(y))
}

func TestNodeArena_StrideFormula(t *testing.T) {
	a := New(16, 5, 8, 10)
	assert.Equal(t, 16+5*4+8, a.Stride())
}
