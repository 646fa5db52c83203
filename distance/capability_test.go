package distance

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInnerProduct_Distance(t *testing.T) {
	p := &InnerProduct{Dimension: 2}
	d := p.Distance([]float32{1, 0}, []float32{1, 0})
	assert.InDelta(t, 0, d, 1e-6)
}

func TestL2_Distance(t *testing.T) {
	l := &L2{Dimension: 2}
	d := l.Distance([]float32{3, 0}, []float32{0, 0})
	assert.InDelta(t, 9, d, 1e-6)
}

func TestCapability_SaveLoadRoundTrip(t *testing.T) {
	for _, c := range []Capability{&L2{Dimension: 5}, &InnerProduct{Dimension: 5}} {
		var buf bytes.Buffer
		require.NoError(t, Save(&buf, c))

		got, err := Load(&buf)
		require.NoError(t, err)
		assert.Equal(t, c.ID(), got.ID())
		assert.Equal(t, c.DataSize(), got.DataSize())
	}
}

func TestCapability_LoadRejectsUnknownID(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x63, 0, 0, 0})
	_, err := Load(buf)
	assert.Error(t, err)
}
