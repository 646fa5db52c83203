package visited

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisitedSet(t *testing.T) {
	v := New(10)

	assert.False(t, v.Visited(1))
	assert.False(t, v.Visited(5))

	v.Visit(1)
	assert.True(t, v.Visited(1))
	assert.False(t, v.Visited(5))

	v.Visit(5)
	assert.True(t, v.Visited(1))
	assert.True(t, v.Visited(5))

	v.Reset()
	assert.False(t, v.Visited(1))
	assert.False(t, v.Visited(5))

	v.Visit(1)
	assert.True(t, v.Visited(1))
	assert.False(t, v.Visited(5))

	v.Visit(15) // triggers grow
	assert.True(t, v.Visited(15))
	assert.True(t, v.Visited(1))
}

func TestVisitedSet_ResetIsCheapAcrossManyGenerations(t *testing.T) {
	v := New(4)
	for g := 0; g < 1000; g++ {
		v.Visit(2)
		assert.True(t, v.Visited(2))
		v.Reset()
		assert.False(t, v.Visited(2))
	}
}

func TestVisitedSet_Grow(t *testing.T) {
	v := New(2)
	v.Visit(1)
	assert.True(t, v.Visited(1))

	v.Visit(5)
	assert.True(t, v.Visited(5))
	assert.True(t, v.Visited(1))
}
