package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityQueue_MaxHeapOrdering(t *testing.T) {
	pq := NewMax(4)
	pq.PushItem(PriorityQueueItem{Node: 1, Distance: 3})
	pq.PushItem(PriorityQueueItem{Node: 2, Distance: 5})
	pq.PushItem(PriorityQueueItem{Node: 3, Distance: 1})

	top, ok := pq.TopItem()
	assert.True(t, ok)
	assert.Equal(t, float32(5), top.Distance)
}

func TestPriorityQueue_MinHeapOrdering(t *testing.T) {
	pq := NewMin(4)
	pq.PushItem(PriorityQueueItem{Node: 1, Distance: 3})
	pq.PushItem(PriorityQueueItem{Node: 2, Distance: 5})
	pq.PushItem(PriorityQueueItem{Node: 3, Distance: 1})

	top, ok := pq.TopItem()
	assert.True(t, ok)
	assert.Equal(t, float32(1), top.Distance)
}

func TestPriorityQueue_PushItemBoundedEvictsWorst(t *testing.T) {
	pq := NewMax(2)
	pq.PushItemBounded(PriorityQueueItem{Node: 1, Distance: 3}, 2)
	pq.PushItemBounded(PriorityQueueItem{Node: 2, Distance: 1}, 2)
	pq.PushItemBounded(PriorityQueueItem{Node: 3, Distance: 2}, 2)

	assert.Equal(t, 2, pq.Len())
	top, ok := pq.TopItem()
	assert.True(t, ok)
	assert.Equal(t, float32(2), top.Distance, "worst (distance 3) must have been evicted")
}

func TestPriorityQueue_DrainIsSorted(t *testing.T) {
	pq := NewMin(4)
	for _, d := range []float32{4, 1, 3, 2} {
		pq.PushItem(PriorityQueueItem{Distance: d})
	}

	var got []float32
	for pq.Len() > 0 {
		item, _ := pq.PopItem()
		got = append(got, item.Distance)
	}
	assert.Equal(t, []float32{1, 2, 3, 4}, got)
}

func TestPriorityQueue_EmptyPopAndTop(t *testing.T) {
	pq := NewMax(0)
	_, ok := pq.TopItem()
	assert.False(t, ok)
	_, ok = pq.PopItem()
	assert.False(t, ok)
}
