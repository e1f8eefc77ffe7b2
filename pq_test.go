package gridastar

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrontier_PopOrder(t *testing.T) {
	q := make(frontier, 0)
	heap.Init(&q)
	items := []*frontierItem{
		{Cell: Cell{2, 2}, G: 3, F: 5},
		{Cell: Cell{0, 1}, G: 4, F: 4},
		{Cell: Cell{3, 0}, G: 1, F: 4},
		{Cell: Cell{1, 0}, G: 1, F: 4},
		{Cell: Cell{1, 3}, G: 1, F: 4},
	}
	for _, it := range items {
		heap.Push(&q, it)
	}

	var got []Cell
	for q.Len() > 0 {
		got = append(got, heap.Pop(&q).(*frontierItem).Cell)
	}
	assert.Equal(t, []Cell{{1, 0}, {1, 3}, {3, 0}, {0, 1}, {2, 2}}, got)
}

func TestFrontier_FixKeepsIndex(t *testing.T) {
	q := make(frontier, 0)
	a := &frontierItem{Cell: Cell{0, 0}, G: 5, F: 9}
	b := &frontierItem{Cell: Cell{0, 1}, G: 2, F: 6}
	heap.Push(&q, a)
	heap.Push(&q, b)
	assert.Equal(t, 0, b.IndexInQueue)

	a.G, a.F = 1, 3
	heap.Fix(&q, a.IndexInQueue)

	popped := heap.Pop(&q).(*frontierItem)
	assert.Same(t, a, popped)
	assert.Equal(t, -1, popped.IndexInQueue)
}
