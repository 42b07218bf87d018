package neighborset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcurrentNeighborArray_DuplicateIsNoop(t *testing.T) {
	a := NewConcurrentNeighborArray(4, true)
	a.InsertSorted(10, 0.9)
	a.InsertSorted(10, 0.9)

	assert.Equal(t, 1, a.Size())
	assert.Equal(t, int32(10), a.Node(0))
}

func TestConcurrentNeighborArray_EqualScoresCoexist(t *testing.T) {
	a := NewConcurrentNeighborArray(4, true)
	a.InsertSorted(10, 0.9)
	a.InsertSorted(20, 0.9)
	a.InsertSorted(10, 0.9) // duplicate, not adjacent to the first 10

	assert.Equal(t, 2, a.Size())
	assert.Equal(t, []int32{10, 20}, nodesOf(&a.NeighborArray))
}

func TestConcurrentNeighborArray_SameNodeDifferentScore(t *testing.T) {
	// Only identical (node, score) pairs are duplicates; the same node with
	// two different scores is two distinct pairs.
	a := NewConcurrentNeighborArray(4, true)
	a.InsertSorted(10, 0.9)
	a.InsertSorted(10, 0.7)

	assert.Equal(t, 2, a.Size())
	assert.Equal(t, []int32{10, 10}, nodesOf(&a.NeighborArray))
	assert.Equal(t, []float32{0.9, 0.7}, scoresOf(&a.NeighborArray))
}

func TestConcurrentNeighborArray_DuplicateAcrossEqualRun(t *testing.T) {
	a := NewConcurrentNeighborArray(8, true)
	a.InsertSorted(1, 0.5)
	a.InsertSorted(2, 0.5)
	a.InsertSorted(3, 0.5)

	// The duplicate sits left of the insertion point for a new equal score.
	a.InsertSorted(1, 0.5)
	a.InsertSorted(3, 0.5)
	assert.Equal(t, 3, a.Size())
}

func TestConcurrentNeighborArray_Copy(t *testing.T) {
	a := NewConcurrentNeighborArray(4, true)
	a.InsertSorted(1, 0.9)
	a.InsertSorted(2, 0.8)

	cp := a.Copy()
	assert.Equal(t, a.Size(), cp.Size())
	assert.Equal(t, a.Capacity(), cp.Capacity())
	assert.Equal(t, nodesOf(&a.NeighborArray), nodesOf(&cp.NeighborArray))

	cp.InsertSorted(3, 0.85)
	assert.Equal(t, 2, a.Size())
	assert.Equal(t, 3, cp.Size())
	assert.Equal(t, []int32{1, 3, 2}, nodesOf(&cp.NeighborArray))
}
