package neighborset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodesOf(a *NeighborArray) []int32 {
	nodes := make([]int32, a.Size())
	for i := range nodes {
		nodes[i] = a.Node(i)
	}
	return nodes
}

func scoresOf(a *NeighborArray) []float32 {
	scores := make([]float32, a.Size())
	for i := range scores {
		scores[i] = a.Score(i)
	}
	return scores
}

func TestNeighborArray_AddInOrder(t *testing.T) {
	t.Run("Descending", func(t *testing.T) {
		a := NewNeighborArray(4, true)
		require.NoError(t, a.AddInOrder(1, 0.9))
		require.NoError(t, a.AddInOrder(2, 0.8))
		require.NoError(t, a.AddInOrder(3, 0.8)) // ties are in order

		err := a.AddInOrder(4, 0.95)
		var violation *ErrOrderViolation
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, float32(0.8), violation.Last)
		assert.Equal(t, float32(0.95), violation.New)
		assert.True(t, violation.Descending)

		// The failed add must not change the array.
		assert.Equal(t, []int32{1, 2, 3}, nodesOf(a))
	})

	t.Run("Ascending", func(t *testing.T) {
		a := NewNeighborArray(4, false)
		require.NoError(t, a.AddInOrder(1, 0.1))
		require.NoError(t, a.AddInOrder(2, 0.5))

		var violation *ErrOrderViolation
		require.ErrorAs(t, a.AddInOrder(3, 0.2), &violation)
		assert.False(t, violation.Descending)
	})
}

func TestNeighborArray_InsertSorted(t *testing.T) {
	a := NewNeighborArray(4, true)
	a.InsertSorted(10, 0.9)
	a.InsertSorted(20, 0.8)
	a.InsertSorted(30, 0.95)

	assert.Equal(t, []int32{30, 10, 20}, nodesOf(a))
	assert.Equal(t, []float32{0.95, 0.9, 0.8}, scoresOf(a))
}

func TestNeighborArray_InsertSorted_EqualScoreStability(t *testing.T) {
	t.Run("DescendingNewerGoesRight", func(t *testing.T) {
		a := NewNeighborArray(4, true)
		a.InsertSorted(1, 0.5)
		a.InsertSorted(2, 0.5)
		a.InsertSorted(3, 0.5)
		assert.Equal(t, []int32{1, 2, 3}, nodesOf(a))
	})

	t.Run("AscendingNewerGoesLeft", func(t *testing.T) {
		a := NewNeighborArray(4, false)
		a.InsertSorted(1, 0.5)
		a.InsertSorted(2, 0.5)
		a.InsertSorted(3, 0.5)
		assert.Equal(t, []int32{3, 2, 1}, nodesOf(a))
	})
}

func TestNeighborArray_RemoveIndex(t *testing.T) {
	a := NewNeighborArray(4, true)
	a.InsertSorted(1, 0.9)
	a.InsertSorted(2, 0.8)
	a.InsertSorted(3, 0.7)

	a.RemoveIndex(1)
	assert.Equal(t, []int32{1, 3}, nodesOf(a))
	assert.Equal(t, []float32{0.9, 0.7}, scoresOf(a))

	a.RemoveIndex(1)
	a.RemoveIndex(0)
	assert.Zero(t, a.Size())
}

func TestNeighborArray_Growth(t *testing.T) {
	a := NewNeighborArray(2, true)
	assert.Equal(t, 2, a.Capacity())

	a.InsertSorted(1, 0.9)
	a.InsertSorted(2, 0.8)
	assert.Equal(t, 2, a.Capacity())

	// cap 2 -> ceil(2*1.5) = 3
	a.InsertSorted(3, 0.7)
	assert.Equal(t, 3, a.Capacity())

	// cap 3 -> ceil(3*1.5) = 5
	a.InsertSorted(4, 0.6)
	assert.Equal(t, 5, a.Capacity())

	assert.Equal(t, []int32{1, 2, 3, 4}, nodesOf(a))
}

func TestNeighborArray_GrowthFromZero(t *testing.T) {
	a := NewNeighborArray(0, true)
	a.InsertSorted(1, 0.9)
	assert.Equal(t, 1, a.Size())
	assert.Equal(t, 1, a.Capacity())
}
