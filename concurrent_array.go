package neighborset

// ConcurrentNeighborArray is a NeighborArray that rejects duplicate
// (node, score) pairs on insert and knows how to copy itself. It is the
// snapshot type published by ConcurrentNeighborSet.
//
// Two nodes may attempt to add each other at the same time: the forward edge
// A→B and the backlink B→A it triggers can race into the same array. The
// duplicate check during the sorted insert makes the second arrival a no-op.
type ConcurrentNeighborArray struct {
	NeighborArray
}

// NewConcurrentNeighborArray creates an empty ConcurrentNeighborArray with
// the given capacity and score order.
func NewConcurrentNeighborArray(capacity int, descending bool) *ConcurrentNeighborArray {
	if capacity < 0 {
		capacity = 0
	}
	return &ConcurrentNeighborArray{
		NeighborArray: NeighborArray{
			node:       make([]int32, capacity),
			score:      make([]float32, capacity),
			descending: descending,
		},
	}
}

// InsertSorted inserts a pair at its sorted position unless an identical
// (node, score) pair is already present, in which case it is a no-op.
//
// Only the equal-score run around the insertion point needs scanning: the
// sort order groups equal scores contiguously, so a duplicate can live
// nowhere else.
func (a *ConcurrentNeighborArray) InsertSorted(node int32, score float32) {
	point := a.insertionPoint(score)
	if a.duplicateExistsNear(point, node, score) {
		return
	}
	a.insertAt(point, node, score)
}

func (a *ConcurrentNeighborArray) duplicateExistsNear(point int, node int32, score float32) bool {
	for i := point - 1; i >= 0 && a.score[i] == score; i-- {
		if a.node[i] == node {
			return true
		}
	}
	for i := point; i < a.size && a.score[i] == score; i++ {
		if a.node[i] == node {
			return true
		}
	}
	return false
}

// Copy returns a deep value copy of the live prefix with the same capacity
// and order.
func (a *ConcurrentNeighborArray) Copy() *ConcurrentNeighborArray {
	cp := NewConcurrentNeighborArray(len(a.node), a.descending)
	cp.size = a.size
	copy(cp.node, a.node[:a.size])
	copy(cp.score, a.score[:a.size])
	return cp
}
