package neighborset

// MergeCandidates merges two descending-score neighbor lists into a single
// descending-score NeighborArray that is their set-union on (node, score).
//
// Tie policy: when scores are equal, the entry from a1 is emitted first; an
// a2 entry with the same node id and score is dropped as a duplicate. After
// one side drains, entries whose node id equals the last node emitted from
// the drained side are skipped as well; without that check a duplicate pair
// sitting exactly at the drain boundary would be emitted twice.
func MergeCandidates(a1, a2 NeighborSource) (*NeighborArray, error) {
	if !a1.ScoresDescending() || !a2.ScoresDescending() {
		return nil, ErrNotDescending
	}

	merged := NewNeighborArray(a1.Size()+a2.Size(), true)
	i, j := 0, 0

	for i < a1.Size() && j < a2.Size() {
		switch {
		case a1.Score(i) > a2.Score(j):
			if err := merged.AddInOrder(a1.Node(i), a1.Score(i)); err != nil {
				return nil, err
			}
			i++
		case a1.Score(i) < a2.Score(j):
			if err := merged.AddInOrder(a2.Node(j), a2.Score(j)); err != nil {
				return nil, err
			}
			j++
		default:
			if err := merged.AddInOrder(a1.Node(i), a1.Score(i)); err != nil {
				return nil, err
			}
			if a2.Node(j) != a1.Node(i) {
				if err := merged.AddInOrder(a2.Node(j), a2.Score(j)); err != nil {
					return nil, err
				}
			}
			i++
			j++
		}
	}

	for ; i < a1.Size(); i++ {
		if j > 0 && a1.Node(i) == a2.Node(j-1) {
			continue
		}
		if err := merged.AddInOrder(a1.Node(i), a1.Score(i)); err != nil {
			return nil, err
		}
	}

	for ; j < a2.Size(); j++ {
		if i > 0 && a2.Node(j) == a1.Node(i-1) {
			continue
		}
		if err := merged.AddInOrder(a2.Node(j), a2.Score(j)); err != nil {
			return nil, err
		}
	}

	return merged, nil
}
