package neighborset

import (
	"iter"
	"sync/atomic"

	"github.com/bits-and-blooms/bitset"
)

// alphaStep is the increment of the diversity relaxation ladder walked by
// InsertDiverse. The ladder is driven by an integer counter so the loop bound
// does not drift under accumulated float error.
const alphaStep = 0.2

// ConcurrentNeighborSet maintains the bounded neighbor list of one graph
// node. It is safe for concurrent mutation and observation.
//
// The neighbor list lives in a copy-on-write ConcurrentNeighborArray behind
// an atomic pointer. Updating is expensive (a full copy per attempt), but the
// array stays at most MaxConnections entries, so the copy is cheap in
// absolute terms, and readers, which dominate, never pay any
// synchronization cost at all.
type ConcurrentNeighborSet struct {
	nodeID         int32
	maxConnections int
	alpha          float32
	similarity     Similarity

	neighbors atomic.Pointer[ConcurrentNeighborArray]
}

// New creates an empty neighbor set for the given node.
//
// maxConnections is the upper bound M on the neighbor count. The similarity
// provider is shared by all sets of a graph and must tolerate concurrent
// calls.
func New(nodeID int32, maxConnections int, similarity Similarity, optFns ...func(o *Options)) *ConcurrentNeighborSet {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Alpha < 1.0 {
		opts.Alpha = 1.0
	}

	s := &ConcurrentNeighborSet{
		nodeID:         nodeID,
		maxConnections: maxConnections,
		alpha:          opts.Alpha,
		similarity:     similarity,
	}
	s.neighbors.Store(NewConcurrentNeighborArray(maxConnections, true))

	return s
}

// NodeID returns the node whose neighbors this set stores.
func (s *ConcurrentNeighborSet) NodeID() int32 { return s.nodeID }

// MaxConnections returns the neighbor count bound M.
func (s *ConcurrentNeighborSet) MaxConnections() int { return s.maxConnections }

// Alpha returns the diversity relaxation parameter.
func (s *ConcurrentNeighborSet) Alpha() float32 { return s.alpha }

// Size returns the neighbor count of the current snapshot.
func (s *ConcurrentNeighborSet) Size() int {
	return s.neighbors.Load().Size()
}

// ArrayLength returns the allocated capacity of the current snapshot.
func (s *ConcurrentNeighborSet) ArrayLength() int {
	return s.neighbors.Load().Capacity()
}

// Current returns the current snapshot. Snapshots are immutable after
// publication; holders may retain them indefinitely.
func (s *ConcurrentNeighborSet) Current() *ConcurrentNeighborArray {
	return s.neighbors.Load()
}

// Nodes iterates over the node ids of the current snapshot, best first. The
// iteration is over a stable view; concurrent mutations are not observed.
func (s *ConcurrentNeighborSet) Nodes() iter.Seq[int32] {
	neighbors := s.neighbors.Load()
	return func(yield func(int32) bool) {
		for i := 0; i < neighbors.Size(); i++ {
			if !yield(neighbors.Node(i)) {
				return
			}
		}
	}
}

// Contains reports whether node i is currently a neighbor. This is a linear
// scan, intended for tests.
func (s *ConcurrentNeighborSet) Contains(i int32) bool {
	for n := range s.Nodes() {
		if n == i {
			return true
		}
	}
	return false
}

// Clone returns a new set sharing the current snapshot. The clone and the
// original diverge on the next write to either (copy-on-next-write).
func (s *ConcurrentNeighborSet) Clone() *ConcurrentNeighborSet {
	cp := &ConcurrentNeighborSet{
		nodeID:         s.nodeID,
		maxConnections: s.maxConnections,
		alpha:          s.alpha,
		similarity:     s.similarity,
	}
	cp.neighbors.Store(s.neighbors.Load())
	return cp
}

// Insert adds a neighbor, keeping the size cap by removing the least diverse
// neighbor if necessary. Duplicate (node, score) pairs are ignored.
func (s *ConcurrentNeighborSet) Insert(neighborID int32, score float32) error {
	return s.InsertWithAlpha(neighborID, score, 1.0)
}

// InsertWithAlpha is Insert with an explicit diversity relaxation for the
// size enforcement pass.
func (s *ConcurrentNeighborSet) InsertWithAlpha(neighborID int32, score float32, alpha float32) error {
	if neighborID == s.nodeID {
		return &ErrSelfLoop{Node: s.nodeID}
	}
	return s.update(func(next *ConcurrentNeighborArray) error {
		next.InsertSorted(neighborID, score)
		return s.enforceMaxConnLimit(next, alpha, nil)
	})
}

// InsertDiverse selects a diverse subset of the given descending-score
// candidates and splices it into the neighbor list.
//
// Selection relaxes alpha in steps from 1.0 up to the set's configured alpha,
// stopping as soon as MaxConnections candidates are selected: the strictest
// sweep fills slots with RNG-diverse edges first, and the rule is loosened
// only when needed to reach M neighbors. Within each sweep candidates are
// walked from worst to best, so long-range edges get selected before the
// near-duplicates that would dominate them.
func (s *ConcurrentNeighborSet) InsertDiverse(candidates NeighborSource) error {
	if candidates.Size() == 0 {
		return nil
	}
	if !candidates.ScoresDescending() {
		return ErrNotDescending
	}

	selected := bitset.New(uint(candidates.Size()))
	nSelected := 0
	scores := newScoreCache()

	for k := 0; nSelected < s.maxConnections; k++ {
		a := 1.0 + alphaStep*float32(k)
		if a > s.alpha+1e-6 {
			break
		}

		for i := candidates.Size() - 1; i >= 0; i-- {
			if selected.Test(uint(i)) {
				continue
			}

			cNode := candidates.Node(i)
			cScore := candidates.Score(i)
			diverse, err := s.isDiverse(cNode, cScore, candidates, selected, a, scores)
			if err != nil {
				return err
			}
			if diverse {
				selected.Set(uint(i))
				nSelected++
			}
		}
	}

	return s.insertMultiple(candidates, selected, scores)
}

// Backlink installs the reverse edge on every current neighbor: for each
// (nbr, score) in the snapshot, neighborhoodOf(nbr) gains (nodeID, score).
//
// There is no atomicity across neighbors: each child insert is
// independently atomic, and the fanout interleaves freely with concurrent
// inserts into the neighbors' sets.
func (s *ConcurrentNeighborSet) Backlink(neighborhoodOf func(int32) *ConcurrentNeighborSet) error {
	neighbors := s.neighbors.Load()
	for i := 0; i < neighbors.Size(); i++ {
		nbr := neighbors.Node(i)
		nbrScore := neighbors.Score(i)
		if err := neighborhoodOf(nbr).Insert(s.nodeID, nbrScore); err != nil {
			return err
		}
	}
	return nil
}

// update runs the compare-and-swap loop: read the current snapshot, build
// the next one from a copy, attempt the swap, retry on loss. A failed fn
// aborts without publishing, so no partial state is ever visible.
func (s *ConcurrentNeighborSet) update(fn func(next *ConcurrentNeighborArray) error) error {
	for {
		current := s.neighbors.Load()
		next := current.Copy()
		if err := fn(next); err != nil {
			return err
		}
		if s.neighbors.CompareAndSwap(current, next) {
			return nil
		}
	}
}

// insertMultiple splices the selected candidates into the snapshot with one
// CAS update, enforcing the size cap at strict alpha.
func (s *ConcurrentNeighborSet) insertMultiple(candidates NeighborSource, selected *bitset.BitSet, scores *scoreCache) error {
	return s.update(func(next *ConcurrentNeighborArray) error {
		for i := candidates.Size() - 1; i >= 0; i-- {
			if !selected.Test(uint(i)) {
				continue
			}
			next.InsertSorted(candidates.Node(i), candidates.Score(i))
		}
		return s.enforceMaxConnLimit(next, 1.0, scores)
	})
}

// isDiverse reports whether the candidate is closer to the base node than it
// is to any already-selected candidate (scaled by alpha).
func (s *ConcurrentNeighborSet) isDiverse(node int32, score float32, candidates NeighborSource, selected *bitset.BitSet, alpha float32, scores *scoreCache) (bool, error) {
	if candidates.Size() == 0 {
		return true, nil
	}

	provider := s.similarity.ScoreProvider(node)
	for i, ok := selected.NextSet(0); ok; i, ok = selected.NextSet(i + 1) {
		otherNode := candidates.Node(int(i))
		if node == otherNode {
			// The candidate is already among the selected; it cannot
			// disqualify itself.
			continue
		}
		otherScore, err := scores.get(node, otherNode, provider)
		if err != nil {
			return false, err
		}
		if otherScore > score*alpha {
			return false, nil
		}
	}
	return true, nil
}

// enforceMaxConnLimit drops entries until the array fits MaxConnections.
func (s *ConcurrentNeighborSet) enforceMaxConnLimit(neighbors *ConcurrentNeighborArray, alpha float32, scores *scoreCache) error {
	for neighbors.Size() > s.maxConnections {
		if err := s.removeLeastDiverse(neighbors, alpha, scores); err != nil {
			return err
		}
	}
	return nil
}

// removeLeastDiverse removes the worst entry that is dominated by a better
// one: for each e1 starting with the last neighbor (least similar to base),
// look at every e2 closer to base than e1; if some e2 is closer to e1 than e1
// is to base (scaled by alpha), e1 goes. If nothing is dominated, the entry
// farthest from base goes instead.
//
// Removing the dominated-worst rather than the plain worst is what keeps the
// long-range edges HNSW navigability depends on.
func (s *ConcurrentNeighborSet) removeLeastDiverse(neighbors *ConcurrentNeighborArray, alpha float32, scores *scoreCache) error {
	for i := neighbors.Size() - 1; i >= 1; i-- {
		e1 := neighbors.Node(i)
		baseScore := neighbors.Score(i)
		provider := s.similarity.ScoreProvider(e1)

		for j := i - 1; j >= 0; j-- {
			e2 := neighbors.Node(j)
			var (
				pairScore float32
				err       error
			)
			if scores == nil {
				pairScore, err = provider(e2)
			} else {
				pairScore, err = scores.get(e1, e2, provider)
			}
			if err != nil {
				return err
			}
			if pairScore > baseScore*alpha {
				neighbors.RemoveIndex(i)
				return nil
			}
		}
	}

	neighbors.RemoveIndex(neighbors.Size() - 1)
	return nil
}
