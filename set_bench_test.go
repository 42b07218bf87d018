package neighborset

import (
	"testing"

	"github.com/hupe1980/neighborset/testutil"
)

func benchSimilarity(b *testing.B, n, dim int) *VectorSimilarity {
	b.Helper()
	rng := testutil.NewRNG(4711)
	return NewVectorSimilarity(rng.UniformVectors(n, dim), InverseL2Kernel)
}

func BenchmarkInsert(b *testing.B) {
	const (
		numNodes = 1024
		dim      = 32
		m        = 16
	)
	sim := benchSimilarity(b, numNodes, dim)
	s := New(0, m, sim)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		node := int32(i%(numNodes-1)) + 1
		if err := s.Insert(node, float32(i%997)/997); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkInsertDiverse(b *testing.B) {
	const (
		numNodes   = 1024
		dim        = 32
		m          = 16
		candidates = 64
	)
	sim := benchSimilarity(b, numNodes, dim)
	rng := testutil.NewRNG(42)

	cands := NewNeighborArray(candidates, true)
	scores := rng.DescendingScores(candidates)
	for i := 0; i < candidates; i++ {
		if err := cands.AddInOrder(int32(i)+1, scores[i]); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := New(0, m, sim, WithAlpha(1.2))
		if err := s.InsertDiverse(cands); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNodesIteration(b *testing.B) {
	sim := benchSimilarity(b, 64, 8)
	s := New(0, 32, sim)
	for i := int32(1); i <= 32; i++ {
		if err := s.Insert(i, 1/float32(i)); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	var sink int32
	for i := 0; i < b.N; i++ {
		for n := range s.Nodes() {
			sink += n
		}
	}
	_ = sink
}
