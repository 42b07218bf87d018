package neighborset

import (
	"github.com/hupe1980/neighborset/distance"
)

// ScoreFunc scores another node against a bound anchor node.
// Higher values mean more similar.
type ScoreFunc func(node int32) (float32, error)

// Similarity scores pairs of graph nodes. Implementations must be safe for
// concurrent use; the ScoreFunc returned by ScoreProvider is used
// single-threaded within one pruning pass.
type Similarity interface {
	// Score returns the symmetric similarity between two nodes.
	Score(a, b int32) (float32, error)

	// ScoreProvider returns a scorer bound to anchor a. This lets an
	// implementation load a's state (potentially from disk) once instead of
	// redundantly for every comparison against a.
	ScoreProvider(a int32) ScoreFunc
}

// Kernel converts two raw vectors into a similarity score (higher is more
// similar).
type Kernel func(a, b []float32) float32

// DotProductKernel scores by dot product. Intended for normalized vectors.
func DotProductKernel(a, b []float32) float32 {
	return distance.Dot(a, b)
}

// InverseL2Kernel maps squared L2 distance into (0, 1], preserving order:
// identical vectors score 1, distant vectors approach 0.
func InverseL2Kernel(a, b []float32) float32 {
	return 1 / (1 + distance.SquaredL2(a, b))
}

// CosineKernel scores by cosine similarity.
func CosineKernel(a, b []float32) float32 {
	return distance.Cosine(a, b)
}

// VectorSimilarity is an in-memory Similarity backed by a dense vector table
// indexed by node id. It is the production analogue of what an HNSW builder
// supplies: vectors plus a kernel.
type VectorSimilarity struct {
	vectors [][]float32
	kernel  Kernel
}

// NewVectorSimilarity creates a VectorSimilarity over the given vector table.
// Node i scores against node j via kernel(vectors[i], vectors[j]).
func NewVectorSimilarity(vectors [][]float32, kernel Kernel) *VectorSimilarity {
	return &VectorSimilarity{
		vectors: vectors,
		kernel:  kernel,
	}
}

// Score implements Similarity.
func (s *VectorSimilarity) Score(a, b int32) (float32, error) {
	va, err := s.vector(a)
	if err != nil {
		return 0, err
	}
	vb, err := s.vector(b)
	if err != nil {
		return 0, err
	}
	return s.kernel(va, vb), nil
}

// ScoreProvider implements Similarity. The anchor vector is resolved once.
func (s *VectorSimilarity) ScoreProvider(a int32) ScoreFunc {
	va, err := s.vector(a)
	if err != nil {
		return func(int32) (float32, error) { return 0, err }
	}
	return func(node int32) (float32, error) {
		vb, err := s.vector(node)
		if err != nil {
			return 0, err
		}
		return s.kernel(va, vb), nil
	}
}

func (s *VectorSimilarity) vector(node int32) ([]float32, error) {
	if node < 0 || int(node) >= len(s.vectors) {
		return nil, &ErrUnknownNode{Node: node}
	}
	return s.vectors[node], nil
}
