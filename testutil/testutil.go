package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// Perm returns a pseudo-random permutation of [0,n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// FillUniform fills v with uniform values in [0, 1).
func (r *RNG) FillUniform(v []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range v {
		v[i] = r.rand.Float32()
	}
}

// UniformVectors generates n vectors of the given dimension with uniform
// components in [0, 1).
func (r *RNG) UniformVectors(n, dim int) [][]float32 {
	vecs := make([][]float32, n)
	for i := range vecs {
		vecs[i] = make([]float32, dim)
		r.FillUniform(vecs[i])
	}
	return vecs
}

// DescendingScores returns n distinct scores in strictly descending order,
// starting just below 1 and spaced evenly.
func (r *RNG) DescendingScores(n int) []float32 {
	scores := make([]float32, n)
	for i := range scores {
		scores[i] = 0.99 - float32(i)*(0.9/float32(n))
	}
	return scores
}
