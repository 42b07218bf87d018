// Package distance provides the vector kernels used to build similarity
// scores: dot product, squared L2 distance, cosine similarity, and L2
// normalization.
//
// All functions are portable Go. Callers are responsible for passing vectors
// of equal length.
package distance
