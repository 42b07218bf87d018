// Package neighborset provides the concurrent per-node adjacency structure
// used by HNSW (Hierarchical Navigable Small World) graph builders.
//
// For every graph node a ConcurrentNeighborSet maintains the bounded list of
// that node's nearest neighbors under a caller-supplied Similarity, mediates
// concurrent edge insertion from multiple builder goroutines, and enforces the
// alpha-relaxed RNG diversity rule that makes HNSW graphs navigable rather
// than merely nearest-neighbor-correct.
//
// # Quick Start
//
//	sim := neighborset.NewVectorSimilarity(vectors, neighborset.InverseL2Kernel)
//	set := neighborset.New(0, 16, sim)
//
//	// The builder hands over a descending-score candidate list ...
//	if err := set.InsertDiverse(candidates); err != nil {
//	    return err
//	}
//	// ... and installs the reverse edges on the selected neighbors.
//	if err := set.Backlink(graph.NeighborhoodOf()); err != nil {
//	    return err
//	}
//
// # Concurrency
//
// Every set holds one immutable ConcurrentNeighborArray snapshot behind an
// atomic pointer. Mutators run a compare-and-swap loop: read the current
// snapshot, build the next one from a copy, attempt the swap, retry on loss.
// Readers never synchronize; iteration over a snapshot is always over a
// stable view. This matters because "iterate a node's neighbors" is the
// hottest loop of both graph construction and search.
//
// # Scope
//
// The higher-level HNSW builder and searcher (layer selection, entry points,
// beam search), vector storage, and index persistence backends are the
// caller's concern. The Graph type in this package is only a registry of sets
// plus diagnostics; it does not build graphs.
package neighborset
