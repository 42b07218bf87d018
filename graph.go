package neighborset

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Graph is a registry of neighbor sets, one per graph node. It provides the
// node-to-set lookup that Backlink needs and a home for graph-wide
// diagnostics.
//
// It is NOT an HNSW builder: layer selection, entry-point tracking and beam
// search live in the caller. The registry only creates, stores and hands out
// sets.
type Graph struct {
	mu   sync.RWMutex
	sets map[int32]*ConcurrentNeighborSet

	maxConnections int
	similarity     Similarity
	opts           Options
}

// NewGraph creates an empty graph whose sets share the given bound and
// similarity provider.
func NewGraph(maxConnections int, similarity Similarity, optFns ...func(o *Options)) *Graph {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Alpha < 1.0 {
		opts.Alpha = 1.0
	}

	return &Graph{
		sets:           make(map[int32]*ConcurrentNeighborSet),
		maxConnections: maxConnections,
		similarity:     similarity,
		opts:           opts,
	}
}

// Add creates (or returns the existing) neighbor set for the given node.
func (g *Graph) Add(nodeID int32) *ConcurrentNeighborSet {
	g.mu.Lock()
	defer g.mu.Unlock()

	if s, ok := g.sets[nodeID]; ok {
		return s
	}
	s := New(nodeID, g.maxConnections, g.similarity, WithAlpha(g.opts.Alpha))
	g.sets[nodeID] = s
	return s
}

// Set returns the neighbor set for the given node.
func (g *Graph) Set(nodeID int32) (*ConcurrentNeighborSet, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.sets[nodeID]
	return s, ok
}

// NeighborhoodOf returns the lookup function Backlink consumes. The function
// creates missing sets on demand so a backlink can never dangle.
func (g *Graph) NeighborhoodOf() func(int32) *ConcurrentNeighborSet {
	return func(nodeID int32) *ConcurrentNeighborSet {
		g.mu.RLock()
		s, ok := g.sets[nodeID]
		g.mu.RUnlock()
		if ok {
			return s
		}
		return g.Add(nodeID)
	}
}

// Size returns the number of registered nodes.
func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.sets)
}

// NodeIDs returns the registered node ids in unspecified order.
func (g *Graph) NodeIDs() []int32 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := make([]int32, 0, len(g.sets))
	for id := range g.sets {
		ids = append(ids, id)
	}
	return ids
}

// BacklinkAll runs Backlink on every registered set concurrently. Each child
// insert is independently atomic; there is no ordering across sets.
func (g *Graph) BacklinkAll(ctx context.Context) error {
	lookup := g.NeighborhoodOf()

	g.mu.RLock()
	sets := make([]*ConcurrentNeighborSet, 0, len(g.sets))
	for _, s := range g.sets {
		sets = append(sets, s)
	}
	g.mu.RUnlock()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for _, s := range sets {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return s.Backlink(lookup)
		})
	}

	return eg.Wait()
}
