package neighborset

import (
	"fmt"
	"math"
)

// Stats describes the current snapshot of one neighbor set.
type Stats struct {
	Node       int32
	Size       int
	Capacity   int
	BestScore  float32
	WorstScore float32
}

// Stats returns statistics about the current snapshot.
func (s *ConcurrentNeighborSet) Stats() Stats {
	current := s.neighbors.Load()

	st := Stats{
		Node:     s.nodeID,
		Size:     current.Size(),
		Capacity: current.Capacity(),
	}
	if st.Size > 0 {
		st.BestScore = current.Score(0)
		st.WorstScore = current.Score(st.Size - 1)
	}
	return st
}

// String returns a string representation of the set.
func (s *ConcurrentNeighborSet) String() string {
	st := s.Stats()
	return fmt.Sprintf("ConcurrentNeighborSet(node=%d, size=%d/%d, alpha=%.1f)",
		st.Node, st.Size, s.maxConnections, s.alpha)
}

// GraphStats aggregates degree statistics over all sets of a Graph.
type GraphStats struct {
	Nodes     int
	Edges     int
	MinDegree int
	MaxDegree int
	AvgDegree float64
}

// Stats returns aggregate statistics for the graph.
func (g *Graph) Stats() GraphStats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	st := GraphStats{
		Nodes:     len(g.sets),
		MinDegree: math.MaxInt,
	}
	if st.Nodes == 0 {
		st.MinDegree = 0
		return st
	}

	for _, s := range g.sets {
		degree := s.Size()
		st.Edges += degree
		if degree < st.MinDegree {
			st.MinDegree = degree
		}
		if degree > st.MaxDegree {
			st.MaxDegree = degree
		}
	}
	st.AvgDegree = float64(st.Edges) / float64(st.Nodes)
	return st
}

// String returns a string representation of the graph.
func (g *Graph) String() string {
	st := g.Stats()
	return fmt.Sprintf("Graph(nodes=%d, edges=%d, avgDegree=%.1f, M=%d)",
		st.Nodes, st.Edges, st.AvgDegree, g.maxConnections)
}
