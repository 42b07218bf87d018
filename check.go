package neighborset

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// CheckReport is the result of CheckGraph: per-invariant violation lists plus
// edge symmetry and reachability figures.
//
// A healthy report has empty violation slices; AsymmetricEdges is expected to
// be nonzero mid-build (backlinks land asynchronously) and Unreachable should
// be zero for a finished, connected graph.
type CheckReport struct {
	Nodes int
	Edges int

	// Invariant violations, by node id.
	Overfull        []int32 // size exceeds MaxConnections
	OrderViolations []int32 // snapshot not in descending score order
	Duplicates      []int32 // same (node, score) pair appears twice
	SelfLoops       []int32 // node appears in its own neighbor list

	// Edges whose reverse edge is missing from the target's set.
	AsymmetricEdges int

	// Nodes not reachable from the entry node by forward edges. Zero when no
	// entry was given.
	Unreachable uint64
}

// Clean reports whether no invariant violations were found. Symmetry and
// reachability are diagnostics, not invariants, and do not affect Clean.
func (r *CheckReport) Clean() bool {
	return len(r.Overfull) == 0 &&
		len(r.OrderViolations) == 0 &&
		len(r.Duplicates) == 0 &&
		len(r.SelfLoops) == 0
}

// CheckGraph validates every set of the graph against the structural
// invariants (size bound, descending order, pair uniqueness, no self loops)
// and reports edge symmetry plus reachability from entry.
//
// Pass a negative entry to skip the reachability walk. The check reads one
// snapshot per set; concurrent mutations after that read are not observed.
func CheckGraph(g *Graph, entry int32) *CheckReport {
	report := &CheckReport{}

	g.mu.RLock()
	snapshots := make(map[int32]*ConcurrentNeighborArray, len(g.sets))
	for id, s := range g.sets {
		snapshots[id] = s.neighbors.Load()
	}
	logger := g.opts.Logger
	g.mu.RUnlock()

	report.Nodes = len(snapshots)

	members := roaring.New()
	for id := range snapshots {
		members.Add(uint32(id))
	}

	for id, arr := range snapshots {
		report.Edges += arr.Size()
		checkSnapshot(report, id, arr, g.maxConnections)

		for i := 0; i < arr.Size(); i++ {
			nbr := arr.Node(i)
			rev, ok := snapshots[nbr]
			if !ok || !snapshotContains(rev, id) {
				report.AsymmetricEdges++
			}
		}
	}

	if entry >= 0 && members.Contains(uint32(entry)) {
		visited := roaring.New()
		walk(snapshots, entry, visited)
		report.Unreachable = members.GetCardinality() - roaring.And(members, visited).GetCardinality()
	}

	if logger != nil {
		logger.WithOp("check").Info("graph checked",
			"nodes", report.Nodes,
			"edges", report.Edges,
			"clean", report.Clean(),
			"asymmetric", report.AsymmetricEdges,
			"unreachable", report.Unreachable,
		)
	}

	return report
}

func checkSnapshot(report *CheckReport, id int32, arr *ConcurrentNeighborArray, maxConnections int) {
	if arr.Size() > maxConnections {
		report.Overfull = append(report.Overfull, id)
	}

	seen := make(map[uint64]struct{}, arr.Size())
	for i := 0; i < arr.Size(); i++ {
		if arr.Node(i) == id {
			report.SelfLoops = append(report.SelfLoops, id)
		}
		if i > 0 && arr.Score(i) > arr.Score(i-1) {
			report.OrderViolations = append(report.OrderViolations, id)
		}

		key := uint64(uint32(arr.Node(i)))<<32 | uint64(math.Float32bits(arr.Score(i)))
		if _, dup := seen[key]; dup {
			report.Duplicates = append(report.Duplicates, id)
		}
		seen[key] = struct{}{}
	}
}

func snapshotContains(arr *ConcurrentNeighborArray, node int32) bool {
	for i := 0; i < arr.Size(); i++ {
		if arr.Node(i) == node {
			return true
		}
	}
	return false
}

// walk does an iterative DFS over forward edges.
func walk(snapshots map[int32]*ConcurrentNeighborArray, entry int32, visited *roaring.Bitmap) {
	stack := []int32{entry}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited.Contains(uint32(id)) {
			continue
		}
		visited.Add(uint32(id))

		arr, ok := snapshots[id]
		if !ok {
			continue
		}
		for i := 0; i < arr.Size(); i++ {
			if !visited.Contains(uint32(arr.Node(i))) {
				stack = append(stack, arr.Node(i))
			}
		}
	}
}
