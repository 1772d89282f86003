// Package loops reassembles an unordered bag of edges, such as the segments a
// mesh slicer produces for one layer, into ordered loops.
package loops

import (
	"github.com/chazu/strata/pkg/topo"
)

// Branch records a continuation choice made at a vertex shared by more than
// two edges. Candidates lists every unvisited slot holding the vertex, in
// slot order; Chosen is always Candidates[0].
type Branch struct {
	Vertex     topo.VertexID
	At         int // position of the edge arriving at Vertex
	Candidates []int
	Chosen     int
}

// Report describes how Build resolved the input.
type Report struct {
	Branches []Branch
	Open     []int // indexes of loops that could not be closed
}

// Closed reports whether every loop returned alongside r is closed.
func (r Report) Closed() bool {
	return len(r.Open) == 0
}

// Build orders every edge of g into one or more loops sharing g's vertex
// store. Each input edge appears in exactly one loop, oriented in the order
// it was walked.
//
// At a vertex with several unvisited continuations Build takes the first one
// in slot order. No geometric tie-break is applied; the choice is recorded in
// the Report instead. A chain that runs out of continuations is returned as
// an open loop.
func Build(g *topo.EdgeGraph) ([]*topo.EdgeGraph, Report) {
	var (
		loops  []*topo.EdgeGraph
		report Report
		slots  = g.Pairs()
		used   = make([]bool, len(slots))
		log    = topo.Logger()
	)

	for cur := firstUnused(used); cur != -1; cur = firstUnused(used) {
		loop := g.Clone()
		start := slots[cur]
		closed := false
		for {
			end := g.Other(cur)
			// Slots come from g itself, so the ids are valid.
			_, _ = loop.AddEdge(slots[cur], slots[end])
			used[cur] = true
			used[end] = true

			if slots[end] == start {
				closed = true
				break
			}
			candidates := likeSlots(slots, end, cur)
			next := firstUnusedIn(used, candidates)
			if next == -1 {
				break
			}
			if open := unusedOnly(used, candidates); len(open) > 1 {
				b := Branch{Vertex: slots[end], At: cur, Candidates: open, Chosen: next}
				report.Branches = append(report.Branches, b)
				log.Debug("loops: ambiguous continuation",
					"vertex", b.Vertex, "candidates", b.Candidates, "chosen", b.Chosen)
			}
			cur = next
		}
		if !closed {
			report.Open = append(report.Open, len(loops))
			log.Warn("loops: open chain", "loop", len(loops), "edges", loop.Len())
		}
		loops = append(loops, loop)
	}
	return loops, report
}

// likeSlots returns every slot holding the same vertex as slots[at], other
// than the two slots of the current edge.
func likeSlots(slots []topo.VertexID, at, cur int) []int {
	var res []int
	for i, id := range slots {
		if id == slots[at] && i != at && i != cur {
			res = append(res, i)
		}
	}
	return res
}

// firstUnused returns the first unmarked slot, or -1.
func firstUnused(used []bool) int {
	for i, u := range used {
		if !u {
			return i
		}
	}
	return -1
}

// firstUnusedIn returns the first unmarked slot among set, or -1.
func firstUnusedIn(used []bool, set []int) int {
	for _, i := range set {
		if !used[i] {
			return i
		}
	}
	return -1
}

func unusedOnly(used []bool, set []int) []int {
	var res []int
	for _, i := range set {
		if !used[i] {
			res = append(res, i)
		}
	}
	return res
}
