package topo

import (
	"fmt"
	"math"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
)

// Dir is the traversal sense a position encodes.
type Dir int

const (
	Forward  Dir = iota // even position, A to B
	Backward            // odd position, B to A
)

// DirOf returns the traversal sense of position p.
func DirOf(p int) Dir {
	if p%2 == 0 {
		return Forward
	}
	return Backward
}

// EdgeGraph is an ordered collection of edges over a shared VertexStore.
// The graph does not own its store; clones and appended graphs refer to the
// same one.
type EdgeGraph struct {
	store *VertexStore
	slots []VertexID
}

// NewEdgeGraph returns an empty graph over store.
func NewEdgeGraph(store *VertexStore) *EdgeGraph {
	return &EdgeGraph{store: store}
}

// Store returns the vertex store the graph refers to.
func (g *EdgeGraph) Store() *VertexStore {
	return g.store
}

// AddEdge appends the edge a-b and returns the position of its A slot.
func (g *EdgeGraph) AddEdge(a, b VertexID) (int, error) {
	if !g.store.valid(a) {
		return 0, errors.Wrapf(ErrOutOfRange, "add edge: vertex %d", a)
	}
	if !g.store.valid(b) {
		return 0, errors.Wrapf(ErrOutOfRange, "add edge: vertex %d", b)
	}
	g.slots = append(g.slots, a, b)
	return len(g.slots) - 2, nil
}

// AddPoints interns both points and appends the edge between them, storing
// the endpoint with the lower Z first. It returns the stored A and B ids.
func (g *EdgeGraph) AddPoints(p, q Vertex) (VertexID, VertexID) {
	return g.AddCoords(p.X, p.Y, p.Z, q.X, q.Y, q.Z)
}

// AddCoords is AddPoints taking six scalars.
func (g *EdgeGraph) AddCoords(x1, y1, z1, x2, y2, z2 float64) (VertexID, VertexID) {
	var a, b VertexID
	if z1 <= z2 {
		a = g.store.Intern(x1, y1, z1)
		b = g.store.Intern(x2, y2, z2)
	} else {
		a = g.store.Intern(x2, y2, z2)
		b = g.store.Intern(x1, y1, z1)
	}
	g.slots = append(g.slots, a, b)
	return a, b
}

// At returns the vertex id stored at position p.
func (g *EdgeGraph) At(p int) (VertexID, error) {
	if p < 0 || p >= len(g.slots) {
		return 0, errors.Wrapf(ErrOutOfRange, "position %d (graph has %d slots)", p, len(g.slots))
	}
	return g.slots[p], nil
}

// Other returns the position of the opposite endpoint of p's edge.
func (g *EdgeGraph) Other(p int) int {
	if p%2 == 0 {
		return p + 1
	}
	return p - 1
}

// Next advances p by one edge: +2 for even positions, -2 for odd ones,
// wrapping around the slot array.
func (g *EdgeGraph) Next(p int) int {
	n := len(g.slots)
	if n == 0 {
		return 0
	}
	if p%2 == 0 {
		p += 2
	} else {
		p -= 2
	}
	switch {
	case p >= n:
		return p - n
	case p < 0:
		return p + n
	}
	return p
}

// Len returns the number of edges.
func (g *EdgeGraph) Len() int {
	return len(g.slots) / 2
}

// Slots returns the number of positions, twice the edge count.
func (g *EdgeGraph) Slots() int {
	return len(g.slots)
}

// StartVertex returns the vertex a traversal from p starts at.
func (g *EdgeGraph) StartVertex(p int) (Vertex, error) {
	id, err := g.At(p)
	if err != nil {
		return Vertex{}, err
	}
	return g.store.Get(id)
}

// EndVertex returns the vertex a traversal from p ends at.
func (g *EdgeGraph) EndVertex(p int) (Vertex, error) {
	if p < 0 || p >= len(g.slots) {
		return Vertex{}, errors.Wrapf(ErrOutOfRange, "position %d (graph has %d slots)", p, len(g.slots))
	}
	return g.StartVertex(g.Other(p))
}

// Segment returns both endpoints of the traversal from p. It panics when p is
// not a valid position, the way slice indexing does; algorithms that only
// follow Next and Other from a valid start never trigger that.
func (g *EdgeGraph) Segment(p int) (start, end Vertex) {
	return g.store.vertices[g.slots[p]], g.store.vertices[g.slots[g.Other(p)]]
}

// Direction returns the unit XY direction of the traversal from p.
func (g *EdgeGraph) Direction(p int) (v2.Vec, error) {
	if p < 0 || p >= len(g.slots) {
		return v2.Vec{}, errors.Wrapf(ErrOutOfRange, "position %d (graph has %d slots)", p, len(g.slots))
	}
	s, e := g.Segment(p)
	d := e.XY().Sub(s.XY())
	l := math.Hypot(d.X, d.Y)
	if l == 0 {
		return v2.Vec{}, errors.Wrapf(ErrDegenerate, "edge at position %d has zero length in XY", p)
	}
	return v2.Vec{X: d.X / l, Y: d.Y / l}, nil
}

// Clone returns an empty graph sharing this graph's vertex store.
func (g *EdgeGraph) Clone() *EdgeGraph {
	return NewEdgeGraph(g.store)
}

// CloneWith returns a graph sharing this graph's store, seeded with a copy of
// the given slot sequence.
func (g *EdgeGraph) CloneWith(slots []VertexID) (*EdgeGraph, error) {
	if len(slots)%2 != 0 {
		return nil, errors.Wrapf(ErrOutOfRange, "clone: odd slot count %d", len(slots))
	}
	for _, id := range slots {
		if !g.store.valid(id) {
			return nil, errors.Wrapf(ErrOutOfRange, "clone: vertex %d", id)
		}
	}
	return &EdgeGraph{store: g.store, slots: append([]VertexID(nil), slots...)}, nil
}

// Copy returns a graph with the same store and a copy of this graph's pairs.
func (g *EdgeGraph) Copy() *EdgeGraph {
	return &EdgeGraph{store: g.store, slots: append([]VertexID(nil), g.slots...)}
}

// Append concatenates other's pairs onto g. Both graphs must share a store.
func (g *EdgeGraph) Append(other *EdgeGraph) error {
	if other.store != g.store {
		return errors.WithStack(ErrMismatchedStore)
	}
	g.slots = append(g.slots, other.slots...)
	return nil
}

// Pairs returns a copy of the slot sequence.
func (g *EdgeGraph) Pairs() []VertexID {
	return append([]VertexID(nil), g.slots...)
}

// Iter returns a cursor positioned at start.
func (g *EdgeGraph) Iter(start int) *Iterator {
	return &Iterator{g: g, pos: start}
}

func (g *EdgeGraph) String() string {
	parts := make([]string, len(g.slots))
	for i, id := range g.slots {
		parts[i] = fmt.Sprint(int(id))
	}
	return strings.Join(parts, ",")
}
