package topo

// Iterator is a restartable cursor over an EdgeGraph. The usual loop is
//
//	it := g.Iter(0)
//	do {
//		s, e := it.Segment()
//		...
//	} while it.Advance()
//
// written in Go as a for loop with the Advance call in the post statement.
type Iterator struct {
	g   *EdgeGraph
	pos int
}

// Pos returns the current position.
func (it *Iterator) Pos() int {
	return it.pos
}

// Advance moves to the next position and reports whether the cursor has not
// wrapped back to position 0.
func (it *Iterator) Advance() bool {
	it.pos = it.g.Next(it.pos)
	return it.pos != 0
}

// Clone returns an independent cursor at the same position.
func (it *Iterator) Clone() *Iterator {
	return &Iterator{g: it.g, pos: it.pos}
}

// StartID returns the vertex id the current traversal starts at.
func (it *Iterator) StartID() VertexID {
	return it.g.slots[it.pos]
}

// EndID returns the vertex id the current traversal ends at.
func (it *Iterator) EndID() VertexID {
	return it.g.slots[it.g.Other(it.pos)]
}

// Segment returns the start and end vertices of the current traversal.
func (it *Iterator) Segment() (start, end Vertex) {
	return it.g.Segment(it.pos)
}

// Each calls fn for every edge reached by walking Next from position 0 until
// it wraps. It does nothing on an empty graph.
func (g *EdgeGraph) Each(fn func(p int, start, end Vertex)) {
	if len(g.slots) == 0 {
		return
	}
	it := g.Iter(0)
	for ok := true; ok; ok = it.Advance() {
		s, e := it.Segment()
		fn(it.pos, s, e)
	}
}
