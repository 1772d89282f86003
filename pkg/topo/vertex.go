package topo

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
)

// Vertex is a point in model space.
type Vertex struct {
	X, Y, Z float64
}

// XY projects the vertex onto the build plane.
func (v Vertex) XY() v2.Vec {
	return v2.Vec{X: v.X, Y: v.Y}
}

func (v Vertex) String() string {
	return fmt.Sprintf("(%g %g %g)", v.X, v.Y, v.Z)
}

// VertexID is the stable index of a vertex inside its VertexStore.
type VertexID int

// VertexStore deduplicates points and hands out stable ids. Vertices are never
// removed. Intern is a lookup followed by an insert and is not safe for
// concurrent use.
type VertexStore struct {
	vertices []Vertex
	index    map[Vertex]VertexID
}

// NewVertexStore returns an empty store.
func NewVertexStore() *VertexStore {
	return &VertexStore{index: make(map[Vertex]VertexID)}
}

// Intern returns the id of the vertex equal to (x, y, z), adding it if it is
// not present yet. Equality is exact.
func (s *VertexStore) Intern(x, y, z float64) VertexID {
	v := Vertex{X: x, Y: y, Z: z}
	if id, ok := s.index[v]; ok {
		return id
	}
	id := VertexID(len(s.vertices))
	s.vertices = append(s.vertices, v)
	s.index[v] = id
	return id
}

// Get returns the vertex with the given id.
func (s *VertexStore) Get(id VertexID) (Vertex, error) {
	if !s.valid(id) {
		return Vertex{}, errors.Wrapf(ErrOutOfRange, "vertex %d (store has %d)", id, len(s.vertices))
	}
	return s.vertices[id], nil
}

func (s *VertexStore) valid(id VertexID) bool {
	return id >= 0 && int(id) < len(s.vertices)
}

// Len returns the number of distinct vertices.
func (s *VertexStore) Len() int {
	return len(s.vertices)
}

// Translate moves every stored vertex by (dx, dy, dz).
func (s *VertexStore) Translate(dx, dy, dz float64) {
	clear(s.index)
	for i := range s.vertices {
		s.vertices[i].X += dx
		s.vertices[i].Y += dy
		s.vertices[i].Z += dz
		if _, ok := s.index[s.vertices[i]]; !ok {
			s.index[s.vertices[i]] = VertexID(i)
		}
	}
}
