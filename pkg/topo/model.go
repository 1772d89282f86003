package topo

import (
	"math"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// Model owns a vertex store and one edge graph over it.
type Model struct {
	vertices *VertexStore
	edges    *EdgeGraph
}

// NewModel returns an empty model.
func NewModel() *Model {
	vs := NewVertexStore()
	return &Model{vertices: vs, edges: NewEdgeGraph(vs)}
}

// Vertices returns the model's vertex store.
func (m *Model) Vertices() *VertexStore {
	return m.vertices
}

// Edges returns the model's edge graph.
func (m *Model) Edges() *EdgeGraph {
	return m.edges
}

// AddEdge adds the segment p-q to the model.
func (m *Model) AddEdge(p, q Vertex) (VertexID, VertexID) {
	return m.edges.AddPoints(p, q)
}

// NumVertices returns the number of distinct vertices.
func (m *Model) NumVertices() int {
	return m.vertices.Len()
}

// NumEdges returns the number of edges.
func (m *Model) NumEdges() int {
	return m.edges.Len()
}

// Layers returns the distinct Z values of all vertices in ascending order.
func (m *Model) Layers() []float64 {
	index := treemap.NewWith(utils.Float64Comparator)
	for _, v := range m.vertices.vertices {
		index.Put(v.Z, struct{}{})
	}
	layers := make([]float64, 0, index.Size())
	for _, k := range index.Keys() {
		layers = append(layers, k.(float64))
	}
	return layers
}

// EdgesInLayer returns the edges whose endpoints both lie at height z, in
// model order, as a graph over the model's store.
func (m *Model) EdgesInLayer(z float64) *EdgeGraph {
	out := m.edges.Clone()
	for p := 0; p < len(m.edges.slots); p += 2 {
		a, b := m.edges.slots[p], m.edges.slots[p+1]
		if m.vertices.vertices[a].Z == z && m.vertices.vertices[b].Z == z {
			out.slots = append(out.slots, a, b)
		}
	}
	return out
}

// Bounds returns the XY extent of every vertex referenced by an edge.
// ok is false for a model without edges.
func (m *Model) Bounds() (minX, minY, maxX, maxY float64, ok bool) {
	if len(m.edges.slots) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, id := range m.edges.slots {
		v := m.vertices.vertices[id]
		minX = math.Min(minX, v.X)
		maxX = math.Max(maxX, v.X)
		minY = math.Min(minY, v.Y)
		maxY = math.Max(maxY, v.Y)
	}
	return minX, minY, maxX, maxY, true
}

// Center translates the model so its XY bounds are centered on the origin.
func (m *Model) Center() {
	minX, minY, maxX, maxY, ok := m.Bounds()
	if !ok {
		return
	}
	dx := -minX - (maxX-minX)/2
	dy := -minY - (maxY-minY)/2
	m.vertices.Translate(dx, dy, 0)
	Logger().Debug("model centered", "dx", dx, "dy", dy)
}
