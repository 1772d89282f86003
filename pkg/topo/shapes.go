package topo

import v2 "github.com/deadsy/sdfx/vec/v2"

// Polygon appends a closed loop through pts at height z to g, in the given
// order, and returns g.
func Polygon(g *EdgeGraph, z float64, pts ...v2.Vec) *EdgeGraph {
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		g.AddCoords(p.X, p.Y, z, q.X, q.Y, z)
	}
	return g
}

// Rect appends a counter-clockwise w x h rectangle centered on the origin.
func Rect(g *EdgeGraph, w, h, z float64) *EdgeGraph {
	x, y := w/2, h/2
	return Polygon(g, z,
		v2.Vec{X: -x, Y: -y},
		v2.Vec{X: x, Y: -y},
		v2.Vec{X: x, Y: y},
		v2.Vec{X: -x, Y: y},
	)
}

// Cube appends the twelve edges of a cube with half-size s centered on the
// origin to g: four around the bottom face, four around the top, then the
// four verticals.
func Cube(g *EdgeGraph, s float64) *EdgeGraph {
	c := [8]Vertex{
		{-s, -s, -s}, {s, -s, -s}, {s, s, -s}, {-s, s, -s},
		{-s, -s, s}, {s, -s, s}, {s, s, s}, {-s, s, s},
	}
	for _, e := range [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	} {
		g.AddPoints(c[e[0]], c[e[1]])
	}
	return g
}

// CubeModel returns a model holding Cube(s).
func CubeModel(s float64) *Model {
	m := NewModel()
	Cube(m.edges, s)
	return m
}

// PolyOutline returns the corners of a concave eight-sided test polygon
// scaled by s, counter-clockwise.
func PolyOutline(s float64) []v2.Vec {
	return []v2.Vec{
		{X: -0.20 * s, Y: -0.70 * s},
		{X: -0.40 * s, Y: -0.90 * s},
		{X: 0.50 * s, Y: -0.60 * s},
		{X: 0.80 * s, Y: -0.80 * s},
		{X: 0.20 * s, Y: 0.30 * s},
		{X: 0.60 * s, Y: 0.90 * s},
		{X: -0.40 * s, Y: 0.20 * s},
		{X: -0.70 * s, Y: 0.80 * s},
	}
}

// PolyModel returns a model holding PolyOutline(s) at z=0.
func PolyModel(s float64) *Model {
	m := NewModel()
	Polygon(m.edges, 0, PolyOutline(s)...)
	return m
}
