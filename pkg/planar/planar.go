// Package planar holds the stateless 2D primitives shared by loop offsetting
// and infill: bounding boxes, winding detection and line intersection. All
// functions work on the XY projection of a topo.EdgeGraph.
package planar

import (
	"math"

	"github.com/chazu/strata/pkg/topo"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
)

// Epsilon is the smallest intersection denominator treated as non-parallel.
const Epsilon = 1e-12

// Box is an axis-aligned bounding box on the XY plane.
type Box struct {
	sdf.Box2
	Width, Height float64
}

// BoundingBox returns the XY extent of a loop, visiting every edge reached by
// Next from position 0.
func BoundingBox(g *topo.EdgeGraph) (Box, error) {
	if g.Len() == 0 {
		return Box{}, errors.Wrap(topo.ErrDegenerate, "bounding box of empty graph")
	}
	bb := sdf.Box2{
		Min: v2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: v2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	g.Each(func(_ int, s, e topo.Vertex) {
		bb.Min.X = math.Min(bb.Min.X, math.Min(s.X, e.X))
		bb.Min.Y = math.Min(bb.Min.Y, math.Min(s.Y, e.Y))
		bb.Max.X = math.Max(bb.Max.X, math.Max(s.X, e.X))
		bb.Max.Y = math.Max(bb.Max.Y, math.Max(s.Y, e.Y))
	})
	return Box{
		Box2:   bb,
		Width:  bb.Max.X - bb.Min.X,
		Height: bb.Max.Y - bb.Min.Y,
	}, nil
}

// LeftmostEdge returns the position of the first edge, in traversal order
// from position 0, touching the vertex with the smallest X.
func LeftmostEdge(g *topo.EdgeGraph) int {
	edge := 0
	minX := math.Inf(1)
	g.Each(func(p int, s, e topo.Vertex) {
		if x := math.Min(s.X, e.X); x < minX {
			minX = x
			edge = p
		}
	})
	return edge
}

// Hit is the intersection of segment AB with segment CD. S is the fraction
// along CD and T the fraction along AB.
type Hit struct {
	S, T float64
	X, Y float64
}

// Point returns the intersection point.
func (h Hit) Point() v2.Vec {
	return v2.Vec{X: h.X, Y: h.Y}
}

// Intersect intersects segment AB with segment CD. With unbounded set the
// intersection of the two infinite lines is returned even when it lies
// beyond either segment. Parallel or nearly parallel lines never intersect.
func Intersect(a, b, c, d v2.Vec, unbounded bool) (Hit, bool) {
	s1 := b.Sub(a)
	s2 := d.Sub(c)

	den := -s2.X*s1.Y + s1.X*s2.Y
	if math.Abs(den) < Epsilon {
		return Hit{}, false
	}
	s := (-s1.Y*(a.X-c.X) + s1.X*(a.Y-c.Y)) / den
	t := (s2.X*(a.Y-c.Y) - s2.Y*(a.X-c.X)) / den

	if !unbounded && (s < 0 || s > 1 || t < 0 || t > 1) {
		return Hit{}, false
	}
	return Hit{
		S: s,
		T: t,
		X: a.X + t*s1.X,
		Y: a.Y + t*s1.Y,
	}, true
}
