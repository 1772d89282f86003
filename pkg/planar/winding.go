package planar

import (
	"math"

	"github.com/chazu/strata/pkg/topo"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
)

// Orientation is the rotational sense of a loop walked forward from
// position 0, with Y pointing up.
type Orientation int

const (
	CounterClockwise Orientation = iota
	Clockwise
)

func (o Orientation) String() string {
	if o == Clockwise {
		return "clockwise"
	}
	return "counter-clockwise"
}

// SignedArea returns the shoelace area of a loop walked forward from
// position 0. It is positive for counter-clockwise loops.
func SignedArea(g *topo.EdgeGraph) float64 {
	var area float64
	g.Each(func(_ int, s, e topo.Vertex) {
		area += s.X*e.Y - e.X*s.Y
	})
	return area / 2
}

// Winding reports the orientation of a closed loop. It looks at the turn made
// at the extreme vertex (smallest X, then smallest Y), which is always convex,
// and falls back to the sign of the area when that turn is degenerate.
func Winding(g *topo.EdgeGraph) (Orientation, error) {
	n := g.Slots()
	if n < 6 {
		return 0, errors.Wrapf(topo.ErrDegenerate, "winding of a graph with %d edges", g.Len())
	}
	best := 0
	var bx, by float64
	g.Each(func(p int, s, _ topo.Vertex) {
		if p == 0 || s.X < bx || (s.X == bx && s.Y < by) {
			best, bx, by = p, s.X, s.Y
		}
	})

	prev, _ := g.Segment((best - 2 + n) % n)
	cur, next := g.Segment(best)
	in := cur.XY().Sub(prev.XY())
	out := next.XY().Sub(cur.XY())
	cross := in.X*out.Y - in.Y*out.X

	if math.Abs(cross) < Epsilon {
		a := SignedArea(g)
		if math.Abs(a) < Epsilon {
			return 0, errors.Wrap(topo.ErrDegenerate, "loop encloses no area")
		}
		cross = a
	}
	if cross > 0 {
		return CounterClockwise, nil
	}
	return Clockwise, nil
}

// Outline returns the loop's start vertices in forward order, projected onto
// the XY plane.
func Outline(g *topo.EdgeGraph) []v2.Vec {
	pts := make([]v2.Vec, 0, g.Len())
	g.Each(func(_ int, s, _ topo.Vertex) {
		pts = append(pts, s.XY())
	})
	return pts
}

// Region is a closed loop compiled into a signed distance field.
type Region struct {
	sdf sdf.SDF2
}

// NewRegion compiles a closed loop for containment queries.
func NewRegion(g *topo.EdgeGraph) (*Region, error) {
	if g.Len() < 3 {
		return nil, errors.Wrapf(topo.ErrDegenerate, "region from %d edges", g.Len())
	}
	s, err := sdf.Polygon2D(Outline(g))
	if err != nil {
		return nil, errors.Wrap(err, "planar: region")
	}
	return &Region{sdf: s}, nil
}

// Distance returns the signed distance from p to the loop boundary,
// negative inside.
func (r *Region) Distance(p v2.Vec) float64 {
	return r.sdf.Evaluate(p)
}

// Contains reports whether p lies inside the loop or within tol of its
// boundary.
func (r *Region) Contains(p v2.Vec, tol float64) bool {
	return r.sdf.Evaluate(p) <= tol
}
