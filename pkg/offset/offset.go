// Package offset grows and shrinks closed planar loops: brims around the
// first layer and the perimeter shells inside every layer.
package offset

import (
	"math"

	"github.com/chazu/strata/pkg/planar"
	"github.com/chazu/strata/pkg/topo"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
)

// ErrCollapsed is returned when an inward offset is larger than the loop can
// absorb and the result turns inside out.
var ErrCollapsed = errors.New("offset loop collapsed")

// minEdge is the shortest offset edge, measured along its source edge, that
// still counts as running forward.
const minEdge = 1e-9

// line is an edge shifted sideways by the offset distance.
type line struct {
	a, b v2.Vec
}

// Offset returns a loop whose edges are parallel to loop's edges, moved
// outward by distance. A negative distance moves them inward. The result
// shares loop's vertex store and is wound clockwise.
//
// loop must be a single simple closed planar loop. Narrow angles and
// self-intersections of the result are not corrected.
func Offset(loop *topo.EdgeGraph, distance float64) (*topo.EdgeGraph, error) {
	if err := requireLoop(loop); err != nil {
		return nil, err
	}

	// Walk clockwise so that (-dy, dx) always points out of the loop.
	first := planar.LeftmostEdge(loop)
	o, err := planar.Winding(loop)
	if err != nil {
		return nil, errors.Wrap(err, "offset")
	}
	if o == planar.CounterClockwise {
		first = loop.Other(first)
	}

	ring := make([]int, 0, loop.Len())
	for p := loop.Next(first); ; p = loop.Next(p) {
		ring = append(ring, p)
		if p == first {
			break
		}
	}

	lines := make([]line, len(ring))
	for i, p := range ring {
		l, err := displace(loop, p, distance)
		if err != nil {
			return nil, err
		}
		lines[i] = l
	}

	// corners[i] joins lines[i-1] to lines[i].
	n := len(ring)
	corners := make([]v2.Vec, n)
	for i := range ring {
		prev := lines[(i-1+n)%n]
		h, ok := planar.Intersect(lines[i].a, lines[i].b, prev.a, prev.b, true)
		if !ok {
			// Collinear neighbours: the shifted shared vertex is the corner.
			topo.Logger().Debug("offset: parallel corner", "position", ring[i])
			corners[i] = lines[i].a
			continue
		}
		corners[i] = h.Point()
	}

	// An inset past the loop's inradius mirrors edges through the middle
	// while keeping the winding, so each edge must still run the way its
	// source does.
	for i, p := range ring {
		d, _ := loop.Direction(p)
		if corners[(i+1)%n].Sub(corners[i]).Dot(d) <= minEdge {
			return nil, errors.Wrapf(ErrCollapsed, "distance %g reverses edge at position %d", distance, p)
		}
	}

	out := loop.Clone()
	for i, p := range ring {
		s, e := loop.Segment(p)
		c0, c1 := corners[i], corners[(i+1)%n]
		out.AddCoords(c0.X, c0.Y, s.Z, c1.X, c1.Y, e.Z)
	}

	if planar.SignedArea(out) >= 0 {
		return nil, errors.Wrapf(ErrCollapsed, "distance %g", distance)
	}
	return out, nil
}

// displace shifts the edge traversed from p by distance along its left-hand
// normal.
func displace(loop *topo.EdgeGraph, p int, distance float64) (line, error) {
	d, err := loop.Direction(p)
	if err != nil {
		return line{}, errors.Wrap(err, "offset")
	}
	shift := v2.Vec{X: -d.Y * distance, Y: d.X * distance}
	s, e := loop.Segment(p)
	return line{a: s.XY().Add(shift), b: e.XY().Add(shift)}, nil
}

// requireLoop rejects graphs the offset and fill walks cannot traverse.
func requireLoop(loop *topo.EdgeGraph) error {
	r := topo.ValidateLoop(loop)
	if !r.OK() {
		return errors.Wrapf(topo.ErrDegenerate, "offset: not a closed loop: %v", r.Errors[0])
	}
	return nil
}

// Brim returns count loops around loop at distances spacing, 2*spacing, ...,
// appended into one graph over loop's vertex store.
func Brim(loop *topo.EdgeGraph, spacing float64, count int) (*topo.EdgeGraph, error) {
	brim := loop.Clone()
	for i := 1; i <= count; i++ {
		ring, err := Offset(loop, float64(i)*spacing)
		if err != nil {
			return nil, errors.Wrapf(err, "brim line %d", i)
		}
		if err := brim.Append(ring); err != nil {
			return nil, err
		}
	}
	return brim, nil
}

// Shells returns the perimeters printed inside loop by a nozzle of the given
// width: the outer shell half a width in, then count inner shells a further
// width apart. Shells stop early, without error, once an inset collapses.
func Shells(loop *topo.EdgeGraph, width float64, count int) ([]*topo.EdgeGraph, error) {
	if width <= 0 || math.IsNaN(width) {
		return nil, errors.Wrapf(topo.ErrDegenerate, "shell width %g", width)
	}
	var shells []*topo.EdgeGraph
	for i := 0; i <= count; i++ {
		s, err := Offset(loop, -(width/2 + float64(i)*width))
		if errors.Is(err, ErrCollapsed) {
			topo.Logger().Debug("offset: shell collapsed", "shell", i)
			break
		}
		if err != nil {
			return nil, err
		}
		shells = append(shells, s)
	}
	return shells, nil
}
