// Package infill covers the inside of a closed planar loop with parallel scan
// line segments.
//
// Fill intersects evenly spaced lines at a fixed angle with every edge of the
// loop and pairs the crossings with the even-odd rule. The resulting segments
// are handed to a Strategy, which decides the order and direction in which
// they are emitted. Ordering matters to the print-path consumer because it
// determines travel between segments.
package infill

import (
	"math"
	"sort"

	"github.com/chazu/strata/pkg/planar"
	"github.com/chazu/strata/pkg/topo"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
)

// Segment is one fill stroke. Row is the scan line index and Pair the index
// of the crossing pair within that row, counted from the left.
type Segment struct {
	Row, Pair int
	A, B      v2.Vec
}

// Reversed returns the segment with its endpoints swapped.
func (s Segment) Reversed() Segment {
	s.A, s.B = s.B, s.A
	return s
}

// Fill generates scan-line infill for loop. Lines are spacing apart and run
// at angle degrees from the X axis. The segments are ordered by strategy
// (Raster when nil) and returned as a graph over loop's vertex store, at the
// Z of loop's first vertex.
//
// Vertical fill angles are not supported and return topo.ErrDegenerate.
func Fill(loop *topo.EdgeGraph, spacing, angle float64, strategy Strategy) (*topo.EdgeGraph, error) {
	if strategy == nil {
		strategy = Raster{}
	}
	segs, err := Scan(loop, spacing, angle)
	if err != nil {
		return nil, err
	}

	start, _ := loop.Segment(0)
	out := loop.Clone()
	for _, s := range strategy.Order(segs) {
		out.AddCoords(s.A.X, s.A.Y, start.Z, s.B.X, s.B.Y, start.Z)
	}
	return out, nil
}

// Scan returns the fill segments of loop in generation order: row by row,
// left to right within a row.
func Scan(loop *topo.EdgeGraph, spacing, angle float64) ([]Segment, error) {
	if spacing <= 0 || math.IsNaN(spacing) {
		return nil, errors.Wrapf(topo.ErrDegenerate, "fill spacing %g", spacing)
	}
	if r := topo.ValidateLoop(loop); !r.OK() {
		return nil, errors.Wrapf(topo.ErrDegenerate, "fill: not a closed loop: %v", r.Errors[0])
	}

	rad := angle * math.Pi / 180
	slopeX, slopeY := math.Cos(rad), math.Sin(rad)
	if math.Abs(slopeX) < 1e-9 {
		return nil, errors.Wrapf(topo.ErrDegenerate, "vertical fill angle %g", angle)
	}

	bb, err := planar.BoundingBox(loop)
	if err != nil {
		return nil, err
	}
	rise := bb.Width / slopeX * slopeY
	startY := 0.0
	if slopeY > 0 {
		startY = -rise
	}
	rows := (bb.Height + math.Abs(rise)) / spacing

	var segs []Segment
	var hits []planar.Hit
	var ends []vertexHit
	for row := 0; float64(row) <= rows; row++ {
		y := bb.Min.Y + startY + float64(row)*spacing
		a := v2.Vec{X: bb.Min.X, Y: y}
		b := v2.Vec{X: bb.Max.X, Y: y + rise}

		hits, ends = hits[:0], ends[:0]
		loop.Each(func(_ int, s, e topo.Vertex) {
			h, ok := planar.Intersect(a, b, s.XY(), e.XY(), false)
			switch {
			case !ok:
			case h.S <= vertexTol:
				ends = append(ends, vertexHit{h, side(a, b, e.XY())})
			case h.S >= 1-vertexTol:
				ends = append(ends, vertexHit{h, side(a, b, s.XY())})
			default:
				hits = append(hits, h)
			}
		})
		hits = mergeVertexHits(hits, ends)
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].T < hits[j].T })

		// An odd trailing crossing has no partner and is dropped.
		for i := 0; i+1 < len(hits); i += 2 {
			p, q := hits[i].Point(), hits[i+1].Point()
			if p == q {
				topo.Logger().Debug("infill: touching crossing", "row", row, "x", p.X, "y", p.Y)
				continue
			}
			segs = append(segs, Segment{Row: row, Pair: i / 2, A: p, B: q})
		}
	}
	return segs, nil
}

// vertexTol is how close to an end of an edge, as a fraction of its
// length, a crossing must land to count as passing through the vertex.
const vertexTol = 1e-9

// vertexHit is a crossing at an edge endpoint, with the side of the scan line
// the edge's far end lies on.
type vertexHit struct {
	planar.Hit
	side float64
}

// side is positive when p lies left of the line through a and b.
func side(a, b, p v2.Vec) float64 {
	d := b.Sub(a)
	return d.X*(p.Y-a.Y) - d.Y*(p.X-a.X)
}

// mergeVertexHits appends the vertex crossings in ends to hits. The two edges
// meeting at a vertex both report it. When they leave on opposite sides of
// the scan line the boundary crosses once there, so only one hit is kept.
// When they leave on the same side the line only touches the boundary and
// both hits stay, giving an empty pair.
func mergeVertexHits(hits []planar.Hit, ends []vertexHit) []planar.Hit {
	used := make([]bool, len(ends))
	for i, v := range ends {
		if used[i] {
			continue
		}
		used[i] = true
		hits = append(hits, v.Hit)
		for j := i + 1; j < len(ends); j++ {
			w := ends[j]
			if used[j] || math.Abs(v.X-w.X) > vertexTol || math.Abs(v.Y-w.Y) > vertexTol {
				continue
			}
			used[j] = true
			if v.side*w.side >= 0 {
				hits = append(hits, w.Hit)
			}
			break
		}
	}
	return hits
}

// DensityToSpacing converts a fill density in (0, 1] into the scan line
// spacing that produces it for the given nozzle width. A density of 1 gives
// lines one nozzle width apart.
func DensityToSpacing(nozzle, density float64) (float64, error) {
	if nozzle <= 0 || math.IsNaN(nozzle) {
		return 0, errors.Wrapf(topo.ErrDegenerate, "nozzle size %g", nozzle)
	}
	if !(density > 0 && density <= 1) {
		return 0, errors.Wrapf(topo.ErrDegenerate, "fill density %g outside (0, 1]", density)
	}
	n2 := nozzle * nozzle
	return nozzle/density + math.Sqrt((n2-density*n2)/(density*density)), nil
}
