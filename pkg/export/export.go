// Package export writes prepared layers to drawing and interchange formats:
// DXF and PNG through the sdfx renderers, SVG and GeoJSON.
package export

import (
	"math"

	"github.com/chazu/strata/pkg/planar"
	"github.com/chazu/strata/pkg/slice"
	"github.com/chazu/strata/pkg/topo"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Kind names the role of a path within a layer.
type Kind string

const (
	KindBrim      Kind = "brim"
	KindPerimeter Kind = "perimeter"
	KindShell     Kind = "shell"
	KindInfill    Kind = "infill"
)

// Path is one edge graph of a layer tagged with its role.
type Path struct {
	Kind   Kind
	Layer  int
	Z      float64
	Island int // -1 for the brim
	Graph  *topo.EdgeGraph
}

// LayerPaths flattens a layer into paths in print order. Perimeters are
// included ahead of each island's shells; they are outlines, not extruded.
func LayerPaths(l slice.Layer) []Path {
	var paths []Path
	add := func(k Kind, island int, g *topo.EdgeGraph) {
		if g != nil && g.Len() > 0 {
			paths = append(paths, Path{Kind: k, Layer: l.Index, Z: l.Z, Island: island, Graph: g})
		}
	}
	add(KindBrim, -1, l.Brim)
	for i, isl := range l.Islands {
		add(KindPerimeter, i, isl.Perimeter)
		for _, s := range isl.Shells {
			add(KindShell, i, s)
		}
		add(KindInfill, i, isl.Infill)
	}
	return paths
}

// Printed drops the perimeter outlines, keeping only what the nozzle
// traces.
func Printed(paths []Path) []Path {
	return lo.Filter(paths, func(p Path, _ int) bool { return p.Kind != KindPerimeter })
}

// Bounds returns the XY extent of every path grown by margin on each side.
func Bounds(paths []Path, margin float64) (sdf.Box2, error) {
	bb := sdf.Box2{
		Min: v2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: v2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	n := 0
	for _, p := range paths {
		if p.Graph == nil || p.Graph.Len() == 0 {
			continue
		}
		b, err := planar.BoundingBox(p.Graph)
		if err != nil {
			return sdf.Box2{}, err
		}
		bb.Min.X = math.Min(bb.Min.X, b.Min.X)
		bb.Min.Y = math.Min(bb.Min.Y, b.Min.Y)
		bb.Max.X = math.Max(bb.Max.X, b.Max.X)
		bb.Max.Y = math.Max(bb.Max.Y, b.Max.Y)
		n++
	}
	if n == 0 {
		return sdf.Box2{}, errors.Wrap(topo.ErrDegenerate, "export: nothing to draw")
	}
	bb.Min.X -= margin
	bb.Min.Y -= margin
	bb.Max.X += margin
	bb.Max.Y += margin
	return bb, nil
}

// eachSegment calls fn with the XY endpoints of every edge of every path.
func eachSegment(paths []Path, fn func(p Path, a, b v2.Vec)) {
	for _, p := range paths {
		if p.Graph == nil {
			continue
		}
		p.Graph.Each(func(_ int, s, e topo.Vertex) {
			fn(p, s.XY(), e.XY())
		})
	}
}
