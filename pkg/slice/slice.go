// Package slice turns the planar edge soup of a model's layers into print
// paths: perimeter shells, infill and a brim around the first layer.
//
// Each layer's edges are rebuilt into closed loops, and every loop is
// treated as an island of its own. Holes are not recognised; a loop inside
// another loop is shelled and filled as a separate solid island.
package slice

import (
	"github.com/chazu/strata/pkg/infill"
	"github.com/chazu/strata/pkg/loops"
	"github.com/chazu/strata/pkg/offset"
	"github.com/chazu/strata/pkg/topo"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Island is one closed loop of a layer and the paths printed for it.
type Island struct {
	Perimeter *topo.EdgeGraph   // the loop as rebuilt from the layer's edges
	Shells    []*topo.EdgeGraph // outer shell first; empty when the loop is too thin
	Infill    *topo.EdgeGraph   // nil when there is no fill region or no fill
}

// OuterShell returns the first shell, or nil.
func (i Island) OuterShell() *topo.EdgeGraph {
	if len(i.Shells) == 0 {
		return nil
	}
	return i.Shells[0]
}

// FillRegion returns the innermost shell, the boundary infill is clipped to.
func (i Island) FillRegion() *topo.EdgeGraph {
	if len(i.Shells) == 0 {
		return nil
	}
	return i.Shells[len(i.Shells)-1]
}

// Layer holds the print paths of one Z plane.
type Layer struct {
	Index   int
	Z       float64
	Height  float64 // distance to the layer below; LayerHeight for the first
	Islands []Island
	Brim    *topo.EdgeGraph // first layer only, nil when BrimLines is 0
	Loops   loops.Report
}

// Toolpath returns every path of the layer in print order: brim, then each
// island's shells from the outside in followed by its infill. A layer with no
// paths has no vertex store to build on, so it returns a nil graph and a nil
// error; callers must check for nil before reading the graph.
func (l Layer) Toolpath() (*topo.EdgeGraph, error) {
	var parts []*topo.EdgeGraph
	if l.Brim != nil {
		parts = append(parts, l.Brim)
	}
	for _, isl := range l.Islands {
		parts = append(parts, isl.Shells...)
		if isl.Infill != nil {
			parts = append(parts, isl.Infill)
		}
	}
	if len(parts) == 0 {
		return nil, nil
	}
	out := parts[0].Clone()
	for _, p := range parts {
		if err := out.Append(p); err != nil {
			return nil, errors.Wrapf(err, "toolpath of layer %d", l.Index)
		}
	}
	return out, nil
}

// NumEdges counts the edges of every path in the layer.
func (l Layer) NumEdges() int {
	n := 0
	if l.Brim != nil {
		n += l.Brim.Len()
	}
	return n + lo.SumBy(l.Islands, func(isl Island) int {
		n := lo.SumBy(isl.Shells, func(g *topo.EdgeGraph) int { return g.Len() })
		if isl.Infill != nil {
			n += isl.Infill.Len()
		}
		return n
	})
}

// LayeredLoops rebuilds the closed loops of every layer of m, in ascending Z.
// The reports tell which layers had open chains or branching vertices.
func LayeredLoops(m *topo.Model) ([]float64, [][]*topo.EdgeGraph, []loops.Report) {
	zs := m.Layers()
	all := make([][]*topo.EdgeGraph, len(zs))
	reports := make([]loops.Report, len(zs))
	for i, z := range zs {
		all[i], reports[i] = loops.Build(m.EdgesInLayer(z))
	}
	return zs, all, reports
}

// Prepare generates the print paths of every layer of m. Layers whose edges
// do not close into loops are skipped with a warning, the way a slicer drops
// a bad cross-section rather than printing garbage.
func Prepare(m *topo.Model, s Settings) ([]Layer, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	strategy, err := infill.StrategyByName(s.FillStrategy)
	if err != nil {
		return nil, err
	}
	spacing, err := s.FillSpacing()
	if err != nil {
		return nil, errors.Wrap(err, "slice: fill spacing")
	}

	zs, all, reports := LayeredLoops(m)
	var layers []Layer
	for i, z := range zs {
		if !reports[i].Closed() {
			topo.Logger().Warn("slice: skipping layer with open loops", "z", z, "open", len(reports[i].Open))
			continue
		}
		all[i] = lo.Filter(all[i], func(g *topo.EdgeGraph, _ int) bool { return g.Len() >= 3 })
		if len(all[i]) == 0 {
			continue
		}

		l := Layer{
			Index:  len(layers),
			Z:      z,
			Height: s.LayerHeight,
			Loops:  reports[i],
		}
		if l.Index > 0 {
			l.Height = z - layers[l.Index-1].Z
		}

		for _, loop := range all[i] {
			isl, err := prepareIsland(loop, s, spacing, strategy)
			if err != nil {
				return nil, errors.Wrapf(err, "slice: layer z=%g", z)
			}
			l.Islands = append(l.Islands, isl)
		}

		if l.Index == 0 && s.BrimLines > 0 {
			if l.Brim, err = brim(all[i], s); err != nil {
				return nil, errors.Wrapf(err, "slice: brim at z=%g", z)
			}
		}
		layers = append(layers, l)
	}
	return layers, nil
}

func prepareIsland(loop *topo.EdgeGraph, s Settings, spacing float64, strategy infill.Strategy) (Island, error) {
	isl := Island{Perimeter: loop}
	shells, err := offset.Shells(loop, s.NozzleSize, s.InnerShells())
	if err != nil {
		return isl, err
	}
	isl.Shells = shells
	if len(shells) == 0 {
		topo.Logger().Warn("slice: loop too thin for a shell", "edges", loop.Len())
		return isl, nil
	}
	if spacing == 0 {
		return isl, nil
	}
	fill, err := infill.Fill(isl.FillRegion(), spacing, s.FillAngle, strategy)
	if err != nil {
		return isl, err
	}
	isl.Infill = fill
	return isl, nil
}

func brim(perimeters []*topo.EdgeGraph, s Settings) (*topo.EdgeGraph, error) {
	out := perimeters[0].Clone()
	for _, p := range perimeters {
		b, err := offset.Brim(p, s.brimSpacing(), s.BrimLines)
		if err != nil {
			return nil, err
		}
		if err := out.Append(b); err != nil {
			return nil, err
		}
	}
	return out, nil
}
