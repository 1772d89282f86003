// Package tessellate turns prepared layers into triangle meshes using a
// geometry kernel. One mesh is produced per layer that has islands; stacked,
// the meshes preview the printed part.
package tessellate

import (
	"fmt"

	"github.com/chazu/strata/pkg/kernel"
	"github.com/chazu/strata/pkg/planar"
	"github.com/chazu/strata/pkg/slice"
	"github.com/chazu/strata/pkg/topo"
)

// Options controls how islands are turned into solids.
type Options struct {
	// Walls subtracts each island's fill region, leaving only the band
	// covered by its shells. Islands without shells stay solid.
	Walls bool
}

// Tessellate produces one mesh per layer with at least one island. A layer
// occupies [Z-Height, Z]. The tessellator is read-only and never mutates the
// layers.
func Tessellate(layers []slice.Layer, k kernel.Kernel, opts Options) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for _, l := range layers {
		mesh, err := handleLayer(k, l, opts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: layer %d: %w", l.Index, err)
		}
		if mesh != nil {
			meshes = append(meshes, mesh)
		}
	}
	return meshes, nil
}

// handleLayer unions the layer's islands into one slab and meshes it. It
// returns nil for a layer without islands.
func handleLayer(k kernel.Kernel, l slice.Layer, opts Options) (*kernel.Mesh, error) {
	var solid kernel.Solid
	for i, isl := range l.Islands {
		s, err := handleIsland(k, isl, l.Height, opts)
		if err != nil {
			return nil, fmt.Errorf("island %d: %w", i, err)
		}
		if solid == nil {
			solid = s
		} else {
			solid = k.Union(solid, s)
		}
	}
	if solid == nil {
		topo.Logger().Debug("tessellate: empty layer", "index", l.Index, "z", l.Z)
		return nil, nil
	}

	solid = k.Translate(solid, 0, 0, l.Z-l.Height)
	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("ToMesh failed: %w", err)
	}
	mesh.Label = fmt.Sprintf("layer %d z=%g", l.Index, l.Z)
	return mesh, nil
}

// handleIsland extrudes one island to the layer height.
func handleIsland(k kernel.Kernel, isl slice.Island, height float64, opts Options) (kernel.Solid, error) {
	solid, err := k.Slab(planar.Outline(isl.Perimeter), height)
	if err != nil {
		return nil, err
	}
	fill := isl.FillRegion()
	if !opts.Walls || fill == nil {
		return solid, nil
	}

	// The cutter overshoots both faces so no skin is left behind.
	pad := height / 2
	cutter, err := k.Slab(planar.Outline(fill), height+2*pad)
	if err != nil {
		return nil, err
	}
	return k.Difference(solid, k.Translate(cutter, 0, 0, -pad)), nil
}
