// Package kernel defines the solid modeling interface used to build preview
// meshes of prepared layers. Each layer becomes a slab extruded from its
// outline; the kernel abstraction lets the backend be swapped without
// touching the slicing code.
package kernel

import v2 "github.com/deadsy/sdfx/vec/v2"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Slab extrudes a closed XY outline into a prism of the given height,
	// bottom face at z=0.
	Slab(outline []v2.Vec, height float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
