package offset

import (
	"math"
	"testing"

	"github.com/chazu/strata/pkg/planar"
	"github.com/chazu/strata/pkg/topo"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(side float64) *topo.EdgeGraph {
	return topo.Rect(topo.NewEdgeGraph(topo.NewVertexStore()), side, side, 0)
}

func reversed(g *topo.EdgeGraph) *topo.EdgeGraph {
	slots := g.Pairs()
	out := make([]topo.VertexID, 0, len(slots))
	for i := len(slots) - 1; i >= 0; i-- {
		out = append(out, slots[i])
	}
	r, err := g.CloneWith(out)
	if err != nil {
		panic(err)
	}
	return r
}

// corners returns the distinct XY start points of g's edges.
func corners(g *topo.EdgeGraph) []v2.Vec {
	var pts []v2.Vec
	g.Each(func(_ int, s, _ topo.Vertex) {
		pts = append(pts, s.XY())
	})
	return pts
}

func assertSquare(t *testing.T, g *topo.EdgeGraph, half float64) {
	t.Helper()
	require.Equal(t, 4, g.Len())
	assert.True(t, topo.ValidateLoop(g).OK(), "offset square is not a closed chain")
	want := []v2.Vec{{X: -half, Y: -half}, {X: half, Y: -half}, {X: half, Y: half}, {X: -half, Y: half}}
	got := corners(g)
	for _, w := range want {
		found := false
		for _, p := range got {
			if math.Abs(p.X-w.X) < 1e-12 && math.Abs(p.Y-w.Y) < 1e-12 {
				found = true
			}
		}
		assert.True(t, found, "corner %v missing from %v", w, got)
	}
}

func TestOffsetSquare(t *testing.T) {
	rotated := topo.Polygon(topo.NewEdgeGraph(topo.NewVertexStore()), 0,
		v2.Vec{X: 1, Y: 1}, v2.Vec{X: -1, Y: 1}, v2.Vec{X: -1, Y: -1}, v2.Vec{X: 1, Y: -1},
	)
	inputs := []struct {
		name string
		loop *topo.EdgeGraph
	}{
		{"ccw", square(2)},
		{"cw", reversed(square(2))},
		{"rotated start", rotated},
	}
	for _, in := range inputs {
		for _, d := range []float64{0.5, 1, -0.25} {
			out, err := Offset(in.loop, d)
			require.NoError(t, err, "%s d=%g", in.name, d)
			assertSquare(t, out, 1+d)
			assert.Same(t, in.loop.Store(), out.Store())

			o, err := planar.Winding(out)
			require.NoError(t, err)
			assert.Equal(t, planar.Clockwise, o, "%s d=%g", in.name, d)
		}
	}
}

func TestOffsetKeepsZ(t *testing.T) {
	g := topo.Rect(topo.NewEdgeGraph(topo.NewVertexStore()), 2, 2, 3.5)
	out, err := Offset(g, 1)
	require.NoError(t, err)
	out.Each(func(p int, s, e topo.Vertex) {
		assert.Equal(t, 3.5, s.Z, "position %d", p)
		assert.Equal(t, 3.5, e.Z, "position %d", p)
	})
}

func TestOffsetCollinearEdges(t *testing.T) {
	// The bottom side is split in two at (0, -1).
	g := topo.Polygon(topo.NewEdgeGraph(topo.NewVertexStore()), 0,
		v2.Vec{X: -1, Y: -1}, v2.Vec{X: 0, Y: -1}, v2.Vec{X: 1, Y: -1},
		v2.Vec{X: 1, Y: 1}, v2.Vec{X: -1, Y: 1},
	)
	out, err := Offset(g, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 5, out.Len())
	assert.True(t, topo.ValidateLoop(out).OK())
	assert.Contains(t, corners(out), v2.Vec{X: 0, Y: -1.5})

	bb, err := planar.BoundingBox(out)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, bb.Width, 1e-12)
	assert.InDelta(t, 3.0, bb.Height, 1e-12)
}

func TestOffsetDegenerate(t *testing.T) {
	open := topo.NewEdgeGraph(topo.NewVertexStore())
	open.AddCoords(0, 0, 0, 1, 0, 0)
	open.AddCoords(1, 0, 0, 1, 1, 0)

	spike := topo.Polygon(topo.NewEdgeGraph(topo.NewVertexStore()), 0,
		v2.Vec{X: 0, Y: 0}, v2.Vec{X: 1, Y: 0}, v2.Vec{X: 1, Y: 0}, v2.Vec{X: 0, Y: 1},
	)

	tests := []struct {
		name string
		loop *topo.EdgeGraph
	}{
		{"empty", topo.NewEdgeGraph(topo.NewVertexStore())},
		{"open chain", open},
		{"zero length edge", spike},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Offset(tt.loop, 1)
			assert.ErrorIs(t, err, topo.ErrDegenerate)
		})
	}
}

func TestOffsetCollapse(t *testing.T) {
	// The inset of a square past its inradius is the square mirrored
	// through its center, still wound clockwise.
	for _, d := range []float64{-1, -1.5, -3} {
		_, err := Offset(square(2), d)
		assert.ErrorIs(t, err, ErrCollapsed, "distance %g", d)
	}
	_, err := Offset(reversed(square(2)), -1.5)
	assert.ErrorIs(t, err, ErrCollapsed)

	g, err := Offset(square(2), -0.9)
	require.NoError(t, err)
	assertSquare(t, g, 0.1)
}

// triangle is the 3-4-5 right triangle, inradius 1.
func triangle() *topo.EdgeGraph {
	return topo.Polygon(topo.NewEdgeGraph(topo.NewVertexStore()), 0,
		v2.Vec{X: 0, Y: 0}, v2.Vec{X: 4, Y: 0}, v2.Vec{X: 0, Y: 3})
}

func TestOffsetTriangleCollapse(t *testing.T) {
	g, err := Offset(triangle(), -0.5)
	require.NoError(t, err)
	bb, err := planar.BoundingBox(g)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, bb.Min.X, 1e-9)
	assert.InDelta(t, 0.5, bb.Min.Y, 1e-9)
	assert.Less(t, planar.SignedArea(g), 0.0)

	for _, d := range []float64{-1.5, -4} {
		_, err := Offset(triangle(), d)
		assert.ErrorIs(t, err, ErrCollapsed, "distance %g", d)
	}
}

func TestBrim(t *testing.T) {
	loop := square(2)
	single, err := Offset(loop, 0.5)
	require.NoError(t, err)

	brim, err := Brim(loop, 0.5, 3)
	require.NoError(t, err)
	assert.Equal(t, 3*single.Len(), brim.Len())
	assert.Same(t, loop.Store(), brim.Store())

	slots := brim.Pairs()
	per := 2 * single.Len()
	last := 0.0
	for i := 0; i < 3; i++ {
		ring, err := brim.CloneWith(slots[i*per : (i+1)*per])
		require.NoError(t, err)
		area := math.Abs(planar.SignedArea(ring))
		assert.Greater(t, area, last, "ring %d", i)
		last = area
	}
	assert.InDelta(t, 25.0, last, 1e-9)
}

func TestBrimZeroCount(t *testing.T) {
	brim, err := Brim(square(2), 0.5, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, brim.Len())
}

func TestShells(t *testing.T) {
	shells, err := Shells(square(4), 0.4, 2)
	require.NoError(t, err)
	require.Len(t, shells, 3)
	for i, want := range []float64{3.6, 2.8, 2.0} {
		bb, err := planar.BoundingBox(shells[i])
		require.NoError(t, err)
		assert.InDelta(t, want, bb.Width, 1e-9, "shell %d", i)
	}
}

func TestShellsStopWhenCollapsed(t *testing.T) {
	shells, err := Shells(square(1), 0.4, 5)
	require.NoError(t, err)
	require.Len(t, shells, 1)
	bb, err := planar.BoundingBox(shells[0])
	require.NoError(t, err)
	assert.InDelta(t, 0.6, bb.Width, 1e-9)

	shells, err = Shells(triangle(), 0.4, 5)
	require.NoError(t, err)
	// insets 0.2 and 0.6 fit inside the inradius, 1.0 does not
	assert.Len(t, shells, 2)

	_, err = Shells(square(1), 0, 1)
	assert.ErrorIs(t, err, topo.ErrDegenerate)
}
