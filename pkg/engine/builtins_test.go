package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/chazu/strata/pkg/topo"
)

// ---------------------------------------------------------------------------
// Builtin tests
// ---------------------------------------------------------------------------

// mustEval evaluates source and fails the test on any error.
func mustEval(t *testing.T, source string) *topo.Model {
	t.Helper()
	m, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if m == nil {
		t.Fatal("expected non-nil model")
	}
	return m
}

// evalErrors evaluates source that is expected to fail and returns the
// joined error messages.
func evalErrors(t *testing.T, source string) string {
	t.Helper()
	m, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if m != nil {
		t.Fatal("expected nil model on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
	msgs := make([]string, len(evalErrs))
	for i, e := range evalErrs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func TestEdgeBuiltin(t *testing.T) {
	m := mustEval(t, `
(edge 0 0 0 1 0 0)
(edge (point 1 0) (point 1 1))
`)
	if m.NumEdges() != 2 {
		t.Fatalf("NumEdges() = %d, want 2", m.NumEdges())
	}
	// The shared corner is interned once.
	if m.NumVertices() != 3 {
		t.Errorf("NumVertices() = %d, want 3", m.NumVertices())
	}
}

func TestEdgeBuiltinStoresLowerZFirst(t *testing.T) {
	m := mustEval(t, `(edge 0 0 5 0 0 1)`)
	s, err := m.Edges().StartVertex(0)
	if err != nil {
		t.Fatal(err)
	}
	if s.Z != 1 {
		t.Errorf("first stored endpoint z = %g, want 1", s.Z)
	}
}

func TestRectBuiltin(t *testing.T) {
	m := mustEval(t, `(rect :width 20 :height 10 :z 2 :at (point 5 5))`)
	if m.NumEdges() != 4 {
		t.Fatalf("NumEdges() = %d, want 4", m.NumEdges())
	}
	minX, minY, maxX, maxY, ok := m.Bounds()
	if !ok {
		t.Fatal("Bounds() not ok")
	}
	if minX != -5 || minY != 0 || maxX != 15 || maxY != 10 {
		t.Errorf("Bounds() = (%g, %g, %g, %g), want (-5, 0, 15, 10)", minX, minY, maxX, maxY)
	}
	if layers := m.Layers(); len(layers) != 1 || layers[0] != 2 {
		t.Errorf("Layers() = %v, want [2]", layers)
	}
	if r := topo.ValidateLoop(m.Edges()); !r.OK() {
		t.Errorf("rect is not a closed loop: %v", r.Errors)
	}
}

func TestRectDefaultsToSquare(t *testing.T) {
	m := mustEval(t, `(rect :width 4)`)
	minX, minY, maxX, maxY, _ := m.Bounds()
	if maxX-minX != 4 || maxY-minY != 4 {
		t.Errorf("rect without height is %gx%g, want 4x4", maxX-minX, maxY-minY)
	}
}

func TestPolygonBuiltin(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"points", `(polygon :z 1 (point 0 0) (point 4 0) (point 0 3))`},
		{"flat list", `(polygon :z 1 (list 0 0 4 0 0 3))`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustEval(t, tt.source)
			if m.NumEdges() != 3 {
				t.Fatalf("NumEdges() = %d, want 3", m.NumEdges())
			}
			if layers := m.Layers(); len(layers) != 1 || layers[0] != 1 {
				t.Errorf("Layers() = %v, want [1]", layers)
			}
		})
	}
}

func TestPolyBuiltin(t *testing.T) {
	m := mustEval(t, `(poly :scale 10)`)
	if m.NumEdges() != 8 {
		t.Errorf("NumEdges() = %d, want 8", m.NumEdges())
	}
	_, _, maxX, _, _ := m.Bounds()
	if maxX != 8 {
		t.Errorf("max X = %g, want 8", maxX)
	}
}

func TestCubeBuiltin(t *testing.T) {
	m := mustEval(t, `(cube :size 20)`)
	if m.NumEdges() != 12 {
		t.Fatalf("NumEdges() = %d, want 12", m.NumEdges())
	}
	layers := m.Layers()
	if len(layers) != 2 || layers[0] != -10 || layers[1] != 10 {
		t.Errorf("Layers() = %v, want [-10 10]", layers)
	}
}

func TestTranslateAndCenter(t *testing.T) {
	m := mustEval(t, `
(rect :width 2 :height 2)
(translate 10 20 0)
`)
	minX, minY, _, _, _ := m.Bounds()
	if minX != 9 || minY != 19 {
		t.Errorf("after translate min = (%g, %g), want (9, 19)", minX, minY)
	}

	m = mustEval(t, `
(rect :width 2 :height 2 :at (point 10 20))
(center)
`)
	minX, minY, maxX, maxY, _ := m.Bounds()
	if minX != -1 || minY != -1 || maxX != 1 || maxY != 1 {
		t.Errorf("after center bounds = (%g, %g, %g, %g), want (-1, -1, 1, 1)", minX, minY, maxX, maxY)
	}
}

func TestVariableReference(t *testing.T) {
	m := mustEval(t, `
(def side 12)
(def layer-z 0.5)
(rect :width side :z layer-z)
`)
	minX, _, maxX, _, _ := m.Bounds()
	if maxX-minX != 12 {
		t.Errorf("width = %g, want 12", maxX-minX)
	}
	if layers := m.Layers(); len(layers) != 1 || layers[0] != 0.5 {
		t.Errorf("Layers() = %v, want [0.5]", layers)
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{"rect without width", `(rect :height 2)`, "width must be positive"},
		{"negative cube", `(cube :size -1)`, "size must be positive"},
		{"point arity", `(point 1)`, "point requires 2 or 3 arguments"},
		{"edge arity", `(edge 1 2 3)`, "edge requires two points or six coordinates"},
		{"edge not a number", `(edge 0 0 0 1 0 "x")`, "expected number"},
		{"polygon too small", `(polygon (point 0 0) (point 1 1))`, "at least 3 corners"},
		{"polygon odd list", `(polygon (list 0 0 1))`, "odd length"},
		{"translate arity", `(translate 1 2)`, "exactly 3 arguments"},
		{"center arity", `(center 1)`, "no arguments"},
		{"rect at not a point", `(rect :width 1 :at 5)`, "expected point"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := evalErrors(t, tt.source)
			if !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("errors = %q, want containing %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestEvaluateResultWarnings(t *testing.T) {
	res, err := NewEngine().EvaluateResult(context.Background(), `
(cube :size 2)
(edge 5 5 3 6 5 3)
`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(res.Errors) > 0 {
		t.Fatalf("eval errors: %v", res.Errors)
	}

	var open, span bool
	for _, w := range res.Warnings {
		if w.Z == 3 && strings.Contains(w.Message, "open chain") {
			open = true
		}
		if strings.Contains(w.Message, "4 edge(s) span layers") {
			span = true
		}
	}
	if !open {
		t.Errorf("no open chain warning for z=3 in %v", res.Warnings)
	}
	if !span {
		t.Errorf("no warning for the cube's vertical edges in %v", res.Warnings)
	}
}

func TestEvaluateResultClean(t *testing.T) {
	res, err := NewEngine().EvaluateResult(context.Background(), `(rect :width 3)`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if res.Model == nil || res.Model.NumEdges() != 4 {
		t.Fatalf("unexpected model %v", res.Model)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}
