package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/chazu/strata/pkg/topo"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
)

// square returns the corners of a side×side square at the origin, counter-clockwise.
func square(side float64) []v2.Vec {
	return []v2.Vec{{X: 0, Y: 0}, {X: side, Y: 0}, {X: side, Y: side}, {X: 0, Y: side}}
}

func TestEvaluateModel(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		edges    int
		vertices int
		layers   []float64
	}{
		{"empty", "", 0, 0, nil},
		{"whitespace", "   \n\t  \n  ", 0, 0, nil},
		{"comment only", ";; outline goes here", 0, 0, nil},
		{"arithmetic adds nothing", "(+ 1 2)", 0, 0, nil},
		{"variable width", "(def x 10)\n(rect :width x)", 4, 4, []float64{0}},
		{"computed size", "(def base-w 30)\n(rect :width (- base-w 6) :height 4 :z 0.2)", 4, 4, []float64{0.2}},
		{"cube", "(cube :size 2)", 12, 8, []float64{-1, 1}},
		{"two layers", "(rect :width 2)\n(rect :width 2 :z 1)", 8, 8, []float64{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, evalErrs, err := NewEngine().Evaluate(tt.source)
			if err != nil {
				t.Fatalf("unexpected fatal error: %v", err)
			}
			if len(evalErrs) > 0 {
				t.Fatalf("unexpected eval errors: %v", evalErrs)
			}
			if m == nil {
				t.Fatal("expected non-nil model")
			}
			if m.NumEdges() != tt.edges {
				t.Errorf("NumEdges() = %d, want %d", m.NumEdges(), tt.edges)
			}
			if m.NumVertices() != tt.vertices {
				t.Errorf("NumVertices() = %d, want %d", m.NumVertices(), tt.vertices)
			}
			layers := m.Layers()
			if len(layers) != len(tt.layers) {
				t.Fatalf("Layers() = %v, want %v", layers, tt.layers)
			}
			for i := range layers {
				if layers[i] != tt.layers[i] {
					t.Errorf("Layers() = %v, want %v", layers, tt.layers)
					break
				}
			}
		})
	}
}

func TestEvaluateRectBounds(t *testing.T) {
	m, _, err := NewEngine().Evaluate("(def x 10)\n(rect :width x :height (/ x 2))")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	minX, minY, maxX, maxY, ok := m.Bounds()
	if !ok {
		t.Fatal("Bounds() reported an empty model")
	}
	if minX != -5 || minY != -2.5 || maxX != 5 || maxY != 2.5 {
		t.Errorf("Bounds() = (%g, %g, %g, %g), want (-5, -2.5, 5, 2.5)", minX, minY, maxX, maxY)
	}
}

func TestEvaluateFreshModel(t *testing.T) {
	eng := NewEngine()

	// Every evaluation starts from a fresh model.
	for i := 0; i < 5; i++ {
		m, evalErrs, err := eng.Evaluate("(cube :size 2)")
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		if m.NumEdges() != 12 {
			t.Errorf("iteration %d: NumEdges() = %d, want 12", i, m.NumEdges())
		}
		if m.NumVertices() != 8 {
			t.Errorf("iteration %d: NumVertices() = %d, want 8", i, m.NumVertices())
		}
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		wantLine int // 0 skips the line check
		wantMsg  string
	}{
		{name: "unmatched paren", source: "(rect :width 2)\n(rect :width 3"},
		{name: "undefined symbol", source: "(rect :width outer-width)"},
		{name: "non-positive width", source: "(rect :width 0)", wantMsg: "rect"},
		{name: "unknown keyword", source: "(rect :width 2)\n(rect :depth 3)", wantLine: 2, wantMsg: ":depth"},
		{name: "misspelt keyword", source: "(cube :sise 4)", wantLine: 1, wantMsg: ":sise"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, evalErrs, err := NewEngine().Evaluate(tt.source)
			if err != nil {
				t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
			}
			if m != nil {
				t.Fatalf("expected nil model, got %d edges", m.NumEdges())
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected at least one eval error")
			}
			e := evalErrs[0]
			if e.Message == "" {
				t.Error("eval error message should not be empty")
			}
			if tt.wantLine > 0 && e.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", e.Line, tt.wantLine)
			}
			if tt.wantMsg != "" && !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "rect: width must be positive"}
	if got := e.Error(); got != "line 5: rect: width must be positive" {
		t.Errorf("Error() = %q", got)
	}

	e2 := EvalError{Message: "no location"}
	if got := e2.Error(); got != "no location" {
		t.Errorf("Error() with no line = %q, want %q", got, "no location")
	}
}

func TestWaitTimeout(t *testing.T) {
	eng := &Engine{Timeout: 50 * time.Millisecond}
	gen := eng.generation.Add(1)
	ctx, cancel := context.WithTimeout(context.Background(), eng.timeout())
	defer cancel()

	// A channel that never sends stands in for a script that never returns.
	start := time.Now()
	m, evalErrs, err := eng.wait(ctx, make(chan evalResult), gen)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if m != nil || evalErrs != nil {
		t.Errorf("timed out evaluation returned model %v, errors %v", m, evalErrs)
	}
	if !strings.Contains(err.Error(), "50ms") {
		t.Errorf("err = %q, want the limit in the message", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("wait took %s with a 50ms limit", elapsed)
	}
}

func TestWaitSuperseded(t *testing.T) {
	eng := NewEngine()
	stale := eng.generation.Add(1)
	eng.generation.Add(1)

	m := topo.NewModel()
	topo.Polygon(m.Edges(), 0, square(2)...)
	ch := make(chan evalResult, 1)
	ch <- evalResult{model: m}

	got, _, err := eng.wait(context.Background(), ch, stale)
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("err = %v, want ErrSuperseded", err)
	}
	if got != nil {
		t.Errorf("superseded evaluation delivered a model with %d edges", got.NumEdges())
	}
}

func TestWaitCurrentGeneration(t *testing.T) {
	eng := NewEngine()
	gen := eng.generation.Add(1)

	m := topo.NewModel()
	topo.Polygon(m.Edges(), 0.4, square(2)...)
	ch := make(chan evalResult, 1)
	ch <- evalResult{model: m}

	got, _, err := eng.wait(context.Background(), ch, gen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.NumEdges() != 4 {
		t.Errorf("NumEdges() = %d, want 4", got.NumEdges())
	}
	if layers := got.Layers(); len(layers) != 1 || layers[0] != 0.4 {
		t.Errorf("Layers() = %v, want [0.4]", layers)
	}
}

func TestWaitCanceled(t *testing.T) {
	eng := NewEngine()
	gen := eng.generation.Add(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := eng.wait(ctx, make(chan evalResult), gen)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("cancellation reported as a timeout")
	}
}

func TestEvaluateContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := NewEngine()
	m, _, err := eng.EvaluateContext(ctx, "(rect :width 2)")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if m != nil {
		t.Error("canceled evaluation returned a model")
	}
	if _, err := eng.EvaluateResult(ctx, "(rect :width 2)"); !errors.Is(err, context.Canceled) {
		t.Errorf("EvaluateResult err = %v, want context.Canceled", err)
	}

	// A canceled call does not start a generation, so the next one succeeds.
	m, _, err = eng.Evaluate("(rect :width 2)")
	if err != nil {
		t.Fatalf("unexpected error after canceled call: %v", err)
	}
	if m.NumEdges() != 4 {
		t.Errorf("NumEdges() = %d, want 4", m.NumEdges())
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: rect: width must be positive\n",
			wantLine: 5,
			wantMsg:  "rect: width must be positive",
		},
		{
			name:     "no line info",
			msg:      "cube: size must be positive",
			wantLine: 0,
			wantMsg:  "cube: size must be positive",
		},
		{
			name:     "line format lowercase",
			msg:      "error on line 12: polygon needs at least 3 points",
			wantLine: 12,
			wantMsg:  "polygon needs at least 3 points",
		},
		{
			name:     "short line format",
			msg:      "line 3: poly: bad argument",
			wantLine: 3,
			wantMsg:  "poly: bad argument",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
