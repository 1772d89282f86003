package topo

import (
	"strings"
	"testing"
)

func hasMessage(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateLoop_Rect(t *testing.T) {
	g := Rect(NewEdgeGraph(NewVertexStore()), 2, 2, 0)
	r := ValidateLoop(g)
	if !r.OK() {
		t.Errorf("unexpected errors: %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}
}

func TestValidateLoop_Empty(t *testing.T) {
	r := ValidateLoop(NewEdgeGraph(NewVertexStore()))
	if !hasMessage(r.Errors, "no edges") {
		t.Errorf("expected empty-graph error, got %v", r.Errors)
	}
}

func TestValidateLoop_OpenChain(t *testing.T) {
	g := NewEdgeGraph(NewVertexStore())
	g.AddCoords(0, 0, 0, 1, 0, 0)
	g.AddCoords(1, 0, 0, 1, 1, 0)
	r := ValidateLoop(g)
	if r.OK() {
		t.Fatal("open chain validated as a loop")
	}
	if r.Errors[0].Pos != 2 {
		t.Errorf("error at position %d, want 2 (last edge does not close)", r.Errors[0].Pos)
	}
	if !strings.Contains(r.Errors[0].Error(), "[error] position 2") {
		t.Errorf("Error() = %q", r.Errors[0].Error())
	}
}

func TestValidateLoop_ZeroLength(t *testing.T) {
	g := NewEdgeGraph(NewVertexStore())
	g.AddCoords(0, 0, 0, 0, 0, 1)
	g.AddCoords(0, 0, 1, 0, 0, 0)
	r := ValidateLoop(g)
	if !hasMessage(r.Errors, "zero length") {
		t.Errorf("expected zero-length error, got %v", r.Errors)
	}
	if !hasMessage(r.Warnings, "leaves the loop plane") {
		t.Errorf("expected non-planar warning, got %v", r.Warnings)
	}
}

func TestValidateLoop_Branching(t *testing.T) {
	// Two triangles sharing the origin: a figure eight.
	g := NewEdgeGraph(NewVertexStore())
	g.AddCoords(0, 0, 0, 1, 0, 0)
	g.AddCoords(1, 0, 0, 1, 1, 0)
	g.AddCoords(1, 1, 0, 0, 0, 0)
	g.AddCoords(0, 0, 0, -1, 0, 0)
	g.AddCoords(-1, 0, 0, -1, -1, 0)
	g.AddCoords(-1, -1, 0, 0, 0, 0)
	r := ValidateLoop(g)
	if !r.OK() {
		t.Errorf("figure eight chain should close: %v", r.Errors)
	}
	if !hasMessage(r.Warnings, "shared by 4 edges") {
		t.Errorf("expected degree warning, got %v", r.Warnings)
	}
}

func TestSeverityString(t *testing.T) {
	if SeverityError.String() != "error" || SeverityWarning.String() != "warning" {
		t.Error("unexpected severity names")
	}
	if ValidationSeverity(7).String() != "ValidationSeverity(7)" {
		t.Errorf("unknown severity = %q", ValidationSeverity(7).String())
	}
}
