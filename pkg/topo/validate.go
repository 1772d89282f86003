package topo

import "fmt"

// ValidationSeverity indicates whether a finding makes a graph unusable as a
// loop or is merely advisory.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // not a usable loop
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single finding. Pos is -1 for graph-level
// findings.
type ValidationError struct {
	Pos      int
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] position %d: %s", e.Severity, e.Pos, e.Message)
}

// ValidationResult separates blocking errors from warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no errors were found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// ValidateLoop checks that g is a closed loop the offset and fill algorithms
// can consume. It is read-only.
func ValidateLoop(g *EdgeGraph) ValidationResult {
	var r ValidationResult
	if g.Len() == 0 {
		r.Errors = append(r.Errors, ValidationError{Pos: -1, Message: "graph has no edges", Severity: SeverityError})
		return r
	}
	r.Errors = append(r.Errors, validateChain(g)...)
	r.Errors = append(r.Errors, validateEdgeLengths(g)...)
	r.Warnings = append(r.Warnings, validatePlanar(g)...)
	r.Warnings = append(r.Warnings, validateDegree(g)...)
	return r
}

// validateChain checks that each pair ends where the following pair starts,
// wrapping from the last pair to the first.
func validateChain(g *EdgeGraph) []ValidationError {
	var errs []ValidationError
	n := len(g.slots)
	for p := 0; p < n; p += 2 {
		end := g.slots[p+1]
		start := g.slots[(p+2)%n]
		if end != start {
			errs = append(errs, ValidationError{
				Pos:      p,
				Message:  fmt.Sprintf("edge ends at vertex %d but the next edge starts at vertex %d", end, start),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func validateEdgeLengths(g *EdgeGraph) []ValidationError {
	var errs []ValidationError
	for p := 0; p < len(g.slots); p += 2 {
		s, e := g.Segment(p)
		if s.X == e.X && s.Y == e.Y {
			errs = append(errs, ValidationError{
				Pos:      p,
				Message:  "edge has zero length in the XY plane",
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func validatePlanar(g *EdgeGraph) []ValidationError {
	z := g.store.vertices[g.slots[0]].Z
	for p, id := range g.slots {
		if g.store.vertices[id].Z != z {
			return []ValidationError{{
				Pos:      p,
				Message:  fmt.Sprintf("vertex %d at z=%g leaves the loop plane z=%g", id, g.store.vertices[id].Z, z),
				Severity: SeverityWarning,
			}}
		}
	}
	return nil
}

// validateDegree flags vertices referenced by more than two slots; loop
// building picks the first candidate at such vertices.
func validateDegree(g *EdgeGraph) []ValidationError {
	var warnings []ValidationError
	count := make(map[VertexID]int)
	first := make(map[VertexID]int)
	var order []VertexID
	for p, id := range g.slots {
		if count[id] == 0 {
			first[id] = p
			order = append(order, id)
		}
		count[id]++
	}
	for _, id := range order {
		if count[id] > 2 {
			warnings = append(warnings, ValidationError{
				Pos:      first[id],
				Message:  fmt.Sprintf("vertex %d is shared by %d edges", id, count[id]),
				Severity: SeverityWarning,
			})
		}
	}
	return warnings
}
