package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/strata/pkg/topo"
	v2 "github.com/deadsy/sdfx/vec/v2"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a vertex so it can be passed between builtins.
type sexpPoint struct {
	v topo.Vertex
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(point %g %g %g)", p.v.X, p.v.Y, p.v.Z)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpEdges describes the run of model edges a builtin appended, starting at
// edge index first.
type sexpEdges struct {
	kind  string
	first int
	count int
}

func (e *sexpEdges) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %d edges from %d)", e.kind, e.count, e.first)
}
func (e *sexpEdges) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Trailing keyword with no value.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// float returns the numeric keyword argument name, or def when absent.
func (a kwArgs) float(name string, def float64) (float64, error) {
	v, ok := a.kw[name]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

// positive is float for arguments that must be greater than zero.
func (a kwArgs) positive(name string, def float64) (float64, error) {
	f, err := a.float(name, def)
	if err != nil {
		return 0, err
	}
	if !(f > 0) {
		return 0, fmt.Errorf("%s must be positive, got %g", name, f)
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toFloats extracts every element of args as a number.
func toFloats(args []zygo.Sexp) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// toPoint extracts a vertex from a sexpPoint.
func toPoint(s zygo.Sexp) (topo.Vertex, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.v, nil
	}
	return topo.Vertex{}, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// outlinePoints reads polygon corners from either point values or a single
// flat list of x y pairs.
func outlinePoints(args []zygo.Sexp) ([]v2.Vec, error) {
	if len(args) == 1 {
		items, err := sexpListToSlice(args[0])
		if err != nil {
			return nil, err
		}
		nums, err := toFloats(items)
		if err != nil {
			return nil, err
		}
		if len(nums)%2 != 0 {
			return nil, fmt.Errorf("coordinate list has odd length %d", len(nums))
		}
		pts := make([]v2.Vec, 0, len(nums)/2)
		for i := 0; i < len(nums); i += 2 {
			pts = append(pts, v2.Vec{X: nums[i], Y: nums[i+1]})
		}
		return pts, nil
	}
	pts := make([]v2.Vec, 0, len(args))
	for i, a := range args {
		p, err := toPoint(a)
		if err != nil {
			return nil, fmt.Errorf("corner %d: %w", i+1, err)
		}
		pts = append(pts, p.XY())
	}
	return pts, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the model builtins into a zygomys environment.
// The builtins append edges to m during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals. A
// keyword read here must also be listed in keywords, or scripts using it are
// rejected before they run.
func registerBuiltins(env *zygo.Zlisp, m *topo.Model) {

	// appended wraps the edges added since first in a return value.
	appended := func(kind string, first int) zygo.Sexp {
		return &sexpEdges{kind: kind, first: first, count: m.NumEdges() - first}
	}

	// -----------------------------------------------------------------------
	// (point x y) or (point x y z)
	// -----------------------------------------------------------------------
	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 && len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("point requires 2 or 3 arguments, got %d", len(args))
		}
		c, err := toFloats(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: %w", err)
		}
		v := topo.Vertex{X: c[0], Y: c[1]}
		if len(c) == 3 {
			v.Z = c[2]
		}
		return &sexpPoint{v: v}, nil
	})

	// -----------------------------------------------------------------------
	// (edge x1 y1 z1 x2 y2 z2) or (edge (point ...) (point ...))
	// -----------------------------------------------------------------------
	env.AddFunction("edge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		first := m.NumEdges()
		switch len(args) {
		case 2:
			p, err := toPoint(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("edge: start: %w", err)
			}
			q, err := toPoint(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("edge: end: %w", err)
			}
			m.AddEdge(p, q)
		case 6:
			c, err := toFloats(args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("edge: %w", err)
			}
			m.Edges().AddCoords(c[0], c[1], c[2], c[3], c[4], c[5])
		default:
			return zygo.SexpNull, fmt.Errorf("edge requires two points or six coordinates, got %d arguments", len(args))
		}
		return appended("edge", first), nil
	})

	// -----------------------------------------------------------------------
	// (rect :width 20 :height 10 :z 0 :at (point 5 5))
	// -----------------------------------------------------------------------
	env.AddFunction("rect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		w, err := pa.positive("width", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: %w", err)
		}
		h, err := pa.positive("height", w)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: %w", err)
		}
		z, err := pa.float("z", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: %w", err)
		}
		var at topo.Vertex
		if v, ok := pa.kw["at"]; ok {
			if at, err = toPoint(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("rect: at: %w", err)
			}
		}

		first := m.NumEdges()
		topo.Polygon(m.Edges(), z,
			v2.Vec{X: at.X - w/2, Y: at.Y - h/2},
			v2.Vec{X: at.X + w/2, Y: at.Y - h/2},
			v2.Vec{X: at.X + w/2, Y: at.Y + h/2},
			v2.Vec{X: at.X - w/2, Y: at.Y + h/2},
		)
		return appended("rect", first), nil
	})

	// -----------------------------------------------------------------------
	// (polygon :z 0 (point 0 0) (point 10 0) (point 0 10))
	// (polygon :z 0 (list 0 0 10 0 0 10))
	// -----------------------------------------------------------------------
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		z, err := pa.float("z", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
		}
		pts, err := outlinePoints(pa.positional)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
		}
		if len(pts) < 3 {
			return zygo.SexpNull, fmt.Errorf("polygon requires at least 3 corners, got %d", len(pts))
		}
		first := m.NumEdges()
		topo.Polygon(m.Edges(), z, pts...)
		return appended("polygon", first), nil
	})

	// -----------------------------------------------------------------------
	// (poly :scale 10 :z 0)
	// -----------------------------------------------------------------------
	env.AddFunction("poly", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		s, err := pa.positive("scale", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("poly: %w", err)
		}
		z, err := pa.float("z", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("poly: %w", err)
		}
		first := m.NumEdges()
		topo.Polygon(m.Edges(), z, topo.PolyOutline(s)...)
		return appended("poly", first), nil
	})

	// -----------------------------------------------------------------------
	// (cube :size 20)
	// -----------------------------------------------------------------------
	env.AddFunction("cube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		s, err := pa.positive("size", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: %w", err)
		}
		first := m.NumEdges()
		topo.Cube(m.Edges(), s/2)
		return appended("cube", first), nil
	})

	// -----------------------------------------------------------------------
	// (translate 10 0 0)
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("translate requires exactly 3 arguments, got %d", len(args))
		}
		d, err := toFloats(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		m.Vertices().Translate(d[0], d[1], d[2])
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (center)
	// -----------------------------------------------------------------------
	env.AddFunction("center", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, fmt.Errorf("center takes no arguments, got %d", len(args))
		}
		m.Center()
		return zygo.SexpNull, nil
	})
}
