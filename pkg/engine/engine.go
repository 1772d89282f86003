// Package engine provides the Lisp evaluation engine for strata model
// scripts. It wraps zygomys in a sandboxed environment and produces a
// topo.Model from user source code.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chazu/strata/pkg/loops"
	"github.com/chazu/strata/pkg/topo"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning is a problem with the geometry a script produced. The model is
// still usable, but the layer at Z may be skipped or printed oddly.
type EvalWarning struct {
	Z       float64
	Message string
}

func (w EvalWarning) String() string {
	return fmt.Sprintf("layer z=%g: %s", w.Z, w.Message)
}

// EvalResult bundles the full output of an evaluation.
type EvalResult struct {
	Model    *topo.Model
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment and a fresh model. Only the most recently started
// evaluation delivers its model; older ones get ErrSuperseded.
type Engine struct {
	// Timeout bounds each evaluation; zero means EvalTimeout.
	Timeout time.Duration

	generation atomic.Uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{Timeout: EvalTimeout}
}

// Evaluate is EvaluateContext without a caller deadline.
func (e *Engine) Evaluate(source string) (*topo.Model, []EvalError, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext runs a model script and returns the model it built.
//
// Return semantics:
//   - On success: returns model + nil errors + nil error
//   - On preprocess/parse/eval failure: returns nil model + eval errors + nil error
//   - On fatal failure (timeout, cancellation, panic, superseded): returns nil + nil + error
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*topo.Model, []EvalError, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	gen := e.generation.Add(1)
	ctx, cancel := context.WithTimeout(ctx, e.timeout())
	defer cancel()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		m, evalErrs, err := e.evaluate(source)
		ch <- evalResult{model: m, errors: evalErrs, err: err}
	}()

	return e.wait(ctx, ch, gen)
}

// EvaluateResult is EvaluateContext followed by a check of every layer of
// the resulting model, reported as warnings.
func (e *Engine) EvaluateResult(ctx context.Context, source string) (*EvalResult, error) {
	m, evalErrs, err := e.EvaluateContext(ctx, source)
	if err != nil {
		return nil, err
	}
	res := &EvalResult{Model: m, Errors: evalErrs}
	if m != nil {
		res.Warnings = CheckLayers(m)
	}
	return res, nil
}

// CheckLayers rebuilds the loops of every layer of m and reports open chains,
// branching vertices and edges that span layers.
func CheckLayers(m *topo.Model) []EvalWarning {
	var warnings []EvalWarning
	inLayers := 0
	for _, z := range m.Layers() {
		edges := m.EdgesInLayer(z)
		inLayers += edges.Len()
		if edges.Len() == 0 {
			continue
		}
		_, report := loops.Build(edges)
		if n := len(report.Open); n > 0 {
			warnings = append(warnings, EvalWarning{Z: z, Message: fmt.Sprintf("%d open chain(s); the layer will be skipped", n)})
		}
		for _, b := range report.Branches {
			warnings = append(warnings, EvalWarning{
				Z:       z,
				Message: fmt.Sprintf("vertex %d joins %d unvisited edges; took the first", b.Vertex, len(b.Candidates)),
			})
		}
	}
	if n := m.NumEdges() - inLayers; n > 0 {
		var z float64
		if layers := m.Layers(); len(layers) > 0 {
			z = layers[0]
		}
		warnings = append(warnings, EvalWarning{Z: z, Message: fmt.Sprintf("%d edge(s) span layers and are ignored", n)})
	}
	return warnings
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*topo.Model, []EvalError, error) {
	m := topo.NewModel()

	src, errs := preprocessSource(source)
	if len(errs) > 0 {
		return nil, errs, nil
	}
	// Empty source is a valid program that produces an empty model.
	if strings.TrimSpace(src) == "" {
		return m, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, m)

	err := env.LoadString(src)
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return m, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
