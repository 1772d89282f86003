package engine

import (
	"context"
	"time"

	"github.com/chazu/strata/pkg/topo"
	"github.com/pkg/errors"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs longer than the engine's
	// Timeout.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned to a caller whose evaluation finished after a
	// newer one was started on the same engine.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// evalResult carries an evaluation's output from its goroutine.
type evalResult struct {
	model  *topo.Model
	errors []EvalError
	err    error
}

// wait blocks until the evaluation started as generation gen reports on ch
// or ctx ends. An abandoned evaluation keeps running in its goroutine; it
// owns its model and sandbox, so nothing shared is left half built.
func (e *Engine) wait(ctx context.Context, ch <-chan evalResult, gen uint64) (*topo.Model, []EvalError, error) {
	select {
	case res := <-ch:
		if gen != e.generation.Load() {
			return nil, nil, ErrSuperseded
		}
		return res.model, res.errors, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, errors.Wrapf(ErrTimeout, "limit %s", e.timeout())
		}
		return nil, nil, ctx.Err()
	}
}

func (e *Engine) timeout() time.Duration {
	if e.Timeout > 0 {
		return e.Timeout
	}
	return EvalTimeout
}
