package orchestrator

import (
	"context"

	"github.com/JonathanSchmidt1/ml-peg/internal/crystal"
	"github.com/JonathanSchmidt1/ml-peg/internal/deform"
	"github.com/JonathanSchmidt1/ml-peg/internal/engine"
)

// #region constants

const maxAttempts = 3 // 1 call + 2 retries, transport errors only

// #endregion

// #region evaluate-with-retry

// evaluateWithRetry calls the engine, retrying transport-level failures.
// An answer that merely reports non-convergence is a result, never retried;
// retrying it would break the at-most-one-compute-per-key guarantee.
func evaluateWithRetry(ctx context.Context, eng engine.Evaluator, s crystal.Structure, d deform.Deformation, tol engine.Tolerances) (engine.Outcome, error) {
	var out engine.Outcome
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out, err = eng.Evaluate(ctx, s, d, tol)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return engine.Outcome{}, err
		}
	}
	return engine.Outcome{}, err
}

// #endregion
