package executor

import (
	"context"
	"errors"
)

// ErrTimedOut is returned by TimeoutRunner when a step exceeds its timeout.
var ErrTimedOut = errors.New("step timed out")

// TimeoutRunner enforces per-step timeouts around another StepRunner.
// Steps with a zero Timeout run unbounded.
type TimeoutRunner struct {
	inner StepRunner
}

// WithTimeouts wraps inner so that step timeouts are honored.
func WithTimeouts(inner StepRunner) *TimeoutRunner {
	return &TimeoutRunner{inner: inner}
}

// RunStep implements StepRunner.
func (r *TimeoutRunner) RunStep(ctx context.Context, spec StepSpec) (int, error) {
	if spec.Step.Timeout <= 0 {
		return r.inner.RunStep(ctx, spec)
	}

	stepCtx, cancel := context.WithTimeout(ctx, spec.Step.Timeout)
	defer cancel()

	code, err := r.inner.RunStep(stepCtx, spec)
	// Only the step's own deadline counts as a timeout; a cancelled parent
	// is reported unchanged.
	if ctx.Err() == nil && errors.Is(stepCtx.Err(), context.DeadlineExceeded) {
		return ExitTimeout, ErrTimedOut
	}
	return code, err
}
