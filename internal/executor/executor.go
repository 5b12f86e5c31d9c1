// Package executor runs a resolved plan: every step of every task in plan
// order, one at a time, stopping at the first failure.
package executor

import (
	"context"
	"errors"
	"time"

	phonyerrors "github.com/AndreyAkinshin/phony/internal/errors"
	"github.com/AndreyAkinshin/phony/internal/logging"
	"github.com/AndreyAkinshin/phony/internal/model"
	"github.com/AndreyAkinshin/phony/internal/output"
	"github.com/AndreyAkinshin/phony/internal/task"
)

// Exit statuses reported by the built-in runners.
const (
	ExitFailure     = phonyerrors.ExitRuntimeError
	ExitTimeout     = phonyerrors.ExitTimeout
	ExitLaunchError = phonyerrors.ExitLaunchError
)

// Executor runs plans against a registry.
type Executor struct {
	registry *task.Registry
	runner   StepRunner
	out      *output.Writer
	root     string
}

// New creates an Executor. Step headers are written to out; root is the
// value of ${root} in step interpolation.
func New(registry *task.Registry, runner StepRunner, out *output.Writer, root string) *Executor {
	return &Executor{
		registry: registry,
		runner:   runner,
		out:      out,
		root:     root,
	}
}

// Run executes plan in order. Tasks without steps complete immediately.
// The returned summary has a non-nil Failure when a step failed, could not
// be launched, timed out, or the context was cancelled; no step after the
// failing one is started.
//
// The failure is not printed; callers report it once, from the summary.
// The error return is reserved for plans that name tasks missing from the
// registry.
func (e *Executor) Run(ctx context.Context, plan task.Plan) (*model.TaskRunSummary, error) {
	logger := logging.FromContext(ctx)
	summary := &model.TaskRunSummary{}
	start := time.Now()
	defer func() { summary.TotalDuration = time.Since(start) }()

	for _, name := range plan {
		t, err := e.registry.Lookup(name)
		if err != nil {
			return summary, err
		}

		logger.Debug("running task", "task", name, "steps", len(t.Steps))
		result, failure := e.runTask(ctx, t)
		summary.Add(result)

		if failure != nil {
			summary.Failure = failure
			logger.Debug("task failed", "task", name, "step", failure.StepIndex, "code", failure.ExitCode)
			return summary, nil
		}
		if e.out.IsVerbose() {
			e.out.Verbose("[%s] done in %s", name, result.Duration.Round(time.Millisecond))
		} else {
			e.out.TaskSuccess(name)
		}
	}

	return summary, nil
}

func (e *Executor) runTask(ctx context.Context, t task.Task) (model.TaskResult, *model.Failure) {
	result := model.TaskResult{Name: t.Name}
	start := time.Now()
	vars := task.Vars(t.Name, e.root)

	for i, step := range t.Steps {
		step = step.Expand(vars)

		if err := ctx.Err(); err != nil {
			return e.fail(result, start, &model.Failure{
				Task:      t.Name,
				StepIndex: i,
				Command:   step.String(),
				ExitCode:  ExitFailure,
				Err:       err,
			})
		}

		e.out.StepStart(t.Name, i, len(t.Steps), step.String())
		result.Steps++

		code, err := e.runner.RunStep(ctx, StepSpec{
			Task:  t.Name,
			Index: i,
			Step:  step,
			Env:   t.Env,
		})
		if err == nil && code == 0 {
			continue
		}

		return e.fail(result, start, classify(t.Name, i, step.String(), code, err))
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result, nil
}

func (e *Executor) fail(result model.TaskResult, start time.Time, f *model.Failure) (model.TaskResult, *model.Failure) {
	result.Duration = time.Since(start)
	result.Error = FailureError(f)
	return result, f
}

// classify turns a step runner's outcome into a Failure record.
func classify(taskName string, index int, command string, code int, err error) *model.Failure {
	f := &model.Failure{
		Task:      taskName,
		StepIndex: index,
		Command:   command,
		ExitCode:  code,
		Err:       err,
	}
	var launchErr *LaunchError
	switch {
	case err == nil:
	case errors.As(err, &launchErr):
		f.Launch = true
		f.ExitCode = ExitLaunchError
	case errors.Is(err, ErrTimedOut):
		f.TimedOut = true
		f.ExitCode = ExitTimeout
	default:
		f.ExitCode = ExitFailure
	}
	return f
}

// FailureError converts a Failure into the matching phony error.
func FailureError(f *model.Failure) error {
	if f == nil {
		return nil
	}
	switch {
	case f.Launch:
		cause := f.Err
		var launchErr *LaunchError
		if errors.As(f.Err, &launchErr) {
			cause = launchErr.Err
		}
		return phonyerrors.LaunchFailed(f.Task, f.StepIndex, f.Command, cause)
	case f.TimedOut:
		return phonyerrors.StepTimedOut(f.Task, f.StepIndex, f.Command, f.Err)
	case f.Err != nil:
		err := phonyerrors.Wrap(f.Err, "interrupted: "+f.Err.Error())
		err.Task = f.Task
		err.Step = f.StepIndex
		err.Command = f.Command
		return err
	default:
		return phonyerrors.StepFailed(f.Task, f.StepIndex, f.Command, f.ExitCode)
	}
}
