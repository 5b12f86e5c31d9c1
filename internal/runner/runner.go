// Package runner is the single entry point for running a task: it resolves
// the plan for the requested task and hands it to the executor, or prints it
// when doing a dry run.
package runner

import (
	"context"

	"github.com/AndreyAkinshin/phony/internal/executor"
	"github.com/AndreyAkinshin/phony/internal/logging"
	"github.com/AndreyAkinshin/phony/internal/model"
	"github.com/AndreyAkinshin/phony/internal/output"
	"github.com/AndreyAkinshin/phony/internal/task"
)

// Runner runs tasks from a registry. The registry is only read.
type Runner struct {
	registry *task.Registry
	executor *executor.Executor
	out      *output.Writer
	root     string
}

// Options configures a single Execute call.
type Options struct {
	// DryRun prints the plan with every step instead of running anything.
	DryRun bool
}

// New creates a Runner. Steps are run through steps; root is the project
// root used for ${root} interpolation.
func New(registry *task.Registry, steps executor.StepRunner, out *output.Writer, root string) *Runner {
	return &Runner{
		registry: registry,
		executor: executor.New(registry, steps, out, root),
		out:      out,
		root:     root,
	}
}

// Plan resolves the execution plan for name without running it.
func (r *Runner) Plan(name string) (task.Plan, error) {
	return r.registry.Plan(name)
}

// Execute runs name and all of its prerequisites.
//
// Planning errors (unknown task, unknown prerequisite, cycle) are returned
// before any step is started. When a step fails the returned summary
// describes the run so far and the error carries the failing step's exit
// status.
func (r *Runner) Execute(ctx context.Context, name string, opts Options) (*model.TaskRunSummary, error) {
	logger := logging.FromContext(ctx)

	plan, err := r.registry.Plan(name)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved plan", "task", name, "plan", plan.String())

	if opts.DryRun {
		if err := r.PrintPlan(plan); err != nil {
			return nil, err
		}
		return &model.TaskRunSummary{}, nil
	}

	summary, err := r.executor.Run(ctx, plan)
	if err != nil {
		return summary, err
	}
	if summary.Failure != nil {
		return summary, executor.FailureError(summary.Failure)
	}
	return summary, nil
}

// PrintPlan writes plan to the output with every step each task would run,
// in execution order.
func (r *Runner) PrintPlan(plan task.Plan) error {
	r.out.DryRunStart()
	for i, name := range plan {
		t, err := r.registry.Lookup(name)
		if err != nil {
			return err
		}
		r.out.PlanTask(i+1, name, t.DependsOn)
		if len(t.Steps) == 0 {
			r.out.PlanEmpty()
			continue
		}
		vars := task.Vars(name, r.root)
		for _, step := range t.Steps {
			step = step.Expand(vars)
			r.out.PlanStep(step.String(), step.Dir)
		}
	}
	r.out.DryRunEnd()
	return nil
}
