package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agext/levenshtein"

	phonyerrors "github.com/AndreyAkinshin/phony/internal/errors"
	"github.com/AndreyAkinshin/phony/internal/executor"
	"github.com/AndreyAkinshin/phony/internal/model"
	"github.com/AndreyAkinshin/phony/internal/output"
	"github.com/AndreyAkinshin/phony/internal/project"
	"github.com/AndreyAkinshin/phony/internal/runner"
)

// out is the shared output writer for CLI commands.
var out = output.New()

// stepRunner builds the runner used for real executions. Tests replace it.
var stepRunner = func(root string) executor.StepRunner {
	return executor.WithTimeouts(executor.NewProcessRunner(root))
}

// maxSuggestionDistance bounds how far a misspelled task name may be from a
// suggestion.
const maxSuggestionDistance = 2

// applyVerbosityToOutput configures the output writer based on verbosity settings.
func applyVerbosityToOutput(opts *GlobalOptions) {
	out.SetQuiet(opts.Quiet)
	out.SetVerbose(opts.Verbose)
}

// loadProject loads the task file named by file, or discovers one from the
// working directory when file is empty. Returns the project and exit code 0
// on success, or nil and the exit code to use on failure.
func loadProject(file string) (*project.Project, int) {
	var (
		proj *project.Project
		err  error
	)
	if file != "" {
		proj, err = project.LoadFile(file)
	} else {
		proj, err = project.LoadProject()
	}
	if err != nil {
		out.ErrorPrefix("%v", err)
		return nil, phonyerrors.GetExitCode(err)
	}
	return proj, 0
}

// cmdList prints every task. In quiet mode only the names are printed, one
// per line, which is what the completion scripts read.
func cmdList(proj *project.Project) int {
	tasks := proj.Registry.All()

	if out.Quiet() {
		for _, t := range tasks {
			out.Println("%s", t.Name)
		}
		return 0
	}

	if len(tasks) == 0 {
		out.Println("No tasks defined in %s", proj.Path)
		return 0
	}

	width := 0
	for _, t := range tasks {
		if len(t.Name) > width {
			width = len(t.Name)
		}
	}

	out.Println("Tasks:")
	for _, t := range tasks {
		out.TaskInfo(t.Name, t.Description, width)
		if len(t.DependsOn) > 0 {
			out.TaskDetail("after", strings.Join(t.DependsOn, ", "), width)
		}
		for _, step := range t.Steps {
			out.Verbose("%s$ %s", strings.Repeat(" ", width+4), step.String())
		}
	}
	return 0
}

// cmdValidate checks every task's prerequisites without running anything.
func cmdValidate(proj *project.Project) int {
	if err := proj.Validate(); err != nil {
		out.ErrorPrefix("%v", err)
		return phonyerrors.GetExitCode(err)
	}

	steps := 0
	for _, t := range proj.Registry.All() {
		steps += len(t.Steps)
	}

	out.ValidationSuccess("%s is valid", proj.Path)
	out.SummaryItem("format", string(proj.Format))
	out.SummaryItem("tasks", fmt.Sprintf("%d", proj.Registry.Len()))
	out.SummaryItem("steps", fmt.Sprintf("%d", steps))
	if len(proj.Warnings) > 0 {
		out.SummaryItem("warnings", fmt.Sprintf("%d", len(proj.Warnings)))
	}
	return 0
}

// cmdRun runs name and its prerequisites.
func cmdRun(ctx context.Context, proj *project.Project, name string, opts *GlobalOptions) int {
	r := runner.New(proj.Registry, stepRunner(proj.Root), out, proj.Root)

	summary, err := r.Execute(ctx, name, runner.Options{DryRun: opts.DryRun})
	if summary != nil && !opts.DryRun && out.IsVerbose() {
		printSummary(summary)
	}
	if err != nil {
		out.ErrorPrefix("%v", err)
		if phonyerrors.KindOf(err) == phonyerrors.KindUnknownTask {
			if s := suggestTask(unknownName(err, name), proj.Registry.Names()); s != "" {
				out.Hint("did you mean %q?", s)
			}
		}
		return phonyerrors.GetExitCode(err)
	}
	return 0
}

// unknownName returns the task name carried by an unknown-task error,
// falling back to the requested name.
func unknownName(err error, requested string) string {
	var pe *phonyerrors.Error
	if errors.As(err, &pe) && pe.Task != "" {
		return pe.Task
	}
	return requested
}

// printSummary prints the per-task results of a run.
func printSummary(summary *model.TaskRunSummary) {
	out.SummaryHeader("run summary")
	for _, r := range summary.Tasks {
		errMsg := ""
		if r.Error != nil {
			errMsg = r.Error.Error()
		}
		out.SummaryAction(r.Name, r.Success, r.Duration.Round(time.Millisecond).String(), errMsg)
	}
	out.SummaryItem("total", summary.TotalDuration.Round(time.Millisecond).String())

	if summary.Success() {
		out.FinalSuccess("%d task(s) succeeded", summary.Passed)
	} else {
		out.FinalFailure("%d task(s) succeeded, %d failed", summary.Passed, summary.Failed)
	}
}

// suggestTask returns the registered name closest to name, or "" when
// nothing is close enough. Ties resolve alphabetically.
func suggestTask(name string, names []string) string {
	if name == "" {
		return ""
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	best, bestDist := "", maxSuggestionDistance+1
	for _, candidate := range sorted {
		d := levenshtein.Distance(name, candidate, nil)
		if d < bestDist && d < len(name) {
			best, bestDist = candidate, d
		}
	}
	return best
}
