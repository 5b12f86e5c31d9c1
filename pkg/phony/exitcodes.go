// Package phony provides public constants for external tools integrating
// with the phony task runner.
package phony

// Exit codes returned by the phony CLI.
// A step that exits non-zero makes phony exit with that step's own code,
// so scripts can tell tool failures apart from runner failures.
const (
	// ExitSuccess indicates every planned step exited with status 0.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure not attributable to a single step.
	ExitFailure = 1

	// ExitConfigError indicates a configuration or usage error: unknown task,
	// dependency cycle, invalid task file or bad flags. Nothing was executed.
	ExitConfigError = 2

	// ExitTimeout indicates a step was killed after exceeding its timeout.
	ExitTimeout = 124

	// ExitLaunchError indicates a step's executable could not be started.
	ExitLaunchError = 127
)
