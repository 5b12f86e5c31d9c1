// Package errors provides structured error types and exit codes for phony.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/phony/pkg/phony"
)

// Exit codes. Step failures exit with the step's own code instead.
const (
	ExitSuccess      = phony.ExitSuccess
	ExitRuntimeError = phony.ExitFailure
	ExitConfigError  = phony.ExitConfigError // Unknown task, cycle, bad task file or flags
	ExitTimeout      = phony.ExitTimeout
	ExitLaunchError  = phony.ExitLaunchError
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindUsage
	KindUnknownTask
	KindCycle
	KindStepFailed
	KindLaunch
	KindTimeout
)

// Error is the base error type for phony.
type Error struct {
	Kind    ErrorKind
	Message string
	Task    string   // Task name if applicable
	Command string   // Command line of the offending step
	Step    int      // Zero-based step index, -1 when not about a step
	Code    int      // Exit status of the offending step
	Cycle   []string // Task names forming a cycle, first == last
	Cause   error    // Underlying error
}

func (e *Error) Error() string {
	switch {
	case e.Task != "" && e.Step >= 0 && e.Command != "":
		return fmt.Sprintf("[%s] step %d (%s): %s", e.Task, e.Step+1, e.Command, e.Message)
	case e.Task != "" && e.Kind != KindUnknownTask:
		return fmt.Sprintf("[%s] %s", e.Task, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsConfig reports whether the error was detected before any step ran.
func (e *Error) IsConfig() bool {
	switch e.Kind {
	case KindConfig, KindUsage, KindUnknownTask, KindCycle:
		return true
	}
	return false
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindUsage, KindUnknownTask, KindCycle:
		return ExitConfigError
	case KindStepFailed:
		if e.Code > 0 && e.Code < 256 {
			return e.Code
		}
		return ExitRuntimeError
	case KindLaunch:
		return ExitLaunchError
	case KindTimeout:
		return ExitTimeout
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
		Step:    -1,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: message,
		Step:    -1,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *Error {
	return Config(fmt.Sprintf(format, args...))
}

// Usage creates a command-line usage error.
func Usage(message string) *Error {
	return &Error{
		Kind:    KindUsage,
		Message: message,
		Step:    -1,
	}
}

// Usagef creates a command-line usage error with formatting.
func Usagef(format string, args ...interface{}) *Error {
	return Usage(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
		Step:    -1,
		Cause:   err,
	}
}

// WrapConfig wraps an error as a configuration error.
func WrapConfig(err error, message string) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: fmt.Sprintf("%s: %v", message, err),
		Step:    -1,
		Cause:   err,
	}
}

// UnknownTask creates an error for a requested task that is not registered.
func UnknownTask(name string) *Error {
	return &Error{
		Kind:    KindUnknownTask,
		Message: fmt.Sprintf("unknown task %q", name),
		Task:    name,
		Step:    -1,
	}
}

// UnknownPrerequisite creates an UnknownTask error for a prerequisite
// referenced by another task.
func UnknownPrerequisite(name, referrer string) *Error {
	return &Error{
		Kind:    KindUnknownTask,
		Message: fmt.Sprintf("task %q depends on unknown task %q", referrer, name),
		Task:    name,
		Step:    -1,
	}
}

// CyclicDependency creates an error for a dependency cycle.
// The path starts and ends at the repeated task.
func CyclicDependency(path []string) *Error {
	cycle := make([]string, len(path))
	copy(cycle, path)
	var task string
	if len(cycle) > 0 {
		task = cycle[0]
	}
	return &Error{
		Kind:    KindCycle,
		Message: fmt.Sprintf("circular dependency: %s", strings.Join(cycle, " -> ")),
		Task:    task,
		Step:    -1,
		Cycle:   cycle,
	}
}

// StepFailed creates an error for a step that exited with a non-zero status.
func StepFailed(task string, step int, command string, code int) *Error {
	return &Error{
		Kind:    KindStepFailed,
		Message: fmt.Sprintf("exited with code %d", code),
		Task:    task,
		Command: command,
		Step:    step,
		Code:    code,
	}
}

// LaunchFailed creates an error for a step whose process could not be started.
func LaunchFailed(task string, step int, command string, cause error) *Error {
	return &Error{
		Kind:    KindLaunch,
		Message: fmt.Sprintf("could not start: %v", cause),
		Task:    task,
		Command: command,
		Step:    step,
		Code:    ExitLaunchError,
		Cause:   cause,
	}
}

// StepTimedOut creates an error for a step killed after exceeding its timeout.
func StepTimedOut(task string, step int, command string, cause error) *Error {
	return &Error{
		Kind:    KindTimeout,
		Message: "timed out",
		Task:    task,
		Command: command,
		Step:    step,
		Code:    ExitTimeout,
		Cause:   cause,
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.ExitCode()
	}
	return ExitRuntimeError
}

// KindOf returns the kind of err, or KindRuntime for foreign errors.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindRuntime
}
