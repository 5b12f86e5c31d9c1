package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/AndreyAkinshin/phony/internal/task"
)

// waitDelay bounds how long Wait blocks on I/O after a cancelled step exits.
const waitDelay = time.Second

// StepSpec describes a single step invocation handed to a StepRunner.
type StepSpec struct {
	Task  string            // Owning task name
	Index int               // Zero-based position within the task
	Step  task.Step         // Step with variables already expanded
	Env   map[string]string // Task-level environment additions
}

// StepRunner runs one step and reports its exit status.
//
// A nil error means the process ran to completion and code is its exit
// status. A *LaunchError means the process never started. ErrTimedOut means
// the step was killed after exceeding its timeout. Any other error (usually
// from context cancellation) aborts the run.
type StepRunner interface {
	RunStep(ctx context.Context, spec StepSpec) (code int, err error)
}

// LaunchError reports a step whose process could not be started, for
// example because the executable does not exist.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("could not start %q: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ProcessRunner runs steps as child processes. Children inherit the
// runner's standard streams so their output appears on the terminal
// unmodified and in real time.
type ProcessRunner struct {
	root   string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewProcessRunner creates a ProcessRunner that resolves relative step
// directories against root and passes the process's own streams through.
func NewProcessRunner(root string) *ProcessRunner {
	return &ProcessRunner{
		root:   root,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// WithStreams replaces the streams handed to child processes.
func (r *ProcessRunner) WithStreams(stdin io.Reader, stdout, stderr io.Writer) *ProcessRunner {
	r.stdin = stdin
	r.stdout = stdout
	r.stderr = stderr
	return r
}

// RunStep implements StepRunner.
func (r *ProcessRunner) RunStep(ctx context.Context, spec StepSpec) (int, error) {
	cmd := exec.CommandContext(ctx, spec.Step.Command, spec.Step.Args...)
	cmd.Dir = r.workDir(spec.Step.Dir)
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	cmd.Env = buildEnv(os.Environ(), spec.Env)
	// Grandchildren that keep inherited pipes open must not stall Wait
	// after the step itself was killed.
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		return ExitLaunchError, &LaunchError{Command: spec.Step.Command, Err: err}
	}

	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return exitErr.ExitCode(), ctxErr
		}
		code := exitErr.ExitCode()
		if code < 0 {
			// Killed by a signal.
			code = ExitFailure
		}
		return code, nil
	}
	return ExitFailure, err
}

// workDir resolves a step directory. Empty means the project root and
// relative paths are taken relative to it.
func (r *ProcessRunner) workDir(dir string) string {
	switch {
	case dir == "":
		return r.root
	case filepath.IsAbs(dir):
		return dir
	default:
		return filepath.Join(r.root, dir)
	}
}

// buildEnv appends task variables to the inherited environment in a stable
// order. Later entries win when a key repeats.
func buildEnv(environ []string, extra map[string]string) []string {
	env := make([]string, 0, len(environ)+len(extra))
	env = append(env, environ...)

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}
