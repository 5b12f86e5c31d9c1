// Package model provides the run result records shared by the executor, the
// runner facade and the CLI summary. It exists so that output formatting does
// not need to import the executor.
package model

import (
	"time"
)

// TaskResult tracks execution result of a single task.
type TaskResult struct {
	Name     string
	Success  bool
	Steps    int // Steps that ran, including a failing one
	Duration time.Duration
	Error    error
}

// Failure identifies the first failing step of a run.
type Failure struct {
	Task      string
	StepIndex int    // Zero-based index into the task's steps
	Command   string // Command line of the failing step
	ExitCode  int
	Launch    bool // The step's process could not be started
	TimedOut  bool
	Err       error
}

// TaskRunSummary contains aggregated results from running a plan.
// A nil Failure means every planned step exited with status 0.
type TaskRunSummary struct {
	Tasks         []TaskResult
	TotalDuration time.Duration
	Passed        int
	Failed        int
	Failure       *Failure
}

// Success reports whether the whole plan completed.
func (s *TaskRunSummary) Success() bool {
	return s.Failure == nil
}

// Add records a task result and updates the aggregate counts.
func (s *TaskRunSummary) Add(r TaskResult) {
	s.Tasks = append(s.Tasks, r)
	if r.Success {
		s.Passed++
	} else {
		s.Failed++
	}
}
