// Package mocks provides shared test doubles for phony packages.
package mocks

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/AndreyAkinshin/phony/internal/executor"
)

type outcome struct {
	code int
	err  error
}

// StepRunner implements executor.StepRunner for testing.
// Every step succeeds unless configured otherwise with the fluent builder
// methods. Calls are recorded in order.
type StepRunner struct {
	byCommand map[string]outcome
	byTask    map[string]outcome

	// RunFunc, if set, decides every step's outcome and overrides the
	// configured ones.
	RunFunc func(ctx context.Context, spec executor.StepSpec) (int, error)

	// Execution tracking (thread-safe)
	callCount int32
	mu        sync.Mutex
	calls     []executor.StepSpec
}

// NewStepRunner creates a mock runner whose steps all exit 0.
func NewStepRunner() *StepRunner {
	return &StepRunner{
		byCommand: make(map[string]outcome),
		byTask:    make(map[string]outcome),
	}
}

// FailCommand makes steps whose command line equals command exit with code.
func (m *StepRunner) FailCommand(command string, code int) *StepRunner {
	m.byCommand[command] = outcome{code: code}
	return m
}

// ErrorCommand makes steps whose command line equals command return err.
func (m *StepRunner) ErrorCommand(command string, code int, err error) *StepRunner {
	m.byCommand[command] = outcome{code: code, err: err}
	return m
}

// FailTask makes every step of the named task exit with code.
func (m *StepRunner) FailTask(name string, code int) *StepRunner {
	m.byTask[name] = outcome{code: code}
	return m
}

// WithRunFunc sets the function deciding each step's outcome.
func (m *StepRunner) WithRunFunc(fn func(ctx context.Context, spec executor.StepSpec) (int, error)) *StepRunner {
	m.RunFunc = fn
	return m
}

// RunStep implements executor.StepRunner.
func (m *StepRunner) RunStep(ctx context.Context, spec executor.StepSpec) (int, error) {
	atomic.AddInt32(&m.callCount, 1)
	m.mu.Lock()
	m.calls = append(m.calls, spec)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, spec)
	}
	if o, ok := m.byCommand[spec.Step.String()]; ok {
		return o.code, o.err
	}
	if o, ok := m.byTask[spec.Task]; ok {
		return o.code, o.err
	}
	return 0, nil
}

// Test inspection methods

// CallCount returns the number of steps run.
func (m *StepRunner) CallCount() int {
	return int(atomic.LoadInt32(&m.callCount))
}

// Calls returns the recorded step invocations in order.
func (m *StepRunner) Calls() []executor.StepSpec {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]executor.StepSpec, len(m.calls))
	copy(result, m.calls)
	return result
}

// Commands returns the command lines of the recorded steps in order.
func (m *StepRunner) Commands() []string {
	calls := m.Calls()
	result := make([]string, len(calls))
	for i, c := range calls {
		result[i] = c.Step.String()
	}
	return result
}

// Tasks returns the owning task of each recorded step in order.
func (m *StepRunner) Tasks() []string {
	calls := m.Calls()
	result := make([]string, len(calls))
	for i, c := range calls {
		result[i] = c.Task
	}
	return result
}

// Reset clears execution tracking state.
func (m *StepRunner) Reset() {
	atomic.StoreInt32(&m.callCount, 0)
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}
