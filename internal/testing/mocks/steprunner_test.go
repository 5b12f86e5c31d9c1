package mocks

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/AndreyAkinshin/phony/internal/executor"
	"github.com/AndreyAkinshin/phony/internal/task"
)

func spec(taskName, command string, args ...string) executor.StepSpec {
	return executor.StepSpec{Task: taskName, Step: task.Step{Command: command, Args: args}}
}

func TestStepRunner_DefaultSucceeds(t *testing.T) {
	t.Parallel()
	m := NewStepRunner()

	code, err := m.RunStep(context.Background(), spec("lint", "ruff", "check"))
	if code != 0 || err != nil {
		t.Errorf("RunStep() = %d, %v; want 0, nil", code, err)
	}
	if m.CallCount() != 1 {
		t.Errorf("CallCount() = %d, want 1", m.CallCount())
	}
}

func TestStepRunner_FailCommand(t *testing.T) {
	t.Parallel()
	m := NewStepRunner().FailCommand("pytest -q", 2)

	code, _ := m.RunStep(context.Background(), spec("test", "pytest", "-q"))
	if code != 2 {
		t.Errorf("RunStep() code = %d, want 2", code)
	}
	code, _ = m.RunStep(context.Background(), spec("test", "pytest"))
	if code != 0 {
		t.Errorf("RunStep() code = %d, want 0 for a different command line", code)
	}
}

func TestStepRunner_FailTask(t *testing.T) {
	t.Parallel()
	m := NewStepRunner().FailTask("lint", 1)

	if code, _ := m.RunStep(context.Background(), spec("lint", "anything")); code != 1 {
		t.Errorf("RunStep() code = %d, want 1", code)
	}
	if code, _ := m.RunStep(context.Background(), spec("test", "anything")); code != 0 {
		t.Errorf("RunStep() code = %d, want 0", code)
	}
}

func TestStepRunner_ErrorCommand(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	m := NewStepRunner().ErrorCommand("missing", 127, boom)

	code, err := m.RunStep(context.Background(), spec("x", "missing"))
	if code != 127 || !errors.Is(err, boom) {
		t.Errorf("RunStep() = %d, %v; want 127, boom", code, err)
	}
}

func TestStepRunner_RunFuncOverrides(t *testing.T) {
	t.Parallel()
	m := NewStepRunner().FailCommand("x", 3).WithRunFunc(func(ctx context.Context, s executor.StepSpec) (int, error) {
		return 9, nil
	})

	if code, _ := m.RunStep(context.Background(), spec("t", "x")); code != 9 {
		t.Errorf("RunStep() code = %d, want 9", code)
	}
}

func TestStepRunner_RecordsOrder(t *testing.T) {
	t.Parallel()
	m := NewStepRunner()
	m.RunStep(context.Background(), spec("format", "ruff", "format", "."))
	m.RunStep(context.Background(), spec("test", "pytest"))

	commands := m.Commands()
	if len(commands) != 2 || commands[0] != "ruff format ." || commands[1] != "pytest" {
		t.Errorf("Commands() = %v", commands)
	}
	tasks := m.Tasks()
	if len(tasks) != 2 || tasks[0] != "format" || tasks[1] != "test" {
		t.Errorf("Tasks() = %v", tasks)
	}

	m.Reset()
	if m.CallCount() != 0 || len(m.Calls()) != 0 {
		t.Error("Reset() should clear tracking state")
	}
}

func TestStepRunner_ConcurrentCalls(t *testing.T) {
	t.Parallel()
	m := NewStepRunner()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RunStep(context.Background(), spec("t", "x"))
		}()
	}
	wg.Wait()

	if m.CallCount() != 50 || len(m.Calls()) != 50 {
		t.Errorf("CallCount() = %d, len(Calls()) = %d; want 50", m.CallCount(), len(m.Calls()))
	}
}
