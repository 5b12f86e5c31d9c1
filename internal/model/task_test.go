package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskResult_ZeroValue(t *testing.T) {
	var result TaskResult

	if result.Name != "" {
		t.Errorf("expected empty Name, got %q", result.Name)
	}
	if result.Success {
		t.Error("expected Success to be false")
	}
	if result.Duration != 0 {
		t.Errorf("expected Duration to be 0, got %v", result.Duration)
	}
	if result.Error != nil {
		t.Errorf("expected Error to be nil, got %v", result.Error)
	}
}

func TestTaskRunSummary_Add(t *testing.T) {
	var summary TaskRunSummary

	summary.Add(TaskResult{Name: "lint", Success: true, Steps: 2, Duration: time.Second})
	summary.Add(TaskResult{Name: "test", Success: false, Steps: 1, Error: errors.New("boom")})

	if summary.Passed != 1 {
		t.Errorf("Passed = %d, want 1", summary.Passed)
	}
	if summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", summary.Failed)
	}
	if len(summary.Tasks) != 2 {
		t.Fatalf("len(Tasks) = %d, want 2", len(summary.Tasks))
	}
	if summary.Tasks[1].Name != "test" {
		t.Errorf("Tasks[1].Name = %q, want %q", summary.Tasks[1].Name, "test")
	}
}

func TestTaskRunSummary_Success(t *testing.T) {
	summary := &TaskRunSummary{}
	if !summary.Success() {
		t.Error("summary without failure should be successful")
	}

	summary.Failure = &Failure{Task: "test", StepIndex: 1, ExitCode: 2}
	if summary.Success() {
		t.Error("summary with failure should not be successful")
	}
}
