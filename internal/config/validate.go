package config

import (
	"fmt"
	"regexp"
	"sort"
	"time"
)

// taskNamePattern matches valid task names: a letter followed by letters,
// digits and the separators _ . : -
var taskNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.:-]*$`)

// ValidationError represents a task file validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a task file for errors and returns warnings for non-fatal
// issues. Tasks are checked in name order so the first reported error is
// stable. Prerequisites are only checked for well-formed names here;
// whether they exist is decided when a plan is built.
func Validate(f *File) (warnings []string, err error) {
	names := make([]string, 0, len(f.Tasks))
	for name := range f.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ValidateTaskName(name); err != nil {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("tasks.%s", name),
				Message: err.Error(),
			}
		}
		taskWarnings, err := validateTask(name, f.Tasks[name])
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, taskWarnings...)
	}

	return warnings, nil
}

// ValidateTaskName checks a task name against the naming rules.
func ValidateTaskName(name string) error {
	if !taskNamePattern.MatchString(name) {
		return fmt.Errorf("task name %q must match pattern ^[A-Za-z][A-Za-z0-9_.:-]*$", name)
	}
	return nil
}

func validateTask(name string, t TaskConfig) ([]string, error) {
	var warnings []string

	seen := make(map[string]bool, len(t.DependsOn))
	for i, dep := range t.DependsOn {
		if err := ValidateTaskName(dep); err != nil {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("tasks.%s.depends_on[%d]", name, i),
				Message: err.Error(),
			}
		}
		if seen[dep] {
			warnings = append(warnings, fmt.Sprintf("task %q lists prerequisite %q more than once", name, dep))
		}
		seen[dep] = true
	}

	for i, step := range t.Steps {
		if err := validateStep(name, i, step); err != nil {
			return nil, err
		}
	}

	if len(t.Steps) == 0 && len(t.DependsOn) == 0 {
		warnings = append(warnings, fmt.Sprintf("task %q has no steps and no prerequisites", name))
	}

	return warnings, nil
}

func validateStep(taskName string, index int, s StepConfig) error {
	field := fmt.Sprintf("tasks.%s.steps[%d]", taskName, index)
	if s.Cmd == "" {
		return &ValidationError{Field: field + ".cmd", Message: "is required"}
	}
	if s.Timeout != "" {
		if _, err := ParseTimeout(s.Timeout); err != nil {
			return &ValidationError{Field: field + ".timeout", Message: err.Error()}
		}
	}
	return nil
}

// ParseTimeout parses a step timeout written as a Go duration ("90s", "5m").
// An empty string means no timeout.
func ParseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (examples: 30s, 5m, 1h30m)", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", s)
	}
	return d, nil
}
