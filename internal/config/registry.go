package config

import (
	"fmt"
	"sort"

	"github.com/AndreyAkinshin/phony/internal/task"
)

// ToRegistry converts a validated task file into a task registry.
// Tasks are registered in name order.
func ToRegistry(f *File) (*task.Registry, error) {
	names := make([]string, 0, len(f.Tasks))
	for name := range f.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	r := task.NewRegistry()
	for _, name := range names {
		t, err := toTask(name, f.Tasks[name])
		if err != nil {
			return nil, err
		}
		r.Register(t)
	}
	return r, nil
}

func toTask(name string, tc TaskConfig) (task.Task, error) {
	t := task.Task{
		Name:        name,
		Description: tc.Description,
		DependsOn:   tc.DependsOn,
		Env:         tc.Env,
	}
	for i, sc := range tc.Steps {
		timeout, err := ParseTimeout(sc.Timeout)
		if err != nil {
			return task.Task{}, &ValidationError{
				Field:   fmt.Sprintf("tasks.%s.steps[%d].timeout", name, i),
				Message: err.Error(),
			}
		}
		t.Steps = append(t.Steps, task.Step{
			Command: sc.Cmd,
			Args:    sc.Args,
			Dir:     sc.Dir,
			Timeout: timeout,
		})
	}
	return t, nil
}
