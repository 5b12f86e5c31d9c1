// Package task provides the task model, the task registry and execution planning.
package task

import (
	"strings"
	"time"
)

// Step is one opaque external command invocation.
type Step struct {
	Command string        // Executable name or path
	Args    []string      // Arguments passed verbatim
	Dir     string        // Working directory; empty means the project root
	Timeout time.Duration // Zero means no timeout
}

// String returns the step's command line for display.
func (s Step) String() string {
	if len(s.Args) == 0 {
		return s.Command
	}
	parts := make([]string, 0, len(s.Args)+1)
	parts = append(parts, s.Command)
	for _, arg := range s.Args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

// quoteArg wraps arguments containing whitespace or quotes so the displayed
// command line stays unambiguous.
func quoteArg(arg string) string {
	if arg == "" {
		return `""`
	}
	if strings.ContainsAny(arg, " \t\n\"'") {
		return `"` + strings.ReplaceAll(arg, `"`, `\"`) + `"`
	}
	return arg
}

// Task is a named phony unit of work: it has prerequisites and ordered steps
// and never declares outputs, so reaching it always runs its steps.
type Task struct {
	Name        string
	Description string
	DependsOn   []string
	Steps       []Step
	Env         map[string]string
}

// clone returns a deep copy of t with duplicate prerequisites collapsed.
func (t Task) clone() Task {
	c := Task{
		Name:        t.Name,
		Description: t.Description,
		DependsOn:   dedupe(t.DependsOn),
	}
	if len(t.Steps) > 0 {
		c.Steps = make([]Step, len(t.Steps))
		for i, s := range t.Steps {
			s.Args = append([]string(nil), s.Args...)
			c.Steps[i] = s
		}
	}
	if len(t.Env) > 0 {
		c.Env = make(map[string]string, len(t.Env))
		for k, v := range t.Env {
			c.Env[k] = v
		}
	}
	return c
}

// dedupe removes repeated names, keeping the first occurrence.
// Always returns a non-nil slice.
func dedupe(names []string) []string {
	result := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, name)
	}
	return result
}
