package task

import (
	"regexp"
	"strings"
)

// varPattern matches variable references in the format ${varname}.
// Captures the variable name in group 1.
var varPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// escapePlaceholder temporarily stands in for an escaped reference ($${var})
// during interpolation. NUL cannot appear in a task file, so it never
// collides with user text.
const escapePlaceholder = "\x00ESCAPED\x00"

// Vars returns the built-in variables available to the steps of a task:
//   - ${task}: the task name
//   - ${root}: the project root directory
func Vars(taskName, root string) map[string]string {
	return map[string]string{
		"task": taskName,
		"root": root,
	}
}

// Interpolate replaces ${name} references in s with values from vars.
// Unknown references are kept as-is and $${name} yields a literal ${name}.
func Interpolate(s string, vars map[string]string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	result := strings.ReplaceAll(s, "$${", escapePlaceholder)

	result = varPattern.ReplaceAllStringFunc(result, func(match string) string {
		name := match[2 : len(match)-1]
		if val, ok := vars[name]; ok {
			return val
		}
		return match
	})

	return strings.ReplaceAll(result, escapePlaceholder, "${")
}

// Expand returns a copy of s with variables interpolated into the command,
// the arguments and the working directory.
func (s Step) Expand(vars map[string]string) Step {
	expanded := Step{
		Command: Interpolate(s.Command, vars),
		Dir:     Interpolate(s.Dir, vars),
		Timeout: s.Timeout,
	}
	if len(s.Args) > 0 {
		expanded.Args = make([]string, len(s.Args))
		for i, arg := range s.Args {
			expanded.Args[i] = Interpolate(arg, vars)
		}
	}
	return expanded
}
