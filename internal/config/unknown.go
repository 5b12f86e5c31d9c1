package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// detectUnknownFields compares a decoded document with the known struct
// fields and returns one warning per unrecognized key, sorted.
func detectUnknownFields(raw map[string]any) []string {
	var warnings []string

	knownTopLevel := getYAMLFields(reflect.TypeOf(File{}))
	for key := range raw {
		if !knownTopLevel[key] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
		}
	}

	if tasks, ok := raw["tasks"].(map[string]any); ok {
		warnings = append(warnings, checkTasksUnknownFields(tasks)...)
	}

	sort.Strings(warnings)
	return warnings
}

func checkTasksUnknownFields(tasks map[string]any) []string {
	var warnings []string

	knownTaskFields := getYAMLFields(reflect.TypeOf(TaskConfig{}))
	knownStepFields := getYAMLFields(reflect.TypeOf(StepConfig{}))

	for taskName, taskRaw := range tasks {
		fields, ok := taskRaw.(map[string]any)
		if !ok {
			continue
		}
		for key := range fields {
			if !knownTaskFields[key] {
				warnings = append(warnings, fmt.Sprintf("unknown field %q in task %q (ignored)", key, taskName))
			}
		}

		steps, _ := fields["steps"].([]any)
		for i, stepRaw := range steps {
			stepFields, ok := stepRaw.(map[string]any)
			if !ok {
				continue
			}
			for key := range stepFields {
				if !knownStepFields[key] {
					warnings = append(warnings, fmt.Sprintf("unknown field %q in step %d of task %q (ignored)", key, i+1, taskName))
				}
			}
		}
	}

	return warnings
}

// getYAMLFields returns a map of known YAML field names for a struct type.
func getYAMLFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		// Extract field name from tag (before comma)
		name := strings.Split(tag, ",")[0]
		if name != "" {
			fields[name] = true
		}
	}
	return fields
}
