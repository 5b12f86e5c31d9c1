package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const sampleYAML = `
tasks:
  format:
    description: Format the code
    steps:
      - ruff format .
      - [ruff, check, --fix, "a b"]
  test:
    steps:
      - cmd: pytest
        args: [-q]
        dir: tests
        timeout: 5m
    env:
      PYTHONPATH: src
  ci:
    depends_on: [format, test]
`

func TestLoadAndValidate_YAML(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "phony.yaml", sampleYAML)

	f, warnings, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	want := map[string]TaskConfig{
		"format": {
			Description: "Format the code",
			Steps: []StepConfig{
				{Cmd: "ruff", Args: []string{"format", "."}},
				{Cmd: "ruff", Args: []string{"check", "--fix", "a b"}},
			},
		},
		"test": {
			Steps: []StepConfig{{Cmd: "pytest", Args: []string{"-q"}, Dir: "tests", Timeout: "5m"}},
			Env:   map[string]string{"PYTHONPATH": "src"},
		},
		"ci": {DependsOn: []string{"format", "test"}},
	}
	if diff := cmp.Diff(want, f.Tasks); diff != "" {
		t.Errorf("Tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAndValidate_JSON(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "phony.json", `{
	"tasks": {
		"lint": {"steps": ["ruff check .", ["mypy", "src"], {"cmd": "echo", "args": ["done"]}]},
		"ci": {"depends_on": ["lint"], "description": "everything"}
	}
}`)

	f, _, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate() error = %v", err)
	}

	want := map[string]TaskConfig{
		"lint": {Steps: []StepConfig{
			{Cmd: "ruff", Args: []string{"check", "."}},
			{Cmd: "mypy", Args: []string{"src"}},
			{Cmd: "echo", Args: []string{"done"}},
		}},
		"ci": {DependsOn: []string{"lint"}, Description: "everything"},
	}
	if diff := cmp.Diff(want, f.Tasks); diff != "" {
		t.Errorf("Tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAndValidate_NullTask(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "phony.yml", "tasks:\n  all:\n  other:\n    depends_on: [all]\n")

	f, warnings, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate() error = %v", err)
	}
	if _, ok := f.Tasks["all"]; !ok {
		t.Error("task all missing")
	}
	found := false
	for _, w := range warnings {
		if strings.Contains(w, `"all" has no steps`) {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want no-steps warning for all", warnings)
	}
}

func TestLoadAndValidate_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"malformed yaml", "phony.yaml", "tasks: [", "failed to parse"},
		{"malformed json", "phony.json", `{"tasks": {`, "invalid JSON"},
		{"empty yaml", "phony.yaml", "", "empty"},
		{"empty json", "phony.json", "  \n", "empty"},
		{"missing tasks", "phony.yaml", "other: 1\n", "validation failed"},
		{"bad task name", "phony.yaml", "tasks:\n  1bad:\n    steps: [x]\n", "validation failed"},
		{"empty step list", "phony.yaml", "tasks:\n  t:\n    steps: [[]]\n", "validation failed"},
		{"step without cmd", "phony.yaml", "tasks:\n  t:\n    steps:\n      - args: [x]\n", "validation failed"},
		{"bad timeout", "phony.yaml", "tasks:\n  t:\n    steps:\n      - cmd: x\n        timeout: soon\n", "invalid duration"},
		{"negative timeout", "phony.yaml", "tasks:\n  t:\n    steps:\n      - cmd: x\n        timeout: -1s\n", "must be positive"},
		{"duplicate key", "phony.yaml", "tasks:\n  t: {}\n  t: {}\n", "failed to parse"},
		{"unsupported extension", "phony.toml", "", "unsupported task file extension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, tt.file, tt.content)
			_, _, err := LoadAndValidate(path)
			if err == nil {
				t.Fatalf("LoadAndValidate() error = nil, want %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadAndValidate() error = %v, want to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "phony.yaml"))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want not-exist", err)
	}
}

func TestLoad_EmptyFileSentinel(t *testing.T) {
	t.Parallel()
	_, err := Load(writeFile(t, "phony.yaml", "# only a comment\n"))
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("Load() error = %v, want ErrEmptyFile", err)
	}
}

func TestFormatOf(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path string
		want Format
	}{
		{"phony.yaml", FormatYAML},
		{"phony.yml", FormatYAML},
		{"dir/PHONY.YAML", FormatYAML},
		{"phony.json", FormatJSON},
		{"phony.hcl", FormatHCL},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("FormatOf(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
		}
	}
	if _, err := FormatOf("Makefile"); err == nil {
		t.Error("FormatOf(Makefile) error = nil, want error")
	}
}

func TestToRegistry(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "phony.yaml", sampleYAML)
	f, _, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate() error = %v", err)
	}

	r, err := ToRegistry(f)
	if err != nil {
		t.Fatalf("ToRegistry() error = %v", err)
	}
	if diff := cmp.Diff([]string{"ci", "format", "test"}, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	test, err := r.Lookup("test")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if test.Steps[0].Timeout != 5*time.Minute {
		t.Errorf("Timeout = %v, want 5m", test.Steps[0].Timeout)
	}
	if test.Steps[0].String() != "pytest -q" || test.Steps[0].Dir != "tests" {
		t.Errorf("Step = %+v", test.Steps[0])
	}

	plan, err := r.Plan("ci")
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if diff := cmp.Diff([]string{"format", "test", "ci"}, []string(plan)); diff != "" {
		t.Errorf("Plan() mismatch (-want +got):\n%s", diff)
	}
}

func TestToRegistry_BadTimeout(t *testing.T) {
	t.Parallel()
	f := &File{Tasks: map[string]TaskConfig{
		"t": {Steps: []StepConfig{{Cmd: "x", Timeout: "later"}}},
	}}
	_, err := ToRegistry(f)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("ToRegistry() error = %v, want *ValidationError", err)
	}
	if ve.Field != "tasks.t.steps[0].timeout" {
		t.Errorf("Field = %q", ve.Field)
	}
}

func TestEnvMap_ScalarValues(t *testing.T) {
	t.Parallel()
	want := EnvMap{"NAME": "app", "WORKERS": "4", "RATIO": "0.5", "DEBUG": "true"}

	yamlFile, _, err := ParseYAML([]byte(`tasks:
  run:
    steps: [serve]
    env:
      NAME: app
      WORKERS: 4
      RATIO: 0.5
      DEBUG: true
`))
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	if diff := cmp.Diff(want, yamlFile.Tasks["run"].Env); diff != "" {
		t.Errorf("YAML env mismatch (-want +got):\n%s", diff)
	}

	jsonFile, _, err := ParseJSON([]byte(`{"tasks": {"run": {"steps": ["serve"],
		"env": {"NAME": "app", "WORKERS": 4, "RATIO": 0.5, "DEBUG": true}}}}`))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if diff := cmp.Diff(want, jsonFile.Tasks["run"].Env); diff != "" {
		t.Errorf("JSON env mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSON_DuplicateKeys(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "task",
			data: `{"tasks": {"lint": {"steps": ["echo first"]}, "lint": {"steps": ["echo second"]}}}`,
			want: `duplicate key "lint" in $.tasks`,
		},
		{
			name: "env",
			data: `{"tasks": {"t": {"env": {"A": "1", "A": "2"}}}}`,
			want: `duplicate key "A" in $.tasks.t.env`,
		},
		{
			name: "step mapping",
			data: `{"tasks": {"t": {"steps": ["true", {"cmd": "a", "cmd": "b"}]}}}`,
			want: `duplicate key "cmd" in $.tasks.t.steps[1]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := ParseJSON([]byte(tt.data))
			if err == nil {
				t.Fatal("ParseJSON() error = nil, want duplicate key error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ParseJSON() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestParseJSON_SameKeyInSeparateObjects(t *testing.T) {
	t.Parallel()
	data := []byte(`{"tasks": {"a": {"steps": [{"cmd": "x"}, {"cmd": "y"}]}, "b": {"steps": [{"cmd": "z"}]}}}`)

	f, _, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if len(f.Tasks) != 2 {
		t.Errorf("len(Tasks) = %d, want 2", len(f.Tasks))
	}
}
