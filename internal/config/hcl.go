package config

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// hclRoot decodes the top-level blocks of an HCL task file.
type hclRoot struct {
	Tasks  []*hclTask `hcl:"task,block"`
	Remain hcl.Body   `hcl:",remain"`
}

type hclTask struct {
	Name        string            `hcl:"name,label"`
	Description string            `hcl:"description,optional"`
	DependsOn   []string          `hcl:"depends_on,optional"`
	Env         map[string]string `hcl:"env,optional"`
	Steps       []*hclStep        `hcl:"step,block"`
	Remain      hcl.Body          `hcl:",remain"`
}

type hclStep struct {
	Cmd     string   `hcl:"cmd"`
	Args    []string `hcl:"args,optional"`
	Dir     string   `hcl:"dir,optional"`
	Timeout string   `hcl:"timeout,optional"`
	Remain  hcl.Body `hcl:",remain"`
}

// NewEvalContext builds the variables visible to HCL expressions:
// root is the project root and env.NAME reads the process environment,
// given as KEY=VALUE entries.
func NewEvalContext(root string, environ []string) *hcl.EvalContext {
	env := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}

	envVal := cty.EmptyObjectVal
	if len(env) > 0 {
		envVal = cty.ObjectVal(env)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"root": cty.StringVal(root),
			"env":  envVal,
		},
	}
}

// ParseHCL parses an HCL task file. filename is used in diagnostics.
// Repeated task blocks replace earlier ones and produce a warning.
func ParseHCL(data []byte, filename string, evalCtx *hcl.EvalContext) (*File, []string, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root hclRoot
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	var warnings []string
	warnings = append(warnings, remainWarnings(root.Remain, "at root level", "task")...)

	f := &File{Tasks: make(map[string]TaskConfig, len(root.Tasks))}
	for _, t := range root.Tasks {
		if _, exists := f.Tasks[t.Name]; exists {
			warnings = append(warnings, fmt.Sprintf("task %q is defined more than once; the last definition wins", t.Name))
		}
		warnings = append(warnings, remainWarnings(t.Remain, fmt.Sprintf("in task %q", t.Name), "step")...)

		tc := TaskConfig{
			Description: t.Description,
			DependsOn:   t.DependsOn,
			Env:         t.Env,
		}
		for i, s := range t.Steps {
			warnings = append(warnings, remainWarnings(s.Remain, fmt.Sprintf("in step %d of task %q", i+1, t.Name))...)
			tc.Steps = append(tc.Steps, StepConfig{
				Cmd:     s.Cmd,
				Args:    nonEmpty(s.Args),
				Dir:     s.Dir,
				Timeout: s.Timeout,
			})
		}
		f.Tasks[t.Name] = tc
	}

	return f, warnings, nil
}

// remainWarnings reports attributes and blocks left over after decoding a
// block. known lists the block types the enclosing struct decodes itself.
func remainWarnings(body hcl.Body, where string, known ...string) []string {
	if body == nil {
		return nil
	}
	attrs, diags := body.JustAttributes()
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	warnings := make([]string, 0, len(names))
	for _, name := range names {
		warnings = append(warnings, fmt.Sprintf("unknown field %q %s (ignored)", name, where))
	}

	syntaxBody, ok := body.(*hclsyntax.Body)
	if !ok {
		// JustAttributes reports only the first block it meets.
		for _, d := range diags {
			warnings = append(warnings, fmt.Sprintf("%s %s (ignored)", d.Summary, where))
		}
		return warnings
	}
	for _, block := range syntaxBody.Blocks {
		if slices.Contains(known, block.Type) {
			continue
		}
		warnings = append(warnings, fmt.Sprintf("unknown block %q %s (ignored)", block.Type, where))
	}
	return warnings
}
