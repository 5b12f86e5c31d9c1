package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// File represents a parsed task file.
type File struct {
	Schema string                `yaml:"$schema,omitempty" json:"$schema,omitempty"`
	Tasks  map[string]TaskConfig `yaml:"tasks" json:"tasks"`
}

// TaskConfig defines a single task.
type TaskConfig struct {
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	DependsOn   []string     `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Steps       []StepConfig `yaml:"steps,omitempty" json:"steps,omitempty"`
	Env         EnvMap       `yaml:"env,omitempty" json:"env,omitempty"`
}

// EnvMap holds task environment variables. Number and boolean values are
// kept as written.
type EnvMap map[string]string

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *EnvMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: env must be a mapping", node.Line)
	}
	env := make(EnvMap, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: env value for %q must be a scalar", value.Line, key.Value)
		}
		env[key.Value] = value.Value
	}
	*m = env
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *EnvMap) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("env must be an object: %w", err)
	}
	env := make(EnvMap, len(raw))
	for key, value := range raw {
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			env[key] = s
			continue
		}
		var scalar any
		if err := json.Unmarshal(value, &scalar); err != nil {
			return err
		}
		switch scalar.(type) {
		case float64, bool:
			env[key] = string(value)
		default:
			return fmt.Errorf("env value for %q must be a string, number or boolean", key)
		}
	}
	*m = env
	return nil
}

// StepConfig defines a single step. In a task file a step is written as
// one of:
//   - a string, split on whitespace into command and arguments
//   - a list, taken verbatim as command and arguments
//   - a mapping with cmd, args, dir and timeout fields
type StepConfig struct {
	Cmd     string   `yaml:"cmd" json:"cmd"`
	Args    []string `yaml:"args,omitempty" json:"args,omitempty"`
	Dir     string   `yaml:"dir,omitempty" json:"dir,omitempty"`
	Timeout string   `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler for the three step forms.
func (s *StepConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var line string
		if err := node.Decode(&line); err != nil {
			return err
		}
		step, err := stepFromLine(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*s = step
		return nil

	case yaml.SequenceNode:
		var argv []string
		if err := node.Decode(&argv); err != nil {
			return fmt.Errorf("line %d: step list must contain only strings: %w", node.Line, err)
		}
		step, err := stepFromArgv(argv)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*s = step
		return nil

	case yaml.MappingNode:
		// plain has no UnmarshalYAML, so Decode does not recurse here.
		type plain StepConfig
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		*s = StepConfig(p)
		return nil
	}
	return fmt.Errorf("line %d: step must be a string, a list or a mapping", node.Line)
}

// UnmarshalJSON implements json.Unmarshaler for the three step forms.
func (s *StepConfig) UnmarshalJSON(data []byte) error {
	var line string
	if err := json.Unmarshal(data, &line); err == nil {
		step, err := stepFromLine(line)
		if err != nil {
			return err
		}
		*s = step
		return nil
	}

	var argv []string
	if err := json.Unmarshal(data, &argv); err == nil {
		step, err := stepFromArgv(argv)
		if err != nil {
			return err
		}
		*s = step
		return nil
	}

	type plain StepConfig
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("step must be a string, a list of strings or an object")
	}
	*s = StepConfig(p)
	return nil
}

// stepFromLine splits a command line on whitespace. No quoting is
// interpreted; use the list form for arguments containing spaces.
func stepFromLine(line string) (StepConfig, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return StepConfig{}, fmt.Errorf("step must not be empty")
	}
	return StepConfig{Cmd: fields[0], Args: nonEmpty(fields[1:])}, nil
}

func stepFromArgv(argv []string) (StepConfig, error) {
	if len(argv) == 0 {
		return StepConfig{}, fmt.Errorf("step list must not be empty")
	}
	return StepConfig{Cmd: argv[0], Args: nonEmpty(argv[1:])}, nil
}

func nonEmpty(args []string) []string {
	if len(args) == 0 {
		return nil
	}
	return args
}
