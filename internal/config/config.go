// Package config loads and validates phony task files in YAML, JSON and HCL.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/phony/internal/schema"
)

// Format identifies a task file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// ErrEmptyFile is returned for task files without any content.
var ErrEmptyFile = errors.New("task file is empty")

// FormatOf returns the format of a task file from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("unsupported task file extension %q (use .yaml, .yml, .json or .hcl)", filepath.Ext(path))
}

// Load reads and parses a task file without validating it.
func Load(path string) (*File, error) {
	f, _, err := load(path)
	return f, err
}

// LoadAndValidate reads a task file, checks it against the schema, applies
// defaults, validates it, and returns warnings.
func LoadAndValidate(path string) (*File, []string, error) {
	f, unknownWarnings, err := load(path)
	if err != nil {
		return nil, nil, err
	}

	applyDefaults(f)

	validationWarnings, err := Validate(f)

	// Combine warnings from both sources.
	allWarnings := make([]string, 0, len(unknownWarnings)+len(validationWarnings))
	allWarnings = append(allWarnings, unknownWarnings...)
	allWarnings = append(allWarnings, validationWarnings...)

	if err != nil {
		return nil, allWarnings, err
	}

	return f, allWarnings, nil
}

func load(path string) (*File, []string, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read task file: %w", err)
	}

	switch format {
	case FormatJSON:
		return ParseJSON(data)
	case FormatHCL:
		root, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return nil, nil, err
		}
		return ParseHCL(data, path, NewEvalContext(root, os.Environ()))
	default:
		return ParseYAML(data)
	}
}

// ParseYAML parses a YAML task file and returns unknown field warnings.
func ParseYAML(data []byte) (*File, []string, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse task file: %w", err)
	}
	if raw == nil {
		return nil, nil, ErrEmptyFile
	}

	doc := schema.Normalize(raw)
	if err := schema.ValidateDocument(doc); err != nil {
		return nil, nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("failed to parse task file: %w", err)
	}

	fields, _ := doc.(map[string]any)
	return &f, detectUnknownFields(fields), nil
}

// ParseJSON parses a JSON task file and returns unknown field warnings.
func ParseJSON(data []byte) (*File, []string, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil, ErrEmptyFile
	}
	if err := schema.ValidateTaskFile(data); err != nil {
		return nil, nil, err
	}
	if err := checkDuplicateKeys(data); err != nil {
		return nil, nil, fmt.Errorf("failed to parse task file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("failed to parse task file: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		// Should not happen since File parsed successfully.
		return nil, nil, fmt.Errorf("failed to parse task file: %w", err)
	}
	return &f, detectUnknownFields(raw), nil
}

// checkDuplicateKeys rejects JSON objects that repeat a key, which
// encoding/json would otherwise resolve by keeping the last value.
func checkDuplicateKeys(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	return walkJSONValue(dec, "$")
}

func walkJSONValue(dec *json.Decoder, path string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '{':
		seen := make(map[string]bool)
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			key, _ := tok.(string)
			if seen[key] {
				return fmt.Errorf("duplicate key %q in %s", key, path)
			}
			seen[key] = true
			if err := walkJSONValue(dec, path+"."+key); err != nil {
				return err
			}
		}
	case '[':
		for i := 0; dec.More(); i++ {
			if err := walkJSONValue(dec, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}

	// Closing delimiter.
	_, err = dec.Token()
	return err
}
