// Package schema provides JSON schema validation for phony task files.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "github.com/AndreyAkinshin/phony/schema"
)

var (
	taskFileSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// compileSchemas compiles the embedded schema once.
func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		data, err := schemafs.FS.ReadFile(schemafs.TaskFile)
		if err != nil {
			compileErr = fmt.Errorf("read task file schema: %w", err)
			return
		}

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal task file schema: %w", err)
			return
		}

		if err := compiler.AddResource(schemafs.TaskFileID, doc); err != nil {
			compileErr = fmt.Errorf("add task file schema resource: %w", err)
			return
		}

		taskFileSchema, err = compiler.Compile(schemafs.TaskFileID)
		if err != nil {
			compileErr = fmt.Errorf("compile task file schema: %w", err)
			return
		}
	})

	return compileErr
}

// ValidateTaskFile validates JSON data against the task file schema.
func ValidateTaskFile(data []byte) error {
	if err := compileSchemas(); err != nil {
		return err
	}

	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := taskFileSchema.Validate(v); err != nil {
		return fmt.Errorf("task file validation failed: %w", err)
	}

	return nil
}

// ValidateDocument validates an already decoded document, such as one read
// from YAML. Maps with non-string keys are converted to string keys first.
func ValidateDocument(doc any) error {
	data, err := json.Marshal(Normalize(doc))
	if err != nil {
		return fmt.Errorf("task file is not representable as JSON: %w", err)
	}
	return ValidateTaskFile(data)
}

// Normalize converts map[any]any values into map[string]any so the document
// can be marshaled as JSON.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = Normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out
	default:
		return v
	}
}
