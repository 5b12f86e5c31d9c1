package project

import (
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/phony/internal/config"
	phonyerrors "github.com/AndreyAkinshin/phony/internal/errors"
	"github.com/AndreyAkinshin/phony/internal/task"
)

// Project represents a loaded task file.
type Project struct {
	Root     string // Directory holding the task file
	Path     string // Absolute path of the task file
	Format   config.Format
	Registry *task.Registry
	Warnings []string
}

// LoadProject finds and loads a task file from the current directory.
func LoadProject() (*Project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, phonyerrors.Wrap(err, "cannot determine working directory")
	}
	return LoadProjectFrom(cwd)
}

// LoadProjectFrom finds a task file starting at dir and loads it.
func LoadProjectFrom(dir string) (*Project, error) {
	path, err := FindTaskFileFrom(dir)
	if err != nil {
		return nil, phonyerrors.WrapConfig(err, "cannot load tasks")
	}
	return LoadFile(path)
}

// LoadFile loads the task file at path. Its directory becomes the project root.
// Every error is a configuration error.
func LoadFile(path string) (*Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, phonyerrors.WrapConfig(err, "invalid task file path")
	}

	format, err := config.FormatOf(abs)
	if err != nil {
		return nil, phonyerrors.WrapConfig(err, "cannot load tasks")
	}

	f, warnings, err := config.LoadAndValidate(abs)
	if err != nil {
		return nil, phonyerrors.WrapConfig(err, "failed to load "+abs)
	}

	registry, err := config.ToRegistry(f)
	if err != nil {
		return nil, phonyerrors.WrapConfig(err, "failed to load "+abs)
	}

	return &Project{
		Root:     filepath.Dir(abs),
		Path:     abs,
		Format:   format,
		Registry: registry,
		Warnings: warnings,
	}, nil
}

// Validate checks every task's prerequisites for unknown names and cycles.
func (p *Project) Validate() error {
	return p.Registry.Validate()
}
