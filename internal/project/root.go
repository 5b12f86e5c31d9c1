// Package project provides task file discovery and loading.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/phony/internal/config"
)

// ErrNoProjectRoot is returned when no task file is found.
var ErrNoProjectRoot = fmt.Errorf("no task file found (looked for %s in the current directory and its parents)",
	strings.Join(config.DefaultFileNames, ", "))

// FindRoot walks up from the current working directory until it finds a task file.
func FindRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindRootFrom(cwd)
}

// FindRootFrom walks up from the given directory until it finds a task file
// and returns the directory holding it.
func FindRootFrom(startDir string) (string, error) {
	path, err := FindTaskFileFrom(startDir)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// FindTaskFileFrom walks up from the given directory and returns the path
// of the first task file found. Within one directory, names are tried in
// the order of config.DefaultFileNames.
func FindTaskFileFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range config.DefaultFileNames {
			path := filepath.Join(dir, name)
			info, err := os.Stat(path)
			if err == nil && !info.IsDir() {
				return path, nil
			}
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return "", err
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", ErrNoProjectRoot
		}
		dir = parent
	}
}
