// Package integration contains integration tests for phony.
package integration

import (
	"bytes"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/AndreyAkinshin/phony/internal/executor"
	"github.com/AndreyAkinshin/phony/internal/output"
	"github.com/AndreyAkinshin/phony/internal/project"
	"github.com/AndreyAkinshin/phony/internal/runner"
)

var (
	fixturesDirOnce sync.Once
	fixturesDirPath string
)

// fixturesDir returns the path to the test fixtures directory.
func fixturesDir() string {
	fixturesDirOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		fixturesDirPath = filepath.Join(filepath.Dir(filename), "..", "fixtures")
	})
	return fixturesDirPath
}

// loadFixture loads the task file of the named fixture directory.
func loadFixture(t *testing.T, name ...string) *project.Project {
	t.Helper()
	dir := filepath.Join(append([]string{fixturesDir()}, name...)...)
	proj, err := project.LoadProjectFrom(dir)
	if err != nil {
		t.Fatalf("failed to load %s: %v", dir, err)
	}
	return proj
}

// processRunner returns a runner that executes real processes for proj and
// collects both phony's output and the steps' output in buf.
func processRunner(proj *project.Project, buf *bytes.Buffer) *runner.Runner {
	steps := executor.WithTimeouts(executor.NewProcessRunner(proj.Root).WithStreams(nil, buf, buf))
	return runner.New(proj.Registry, steps, output.NewWithWriters(buf, buf, false), proj.Root)
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("steps use POSIX tools")
	}
}
