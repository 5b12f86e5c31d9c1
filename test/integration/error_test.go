package integration

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	phonyerrors "github.com/AndreyAkinshin/phony/internal/errors"
	"github.com/AndreyAkinshin/phony/internal/project"
)

func TestProjectNotFoundError(t *testing.T) {
	t.Parallel()
	_, err := project.LoadProjectFrom(t.TempDir())
	if err == nil {
		t.Fatal("expected error when no task file exists")
	}
	if got := phonyerrors.GetExitCode(err); got != phonyerrors.ExitConfigError {
		t.Errorf("exit code = %d, want %d", got, phonyerrors.ExitConfigError)
	}
}

func TestCircularDependencyError(t *testing.T) {
	t.Parallel()
	proj := loadFixture(t, "invalid", "cycle")

	_, err := proj.Registry.Plan("x")
	if err == nil {
		t.Fatal("expected error for circular dependencies")
	}
	if phonyerrors.KindOf(err) != phonyerrors.KindCycle {
		t.Errorf("kind = %v, want KindCycle", phonyerrors.KindOf(err))
	}
	var pe *phonyerrors.Error
	if !errors.As(err, &pe) {
		t.Fatalf("error %T is not *errors.Error", err)
	}
	if diff := cmp.Diff([]string{"x", "y", "x"}, pe.Cycle); diff != "" {
		t.Errorf("cycle mismatch (-want +got):\n%s", diff)
	}

	if err := proj.Validate(); err == nil || !strings.Contains(err.Error(), "circular") {
		t.Errorf("Validate() = %v, want circular dependency error", err)
	}
}

func TestUnknownPrerequisiteError(t *testing.T) {
	t.Parallel()
	proj := loadFixture(t, "invalid", "unknown-dep")

	// lint alone does not touch the unknown reference.
	if _, err := proj.Registry.Plan("lint"); err != nil {
		t.Errorf("Plan(lint) error = %v", err)
	}

	_, err := proj.Registry.Plan("ci")
	if phonyerrors.KindOf(err) != phonyerrors.KindUnknownTask {
		t.Fatalf("Plan(ci) error = %v, want unknown task", err)
	}
	if !strings.Contains(err.Error(), `task "ci" depends on unknown task "deploy"`) {
		t.Errorf("error = %q", err)
	}
}

func TestSchemaViolationError(t *testing.T) {
	t.Parallel()
	_, err := project.LoadFile(filepath.Join(fixturesDir(), "invalid", "bad-schema", "phony.yaml"))
	if err == nil {
		t.Fatal("expected schema violation error")
	}
	if got := phonyerrors.GetExitCode(err); got != phonyerrors.ExitConfigError {
		t.Errorf("exit code = %d, want %d", got, phonyerrors.ExitConfigError)
	}
}
