package cli

import (
	"strings"
	"testing"

	phonyerrors "github.com/AndreyAkinshin/phony/internal/errors"
)

func TestCmdCompletion_Shells(t *testing.T) {
	tests := []struct {
		shell string
		want  []string
	}{
		{"bash", []string{"complete -F _phony phony", "phony --list --quiet", "--dry-run", "-n"}},
		{"zsh", []string{"#compdef phony", "phony --list --quiet", "'(-f --file)'{-f,--file}'[Use this task file]:file:_files'"}},
		{"fish", []string{"complete -c phony -s n -l dry-run", "complete -c phony -l validate", "phony --list --quiet"}},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			stdout, _ := captureOutput(t)
			if code := cmdCompletion(tt.shell); code != 0 {
				t.Fatalf("cmdCompletion(%q) = %d, want 0", tt.shell, code)
			}
			for _, want := range tt.want {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("%s completion missing %q", tt.shell, want)
				}
			}
		})
	}
}

func TestCmdCompletion_UnknownShell(t *testing.T) {
	stdout, stderr := captureOutput(t)
	if code := cmdCompletion("powershell"); code != phonyerrors.ExitConfigError {
		t.Errorf("cmdCompletion(powershell) = %d, want %d", code, phonyerrors.ExitConfigError)
	}
	if stdout.Len() != 0 {
		t.Errorf("unexpected stdout: %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), `unsupported shell "powershell"`) {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_Completion(t *testing.T) {
	stdout, _ := captureOutput(t)
	// No task file is needed to print a completion script.
	if code := runIn(t, t.TempDir(), "--completion=bash"); code != 0 {
		t.Fatalf("Run(--completion=bash) = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "_phony") {
		t.Errorf("stdout missing completion function:\n%s", stdout.String())
	}
}

func TestRun_CompletionRejectsTask(t *testing.T) {
	captureOutput(t)
	if code := runIn(t, t.TempDir(), "--completion", "bash", "ci"); code != phonyerrors.ExitConfigError {
		t.Errorf("Run(--completion bash ci) = %d, want %d", code, phonyerrors.ExitConfigError)
	}
}

func TestFlagWords(t *testing.T) {
	words := flagWords()
	if words[0] != "-n" {
		t.Errorf("first flag = %q, want short flags first", words[0])
	}
	seen := make(map[string]bool)
	for _, w := range words {
		if seen[w] {
			t.Errorf("duplicate flag %q", w)
		}
		seen[w] = true
	}
	for _, want := range []string{"-f", "--file", "--validate", "--log-level"} {
		if !seen[want] {
			t.Errorf("missing flag %q", want)
		}
	}
}
