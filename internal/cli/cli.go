// Package cli provides the command-line interface for phony.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	phonyerrors "github.com/AndreyAkinshin/phony/internal/errors"
	"github.com/AndreyAkinshin/phony/internal/logging"
	"github.com/AndreyAkinshin/phony/internal/output"
)

// Version is set at build time.
var Version = "dev"

// Environment variables consulted when the matching flag is absent.
const (
	envFile      = "PHONY_FILE"
	envLogLevel  = "PHONY_LOG_LEVEL"
	envLogFormat = "PHONY_LOG_FORMAT"
)

// wantsHelp returns true if args contain -h or --help before any -- separator.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
		if arg == "--" {
			return false
		}
	}
	return false
}

// wantsVersion returns true if args contain --version before any -- separator.
func wantsVersion(args []string) bool {
	for _, arg := range args {
		if arg == "--version" {
			return true
		}
		if arg == "--" {
			return false
		}
	}
	return false
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	return RunContext(context.Background(), args)
}

// RunContext is Run with a caller-supplied context. Cancelling ctx stops the
// step that is currently running and skips everything after it.
func RunContext(ctx context.Context, args []string) int {
	if wantsHelp(args) {
		printUsage(out)
		return phonyerrors.ExitSuccess
	}
	if wantsVersion(args) {
		out.Println("phony %s", Version)
		return phonyerrors.ExitSuccess
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err == nil {
		err = resolveOptions(opts, os.LookupEnv)
	}
	if err != nil {
		return usageError(err)
	}
	applyVerbosityToOutput(opts)

	logger := logging.New(opts.LogLevel, opts.LogFormat, os.Stderr)
	ctx = logging.WithLogger(ctx, logger)

	if opts.Completion != "" {
		if len(remaining) > 0 {
			return usageError(fmt.Errorf("--completion takes no task name"))
		}
		return cmdCompletion(opts.Completion)
	}

	var taskName string
	if !opts.List && !opts.Validate {
		taskName, err = taskArg(remaining)
		if err != nil {
			return usageError(err)
		}
	} else if len(remaining) > 0 {
		return usageError(fmt.Errorf("unexpected argument %q", remaining[0]))
	}

	proj, code := loadProject(opts.File)
	if proj == nil {
		return code
	}
	logger.Debug("loaded task file", "path", proj.Path, "format", string(proj.Format), "tasks", proj.Registry.Len())
	for _, w := range proj.Warnings {
		out.WarningSimple("%s", w)
	}

	switch {
	case opts.List:
		return cmdList(proj)
	case opts.Validate:
		return cmdValidate(proj)
	default:
		return cmdRun(ctx, proj, taskName, opts)
	}
}

// usageError reports a command-line mistake and returns the usage exit code.
func usageError(err error) int {
	out.ErrorPrefix("%v", err)
	out.Hint("run 'phony --help' for usage")
	return phonyerrors.ExitConfigError
}

// taskArg extracts the single task name from the positional arguments.
func taskArg(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", fmt.Errorf("no task given")
	case 1:
		if args[0] == "" {
			return "", fmt.Errorf("task name must not be empty")
		}
		return args[0], nil
	default:
		return "", fmt.Errorf("exactly one task name expected, got %d (%s)", len(args), strings.Join(args, " "))
	}
}

// GlobalOptions holds parsed global flags.
type GlobalOptions struct {
	DryRun     bool
	List       bool
	Validate   bool
	Quiet      bool
	Verbose    bool
	File       string
	LogLevel   string
	LogFormat  string
	Completion string
}

// parseGlobalFlags manually parses flags from arguments.
//
// Manual parsing is used instead of stdlib flag package because:
// - Flags can appear before or after the task name
// - Removed flags need their own error messages
// - Both "--flag value" and "--flag=value" forms are accepted
func parseGlobalFlags(args []string) (*GlobalOptions, []string, error) {
	opts := &GlobalOptions{}
	var remaining []string

	// value returns the argument following a flag that takes a value.
	value := func(i int, flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", flag)
		}
		return args[i+1], nil
	}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "-n" || arg == "--dry-run":
			opts.DryRun = true
			i++
		case arg == "-l" || arg == "--list":
			opts.List = true
			i++
		case arg == "--validate":
			opts.Validate = true
			i++
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
			i++
		case arg == "-v" || arg == "--verbose":
			opts.Verbose = true
			i++
		case arg == "--continue":
			return nil, nil, fmt.Errorf("--continue is not supported; phony always stops at the first failing step")
		case arg == "-f" || arg == "--file":
			v, err := value(i, arg)
			if err != nil {
				return nil, nil, err
			}
			if v == "" {
				return nil, nil, fmt.Errorf("%s requires a value", arg)
			}
			opts.File = v
			i += 2
		case strings.HasPrefix(arg, "--file="):
			opts.File = strings.TrimPrefix(arg, "--file=")
			if opts.File == "" {
				return nil, nil, fmt.Errorf("--file requires a value")
			}
			i++
		case arg == "--log-level":
			v, err := value(i, arg)
			if err != nil {
				return nil, nil, err
			}
			opts.LogLevel = v
			i += 2
		case strings.HasPrefix(arg, "--log-level="):
			opts.LogLevel = strings.TrimPrefix(arg, "--log-level=")
			i++
		case arg == "--log-format":
			v, err := value(i, arg)
			if err != nil {
				return nil, nil, err
			}
			opts.LogFormat = v
			i += 2
		case strings.HasPrefix(arg, "--log-format="):
			opts.LogFormat = strings.TrimPrefix(arg, "--log-format=")
			i++
		case arg == "--completion":
			v, err := value(i, arg)
			if err != nil {
				return nil, nil, err
			}
			opts.Completion = v
			i += 2
		case strings.HasPrefix(arg, "--completion="):
			opts.Completion = strings.TrimPrefix(arg, "--completion=")
			i++
		case arg == "--":
			// Everything after -- is positional.
			remaining = append(remaining, args[i+1:]...)
			i = len(args)
		case len(arg) > 1 && strings.HasPrefix(arg, "-"):
			return nil, nil, fmt.Errorf("unknown flag %q", arg)
		default:
			remaining = append(remaining, arg)
			i++
		}
	}

	if err := validateGlobalOptions(opts); err != nil {
		return nil, nil, err
	}
	return opts, remaining, nil
}

// validateGlobalOptions checks that global options are valid.
func validateGlobalOptions(opts *GlobalOptions) error {
	if opts.Quiet && opts.Verbose {
		return fmt.Errorf("--quiet and --verbose are mutually exclusive")
	}
	if opts.List && opts.Validate {
		return fmt.Errorf("--list and --validate are mutually exclusive")
	}
	if opts.DryRun && (opts.List || opts.Validate) {
		return fmt.Errorf("--dry-run cannot be combined with --list or --validate")
	}
	return nil
}

// resolveOptions fills unset options from the environment and checks the
// logging settings. -v lowers the default log level to info.
func resolveOptions(opts *GlobalOptions, lookup func(string) (string, bool)) error {
	if opts.File == "" {
		if v, ok := lookup(envFile); ok {
			opts.File = v
		}
	}
	if opts.LogLevel == "" {
		if v, ok := lookup(envLogLevel); ok && v != "" {
			opts.LogLevel = v
		} else if opts.Verbose {
			opts.LogLevel = "info"
		} else {
			opts.LogLevel = logging.DefaultLevel
		}
	}
	if opts.LogFormat == "" {
		if v, ok := lookup(envLogFormat); ok && v != "" {
			opts.LogFormat = v
		} else {
			opts.LogFormat = logging.DefaultFormat
		}
	}

	if _, err := logging.ParseLevel(opts.LogLevel); err != nil {
		return err
	}
	return logging.ValidateFormat(opts.LogFormat)
}

// Help text alignment widths.
const (
	widthFlag   = 22
	widthEnvVar = 18
)

func printUsage(w *output.Writer) {
	w.HelpTitle("phony - run named tasks and their prerequisites")

	w.HelpSection("Usage:")
	w.HelpUsage("phony [flags] <task>     Run <task> after its prerequisites")
	w.HelpUsage("phony --list             List tasks")
	w.HelpUsage("phony --validate         Check every task's prerequisites")

	w.HelpSection("Flags:")
	w.HelpFlag("-n, --dry-run", "Print the plan and steps without running them", widthFlag)
	w.HelpFlag("-f, --file <path>", "Use this task file instead of searching for one", widthFlag)
	w.HelpFlag("-l, --list", "List tasks with descriptions and prerequisites", widthFlag)
	w.HelpFlag("--validate", "Check prerequisites for unknown tasks and cycles", widthFlag)
	w.HelpFlag("-q, --quiet", "Minimal output (errors only)", widthFlag)
	w.HelpFlag("-v, --verbose", "Maximum detail", widthFlag)
	w.HelpFlag("--log-level <level>", "Diagnostic log level (debug, info, warn, error)", widthFlag)
	w.HelpFlag("--log-format <format>", "Diagnostic log format (text, json)", widthFlag)
	w.HelpFlag("--completion <shell>", "Print a completion script (bash, zsh, fish)", widthFlag)
	w.HelpFlag("-h, --help", "Show this help", widthFlag)
	w.HelpFlag("--version", "Show version", widthFlag)

	w.HelpSection("Task files:")
	w.HelpUsage("phony.yaml, phony.yml, phony.json or phony.hcl, searched upward from the")
	w.HelpUsage("current directory. The directory holding the file is the project root.")

	w.HelpSection("Environment:")
	w.HelpEnvVar(envFile, "Task file to use when -f is not given", widthEnvVar)
	w.HelpEnvVar(envLogLevel, "Default for --log-level", widthEnvVar)
	w.HelpEnvVar(envLogFormat, "Default for --log-format", widthEnvVar)
	w.HelpEnvVar("NO_COLOR", "Disable colored output", widthEnvVar)

	w.HelpSection("Exit codes:")
	w.HelpUsage("0 success, 1 runtime error, 2 usage or task file error,")
	w.HelpUsage("124 step timed out, 127 step could not start,")
	w.HelpUsage("otherwise the exit code of the failing step")

	w.HelpSection("Examples:")
	w.HelpExample("phony ci", "Run ci and everything it depends on")
	w.HelpExample("phony -n ci", "Show what ci would run")
	w.HelpExample("phony -f build/phony.hcl test", "Run test from an explicit task file")
	w.HelpExample("eval \"$(phony --completion bash)\"", "Enable task name completion in bash")
	w.Println("")
}
