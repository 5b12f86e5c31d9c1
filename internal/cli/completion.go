package cli

import (
	"fmt"
	"strings"
)

// completionFlag describes a flag offered by the completion scripts.
type completionFlag struct {
	short       string
	long        string
	description string
	takesFile   bool
}

// completionFlags lists the flags the completion scripts know about.
func completionFlags() []completionFlag {
	return []completionFlag{
		{"n", "dry-run", "Print the plan without running it", false},
		{"f", "file", "Use this task file", true},
		{"l", "list", "List tasks", false},
		{"", "validate", "Check prerequisites", false},
		{"q", "quiet", "Minimal output", false},
		{"v", "verbose", "Maximum detail", false},
		{"", "log-level", "Diagnostic log level", false},
		{"", "log-format", "Diagnostic log format", false},
		{"h", "help", "Show help", false},
		{"", "version", "Show version", false},
	}
}

// cmdCompletion prints the completion script for shell.
func cmdCompletion(shell string) int {
	switch shell {
	case "bash":
		out.Print("%s", generateBashCompletion())
	case "zsh":
		out.Print("%s", generateZshCompletion())
	case "fish":
		out.Print("%s", generateFishCompletion())
	default:
		return usageError(fmt.Errorf("unsupported shell %q for --completion (use bash, zsh, or fish)", shell))
	}
	return 0
}

// flagWords returns every flag spelling, short forms first.
func flagWords() []string {
	var words []string
	for _, f := range completionFlags() {
		if f.short != "" {
			words = append(words, "-"+f.short)
		}
	}
	for _, f := range completionFlags() {
		words = append(words, "--"+f.long)
	}
	return words
}

func generateBashCompletion() string {
	return fmt.Sprintf(`# phony bash completion
# Add to ~/.bashrc: eval "$(phony --completion bash)"

_phony() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    case "${prev}" in
        -f|--file)
            COMPREPLY=($(compgen -f -- "${cur}"))
            return
            ;;
        --log-level)
            COMPREPLY=($(compgen -W "debug info warn error" -- "${cur}"))
            return
            ;;
        --log-format)
            COMPREPLY=($(compgen -W "text json" -- "${cur}"))
            return
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=($(compgen -W "%s" -- "${cur}"))
        return
    fi

    local tasks
    tasks=$(phony --list --quiet 2>/dev/null)
    COMPREPLY=($(compgen -W "${tasks}" -- "${cur}"))
}

complete -F _phony phony
`, strings.Join(flagWords(), " "))
}

func generateZshCompletion() string {
	var specs strings.Builder
	for _, f := range completionFlags() {
		value := ""
		switch {
		case f.takesFile:
			value = ":file:_files"
		case f.long == "log-level":
			value = ":level:(debug info warn error)"
		case f.long == "log-format":
			value = ":format:(text json)"
		}
		if f.short != "" {
			fmt.Fprintf(&specs, "        '(-%s --%s)'{-%s,--%s}'[%s]%s' \\\n", f.short, f.long, f.short, f.long, f.description, value)
		} else {
			fmt.Fprintf(&specs, "        '--%s[%s]%s' \\\n", f.long, f.description, value)
		}
	}

	return fmt.Sprintf(`#compdef phony
# phony zsh completion
# Add to ~/.zshrc: eval "$(phony --completion zsh)"

_phony() {
    local -a tasks
    tasks=(${(f)"$(phony --list --quiet 2>/dev/null)"})

    _arguments -s \
%s        "1:task:(${tasks})"
}

compdef _phony phony
`, specs.String())
}

func generateFishCompletion() string {
	var sb strings.Builder

	sb.WriteString(`# phony fish completion
# Add to config: phony --completion fish | source

# Disable file completion by default
complete -c phony -f

# Flags
`)
	for _, f := range completionFlags() {
		line := "complete -c phony"
		if f.short != "" {
			line += " -s " + f.short
		}
		line += " -l " + f.long
		switch {
		case f.takesFile:
			line += " -r -F"
		case f.long == "log-level":
			line += " -x -a 'debug info warn error'"
		case f.long == "log-format":
			line += " -x -a 'text json'"
		}
		sb.WriteString(fmt.Sprintf("%s -d '%s'\n", line, f.description))
	}

	sb.WriteString("\n# Task names\n")
	sb.WriteString("complete -c phony -a '(phony --list --quiet 2>/dev/null)' -d 'Task'\n")

	return sb.String()
}
