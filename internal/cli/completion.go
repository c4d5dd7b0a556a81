package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/iterprogress/internal/config"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// All shell completion functions generate from this registry, so adding
// a new flag only requires appending to flagRegistry.
type FlagCompletion struct {
	Long       string   // long flag name without "--" (e.g., "help")
	Short      string   // short flag without "-" (e.g., "h")
	Help       string   // description text
	Values     []string // suggested completion values (nil = boolean/no suggestions)
	ValueName  string   // label for the value in zsh (e.g., "number", "duration")
	IsFile     bool     // true if the flag takes a file path
	IsWorkload bool     // true if values come from the workload registry
}

// Shells lists the accepted -completion values.
var Shells = []string{"bash", "zsh", "fish"}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "workload", Help: "Workloads to run", IsWorkload: true, ValueName: "workload"},
	{Short: "n", Help: "Number of items", ValueName: "number"},
	{Long: "step", Help: "Per-item delay of the ticker workload", Values: []string{"1ms", "10ms", "20ms", "100ms"}, ValueName: "duration"},
	{Long: "input", Help: "File read by the lines workload", IsFile: true, ValueName: "file"},
	{Long: "every", Help: "Time trigger interval", Values: []string{"0", "100ms", "250ms", "1s"}, ValueName: "duration"},
	{Long: "every-items", Help: "Item trigger interval", ValueName: "number"},
	{Long: "window", Help: "Rolling average window size", ValueName: "number"},
	{Long: "exp-rate", Help: "Exponential average smoothing factor", Values: []string{"0.1", "0.3", "0.5"}, ValueName: "rate"},
	{Long: "assume-size", Help: "Size assumed for unknown sequences", ValueName: "number"},
	{Long: "sample", Help: "Build a record every n items", ValueName: "number"},
	{Long: "timeout", Help: "Maximum run time", Values: []string{"1m", "5m", "10m", "30m", "1h"}, ValueName: "duration"},
	{Long: "verbose", Short: "v", Help: "Enable debug logging"},
	{Long: "quiet", Short: "q", Help: "Only print the final summary"},
	{Long: "tui", Help: "Show the interactive dashboard"},
	{Long: "metrics-addr", Help: "Prometheus listen address", Values: []string{":9090"}, ValueName: "address"},
	{Long: "trace", Help: "Emit a span per workload run"},
	{Long: "output", Short: "o", Help: "Write the run summary to a file", IsFile: true, ValueName: "file"},
	{Long: "theme", Help: "Colour theme", Values: config.Themes, ValueName: "theme"},
	{Long: "no-color", Help: "Disable colours"},
	{Long: "completion", Help: "Generate completion script", Values: Shells, ValueName: "shell"},
}

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish").
//   - workloads: List of available workload names.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, workloads []string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(workloads)
	case "zsh":
		script = zshCompletion(workloads)
	case "fish":
		script = fishCompletion(workloads)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: %s)", shell, strings.Join(Shells, ", "))
	}
	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

// workloadList joins workload names with the "all" alias.
func workloadList(workloads []string) string {
	return strings.Join(append(append([]string(nil), workloads...), "all"), " ")
}

func bashCompletion(workloads []string) string {
	var opts []string
	var cases strings.Builder
	writeCase := func(patterns []string, body string) {
		fmt.Fprintf(&cases, "        %s)\n            %s\n            return 0\n            ;;\n", strings.Join(patterns, "|"), body)
	}

	var filePatterns []string
	for _, f := range flagRegistry {
		var patterns []string
		if f.Long != "" {
			patterns = append(patterns, "--"+f.Long, "-"+f.Long)
			opts = append(opts, "--"+f.Long)
		}
		if f.Short != "" {
			patterns = append(patterns, "-"+f.Short)
			opts = append(opts, "-"+f.Short)
		}
		switch {
		case f.IsWorkload:
			writeCase(patterns, `COMPREPLY=( $(compgen -W "${workloads}" -- "${cur}") )`)
		case f.IsFile:
			filePatterns = append(filePatterns, patterns...)
		case len(f.Values) > 0:
			writeCase(patterns, fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " ")))
		}
	}
	if len(filePatterns) > 0 {
		writeCase(filePatterns, `COMPREPLY=( $(compgen -f -- "${cur}") )`)
	}

	return fmt.Sprintf(`# Bash completion script for iterprogress
# Add this to your ~/.bashrc or ~/.bash_completion

_iterprogress_completions() {
    local cur prev opts workloads
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"
    workloads="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _iterprogress_completions iterprogress
`, strings.Join(opts, " "), workloadList(workloads), cases.String())
}

func zshCompletion(workloads []string) string {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}

	return fmt.Sprintf(`#compdef iterprogress

# Zsh completion script for iterprogress
# Add this to your ~/.zshrc or place in $fpath

_iterprogress() {
    local -a workloads
    workloads=(%s)

    _arguments -s \
%s
}

_iterprogress "$@"
`, workloadList(workloads), strings.Join(args, " \\\n"))
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	var valueSuffix string
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case f.IsWorkload:
		valueSuffix = fmt.Sprintf(":%s:($workloads)", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		// Value-taking flag with no suggestions (e.g., -n)
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	switch {
	case f.Long != "" && f.Short != "":
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	case f.Long != "":
		return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
	default:
		return fmt.Sprintf("        '-%s[%s]%s'", f.Short, f.Help, valueSuffix)
	}
}

func fishCompletion(workloads []string) string {
	lines := []string{
		"# Fish completion script for iterprogress",
		"# Add this to ~/.config/fish/completions/iterprogress.fish",
		"",
		"# Disable file completion by default",
		"complete -c iterprogress -f",
		"",
	}
	list := workloadList(workloads)
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f, list))
	}
	return strings.Join(lines, "\n") + "\n"
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion, workloads string) string {
	parts := []string{"complete -c iterprogress"}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	if f.Long != "" {
		parts = append(parts, "-l "+f.Long)
	}
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))

	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case f.IsWorkload:
		parts = append(parts, fmt.Sprintf("-xa '%s'", workloads))
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}
