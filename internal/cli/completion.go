package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so a new flag only needs an entry
// there.
type FlagCompletion struct {
	Long      string   // long flag name without "--"
	Short     string   // short flag without "-"
	Help      string   // description text
	Values    []string // suggested values (nil = boolean or free-form)
	ValueName string   // label of the value in zsh; empty for booleans
	IsFile    bool     // value is a file path
	IsBackend bool     // values come from the evaluator list
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "expr", Short: "e", Help: "Evaluate an expression and exit", ValueName: "expression"},
	{Long: "repl", Help: "Start the interactive calculator"},
	{Long: "bench", Help: "Run the benchmark suite"},
	{Long: "tui", Help: "Start the keypad interface"},
	{Long: "serve", Help: "Serve the HTTP API", Values: []string{":8080", "127.0.0.1:8080"}, ValueName: "address"},
	{Long: "backend", Help: "Evaluator backend", IsBackend: true, ValueName: "backend"},
	{Long: "factsum-n", Help: "n of the factorial-sum case", Values: []string{"100", "1000", "5000"}, ValueName: "number"},
	{Long: "fib-n", Help: "n of the Fibonacci case", Values: []string{"25", "30", "35", "40"}, ValueName: "number"},
	{Long: "medium-terms", Help: "Terms of the medium expression", ValueName: "count"},
	{Long: "long-terms", Help: "Terms of the long expression", ValueName: "count"},
	{Long: "parallel", Help: "Concurrent benchmark jobs", ValueName: "count"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"30s", "1m", "5m", "10m"}, ValueName: "duration"},
	{Long: "quiet", Short: "q", Help: "Quiet mode for scripts"},
	{Long: "details", Short: "d", Help: "Show run details"},
	{Long: "output", Short: "o", Help: "Report file (.yaml or .json)", IsFile: true, ValueName: "file"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "theme", Help: "Color theme", Values: []string{"dark", "light", "none"}, ValueName: "name"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion writes a completion script for shell ("bash", "zsh"
// or "fish") to out. backends lists the evaluator names.
func GenerateCompletion(out io.Writer, shell string, backends []string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(backends)
	case "zsh":
		script = zshCompletion(backends)
	case "fish":
		script = fishCompletion(backends)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func backendWords(backends []string) string {
	return strings.Join(append(append([]string(nil), backends...), "all"), " ")
}

func flagPatterns(f FlagCompletion) []string {
	var p []string
	if f.Long != "" {
		p = append(p, "--"+f.Long)
	}
	if f.Short != "" {
		p = append(p, "-"+f.Short)
	}
	return p
}

func bashCompletion(backends []string) string {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		opts = append(opts, flagPatterns(f)...)

		var body string
		switch {
		case f.IsBackend:
			body = `COMPREPLY=( $(compgen -W "${backends}" -- "${cur}") )`
		case f.IsFile:
			body = `COMPREPLY=( $(compgen -f -- "${cur}") )`
		case len(f.Values) > 0:
			body = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " "))
		default:
			continue
		}
		fmt.Fprintf(&cases, "        %s)\n            %s\n            return 0\n            ;;\n",
			strings.Join(flagPatterns(f), "|"), body)
	}

	return fmt.Sprintf(`# Bash completion script for calcbench
# Add this to your ~/.bashrc or ~/.bash_completion

_calcbench_completions() {
    local cur prev opts backends
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"
    backends="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _calcbench_completions calcbench
`, strings.Join(opts, " "), backendWords(backends), cases.String())
}

// zshArgEntry formats a flag as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case f.IsBackend:
		valueSuffix = fmt.Sprintf(":%s:($backends)", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Long != "" && f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

func zshCompletion(backends []string) string {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	return fmt.Sprintf(`#compdef calcbench

# Zsh completion script for calcbench
# Place this file in a directory of $fpath

_calcbench() {
    local -a backends
    backends=(%s)

    _arguments -s \
%s
}

_calcbench "$@"
`, backendWords(backends), strings.Join(args, " \\\n"))
}

// fishCompleteLine formats a flag as a fish complete command.
func fishCompleteLine(f FlagCompletion, backends string) string {
	parts := []string{"complete -c calcbench"}
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
	case f.IsBackend:
		parts = append(parts, fmt.Sprintf("-xa '%s'", backends))
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}

func fishCompletion(backends []string) string {
	lines := []string{
		"# Fish completion script for calcbench",
		"# Add this to ~/.config/fish/completions/calcbench.fish",
		"",
		"complete -c calcbench -f",
	}
	words := backendWords(backends)
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f, words))
	}
	return strings.Join(lines, "\n") + "\n"
}
