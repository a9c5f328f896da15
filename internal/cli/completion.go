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
	Name      string   // flag name without the dash (e.g., "algo")
	Help      string   // description text
	Values    []string // suggested values (nil = boolean or free value)
	ValueName string   // label for the value (e.g., "limbs"); empty for booleans
	IsFile    bool     // true if the flag takes a file path
	IsAlgo    bool     // true if values come from the algorithm list
}

var thresholdValues = []string{"20", "40", "100", "300", "600"}

// flagRegistry lists the flags offered by the completion scripts.
var flagRegistry = []FlagCompletion{
	{Name: "h", Help: "Show help message"},
	{Name: "version", Help: "Show version information"},
	{Name: "a", Help: "Length of the first operand in limbs", Values: []string{"100", "1000", "10000", "100000"}, ValueName: "limbs"},
	{Name: "b", Help: "Length of the second operand in limbs", Values: []string{"100", "1000", "10000", "100000"}, ValueName: "limbs"},
	{Name: "seed", Help: "Seed of the operand generator", ValueName: "seed"},
	{Name: "algo", Help: "Algorithm to use", IsAlgo: true, ValueName: "algorithm"},
	{Name: "reps", Help: "Timed repetitions per algorithm", Values: []string{"1", "3", "5", "10"}, ValueName: "count"},
	{Name: "timeout", Help: "Maximum execution time", Values: []string{"1m", "5m", "10m", "30m"}, ValueName: "duration"},
	{Name: "parallel", Help: "Include the concurrent top-level split"},
	{Name: "parallel-threshold", Help: "Limbs from which -parallel forks", Values: []string{"1024", "2048", "4096"}, ValueName: "limbs"},
	{Name: "toom22", Help: "Toom-22 threshold", Values: thresholdValues, ValueName: "limbs"},
	{Name: "toom33", Help: "Toom-33 threshold", Values: thresholdValues, ValueName: "limbs"},
	{Name: "toom44", Help: "Toom-44 threshold", Values: thresholdValues, ValueName: "limbs"},
	{Name: "toom6h", Help: "Toom-6h tier threshold", Values: thresholdValues, ValueName: "limbs"},
	{Name: "toom8h", Help: "Toom-8h tier threshold", Values: thresholdValues, ValueName: "limbs"},
	{Name: "toom32-to-43", Help: "Toom-32 to Toom-43 crossover", Values: thresholdValues, ValueName: "limbs"},
	{Name: "toom32-to-53", Help: "Toom-32 to Toom-53 crossover", Values: thresholdValues, ValueName: "limbs"},
	{Name: "toom42-to-53", Help: "Toom-42 to Toom-53 crossover", Values: thresholdValues, ValueName: "limbs"},
	{Name: "toom42-to-63", Help: "Toom-42 to Toom-63 crossover", Values: thresholdValues, ValueName: "limbs"},
	{Name: "calibrate", Help: "Run calibration mode"},
	{Name: "calibrate-quick", Help: "Faster, rougher calibration"},
	{Name: "calibration-profile", Help: "Calibration profile file", IsFile: true, ValueName: "file"},
	{Name: "tui", Help: "Interactive dashboard"},
	{Name: "i", Help: "Interactive multiplication session"},
	{Name: "hex", Help: "Print the product in hexadecimal"},
	{Name: "v", Help: "Show run details"},
	{Name: "o", Help: "Output file path", IsFile: true, ValueName: "file"},
	{Name: "q", Help: "Quiet mode for scripts"},
	{Name: "no-color", Help: "Disable colored output"},
	{Name: "metrics-addr", Help: "Serve Prometheus metrics on this address", ValueName: "addr"},
	{Name: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level"},
	{Name: "memory-limit", Help: "Refuse runs estimated above this size", Values: []string{"512M", "1G", "4G", "8G"}, ValueName: "size"},
	{Name: "gc", Help: "Garbage collector mode while timing", Values: []string{"auto", "aggressive", "disabled"}, ValueName: "mode"},
	{Name: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion writes a completion script for shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: "bash", "zsh" or "fish".
//   - algorithms: The algorithm names offered for -algo.
//
// Returns:
//   - error: An error if the shell is not supported or the write fails.
func GenerateCompletion(out io.Writer, shell string, algorithms []string) error {
	algoList := strings.Join(append(append([]string(nil), algorithms...), "all"), " ")
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(algoList)
	case "zsh":
		script = zshCompletion(algoList)
	case "fish":
		script = fishCompletion(algoList)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func bashCompletion(algoList string) string {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		opts = append(opts, "-"+f.Name)
		var body string
		switch {
		case f.IsAlgo:
			body = `COMPREPLY=( $(compgen -W "${algorithms}" -- "${cur}") )`
		case f.IsFile:
			body = `COMPREPLY=( $(compgen -f -- "${cur}") )`
		case len(f.Values) > 0:
			body = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " "))
		default:
			continue
		}
		fmt.Fprintf(&cases, "        -%s|--%s)\n            %s\n            return 0\n            ;;\n", f.Name, f.Name, body)
	}

	return fmt.Sprintf(`# Bash completion script for bigmul
# Add this to your ~/.bashrc or ~/.bash_completion

_bigmul_completions() {
    local cur prev opts algorithms
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"
    algorithms="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _bigmul_completions bigmul
`, strings.Join(opts, " "), algoList, cases.String())
}

// zshArgEntry formats a flag as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	suffix := ""
	switch {
	case f.IsFile:
		suffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case f.IsAlgo:
		suffix = fmt.Sprintf(":%s:($algorithms)", f.ValueName)
	case len(f.Values) > 0:
		suffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		suffix = fmt.Sprintf(":%s:", f.ValueName)
	}
	return fmt.Sprintf("        '-%s[%s]%s'", f.Name, f.Help, suffix)
}

func zshCompletion(algoList string) string {
	args := make([]string, len(flagRegistry))
	for i, f := range flagRegistry {
		args[i] = zshArgEntry(f)
	}
	return fmt.Sprintf(`#compdef bigmul

# Zsh completion script for bigmul
# Add this to your ~/.zshrc or place in $fpath

_bigmul() {
    local -a algorithms
    algorithms=(%s)

    _arguments -s \
%s
}

_bigmul "$@"
`, algoList, strings.Join(args, " \\\n"))
}

// fishCompleteLine formats a flag as a fish complete command. Go flags use
// a single dash, which fish calls an old-style option.
func fishCompleteLine(f FlagCompletion, algoList string) string {
	parts := []string{"complete -c bigmul", "-o " + f.Name, fmt.Sprintf("-d '%s'", f.Help)}
	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case f.IsAlgo:
		parts = append(parts, fmt.Sprintf("-xa '%s'", algoList))
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}

func fishCompletion(algoList string) string {
	lines := []string{
		"# Fish completion script for bigmul",
		"# Add this to ~/.config/fish/completions/bigmul.fish",
		"",
		"complete -c bigmul -f",
	}
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f, algoList))
	}
	return strings.Join(lines, "\n") + "\n"
}
