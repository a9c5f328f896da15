// Package config provides the configuration management for the bigmul
// benchmark tool. It defines the data structure for the configuration, handles
// the parsing of command-line arguments and environment variables, and
// performs validation on the resulting values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/bigmul/internal/errors"
	"github.com/agbru/bigmul/internal/logging"
)

const (
	// EnvPrefix is the prefix for all environment variables used by bigmul.
	EnvPrefix = "BIGMUL_"
)

// Default configuration values.
// These can be overridden via command-line flags or environment variables.
const (
	// DefaultLimbs is the default length of the first operand, in limbs.
	DefaultLimbs = 10_000
	// DefaultSeed seeds the operand generator.
	DefaultSeed int64 = 1
	// DefaultTimeout is the default run timeout.
	DefaultTimeout = 5 * time.Minute
	// DefaultAlgo runs every algorithm that accepts the operand sizes.
	DefaultAlgo = "all"
	// DefaultReps is the number of timed repetitions per algorithm.
	DefaultReps = 1
	// DefaultParallelThreshold is the operand length, in limbs, from which
	// concurrent multiplication forks its top-level products.
	DefaultParallelThreshold = 2048
	// DefaultLogLevel is the zerolog level name used when none is given.
	DefaultLogLevel = "info"
	// DefaultGCMode lets the GC controller decide from the operand sizes.
	DefaultGCMode = "auto"
	// MaxLimbs bounds operand lengths to keep a run within a few hundred MiB.
	MaxLimbs = 1 << 24
)

// AppConfig aggregates the application's configuration parameters, parsed from
// command-line flags and the environment.
type AppConfig struct {
	// A is the length of the first operand, in limbs.
	A int
	// B is the length of the second operand, in limbs. Zero means equal to A.
	B int
	// Seed drives the pseudo-random operand generator, so that runs are
	// reproducible.
	Seed int64
	// Algo is "all" or the name of one multiplication algorithm.
	Algo string
	// Reps is the number of timed repetitions per algorithm.
	Reps int
	// Timeout sets the maximum duration of the whole run.
	Timeout time.Duration
	// Parallel, if true, multiplies with the concurrent top-level split.
	Parallel bool
	// ParallelThreshold is the operand length, in limbs, from which the
	// concurrent split forks goroutines.
	ParallelThreshold int

	// Thresholds holds the threshold flags. Zero fields are unset and fall
	// back to the calibration profile or the built-in defaults.
	Thresholds Thresholds

	// Calibrate, if true, runs the calibration mode instead of a comparison.
	Calibrate bool
	// CalibrateQuick shortens the calibration measurements.
	CalibrateQuick bool
	// CalibrationProfile is the path to a calibration profile file.
	// If empty, uses the default path (~/.bigmul_calibration.json).
	CalibrationProfile string

	// TUI, if true, shows the interactive dashboard.
	TUI bool
	// Interactive, if true, starts a multiplication REPL.
	Interactive bool
	// Quiet mode prints only the product summary, for scripts.
	Quiet bool
	// Verbose, if true, prints the operands and the run details.
	Verbose bool
	// HexOutput, if true, prints the product in hexadecimal.
	HexOutput bool
	// OutputFile, if specified, saves the product to this file path.
	OutputFile string
	// NoColor, if true, disables all color output.
	// Also respects the NO_COLOR environment variable.
	NoColor bool

	// MetricsAddr, if set, serves Prometheus metrics on this address.
	MetricsAddr string
	// LogLevel is a zerolog level name ("debug", "info", ...).
	LogLevel string
	// MemoryLimit is an upper bound on the estimated memory of a run,
	// such as "512M" or "8G". Empty means unlimited.
	MemoryLimit string
	// GCMode is "auto", "aggressive" or "disabled"; see memory.GCController.
	GCMode string
	// Completion, if set, prints a completion script for this shell and
	// exits.
	Completion string
}

// OperandB returns the effective length of the second operand.
func (c AppConfig) OperandB() int {
	if c.B == 0 {
		return c.A
	}
	return c.B
}

// Validate checks the semantic consistency of the configuration parameters.
//
// Parameters:
//   - availableAlgos: The valid algorithm names.
//
// Returns:
//   - error: An error of type ConfigError if the configuration is invalid,
//     nil otherwise.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.A < 1 || c.A > MaxLimbs {
		return apperrors.NewConfigError("operand length -a must be between 1 and %d limbs, got %d", MaxLimbs, c.A)
	}
	if c.B < 0 || c.B > MaxLimbs {
		return apperrors.NewConfigError("operand length -b must be between 1 and %d limbs, got %d", MaxLimbs, c.B)
	}
	if c.Reps < 1 {
		return apperrors.NewConfigError("repetitions must be at least 1, got %d", c.Reps)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.ParallelThreshold < 1 {
		return apperrors.NewConfigError("parallel threshold must be positive: %d", c.ParallelThreshold)
	}
	if c.Algo != DefaultAlgo && !slices.Contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unrecognized algorithm: '%s'. Valid algorithms are: 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	switch c.GCMode {
	case "auto", "aggressive", "disabled":
	default:
		return apperrors.NewConfigError("unrecognized gc mode: '%s'. Valid modes are: auto, aggressive, disabled", c.GCMode)
	}
	if _, err := logging.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Thresholds != (Thresholds{}) {
		if err := DefaultThresholds().Merge(c.Thresholds).Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig
// struct. It defines all the command-line flags, applies environment
// overrides for the flags that were not given, and validates the result.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: The command-line arguments (typically os.Args[1:]).
//   - errorWriter: Where parsing errors and usage information are printed.
//   - availableAlgos: The valid algorithm names.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: An error if flag parsing fails or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Algorithm to use: 'all' (default) or one of [%s].", strings.Join(availableAlgos, ", "))

	config := AppConfig{}
	fs.IntVar(&config.A, "a", DefaultLimbs, "Length of the first operand, in limbs.")
	fs.IntVar(&config.B, "b", 0, "Length of the second operand, in limbs (default: same as -a).")
	fs.Int64Var(&config.Seed, "seed", DefaultSeed, "Seed of the operand generator.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.IntVar(&config.Reps, "reps", DefaultReps, "Timed repetitions per algorithm.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for the whole run.")
	fs.BoolVar(&config.Parallel, "parallel", false, "Split the top-level product across goroutines.")
	fs.IntVar(&config.ParallelThreshold, "parallel-threshold", DefaultParallelThreshold, "Operand length (in limbs) from which -parallel forks goroutines.")

	fs.IntVar(&config.Thresholds.Toom22, "toom22", 0, "Limbs at which Toom-22 replaces the basecase.")
	fs.IntVar(&config.Thresholds.Toom33, "toom33", 0, "Limbs at which Toom-33 replaces Toom-22.")
	fs.IntVar(&config.Thresholds.Toom44, "toom44", 0, "Limbs at which Toom-44 replaces Toom-33.")
	fs.IntVar(&config.Thresholds.Toom6H, "toom6h", 0, "Limbs of the Toom-6h tier.")
	fs.IntVar(&config.Thresholds.Toom8H, "toom8h", 0, "Limbs of the Toom-8h tier.")
	fs.IntVar(&config.Thresholds.Toom32To43, "toom32-to-43", 0, "Limbs at which Toom-43 replaces Toom-32.")
	fs.IntVar(&config.Thresholds.Toom32To53, "toom32-to-53", 0, "Limbs at which Toom-53 replaces Toom-32.")
	fs.IntVar(&config.Thresholds.Toom42To53, "toom42-to-53", 0, "Limbs at which Toom-53 replaces Toom-42.")
	fs.IntVar(&config.Thresholds.Toom42To63, "toom42-to-63", 0, "Limbs at which Toom-63 replaces Toom-42.")

	fs.BoolVar(&config.Calibrate, "calibrate", false, "Run calibration mode to tune the thresholds for this machine.")
	fs.BoolVar(&config.CalibrateQuick, "calibrate-quick", false, "With -calibrate, time fewer sizes for a faster, rougher profile.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Path to calibration profile file (default: ~/.bigmul_calibration.json).")
	fs.BoolVar(&config.TUI, "tui", false, "Show the interactive dashboard.")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start an interactive multiplication session.")
	fs.BoolVar(&config.Interactive, "i", false, "Interactive session (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Verbose, "v", false, "Show the run details.")
	fs.BoolVar(&config.HexOutput, "hex", false, "Print the product in hexadecimal.")
	fs.StringVar(&config.OutputFile, "output", "", "Output file path for the product.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090).")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error.")
	fs.StringVar(&config.MemoryLimit, "memory-limit", "", "Refuse runs estimated above this size (e.g. 512M, 8G).")
	fs.StringVar(&config.GCMode, "gc", DefaultGCMode, "Garbage collector mode during runs: auto, aggressive, disabled.")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script for bash, zsh or fish.")
	fs.Bool("version", false, "Print version information and exit.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, fs)

	config.Algo = strings.ToLower(config.Algo)
	config.GCMode = strings.ToLower(config.GCMode)
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.Join(errInvalidConfig, err)
	}
	return config, nil
}

var errInvalidConfig = errors.New("invalid configuration")
