package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// explicitFlags returns the names of the flags given on the command line.
func explicitFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// envOverride binds BIGMUL_<envKey> to the flags it shadows. apply ignores
// values that do not parse.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

func intOverride(key, flagName string, field func(*AppConfig) *int) envOverride {
	return envOverride{key, []string{flagName}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			*field(c) = parsed
		}
	}}
}

func boolOverride(key string, flags []string, field func(*AppConfig) *bool) envOverride {
	return envOverride{key, flags, func(c *AppConfig, v string) {
		p := field(c)
		*p = parseBoolEnv(v, *p)
	}}
}

func stringOverride(key string, flags []string, field func(*AppConfig) *string) envOverride {
	return envOverride{key, flags, func(c *AppConfig, v string) {
		*field(c) = v
	}}
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// Operands and run shape
	intOverride("A", "a", func(c *AppConfig) *int { return &c.A }),
	intOverride("B", "b", func(c *AppConfig) *int { return &c.B }),
	{"SEED", []string{"seed"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}},
	intOverride("REPS", "reps", func(c *AppConfig) *int { return &c.Reps }),
	intOverride("PARALLEL_THRESHOLD", "parallel-threshold", func(c *AppConfig) *int { return &c.ParallelThreshold }),
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	// Thresholds
	intOverride("TOOM22", "toom22", func(c *AppConfig) *int { return &c.Thresholds.Toom22 }),
	intOverride("TOOM33", "toom33", func(c *AppConfig) *int { return &c.Thresholds.Toom33 }),
	intOverride("TOOM44", "toom44", func(c *AppConfig) *int { return &c.Thresholds.Toom44 }),
	intOverride("TOOM6H", "toom6h", func(c *AppConfig) *int { return &c.Thresholds.Toom6H }),
	intOverride("TOOM8H", "toom8h", func(c *AppConfig) *int { return &c.Thresholds.Toom8H }),
	intOverride("TOOM32_TO_43", "toom32-to-43", func(c *AppConfig) *int { return &c.Thresholds.Toom32To43 }),
	intOverride("TOOM32_TO_53", "toom32-to-53", func(c *AppConfig) *int { return &c.Thresholds.Toom32To53 }),
	intOverride("TOOM42_TO_53", "toom42-to-53", func(c *AppConfig) *int { return &c.Thresholds.Toom42To53 }),
	intOverride("TOOM42_TO_63", "toom42-to-63", func(c *AppConfig) *int { return &c.Thresholds.Toom42To63 }),

	// String overrides
	stringOverride("ALGO", []string{"algo"}, func(c *AppConfig) *string { return &c.Algo }),
	stringOverride("OUTPUT", []string{"output", "o"}, func(c *AppConfig) *string { return &c.OutputFile }),
	stringOverride("CALIBRATION_PROFILE", []string{"calibration-profile"}, func(c *AppConfig) *string { return &c.CalibrationProfile }),
	stringOverride("METRICS_ADDR", []string{"metrics-addr"}, func(c *AppConfig) *string { return &c.MetricsAddr }),
	stringOverride("LOG_LEVEL", []string{"log-level"}, func(c *AppConfig) *string { return &c.LogLevel }),
	stringOverride("MEMORY_LIMIT", []string{"memory-limit"}, func(c *AppConfig) *string { return &c.MemoryLimit }),
	stringOverride("GC", []string{"gc"}, func(c *AppConfig) *string { return &c.GCMode }),

	// Boolean overrides
	boolOverride("PARALLEL", []string{"parallel"}, func(c *AppConfig) *bool { return &c.Parallel }),
	boolOverride("VERBOSE", []string{"v"}, func(c *AppConfig) *bool { return &c.Verbose }),
	boolOverride("QUIET", []string{"quiet", "q"}, func(c *AppConfig) *bool { return &c.Quiet }),
	boolOverride("HEX", []string{"hex"}, func(c *AppConfig) *bool { return &c.HexOutput }),
	boolOverride("NO_COLOR", []string{"no-color"}, func(c *AppConfig) *bool { return &c.NoColor }),
	boolOverride("CALIBRATE", []string{"calibrate"}, func(c *AppConfig) *bool { return &c.Calibrate }),
	boolOverride("CALIBRATE_QUICK", []string{"calibrate-quick"}, func(c *AppConfig) *bool { return &c.CalibrateQuick }),
	boolOverride("TUI", []string{"tui"}, func(c *AppConfig) *bool { return &c.TUI }),
}

// parseBoolEnv reads true/1/yes and false/0/no in any case; anything else
// keeps defaultVal.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides fills every field whose flags were left unset from the
// environment. Flags win over BIGMUL_* variables, which win over defaults;
// a calibration profile is merged afterwards by the calibration package.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	given := explicitFlags(fs)
next:
	for _, o := range envOverrides {
		for _, name := range o.flags {
			if given[name] {
				continue next
			}
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
