package config

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/bigmul/internal/errors"
)

var testAlgos = []string{"auto", "basecase", "toom22", "toom33", "toom44"}

func TestParseConfig(t *testing.T) {
	t.Run("DefaultValues", func(t *testing.T) {
		t.Parallel()
		cfg, err := ParseConfig("bigmul", nil, io.Discard, testAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.A != DefaultLimbs || cfg.OperandB() != DefaultLimbs {
			t.Errorf("operands = %d x %d, want %d x %d", cfg.A, cfg.OperandB(), DefaultLimbs, DefaultLimbs)
		}
		if cfg.Algo != "all" {
			t.Errorf("Expected default Algo 'all', got %s", cfg.Algo)
		}
		if cfg.Timeout != 5*time.Minute {
			t.Errorf("Expected default Timeout 5m, got %v", cfg.Timeout)
		}
		if cfg.Reps != 1 || cfg.ParallelThreshold != DefaultParallelThreshold {
			t.Errorf("Reps = %d, ParallelThreshold = %d", cfg.Reps, cfg.ParallelThreshold)
		}
		if cfg.Thresholds != (Thresholds{}) {
			t.Errorf("threshold flags should be unset, got %+v", cfg.Thresholds)
		}
	})

	t.Run("ValidFlags", func(t *testing.T) {
		t.Parallel()
		args := []string{
			"-a", "5000", "-b", "1200",
			"-algo", "TOOM33",
			"-reps", "3",
			"-seed", "-7",
			"-timeout", "10s",
			"-parallel", "-parallel-threshold", "512",
			"-toom33", "45", "-toom42-to-63", "120",
			"-q", "-hex", "-o", "product.txt",
			"-log-level", "debug", "-gc", "disabled",
		}
		cfg, err := ParseConfig("bigmul", args, io.Discard, testAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.A != 5000 || cfg.OperandB() != 1200 {
			t.Errorf("operands = %d x %d", cfg.A, cfg.OperandB())
		}
		if cfg.Algo != "toom33" {
			t.Errorf("Expected Algo 'toom33', got %s", cfg.Algo)
		}
		if cfg.Reps != 3 || cfg.Seed != -7 || cfg.Timeout != 10*time.Second {
			t.Errorf("Reps = %d, Seed = %d, Timeout = %v", cfg.Reps, cfg.Seed, cfg.Timeout)
		}
		if !cfg.Parallel || cfg.ParallelThreshold != 512 {
			t.Errorf("Parallel = %v, ParallelThreshold = %d", cfg.Parallel, cfg.ParallelThreshold)
		}
		if cfg.Thresholds.Toom33 != 45 || cfg.Thresholds.Toom42To63 != 120 || cfg.Thresholds.Toom22 != 0 {
			t.Errorf("Thresholds = %+v", cfg.Thresholds)
		}
		if !cfg.Quiet || !cfg.HexOutput || cfg.OutputFile != "product.txt" {
			t.Errorf("Quiet = %v, HexOutput = %v, OutputFile = %q", cfg.Quiet, cfg.HexOutput, cfg.OutputFile)
		}
		if cfg.LogLevel != "debug" || cfg.GCMode != "disabled" {
			t.Errorf("LogLevel = %q, GCMode = %q", cfg.LogLevel, cfg.GCMode)
		}
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		env := map[string]string{
			"BIGMUL_A":                   "300",
			"BIGMUL_B":                   "100",
			"BIGMUL_SEED":                "42",
			"BIGMUL_ALGO":                "toom44",
			"BIGMUL_REPS":                "4",
			"BIGMUL_TIMEOUT":             "2m",
			"BIGMUL_PARALLEL":            "yes",
			"BIGMUL_PARALLEL_THRESHOLD":  "64",
			"BIGMUL_TOOM22":              "30",
			"BIGMUL_TOOM42_TO_63":        "99",
			"BIGMUL_VERBOSE":             "true",
			"BIGMUL_QUIET":               "1",
			"BIGMUL_HEX":                 "true",
			"BIGMUL_NO_COLOR":            "true",
			"BIGMUL_CALIBRATE":           "true",
			"BIGMUL_TUI":                 "true",
			"BIGMUL_OUTPUT":              "out.txt",
			"BIGMUL_CALIBRATION_PROFILE": "prof.json",
			"BIGMUL_METRICS_ADDR":        ":9100",
			"BIGMUL_LOG_LEVEL":           "warn",
			"BIGMUL_MEMORY_LIMIT":        "2G",
			"BIGMUL_GC":                  "aggressive",
		}
		for k, v := range env {
			t.Setenv(k, v)
		}

		cfg, err := ParseConfig("bigmul", nil, io.Discard, testAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.A != 300 || cfg.B != 100 || cfg.Seed != 42 || cfg.Reps != 4 {
			t.Errorf("A = %d, B = %d, Seed = %d, Reps = %d", cfg.A, cfg.B, cfg.Seed, cfg.Reps)
		}
		if cfg.Algo != "toom44" || cfg.Timeout != 2*time.Minute {
			t.Errorf("Algo = %q, Timeout = %v", cfg.Algo, cfg.Timeout)
		}
		if !cfg.Parallel || cfg.ParallelThreshold != 64 {
			t.Errorf("Parallel = %v, ParallelThreshold = %d", cfg.Parallel, cfg.ParallelThreshold)
		}
		if cfg.Thresholds.Toom22 != 30 || cfg.Thresholds.Toom42To63 != 99 {
			t.Errorf("Thresholds = %+v", cfg.Thresholds)
		}
		if !cfg.Verbose || !cfg.Quiet || !cfg.HexOutput || !cfg.NoColor || !cfg.Calibrate || !cfg.TUI {
			t.Errorf("boolean overrides not applied: %+v", cfg)
		}
		if cfg.OutputFile != "out.txt" || cfg.CalibrationProfile != "prof.json" || cfg.MetricsAddr != ":9100" {
			t.Errorf("OutputFile = %q, CalibrationProfile = %q, MetricsAddr = %q", cfg.OutputFile, cfg.CalibrationProfile, cfg.MetricsAddr)
		}
		if cfg.LogLevel != "warn" || cfg.MemoryLimit != "2G" || cfg.GCMode != "aggressive" {
			t.Errorf("LogLevel = %q, MemoryLimit = %q, GCMode = %q", cfg.LogLevel, cfg.MemoryLimit, cfg.GCMode)
		}
	})

	t.Run("FlagPrecedenceOverEnv", func(t *testing.T) {
		t.Setenv("BIGMUL_A", "200")
		t.Setenv("BIGMUL_QUIET", "true")

		cfg, err := ParseConfig("bigmul", []string{"-a", "300", "-quiet=false"}, io.Discard, testAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.A != 300 {
			t.Errorf("Expected A 300 from flag, got %d", cfg.A)
		}
		if cfg.Quiet {
			t.Error("explicit -quiet=false should win over BIGMUL_QUIET")
		}
	})

	t.Run("InvalidEnvIgnored", func(t *testing.T) {
		t.Setenv("BIGMUL_REPS", "many")
		t.Setenv("BIGMUL_PARALLEL", "perhaps")
		cfg, err := ParseConfig("bigmul", nil, io.Discard, testAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Reps != DefaultReps || cfg.Parallel {
			t.Errorf("Reps = %d, Parallel = %v", cfg.Reps, cfg.Parallel)
		}
	})

	t.Run("InvalidFlags", func(t *testing.T) {
		t.Parallel()
		_, err := ParseConfig("bigmul", []string{"-unknown"}, io.Discard, testAlgos)
		if err == nil {
			t.Error("Expected error for unknown flag")
		}
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		_, err := ParseConfig("bigmul", []string{"-algo", "fft"}, &out, testAlgos)
		if err == nil {
			t.Fatal("Expected error for invalid algorithm")
		}
		var cfgErr apperrors.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("error %v should carry a ConfigError", err)
		}
		if !strings.Contains(out.String(), "Configuration error") {
			t.Errorf("usage output missing the error: %s", out.String())
		}
	})
}

func TestAppConfigValidate(t *testing.T) {
	t.Parallel()
	valid := AppConfig{
		A: 100, Reps: 1, Timeout: time.Second, ParallelThreshold: 8,
		Algo: "all", GCMode: "auto", LogLevel: "info",
	}
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		ok     bool
	}{
		{"valid", func(*AppConfig) {}, true},
		{"zero a", func(c *AppConfig) { c.A = 0 }, false},
		{"huge a", func(c *AppConfig) { c.A = MaxLimbs + 1 }, false},
		{"negative b", func(c *AppConfig) { c.B = -1 }, false},
		{"b longer than a", func(c *AppConfig) { c.B = 500 }, true},
		{"zero reps", func(c *AppConfig) { c.Reps = 0 }, false},
		{"zero timeout", func(c *AppConfig) { c.Timeout = 0 }, false},
		{"zero parallel threshold", func(c *AppConfig) { c.ParallelThreshold = 0 }, false},
		{"known algo", func(c *AppConfig) { c.Algo = "toom22" }, true},
		{"unknown algo", func(c *AppConfig) { c.Algo = "fft" }, false},
		{"bad gc mode", func(c *AppConfig) { c.GCMode = "sometimes" }, false},
		{"bad log level", func(c *AppConfig) { c.LogLevel = "loud" }, false},
		{"threshold override", func(c *AppConfig) { c.Thresholds.Toom33 = 50 }, true},
		{"threshold too small", func(c *AppConfig) { c.Thresholds.Toom22 = 3 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := valid
			tt.mutate(&c)
			err := c.Validate(testAlgos)
			if (err == nil) != tt.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tt.ok)
			}
			if err != nil {
				var cfgErr apperrors.ConfigError
				if !errors.As(err, &cfgErr) {
					t.Errorf("error %T is not a ConfigError", err)
				}
			}
		})
	}
}

func TestUsageListsFlags(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var out bytes.Buffer
	_, err := ParseConfig("bigmul", []string{"-h"}, &out, testAlgos)
	if err == nil {
		t.Fatal("-h should return flag.ErrHelp")
	}
	for _, want := range []string{"-toom33", "-algo", "-metrics-addr", "BIGMUL_"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("usage should mention %q", want)
		}
	}
	if strings.Contains(out.String(), "\033[") {
		t.Error("usage should be uncolored under NO_COLOR")
	}
}
