package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agbru/bigmul/internal/calibration"
	"github.com/agbru/bigmul/internal/config"
	apperrors "github.com/agbru/bigmul/internal/errors"
	"github.com/agbru/bigmul/internal/mul"
	"github.com/agbru/bigmul/internal/orchestration"
)

// noProfile points the application at a profile that does not exist, so
// that a real ~/.bigmul_calibration.json never leaks into a test.
func noProfile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.json")
}

func newApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	var errBuf bytes.Buffer
	app, err := New(append([]string{"bigmul"}, args...), &errBuf)
	if err != nil {
		t.Fatalf("New(%v): %v\n%s", args, err, errBuf.String())
	}
	return app, &errBuf
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid args", func(t *testing.T) {
		t.Parallel()
		app, _ := newApp(t, "-a", "100", "-b", "40", "-calibration-profile", noProfile(t))
		if app.Config.A != 100 || app.Config.OperandB() != 40 {
			t.Errorf("operands = %d x %d", app.Config.A, app.Config.OperandB())
		}
		if app.Thresholds != config.DefaultThresholds() {
			t.Errorf("thresholds = %s, want the defaults", app.Thresholds)
		}
		if app.ProfileLoaded {
			t.Error("a missing profile was reported as loaded")
		}
	})

	t.Run("threshold flags override the defaults", func(t *testing.T) {
		t.Parallel()
		app, _ := newApp(t, "-toom22", "30", "-calibration-profile", noProfile(t))
		if app.Thresholds.Toom22 != 30 {
			t.Errorf("Toom22 = %d, want 30", app.Thresholds.Toom22)
		}
		if app.Thresholds.Toom33 != config.DefaultThresholds().Toom33 {
			t.Error("an unset flag changed its threshold")
		}
	})

	t.Run("invalid flag", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		app, err := New([]string{"bigmul", "-invalid-flag"}, &errBuf)
		if err == nil || app != nil {
			t.Fatalf("New accepted an unknown flag: %v", err)
		}
		if IsHelpError(err) {
			t.Error("an unknown flag is not a help request")
		}
	})

	t.Run("help", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		_, err := New([]string{"bigmul", "-h"}, &errBuf)
		if !IsHelpError(err) {
			t.Errorf("IsHelpError(%v) = false", err)
		}
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		if _, err := New([]string{"bigmul", "-algo", "toom99"}, &errBuf); err == nil {
			t.Fatal("New accepted an unknown algorithm")
		}
		if !strings.Contains(errBuf.String(), "toom63") {
			t.Error("the error should list the valid algorithms")
		}
	})
}

func TestNew_AppliesProfile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")
	profile := calibration.NewProfile()
	profile.Thresholds.Toom22 = 24
	profile.Thresholds.Toom33 = 44
	profile.ParallelThreshold = 512
	if err := profile.SaveProfile(path); err != nil {
		t.Fatal(err)
	}

	app, _ := newApp(t, "-calibration-profile", path, "-toom33", "50")
	if !app.ProfileLoaded {
		t.Fatal("profile not loaded")
	}
	if app.Thresholds.Toom22 != 24 {
		t.Errorf("Toom22 = %d, want the profile's 24", app.Thresholds.Toom22)
	}
	if app.Thresholds.Toom33 != 50 {
		t.Errorf("Toom33 = %d, want the flag's 50", app.Thresholds.Toom33)
	}
	if app.ParallelThreshold != 512 {
		t.Errorf("ParallelThreshold = %d, want 512", app.ParallelThreshold)
	}

	explicit, _ := newApp(t, "-calibration-profile", path, "-parallel-threshold", "4096")
	if explicit.ParallelThreshold != 4096 {
		t.Errorf("ParallelThreshold = %d, the flag should win", explicit.ParallelThreshold)
	}
}

func TestRun_Quiet(t *testing.T) {
	app, errBuf := newApp(t, "-a", "40", "-b", "30", "-algo", "toom22", "-q",
		"-calibration-profile", noProfile(t))
	var out bytes.Buffer

	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, errBuf.String())
	}
	fields := strings.Fields(out.String())
	if len(fields) != 3 || fields[0] != "toom22" {
		t.Errorf("quiet output = %q, want \"toom22 <ns> <bits>\"", out.String())
	}
}

func TestRun_Comparison(t *testing.T) {
	app, errBuf := newApp(t, "-a", "96", "-b", "64", "-v", "-no-color",
		"-calibration-profile", noProfile(t))
	var out bytes.Buffer

	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, errBuf.String())
	}
	for _, want := range []string{"Global Status: Success", "toom33", "basecase", "Memory Stats:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRun_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "product.txt")
	app, errBuf := newApp(t, "-a", "50", "-algo", "toom33", "-o", path, "-no-color",
		"-calibration-profile", noProfile(t))
	var out bytes.Buffer

	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, errBuf.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("product file: %v", err)
	}
	if !strings.Contains(string(data), "toom33") {
		t.Error("the product file header should name the engine")
	}
	if !strings.Contains(out.String(), "Product saved to") {
		t.Error("the save was not reported")
	}
}

func TestRun_MemoryLimit(t *testing.T) {
	app, errBuf := newApp(t, "-a", "5000", "-memory-limit", "1K",
		"-calibration-profile", noProfile(t))
	var out bytes.Buffer

	if code := app.Run(context.Background(), &out); code != apperrors.ExitErrorConfig {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
	if !strings.Contains(errBuf.String(), "memory") {
		t.Errorf("stderr = %q", errBuf.String())
	}

	bad, _ := newApp(t, "-a", "10", "-memory-limit", "lots", "-calibration-profile", noProfile(t))
	if code := bad.Run(context.Background(), &out); code != apperrors.ExitErrorConfig {
		t.Errorf("invalid limit: exit code = %d", code)
	}
}

func TestRun_Canceled(t *testing.T) {
	app, _ := newApp(t, "-a", "200", "-q", "-calibration-profile", noProfile(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if code := app.Run(ctx, &out); code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
}

func TestRun_Completion(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t, "-completion", "bash")
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"toom63", "parallel", "-calibrate-quick"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("completion script missing %q", want)
		}
	}
}

func TestRun_MetricsServerBadAddress(t *testing.T) {
	app, errBuf := newApp(t, "-a", "10", "-metrics-addr", "256.0.0.1:99999",
		"-calibration-profile", noProfile(t))
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, stderr %q", code, errBuf.String())
	}
}

func TestMaxScratch(t *testing.T) {
	t.Parallel()
	engines := orchestration.NewEngines(mul.Default())
	if got := maxScratch(engines, 100, 100); got <= 0 {
		t.Errorf("maxScratch(100, 100) = %d, want a positive scratch", got)
	}
	toom63 := orchestration.SelectEngines(engines, "toom63", false)
	if got := maxScratch(toom63, 10, 2); got != 0 {
		t.Errorf("maxScratch over an engine that rejects 10 x 2 = %d, want 0", got)
	}
}
