package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/agbru/bigmul/internal/errors"
	"github.com/agbru/bigmul/internal/memory"
	"github.com/agbru/bigmul/internal/metrics"
	"github.com/agbru/bigmul/internal/mul"
	"github.com/agbru/bigmul/internal/orchestration"
	"github.com/agbru/bigmul/internal/ui"
)

func TestCLIColorProvider(t *testing.T) {
	withNoColor(t)
	var c apperrors.ColorProvider = CLIColorProvider{}
	if c.Yellow() != "" || c.Red() != "" || c.Reset() != "" {
		t.Error("no-color theme should yield empty escape codes")
	}
	ui.SetCurrentTheme(ui.DarkTheme)
	if c.Red() != ui.DarkTheme.Error {
		t.Errorf("Red() = %q, want the theme error color", c.Red())
	}
}

func TestPresentComparisonTable(t *testing.T) {
	withNoColor(t)
	results := []orchestration.MultiplicationResult{
		{Name: "toom33", Product: product55, Duration: time.Millisecond, Total: 3 * time.Millisecond, Reps: 3, ScratchLimbs: 120},
		{Name: "toom22", Err: apperrors.MismatchError{Algorithm: "toom22", Reference: orchestration.ReferenceName, Limb: 4}, Duration: 2 * time.Millisecond, Total: 2 * time.Millisecond, Reps: 1},
		{Name: "basecase", Err: apperrors.CalculationError{Cause: errors.New("boom")}},
		{Name: "toom63", Skipped: true, Err: fmt.Errorf("toom63: %w", mul.ErrOutOfDomain)},
	}

	var buf bytes.Buffer
	CLIResultPresenter{}.PresentComparisonTable(results, &buf)
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected a title, a header and 4 rows, got %d lines:\n%s", len(lines), out)
	}
	header := lines[1]
	for _, col := range []string{"Algorithm", "Best", "Mean", "Scratch", "Status"} {
		if !strings.Contains(header, col) {
			t.Errorf("header %q lacks %q", header, col)
		}
	}
	checks := []struct {
		line int
		want []string
	}{
		{2, []string{"toom33", "120", "✅ Verified"}},
		{3, []string{"toom22", "❌ Mismatch"}},
		{4, []string{"basecase", "❌ Failure (boom)"}},
		{5, []string{"toom63", "⏭ Skipped"}},
	}
	for _, c := range checks {
		for _, w := range c.want {
			if !strings.Contains(lines[c.line], w) {
				t.Errorf("row %q lacks %q", lines[c.line], w)
			}
		}
	}
	// Columns line up: "Status" starts where every status cell starts.
	col := strings.Index(header, "Status")
	for _, l := range lines[2:] {
		if idx := strings.IndexAny(l, "✅❌⏭"); len([]rune(l[:idx])) != col {
			t.Errorf("status of %q not aligned at column %d", l, col)
		}
	}
}

func TestPad(t *testing.T) {
	t.Parallel()
	if pad(-2) != "" || pad(0) != "" || pad(3) != "   " {
		t.Error("pad returned unexpected widths")
	}
}

func TestHandleError(t *testing.T) {
	withNoColor(t)
	tests := []struct {
		name string
		err  error
		code int
		want string
	}{
		{"timeout", context.DeadlineExceeded, apperrors.ExitErrorTimeout, "Timeout"},
		{"mismatch", apperrors.MismatchError{Algorithm: "toom44", Reference: "math/big", Limb: 2}, apperrors.ExitErrorMismatch, "Status: Mismatch."},
		{"config", apperrors.NewConfigError("bad"), apperrors.ExitErrorConfig, "Invalid configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if code := (CLIResultPresenter{}).HandleError(tt.err, time.Second, &buf); code != tt.code {
				t.Errorf("HandleError() = %d, want %d", code, tt.code)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q lacks %q", buf.String(), tt.want)
			}
		})
	}
}

func TestCLIProgressReporter(t *testing.T) {
	withSpinner(t, &MockSpinner{})
	var reporter orchestration.ProgressReporter = CLIProgressReporter{}
	ch := make(chan orchestration.ProgressUpdate)
	close(ch)
	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		wg.Add(1)
		reporter.DisplayProgress(&wg, ch, 1, &buf)
		wg.Wait()
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("DisplayProgress did not return after the channel closed")
	}
}

func TestDisplayMemoryStats(t *testing.T) {
	withNoColor(t)
	est := memory.EstimateMemoryUsage(1000, 1000, 3, 500)
	delta := metrics.MemoryDelta{Allocated: 3 << 20, GCCycles: 2, PeakHeap: 8 << 20, GCPause: time.Millisecond}

	var buf bytes.Buffer
	DisplayMemoryStats(delta, est, true, &buf)
	out := buf.String()
	for _, want := range []string{"Memory Stats:", "Peak heap:", "GC cycles:       2", "(GC suspended while timing)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}

	buf.Reset()
	DisplayMemoryStats(delta, est, false, &buf)
	if strings.Contains(buf.String(), "suspended") {
		t.Error("suspension reported while the collector ran")
	}
}
