package cli

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	apperrors "github.com/agbru/bigmul/internal/errors"
	"github.com/agbru/bigmul/internal/memory"
	"github.com/agbru/bigmul/internal/metrics"
	"github.com/agbru/bigmul/internal/orchestration"
	"github.com/agbru/bigmul/internal/ui"
)

// CLIColorProvider supplies the active theme's colors to apperrors.
type CLIColorProvider struct{}

func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and a progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for a running comparison.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numTasks int, out io.Writer) {
	DisplayProgress(wg, progressChan, numTasks, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter with
// colorized terminal output.
type CLIResultPresenter struct{}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentComparisonTable displays one row per engine: best and mean time,
// scratch size and status. Padding is computed by hand because the cells
// carry ANSI color codes.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.MultiplicationResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	const (
		hAlgo    = "Algorithm"
		hBest    = "Best"
		hMean    = "Mean"
		hScratch = "Scratch"
	)
	nameW, bestW, meanW, scratchW := len(hAlgo), len(hBest), len(hMean), len(hScratch)
	rows := make([][3]string, len(results))
	for i, res := range results {
		best, mean, scratch := "-", "-", "-"
		if res.Reps > 0 {
			best = displayDuration(res.Duration)
			mean = displayDuration(res.Total / time.Duration(res.Reps))
		}
		if !res.Skipped {
			scratch = fmt.Sprint(res.ScratchLimbs)
		}
		rows[i] = [3]string{best, mean, scratch}
		nameW = max(nameW, len(res.Name))
		bestW = max(bestW, len([]rune(best)))
		meanW = max(meanW, len([]rune(mean)))
		scratchW = max(scratchW, len(scratch))
	}

	u, r := ui.ColorUnderline(), ui.ColorReset()
	fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s%s%s%s   %s%s%s%s   %sStatus%s\n",
		u, hAlgo, r, pad(nameW-len(hAlgo)),
		u, hBest, r, pad(bestW-len(hBest)),
		u, hMean, r, pad(meanW-len(hMean)),
		u, hScratch, r, pad(scratchW-len(hScratch)),
		u, r)

	for i, res := range results {
		best, mean, scratch := rows[i][0], rows[i][1], rows[i][2]
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s%s   %s%s   %s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(), pad(nameW-len(res.Name)),
			ui.ColorYellow(), best, ui.ColorReset(), pad(bestW-len([]rune(best))),
			mean, pad(meanW-len([]rune(mean))),
			scratch, pad(scratchW-len(scratch)),
			statusCell(res))
	}
}

func statusCell(res orchestration.MultiplicationResult) string {
	var mismatch apperrors.MismatchError
	switch {
	case res.Skipped:
		return fmt.Sprintf("%s⏭ Skipped (sizes outside domain)%s", ui.ColorCyan(), ui.ColorReset())
	case errors.As(res.Err, &mismatch):
		return fmt.Sprintf("%s❌ Mismatch (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
	case res.Err != nil:
		return fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
	}
	return fmt.Sprintf("%s✅ Verified%s", ui.ColorGreen(), ui.ColorReset())
}

// pad returns n spaces, or nothing when n <= 0.
func pad(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("%*s", n, "")
}

// PresentResult displays the fastest verified product.
func (CLIResultPresenter) PresentResult(result orchestration.MultiplicationResult, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayResult(result.Product, result.Name, result.Duration, opts, out)
}

// HandleError prints the failure status line and returns the exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, out, CLIColorProvider{})
}

// DisplayMemoryStats shows what the run cost in memory.
//
// Parameters:
//   - delta: Runtime statistics taken around the run.
//   - est: The estimate checked before the run.
//   - gcSuspended: Whether the collector was suspended while timing.
//   - out: The output writer.
func DisplayMemoryStats(delta metrics.MemoryDelta, est memory.Estimate, gcSuspended bool, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Estimated:       %s\n", memory.FormatMemoryEstimate(est))
	fmt.Fprintf(out, "  Peak heap:       %s\n", memory.FormatBytes(delta.PeakHeap))
	fmt.Fprintf(out, "  Total allocated: %s\n", memory.FormatBytes(delta.Allocated))
	fmt.Fprintf(out, "  GC cycles:       %d\n", delta.GCCycles)
	if gcSuspended {
		fmt.Fprintf(out, "  GC pause total:  %s (GC suspended while timing)\n", delta.GCPause)
	} else {
		fmt.Fprintf(out, "  GC pause total:  %s\n", delta.GCPause)
	}
}
