package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/bigmul/internal/arith"
)

// MultiplicationResult is the outcome of one engine in a comparison run.
// It is the shared domain type between orchestration and presentation.
type MultiplicationResult struct {
	// Name is the engine name (e.g., "toom33").
	Name string
	// Product is a*b. It is nil if an error occurred.
	Product []arith.Word
	// Duration is the fastest of the timed repetitions.
	Duration time.Duration
	// Total is the summed time of all completed repetitions.
	Total time.Duration
	// Reps is the number of completed repetitions.
	Reps int
	// ScratchLimbs is the scratch the engine needed for these sizes.
	ScratchLimbs int
	// Skipped is set when the operand sizes lie outside the engine's domain.
	// Err then wraps mul.ErrOutOfDomain.
	Skipped bool
	// Err contains any error that occurred during the run or verification.
	Err error
}

// ProgressUpdate reports the fraction of repetitions an engine completed.
type ProgressUpdate struct {
	// TaskIndex is the position of the engine in the run.
	TaskIndex int
	// Value is in [0, 1].
	Value float64
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	RunID   string
	ALimbs  int
	BLimbs  int
	Verbose bool
	Hex     bool
}

// ProgressReporter displays the progress of a run. It decouples the
// orchestration layer from spinners, bars and dashboards.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed, then
	// calls wg.Done.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving progress updates from the engines.
	//   - numTasks: The number of engines being tracked.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numTasks int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numTasks int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numTasks int, out io.Writer) {
	f(wg, progressChan, numTasks, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. Used in quiet mode and tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ErrorHandler handles run errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}

// ResultPresenter presents the results of a comparison run. Different
// front ends (CLI, TUI, quiet mode) implement it without touching the
// orchestration logic.
type ResultPresenter interface {
	ErrorHandler

	// PresentComparisonTable displays the comparison summary table.
	PresentComparisonTable(results []MultiplicationResult, out io.Writer)

	// PresentResult displays the verified product of the fastest engine.
	PresentResult(result MultiplicationResult, opts PresentationOptions, out io.Writer)
}
