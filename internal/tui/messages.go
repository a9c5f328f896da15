package tui

import (
	"time"

	"github.com/agbru/bigmul/internal/orchestration"
)

// Messages carry a Generation: pressing rerun starts a new generation and
// the model drops whatever an older run still sends.

// ProgressMsg reports the progress of one engine.
type ProgressMsg struct {
	TaskIndex       int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
	Generation      uint64
}

// ProgressDoneMsg is sent once the progress channel of a run is closed.
type ProgressDoneMsg struct {
	Generation uint64
}

// ComparisonResultsMsg carries the verified, sorted results of a run.
type ComparisonResultsMsg struct {
	Results    []orchestration.MultiplicationResult
	Generation uint64
}

// FinalResultMsg carries the fastest verified result.
type FinalResultMsg struct {
	Result     orchestration.MultiplicationResult
	Options    orchestration.PresentationOptions
	Generation uint64
}

// ErrorMsg reports the error that decided the exit code of a run.
type ErrorMsg struct {
	Err        error
	Duration   time.Duration
	Generation uint64
}

// RunCompleteMsg is sent when a run has been analyzed.
type RunCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg is sent when the context of a run ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}

// TickMsg drives the periodic runtime sampling.
type TickMsg time.Time

// MemStatsMsg is a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}
