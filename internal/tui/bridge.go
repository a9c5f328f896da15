package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/bigmul/internal/errors"
	"github.com/agbru/bigmul/internal/orchestration"
)

// messenger delivers messages to the running dashboard.
type messenger interface {
	Send(msg tea.Msg)
}

// programRef points at the tea.Program. The model is copied on every
// Update, so the run goroutines share this pointer instead of the model.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram installs p once it exists.
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.program = p
}

// Send forwards msg, dropping it until a program is installed.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// runBridge turns the callbacks of one comparison run into dashboard
// messages. Every message carries the generation of the run, so that the
// model can ignore a run superseded by a rerun.
type runBridge struct {
	to  messenger
	gen uint64
}

var (
	_ orchestration.ProgressReporter = runBridge{}
	_ orchestration.ResultPresenter  = runBridge{}
)

// DisplayProgress forwards each engine update with the averaged progress
// and the ETA, then signals the end of the progress stream.
func (b runBridge) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numTasks int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numTasks)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}
	for update := range progressChan {
		p := agg.Update(update)
		b.to.Send(ProgressMsg{
			TaskIndex:       p.TaskIndex,
			Value:           p.Value,
			AverageProgress: p.AverageProgress,
			ETA:             p.ETA,
			Generation:      b.gen,
		})
	}
	b.to.Send(ProgressDoneMsg{Generation: b.gen})
}

func (b runBridge) PresentComparisonTable(results []orchestration.MultiplicationResult, _ io.Writer) {
	b.to.Send(ComparisonResultsMsg{Results: results, Generation: b.gen})
}

func (b runBridge) PresentResult(result orchestration.MultiplicationResult, opts orchestration.PresentationOptions, _ io.Writer) {
	b.to.Send(FinalResultMsg{Result: result, Options: opts, Generation: b.gen})
}

// HandleError shows err on the dashboard and returns its exit code.
func (b runBridge) HandleError(err error, duration time.Duration, _ io.Writer) int {
	if err != nil {
		b.to.Send(ErrorMsg{Err: err, Duration: duration, Generation: b.gen})
	}
	return apperrors.ExitCode(err)
}
