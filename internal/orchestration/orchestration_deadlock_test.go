package orchestration

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/agbru/bigmul/internal/arith"
)

func instantEngine(name string) Engine {
	return &MockEngine{NameValue: name, MultiplyFunc: func(context.Context, []arith.Word, []arith.Word, []arith.Word) error {
		return nil
	}}
}

func sleepyEngine(name string, d time.Duration) Engine {
	return &MockEngine{NameValue: name, MultiplyFunc: func(ctx context.Context, _, _, _ []arith.Word) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
			return nil
		}
	}}
}

func failingEngine(name string) Engine {
	return &MockEngine{NameValue: name, MultiplyFunc: func(context.Context, []arith.Word, []arith.Word, []arith.Word) error {
		return errors.New("carry chain broken")
	}}
}

// laggingReporter drains slowly, so the progress buffer fills up and the
// engines block on it.
type laggingReporter struct{}

func (laggingReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
		time.Sleep(10 * time.Microsecond)
	}
}

func finishesWithin(t *testing.T, limit time.Duration, run func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		run()
	}()
	select {
	case <-done:
	case <-time.After(limit):
		t.Fatalf("ExecuteMultiplications still running after %v", limit)
	}
}

func TestExecuteMultiplications_NoDeadlock(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		engines []Engine
		reps    int
	}{
		{"instant engines", []Engine{instantEngine("a"), instantEngine("b"), instantEngine("c")}, 1},
		{"fast next to slow", []Engine{instantEngine("fast"), sleepyEngine("slow", time.Millisecond)}, 5},
		{"one engine failing", []Engine{instantEngine("ok"), failingEngine("bad")}, 3},
		{"progress flood", []Engine{instantEngine("x"), instantEngine("y")}, 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			finishesWithin(t, 10*time.Second, func() {
				ExecuteMultiplications(t.Context(), tt.engines, smallOperands(), nil,
					RunOptions{Reps: tt.reps, Concurrency: 1}, laggingReporter{}, io.Discard)
			})
		})
	}
}

func TestExecuteMultiplications_CancelStopsRepetitions(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engines := []Engine{sleepyEngine("s1", 20*time.Millisecond), sleepyEngine("s2", 20*time.Millisecond)}

	var results []MultiplicationResult
	time.AfterFunc(50*time.Millisecond, cancel)
	finishesWithin(t, 5*time.Second, func() {
		results = ExecuteMultiplications(ctx, engines, smallOperands(), nil, RunOptions{Reps: 1000}, NullProgressReporter{}, io.Discard)
	})
	for _, res := range results {
		if !errors.Is(res.Err, context.Canceled) || res.Reps >= 1000 {
			t.Errorf("%s: Err = %v after %d reps, want a cancellation", res.Name, res.Err, res.Reps)
		}
	}
}
