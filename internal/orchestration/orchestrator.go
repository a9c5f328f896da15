package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/bigmul/internal/arith"
	apperrors "github.com/agbru/bigmul/internal/errors"
	"github.com/agbru/bigmul/internal/memory"
	"github.com/agbru/bigmul/internal/metrics"
	"github.com/agbru/bigmul/internal/mul"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking engine
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// tracerName is the OpenTelemetry instrumentation scope of runs.
const tracerName = "bigmul"

// RunOptions configures ExecuteMultiplications.
type RunOptions struct {
	// RunID tags the spans and log lines of the run.
	RunID string
	// Reps is the number of timed repetitions per engine; values below 1
	// mean one.
	Reps int
	// Concurrency bounds the engines running at once; 0 means no limit.
	Concurrency int
	// Metrics, if non-nil, receives one observation per repetition.
	Metrics *metrics.Collector
	// Logger receives debug events. The zero value discards them.
	Logger zerolog.Logger
}

// ExecuteMultiplications multiplies ops with every engine concurrently and
// collects the results, in the order of engines.
//
// Product buffers come from arena, which must have room for one product per
// engine (a nil arena allocates on the heap). Engines whose domain excludes
// the operand sizes are reported as skipped. A canceled context stops each
// engine before its next repetition.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - engines: The engines to run.
//   - ops: The operands, with len(A) >= len(B) >= 1.
//   - arena: The arena holding the products.
//   - opts: Repetitions, metrics and logging.
//   - progressReporter: The progress reporter (NullProgressReporter for quiet mode).
//   - out: The io.Writer for displaying progress updates.
//
// Returns:
//   - []MultiplicationResult: One result per engine.
func ExecuteMultiplications(ctx context.Context, engines []Engine, ops Operands, arena *memory.Arena, opts RunOptions, progressReporter ProgressReporter, out io.Writer) []MultiplicationResult {
	an, bn := len(ops.A), len(ops.B)
	reps := max(opts.Reps, 1)
	tracer := otel.Tracer(tracerName)
	ctx, runSpan := tracer.Start(ctx, "Compare", trace.WithAttributes(
		attribute.String("bigmul.run_id", opts.RunID),
		attribute.Int("bigmul.a_limbs", an),
		attribute.Int("bigmul.b_limbs", bn),
		attribute.Int("bigmul.engines", len(engines)),
		attribute.Int("bigmul.reps", reps),
	))
	defer runSpan.End()

	products := make([][]arith.Word, len(engines))
	for i := range products {
		if arena != nil {
			products[i] = arena.Alloc(an + bn)
		} else {
			products[i] = make([]arith.Word, an+bn)
		}
	}

	results := make([]MultiplicationResult, len(engines))
	progressChan := make(chan ProgressUpdate, len(engines)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(engines), out)

	var g errgroup.Group
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i, engine := range engines {
		g.Go(func() error {
			results[i] = runEngine(ctx, tracer, engine, i, ops, products[i], reps, opts, progressChan)
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()
	return results
}

// runEngine times reps products of one engine.
func runEngine(ctx context.Context, tracer trace.Tracer, engine Engine, idx int, ops Operands, product []arith.Word, reps int, opts RunOptions, progressChan chan<- ProgressUpdate) MultiplicationResult {
	name := engine.Name()
	ctx, span := tracer.Start(ctx, "Multiply", trace.WithAttributes(attribute.String("bigmul.algorithm", name)))
	defer span.End()

	res := MultiplicationResult{Name: name}
	scratch, err := engine.Itch(len(ops.A), len(ops.B))
	if err != nil {
		res.Err = err
		res.Skipped = errors.Is(err, mul.ErrOutOfDomain)
		span.SetAttributes(attribute.Bool("bigmul.skipped", res.Skipped))
		progressChan <- ProgressUpdate{TaskIndex: idx, Value: 1}
		return res
	}
	res.ScratchLimbs = scratch
	span.SetAttributes(attribute.Int("bigmul.scratch_limbs", scratch))

	for r := 0; r < reps; r++ {
		if err := ctx.Err(); err != nil {
			res.Err = err
			if errors.Is(err, context.DeadlineExceeded) {
				res.Err = apperrors.TimeoutError{Algorithm: name, Completed: r, Reps: reps}
			}
			break
		}
		start := time.Now()
		err := engine.Multiply(ctx, product, ops.A, ops.B)
		d := time.Since(start)
		if err != nil {
			res.Err = apperrors.CalculationError{Algorithm: name, Cause: err}
			break
		}
		res.Reps++
		res.Total += d
		if res.Duration == 0 || d < res.Duration {
			res.Duration = d
		}
		if opts.Metrics != nil {
			opts.Metrics.ObserveMultiplication(name, d, scratch)
		}
		progressChan <- ProgressUpdate{TaskIndex: idx, Value: float64(r+1) / float64(reps)}
	}

	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
	} else {
		res.Product = product
	}
	opts.Logger.Debug().
		Str("algo", name).
		Int("reps", res.Reps).
		Dur("best", res.Duration).
		Int("scratch_limbs", scratch).
		Err(res.Err).
		Msg("engine finished")
	return res
}

// VerifyResults checks every successful product against want, the math/big
// reference, and against the first successful product. A failed check
// replaces the result's product with a MismatchError and is counted by m
// when it is non-nil.
//
// Returns:
//   - error: The first mismatch found, or nil.
func VerifyResults(results []MultiplicationResult, want []arith.Word, m *metrics.Collector) error {
	var first *MultiplicationResult
	var firstErr error
	for i := range results {
		res := &results[i]
		if res.Err != nil {
			continue
		}
		err := Verify(res.Name, ReferenceName, res.Product, want)
		if err == nil && first != nil {
			err = Verify(res.Name, first.Name, res.Product, first.Product)
		}
		if err != nil {
			res.Err = err
			res.Product = nil
			if m != nil {
				m.RecordMismatch()
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if first == nil {
			first = res
		}
	}
	return firstErr
}

// SortResults orders results fastest first, then failures, then skipped
// engines.
func SortResults(results []MultiplicationResult) {
	rank := func(r MultiplicationResult) int {
		switch {
		case r.Skipped:
			return 2
		case r.Err != nil:
			return 1
		}
		return 0
	}
	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := rank(results[i]), rank(results[j])
		if ri != rj {
			return ri < rj
		}
		return results[i].Duration < results[j].Duration
	})
}

// AnalyzeComparisonResults verifies the results of a run, displays the
// comparison table and the fastest verified product, and returns the exit
// code of the run.
//
// Parameters:
//   - results: The results to analyze; they are verified and sorted in place.
//   - want: The math/big reference product.
//   - opts: Presentation options.
//   - presenter: The result presenter for display formatting.
//   - m: Metrics for mismatches; may be nil.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparisonResults(results []MultiplicationResult, want []arith.Word, opts PresentationOptions, presenter ResultPresenter, m *metrics.Collector, out io.Writer) int {
	mismatch := VerifyResults(results, want, m)
	SortResults(results)
	presenter.PresentComparisonTable(results, out)

	if mismatch != nil {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! A product differs from the reference.\n")
		return presenter.HandleError(mismatch, 0, out)
	}

	var firstErr error
	successCount := 0
	for _, res := range results {
		switch {
		case res.Err == nil:
			successCount++
		case !res.Skipped && firstErr == nil:
			firstErr = res.Err
		}
	}
	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the multiplication.\n")
		if firstErr == nil {
			firstErr = apperrors.NewConfigError("no selected algorithm accepts %d x %d limbs", opts.ALimbs, opts.BLimbs)
		}
		return presenter.HandleError(firstErr, 0, out)
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All products match %s.\n", ReferenceName)
	presenter.PresentResult(results[0], opts, out)
	if firstErr != nil {
		return presenter.HandleError(firstErr, 0, out)
	}
	return apperrors.ExitSuccess
}
