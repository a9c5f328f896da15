package calibration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/bigmul/internal/cli"
	"github.com/agbru/bigmul/internal/config"
	apperrors "github.com/agbru/bigmul/internal/errors"
	"github.com/agbru/bigmul/internal/mul"
	"github.com/agbru/bigmul/internal/orchestration"
	"github.com/agbru/bigmul/internal/ui"
)

// crossover describes one threshold: the engine used below it, the engine
// used from it on, and the operand shape on which they are compared
// (an = bn*Num/Den).
type crossover struct {
	Name         string
	Lower, Upper mul.Algorithm
	Num, Den     int
	Min          int
	Field        func(*config.Thresholds) *int
}

// crossovers are calibrated in this order, so that each measurement
// recurses through the tiers already tuned.
var crossovers = []crossover{
	{"toom22", mul.Basecase, mul.Toom22, 1, 1, config.MinToom22, func(t *config.Thresholds) *int { return &t.Toom22 }},
	{"toom33", mul.Toom22, mul.Toom33, 1, 1, config.MinToom33, func(t *config.Thresholds) *int { return &t.Toom33 }},
	{"toom44", mul.Toom33, mul.Toom44, 1, 1, config.MinToom44, func(t *config.Thresholds) *int { return &t.Toom44 }},
	{"toom6h", mul.Toom44, mul.Toom6H, 1, 1, config.MinToom6H, func(t *config.Thresholds) *int { return &t.Toom6H }},
	{"toom8h", mul.Toom6H, mul.Toom8H, 1, 1, config.MinToom8H, func(t *config.Thresholds) *int { return &t.Toom8H }},
	{"toom32-to-43", mul.Toom32, mul.Toom43, 4, 3, config.MinCross, func(t *config.Thresholds) *int { return &t.Toom32To43 }},
	{"toom32-to-53", mul.Toom32, mul.Toom53, 3, 2, config.MinCross, func(t *config.Thresholds) *int { return &t.Toom32To53 }},
	{"toom42-to-53", mul.Toom42, mul.Toom53, 9, 5, config.MinCross, func(t *config.Thresholds) *int { return &t.Toom42To53 }},
	{"toom42-to-63", mul.Toom42, mul.Toom63, 2, 1, config.MinToom42To63, func(t *config.Thresholds) *int { return &t.Toom42To63 }},
}

const (
	fullSteps  = 12
	quickSteps = 6
	// parallelLimbs is the operand length of the parallel threshold trials.
	parallelLimbs = 8192
)

// CalibrationOptions configures the calibration process.
type CalibrationOptions struct {
	// ProfilePath is where the profile is saved. Empty means the default
	// path.
	ProfilePath string
	// SaveProfile indicates whether to save the calibration results.
	SaveProfile bool
	// Quick shortens every measurement and tries fewer sizes.
	Quick bool
	// Logger receives one debug event per threshold.
	Logger zerolog.Logger
}

// Measurement is the timing of both engines of a crossover at one size.
type Measurement struct {
	BLimbs, ALimbs int
	Lower, Upper   time.Duration
}

// TierResult is the outcome of one crossover search.
type TierResult struct {
	Name         string
	Lower, Upper mul.Algorithm
	// Threshold is the first size from which Upper beat Lower twice in a
	// row, or one past the largest size when it never did.
	Threshold int
	// Found is false when no size could be measured; Threshold then holds
	// the previous value.
	Found  bool
	Points []Measurement
}

// Result is a complete calibration.
type Result struct {
	Thresholds        config.Thresholds
	ParallelThreshold int
	Tiers             []TierResult
	Duration          time.Duration
}

// Calibrate measures every crossover and the parallel threshold.
//
// Parameters:
//   - ctx: Cancels the search between two timed loops.
//   - quick: Shorter trials over fewer sizes.
//   - progress: Called with the completed fraction; may be nil.
//
// Returns:
//   - Result: The calibrated thresholds, valid per config.Thresholds.Validate.
//   - error: The context error if the search was interrupted.
func Calibrate(ctx context.Context, quick bool, progress func(float64)) (Result, error) {
	start := time.Now()
	steps := fullSteps
	parallelCands := GenerateParallelThresholds()
	if quick {
		steps = quickSteps
		parallelCands = GenerateQuickParallelThresholds()
	}
	if progress == nil {
		progress = func(float64) {}
	}

	runner := newCalibrationRunner(ctx, quick)
	total := float64(len(crossovers)*steps + len(parallelCands))
	done := 0.0
	tick := func() {
		done++
		progress(done / total)
	}

	res := Result{ParallelThreshold: config.DefaultParallelThreshold}
	for _, c := range crossovers {
		lo, hi := candidateRange(c.Min, *c.Field(&runner.th))
		tier, err := findCrossover(runner, c, GenerateCrossoverCandidates(lo, hi, steps), tick)
		if err != nil {
			return res, err
		}
		if tier.Found {
			if err := runner.apply(c.Field, tier.Threshold); err != nil {
				return res, err
			}
		} else {
			tier.Threshold = *c.Field(&runner.th)
		}
		res.Tiers = append(res.Tiers, tier)
	}
	res.Thresholds = runner.th

	bestDur := time.Duration(1<<63 - 1)
	for _, cand := range parallelCands {
		dur, err := runner.timeConcurrent(parallelLimbs, cand)
		if err != nil {
			return res, err
		}
		if dur < bestDur {
			bestDur, res.ParallelThreshold = dur, cand
		}
		tick()
	}
	res.Duration = time.Since(start)
	return res, nil
}

// findCrossover times c.Lower against c.Upper at each candidate size.
func findCrossover(r *calibrationRunner, c crossover, candidates []int, tick func()) (TierResult, error) {
	tier := TierResult{Name: c.Name, Lower: c.Lower, Upper: c.Upper}
	var wins []bool
	for _, bn := range candidates {
		an := bn * c.Num / c.Den
		if !c.Lower.Valid(an, bn) || !c.Upper.Valid(an, bn) {
			tick()
			continue
		}
		lower, err := r.timeEngine(c.Lower, an, bn)
		if err != nil {
			return tier, err
		}
		upper, err := r.timeEngine(c.Upper, an, bn)
		if err != nil {
			return tier, err
		}
		tier.Points = append(tier.Points, Measurement{BLimbs: bn, ALimbs: an, Lower: lower, Upper: upper})
		wins = append(wins, upper < lower)
		tick()
	}
	if len(tier.Points) == 0 {
		return tier, nil
	}
	tier.Found = true
	tier.Threshold = tier.Points[len(tier.Points)-1].BLimbs + 1
	for i := range wins {
		if wins[i] && (i+1 == len(wins) || wins[i+1]) {
			tier.Threshold = tier.Points[i].BLimbs
			break
		}
	}
	tier.Threshold = max(tier.Threshold, c.Min)
	return tier, nil
}

// RunCalibration runs a calibration with a progress bar, prints the
// results table and saves the profile.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - out: The io.Writer to which progress and results will be written.
//   - opts: Profile path, quick mode and logging.
//
// Returns:
//   - int: The exit code (0 for success, non-zero for errors).
func RunCalibration(ctx context.Context, out io.Writer, opts CalibrationOptions) int {
	mode := "full"
	if opts.Quick {
		mode = "quick"
	}
	fmt.Fprintf(out, "--- Calibration Mode: Finding the Multiplication Thresholds (%s) ---\n", mode)
	fmt.Fprintf(out, "%sTiming forced engines on both sides of %d crossovers%s\n",
		ui.ColorCyan(), len(crossovers), ui.ColorReset())

	var wg sync.WaitGroup
	progressChan := make(chan orchestration.ProgressUpdate, orchestration.ProgressBufferMultiplier)
	wg.Add(1)
	go cli.DisplayProgress(&wg, progressChan, 1, out)

	start := time.Now()
	res, err := Calibrate(ctx, opts.Quick, func(v float64) {
		select {
		case progressChan <- orchestration.ProgressUpdate{TaskIndex: 0, Value: v}:
		default:
		}
	})
	close(progressChan)
	wg.Wait()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintf(out, "\n%sCalibration interrupted.%s\n", ui.ColorYellow(), ui.ColorReset())
		}
		return apperrors.HandleCalculationError(err, time.Since(start), out, cli.CLIColorProvider{})
	}

	for _, tier := range res.Tiers {
		opts.Logger.Debug().
			Str("threshold", tier.Name).
			Int("limbs", tier.Threshold).
			Bool("found", tier.Found).
			Int("points", len(tier.Points)).
			Msg("crossover calibrated")
	}

	printCalibrationResults(out, res)
	printCalibrationOutput(res, out)

	if opts.SaveProfile {
		profile := NewProfile()
		profile.Thresholds = res.Thresholds
		profile.ParallelThreshold = res.ParallelThreshold
		profile.Took = res.Duration.String()
		profile.Quick = opts.Quick
		path := resolvePath(opts.ProfilePath)
		if err := profile.SaveProfile(path); err != nil {
			fmt.Fprintf(out, "%sWarning: failed to save profile: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
		} else {
			fmt.Fprintf(out, "%sCalibration profile saved to %s%s\n", ui.ColorGreen(), path, ui.ColorReset())
		}
	}
	return apperrors.ExitSuccess
}
