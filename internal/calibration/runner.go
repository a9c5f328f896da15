package calibration

import (
	"context"
	"time"

	"github.com/agbru/bigmul/internal/arith"
	"github.com/agbru/bigmul/internal/config"
	"github.com/agbru/bigmul/internal/mul"
	"github.com/agbru/bigmul/internal/orchestration"
)

const (
	// minTrialTime is the shortest timed loop of a full calibration.
	minTrialTime = 4 * time.Millisecond
	// quickTrialTime is the shortest timed loop of a quick calibration.
	quickTrialTime = time.Millisecond
	// trialRounds is the number of timed loops per measurement; the best
	// one is kept.
	trialRounds = 3
)

// calibrationRunner times forced engines under the thresholds found so far.
type calibrationRunner struct {
	ctx      context.Context
	th       config.Thresholds
	mp       *mul.Multiplier
	minTrial time.Duration
	rounds   int
}

// newCalibrationRunner creates a runner starting from the default table.
func newCalibrationRunner(ctx context.Context, quick bool) *calibrationRunner {
	r := &calibrationRunner{
		ctx:      ctx,
		th:       config.DefaultThresholds(),
		mp:       mul.Default(),
		minTrial: minTrialTime,
		rounds:   trialRounds,
	}
	if quick {
		r.minTrial, r.rounds = quickTrialTime, 1
	}
	return r
}

// apply installs a threshold value so that later measurements recurse
// through it. Dependent tiers are raised to keep the table valid.
func (r *calibrationRunner) apply(field func(*config.Thresholds) *int, value int) error {
	th := r.th
	*field(&th) = value
	th = orderThresholds(th)
	mp, err := mul.New(th)
	if err != nil {
		return err
	}
	r.th, r.mp = th, mp
	return nil
}

// orderThresholds raises the tiers that must not sit below their
// predecessor.
func orderThresholds(th config.Thresholds) config.Thresholds {
	th.Toom44 = max(th.Toom44, th.Toom33, config.MinToom44)
	th.Toom6H = max(th.Toom6H, th.Toom44, config.MinToom6H)
	th.Toom8H = max(th.Toom8H, th.Toom6H, config.MinToom8H)
	return th
}

// timeEngine returns the best time per product of alg on an x bn random
// operands.
func (r *calibrationRunner) timeEngine(alg mul.Algorithm, an, bn int) (time.Duration, error) {
	need, err := r.mp.Itch(alg, an, bn)
	if err != nil {
		return 0, err
	}
	ops := orchestration.GenerateOperands(nil, an, bn, int64(an)<<20|int64(bn))
	out := make([]arith.Word, an+bn)
	scratch := make([]arith.Word, need)

	best := time.Duration(1<<63 - 1)
	for range r.rounds {
		for iters := 1; ; iters *= 2 {
			if err := r.ctx.Err(); err != nil {
				return 0, err
			}
			start := time.Now()
			for range iters {
				if err := r.mp.MulWith(alg, out, ops.A, ops.B, scratch); err != nil {
					return 0, err
				}
			}
			if elapsed := time.Since(start); elapsed >= r.minTrial {
				best = min(best, elapsed/time.Duration(iters))
				break
			}
		}
	}
	return best, nil
}

// timeConcurrent returns the best time of a concurrent n x n product with
// the given parallel threshold.
func (r *calibrationRunner) timeConcurrent(n, threshold int) (time.Duration, error) {
	mp, err := mul.New(r.th, mul.WithParallelThreshold(threshold))
	if err != nil {
		return 0, err
	}
	ops := orchestration.GenerateOperands(nil, n, n, int64(threshold))
	out := make([]arith.Word, 2*n)
	best := time.Duration(1<<63 - 1)
	for range r.rounds {
		start := time.Now()
		if err := mp.MulConcurrent(r.ctx, out, ops.A, ops.B); err != nil {
			return 0, err
		}
		best = min(best, time.Since(start))
	}
	return best, nil
}
