// This file generates the candidate sizes tried by calibration.

package calibration

import (
	"math"
	"math/bits"
	"runtime"
	"slices"

	"github.com/agbru/bigmul/internal/config"
)

// ─────────────────────────────────────────────────────────────────────────────
// Crossover candidates
// ─────────────────────────────────────────────────────────────────────────────

// GenerateCrossoverCandidates returns about steps limb counts spread
// geometrically over [lo, hi], ascending and without duplicates. Every
// value is at least lo.
func GenerateCrossoverCandidates(lo, hi, steps int) []int {
	if hi < lo {
		hi = lo
	}
	if steps < 2 || hi == lo {
		return []int{lo}
	}
	out := make([]int, 0, steps)
	ratio := float64(hi) / float64(lo)
	for i := 0; i < steps; i++ {
		n := int(float64(lo)*math.Pow(ratio, float64(i)/float64(steps-1)) + 0.5)
		if i == steps-1 {
			n = hi
		}
		if len(out) == 0 || n > out[len(out)-1] {
			out = append(out, n)
		}
	}
	return out
}

// candidateRange returns the search interval of a tier: from the engine
// minimum to a few times the tuned default, scaled down on 32-bit words
// where the tables sit higher.
func candidateRange(minimum, def int) (lo, hi int) {
	hi = 3 * def
	if bits.UintSize == 32 {
		hi = 2 * def
	}
	return minimum, max(hi, 2*minimum)
}

// ─────────────────────────────────────────────────────────────────────────────
// Parallel threshold candidates
// ─────────────────────────────────────────────────────────────────────────────

// GenerateParallelThresholds returns the parallel thresholds, in limbs, to
// try on this machine. A single processor gains nothing from forking, so
// only the default is returned; more processors make lower thresholds
// worth trying.
func GenerateParallelThresholds() []int {
	numCPU := runtime.NumCPU()
	var thresholds []int
	switch {
	case numCPU == 1:
		return []int{config.DefaultParallelThreshold}
	case numCPU <= 4:
		thresholds = []int{1024, 2048, 4096, 8192}
	case numCPU <= 16:
		thresholds = []int{512, 1024, 2048, 4096, 8192}
	default:
		thresholds = []int{256, 512, 1024, 2048, 4096, 8192}
	}
	if !slices.Contains(thresholds, config.DefaultParallelThreshold) {
		thresholds = append(thresholds, config.DefaultParallelThreshold)
		slices.Sort(thresholds)
	}
	return thresholds
}

// GenerateQuickParallelThresholds is the reduced set used by quick
// calibration.
func GenerateQuickParallelThresholds() []int {
	if runtime.NumCPU() == 1 {
		return []int{config.DefaultParallelThreshold}
	}
	return []int{1024, config.DefaultParallelThreshold, 4096}
}
