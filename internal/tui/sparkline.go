package tui

import "math"

// sparkLevels are the eight block heights, lowest first.
const sparkLevels = "▁▂▃▄▅▆▇█"

// history keeps the newest samples of a series, up to a fixed width.
// The dashboard keeps one for the heap and one for the best product time
// across reruns.
type history struct {
	samples []float64
	limit   int
}

func newHistory(limit int) *history {
	return &history{limit: max(limit, 1)}
}

// add appends v, dropping the oldest sample once the limit is reached.
func (h *history) add(v float64) {
	h.samples = append(h.samples, v)
	if over := len(h.samples) - h.limit; over > 0 {
		h.samples = append(h.samples[:0], h.samples[over:]...)
	}
}

// fit changes the limit, keeping the newest samples.
func (h *history) fit(limit int) {
	h.limit = max(limit, 1)
	if over := len(h.samples) - h.limit; over > 0 {
		h.samples = append(h.samples[:0], h.samples[over:]...)
	}
}

func (h *history) values() []float64 { return h.samples }

// last returns the newest sample, or 0 when the series is empty.
func (h *history) last() float64 {
	if len(h.samples) == 0 {
		return 0
	}
	return h.samples[len(h.samples)-1]
}

// RenderSparkline draws values scaled to [lo, hi], clamping outliers. A
// degenerate range draws every sample at the lowest level.
func RenderSparkline(values []float64, lo, hi float64) string {
	levels := []rune(sparkLevels)
	top := len(levels) - 1
	out := make([]rune, len(values))
	for i, v := range values {
		level := 0
		if hi > lo {
			level = int(math.Round((v - lo) / (hi - lo) * float64(top)))
			level = min(max(level, 0), top)
		}
		out[i] = levels[level]
	}
	return string(out)
}

// spanOf returns the smallest and largest sample.
func spanOf(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}
	return lo, hi
}
