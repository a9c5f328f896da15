package memory

import (
	"math"
	"math/bits"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// GCMode selects whether the collector is suspended while products are
// timed (-gc).
type GCMode string

const (
	GCModeAuto       GCMode = "auto"
	GCModeAggressive GCMode = "aggressive"
	GCModeDisabled   GCMode = "disabled"
)

// GCAutoThreshold is the smallest product, in limbs, for which auto mode
// suspends the collector. Below it a timed run allocates too little for a
// collection to land inside a measurement.
const GCAutoThreshold = 100_000

// The soft memory limit that stands in for the collector while it is
// suspended is the live heap plus gcHeadroom products, and never less than
// gcMinHeadroom above the live heap.
const (
	gcHeadroom    = 8
	gcMinHeadroom = 64 << 20
)

// GCController suspends the garbage collector around the timed section of
// a run. While suspended, a soft memory limit sized from the product keeps
// a runaway heap from exhausting the machine.
type GCController struct {
	mode         GCMode
	productBytes uint64
	active       bool
	logger       zerolog.Logger

	savedPercent int
	savedLimit   int64
	before       runtime.MemStats
	after        runtime.MemStats
}

// GCStats is what the runtime did between Begin and End.
type GCStats struct {
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	PauseTotalNs uint64
}

// NewGCController decides from mode and the product length whether the
// timed section runs without the collector. An unknown mode behaves like
// "disabled", which leaves the collector alone.
func NewGCController(mode string, productLimbs int) *GCController {
	gc := &GCController{
		mode:         GCMode(mode),
		productBytes: uint64(max(productLimbs, 0)) * bits.UintSize / 8,
		logger:       zerolog.Nop(),
	}
	switch gc.mode {
	case GCModeAggressive:
		gc.active = true
	case GCModeAuto:
		gc.active = productLimbs >= GCAutoThreshold
	}
	return gc
}

// Active reports whether Begin suspends the collector.
func (gc *GCController) Active() bool { return gc.active }

func (gc *GCController) SetLogger(l zerolog.Logger) { gc.logger = l }

// Begin suspends the collector and installs the soft limit. It is a no-op
// for an inactive controller.
func (gc *GCController) Begin() {
	if !gc.active {
		return
	}
	runtime.ReadMemStats(&gc.before)
	gc.savedPercent = debug.SetGCPercent(-1)
	limit := gc.before.HeapAlloc + max(gcHeadroom*gc.productBytes, gcMinHeadroom)
	gc.savedLimit = debug.SetMemoryLimit(int64(min(limit, math.MaxInt64)))
	gc.logger.Debug().
		Str("gc_mode", string(gc.mode)).
		Uint64("heap_alloc_bytes", gc.before.HeapAlloc).
		Uint64("soft_limit_bytes", limit).
		Msg("collector suspended")
}

// End restores the collector settings saved by Begin and collects the
// garbage of the timed section.
func (gc *GCController) End() {
	if !gc.active {
		return
	}
	runtime.ReadMemStats(&gc.after)
	debug.SetGCPercent(gc.savedPercent)
	debug.SetMemoryLimit(gc.savedLimit)
	runtime.GC()
	s := gc.Stats()
	gc.logger.Debug().
		Str("gc_mode", string(gc.mode)).
		Uint64("allocated_bytes", s.TotalAlloc).
		Uint32("gc_cycles", s.NumGC).
		Msg("collector resumed")
}

// Stats returns the runtime deltas between Begin and End; all zero for an
// inactive controller.
func (gc *GCController) Stats() GCStats {
	return GCStats{
		HeapAlloc:    gc.after.HeapAlloc,
		TotalAlloc:   gc.after.TotalAlloc - gc.before.TotalAlloc,
		NumGC:        gc.after.NumGC - gc.before.NumGC,
		PauseTotalNs: gc.after.PauseTotalNs - gc.before.PauseTotalNs,
	}
}
