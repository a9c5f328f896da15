package config

import (
	"fmt"
	"math/bits"

	apperrors "github.com/agbru/bigmul/internal/errors"
)

// Threshold resolution chain (highest priority first):
//   1. CLI flags (-toom22, -toom33, ...)
//   2. Environment variables (BIGMUL_TOOM22, etc.)
//   3. Cached calibration profile (~/.bigmul_calibration.json)
//   4. Static defaults for the word size (this file)

// Thresholds holds the limb counts at which the dispatcher moves from one
// multiplication algorithm to the next. A Thresholds value is never mutated
// once a multiplier has been built from it.
//
// Toom22, Toom33, Toom44, Toom6H and Toom8H are compared against the length
// of the shorter operand. The cross thresholds (Toom32To43 and the like)
// choose between two algorithms that both handle the same operand ratio.
type Thresholds struct {
	Toom22     int `json:"toom22"`
	Toom33     int `json:"toom33"`
	Toom44     int `json:"toom44"`
	Toom6H     int `json:"toom6h"`
	Toom8H     int `json:"toom8h"`
	Toom32To43 int `json:"toom32_to_43"`
	Toom32To53 int `json:"toom32_to_53"`
	Toom42To53 int `json:"toom42_to_53"`
	Toom42To63 int `json:"toom42_to_63"`
}

// Tuned tables for 64-bit and 32-bit words.
var (
	thresholds64 = Thresholds{
		Toom22:     20,
		Toom33:     39,
		Toom44:     340,
		Toom6H:     345,
		Toom8H:     640,
		Toom32To43: 60,
		Toom32To53: 300,
		Toom42To53: 600,
		Toom42To63: 103,
	}
	thresholds32 = Thresholds{
		Toom22:     118,
		Toom33:     101,
		Toom44:     530,
		Toom6H:     738,
		Toom8H:     984,
		Toom32To43: 315,
		Toom32To53: 307,
		Toom42To53: 328,
		Toom42To63: 295,
	}
)

// Smallest values the engines accept. Below these a tier can hand an engine
// an operand split with an empty or oversized piece.
const (
	MinToom22     = 8
	MinToom33     = 20
	MinToom44     = 24
	MinToom6H     = 42
	MinToom8H     = 86
	MinCross      = 20
	MinToom42To63 = 36
)

// DefaultThresholds returns the tuned table for the platform word size.
func DefaultThresholds() Thresholds {
	if bits.UintSize == 32 {
		return thresholds32
	}
	return thresholds64
}

// Validate reports whether every tier leaves the engines inside their
// domain. It returns an apperrors.ConfigError naming the first offending
// field.
//
// Toom33 may be smaller than Toom22; the Toom-22 tier is then simply empty.
func (t Thresholds) Validate() error {
	checks := []struct {
		name string
		val  int
		min  int
	}{
		{"toom22", t.Toom22, MinToom22},
		{"toom33", t.Toom33, MinToom33},
		{"toom44", t.Toom44, max(MinToom44, t.Toom33)},
		{"toom6h", t.Toom6H, max(MinToom6H, t.Toom44)},
		{"toom8h", t.Toom8H, max(MinToom8H, t.Toom6H)},
		{"toom32-to-43", t.Toom32To43, MinCross},
		{"toom32-to-53", t.Toom32To53, MinCross},
		{"toom42-to-53", t.Toom42To53, MinCross},
		{"toom42-to-63", t.Toom42To63, MinToom42To63},
	}
	for _, c := range checks {
		if c.val < c.min {
			return apperrors.NewConfigError("threshold %s must be at least %d, got %d", c.name, c.min, c.val)
		}
	}
	return nil
}

// String renders the thresholds on one line for logs and the run summary.
func (t Thresholds) String() string {
	return fmt.Sprintf("toom22=%d toom33=%d toom44=%d toom6h=%d toom8h=%d 32/43=%d 32/53=%d 42/53=%d 42/63=%d",
		t.Toom22, t.Toom33, t.Toom44, t.Toom6H, t.Toom8H,
		t.Toom32To43, t.Toom32To53, t.Toom42To53, t.Toom42To63)
}

// Merge returns t with every non-zero field of o applied on top. It is used
// to layer flags and environment values over a profile or the defaults.
func (t Thresholds) Merge(o Thresholds) Thresholds {
	pick := func(base, over int) int {
		if over != 0 {
			return over
		}
		return base
	}
	return Thresholds{
		Toom22:     pick(t.Toom22, o.Toom22),
		Toom33:     pick(t.Toom33, o.Toom33),
		Toom44:     pick(t.Toom44, o.Toom44),
		Toom6H:     pick(t.Toom6H, o.Toom6H),
		Toom8H:     pick(t.Toom8H, o.Toom8H),
		Toom32To43: pick(t.Toom32To43, o.Toom32To43),
		Toom32To53: pick(t.Toom32To53, o.Toom32To53),
		Toom42To53: pick(t.Toom42To53, o.Toom42To53),
		Toom42To63: pick(t.Toom42To63, o.Toom42To63),
	}
}
