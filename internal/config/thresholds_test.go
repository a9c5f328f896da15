package config

import (
	"errors"
	"math/bits"
	"strings"
	"testing"

	apperrors "github.com/agbru/bigmul/internal/errors"
)

func TestDefaultThresholdsValid(t *testing.T) {
	t.Parallel()
	for name, th := range map[string]Thresholds{"64": thresholds64, "32": thresholds32} {
		if err := th.Validate(); err != nil {
			t.Errorf("%s-bit table: %v", name, err)
		}
	}
	want := thresholds64
	if bits.UintSize == 32 {
		want = thresholds32
	}
	if DefaultThresholds() != want {
		t.Errorf("DefaultThresholds() = %v, want the %d-bit table", DefaultThresholds(), bits.UintSize)
	}
}

func TestThresholdsValidate(t *testing.T) {
	t.Parallel()
	base := DefaultThresholds()
	tests := []struct {
		name   string
		mutate func(*Thresholds)
		field  string
	}{
		{"toom22 below minimum", func(th *Thresholds) { th.Toom22 = MinToom22 - 1 }, "toom22"},
		{"toom33 below minimum", func(th *Thresholds) { th.Toom33 = MinToom33 - 1 }, "toom33"},
		{"toom44 under toom33", func(th *Thresholds) { th.Toom33, th.Toom44 = 60, 50 }, "toom44"},
		{"toom6h under toom44", func(th *Thresholds) { th.Toom6H = th.Toom44 - 1 }, "toom6h"},
		{"toom8h under toom6h", func(th *Thresholds) { th.Toom8H = th.Toom6H - 1 }, "toom8h"},
		{"toom6h below minimum", func(th *Thresholds) { th.Toom22, th.Toom33, th.Toom44, th.Toom6H = 8, 20, 24, MinToom6H - 1 }, "toom6h"},
		{"toom8h below minimum", func(th *Thresholds) {
			th.Toom22, th.Toom33, th.Toom44, th.Toom6H, th.Toom8H = 8, 20, 24, MinToom6H, MinToom8H - 1
		}, "toom8h"},
		{"cross below minimum", func(th *Thresholds) { th.Toom42To53 = MinCross - 1 }, "toom42-to-53"},
		{"toom42-to-63 below minimum", func(th *Thresholds) { th.Toom42To63 = MinToom42To63 - 1 }, "toom42-to-63"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			th := base
			tt.mutate(&th)
			err := th.Validate()
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Validate() = %v, want a ConfigError", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q should name %s", err, tt.field)
			}
		})
	}

	t.Run("toom33 below toom22 is legal", func(t *testing.T) {
		t.Parallel()
		th := base
		th.Toom22, th.Toom33 = 60, 40
		if err := th.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})
}

func TestThresholdsMerge(t *testing.T) {
	t.Parallel()
	base := DefaultThresholds()
	got := base.Merge(Thresholds{Toom33: 77, Toom42To63: 150})
	if got.Toom33 != 77 || got.Toom42To63 != 150 {
		t.Errorf("overrides not applied: %v", got)
	}
	if got.Toom22 != base.Toom22 || got.Toom44 != base.Toom44 {
		t.Errorf("unset fields changed: %v", got)
	}
	if base.Merge(Thresholds{}) != base {
		t.Error("merging zero thresholds should be a no-op")
	}
}

func TestThresholdsString(t *testing.T) {
	t.Parallel()
	s := Thresholds{Toom22: 1, Toom33: 2, Toom44: 3, Toom6H: 4, Toom8H: 5, Toom32To43: 6, Toom32To53: 7, Toom42To53: 8, Toom42To63: 9}.String()
	for _, want := range []string{"toom22=1", "toom33=2", "toom8h=5", "42/63=9"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
