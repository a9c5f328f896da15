package memory

import (
	"errors"
	"runtime/debug"
	"testing"

	apperrors "github.com/agbru/bigmul/internal/errors"
)

func TestArenaAlloc(t *testing.T) {
	t.Parallel()
	a := NewArena(100, 40, 3)
	if a.CapacityWords() != 100+40+3*140 {
		t.Fatalf("CapacityWords = %d", a.CapacityWords())
	}
	x := a.Alloc(100)
	y := a.Alloc(40)
	if len(x) != 100 || cap(x) != 100 || len(y) != 40 {
		t.Fatalf("len/cap = %d/%d, %d", len(x), cap(x), len(y))
	}
	x[99] = 7
	if y[0] != 0 {
		t.Fatal("allocations overlap")
	}
	if a.UsedWords() != 140 {
		t.Errorf("UsedWords = %d, want 140", a.UsedWords())
	}

	for range 3 {
		if p := a.Alloc(140); len(p) != 140 {
			t.Fatalf("product len = %d", len(p))
		}
	}
	if a.UsedWords() != a.CapacityWords() {
		t.Errorf("arena should be full: %d/%d", a.UsedWords(), a.CapacityWords())
	}

	// Exhausted: heap fallback, offset unchanged.
	extra := a.Alloc(10)
	if len(extra) != 10 || a.UsedWords() != a.CapacityWords() {
		t.Errorf("fallback allocation misbehaved")
	}
	if a.Alloc(0) != nil {
		t.Error("Alloc(0) should return nil")
	}

	a.Reset()
	if a.UsedWords() != 0 {
		t.Errorf("UsedWords after Reset = %d", a.UsedWords())
	}
	if z := a.Alloc(100); z[99] != 0 {
		t.Error("reused words are not cleared")
	}
}

var sink []byte

func TestGCController(t *testing.T) {
	tests := []struct {
		mode   string
		limbs  int
		active bool
	}{
		{"auto", GCAutoThreshold - 1, false},
		{"auto", GCAutoThreshold, true},
		{"aggressive", 10, true},
		{"disabled", 1 << 30, false},
		{"bogus", 1 << 30, false},
	}
	for _, tt := range tests {
		gc := NewGCController(tt.mode, tt.limbs)
		if gc.Active() != tt.active {
			t.Errorf("NewGCController(%q, %d).Active() = %v, want %v", tt.mode, tt.limbs, gc.Active(), tt.active)
		}
	}

	gc := NewGCController("aggressive", 0)
	gc.Begin()
	if percent := debug.SetGCPercent(-1); percent != -1 {
		t.Errorf("GC percent during the timed section = %d, want -1", percent)
	}
	sink = make([]byte, 1<<20)
	gc.End()
	if gc.Stats().TotalAlloc == 0 {
		t.Error("Stats should record the allocation made between Begin and End")
	}
	if percent := debug.SetGCPercent(100); percent < 0 {
		t.Errorf("End left the collector off (GC percent %d)", percent)
	} else {
		debug.SetGCPercent(percent)
	}

	idle := NewGCController("disabled", 1<<20)
	idle.Begin()
	idle.End()
	if idle.Stats() != (GCStats{}) {
		t.Errorf("an inactive controller reported %+v", idle.Stats())
	}
}

func TestParseMemoryLimit(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"1024", 1024, false},
		{"512M", 512 << 20, false},
		{"8g", 8 << 30, false},
		{"1.5GiB", 3 << 29, false},
		{" 64KB ", 64 << 10, false},
		{"2T", 2 << 40, false},
		{"", 0, true},
		{"lots", 0, true},
		{"-3G", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMemoryLimit(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMemoryLimit(%q) error = %v", tt.in, err)
			}
			if err != nil {
				var cfgErr apperrors.ConfigError
				if !errors.As(err, &cfgErr) {
					t.Errorf("error should be a ConfigError, got %T", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseMemoryLimit(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestEstimateMemoryUsage(t *testing.T) {
	t.Parallel()
	small := EstimateMemoryUsage(1000, 1000, 1, 0)
	big := EstimateMemoryUsage(1000, 1000, 9, 5000)
	if big.TotalBytes <= small.TotalBytes {
		t.Errorf("more algorithms should need more memory: %d <= %d", big.TotalBytes, small.TotalBytes)
	}
	if big.TotalBytes != big.ArenaBytes+big.ScratchBytes+big.ReferenceBytes {
		t.Error("TotalBytes is not the sum of its parts")
	}
	if small.ArenaBytes != uint64(4000*wordBytes) {
		t.Errorf("ArenaBytes = %d, want %d", small.ArenaBytes, 4000*wordBytes)
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()
	tests := map[uint64]string{
		0:       "0 B",
		1023:    "1023 B",
		1024:    "1.0 KiB",
		1536:    "1.5 KiB",
		5 << 20: "5.0 MiB",
		3 << 30: "3.0 GiB",
	}
	for in, want := range tests {
		if got := FormatBytes(in); got != want {
			t.Errorf("FormatBytes(%d) = %q, want %q", in, got, want)
		}
	}
	if FormatMemoryEstimate(Estimate{TotalBytes: 2048}) != "2.0 KiB" {
		t.Error("FormatMemoryEstimate should format the total")
	}
}
