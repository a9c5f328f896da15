package calibration

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/agbru/bigmul/internal/config"
)

func TestCurrentHardware(t *testing.T) {
	t.Parallel()
	hw := CurrentHardware()
	if hw.NumCPU != runtime.NumCPU() || hw.GOARCH != runtime.GOARCH || hw.GOOS != runtime.GOOS {
		t.Errorf("fingerprint %+v does not describe this machine", hw)
	}
	if hw.WordBits != 32 && hw.WordBits != 64 {
		t.Errorf("WordBits = %d", hw.WordBits)
	}
	if CurrentHardware() != hw {
		t.Error("the fingerprint should be stable")
	}
	if !strings.Contains(hw.String(), runtime.GOARCH) {
		t.Errorf("String() = %q", hw.String())
	}
}

func TestProfileRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "dir", "profile.json")
	saved := NewProfile()
	saved.Thresholds.Toom22 = 26
	saved.Thresholds.Toom33 = 70
	saved.ParallelThreshold = 3072
	saved.Took = "41s"
	saved.Quick = true

	if err := saved.SaveProfile(path); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if info, err := os.Stat(path); err != nil {
		t.Fatal(err)
	} else if runtime.GOOS != "windows" && info.Mode().Perm() != 0o600 {
		t.Errorf("profile mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if loaded.Thresholds != saved.Thresholds || loaded.ParallelThreshold != 3072 {
		t.Errorf("thresholds %s / %d did not survive", loaded.Thresholds, loaded.ParallelThreshold)
	}
	if loaded.Hardware != saved.Hardware || loaded.Took != "41s" || !loaded.Quick {
		t.Errorf("metadata lost: %+v", loaded)
	}
	if !loaded.CalibratedAt.Equal(saved.CalibratedAt) {
		t.Errorf("CalibratedAt = %v, want %v", loaded.CalibratedAt, saved.CalibratedAt)
	}
}

func TestProfileUsable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*CalibrationProfile)
		want   bool
	}{
		{"fresh", func(*CalibrationProfile) {}, true},
		{"other format version", func(p *CalibrationProfile) { p.Version = ProfileVersion + 1 }, false},
		{"other CPU count", func(p *CalibrationProfile) { p.Hardware.NumCPU++ }, false},
		{"other architecture", func(p *CalibrationProfile) { p.Hardware.GOARCH = "vax" }, false},
		{"other limb size", func(p *CalibrationProfile) { p.Hardware.WordBits = 16 }, false},
		{"other CPU features", func(p *CalibrationProfile) { p.Hardware.Features = "none" + p.Hardware.Features }, false},
		{"too old", func(p *CalibrationProfile) { p.CalibratedAt = time.Now().Add(-2 * time.Hour) }, false},
		{"invalid thresholds", func(p *CalibrationProfile) { p.Thresholds.Toom22 = 2 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewProfile()
			tt.mutate(p)
			if got := p.Usable(time.Hour); got != tt.want {
				t.Errorf("Usable = %v, want %v for %s", got, tt.want, p)
			}
		})
	}

	var missing *CalibrationProfile
	if missing.Usable(time.Hour) {
		t.Error("a nil profile is not usable")
	}
	if missing.String() != "<nil profile>" {
		t.Errorf("nil String() = %q", missing.String())
	}
}

func TestProfileString(t *testing.T) {
	t.Parallel()
	p := NewProfile()
	p.ParallelThreshold = 4096
	s := p.String()
	for _, want := range []string{"toom22=", "parallel 4096 limbs", p.Hardware.Features} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestLoadProfileErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if _, err := LoadProfile(filepath.Join(dir, "absent.json")); err == nil {
		t.Error("loading a missing profile should fail")
	}
	garbled := filepath.Join(dir, "garbled.json")
	if err := os.WriteFile(garbled, []byte(`{"thresholds": [`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProfile(garbled); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("LoadProfile(garbled) error = %v", err)
	}
	if p, ok := LoadCachedCalibration(garbled); ok || p != nil {
		t.Error("a garbled profile must not be used")
	}
}

func TestLoadCachedCalibration(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")
	fresh := NewProfile()
	fresh.Thresholds = config.DefaultThresholds()
	fresh.Thresholds.Toom32To43 += 10
	if err := fresh.SaveProfile(path); err != nil {
		t.Fatal(err)
	}
	p, ok := LoadCachedCalibration(path)
	if !ok || p.Thresholds.Toom32To43 != fresh.Thresholds.Toom32To43 {
		t.Fatalf("fresh profile not used: %v %v", ok, p)
	}

	stale := NewProfile()
	stale.CalibratedAt = time.Now().Add(-ProfileMaxAge - time.Hour)
	if err := stale.SaveProfile(path); err != nil {
		t.Fatal(err)
	}
	if _, ok := LoadCachedCalibration(path); ok {
		t.Error("a profile older than ProfileMaxAge was used")
	}
}

func TestDefaultProfilePath(t *testing.T) {
	t.Parallel()
	if got := DefaultProfilePath(); filepath.Base(got) != DefaultProfileFileName {
		t.Errorf("DefaultProfilePath() = %q", got)
	}
}
