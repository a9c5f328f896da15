// Package calibration tunes the multiplication thresholds for the machine
// it runs on. It times forced engines on both sides of every crossover,
// assembles a config.Thresholds value and persists it as a JSON profile
// that later runs load instead of the static tables.
package calibration

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/agbru/bigmul/internal/arith"
	"github.com/agbru/bigmul/internal/config"
)

const (
	// ProfileVersion is the version of the profile format. Profiles written
	// with another version are ignored.
	ProfileVersion = 2

	// DefaultProfileFileName is the profile file under the home directory.
	DefaultProfileFileName = ".bigmul_calibration.json"

	// ProfileMaxAge is how long a profile is trusted. Compiler and runtime
	// upgrades move the crossovers, so an older profile is measured again.
	ProfileMaxAge = 90 * 24 * time.Hour
)

// Hardware identifies the kind of machine thresholds were measured on.
// Profiles only transfer between machines with equal fingerprints.
type Hardware struct {
	GOOS     string `json:"goos"`
	GOARCH   string `json:"goarch"`
	NumCPU   int    `json:"num_cpu"`
	WordBits int    `json:"word_bits"`
	// Features lists the CPU extensions the limb kernels dispatch on.
	Features string `json:"features"`
}

// CurrentHardware fingerprints the running machine.
func CurrentHardware() Hardware {
	return Hardware{
		GOOS:     runtime.GOOS,
		GOARCH:   runtime.GOARCH,
		NumCPU:   runtime.NumCPU(),
		WordBits: bits.UintSize,
		Features: arith.Features().String(),
	}
}

func (h Hardware) String() string {
	return fmt.Sprintf("%s/%s, %d CPUs, %d-bit limbs [%s]", h.GOOS, h.GOARCH, h.NumCPU, h.WordBits, h.Features)
}

// CalibrationProfile is the persisted outcome of a calibration run.
type CalibrationProfile struct {
	Version   int      `json:"version"`
	Hardware  Hardware `json:"hardware"`
	GoVersion string   `json:"go_version"`

	Thresholds        config.Thresholds `json:"thresholds"`
	ParallelThreshold int               `json:"parallel_threshold,omitempty"`

	CalibratedAt time.Time `json:"calibrated_at"`
	// Took is how long the calibration ran, as a time.Duration string.
	Took  string `json:"took,omitempty"`
	Quick bool   `json:"quick,omitempty"`
}

// NewProfile returns a profile of the current machine holding the default
// thresholds.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		Version:      ProfileVersion,
		Hardware:     CurrentHardware(),
		GoVersion:    runtime.Version(),
		Thresholds:   config.DefaultThresholds(),
		CalibratedAt: time.Now(),
	}
}

// DefaultProfilePath is the profile in the home directory, or in the
// working directory when there is no home.
func DefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

func resolvePath(path string) string {
	if path == "" {
		return DefaultProfilePath()
	}
	return path
}

// LoadProfile reads the profile at path, the default path when empty.
func LoadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(resolvePath(path))
	if err != nil {
		return nil, fmt.Errorf("read calibration profile: %w", err)
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse calibration profile: %w", err)
	}
	return &p, nil
}

// SaveProfile writes p as indented JSON to path, the default path when
// empty. Missing parent directories are created.
func (p *CalibrationProfile) SaveProfile(path string) error {
	path = resolvePath(path)
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode calibration profile: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create profile directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write calibration profile: %w", err)
	}
	return nil
}

// Usable reports whether p may replace the static thresholds here: the
// format version and the hardware fingerprint match, it is younger than
// maxAge and its thresholds validate.
func (p *CalibrationProfile) Usable(maxAge time.Duration) bool {
	switch {
	case p == nil, p.Version != ProfileVersion:
		return false
	case p.Hardware != CurrentHardware():
		return false
	case time.Since(p.CalibratedAt) > maxAge:
		return false
	}
	return p.Thresholds.Validate() == nil
}

func (p *CalibrationProfile) String() string {
	if p == nil {
		return "<nil profile>"
	}
	return fmt.Sprintf("profile v%d (%s): %s, parallel %d limbs, calibrated %s",
		p.Version, p.Hardware, p.Thresholds, p.ParallelThreshold,
		p.CalibratedAt.Format(time.RFC3339))
}

// LoadCachedCalibration returns the profile at path (the default path when
// empty) if it is usable on this machine.
func LoadCachedCalibration(path string) (*CalibrationProfile, bool) {
	p, err := LoadProfile(path)
	if err != nil || !p.Usable(ProfileMaxAge) {
		return nil, false
	}
	return p, true
}
