// This file reports the CPU features relevant to limb arithmetic.

package arith

import (
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sys/cpu"
)

// ─────────────────────────────────────────────────────────────────────────────
// CPU Feature Detection
// ─────────────────────────────────────────────────────────────────────────────

// CPUFeatures describes the instruction set extensions that the math/big
// vector kernels can take advantage of on the current machine.
type CPUFeatures struct {
	// Arch is the GOARCH the binary was built for.
	Arch string
	// WordSize is the size of a Word in bits (32 or 64).
	WordSize int
	// BMI2 indicates MULX support (amd64).
	BMI2 bool
	// ADX indicates ADCX/ADOX support (amd64).
	ADX bool
	// AVX2 indicates 256-bit SIMD support (amd64).
	AVX2 bool
	// ASIMD indicates Advanced SIMD support (arm64).
	ASIMD bool
}

var (
	features     CPUFeatures
	featuresOnce sync.Once
)

// Features returns the CPU features detected at first use.
func Features() CPUFeatures {
	featuresOnce.Do(func() {
		features = CPUFeatures{
			Arch:     runtime.GOARCH,
			WordSize: _W,
			BMI2:     cpu.X86.HasBMI2,
			ADX:      cpu.X86.HasADX,
			AVX2:     cpu.X86.HasAVX2,
			ASIMD:    cpu.ARM64.HasASIMD,
		}
	})
	return features
}

// String returns a compact summary such as "amd64/64 bmi2 adx avx2".
func (f CPUFeatures) String() string {
	var sb strings.Builder
	sb.WriteString(f.Arch)
	sb.WriteString("/")
	if f.WordSize == 64 {
		sb.WriteString("64")
	} else {
		sb.WriteString("32")
	}
	for _, flag := range []struct {
		on   bool
		name string
	}{
		{f.BMI2, "bmi2"},
		{f.ADX, "adx"},
		{f.AVX2, "avx2"},
		{f.ASIMD, "asimd"},
	} {
		if flag.on {
			sb.WriteString(" ")
			sb.WriteString(flag.name)
		}
	}
	return sb.String()
}
