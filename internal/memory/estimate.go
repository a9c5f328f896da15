package memory

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	apperrors "github.com/agbru/bigmul/internal/errors"
)

const wordBytes = bits.UintSize / 8

// Estimate breaks down the memory a comparison run needs.
type Estimate struct {
	// ArenaBytes covers the operands and one product per algorithm.
	ArenaBytes uint64
	// ScratchBytes is the pooled scratch of the algorithms running at once.
	ScratchBytes uint64
	// ReferenceBytes is the math/big reference product and its conversions.
	ReferenceBytes uint64
	// TotalBytes is the sum of the above.
	TotalBytes uint64
}

// EstimateMemoryUsage returns the memory needed to multiply an an-limb by a
// bn-limb operand with the given number of algorithms running concurrently,
// each needing at most scratchLimbs of scratch.
func EstimateMemoryUsage(an, bn, algorithms, scratchLimbs int) Estimate {
	product := uint64(an + bn)
	est := Estimate{
		ArenaBytes:   uint64(arenaWords(an, bn, algorithms)) * wordBytes,
		ScratchBytes: uint64(algorithms) * uint64(scratchLimbs) * wordBytes,
		// Reference product plus the two operand copies handed to math/big.
		ReferenceBytes: (2*product + uint64(an+bn)) * wordBytes,
	}
	est.TotalBytes = est.ArenaBytes + est.ScratchBytes + est.ReferenceBytes
	return est
}

// FormatMemoryEstimate renders the total of est for humans.
func FormatMemoryEstimate(est Estimate) string {
	return FormatBytes(est.TotalBytes)
}

// FormatBytes renders b with a binary unit suffix.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

// ParseMemoryLimit parses a -memory-limit value such as "512M", "8G",
// "1.5GiB" or a plain byte count. Units are binary.
//
// Returns:
//   - uint64: The limit in bytes.
//   - error: A ConfigError if s is not a positive size.
func ParseMemoryLimit(s string) (uint64, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.TrimSuffix(strings.TrimSuffix(v, "B"), "I")
	mult := uint64(1)
	if n := len(v); n > 0 {
		switch v[n-1] {
		case 'K':
			mult = 1 << 10
		case 'M':
			mult = 1 << 20
		case 'G':
			mult = 1 << 30
		case 'T':
			mult = 1 << 40
		}
		if mult != 1 {
			v = v[:n-1]
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f <= 0 {
		return 0, apperrors.NewConfigError("invalid memory limit %q: expected a size such as 512M or 8G", s)
	}
	return uint64(f * float64(mult)), nil
}
