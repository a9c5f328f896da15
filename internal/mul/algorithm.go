package mul

import (
	"fmt"
	"strings"
)

// Algorithm names one multiplication engine. Auto lets the dispatcher pick
// by operand sizes and thresholds.
type Algorithm int

const (
	Auto Algorithm = iota
	Basecase
	Toom22
	Toom32
	Toom33
	Toom42
	Toom43
	Toom44
	Toom53
	Toom63
	Toom6H
	Toom8H
)

var algorithmNames = [...]string{
	Auto:     "auto",
	Basecase: "basecase",
	Toom22:   "toom22",
	Toom32:   "toom32",
	Toom33:   "toom33",
	Toom42:   "toom42",
	Toom43:   "toom43",
	Toom44:   "toom44",
	Toom53:   "toom53",
	Toom63:   "toom63",
	Toom6H:   "toom6h",
	Toom8H:   "toom8h",
}

// String returns the lower-case name used by flags and metric labels.
func (alg Algorithm) String() string {
	if alg < 0 || int(alg) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(alg))
	}
	return algorithmNames[alg]
}

// Algorithms returns every algorithm, Auto first.
func Algorithms() []Algorithm {
	algs := make([]Algorithm, len(algorithmNames))
	for i := range algs {
		algs[i] = Algorithm(i)
	}
	return algs
}

// ParseAlgorithm maps a name such as "toom33" (case-insensitive) to its
// Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range algorithmNames {
		if n == name {
			return Algorithm(i), nil
		}
	}
	return Auto, fmt.Errorf("unknown algorithm %q (valid: %s)", name, strings.Join(algorithmNames[:], ", "))
}

// Valid reports whether alg accepts an an x bn product (an >= bn). Auto and
// Basecase accept every non-empty pair; the Toom engines only accept the
// operand ratios their splitting is defined for.
func (alg Algorithm) Valid(an, bn int) bool {
	if bn < 1 || an < bn {
		return false
	}
	switch alg {
	case Auto, Basecase:
		return true
	case Toom22:
		return toom22Valid(an, bn)
	case Toom32:
		return toom32Valid(an, bn)
	case Toom33:
		return toom33Valid(an, bn)
	case Toom42:
		return toom42Valid(an, bn)
	case Toom43:
		return toom43Valid(an, bn)
	case Toom44:
		return toom44Valid(an, bn)
	case Toom53:
		return toom53Valid(an, bn)
	case Toom63:
		return toom63Valid(an, bn)
	case Toom6H:
		return toom6hValid(an, bn)
	case Toom8H:
		return toom8hValid(an, bn)
	}
	return false
}

func ceilDiv(x, d int) int {
	return (x + d - 1) / d
}

func toom22Valid(an, bn int) bool {
	return an+1 < 2*bn
}

func toom32Valid(an, bn int) bool {
	return an > bn+1 && (an == 6 || bn > 4) && 2*an < 3*(bn+1)
}

func toom33Valid(an, bn int) bool {
	return 2*ceilDiv(an, 3) < bn
}

func toom42Valid(an, bn int) bool {
	return !(an == 9 && bn == 4) && an+3 < 4*bn && ceilDiv(an, 3) > ceilDiv(bn, 2)
}

func toom43Valid(an, bn int) bool {
	return !(an == 16 && bn == 13) &&
		ceilDiv(an, 3) > ceilDiv(bn, 3) &&
		ceilDiv(an, 4) < ceilDiv(bn, 2) &&
		an+bn >= 5*(ceilDiv(an, 4)+1)
}

func toom44Valid(an, bn int) bool {
	return 3*ceilDiv(an, 4) < bn
}

func toom53Valid(an, bn int) bool {
	return !(an == 16 && bn == 9) &&
		ceilDiv(an, 4) > ceilDiv(bn, 3) &&
		ceilDiv(an, 5) < ceilDiv(bn, 2)
}

func toom63Valid(an, bn int) bool {
	var n int
	if an >= 2*bn {
		n = 1 + (an-1)/6
	} else {
		n = 1 + (bn-1)/3
	}
	return n > 2 && 5*n < an && an <= 6*n && 2*n < bn && bn <= 3*n &&
		an+bn >= 8*n && an+bn > 7*n+4
}

func toom6hValid(an, bn int) bool {
	if bn < 42 || (3*an >= 8*bn && (bn < 46 || 6*an >= 17*bn)) {
		return false
	}
	n, p, q, half := toom6hSplit(an, bn)
	return toomHShape(an, bn, n, p, q, half)
}

// toom8hValid also rejects 32-bit words, whose evaluation shifts would
// overflow a limb.
func toom8hValid(an, bn int) bool {
	if _W < 64 || bn < 86 || an > 4*bn {
		return false
	}
	n, p, q, half := toom8hSplit(an, bn)
	return toomHShape(an, bn, n, p, q, half)
}
