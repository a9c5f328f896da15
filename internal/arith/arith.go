// Package arith provides the limb-vector primitives that the multiplication
// engines are built on. Numbers are little-endian slices of Word. Every
// function reports overflow through its return value (a carry or borrow of 0
// or 1, or a whole carry limb) and never allocates.
//
// Unless stated otherwise, a destination may alias a source only exactly
// (same first element); partially overlapping slices are not supported.
package arith

import "math/bits"

// _W is the size in bits of a Word.
const _W = bits.UintSize

// ─────────────────────────────────────────────────────────────────────────────
// math/big backed primitives
// ─────────────────────────────────────────────────────────────────────────────

// AddVV computes z = x + y over len(z) words and returns the carry.
func AddVV(z, x, y []Word) Word {
	if len(z) == 0 {
		return 0
	}
	return addVV(z, x, y)
}

// SubVV computes z = x - y over len(z) words and returns the borrow.
func SubVV(z, x, y []Word) Word {
	if len(z) == 0 {
		return 0
	}
	return subVV(z, x, y)
}

// AddVW computes z = x + y for a single word y and returns the carry.
// With an empty z the carry is y itself.
func AddVW(z, x []Word, y Word) Word {
	if len(z) == 0 {
		return y
	}
	return addVW(z, x, y)
}

// SubVW computes z = x - y for a single word y and returns the borrow.
// With an empty z the borrow is y itself.
func SubVW(z, x []Word, y Word) Word {
	if len(z) == 0 {
		return y
	}
	return subVW(z, x, y)
}

// ShlVU computes z = x << s for 0 <= s < _W and returns the bits shifted out
// of the top word, right-aligned.
func ShlVU(z, x []Word, s uint) Word {
	if len(z) == 0 {
		return 0
	}
	if s == 0 {
		copy(z, x)
		return 0
	}
	return shlVU(z, x, s)
}

// MulAddVWW computes z = x*y + r and returns the high carry word.
func MulAddVWW(z, x []Word, y, r Word) Word {
	if len(z) == 0 {
		return r
	}
	return mulAddVWW(z, x, y, r)
}

// AddMulVVW computes z += x*y and returns the high carry word.
func AddMulVVW(z, x []Word, y Word) Word {
	if len(z) == 0 {
		return 0
	}
	return addMulVVW(z, x, y)
}

// ─────────────────────────────────────────────────────────────────────────────
// Pure Go primitives
// ─────────────────────────────────────────────────────────────────────────────

// ShrVU computes z = x >> s for 0 <= s < _W and returns the bits shifted out
// of the bottom word, left-aligned.
func ShrVU(z, x []Word, s uint) (c Word) {
	if len(z) == 0 {
		return 0
	}
	if s == 0 {
		copy(z, x)
		return 0
	}
	ŝ := _W - s
	c = x[0] << ŝ
	last := len(z) - 1
	for i := 0; i < last; i++ {
		z[i] = x[i]>>s | x[i+1]<<ŝ
	}
	z[last] = x[last] >> s
	return c
}

// SubMulVVW computes z -= x*y over len(x) words and returns the borrow word.
func SubMulVVW(z, x []Word, y Word) (c Word) {
	for i, xi := range x {
		hi, lo := bits.Mul(uint(xi), uint(y))
		lo, cc := bits.Add(lo, uint(c), 0)
		hi += cc
		zi, b := bits.Sub(uint(z[i]), lo, 0)
		z[i] = Word(zi)
		c = Word(hi + b)
	}
	return c
}

// SubOverlap computes x[:len(x)-k] -= x[k:] in place and returns the borrow.
// The subtrahend overlaps the destination, so the words are processed from the
// bottom up and each source word is read before it can be overwritten.
func SubOverlap(x []Word, k int) (c Word) {
	n := len(x) - k
	for i := 0; i < n; i++ {
		d, b := bits.Sub(uint(x[i]), uint(x[i+k]), uint(c))
		x[i] = Word(d)
		c = Word(b)
	}
	return c
}

// Add computes z = x + y where len(x) >= len(y), writing len(x) words of z,
// and returns the carry.
func Add(z, x, y []Word) Word {
	m := len(y)
	c := AddVV(z[:m], x[:m], y)
	if len(x) == m {
		return c
	}
	return AddVW(z[m:len(x)], x[m:], c)
}

// Sub computes z = x - y where len(x) >= len(y), writing len(x) words of z,
// and returns the borrow.
func Sub(z, x, y []Word) Word {
	m := len(y)
	c := SubVV(z[:m], x[:m], y)
	if len(x) == m {
		return c
	}
	return SubVW(z[m:len(x)], x[m:], c)
}

// AddLsh computes z += x << s over len(x) words using tmp as a len(x) word
// buffer, and returns the carry word.
func AddLsh(z, x []Word, s uint, tmp []Word) Word {
	n := len(x)
	c := ShlVU(tmp[:n], x, s)
	return c + AddVV(z[:n], z[:n], tmp[:n])
}

// SubLsh computes z -= x << s over len(x) words using tmp as a len(x) word
// buffer, and returns the borrow word.
func SubLsh(z, x []Word, s uint, tmp []Word) Word {
	n := len(x)
	c := ShlVU(tmp[:n], x, s)
	return c + SubVV(z[:n], z[:n], tmp[:n])
}

// Cmp compares two equal-length numbers and returns -1, 0 or +1.
func Cmp(x, y []Word) int {
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != y[i] {
			if x[i] < y[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// IsZero reports whether every word of x is zero.
func IsZero(x []Word) bool {
	for _, w := range x {
		if w != 0 {
			return false
		}
	}
	return true
}

// invertWord returns the inverse of the odd word d modulo 2^_W.
func invertWord(d Word) Word {
	// d*d ≡ 1 mod 8, and each Newton step doubles the number of correct bits.
	inv := d
	for i := 0; i < 5; i++ {
		inv *= 2 - d*inv
	}
	return inv
}

// DivExactVW divides x in place by d, which must divide x exactly. For odd d
// the result is also correct for a negative x held in two's complement.
func DivExactVW(x []Word, d Word) {
	if d == 0 {
		panic("arith.DivExactVW: division by zero")
	}
	if len(x) == 0 {
		return
	}
	if tz := uint(bits.TrailingZeros(uint(d))); tz != 0 {
		ShrVU(x, x, tz)
		d >>= tz
	}
	if d == 1 {
		return
	}
	inv := invertWord(d)
	var c Word
	for i, s := range x {
		l, b := bits.Sub(uint(s), uint(c), 0)
		q := Word(l) * inv
		x[i] = q
		hi, _ := bits.Mul(uint(q), uint(d))
		c = Word(hi + b)
	}
}

// DivExact3 divides x in place by 3, which must divide x exactly.
func DivExact3(x []Word) {
	DivExactVW(x, 3)
}

// AddVVCarry computes z = x + y + c for a carry-in c of 0 or 1 and returns
// the carry out.
func AddVVCarry(z, x, y []Word, c Word) Word {
	c1 := AddVV(z, x, y)
	return c1 + AddVW(z, z, c)
}

// SubVVBorrow computes z = x - y - b for a borrow-in b of 0 or 1 and returns
// the borrow out.
func SubVVBorrow(z, x, y []Word, b Word) Word {
	b1 := SubVV(z, x, y)
	return b1 + SubVW(z, z, b)
}
