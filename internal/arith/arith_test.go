package arith

import (
	"math/big"
	"math/rand"
	"testing"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test Utilities
// ─────────────────────────────────────────────────────────────────────────────

// randomWords creates a slice of random words for testing.
func randomWords(n int, seed int64) []Word {
	r := rand.New(rand.NewSource(seed))
	words := make([]Word, n)
	for i := range words {
		words[i] = Word(r.Uint64())
	}
	return words
}

// toInt interprets x as a natural number.
func toInt(x []Word) *big.Int {
	return new(big.Int).SetBits(append([]Word(nil), x...))
}

// pow returns 2^(n*_W).
func pow(n int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(n*_W))
}

// ─────────────────────────────────────────────────────────────────────────────
// Add / Sub
// ─────────────────────────────────────────────────────────────────────────────

func TestAddUnequalLengths(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		xn, yn int
	}{
		{"same", 5, 5},
		{"longer", 9, 3},
		{"single", 4, 1},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			x := randomWords(tt.xn, int64(i))
			y := randomWords(tt.yn, int64(i+100))
			z := make([]Word, tt.xn)
			c := Add(z, x, y)

			want := new(big.Int).Add(toInt(x), toInt(y))
			got := new(big.Int).Add(toInt(z), new(big.Int).Mul(big.NewInt(int64(c)), pow(tt.xn)))
			if got.Cmp(want) != 0 {
				t.Errorf("Add = %v carry %d, want %v", toInt(z), c, want)
			}
		})
	}
}

func TestAddCarryPropagation(t *testing.T) {
	t.Parallel()
	x := []Word{^Word(0), ^Word(0), ^Word(0)}
	z := make([]Word, 3)
	if c := Add(z, x, []Word{1}); c != 1 {
		t.Fatalf("carry = %d, want 1", c)
	}
	if !IsZero(z) {
		t.Errorf("z = %v, want all zero", z)
	}
}

func TestSubBorrow(t *testing.T) {
	t.Parallel()
	x := []Word{0, 0, 5}
	z := make([]Word, 3)
	if b := Sub(z, x, []Word{1}); b != 0 {
		t.Fatalf("borrow = %d, want 0", b)
	}
	want := []Word{^Word(0), ^Word(0), 4}
	for i := range want {
		if z[i] != want[i] {
			t.Fatalf("z = %v, want %v", z, want)
		}
	}
	if b := Sub(z, []Word{0, 0}, []Word{1}); b != 1 {
		t.Errorf("borrow = %d, want 1", b)
	}
}

func TestEmptyCarryPassThrough(t *testing.T) {
	t.Parallel()
	if c := AddVW(nil, nil, 7); c != 7 {
		t.Errorf("AddVW(nil) = %d, want 7", c)
	}
	if c := SubVW(nil, nil, 3); c != 3 {
		t.Errorf("SubVW(nil) = %d, want 3", c)
	}
	if c := AddVV(nil, nil, nil); c != 0 {
		t.Errorf("AddVV(nil) = %d, want 0", c)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Shifts
// ─────────────────────────────────────────────────────────────────────────────

func TestShrVU(t *testing.T) {
	t.Parallel()
	for _, s := range []uint{0, 1, 2, 7, _W - 1} {
		x := randomWords(6, int64(s))
		z := make([]Word, 6)
		c := ShrVU(z, x, s)

		want := new(big.Int).Rsh(toInt(x), s)
		if toInt(z).Cmp(want) != 0 {
			t.Errorf("ShrVU(%d) = %v, want %v", s, toInt(z), want)
		}
		var wantC Word
		if s != 0 {
			wantC = x[0] << (_W - s)
		}
		if c != wantC {
			t.Errorf("ShrVU(%d) carry = %#x, want %#x", s, c, wantC)
		}
	}
}

func TestShrVUInPlace(t *testing.T) {
	t.Parallel()
	x := []Word{123, 456}
	if c := ShrVU(x, x, 1); c != 1<<(_W-1) {
		t.Errorf("carry = %#x, want top bit", c)
	}
	if x[0] != 61 || x[1] != 228 {
		t.Errorf("x = %v", x)
	}
}

func TestShlVURoundTrip(t *testing.T) {
	t.Parallel()
	x := randomWords(8, 42)
	x[7] = 0
	y := make([]Word, 8)
	if c := ShlVU(y, x, 5); c != 0 {
		t.Fatalf("unexpected carry %#x", c)
	}
	ShrVU(y, y, 5)
	if Cmp(x, y) != 0 {
		t.Errorf("shift round trip lost bits: %v != %v", x, y)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Multiply by a word
// ─────────────────────────────────────────────────────────────────────────────

func TestSubMulVVW(t *testing.T) {
	t.Parallel()
	for seed := int64(0); seed < 20; seed++ {
		x := randomWords(7, seed)
		z := randomWords(7, seed+1000)
		y := Word(rand.New(rand.NewSource(seed)).Uint64())
		orig := toInt(z)

		c := SubMulVVW(z, x, y)

		// z_new - c*B^n == z_old - x*y
		lhs := new(big.Int).Sub(toInt(z), new(big.Int).Mul(big.NewInt(0).SetUint64(uint64(c)), pow(7)))
		rhs := new(big.Int).Sub(orig, new(big.Int).Mul(toInt(x), new(big.Int).SetUint64(uint64(y))))
		if lhs.Cmp(rhs) != 0 {
			t.Fatalf("seed %d: SubMulVVW mismatch", seed)
		}
	}
}

// TestLinkedKernelsMatchBig checks each math/big kernel reached through
// go:linkname against big.Int, at lengths on both sides of the vectorized
// loop widths.
func TestLinkedKernelsMatchBig(t *testing.T) {
	t.Parallel()
	word := func(w Word) *big.Int { return new(big.Int).SetUint64(uint64(w)) }
	// withTop returns z + c*B^n.
	withTop := func(z []Word, c Word) *big.Int {
		return new(big.Int).Add(toInt(z), new(big.Int).Mul(word(c), pow(len(z))))
	}
	for _, n := range []int{1, 2, 3, 8, 17, 40} {
		x := randomWords(n, int64(n))
		y := randomWords(n, int64(n)+100)
		w := y[0] | 1
		z := make([]Word, n)

		want := new(big.Int).Add(toInt(x), toInt(y))
		if c := AddVV(z, x, y); withTop(z, c).Cmp(want) != 0 {
			t.Errorf("n=%d: AddVV mismatch", n)
		}

		// z - b*B^n == x - y
		b := SubVV(z, x, y)
		got := new(big.Int).Sub(toInt(z), new(big.Int).Mul(word(b), pow(n)))
		if got.Cmp(new(big.Int).Sub(toInt(x), toInt(y))) != 0 {
			t.Errorf("n=%d: SubVV mismatch", n)
		}

		if c := AddVW(z, x, w); withTop(z, c).Cmp(new(big.Int).Add(toInt(x), word(w))) != 0 {
			t.Errorf("n=%d: AddVW mismatch", n)
		}
		b = SubVW(z, x, w)
		got = new(big.Int).Sub(toInt(z), new(big.Int).Mul(word(b), pow(n)))
		if got.Cmp(new(big.Int).Sub(toInt(x), word(w))) != 0 {
			t.Errorf("n=%d: SubVW mismatch", n)
		}

		for _, s := range []uint{1, 13, _W - 1} {
			if c := ShlVU(z, x, s); withTop(z, c).Cmp(new(big.Int).Lsh(toInt(x), s)) != 0 {
				t.Errorf("n=%d: ShlVU by %d mismatch", n, s)
			}
		}

		prod := new(big.Int).Mul(toInt(x), word(w))
		if c := MulAddVWW(z, x, w, y[n-1]); withTop(z, c).Cmp(new(big.Int).Add(prod, word(y[n-1]))) != 0 {
			t.Errorf("n=%d: MulAddVWW mismatch", n)
		}

		copy(z, y)
		if c := AddMulVVW(z, x, w); withTop(z, c).Cmp(new(big.Int).Add(toInt(y), prod)) != 0 {
			t.Errorf("n=%d: AddMulVVW mismatch", n)
		}
	}
}

func TestAddLshSubLsh(t *testing.T) {
	t.Parallel()
	x := randomWords(5, 1)
	z := randomWords(5, 2)
	tmp := make([]Word, 5)
	orig := append([]Word(nil), z...)

	c := AddLsh(z, x, 3, tmp)
	b := SubLsh(z, x, 3, tmp)
	if c != b {
		t.Errorf("carry %d and borrow %d should cancel", c, b)
	}
	if Cmp(z, orig) != 0 {
		t.Errorf("AddLsh followed by SubLsh changed z")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Overlapping subtraction
// ─────────────────────────────────────────────────────────────────────────────

func TestSubOverlap(t *testing.T) {
	t.Parallel()
	x := randomWords(10, 9)
	lo := toInt(x[:7])
	hi := toInt(x[3:])
	b := SubOverlap(x, 3)

	want := new(big.Int).Sub(lo, hi)
	if want.Sign() < 0 {
		want.Add(want, pow(7))
		if b != 1 {
			t.Fatalf("borrow = %d, want 1", b)
		}
	} else if b != 0 {
		t.Fatalf("borrow = %d, want 0", b)
	}
	if toInt(x[:7]).Cmp(want) != 0 {
		t.Errorf("SubOverlap = %v, want %v", toInt(x[:7]), want)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Exact division
// ─────────────────────────────────────────────────────────────────────────────

func TestDivExactVW(t *testing.T) {
	t.Parallel()
	divisors := []Word{1, 2, 3, 9, 15, 45, 255, 1 << 10, 6}
	for i, d := range divisors {
		q := randomWords(6, int64(i))
		q[5] >>= 11
		x := make([]Word, 6)
		if c := MulAddVWW(x, q, d, 0); c != 0 {
			t.Fatalf("d=%d: product overflowed", d)
		}
		DivExactVW(x, d)
		if Cmp(x, q) != 0 {
			t.Errorf("DivExactVW(%d) = %v, want %v", d, x, q)
		}
	}
}

func TestDivExact3TwosComplement(t *testing.T) {
	t.Parallel()
	// -9 in two's complement over three words divides to -3.
	x := []Word{^Word(0) - 8, ^Word(0), ^Word(0)}
	DivExact3(x)
	want := []Word{^Word(0) - 2, ^Word(0), ^Word(0)}
	if Cmp(x, want) != 0 {
		t.Errorf("DivExact3(-9) = %v, want %v", x, want)
	}
}

func TestDivExactVWZeroPanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("expected panic on zero divisor")
		}
	}()
	DivExactVW([]Word{1}, 0)
}

// ─────────────────────────────────────────────────────────────────────────────
// Comparison
// ─────────────────────────────────────────────────────────────────────────────

func TestCmp(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		x, y []Word
		want int
	}{
		{"equal", []Word{1, 2}, []Word{1, 2}, 0},
		{"high decides", []Word{9, 1}, []Word{0, 2}, -1},
		{"low decides", []Word{3, 2}, []Word{1, 2}, 1},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Cmp(tt.x, tt.y); got != tt.want {
				t.Errorf("Cmp(%v, %v) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestFeatures(t *testing.T) {
	t.Parallel()
	f := Features()
	if f.WordSize != _W {
		t.Errorf("WordSize = %d, want %d", f.WordSize, _W)
	}
	if f.String() == "" {
		t.Error("empty feature string")
	}
	t.Logf("CPU features: %s", f)
}

func TestCarryInOut(t *testing.T) {
	t.Parallel()
	max := ^Word(0)
	z := make([]Word, 2)
	if c := AddVVCarry(z, []Word{max, max}, []Word{0, 0}, 1); c != 1 || !IsZero(z) {
		t.Errorf("AddVVCarry = %v carry %d, want zero carry 1", z, c)
	}
	if b := SubVVBorrow(z, []Word{0, 0}, []Word{0, 0}, 1); b != 1 || z[0] != max || z[1] != max {
		t.Errorf("SubVVBorrow = %v borrow %d, want all ones borrow 1", z, b)
	}
	if c := AddVVCarry(nil, nil, nil, 1); c != 1 {
		t.Errorf("empty AddVVCarry = %d, want 1", c)
	}
}
