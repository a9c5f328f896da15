package mul

import (
	"math/big"
	"testing"
)

// wordsFromBytes packs data into little-endian limbs, keeping at least one
// limb.
func wordsFromBytes(data []byte) []Word {
	n := max(1, (len(data)+_W/8-1)/(_W/8))
	words := make([]Word, n)
	for i, c := range data {
		words[i/(_W/8)] |= Word(c) << (8 * uint(i%(_W/8)))
	}
	return words
}

// FuzzMul checks Mul against math/big on arbitrary operand bytes, with both
// the default and the minimal threshold ladders.
func FuzzMul(f *testing.F) {
	f.Add([]byte{1}, []byte{1})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, []byte{2})
	f.Add(make([]byte, 64), make([]byte, 40))
	f.Add(bytesOf(0xff, 800), bytesOf(0xff, 400))
	f.Add(bytesOf(0x80, 2000), bytesOf(0x01, 320))

	mp, err := New(minimalThresholds())
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, x, y []byte) {
		if len(x) > 1<<14 || len(y) > 1<<14 {
			return
		}
		a, b := wordsFromBytes(x), wordsFromBytes(y)
		if len(a) < len(b) {
			a, b = b, a
		}
		want := new(big.Int).Mul(toInt(a), toInt(b))

		out := make([]Word, len(a)+len(b))
		Mul(out, a, b)
		if toInt(out).Cmp(want) != 0 {
			t.Fatalf("Mul %dx%d limbs: wrong product", len(a), len(b))
		}
		mp.Mul(out, a, b)
		if toInt(out).Cmp(want) != 0 {
			t.Fatalf("minimal Mul %dx%d limbs: wrong product", len(a), len(b))
		}
	})
}

func bytesOf(c byte, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = c
	}
	return b
}
