package mul

import "github.com/agbru/bigmul/internal/arith"

// basecase computes out[:an+bn] = a*b with the schoolbook method: the first
// row is stored, every further row is accumulated with one AddMulVVW pass.
// A zero limb of b contributes nothing, so its row only stores the empty
// carry limb.
//
// It requires an >= bn >= 1 and len(out) >= an+bn. out must not overlap a
// or b.
func basecase(out, a, b []Word) {
	an, bn := len(a), len(b)
	if bn == 0 || an < bn {
		panic("mul.basecase: need len(a) >= len(b) >= 1")
	}
	if len(out) < an+bn {
		panic("mul.basecase: output too short")
	}
	out[an] = arith.MulAddVWW(out[:an], a, b[0], 0)
	for i := 1; i < bn; i++ {
		if d := b[i]; d != 0 {
			out[an+i] = arith.AddMulVVW(out[i:i+an], a, d)
		} else {
			out[an+i] = 0
		}
	}
}
