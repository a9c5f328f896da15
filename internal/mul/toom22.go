package mul

import "github.com/agbru/bigmul/internal/arith"

// ─────────────────────────────────────────────────────────────────────────────
// Toom-22 (Karatsuba)
// ─────────────────────────────────────────────────────────────────────────────

// toom22 multiplies a by b into out[:an+bn] with the Toom-22 scheme,
// evaluating at 0, -1 and infinity:
//
//	<-s--><--n-->      a = a1*B^n + a0
//	 ____ ______
//	|_a1_|__a0__|
//	 |b1_|__b0__|      b = b1*B^n + b0
//	 <-t-><--n-->
//
//	v0   = a0*b0                        out[0 : 2n]
//	vm1  = (a0-a1)*(b0-b1)              scratch[0 : 2n]
//	vinf = a1*b1                        out[2n : an+bn]
//
// It requires 0 < s <= n and 0 < t <= s, that is an >= bn and an+1 < 2bn.
func (mp *Multiplier) toom22(out, a, b, scratch []Word) {
	an, bn := len(a), len(b)
	s := an >> 1
	n := an - s
	t := bn - n
	if s == 0 || t <= 0 || t > s {
		panic("mul.toom22: operand sizes out of range")
	}
	out = out[:an+bn]
	a0, a1 := a[:n], a[n:]
	b0, b1 := b[:n], b[n:]

	asm1, bsm1 := out[:n], out[n:2*n]
	neg := toom22Eval(asm1, bsm1, a0, a1, b0, b1)

	vm1, rest := scratch[:2*n], scratch[2*n:]
	mp.toom22RecN(vm1, asm1, bsm1, rest)
	if s > t {
		mp.toom22RecGreater(out[2*n:], a1, b1, rest)
	} else {
		mp.toom22RecN(out[2*n:], a1, b1[:s], rest)
	}
	mp.toom22RecN(out[:2*n], a0, b0, rest)

	toom22Interpolate(out, vm1, n, s, t, neg)
}

// toom22Eval writes asm1 = |a0-a1| and bsm1 = |b0-b1| (n limbs each) and
// reports whether (a0-a1)*(b0-b1) is negative.
func toom22Eval(asm1, bsm1, a0, a1, b0, b1 []Word) bool {
	n, s, t := len(a0), len(a1), len(b1)
	neg := false

	// asm1 = |a0 - a1|
	if s == n {
		if arith.Cmp(a0, a1) < 0 {
			arith.SubVV(asm1, a1, a0)
			neg = true
		} else {
			arith.SubVV(asm1, a0, a1)
		}
	} else if arith.IsZero(a0[s:]) && arith.Cmp(a0[:s], a1) < 0 {
		arith.SubVV(asm1[:s], a1, a0[:s])
		clear(asm1[s:])
		neg = true
	} else {
		arith.Sub(asm1, a0, a1)
	}

	// bsm1 = |b0 - b1|
	if t == n {
		if arith.Cmp(b0, b1) < 0 {
			arith.SubVV(bsm1, b1, b0)
			neg = !neg
		} else {
			arith.SubVV(bsm1, b0, b1)
		}
	} else if arith.IsZero(b0[t:]) && arith.Cmp(b0[:t], b1) < 0 {
		arith.SubVV(bsm1[:t], b1, b0[:t])
		clear(bsm1[t:])
		neg = !neg
	} else {
		arith.Sub(bsm1, b0, b1)
	}
	return neg
}

// toom22Interpolate combines v0 (out[:2n]), vinf (out[2n:]) and vm1 into the
// final product. out must be exactly 2n+s+t limbs.
func toom22Interpolate(out, vm1 []Word, n, s, t int, neg bool) {
	v0lo, v0hi := out[:n], out[n:2*n]
	vinfLo, vinfHi := out[2*n:3*n], out[3*n:]

	// H(v0) + L(vinf)
	cy := arith.AddVV(vinfLo, vinfLo, v0hi)
	// L(v0) + H(v0)
	cy2 := cy + arith.AddVV(v0hi, vinfLo, v0lo)
	// L(vinf) + H(vinf)
	cy += arith.Add(vinfLo, vinfLo, vinfHi[:s+t-n])

	mid := out[n : 3*n]
	if neg {
		cy += arith.AddVV(mid, mid, vm1)
	} else {
		cy -= arith.SubVV(mid, mid, vm1)
	}
	arith.AddVW(out[2*n:], out[2*n:], cy2)

	// cy is -1, 0, 1 or 2; -1 shows up as a wrapped word.
	if cy <= 2 {
		arith.AddVW(out[3*n:], out[3*n:], cy)
	} else {
		arith.SubVW(out[3*n:], out[3*n:], 1)
	}
}

// toom22RecN multiplies two equal-length operands for Toom-22's recursion.
func (mp *Multiplier) toom22RecN(out, a, b, scratch []Word) {
	if len(a) < mp.th.Toom22 {
		basecase(out, a, b)
	} else {
		mp.toom22(out, a, b, scratch)
	}
}

func (mp *Multiplier) toom22RecNItch(n int) int {
	if n < mp.th.Toom22 {
		return 0
	}
	return mp.toom22Itch(n, n)
}

// toom22RecGreater multiplies the unequal high parts. The difference s-t is
// invariant down the recursion, so the relative imbalance grows and Toom-32
// or the full dispatcher takes over once Toom-22 no longer fits.
func (mp *Multiplier) toom22RecGreater(out, a, b, scratch []Word) {
	an, bn := len(a), len(b)
	switch {
	case bn < mp.th.Toom22:
		basecase(out, a, b)
	case 4*an < 5*bn:
		mp.toom22(out, a, b, scratch)
	case toom32Valid(an, bn):
		mp.toom32(out, a, b, scratch)
	default:
		mp.mulGreater(out, a, b, scratch)
	}
}

func (mp *Multiplier) toom22RecGreaterItch(an, bn int) int {
	switch {
	case bn < mp.th.Toom22:
		return 0
	case 4*an < 5*bn:
		return mp.toom22Itch(an, bn)
	case toom32Valid(an, bn):
		return mp.toom32Itch(an, bn)
	default:
		return mp.mulItch(an, bn)
	}
}
