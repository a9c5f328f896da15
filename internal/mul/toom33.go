package mul

import "github.com/agbru/bigmul/internal/arith"

// toom33 multiplies a by b into out[:an+bn] with the Toom-33 scheme,
// evaluating both three-way splits at 0, 1, -1, 2 and infinity:
//
//	<-s--><--n--><--n-->
//	 ____ ______ ______
//	|_a2_|__a1__|__a0__|
//	 |b2_|__b1__|__b0__|
//	 <-t-><--n--><--n-->
//
//	v0   = a0*b0                                       out[0 : 2n]
//	v1   = (a0+a1+a2)*(b0+b1+b2)                       out[2n : 4n+1]
//	vm1  = (a0-a1+a2)*(b0-b1+b2)                       scratch[0 : 2n+1]
//	v2   = (a0+2a1+4a2)*(b0+2b1+4b2)                   scratch[2n+1 : 4n+3]
//	vinf = a2*b2                                       out[4n : an+bn]
//
// The evaluated values carry small top limbs (at most 2 for as1 and bs1, 1
// for asm1 and bsm1, 6 for as2 and bs2). v1 and vm1 are computed from the n
// low limbs and the top limbs folded back in, keeping the recursion on
// n-limb operands.
func (mp *Multiplier) toom33(out, a, b, scratch []Word) {
	an, bn := len(a), len(b)
	n := ceilDiv(an, 3)
	m := n + 1
	if an < bn || bn <= 2*n || an <= 2*n {
		panic("mul.toom33: operand sizes out of range")
	}
	out = out[:an+bn]
	a0, a1, a2 := a[:n], a[n:2*n], a[2*n:]
	b0, b1, b2 := b[:n], b[n:2*n], b[2*n:]
	s, t := len(a2), len(b2)

	bs1, as2, bs2 := out[:m], out[m:2*m], out[2*m:3*m]
	vm1 := scratch[:2*m]
	asm1, bsm1, as1 := scratch[2*m:3*m], scratch[3*m:4*m], scratch[4*m:5*m]
	rest := scratch[5*m:]

	// Evaluate a. gp = a0 + a2 is kept in vm1's space until the product.
	gp := vm1[:n]
	cy := arith.Add(gp, a0, a2)
	as1[n] = cy + arith.AddVV(as1[:n], gp, a1)
	neg := cy == 0 && arith.Cmp(gp, a1) < 0
	if neg {
		arith.SubVV(asm1[:n], a1, gp)
		asm1[n] = 0
	} else {
		asm1[n] = cy - arith.SubVV(asm1[:n], gp, a1)
	}
	// as2 = 2*(as1 + a2) - a0
	cy = addPrefix(as2[:n], as1[:n], a2)
	cy = (cy+as1[n])<<1 + arith.ShlVU(as2[:n], as2[:n], 1)
	cy -= arith.SubVV(as2[:n], as2[:n], a0)
	as2[n] = cy

	// Evaluate b the same way.
	cy = arith.Add(gp, b0, b2)
	bs1[n] = cy + arith.AddVV(bs1[:n], gp, b1)
	if cy == 0 && arith.Cmp(gp, b1) < 0 {
		arith.SubVV(bsm1[:n], b1, gp)
		bsm1[n] = 0
		neg = !neg
	} else {
		bsm1[n] = cy - arith.SubVV(bsm1[:n], gp, b1)
	}
	cy = addPrefix(bs2[:n], bs1[:n], b2)
	cy = (cy+bs1[n])<<1 + arith.ShlVU(bs2[:n], bs2[:n], 1)
	cy -= arith.SubVV(bs2[:n], bs2[:n], b0)
	bs2[n] = cy

	// vm1, recursing on the n low limbs.
	mp.toom33Rec(vm1, asm1[:n], bsm1[:n], rest)
	vmid := vm1[n : 2*n]
	cy = 0
	if asm1[n] != 0 {
		cy = bsm1[n] + arith.AddVV(vmid, vmid, bsm1[:n])
	}
	if bsm1[n] != 0 {
		cy += arith.AddVV(vmid, vmid, asm1[:n])
	}
	vm1[2*n] = cy

	// v2 over the full n+1 limbs; it overwrites asm1 and bsm1.
	mp.toom33Rec(scratch[2*n+1:4*n+3], as2, bs2, rest)

	// vinf; its low limb is saved since v1's carry limb lands on it.
	vinf := out[4*n:]
	if s > t {
		mp.mulGreater(vinf, a2, b2, rest)
	} else {
		mp.toom33Rec(vinf, a2, b2[:s], rest)
	}
	vinf0 := vinf[0]

	// v1, recursing on the n low limbs of as1 and bs1.
	mp.toom33Rec(out[2*n:4*n], as1[:n], bs1[:n], rest)
	v1mid := out[3*n : 4*n]
	cy = 0
	if as1[n] == 1 {
		cy = bs1[n] + arith.AddVV(v1mid, v1mid, bs1[:n])
	} else if as1[n] != 0 {
		cy = bs1[n]<<1 + arith.AddMulVVW(v1mid, bs1[:n], 2)
	}
	if bs1[n] == 1 {
		cy += arith.AddVV(v1mid, v1mid, as1[:n])
	} else if bs1[n] != 0 {
		cy += arith.AddMulVVW(v1mid, as1[:n], 2)
	}
	out[4*n] = cy

	mp.toom33Rec(out[:2*n], a0, b0, rest)

	interpolate5(out, scratch[2*n+1:], scratch[:2*n+1], n, s+t, neg, vinf0)
}

// addPrefix sets z = x + y where len(y) <= len(x) == len(z), adding a carry
// into the copied top of x. It returns the carry out.
func addPrefix(z, x, y []Word) Word {
	k := len(y)
	if arith.AddVV(z[:k], y, x[:k]) == 0 {
		copy(z[k:], x[k:])
		return 0
	}
	return arith.AddVW(z[k:], x[k:], 1)
}

// toom33Rec multiplies two equal-length operands for Toom-33's recursion.
func (mp *Multiplier) toom33Rec(out, a, b, scratch []Word) {
	n := len(a)
	switch {
	case n < mp.th.Toom22:
		basecase(out, a, b)
	case n < mp.th.Toom33:
		mp.toom22(out, a, b, scratch)
	default:
		mp.toom33(out, a, b, scratch)
	}
}

func (mp *Multiplier) toom33RecItch(n int) int {
	switch {
	case n < mp.th.Toom22:
		return 0
	case n < mp.th.Toom33:
		return mp.toom22Itch(n, n)
	default:
		return mp.toom33Itch(n, n)
	}
}
