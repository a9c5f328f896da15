package mul

import "github.com/agbru/bigmul/internal/arith"

// toom42 multiplies a by b into out[:an+bn] with the Toom-42 scheme: a is
// split in four, b in two, and the product is evaluated at 0, 1, -1, 2 and
// infinity.
//
//	<-s--><--n--><--n--><--n-->
//	 ____ ______ ______ ______
//	|_a3_|__a2__|__a1__|__a0__|
//	               |b1_|__b0__|
//	               <-t-><--n-->
//
//	v0   = a0*b0                                 out[0 : 2n]
//	v1   = (a0+a1+a2+a3)*(b0+b1)                 out[2n : 4n+1]
//	vm1  = (a0-a1+a2-a3)*(b0-b1)                 scratch[6n+5 : 8n+6]
//	v2   = (a0+2a1+4a2+8a3)*(b0+2b1)             scratch[8n+6 : 10n+8]
//	vinf = a3*b1                                 out[4n : an+bn]
func (mp *Multiplier) toom42(out, a, b, scratch []Word) {
	an, bn := len(a), len(b)
	n := toom42Split(an, bn)
	s := an - 3*n
	t := bn - n
	if s <= 0 || s > n || t <= 0 || t > n {
		panic("mul.toom42: operand sizes out of range")
	}
	out = out[:an+bn]
	a0, a1, a2, a3 := a[:n], a[n:2*n], a[2*n:3*n], a[3*n:]
	b0, b1 := b[:n], b[n:]

	k := n + 1
	work, rest := scratch[:10*n+8], scratch[10*n+8:]
	lo, hi := work[:6*n+5], work[6*n+5:]
	as1, asm1, as2, bs1 := lo[:k], lo[k:2*k], lo[2*k:3*k], lo[3*k:4*k]
	bsm1, bs2 := lo[4*k:4*k+n], lo[4*k+n:]

	neg := evalDeg3PM1(as1, asm1, a, n, out[:k])

	// as2 = ((2a3 + a2)*2 + a1)*2 + a0
	cy := arith.ShlVU(as2[:s], a3, 1)
	cy += arith.AddVV(as2[:s], as2[:s], a2[:s])
	if s != n {
		cy = arith.AddVW(as2[s:n], a2[s:], cy)
	}
	cy = cy<<1 + arith.ShlVU(as2[:n], as2[:n], 1)
	cy += arith.AddVV(as2[:n], as2[:n], a1)
	cy = cy<<1 + arith.ShlVU(as2[:n], as2[:n], 1)
	cy += arith.AddVV(as2[:n], as2[:n], a0)
	as2[n] = cy

	// bs1 = b0 + b1, bsm1 = |b0 - b1|, bs2 = bs1 + b1
	if t == n {
		bs1[n] = arith.AddVV(bs1[:n], b0, b1)
		if arith.Cmp(b0, b1) < 0 {
			arith.SubVV(bsm1, b1, b0)
			neg = !neg
		} else {
			arith.SubVV(bsm1, b0, b1)
		}
	} else {
		bs1[n] = arith.Add(bs1[:n], b0, b1)
		if arith.IsZero(b0[t:]) && arith.Cmp(b0[:t], b1) < 0 {
			arith.SubVV(bsm1[:t], b1, b0[:t])
			clear(bsm1[t:])
			neg = !neg
		} else {
			arith.Sub(bsm1, b0, b1)
		}
	}
	arith.Add(bs2, bs1, b1)

	vm1, v2 := hi[:2*n+1], hi[2*n+1:]
	mp.mulN(vm1, asm1[:n], bsm1, rest)
	vm1[2*n] = 0
	if asm1[n] != 0 {
		vm1[2*n] = arith.AddVV(vm1[n:2*n], vm1[n:2*n], bsm1)
	}
	mp.mulN(v2, as2, bs2, rest)
	mp.mulAny(out[4*n:], a3, b1, rest)

	// v1 from the n low limbs, with the top limbs of as1 and bs1 folded back.
	mp.mulN(out[2*n:4*n], as1[:n], bs1[:n], rest)
	v1mid := out[3*n : 4*n]
	cy = 0
	switch as1[n] {
	case 1:
		cy = bs1[n] + arith.AddVV(v1mid, v1mid, bs1[:n])
	case 2, 3:
		cy = bs1[n]*as1[n] + arith.AddMulVVW(v1mid, bs1[:n], as1[n])
	}
	if bs1[n] != 0 {
		cy += arith.AddVV(v1mid, v1mid, as1[:n])
	}
	vinf0 := out[4*n]
	out[4*n] = cy

	mp.mulN(out[:2*n], a0, b0, rest)

	interpolate5(out, v2, vm1, n, s+t, neg, vinf0)
}
