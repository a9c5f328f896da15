package mul

import "github.com/agbru/bigmul/internal/arith"

// toom43 multiplies a by b into out[:an+bn] with the Toom-43 scheme: a is
// split in four, b in three, and the product is evaluated at 0, 1, -1, 2, -2
// and infinity.
//
//	<-s--><--n--><--n--><--n-->
//	 ____ ______ ______ ______
//	|_a3_|__a2__|__a1__|__a0__|
//	       |_b2_|__b1__|__b0__|
//	       <-t--><--n--><--n-->
//
// The evaluated operands live in out (bs1, bsm2, bs2, as2, as1) and the
// first 6n+4 limbs of scratch (bsm1, asm1, asm2) until their products are
// formed.
func (mp *Multiplier) toom43(out, a, b, scratch []Word) {
	an, bn := len(a), len(b)
	n := toom43Split(an, bn)
	s := an - 3*n
	t := bn - 2*n
	if s <= 0 || s > n || t <= 0 || t > n || s+t < 5 {
		panic("mul.toom43: operand sizes out of range")
	}
	out = out[:an+bn]
	b0, b1, b2 := b[:n], b[n:2*n], b[2*n:]
	m := n + 1

	bs1, bsm2, bs2, as2, as1 := out[:m], out[m:2*m], out[2*m:3*m], out[3*m:4*m], out[4*m:5*m]
	work, rest := scratch[:6*n+4], scratch[6*n+4:]
	small, bsm1, asm1, asm2 := work[:m], work[2*m:3*m], work[3*m:4*m], work[4*m:]

	neg2 := evalDeg3PM2(as2, asm2[:m], a, n, asm1)

	// bsm1 = 2*b1, small = b0 + 4*b2, then bs2 and bsm2 = |small ± 2*b1|.
	bsm1[n] = arith.ShlVU(bsm1[:n], b1, 1)
	cy := arith.ShlVU(small[:t], b2, 2)
	cy += arith.AddVV(small[:t], small[:t], b0[:t])
	if t != n {
		cy = arith.AddVW(small[t:n], b0[t:], cy)
	}
	small[n] = cy
	arith.AddVV(bs2, small, bsm1)
	if arith.Cmp(small, bsm1) < 0 {
		arith.SubVV(bsm2, bsm1, small)
		neg2 = !neg2
	} else {
		arith.SubVV(bsm2, small, bsm1)
	}

	neg1 := evalDeg3PM1(as1, asm1, a, n, small)

	// bsm1 = |b0 - b1 + b2|, bs1 = b0 + b1 + b2
	bsm1[n] = arith.Add(bsm1[:n], b0, b2)
	bs1[n] = bsm1[n] + arith.AddVV(bs1[:n], bsm1[:n], b1)
	if bsm1[n] == 0 && arith.Cmp(bsm1[:n], b1) < 0 {
		arith.SubVV(bsm1[:n], b1, bsm1[:n])
		neg1 = !neg1
	} else {
		bsm1[n] -= arith.SubVV(bsm1[:n], bsm1[:n], b1)
	}

	// vm1 at scratch[0:2n+1], vm2 at scratch[2n+1:4n+2], v2 at
	// scratch[4n+2:6n+3]. Each product's spare top limb is overwritten by
	// the next one.
	mp.mulN(work[:2*m], asm1, bsm1, rest)
	mp.mulN(work[2*n+1:4*n+3], asm2[:m], bsm2, rest)
	mp.mulN(work[4*n+2:6*n+4], as2, bs2, rest)

	// v1 at out[2n:4n+2], vinf at out[5n:], v0 at out[0:2n].
	mp.mulN(out[2*n:4*n+2], as1, bs1, rest)
	mp.mulAny(out[5*n:], a[3*n:], b2, rest)
	mp.mulN(out[:2*n], a[:n], b0, rest)

	interpolate6(out, n, s+t, neg1, work[:2*n+1], neg2, work[2*n+1:4*n+2], work[4*n+2:6*n+3])
}
