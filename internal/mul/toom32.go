package mul

import "github.com/agbru/bigmul/internal/arith"

// toom32 multiplies a by b into out[:an+bn] with the Toom-32 scheme: a is
// split in three, b in two, and the product is evaluated at 0, 1, -1 and
// infinity.
//
//	<-s-><--n--><--n-->
//	 ___ ______ ______
//	|a2_|__a1__|__a0__|
//	        |b1_|__b0__|
//	        <-t-><--n-->
//
// It requires bn+2 <= an and an+6 <= 3bn.
func (mp *Multiplier) toom32(out, a, b, scratch []Word) {
	an, bn := len(a), len(b)
	if bn+2 > an || an+6 > 3*bn {
		panic("mul.toom32: operand sizes out of range")
	}
	n := toom32Split(an, bn)
	s := an - 2*n
	t := bn - n
	if s <= 0 || s > n || t <= 0 || t > n || s+t < n {
		panic("mul.toom32: operand sizes out of range")
	}
	out = out[:an+bn]
	a0, a1, a2 := a[:n], a[n:2*n], a[2*n:]
	b0, b1 := b[:n], b[n:]

	ap1, bp1 := out[:n], out[n:2*n]
	am1, bm1 := out[2*n:3*n], out[3*n:4*n]

	// ap1 = a0 + a1 + a2, am1 = |a0 - a1 + a2|; hi tracks am1's top bit.
	hi := arith.Add(ap1, a0, a2)
	ap1Hi := hi
	neg := ap1Hi == 0 && arith.Cmp(ap1, a1) < 0
	if neg {
		arith.SubVV(am1, a1, ap1)
	} else if arith.SubVV(am1, ap1, a1) != 0 {
		hi ^= 1
	}
	ap1Hi += arith.AddVV(ap1, ap1, a1)

	// bp1 = b0 + b1, bm1 = |b0 - b1|
	var bp1Hi Word
	if t == n {
		bp1Hi = arith.AddVV(bp1, b0, b1)
		if arith.Cmp(b0, b1) < 0 {
			arith.SubVV(bm1, b1, b0)
			neg = !neg
		} else {
			arith.SubVV(bm1, b0, b1)
		}
	} else {
		bp1Hi = arith.Add(bp1, b0, b1)
		if arith.IsZero(b0[t:]) && arith.Cmp(b0[:t], b1) < 0 {
			arith.SubVV(bm1[:t], b1, b0[:t])
			clear(bm1[t:])
			neg = !neg
		} else {
			arith.Sub(bm1, b0, b1)
		}
	}

	// v1 = ap1 * bp1, 2n+1 limbs in scratch.
	m := 2*n + 1
	v1, rest := scratch[:m], scratch[m:]
	mp.mulN(v1, ap1, bp1, rest)
	v1mid := v1[n : 2*n]
	var cy Word
	switch ap1Hi {
	case 1:
		cy = arith.AddVV(v1mid, v1mid, bp1) + bp1Hi
	case 2:
		cy = arith.AddMulVVW(v1mid, bp1, 2) + 2*bp1Hi
	}
	if bp1Hi != 0 {
		cy += arith.AddVV(v1mid, v1mid, ap1)
	}
	v1[2*n] = cy

	// vm1 = am1 * bm1, 2n+1 limbs at out[0:2n+1].
	mp.mulN(out[:2*n], am1, bm1, rest)
	if hi != 0 {
		out[2*n] = arith.AddVV(out[n:2*n], out[n:2*n], bm1)
	} else {
		out[2*n] = 0
	}

	// v1 <- (v1 ± vm1) / 2
	if neg {
		arith.SubVV(v1, v1, out[:m])
	} else {
		arith.AddVV(v1, v1, out[:m])
	}
	arith.ShrVU(v1, v1, 1)

	// Fold the even and odd parts together; out[2n:3n] becomes y1.
	hi = out[2*n]
	v1lo, v1hi := v1[:n], v1[n:m]
	x := v1[2*n]
	x += arith.AddVV(out[2*n:3*n], v1lo, v1[n:2*n])
	arith.AddVW(v1hi, v1hi, x)

	if neg {
		c := arith.AddVV(v1lo, v1lo, out[:n])
		hi += arith.AddVVCarry(out[2*n:3*n], out[2*n:3*n], out[n:2*n], c)
		arith.AddVW(v1hi, v1hi, hi)
	} else {
		c := arith.SubVV(v1lo, v1lo, out[:n])
		hi += arith.SubVVBorrow(out[2*n:3*n], out[2*n:3*n], out[n:2*n], c)
		arith.SubVW(v1hi, v1hi, hi)
	}

	// v0 = a0*b0, vinf = a2*b1
	mp.mulN(out[:2*n], a0, b0, rest)
	mp.mulAny(out[3*n:], a2, b1, rest)

	out1, out2, out3 := out[n:2*n], out[2*n:3*n], out[3*n:]
	c := arith.SubVV(out1, out1, out3[:n])
	hi = v1[2*n] + c
	borrow := arith.SubVVBorrow(out2, out2, out[:n], c)
	hi -= arith.SubVVBorrow(out3[:n], v1[n:2*n], out1, borrow)
	hi += arith.Add(out[n:4*n], out[n:4*n], v1lo)

	if s+t > n {
		lo, top := out[2*n:4*n], out[4*n:4*n+s+t-n]
		hi -= arith.Sub(lo, lo, top)
		if hi>>(_W-1) != 0 {
			arith.SubVW(top, top, -hi)
		} else {
			arith.AddVW(top, top, hi)
		}
	}
}
