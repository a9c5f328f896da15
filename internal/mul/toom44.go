package mul

import "github.com/agbru/bigmul/internal/arith"

// toom44 multiplies a by b into out[:an+bn] with the Toom-44 scheme, both
// operands split in four and evaluated at 0, 1, -1, 2, -2, 1/2 and infinity.
//
//	<-s--><--n--><--n--><--n-->
//	 ____ ______ ______ ______
//	|_a3_|__a2__|__a1__|__a0__|
//	 |b3_|__b2__|__b1__|__b0__|
//	 <-t-><--n--><--n--><--n-->
//
//	v0   = a0*b0                                      out[0 : 2n]
//	v1   = (a0+a1+a2+a3)*(b0+b1+b2+b3)                out[2n : 4n+1]
//	vm1  = (a0-a1+a2-a3)*(b0-b1+b2-b3)                scratch[6n+3 : 8n+4]
//	v2   = (a0+2a1+4a2+8a3)*(b0+2b1+4b2+8b3)          scratch[0 : 2n+1]
//	vm2  = (a0-2a1+4a2-8a3)*(b0-2b1+4b2-8b3)          scratch[2n+1 : 4n+2]
//	vh   = (8a0+4a1+2a2+a3)*(8b0+4b1+2b2+b3)          scratch[4n+2 : 6n+3]
//	vinf = a3*b3                                      out[6n : an+bn]
func (mp *Multiplier) toom44(out, a, b, scratch []Word) {
	an, bn := len(a), len(b)
	n := ceilDiv(an, 4)
	m := 2*n + 1
	s := an - 3*n
	t := bn - 3*n
	if an < bn || s <= 0 || t <= 0 || t > n {
		panic("mul.toom44: operand sizes out of range")
	}
	out = out[:an+bn]
	a0, a1, a2, a3 := a[:n], a[n:2*n], a[2*n:3*n], a[3*n:]
	b0, b1, b2, b3 := b[:n], b[n:2*n], b[2*n:3*n], b[3*n:]

	k := n + 1
	apx, amx, bmx, bpx := out[:k], out[k:2*k], out[2*k:3*k], out[4*n+2:5*n+3]
	work, rest := scratch[:9*n+6], scratch[9*n+6:]
	tmp := work[8*n+5 : 9*n+6]

	// ±2
	w1Neg := evalDeg3PM2(apx, amx, a, n, tmp)
	if evalDeg3PM2(bpx, bmx, b, n, tmp) {
		w1Neg = !w1Neg
	}
	mp.mulN(work[:2*k], apx, bpx, rest)
	mp.mulN(work[m:m+2*k], amx, bmx, rest)

	// 1/2, scaled by 8: ((2x0 + x1)*2 + x2)*2 + x3
	evalHalf(apx, a0, a1, a2, a3)
	evalHalf(bpx, b0, b1, b2, b3)
	mp.mulN(work[2*m:2*m+2*k], apx, bpx, rest)

	// ±1
	w3Neg := evalDeg3PM1(apx, amx, a, n, tmp)
	if evalDeg3PM1(bpx, bmx, b, n, tmp) {
		w3Neg = !w3Neg
	}
	mp.mulN(work[3*m:3*m+2*k], amx, bmx, rest)
	mp.mulN(out[2*n:4*n+2], apx, bpx, rest)

	mp.mulN(out[:2*n], a0, b0, rest)
	if s > t {
		mp.mulGreater(out[6*n:], a3, b3, rest)
	} else {
		mp.mulN(out[6*n:], a3, b3, rest)
	}

	interpolate7(out, n, s+t, w1Neg, work[m:2*m], w3Neg, work[3*m:4*m],
		work[:m], work[2*m:3*m], scratch[4*m+1:])
}

// evalHalf sets x (n+1 limbs) to 8*x(1/2) = ((2x0 + x1)*2 + x2)*2 + x3.
func evalHalf(x, x0, x1, x2, x3 []Word) {
	n := len(x0)
	lo := x[:n]
	cy := arith.ShlVU(lo, x0, 1)
	cy += arith.AddVV(lo, lo, x1)
	cy = cy<<1 + arith.ShlVU(lo, lo, 1)
	cy += arith.AddVV(lo, lo, x2)
	cy = cy<<1 + arith.ShlVU(lo, lo, 1)
	cy += arith.Add(lo, lo, x3)
	x[n] = cy
}
