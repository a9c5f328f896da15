package mul

import "github.com/agbru/bigmul/internal/arith"

// toom63 multiplies a by b into out[:an+bn] with the Toom-63 scheme: a is
// split in six, b in three, and the product is evaluated at 0, ±1, ±2, ±4,
// ±1/2 and infinity.
//
//	<-s--><--n--><--n--><--n--><--n--><--n-->
//	 ____ ______ ______ ______ ______ ______
//	|_a5_|__a4__|__a3__|__a2__|__a1__|__a0__|
//	                      |_b2_|__b1__|__b0__|
//	                      <-t--><--n--><--n-->
//
// The values at ±h are multiplied in pairs and immediately coupled into
// their even and odd parts, so only three (3n+1)-limb intermediates (r3, r5
// and r7) are kept until the final interpolation. Evaluated operands are
// staged in out[3n:3n+4(n+1)].
func (mp *Multiplier) toom63(out, a, b, scratch []Word) {
	an, bn := len(a), len(b)
	n := toom63Split(an, bn)
	s := an - 5*n
	t := bn - 2*n
	if an < bn || n <= 2 || s <= 0 || s > n || t <= 0 || t > n || s+t <= 4 {
		panic("mul.toom63: operand sizes out of range")
	}
	out = out[:an+bn]
	b0, b1, b2 := b[:n], b[n:2*n], b[2*n:]
	m := n + 1

	work, rest := scratch[:9*n+3], scratch[9*n+3:]
	r7, r3, s2 := work[:3*n+1], work[3*n+1:6*n+2], work[6*n+2:]

	r8 := out[:3*n]
	v0, v1, v2, v3 := out[3*n:3*n+m], out[3*n+m:3*n+2*m], out[3*n+2*m:3*n+3*m], out[3*n+3*m:3*n+4*m]

	// ±4; r8 stages 4*b1 and v3 = b0 + 16*b2.
	neg := evalPolyPM2Pow(v2, v0, 5, a, n, 2, r8[:m])
	r8[n] = arith.ShlVU(r8[:n], b1, 2)
	addShifted(v3, b0, b2, 4)
	if absSubAdd(v1, v3, r8[:m]) {
		neg = !neg
	}
	mp.mulN(r8[:2*m], v0, v1, rest)
	mp.mulN(r3[:2*m], v2, v3, rest)
	toomCouple(r3, r8[:2*n+1], neg, n, 2, 4)

	// ±1
	neg = evalPolyPM1(v2, v0, 5, a, n, r8[:m])
	sum := s2[:n]
	cy := arith.Add(sum, b0, b2)
	v3[n] = cy + arith.AddVV(v3[:n], sum, b1)
	if cy == 0 && arith.Cmp(sum, b1) < 0 {
		arith.SubVV(v1[:n], b1, sum)
		v1[n] = 0
		neg = !neg
	} else {
		v1[n] = cy - arith.SubVV(v1[:n], sum, b1)
	}
	mp.mulN(r8[:2*m], v0, v1, rest)
	mp.mulN(r7[:2*m], v2, v3, rest)
	toomCouple(r7, r8[:2*n+1], neg, n, 0, 0)

	// ±2; r8 stages 2*b1 and v3 = b0 + 4*b2.
	neg = evalPolyPM2(v2, v0, 5, a, n, r8[:m])
	r8[n] = arith.ShlVU(r8[:n], b1, 1)
	addShifted(v3, b0, b2, 2)
	if absSubAdd(v1, v3, r8[:m]) {
		neg = !neg
	}
	mp.mulN(r8[:2*m], v0, v1, rest)
	// The ±2 pair lands in r5 = out[3n:], over the consumed v0 and v1.
	mp.mulN(out[3*n:3*n+2*m], v2, v3, rest)
	toomCouple(out[3*n:], r8[:2*n+1], neg, n, 1, 2)

	mp.mulN(out[:2*n], a[:n], b0, rest)
	mp.mulAny(out[7*n:], a[5*n:], b2, rest)

	interpolate8(out, n, s+t, r3, r7, s2)
}

// addShifted sets v (n+1 limbs) to x0 + x2<<shift, where x0 has n limbs
// and x2 at most n.
func addShifted(v, x0, x2 []Word, shift uint) {
	n, t := len(x0), len(x2)
	v[t] = arith.ShlVU(v[:t], x2, shift)
	if t != n {
		v[n] = arith.Add(v[:n], x0, v[:t+1])
		return
	}
	v[n] += arith.AddVV(v[:n], v[:n], x0)
}
