package mul

// toom8h multiplies a by b into out[:an+bn] with the Toom-8.5 scheme, the
// widest engine of the ladder. The operands are cut like in toom6h and the
// product is evaluated at 0, ±1/8, ±1/4, ±2, ±8, ±1/2, ±1, ±4 and, when p+q
// is odd, at infinity.
//
// Four (3n+1)-limb intermediates (r7, r5, r3, r1) live in scratch and three
// (r6, r4, r2) in out. Evaluations at ±8 and ±1/8 shift coefficients by up
// to 36 bits and the interpolation by 42, so the engine needs 64-bit words.
func (mp *Multiplier) toom8h(out, a, b, scratch []Word) {
	an, bn := len(a), len(b)
	if !toom8hValid(an, bn) {
		panic("mul.toom8h: operand sizes out of range")
	}
	n, p, q, half := toom8hSplit(an, bn)
	pn, qn := p*n, q*n
	s, t := an-pn, bn-qn
	m := n + 1
	r := 3*n + 1
	out = out[:an+bn]

	r7, r5, r3, r1 := scratch[:r], scratch[r:2*r], scratch[2*r:3*r], scratch[3*r:4*r]
	v3, rest := scratch[4*r:4*r+m], scratch[4*r+m:]

	lo := out[:3*n]
	r6 := out[3*n : 7*n]
	r4 := out[7*n : 11*n]
	v0, v1, v2 := out[11*n:11*n+m], out[11*n+m:11*n+2*m], out[11*n+2*m:11*n+3*m]
	pair := lo[:2*n+1]

	// ±1/8
	neg := evalPolyPM2RPow(v2, v0, p, a, n, 3, lo[:m]) != evalPolyPM2RPow(v3, v1, q, b, n, 3, lo[:m])
	mp.mulN(lo[:2*m], v0, v1, rest)
	mp.mulN(r7[:2*m], v2, v3, rest)
	if half {
		toomCouple(r7, pair, neg, n, 6, 3)
	} else {
		toomCouple(r7, pair, neg, n, 3, 0)
	}

	// ±1/4
	neg = evalPolyPM2RPow(v2, v0, p, a, n, 2, lo[:m]) != evalPolyPM2RPow(v3, v1, q, b, n, 2, lo[:m])
	mp.mulN(lo[:2*m], v0, v1, rest)
	mp.mulN(r5[:2*m], v2, v3, rest)
	if half {
		toomCouple(r5, pair, neg, n, 4, 2)
	} else {
		toomCouple(r5, pair, neg, n, 2, 0)
	}

	// ±2
	neg = evalPolyPM2(v2, v0, p, a, n, lo[:m]) != evalPolyPM2(v3, v1, q, b, n, lo[:m])
	mp.mulN(lo[:2*m], v0, v1, rest)
	mp.mulN(r3[:2*m], v2, v3, rest)
	toomCouple(r3, pair, neg, n, 1, 2)

	// ±8
	neg = evalPolyPM2Pow(v2, v0, p, a, n, 3, lo[:m]) != evalPolyPM2Pow(v3, v1, q, b, n, 3, lo[:m])
	mp.mulN(lo[:2*m], v0, v1, rest)
	mp.mulN(r1[:2*m], v2, v3, rest)
	toomCouple(r1, pair, neg, n, 3, 6)

	// ±1/2
	neg = evalPolyPM2RPow(v2, v0, p, a, n, 1, lo[:m]) != evalPolyPM2RPow(v3, v1, q, b, n, 1, lo[:m])
	mp.mulN(lo[:2*m], v0, v1, rest)
	mp.mulN(r6[:2*m], v2, v3, rest)
	if half {
		toomCouple(r6, pair, neg, n, 2, 1)
	} else {
		toomCouple(r6, pair, neg, n, 1, 0)
	}

	// ±1
	neg = evalPolyPM1(v2, v0, p, a, n, lo[:m]) != evalPM1(v3, v1, q, b, n, lo[:m])
	mp.mulN(lo[:2*m], v0, v1, rest)
	mp.mulN(r4[:2*m], v2, v3, rest)
	toomCouple(r4, pair, neg, n, 0, 0)

	// ±4; the pair at 4 lands in r2 = out[11n:], over the consumed v0 and v1.
	neg = evalPolyPM2Pow(v2, v0, p, a, n, 2, lo[:m]) != evalPolyPM2Pow(v3, v1, q, b, n, 2, lo[:m])
	mp.mulN(lo[:2*m], v0, v1, rest)
	r2 := out[11*n:]
	mp.mulN(r2[:2*m], v2, v3, rest)
	toomCouple(r2, pair, neg, n, 2, 4)

	mp.mulN(out[:2*n], a[:n], b[:n], rest)
	if half {
		mp.mulAny(out[15*n:15*n+s+t], a[pn:], b[qn:], rest)
	}

	interpolate16(out, n, s+t, half, r1, r3, r5, r7, rest[:r])
}

// toom8hSplit is toom6hSplit for the Toom-8.5 point set, with the limit
// 21/20.
func toom8hSplit(an, bn int) (n, p, q int, half bool) {
	if an == bn || an*10 < 21*(bn>>1) {
		return 1 + (an-1)>>3, 7, 7, false
	}
	switch {
	case an*13 < bn<<4:
		p, q = 9, 8
	case an*10 < 27*(bn>>1):
		p, q = 9, 7
	case an*10 < 33*(bn>>1):
		p, q = 10, 7
	case an*4 < 7*bn:
		p, q = 10, 6
	case an*6 < 13*bn:
		p, q = 11, 6
	case an*4 < 9*bn:
		p, q = 11, 5
	case an*7 < 20*bn:
		p, q = 12, 5
	case an*9 < 28*bn:
		p, q = 12, 4
	default:
		p, q = 13, 4
	}
	return toomHDegrees(an, bn, p, q)
}
