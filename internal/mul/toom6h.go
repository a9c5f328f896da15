package mul

// toom6h multiplies a by b into out[:an+bn] with the Toom-6.5 scheme. Both
// operands are cut into n-limb blocks, a into p+1 pieces and b into q+1, and
// the product is evaluated at 0, ±1/2, ±1, ±4, ±1/4, ±2 and, when p+q is
// odd, at infinity:
//
//	<-s--><--n--><--n-->   <--n-->
//	 ____ ______ ______     ______
//	|_ap_|_ap-1_|_ap-2_|...|__a0__|
//	       <-t--><--n-->   <--n-->
//	        ____ ______     ______
//	       |_bq_|_bq-1_|...|__b0__|
//
// Values at fractional points are scaled to integers. Each pair of products
// is coupled into three (3n+1)-limb intermediates in scratch (r5, r3, r1)
// and two in out (r4, r2), so the operands of the last pair are staged in
// out[7n:7n+3(n+1)] and scratch.
func (mp *Multiplier) toom6h(out, a, b, scratch []Word) {
	an, bn := len(a), len(b)
	if !toom6hValid(an, bn) {
		panic("mul.toom6h: operand sizes out of range")
	}
	n, p, q, half := toom6hSplit(an, bn)
	pn, qn := p*n, q*n
	s, t := an-pn, bn-qn
	m := n + 1
	r := 3*n + 1
	out = out[:an+bn]

	r5, r3, r1 := scratch[:r], scratch[r:2*r], scratch[2*r:3*r]
	tail := scratch[3*r:]
	v3, rest := tail[:m], tail[m:]

	lo := out[:3*n]
	r4 := out[3*n : 7*n]
	v0, v1, v2 := out[7*n:7*n+m], out[7*n+m:7*n+2*m], out[7*n+2*m:7*n+3*m]
	pair := lo[:2*n+1]

	// ±1/2
	neg := evalPolyPM2RPow(v2, v0, p, a, n, 1, lo[:m]) != evalPolyPM2RPow(v3, v1, q, b, n, 1, lo[:m])
	mp.mulN(lo[:2*m], v0, v1, rest)
	mp.mulN(r5[:2*m], v2, v3, rest)
	if half {
		toomCouple(r5, pair, neg, n, 2, 1)
	} else {
		toomCouple(r5, pair, neg, n, 1, 0)
	}

	// ±1
	neg = evalPolyPM1(v2, v0, p, a, n, lo[:m]) != evalPM1(v3, v1, q, b, n, lo[:m])
	mp.mulN(lo[:2*m], v0, v1, rest)
	mp.mulN(r3[:2*m], v2, v3, rest)
	toomCouple(r3, pair, neg, n, 0, 0)

	// ±4
	neg = evalPolyPM2Pow(v2, v0, p, a, n, 2, lo[:m]) != evalPolyPM2Pow(v3, v1, q, b, n, 2, lo[:m])
	mp.mulN(lo[:2*m], v0, v1, rest)
	mp.mulN(r1[:2*m], v2, v3, rest)
	toomCouple(r1, pair, neg, n, 2, 4)

	// ±1/4
	neg = evalPolyPM2RPow(v2, v0, p, a, n, 2, lo[:m]) != evalPolyPM2RPow(v3, v1, q, b, n, 2, lo[:m])
	mp.mulN(lo[:2*m], v0, v1, rest)
	mp.mulN(r4[:2*m], v2, v3, rest)
	if half {
		toomCouple(r4, pair, neg, n, 4, 2)
	} else {
		toomCouple(r4, pair, neg, n, 2, 0)
	}

	// ±2; the pair at 2 lands in r2 = out[7n:], over the consumed v0 and v1.
	neg = evalPolyPM2(v2, v0, p, a, n, lo[:m]) != evalPolyPM2(v3, v1, q, b, n, lo[:m])
	mp.mulN(lo[:2*m], v0, v1, rest)
	r2 := out[7*n:]
	mp.mulN(r2[:2*m], v2, v3, rest)
	toomCouple(r2, pair, neg, n, 1, 2)

	mp.mulN(out[:2*n], a[:n], b[:n], rest)
	if half {
		mp.mulAny(out[11*n:11*n+s+t], a[pn:], b[qn:], rest)
	}

	interpolate12(out, n, s+t, half, r1, r3, r5, tail)
}

// evalPM1 evaluates a polynomial of degree 3 or more at 1 and -1.
func evalPM1(v1, vm1 []Word, degree int, poly []Word, n int, tmp []Word) bool {
	if degree == 3 {
		return evalDeg3PM1(v1, vm1, poly, n, tmp)
	}
	return evalPolyPM1(v1, vm1, degree, poly, n, tmp)
}

// toom6hSplit returns the block size n and the degrees p and q of the
// polynomials for a and b. half reports that p+q is odd and the product has
// a point at infinity.
func toom6hSplit(an, bn int) (n, p, q int, half bool) {
	// Ratios against the limit 18/17.
	if an*17 < 18*bn {
		return 1 + (an-1)/6, 5, 5, false
	}
	switch {
	case an*5*18 < 17*7*bn:
		p, q = 7, 6
	case an*5*17 < 18*7*bn:
		p, q = 7, 5
	case an*18 < 17*bn*2:
		p, q = 8, 5
	case an*17 < 18*bn*2:
		p, q = 8, 4
	default:
		p, q = 9, 4
	}
	return toomHDegrees(an, bn, p, q)
}

// toomHDegrees sizes the blocks for p and q pieces and lowers one degree
// when p and q have different parity and one operand does not reach its
// top block.
func toomHDegrees(an, bn, p, q int) (n, dp, dq int, half bool) {
	if q*an >= p*bn {
		n = 1 + (an-1)/p
	} else {
		n = 1 + (bn-1)/q
	}
	dp, dq = p-1, q-1
	if (dp-dq)%2 != 0 {
		switch {
		case an <= dp*n:
			dp--
		case bn <= dq*n:
			dq--
		default:
			half = true
		}
	}
	return n, dp, dq, half
}

// toomHShape reports whether a split leaves both top pieces non-empty and
// no longer than a block.
func toomHShape(an, bn, n, p, q int, half bool) bool {
	s, t := an-p*n, bn-q*n
	return n > 2 && q >= 3 && s > 0 && s <= n && t > 0 && t <= n && (half || s+t > 3)
}
