package mul

import "github.com/agbru/bigmul/internal/arith"

// ─────────────────────────────────────────────────────────────────────────────
// Point evaluation
// ─────────────────────────────────────────────────────────────────────────────
//
// A polynomial of degree d is stored as d+1 coefficients of n limbs each,
// the last one possibly shorter. Each helper writes the value at a point h
// and at -h into n+1 limb buffers and reports whether the value at -h is
// negative; the -h buffer always holds the absolute value.

// coef returns the i-th n-limb coefficient of poly, the last one being the
// remainder.
func coef(poly []Word, i, n, degree int) []Word {
	if i == degree {
		return poly[i*n:]
	}
	return poly[i*n : (i+1)*n]
}

// evalDeg3PM1 evaluates a degree-3 polynomial at 1 and -1. tmp must hold
// n+1 limbs.
func evalDeg3PM1(v1, vm1, poly []Word, n int, tmp []Word) bool {
	p0, p1, p2, p3 := poly[:n], poly[n:2*n], poly[2*n:3*n], poly[3*n:]
	v1[n] = arith.AddVV(v1[:n], p0, p2)
	tmp[n] = arith.Add(tmp[:n], p1, p3)
	return absSubAdd(vm1[:n+1], v1[:n+1], tmp[:n+1])
}

// evalDeg3PM2 evaluates a degree-3 polynomial at 2 and -2. tmp must hold
// n+1 limbs.
func evalDeg3PM2(v2, vm2, poly []Word, n int, tmp []Word) bool {
	p0, p1, p2, p3 := poly[:n], poly[n:2*n], poly[2*n:3*n], poly[3*n:]
	nh := len(p3)

	// v2 = p0 + 4*p2
	v2[n] = arith.ShlVU(tmp[:n], p2, 2)
	v2[n] += arith.AddVV(v2[:n], tmp[:n], p0)

	// tmp = 2*(p1 + 4*p3)
	if nh < n {
		tmp[nh] = arith.ShlVU(tmp[:nh], p3, 2)
		tmp[n] = arith.Add(tmp[:n], p1, tmp[:nh+1])
	} else {
		tmp[n] = arith.ShlVU(tmp[:n], p3, 2)
		tmp[n] += arith.AddVV(tmp[:n], tmp[:n], p1)
	}
	arith.ShlVU(tmp[:n+1], tmp[:n+1], 1)

	return absSubAdd(vm2[:n+1], v2[:n+1], tmp[:n+1])
}

// evalPolyPM1 evaluates a polynomial of degree > 3 at 1 and -1.
func evalPolyPM1(v1, vm1 []Word, degree int, poly []Word, n int, tmp []Word) bool {
	v1, tmp = v1[:n+1], tmp[:n+1]

	v1[n] = arith.AddVV(v1[:n], coef(poly, 0, n, degree), coef(poly, 2, n, degree))
	for i := 4; i < degree; i += 2 {
		arith.Add(v1, v1, coef(poly, i, n, degree))
	}
	tmp[n] = arith.AddVV(tmp[:n], coef(poly, 1, n, degree), coef(poly, 3, n, degree))
	for i := 5; i < degree; i += 2 {
		arith.Add(tmp, tmp, coef(poly, i, n, degree))
	}
	if degree%2 == 0 {
		arith.Add(v1, v1, coef(poly, degree, n, degree))
	} else {
		arith.Add(tmp, tmp, coef(poly, degree, n, degree))
	}

	return absSubAdd(vm1[:n+1], v1, tmp)
}

// evalPolyPM2 evaluates a polynomial of degree 3 to _W-1 at 2 and -2 by
// Horner's rule on the even and odd coefficients separately.
func evalPolyPM2(v2, vm2 []Word, degree int, poly []Word, n int, tmp []Word) bool {
	v2, tmp = v2[:n+1], tmp[:n+1]
	top := coef(poly, degree, n, degree)
	nh := len(top)

	// Even coefficients into v2.
	lo := v2[:n]
	next := coef(poly, degree-2, n, degree)
	cy := arith.ShlVU(lo[:nh], top, 2)
	cy += arith.AddVV(lo[:nh], lo[:nh], next[:nh])
	if nh != n {
		cy = arith.AddVW(lo[nh:], next[nh:], cy)
	}
	for i := degree - 4; i >= 0; i -= 2 {
		cy = cy<<2 + arith.ShlVU(lo, lo, 2)
		cy += arith.AddVV(lo, lo, coef(poly, i, n, degree))
	}
	v2[n] = cy

	// Odd coefficients into tmp.
	lo = tmp[:n]
	cy = arith.ShlVU(lo, coef(poly, degree-1, n, degree), 2)
	cy += arith.AddVV(lo, lo, coef(poly, degree-3, n, degree))
	for i := degree - 5; i >= 0; i -= 2 {
		cy = cy<<2 + arith.ShlVU(lo, lo, 2)
		cy += arith.AddVV(lo, lo, coef(poly, i, n, degree))
	}
	tmp[n] = cy

	if degree%2 == 0 {
		arith.ShlVU(tmp, tmp, 1)
	} else {
		arith.ShlVU(v2, v2, 1)
	}

	neg := absSub(vm2[:n+1], v2, tmp)
	if degree%2 == 1 {
		neg = !neg
	}
	arith.AddVV(v2, v2, tmp)
	return neg
}

// evalPolyPM2Pow evaluates a polynomial at 2^shift and -2^shift, where
// shift*degree < _W. vm doubles as the temporary for the odd terms.
func evalPolyPM2Pow(v, vm []Word, degree int, poly []Word, n int, shift uint, tmp []Word) bool {
	v, tmp = v[:n+1], tmp[:n+1]
	top := coef(poly, degree, n, degree)
	nh := len(top)

	v[n] = arith.ShlVU(tmp[:n], coef(poly, 2, n, degree), 2*shift)
	v[n] += arith.AddVV(v[:n], coef(poly, 0, n, degree), tmp[:n])
	ls := 4 * shift
	for i := 4; i < degree; i += 2 {
		v[n] += arith.ShlVU(tmp[:n], coef(poly, i, n, degree), ls)
		v[n] += arith.AddVV(v[:n], v[:n], tmp[:n])
		ls += 2 * shift
	}

	tmp[n] = arith.ShlVU(tmp[:n], coef(poly, 1, n, degree), shift)
	ls = 3 * shift
	for i := 3; i < degree; i += 2 {
		tmp[n] += arith.ShlVU(vm[:n], coef(poly, i, n, degree), ls)
		tmp[n] += arith.AddVV(tmp[:n], tmp[:n], vm[:n])
		ls += 2 * shift
	}

	vm[nh] = arith.ShlVU(vm[:nh], top, uint(degree)*shift)
	if degree%2 == 0 {
		arith.Add(v, v, vm[:nh+1])
	} else {
		arith.Add(tmp, tmp, vm[:nh+1])
	}

	return absSubAdd(vm[:n+1], v, tmp)
}

// evalPolyPM2RPow evaluates a polynomial at 2^-shift and -2^-shift, both
// scaled by 2^(shift*degree) so that the values stay integral. vm doubles as
// the temporary for the shifted terms.
func evalPolyPM2RPow(v, vm []Word, degree int, poly []Word, n int, shift uint, tmp []Word) bool {
	v, tmp = v[:n+1], tmp[:n+1]
	d := uint(degree)

	v[n] = arith.ShlVU(v[:n], coef(poly, 0, n, degree), shift*d)
	tmp[n] = arith.ShlVU(tmp[:n], coef(poly, 1, n, degree), shift*(d-1))
	if degree%2 == 0 {
		arith.Add(v, v, coef(poly, degree, n, degree))
	} else {
		arith.Add(tmp, tmp, coef(poly, degree, n, degree))
		v[n] += arith.AddLsh(v[:n], coef(poly, degree-1, n, degree), shift, vm)
	}

	ls := shift * (d - 2)
	for i := 2; i < degree-1; i += 2 {
		v[n] += arith.AddLsh(v[:n], coef(poly, i, n, degree), ls, vm)
		ls -= shift
		tmp[n] += arith.AddLsh(tmp[:n], coef(poly, i+1, n, degree), ls, vm)
		ls -= shift
	}

	return absSubAdd(vm[:n+1], v, tmp)
}

// absSub sets z = |x - y| for equal-length x and y and reports whether
// x < y. Equal top limbs are skipped and the matching limbs of z zeroed.
func absSub(z, x, y []Word) bool {
	n := len(x)
	for n > 0 && x[n-1] == y[n-1] {
		n--
		z[n] = 0
	}
	if n == 0 {
		return false
	}
	if x[n-1] < y[n-1] {
		arith.SubVV(z[:n], y[:n], x[:n])
		return true
	}
	arith.SubVV(z[:n], x[:n], y[:n])
	return false
}

// absSubAdd sets diff = |x - y| and then x += y, reporting whether x was
// smaller than y.
func absSubAdd(diff, x, y []Word) bool {
	neg := absSub(diff, x, y)
	arith.AddVV(x, x, y)
	return neg
}
