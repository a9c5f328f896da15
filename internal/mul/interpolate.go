package mul

import (
	"math/bits"

	"github.com/agbru/bigmul/internal/arith"
)

// ─────────────────────────────────────────────────────────────────────────────
// Interpolation
// ─────────────────────────────────────────────────────────────────────────────
//
// Each routine recovers the product coefficients from the point values and
// adds them into place in the output. Intermediate values are exact, so
// every division below is an exact division and every shift drops only zero
// bits. Carries that provably cannot leave the output are not checked.

// interpolate5 finishes the five-point schemes (Toom-33 and Toom-42). On
// entry c holds v0 at c[:2k] and v1 at c[2k:4k+1], followed by vinf, whose
// low limb was overwritten by v1's top and is passed separately as vinf0.
// v2 and vm1 are 2k+1 limbs; twoR is the length of vinf.
func interpolate5(c, v2, vm1 []Word, k, twoR int, vm1Neg bool, vinf0 Word) {
	v2 = v2[:2*k+1]
	v1 := c[2*k : 4*k+1]

	// v2 = (v2 - vm1) / 3
	if vm1Neg {
		arith.AddVV(v2, v2, vm1)
	} else {
		arith.SubVV(v2, v2, vm1)
	}
	arith.DivExact3(v2)

	// vm1 = (v1 - vm1) / 2
	if vm1Neg {
		arith.AddVV(vm1, vm1, v1)
	} else {
		arith.SubVV(vm1, v1, vm1)
	}
	arith.ShrVU(vm1, vm1, 1)

	// v1 -= v0
	if arith.SubVV(c[2*k:4*k], c[2*k:4*k], c[:2*k]) != 0 {
		c[4*k]--
	}

	// v2 = (v2 - v1) / 2, v1 -= vm1
	arith.SubVV(v2, v2, v1)
	arith.ShrVU(v2, v2, 1)
	arith.SubVV(v1, v1, vm1)

	if arith.AddVV(c[k:3*k+1], c[k:3*k+1], vm1) != 0 {
		arith.AddVW(c[3*k+1:4*k+twoR], c[3*k+1:4*k+twoR], 1)
	}

	// v2 -= 2*vinf, with the true low limb of vinf restored for the duration.
	vinf := c[4*k : 4*k+twoR]
	saved := vinf[0]
	vinf[0] = vinf0
	cy := arith.ShlVU(vm1[:twoR], vinf, 1)
	cy += arith.SubVV(v2[:twoR], v2[:twoR], vm1[:twoR])
	arith.SubVW(v2[twoR:], v2[twoR:], cy)

	if twoR > k+1 {
		if arith.AddVV(c[4*k:5*k+1], c[4*k:5*k+1], v2[k:2*k+1]) != 0 {
			arith.AddVW(c[5*k+1:4*k+twoR], c[5*k+1:4*k+twoR], 1)
		}
	} else {
		arith.AddVV(c[4*k:4*k+twoR], c[4*k:4*k+twoR], v2[k:k+twoR])
	}

	b := arith.SubVV(c[2*k:2*k+twoR], c[2*k:2*k+twoR], c[4*k:4*k+twoR])
	vinf0 = c[4*k]
	c[4*k] = saved
	if b != 0 {
		arith.SubVW(c[2*k+twoR:4*k+1], c[2*k+twoR:4*k+1], 1)
	}
	if arith.SubVV(c[k:2*k], c[k:2*k], v2[:k]) != 0 {
		arith.SubVW(c[2*k:4*k+1], c[2*k:4*k+1], 1)
	}
	if arith.AddVV(c[3*k:4*k], c[3*k:4*k], v2[:k]) != 0 {
		c[4*k]++
	}
	arith.AddVW(c[4*k:4*k+twoR], c[4*k:4*k+twoR], vinf0)
}

// interpolate6 finishes Toom-43. On entry out holds v0 at out[:2n], v1 at
// out[2n:4n+1] and vinf at out[5n:5n+nHigh]; w4 is |vm1|, w2 is |vm2| and
// w1 is v2, each 2n+1 limbs.
func interpolate6(out []Word, n, nHigh int, w4Neg bool, w4 []Word, w2Neg bool, w2, w1 []Word) {
	m := 2*n + 1
	w5, w3 := out[:2*n], out[2*n:4*n+1]

	// w2 = (w1 - w2) / 4
	if w2Neg {
		arith.AddVV(w2, w2, w1)
	} else {
		arith.SubVV(w2, w1, w2)
	}
	arith.ShrVU(w2, w2, 2)

	// w1 = ((w1 - w5)/2 - w2) / 2
	if arith.SubVV(w1[:2*n], w1[:2*n], w5) != 0 {
		w1[2*n]--
	}
	arith.ShrVU(w1, w1, 1)
	arith.SubVV(w1, w1, w2)
	arith.ShrVU(w1, w1, 1)

	// w4 = (w3 - w4) / 2, w2 = (w2 - w4) / 3
	if w4Neg {
		arith.AddVV(w4, w4, w3)
	} else {
		arith.SubVV(w4, w3, w4)
	}
	arith.ShrVU(w4, w4, 1)
	arith.SubVV(w2, w2, w4)
	arith.DivExact3(w2)

	// w3 -= w4 + w5, w1 = (w1 - w3) / 3
	arith.SubVV(w3, w3, w4)
	if arith.SubVV(w3[:2*n], w3[:2*n], w5) != 0 {
		w3[2*n]--
	}
	arith.SubVV(w1, w1, w3)
	arith.DivExact3(w1)

	// Recomposition.
	if arith.AddVV(out[n:n+m], out[n:n+m], w4) != 0 {
		arith.AddVW(out[n+m:n+m+n], out[n+m:n+m+n], 1)
	}

	// w2 -= 4*vinf, reusing w4 for the shifted value.
	cy := arith.ShlVU(w4[:nHigh], out[5*n:5*n+nHigh], 2)
	cy += arith.SubVV(w2[:nHigh], w2[:nHigh], w4[:nHigh])
	arith.SubVW(w2[nHigh:], w2[nHigh:], cy)

	if arith.SubVV(out[n:2*n], out[n:2*n], w2[:n]) != 0 {
		arith.SubVW(out[2*n:2*n+m], out[2*n:2*n+m], 1)
	}

	carry1 := out[4*n] + arith.AddVV(out[3*n:4*n], out[3*n:4*n], w2[:n])

	cy = w2[2*n] + arith.AddVV(out[4*n:5*n], w1[:n], w2[n:2*n])
	arith.AddVW(w1[n:], w1[n:], cy)

	var carry2 Word
	if nHigh > n {
		carry2 = w1[2*n] + arith.AddVV(out[5*n:6*n], out[5*n:6*n], w1[n:2*n])
	} else {
		carry2 = arith.AddVV(out[5*n:5*n+nHigh], out[5*n:5*n+nHigh], w1[n:n+nHigh])
	}

	top := out[2*n : 5*n+nHigh]
	b := arith.SubOverlap(top, 2*n)

	// A sentinel top limb keeps the carry chains below from running off the
	// end; its true value is restored afterwards.
	last := len(top) - 1
	embankment := top[last] - 1
	top[last] = 1

	rest := out[3*n : 5*n+nHigh]
	if nHigh > n {
		if carry1 > carry2 {
			arith.AddVW(rest[n:], rest[n:], carry1-carry2)
		} else {
			arith.SubVW(rest[n:], rest[n:], carry2-carry1)
		}
		if b != 0 {
			arith.SubVW(rest[nHigh:], rest[nHigh:], 1)
		}
		arith.AddVW(rest[3*n:], rest[3*n:], carry2)
	} else {
		arith.AddVW(rest[n:], rest[n:], carry1)
		if b != 0 {
			carry2++
		}
		arith.SubVW(rest[nHigh:], rest[nHigh:], carry2)
	}
	rest[len(rest)-1] += embankment
}

// interpolate7 finishes the seven-point schemes (Toom-44 and Toom-53). On
// entry out holds v0 at out[:2n], v1 at out[2n:4n+1] and vinf at
// out[6n:6n+nHigh]. w1 is |vm2|, w3 is |vm1|, w4 is v2 and w5 is vh, each
// 2n+1 limbs; tmp needs 2n+1 limbs.
func interpolate7(out []Word, n, nHigh int, w1Neg bool, w1 []Word, w3Neg bool, w3, w4, w5, tmp []Word) {
	m := 2*n + 1
	w0, w2, w6 := out[:2*n], out[2*n:2*n+m], out[6*n:6*n+nHigh]

	arith.AddVV(w5, w5, w4)
	if w1Neg {
		arith.AddVV(w1, w1, w4)
	} else {
		arith.SubVV(w1, w4, w1)
	}
	arith.ShrVU(w1, w1, 1)

	// w4 = (w4 - w0 - w1)/4 - 16*w6
	arith.Sub(w4, w4, w0)
	arith.SubVV(w4, w4, w1)
	arith.ShrVU(w4, w4, 2)
	tmp[nHigh] = arith.ShlVU(tmp[:nHigh], w6, 4)
	arith.Sub(w4, w4, tmp[:nHigh+1])

	if w3Neg {
		arith.AddVV(w3, w3, w2)
	} else {
		arith.SubVV(w3, w2, w3)
	}
	arith.ShrVU(w3, w3, 1)
	arith.SubVV(w2, w2, w3)

	// w5 = (w5 - 65*w2 + 45*(w2 - w6 - w0)) / 2
	arith.SubMulVVW(w5, w2, 65)
	arith.Sub(w2, w2, w6)
	arith.Sub(w2, w2, w0)
	arith.AddMulVVW(w5, w2, 45)
	arith.ShrVU(w5, w5, 1)

	arith.SubVV(w4, w4, w2)
	arith.DivExact3(w4)
	arith.SubVV(w2, w2, w4)

	// w1 = w5 - w1, w5 = (w5 - 8*w3) / 9
	arith.SubVV(w1, w5, w1)
	arith.ShlVU(tmp[:m], w3, 3)
	arith.SubVV(w5, w5, tmp[:m])
	arith.DivExactVW(w5, 9)
	arith.SubVV(w3, w3, w5)

	// w1 = (w1/15 + w5) / 2, w5 -= w1
	arith.DivExactVW(w1, 15)
	arith.AddVV(w1, w1, w5)
	arith.ShrVU(w1, w1, 1)
	arith.SubVV(w5, w5, w1)

	// Recomposition. w2 is already in place.
	if arith.AddVV(out[n:n+m], out[n:n+m], w1) != 0 {
		arith.AddVW(out[n+m:n+m+n], out[n+m:n+m+n], 1)
	}

	addend := out[4*n] + arith.AddVV(out[3*n:4*n], out[3*n:4*n], w3[:n])
	arith.AddVW(w3[n:], w3[n:], addend)

	addend = w3[2*n] + arith.AddVV(out[4*n:5*n], w3[n:2*n], w4[:n])
	arith.AddVW(w4[n:], w4[n:], addend)

	addend = w4[2*n] + arith.AddVV(out[5*n:6*n], w4[n:2*n], w5[:n])
	arith.AddVW(w5[n:], w5[n:], addend)

	if nHigh > n+1 {
		arith.Add(w6, w6, w5[n:])
	} else {
		arith.AddVV(w6, w6, w5[n:n+nHigh])
	}
}

// interpolate8 finishes Toom-63. On entry out holds r8 = v0 at out[:2n], the
// coupled value r5 at out[3n:6n+1] and r1 = vinf at out[7n:7n+sPlusT]; r3
// and r7 are the other coupled values, 3n+1 limbs each, and tmp also needs
// 3n+1 limbs.
func interpolate8(out []Word, n, sPlusT int, r3, r7, tmp []Word) {
	m := 3*n + 1
	lo := out[:2*n]
	r5 := out[3*n : 7*n]
	r5lo := r5[:m]
	r1 := out[7*n : 7*n+sPlusT]

	subRsh(r3[n:], lo, 4, tmp)
	cy := arith.SubLsh(r3, r1, 12, tmp)
	arith.SubVW(r3[sPlusT:], r3[sPlusT:], cy)

	subRsh(r5lo[n:], lo, 2, tmp)
	cy = arith.SubLsh(r5lo, r1, 6, tmp)
	arith.SubVW(r5lo[sPlusT:], r5lo[sPlusT:], cy)

	if arith.SubVV(r7[n:3*n], r7[n:3*n], lo) != 0 {
		r7[3*n]--
	}
	if arith.SubVV(r7[:sPlusT], r7[:sPlusT], r1) != 0 {
		arith.SubVW(r7[sPlusT:], r7[sPlusT:], 1)
	}

	arith.SubVV(r3, r3, r5lo)
	arith.ShrVU(r3, r3, 2)
	arith.SubVV(r5lo, r5lo, r7)
	arith.SubVV(r3, r3, r5lo)
	arith.DivExactVW(r3, 45)
	arith.DivExact3(r5lo)
	arith.SubLsh(r5lo, r3, 2, tmp)

	// Recomposition.
	r50, r51, r52 := r5lo[:n], r5lo[n:2*n], r5lo[2*n:3*n]

	o := out[n : 2*n]
	c1 := arith.AddVV(o, o, r7[:n])
	c2 := arith.SubVV(o, o, r50)
	switch {
	case c1 != 0 && c2 == 0:
		arith.AddVW(r7[n:], r7[n:], 1)
	case c1 == 0 && c2 != 0:
		arith.SubVW(r7[n:], r7[n:], 1)
	}

	if arith.SubVV(out[2*n:3*n], r7[n:2*n], r51) != 0 {
		arith.SubVW(r7[2*n:], r7[2*n:], 1)
	}

	if arith.AddVV(r52, r52, r3[:n]) != 0 {
		r5lo[3*n]++
	}
	r3 = r3[n:]

	c1 = arith.AddVV(r5lo[:n+1], r5lo[:n+1], r7[2*n:3*n+1])
	c2 = arith.SubVV(r5lo[:n+1], r5lo[:n+1], r5lo[2*n:3*n+1])
	switch {
	case c1 != 0 && c2 == 0:
		arith.AddVW(r5lo[n+1:], r5lo[n+1:], 1)
	case c1 == 0 && c2 != 0:
		arith.SubVW(r5lo[n+1:], r5lo[n+1:], 1)
	}
	arith.SubVV(r5lo[n:], r5lo[n:], r3)

	r53n := r5[3*n]
	if arith.AddVW(r5[3*n:4*n], r3[:n], r53n) != 0 {
		arith.AddVW(r3[n:], r3[n:], 1)
	}
	r3 = r3[n:]

	r3n := r3[n] + arith.AddVV(r1[:n], r1[:n], r3[:n])
	if sPlusT != n {
		arith.AddVW(r1[n:], r1[n:], r3n)
	}
}

// interpolate12 finishes Toom-6h. On entry out holds r6 = v0 at out[:2n],
// the coupled values r4 at out[3n:6n+1] and r2 at out[7n:10n+1], and, when
// half is set, r0 = vinf at out[11n:11n+sPlusT]. r1, r3 and r5 are the
// other coupled values, 3n+1 limbs each; tmp needs 3n+1 limbs.
//
// Intermediate values may go negative and are then held in two's
// complement over their 3n+1 limbs.
func interpolate12(out []Word, n, sPlusT int, half bool, r1, r3, r5, tmp []Word) {
	m := 3*n + 1
	lo := out[:2*n]
	r4 := out[3*n : 3*n+m]
	r2 := out[7*n : 7*n+m]

	if half {
		r0 := out[11*n : 11*n+sPlusT]
		if arith.SubVV(r3[:sPlusT], r3[:sPlusT], r0) != 0 {
			arith.SubVW(r3[sPlusT:], r3[sPlusT:], 1)
		}
		cy := arith.SubLsh(r2, r0, 10, tmp)
		arith.SubVW(r2[sPlusT:], r2[sPlusT:], cy)
		subRsh(r5, r0, 2, tmp)
		cy = arith.SubLsh(r1, r0, 20, tmp)
		arith.SubVW(r1[sPlusT:], r1[sPlusT:], cy)
		subRsh(r4, r0, 4, tmp)
	}

	r4[m-1] -= arith.SubLsh(r4[n:], lo, 20, tmp)
	subRsh(r1[n:], lo, 4, tmp)
	arith.AddVV(tmp[:m], r1, r4)
	arith.SubVV(r4, r4, r1)
	r1, tmp = tmp[:m], r1

	r5[m-1] -= arith.SubLsh(r5[n:], lo, 10, tmp)
	subRsh(r2[n:], lo, 2, tmp)
	arith.SubVV(tmp[:m], r5, r2)
	arith.AddVV(r2, r2, r5)
	r5, tmp = tmp[:m], r5

	if arith.SubVV(r3[n:m-1], r3[n:m-1], lo) != 0 {
		r3[m-1]--
	}

	// r4 = (r4 - 257*r5) / 11340, sign-extended over the bits the shift
	// cleared.
	arith.SubMulVVW(r4, r5, 257)
	arith.DivExactVW(r4, 2835<<2)
	if bits.LeadingZeros(uint(r4[m-1])) < 3 {
		r4[m-1] |= ^Word(0) << (_W - 2)
	}
	arith.AddMulVVW(r5, r4, 60)
	arith.DivExactVW(r5, 255)

	arith.SubLsh(r2, r3, 5, tmp)
	arith.SubMulVVW(r1, r2, 100)
	arith.SubLsh(r1, r3, 9, tmp)
	arith.DivExactVW(r1, 42525)
	arith.SubMulVVW(r2, r1, 225)
	arith.DivExactVW(r2, 9<<2)
	arith.SubVV(r3, r3, r2)

	arith.SubVV(r4, r2, r4)
	arith.ShrVU(r4, r4, 1)
	arith.SubVV(r2, r2, r4)

	arith.AddVV(r5, r5, r1)
	arith.ShrVU(r5, r5, 1)
	arith.SubVV(r3, r3, r1)
	arith.SubVV(r1, r1, r5)

	// Recomposition: r5, r3 and r1 are added at n, 5n and 9n.
	if arith.AddVV(out[n:2*n], out[n:2*n], r5[:n]) != 0 {
		if arith.AddVW(out[2*n:3*n], r5[n:2*n], 1) != 0 {
			arith.AddVW(r5[2*n:], r5[2*n:], 1)
		}
	} else {
		copy(out[2*n:3*n], r5[n:2*n])
	}
	cy := r5[3*n] + arith.AddVV(out[3*n:4*n], out[3*n:4*n], r5[2*n:3*n])
	arith.AddVW(out[4*n:6*n+1], out[4*n:6*n+1], cy)

	addCoupled(out[5*n:], r3, n)
	arith.AddVW(out[8*n:10*n+1], out[8*n:10*n+1], r3[3*n])

	addTop(out[9*n:], r1, n, sPlusT, half)
}

// interpolate16 finishes Toom-8h. On entry out holds r8 = v0 at out[:2n],
// the coupled values r6 at out[3n:6n+1], r4 at out[7n:10n+1] and r2 at
// out[11n:14n+1], and, when half is set, r0 = vinf at out[15n:15n+sPlusT].
// r1, r3, r5 and r7 are the other coupled values, 3n+1 limbs each; tmp
// needs 3n+1 limbs. The shifts below assume 64-bit words.
func interpolate16(out []Word, n, sPlusT int, half bool, r1, r3, r5, r7, tmp []Word) {
	m := 3*n + 1
	lo := out[:2*n]
	r6 := out[3*n : 3*n+m]
	r4 := out[7*n : 7*n+m]
	r2 := out[11*n : 11*n+m]

	if half {
		r0 := out[15*n : 15*n+sPlusT]
		if arith.SubVV(r4[:sPlusT], r4[:sPlusT], r0) != 0 {
			arith.SubVW(r4[sPlusT:], r4[sPlusT:], 1)
		}
		cy := arith.SubLsh(r3, r0, 14, tmp)
		arith.SubVW(r3[sPlusT:], r3[sPlusT:], cy)
		subRsh(r6, r0, 2, tmp)
		cy = arith.SubLsh(r2, r0, 28, tmp)
		arith.SubVW(r2[sPlusT:], r2[sPlusT:], cy)
		subRsh(r5, r0, 4, tmp)
		cy = arith.SubLsh(r1, r0, 42, tmp)
		arith.SubVW(r1[sPlusT:], r1[sPlusT:], cy)
		subRsh(r7, r0, 6, tmp)
	}

	r5[m-1] -= arith.SubLsh(r5[n:], lo, 28, tmp)
	subRsh(r2[n:], lo, 4, tmp)
	arith.SubVV(tmp[:m], r5, r2)
	arith.AddVV(r2, r2, r5)
	r5, tmp = tmp[:m], r5

	r6[m-1] -= arith.SubLsh(r6[n:], lo, 14, tmp)
	subRsh(r3[n:], lo, 2, tmp)
	arith.AddVV(tmp[:m], r3, r6)
	arith.SubVV(r6, r6, r3)
	r3, tmp = tmp[:m], r3

	r7[m-1] -= arith.SubLsh(r7[n:], lo, 42, tmp)
	subRsh(r1[n:], lo, 6, tmp)
	arith.SubVV(tmp[:m], r7, r1)
	arith.AddVV(r1, r1, r7)
	r7, tmp = tmp[:m], r7

	if arith.SubVV(r4[n:m-1], r4[n:m-1], lo) != 0 {
		r4[m-1]--
	}

	arith.SubMulVVW(r5, r6, 1028)
	arith.SubMulVVW(r7, r5, 1300)
	arith.SubMulVVW(r7, r6, 1<<4|1<<12|1<<20)
	arith.DivExactVW(r7, 188513325)
	arith.DivExactVW(r7, 255)

	// Both divisions by 2835*64 and 255*4 act on values that can be
	// negative, so the bits cleared by the shift are restored.
	arith.SubMulVVW(r5, r7, 12567555)
	arith.DivExactVW(r5, 2835<<6)
	if bits.LeadingZeros(uint(r5[m-1])) < 7 {
		r5[m-1] |= ^Word(0) << (_W - 6)
	}
	arith.SubMulVVW(r6, r7, 4095)
	arith.AddMulVVW(r6, r5, 240)
	arith.DivExactVW(r6, 255<<2)
	if bits.LeadingZeros(uint(r6[m-1])) < 3 {
		r6[m-1] |= ^Word(0) << (_W - 2)
	}

	arith.SubLsh(r3, r4, 7, tmp)
	arith.SubLsh(r2, r4, 13, tmp)
	arith.SubMulVVW(r2, r3, 400)
	arith.SubLsh(r1, r4, 19, tmp)
	arith.SubMulVVW(r1, r2, 1428)
	arith.SubMulVVW(r1, r3, 112896)
	arith.DivExactVW(r1, 182712915)
	arith.DivExactVW(r1, 255)
	arith.SubMulVVW(r2, r1, 15181425)
	arith.DivExactVW(r2, 42525<<4)
	arith.SubMulVVW(r3, r1, 3969)
	arith.SubMulVVW(r3, r2, 900)
	arith.DivExactVW(r3, 9<<4)

	arith.SubVV(r4, r4, r1)
	arith.SubVV(r4, r4, r3)
	arith.SubVV(r4, r4, r2)
	arith.AddVV(r6, r6, r2)
	arith.ShrVU(r6, r6, 1)
	arith.SubVV(r2, r2, r6)
	arith.SubVV(r5, r3, r5)
	arith.ShrVU(r5, r5, 1)
	arith.SubVV(r3, r3, r5)
	arith.AddVV(r7, r7, r1)
	arith.ShrVU(r7, r7, 1)
	arith.SubVV(r1, r1, r7)

	// Recomposition: r7, r5, r3 and r1 are added at n, 5n, 9n and 13n.
	if arith.AddVV(out[n:2*n], out[n:2*n], r7[:n]) != 0 {
		if arith.AddVW(out[2*n:3*n], r7[n:2*n], 1) != 0 {
			arith.AddVW(r7[2*n:], r7[2*n:], 1)
		}
	} else {
		copy(out[2*n:3*n], r7[n:2*n])
	}
	cy := r7[3*n] + arith.AddVV(out[3*n:4*n], out[3*n:4*n], r7[2*n:3*n])
	arith.AddVW(out[4*n:], out[4*n:], cy)

	addCoupled(out[5*n:], r5, n)
	arith.AddVW(out[8*n:], out[8*n:], r5[3*n])

	addCoupled(out[9*n:], r3, n)
	arith.AddVW(out[12*n:], out[12*n:], r3[3*n])

	addTop(out[13*n:], r1, n, sPlusT, half)
}

// addCoupled adds the low 3n limbs of a (3n+1)-limb value r into out, whose
// limb n already holds the top of a previous value. The carry out of the
// third block is folded into r[3n], which the caller adds next.
func addCoupled(out, r []Word, n int) {
	if arith.AddVV(out[:n], out[:n], r[:n]) != 0 {
		out[n]++
	}
	if arith.AddVW(out[n:2*n], r[n:2*n], out[n]) != 0 {
		arith.AddVW(r[2*n:], r[2*n:], 1)
	}
	if arith.AddVV(out[2*n:3*n], out[2*n:3*n], r[2*n:3*n]) != 0 {
		r[3*n]++
	}
}

// addTop adds the last coupled value r1 at out, which ends sPlusT limbs
// past 2n when half is set and sPlusT limbs past n otherwise.
func addTop(out, r1 []Word, n, sPlusT int, half bool) {
	if arith.AddVV(out[:n], out[:n], r1[:n]) != 0 {
		out[n]++
	}
	first := out[n]
	if !half {
		arith.AddVW(out[n:n+sPlusT], r1[n:n+sPlusT], first)
		return
	}
	if arith.AddVW(out[n:2*n], r1[n:2*n], first) != 0 {
		arith.AddVW(r1[2*n:], r1[2*n:], 1)
	}
	if sPlusT > n {
		cy := r1[3*n] + arith.AddVV(out[2*n:3*n], out[2*n:3*n], r1[2*n:3*n])
		arith.AddVW(out[3*n:2*n+sPlusT], out[3*n:2*n+sPlusT], cy)
		return
	}
	arith.AddVV(out[2*n:2*n+sPlusT], out[2*n:2*n+sPlusT], r1[2*n:2*n+sPlusT])
}

// toomCouple turns the product pair at h and -h into their even and odd
// parts: x receives (x + y)/2 >> xShift and the odd part (x - y)/2 >> yShift
// is added in at offset limbs. y has n limbs and x at least n+offset.
func toomCouple(x, y []Word, yNeg bool, offset int, xShift, yShift uint) {
	n := len(y)
	xLo, xHi := x[:n], x[n:]
	if yNeg {
		arith.SubVV(y, xLo, y)
	} else {
		arith.AddVV(y, y, xLo)
	}
	arith.ShrVU(y, y, 1)
	arith.SubVV(xLo, xLo, y)
	if xShift != 0 {
		arith.ShrVU(xLo, xLo, xShift)
	}
	if yShift != 0 {
		arith.ShrVU(y, y, yShift)
	}
	yLo, yHi := y[:n-offset], y[n-offset:]
	if arith.AddVV(xLo[offset:], xLo[offset:], yLo) != 0 {
		arith.AddVW(xHi[:offset], yHi, 1)
	} else {
		copy(xHi[:offset], yHi)
	}
}

// subRsh computes x -= y >> s for 0 < s < _W. tmp needs len(y)-1 limbs.
func subRsh(x, y []Word, s uint, tmp []Word) {
	arith.SubVW(x, x, y[0]>>s)
	cy := arith.SubLsh(x, y[1:], _W-s, tmp)
	tail := x[len(y)-1:]
	arith.SubVW(tail, tail, cy)
}
