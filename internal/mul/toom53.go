package mul

import "github.com/agbru/bigmul/internal/arith"

// toom53 multiplies a by b into out[:an+bn] with the Toom-53 scheme: a is
// split in five, b in three, and the product is evaluated at 0, 1, -1, 2,
// -2, 1/2 and infinity.
//
//	<-s--><--n--><--n--><--n--><--n-->
//	 ____ ______ ______ ______ ______
//	|_a4_|__a3__|__a2__|__a1__|__a0__|
//	               |_b2_|__b1__|__b0__|
//	               <-t--><--n--><--n-->
//
// The ten evaluated operands, n+1 limbs each, occupy the first 10n+10
// limbs of scratch; the products v2, vm2, vh and vm1 follow them.
func (mp *Multiplier) toom53(out, a, b, scratch []Word) {
	an, bn := len(a), len(b)
	n := toom53Split(an, bn)
	s := an - 4*n
	t := bn - 2*n
	if an < bn || s <= 0 || s > n || t <= 0 || t > n {
		panic("mul.toom53: operand sizes out of range")
	}
	out = out[:an+bn]
	a0, a1, a2, a3, a4 := a[:n], a[n:2*n], a[2*n:3*n], a[3*n:4*n], a[4*n:]
	b0, b1, b2 := b[:n], b[n:2*n], b[2*n:]

	k := n + 1
	work, rest := scratch[:18*n+15], scratch[18*n+15:]
	ev, prod := work[:10*k], work[10*k:]
	as1, asm1, as2, asm2, ash := ev[:k], ev[k:2*k], ev[2*k:3*k], ev[3*k:4*k], ev[4*k:5*k]
	bs1, bsm1, bs2, bsm2, bsh := ev[5*k:6*k], ev[6*k:7*k], ev[7*k:8*k], ev[8*k:9*k], ev[9*k:10*k]
	tmp := out[:k]

	neg1 := evalPolyPM1(as1, asm1, 4, a, n, tmp)
	neg2 := evalPolyPM2(as2, asm2, 4, a, n, tmp)

	// ash = (((2a0 + a1)*2 + a2)*2 + a3)*2 + a4
	lo := ash[:n]
	cy := arith.ShlVU(lo, a0, 1)
	cy += arith.AddVV(lo, lo, a1)
	cy = cy<<1 + arith.ShlVU(lo, lo, 1)
	cy += arith.AddVV(lo, lo, a2)
	cy = cy<<1 + arith.ShlVU(lo, lo, 1)
	cy += arith.AddVV(lo, lo, a3)
	cy = cy<<1 + arith.ShlVU(lo, lo, 1)
	cy += arith.Add(lo, lo, a4)
	ash[n] = cy

	// bs1 = b0 + b1 + b2, bsm1 = |b0 - b1 + b2|
	bs1[n] = arith.Add(bs1[:n], b0, b2)
	if bs1[n] == 0 && arith.Cmp(bs1[:n], b1) < 0 {
		arith.SubVV(bsm1[:n], b1, bs1[:n])
		bsm1[n] = 0
		neg1 = !neg1
	} else {
		bsm1[n] = bs1[n] - arith.SubVV(bsm1[:n], bs1[:n], b1)
	}
	bs1[n] += arith.AddVV(bs1[:n], bs1[:n], b1)

	// bs2 = b0 + 2b1 + 4b2, bsm2 = |b0 - 2b1 + 4b2|
	cy = arith.ShlVU(tmp[:t], b2, 2)
	bs2[n] = arith.Add(bs2[:n], b0, tmp[:t])
	arith.AddVW(bs2[t:], bs2[t:], cy)
	tmp[n] = arith.ShlVU(tmp[:n], b1, 1)
	if arith.Cmp(bs2, tmp) < 0 {
		arith.SubVV(bsm2, tmp, bs2)
		neg2 = !neg2
	} else {
		arith.SubVV(bsm2, bs2, tmp)
	}
	arith.AddVV(bs2, bs2, tmp)

	// bsh = (2b0 + b1)*2 + b2
	lo = bsh[:n]
	cy = arith.ShlVU(lo, b0, 1)
	cy += arith.AddVV(lo, lo, b1)
	cy = cy<<1 + arith.ShlVU(lo, lo, 1)
	cy += arith.Add(lo, lo, b2)
	bsh[n] = cy

	m := 2*n + 1
	mp.mulN(prod[:2*k], as2, bs2, rest)
	mp.mulN(prod[m:m+2*k], asm2, bsm2, rest)
	mp.mulN(prod[2*m:2*m+2*k], ash, bsh, rest)

	// vm1 and v1 recurse on the n low limbs and fold the top limbs back.
	vm1 := prod[3*m : 4*m]
	mp.mulN(vm1[:2*n], asm1[:n], bsm1[:n], rest)
	vmid := vm1[n : 2*n]
	cy = 0
	switch asm1[n] {
	case 1:
		cy = bsm1[n] + arith.AddVV(vmid, vmid, bsm1[:n])
	case 2:
		cy = bsm1[n]<<1 + arith.AddMulVVW(vmid, bsm1[:n], 2)
	}
	if bsm1[n] != 0 {
		cy += arith.AddVV(vmid, vmid, asm1[:n])
	}
	vm1[2*n] = cy

	mp.mulN(out[2*n:4*n], as1[:n], bs1[:n], rest)
	v1mid := out[3*n : 4*n]
	cy = 0
	switch as1[n] {
	case 0:
	case 1:
		cy = bs1[n] + arith.AddVV(v1mid, v1mid, bs1[:n])
	default:
		cy = as1[n]*bs1[n] + arith.AddMulVVW(v1mid, bs1[:n], as1[n])
	}
	switch bs1[n] {
	case 1:
		cy += arith.AddVV(v1mid, v1mid, as1[:n])
	case 2:
		cy += arith.AddMulVVW(v1mid, as1[:n], 2)
	}
	out[4*n] = cy

	mp.mulN(out[:2*n], a0, b0, rest)
	mp.mulAny(out[6*n:], a4, b2, rest)

	interpolate7(out, n, s+t, neg2, prod[m:2*m], neg1, vm1,
		prod[:m], prod[2*m:3*m], ev)
}
