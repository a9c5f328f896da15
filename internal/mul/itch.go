package mul

// Scratch sizes. Each function returns the number of scratch limbs the
// matching engine needs for an an x bn product, including everything its
// recursive products need. They follow the engines' splitting exactly, so
// the dispatcher can size one buffer for a whole call tree.

// mulNItch returns the scratch needed by mulN for two n-limb operands.
func (mp *Multiplier) mulNItch(n int) int {
	switch {
	case n < mp.th.Toom22:
		return 0
	case n < mp.th.Toom33:
		return mp.toom22Itch(n, n)
	case n < mp.th.Toom44:
		return mp.toom33Itch(n, n)
	case n < mp.th.Toom6H || !toom6hValid(n, n):
		return mp.toom44Itch(n, n)
	case n < mp.th.Toom8H || !toom8hValid(n, n):
		return mp.toom6hItch(n, n)
	default:
		return mp.toom8hItch(n, n)
	}
}

// mulItch returns the scratch needed by mulGreater (an >= bn).
func (mp *Multiplier) mulItch(an, bn int) int {
	th := &mp.th
	if an == bn {
		return mp.mulNItch(an)
	}
	switch {
	case bn < th.Toom22:
		return 0
	case bn < th.Toom33:
		if an >= 3*bn {
			x := an - 2*bn
			for x >= 3*bn {
				x -= 2 * bn
			}
			var tail int
			switch {
			case 4*x < 5*bn:
				tail = mp.toom22Itch(x, bn)
			case 4*x < 7*bn:
				tail = mp.toom32Itch(x, bn)
			default:
				tail = mp.toom42Itch(x, bn)
			}
			return max(mp.toom42Itch(2*bn, bn), tail) + 4*bn
		}
		switch {
		case 4*an < 5*bn:
			return mp.toom22Itch(an, bn)
		case 4*an < 7*bn:
			return mp.toom32Itch(an, bn)
		default:
			return mp.toom42Itch(an, bn)
		}
	case bn < th.Toom44 || !toom44OK(an, bn):
		switch {
		case 2*an >= 5*bn:
			first := mp.toom42Itch(2*bn, bn)
			if bn >= th.Toom42To63 {
				first = mp.toom63Itch(2*bn, bn)
			}
			x := an - 2*bn
			for 2*x >= 5*bn {
				x -= 2 * bn
			}
			return max(first, mp.mulAnyItch(x, bn)) + 4*bn
		case 6*an < 7*bn:
			return mp.toom33Itch(an, bn)
		case 2*an < 3*bn:
			if bn < th.Toom32To43 {
				return mp.toom32Itch(an, bn)
			}
			return mp.toom43Itch(an, bn)
		case 6*an < 11*bn:
			if 4*an < 7*bn {
				if bn < th.Toom32To53 {
					return mp.toom32Itch(an, bn)
				}
				return mp.toom53Itch(an, bn)
			}
			if bn < th.Toom42To53 {
				return mp.toom42Itch(an, bn)
			}
			return mp.toom53Itch(an, bn)
		case bn < th.Toom42To63:
			return mp.toom42Itch(an, bn)
		default:
			return mp.toom63Itch(an, bn)
		}
	case bn < th.Toom6H || !toom6hValid(an, bn):
		return mp.toom44Itch(an, bn)
	case bn < th.Toom8H || !toom8hValid(an, bn):
		return mp.toom6hItch(an, bn)
	default:
		return mp.toom8hItch(an, bn)
	}
}

// mulAnyItch is mulItch for operands in either order.
func (mp *Multiplier) mulAnyItch(an, bn int) int {
	if an >= bn {
		return mp.mulItch(an, bn)
	}
	return mp.mulItch(bn, an)
}

// ─────────────────────────────────────────────────────────────────────────────
// Per-engine scratch sizes
// ─────────────────────────────────────────────────────────────────────────────

func (mp *Multiplier) toom22Itch(an, bn int) int {
	s := an >> 1
	n := an - s
	t := bn - n
	var hi int
	if s > t {
		hi = mp.toom22RecGreaterItch(s, t)
	} else {
		hi = mp.toom22RecNItch(s)
	}
	return 2*n + max(mp.toom22RecNItch(n), hi)
}

func (mp *Multiplier) toom32Itch(an, bn int) int {
	n := toom32Split(an, bn)
	s := an - 2*n
	t := bn - n
	return 2*n + 1 + max(mp.mulNItch(n), mp.mulAnyItch(s, t))
}

func (mp *Multiplier) toom33Itch(an, bn int) int {
	n := ceilDiv(an, 3)
	m := n + 1
	s := an - 2*n
	t := bn - 2*n
	var hi int
	if s > t {
		hi = mp.mulItch(s, t)
	} else {
		hi = mp.toom33RecItch(s)
	}
	return 5*m + max(mp.toom33RecItch(m), mp.toom33RecItch(n), hi)
}

func (mp *Multiplier) toom42Itch(an, bn int) int {
	n := toom42Split(an, bn)
	s := an - 3*n
	t := bn - n
	return 10*n + 8 + max(mp.mulNItch(n), mp.mulNItch(n+1), mp.mulAnyItch(s, t))
}

func (mp *Multiplier) toom43Itch(an, bn int) int {
	n := toom43Split(an, bn)
	s := an - 3*n
	t := bn - 2*n
	return 6*n + 4 + max(mp.mulNItch(n), mp.mulNItch(n+1), mp.mulAnyItch(s, t))
}

func (mp *Multiplier) toom44Itch(an, bn int) int {
	n := ceilDiv(an, 4)
	s := an - 3*n
	t := bn - 3*n
	var hi int
	if s > t {
		hi = mp.mulItch(s, t)
	} else {
		hi = mp.mulNItch(s)
	}
	products := 9*n + 6 + max(mp.mulNItch(n), mp.mulNItch(n+1), hi)
	interp := 8*n + 6 + max(2*n, s+t)
	return max(products, interp)
}

func (mp *Multiplier) toom53Itch(an, bn int) int {
	n := toom53Split(an, bn)
	s := an - 4*n
	t := bn - 2*n
	return 18*n + 15 + max(mp.mulNItch(n), mp.mulNItch(n+1), mp.mulAnyItch(s, t))
}

func (mp *Multiplier) toom63Itch(an, bn int) int {
	n := toom63Split(an, bn)
	s := an - 5*n
	t := bn - 2*n
	return 9*n + 3 + max(mp.mulNItch(n), mp.mulNItch(n+1), mp.mulAnyItch(s, t))
}

func (mp *Multiplier) toom6hItch(an, bn int) int {
	n, p, q, half := toom6hSplit(an, bn)
	need := max(3*n-1, mp.mulNItch(n), mp.mulNItch(n+1))
	if half {
		need = max(need, mp.mulAnyItch(an-p*n, bn-q*n))
	}
	return 10*n + 4 + need
}

func (mp *Multiplier) toom8hItch(an, bn int) int {
	n, p, q, half := toom8hSplit(an, bn)
	need := max(3*n+1, mp.mulNItch(n), mp.mulNItch(n+1))
	if half {
		need = max(need, mp.mulAnyItch(an-p*n, bn-q*n))
	}
	return 13*n + 5 + need
}

// ─────────────────────────────────────────────────────────────────────────────
// Block sizes
// ─────────────────────────────────────────────────────────────────────────────

func toom32Split(an, bn int) int {
	if 2*an >= 3*bn {
		return 1 + (an-1)/3
	}
	return 1 + (bn-1)>>1
}

func toom42Split(an, bn int) int {
	if an >= 2*bn {
		return (an + 3) >> 2
	}
	return (bn + 1) >> 1
}

func toom43Split(an, bn int) int {
	if 3*an >= 4*bn {
		return 1 + (an-1)>>2
	}
	return 1 + (bn-1)/3
}

func toom53Split(an, bn int) int {
	if 3*an >= 5*bn {
		return 1 + (an-1)/5
	}
	return 1 + (bn-1)/3
}

func toom63Split(an, bn int) int {
	if an >= 2*bn {
		return 1 + (an-1)/6
	}
	return 1 + (bn-1)/3
}
