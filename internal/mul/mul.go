// Package mul implements multi-limb multiplication of natural numbers: the
// schoolbook basecase, the Toom-Cook engines (22, 32, 33, 42, 43, 44, 53, 63,
// 6h and 8h) and the size-driven dispatcher that picks between them.
//
// Operands are little-endian slices of arith.Word. A product of an an-limb
// and a bn-limb number always occupies exactly an+bn limbs; the top limb may
// be zero and is never trimmed. The engines are sequential and never
// allocate: every temporary lives in a caller-provided scratch slice sized by
// the matching itch function.
package mul

import (
	"fmt"
	"math/bits"

	"github.com/agbru/bigmul/internal/arith"
	"github.com/agbru/bigmul/internal/config"
)

// Word is a single limb.
type Word = arith.Word

// _W is the size in bits of a Word.
const _W = bits.UintSize

// ─────────────────────────────────────────────────────────────────────────────
// Multiplier
// ─────────────────────────────────────────────────────────────────────────────

// Multiplier dispatches products to the engines according to an immutable
// set of thresholds. It holds no mutable state and is safe for concurrent use.
type Multiplier struct {
	th config.Thresholds

	// Operands shorter than this many limbs are never split across
	// goroutines by MulConcurrent.
	parallelThreshold int
}

// Option configures a Multiplier.
type Option func(*Multiplier)

// WithParallelThreshold sets the smallest operand length, in limbs, that
// MulConcurrent splits across goroutines.
func WithParallelThreshold(limbs int) Option {
	return func(mp *Multiplier) {
		if limbs > 0 {
			mp.parallelThreshold = limbs
		}
	}
}

// DefaultParallelThreshold is the operand length from which MulConcurrent
// forks its top-level products.
const DefaultParallelThreshold = config.DefaultParallelThreshold

// New builds a Multiplier from th after validating it.
//
// Parameters:
//   - th: The dispatch thresholds; see config.Thresholds.Validate.
//   - opts: Optional settings.
//
// Returns:
//   - *Multiplier: The multiplier.
//   - error: An apperrors.ConfigError if th would drive an engine outside its
//     domain.
func New(th config.Thresholds, opts ...Option) (*Multiplier, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	mp := &Multiplier{th: th, parallelThreshold: DefaultParallelThreshold}
	for _, opt := range opts {
		opt(mp)
	}
	return mp, nil
}

var std = func() *Multiplier {
	mp, err := New(config.DefaultThresholds())
	if err != nil {
		panic(err)
	}
	return mp
}()

// Default returns the Multiplier built from the platform default thresholds.
func Default() *Multiplier { return std }

// Thresholds returns the thresholds mp dispatches with.
func (mp *Multiplier) Thresholds() config.Thresholds { return mp.th }

// ─────────────────────────────────────────────────────────────────────────────
// Public entry points
// ─────────────────────────────────────────────────────────────────────────────

// Mul sets out = a*b using the default thresholds. It requires
// len(a) >= len(b) >= 1 and len(out) == len(a)+len(b), and panics otherwise.
func Mul(out, a, b []Word) { std.Mul(out, a, b) }

// MulN sets out = a*b for operands of equal length using the default
// thresholds.
func MulN(out, a, b []Word) { std.MulN(out, a, b) }

// Mul sets out = a*b, taking scratch space from the word pool.
func (mp *Multiplier) Mul(out, a, b []Word) {
	checkOperands("mul.Mul", out, a, b)
	s := mp.NewScratch(len(a), len(b))
	defer s.Release()
	mp.mulGreater(out, a, b, s.words)
}

// MulN sets out = a*b for len(a) == len(b).
func (mp *Multiplier) MulN(out, a, b []Word) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("mul.MulN: operand lengths differ (%d, %d)", len(a), len(b)))
	}
	checkOperands("mul.MulN", out, a, b)
	s := mp.NewScratch(len(a), len(b))
	defer s.Release()
	mp.mulN(out, a, b, s.words)
}

// MulScratch sets out = a*b using the caller's scratch, which must come from
// NewScratch for at least these operand lengths.
func (mp *Multiplier) MulScratch(out, a, b []Word, s *Scratch) {
	checkOperands("mul.MulScratch", out, a, b)
	if need := mp.mulItch(len(a), len(b)); len(s.words) < need {
		panic(fmt.Sprintf("mul.MulScratch: scratch has %d limbs, need %d", len(s.words), need))
	}
	mp.mulGreater(out, a, b, s.words)
}

func checkOperands(fn string, out, a, b []Word) {
	if len(b) == 0 || len(a) < len(b) {
		panic(fmt.Sprintf("%s: need len(a) >= len(b) >= 1, got %d and %d", fn, len(a), len(b)))
	}
	if len(out) != len(a)+len(b) {
		panic(fmt.Sprintf("%s: output has %d limbs, need %d", fn, len(out), len(a)+len(b)))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Dispatcher
// ─────────────────────────────────────────────────────────────────────────────

// mulN multiplies two operands of equal length n into out[:2n].
func (mp *Multiplier) mulN(out, a, b, scratch []Word) {
	n := len(a)
	switch {
	case n < mp.th.Toom22:
		basecase(out, a, b)
	case n < mp.th.Toom33:
		mp.toom22(out, a, b, scratch)
	case n < mp.th.Toom44:
		mp.toom33(out, a, b, scratch)
	case n < mp.th.Toom6H || !toom6hValid(n, n):
		mp.toom44(out, a, b, scratch)
	case n < mp.th.Toom8H || !toom8hValid(n, n):
		mp.toom6h(out, a, b, scratch)
	default:
		mp.toom8h(out, a, b, scratch)
	}
}

// toom44OK reports whether the operands are balanced enough for Toom-44 to
// beat the Toom-x3 family.
func toom44OK(an, bn int) bool {
	return 12+3*an < bn<<2
}

// mulGreater multiplies a by b (len(a) >= len(b)) into out[:an+bn].
func (mp *Multiplier) mulGreater(out, a, b, scratch []Word) {
	an, bn := len(a), len(b)
	th := &mp.th
	switch {
	case an == bn:
		mp.mulN(out, a, b, scratch)
	case bn < th.Toom22:
		basecase(out, a, b)
	case bn < th.Toom33:
		if an >= 3*bn {
			mp.mulChunksToom42(out, a, b, scratch)
			return
		}
		switch {
		case 4*an < 5*bn:
			mp.toom22(out, a, b, scratch)
		case 4*an < 7*bn:
			mp.toom32(out, a, b, scratch)
		default:
			mp.toom42(out, a, b, scratch)
		}
	case bn < th.Toom44 || !toom44OK(an, bn):
		switch {
		case 2*an >= 5*bn:
			mp.mulChunksToomX3(out, a, b, scratch)
		case 6*an < 7*bn:
			mp.toom33(out, a, b, scratch)
		case 2*an < 3*bn:
			if bn < th.Toom32To43 {
				mp.toom32(out, a, b, scratch)
			} else {
				mp.toom43(out, a, b, scratch)
			}
		case 6*an < 11*bn:
			if 4*an < 7*bn {
				if bn < th.Toom32To53 {
					mp.toom32(out, a, b, scratch)
				} else {
					mp.toom53(out, a, b, scratch)
				}
			} else if bn < th.Toom42To53 {
				mp.toom42(out, a, b, scratch)
			} else {
				mp.toom53(out, a, b, scratch)
			}
		case bn < th.Toom42To63:
			mp.toom42(out, a, b, scratch)
		default:
			mp.toom63(out, a, b, scratch)
		}
	case bn < th.Toom6H || !toom6hValid(an, bn):
		mp.toom44(out, a, b, scratch)
	case bn < th.Toom8H || !toom8hValid(an, bn):
		mp.toom6h(out, a, b, scratch)
	default:
		mp.toom8h(out, a, b, scratch)
	}
}

// mulAny multiplies operands in either order.
func (mp *Multiplier) mulAny(out, a, b, scratch []Word) {
	if len(a) >= len(b) {
		mp.mulGreater(out, a, b, scratch)
	} else {
		mp.mulGreater(out, b, a, scratch)
	}
}

// addChunk folds a chunk product p of bn+w limbs into out, whose first bn
// limbs already hold the top of the previous partial product.
func addChunk(out, p []Word, bn, w int) {
	copy(out[bn:bn+w], p[bn:bn+w])
	if arith.Add(out[:bn+w], out[:bn+w], p[:bn]) != 0 {
		panic("mul: carry out of chunk accumulation")
	}
}

// mulChunksToom42 handles a short b (T22 <= bn < T33) against an a at least
// three times longer: a is peeled in 2bn-limb chunks, each multiplied by
// Toom-42, and the tail by Toom-22, Toom-32 or Toom-42.
func (mp *Multiplier) mulChunksToom42(out, a, b, scratch []Word) {
	bn := len(b)
	buf, rest := scratch[:4*bn], scratch[4*bn:]
	mp.toom42(out[:3*bn], a[:2*bn], b, rest)
	a = a[2*bn:]
	off := 2 * bn
	for len(a) >= 3*bn {
		mp.toom42(buf, a[:2*bn], b, rest)
		addChunk(out[off:], buf, bn, 2*bn)
		a = a[2*bn:]
		off += 2 * bn
	}
	x := len(a)
	switch {
	case 4*x < 5*bn:
		mp.toom22(buf, a, b, rest)
	case 4*x < 7*bn:
		mp.toom32(buf, a, b, rest)
	default:
		mp.toom42(buf, a, b, rest)
	}
	addChunk(out[off:], buf, bn, x)
}

// mulChunksToomX3 handles 2an >= 5bn above the Toom-33 threshold: 2bn-limb
// chunks go through Toom-42 or Toom-63, the tail through the dispatcher.
func (mp *Multiplier) mulChunksToomX3(out, a, b, scratch []Word) {
	bn := len(b)
	buf, rest := scratch[:4*bn], scratch[4*bn:]
	chunk := mp.toom42
	if bn >= mp.th.Toom42To63 {
		chunk = mp.toom63
	}
	chunk(out[:3*bn], a[:2*bn], b, rest)
	a = a[2*bn:]
	off := 2 * bn
	for 2*len(a) >= 5*bn {
		chunk(buf[:3*bn], a[:2*bn], b, rest)
		addChunk(out[off:], buf, bn, 2*bn)
		a = a[2*bn:]
		off += 2 * bn
	}
	x := len(a)
	mp.mulAny(buf[:x+bn], a, b, rest)
	addChunk(out[off:], buf, bn, x)
}
