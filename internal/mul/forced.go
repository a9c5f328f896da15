package mul

import (
	"errors"
	"fmt"

	"github.com/agbru/bigmul/internal/arith"
	apperrors "github.com/agbru/bigmul/internal/errors"
)

// ErrOutOfDomain is wrapped by the errors MulWith and Itch return when an
// engine cannot handle the requested operand sizes.
var ErrOutOfDomain = errors.New("operands outside algorithm domain")

// MulWith sets out = a*b using exactly the engine alg, bypassing the
// dispatcher for the top-level product. Recursive products still go through
// mp's thresholds.
//
// Unlike Mul, MulWith reports bad input as an error: it is the entry point
// used when an algorithm is chosen by the user.
//
// Parameters:
//   - alg: The engine to run. Auto is the regular dispatcher.
//   - out: Destination of exactly len(a)+len(b) limbs.
//   - a, b: Operands with len(a) >= len(b) >= 1.
//   - scratch: At least Itch(alg, len(a), len(b)) limbs, or nil to take a
//     buffer from the word pool.
//
// Returns:
//   - error: nil on success; an error wrapping ErrOutOfDomain and an
//     apperrors.ValidationError otherwise. out is untouched on error.
func (mp *Multiplier) MulWith(alg Algorithm, out, a, b, scratch []Word) error {
	an, bn := len(a), len(b)
	need, err := mp.Itch(alg, an, bn)
	if err != nil {
		return err
	}
	if len(out) != an+bn {
		return apperrors.ValidationError{
			Field:   "out",
			Message: fmt.Sprintf("has %d limbs, need %d", len(out), an+bn),
		}
	}
	if scratch == nil && need > 0 {
		scratch = arith.AcquireWordsUnsafe(need)
		defer arith.ReleaseWords(scratch)
	}
	if len(scratch) < need {
		return apperrors.ValidationError{
			Field:   "scratch",
			Message: fmt.Sprintf("has %d limbs, need %d", len(scratch), need),
		}
	}

	switch alg {
	case Auto:
		mp.mulGreater(out, a, b, scratch)
	case Basecase:
		basecase(out, a, b)
	case Toom22:
		mp.toom22(out, a, b, scratch)
	case Toom32:
		mp.toom32(out, a, b, scratch)
	case Toom33:
		mp.toom33(out, a, b, scratch)
	case Toom42:
		mp.toom42(out, a, b, scratch)
	case Toom43:
		mp.toom43(out, a, b, scratch)
	case Toom44:
		mp.toom44(out, a, b, scratch)
	case Toom53:
		mp.toom53(out, a, b, scratch)
	case Toom63:
		mp.toom63(out, a, b, scratch)
	case Toom6H:
		mp.toom6h(out, a, b, scratch)
	case Toom8H:
		mp.toom8h(out, a, b, scratch)
	}
	return nil
}

// Itch returns the scratch limbs alg needs for an an x bn product, or an
// error wrapping ErrOutOfDomain when alg cannot multiply those sizes.
func (mp *Multiplier) Itch(alg Algorithm, an, bn int) (int, error) {
	if !alg.Valid(an, bn) {
		return 0, fmt.Errorf("%w: %w", ErrOutOfDomain, apperrors.DomainError{
			Algorithm: alg.String(),
			ALimbs:    an,
			BLimbs:    bn,
		})
	}
	switch alg {
	case Basecase:
		return 0, nil
	case Toom22:
		return mp.toom22Itch(an, bn), nil
	case Toom32:
		return mp.toom32Itch(an, bn), nil
	case Toom33:
		return mp.toom33Itch(an, bn), nil
	case Toom42:
		return mp.toom42Itch(an, bn), nil
	case Toom43:
		return mp.toom43Itch(an, bn), nil
	case Toom44:
		return mp.toom44Itch(an, bn), nil
	case Toom53:
		return mp.toom53Itch(an, bn), nil
	case Toom63:
		return mp.toom63Itch(an, bn), nil
	case Toom6H:
		return mp.toom6hItch(an, bn), nil
	case Toom8H:
		return mp.toom8hItch(an, bn), nil
	default:
		return mp.mulItch(an, bn), nil
	}
}

// MulItch returns the scratch limbs Mul needs for an an x bn product
// (an >= bn).
func (mp *Multiplier) MulItch(an, bn int) int {
	return mp.mulItch(an, bn)
}
