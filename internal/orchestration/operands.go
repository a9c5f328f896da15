package orchestration

import (
	"math/rand/v2"

	"github.com/agbru/bigmul/internal/arith"
	"github.com/agbru/bigmul/internal/memory"
)

// Operands are the two factors of a comparison run. A has at least as many
// limbs as B and both have a non-zero top limb.
type Operands struct {
	A, B []arith.Word
	Seed int64
}

// GenerateOperands fills two operands of an and bn limbs from a PCG stream
// seeded with seed, allocating them from arena. The same seed always gives
// the same operands. When bn > an the lengths are swapped.
//
// Parameters:
//   - arena: The arena to allocate from; nil allocates on the heap.
//   - an, bn: The operand lengths in limbs, both at least 1.
//   - seed: The generator seed.
//
// Returns:
//   - Operands: The generated operands.
func GenerateOperands(arena *memory.Arena, an, bn int, seed int64) Operands {
	if bn > an {
		an, bn = bn, an
	}
	alloc := func(n int) []arith.Word {
		if arena == nil {
			return make([]arith.Word, n)
		}
		return arena.Alloc(n)
	}
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	fill := func(x []arith.Word) {
		for i := range x {
			x[i] = arith.Word(r.Uint64())
		}
		for x[len(x)-1] == 0 {
			x[len(x)-1] = arith.Word(r.Uint64())
		}
	}
	ops := Operands{A: alloc(an), B: alloc(bn), Seed: seed}
	fill(ops.A)
	fill(ops.B)
	return ops
}

// key identifies the operands for the reference cache.
func (o Operands) key() referenceKey {
	return referenceKey{an: len(o.A), bn: len(o.B), seed: o.Seed}
}
