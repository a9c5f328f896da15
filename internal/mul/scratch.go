package mul

import "github.com/agbru/bigmul/internal/arith"

// Scratch is a temporary limb buffer sized for one multiplication. It is
// obtained from NewScratch, used by a single goroutine and handed back with
// Release.
type Scratch struct {
	words []Word
}

// NewScratch returns scratch space large enough for mp to multiply an
// an-limb operand by a bn-limb one (in either order). The buffer comes from
// the shared word pool and is not cleared; the engines write every limb
// they read.
func (mp *Multiplier) NewScratch(an, bn int) *Scratch {
	if an < bn {
		an, bn = bn, an
	}
	n := mp.mulItch(an, bn)
	if n == 0 {
		return &Scratch{}
	}
	return &Scratch{words: arith.AcquireWordsUnsafe(n)}
}

// Len returns the number of limbs available.
func (s *Scratch) Len() int { return len(s.words) }

// Release returns the buffer to the pool. The Scratch must not be used
// afterwards. Release on a nil Scratch is a no-op.
func (s *Scratch) Release() {
	if s == nil {
		return
	}
	arith.ReleaseWords(s.words)
	s.words = nil
}
