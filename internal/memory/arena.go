// Package memory manages the large limb buffers of a comparison run: an
// arena holding the operands and every algorithm's product, a controller
// that suspends the garbage collector while products are timed, and the
// memory estimate checked against -memory-limit.
package memory

import "github.com/agbru/bigmul/internal/arith"

// Arena pre-allocates one contiguous block of words for the operands and
// the product buffers of a run. This eliminates per-buffer GC tracking and
// enables O(1) bulk release via Reset.
//
// The arena uses a bump-pointer allocation strategy: each Alloc call advances
// the offset. When capacity is exhausted, it falls back to heap allocation.
// An Arena is not safe for concurrent allocation; allocate everything before
// handing the slices to worker goroutines.
type Arena struct {
	buf    []arith.Word
	offset int
}

// NewArena creates an arena able to hold the two operands of an an x bn
// multiplication and the given number of products.
func NewArena(an, bn, products int) *Arena {
	return &Arena{buf: make([]arith.Word, arenaWords(an, bn, products))}
}

func arenaWords(an, bn, products int) int {
	return an + bn + products*(an+bn)
}

// Alloc returns a zeroed slice of n words. The slice has no spare capacity,
// so appending to it never spills into a neighbouring allocation.
func (a *Arena) Alloc(n int) []arith.Word {
	if n <= 0 {
		return nil
	}
	if a.offset+n > len(a.buf) {
		return make([]arith.Word, n)
	}
	s := a.buf[a.offset : a.offset+n : a.offset+n]
	a.offset += n
	clear(s)
	return s
}

// Reset makes the whole block available again. Slices returned by earlier
// Alloc calls must not be used afterwards.
func (a *Arena) Reset() {
	a.offset = 0
}

// UsedWords returns the number of words currently allocated from the arena.
func (a *Arena) UsedWords() int {
	return a.offset
}

// CapacityWords returns the total capacity of the arena in words.
func (a *Arena) CapacityWords() int {
	return len(a.buf)
}
