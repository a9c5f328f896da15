// This file provides pooled word slices for scratch and product buffers.

package arith

import (
	"math/bits"
	"sync"
)

// ─────────────────────────────────────────────────────────────────────────────
// Word Slice Pools
// ─────────────────────────────────────────────────────────────────────────────

// wordSlicePools pools []Word slices by size class.
// Size classes are powers of four from 64 to 16M words to limit fragmentation.
var wordSlicePools = [...]sync.Pool{
	{New: func() any { return make([]Word, 64) }},
	{New: func() any { return make([]Word, 256) }},
	{New: func() any { return make([]Word, 1024) }},
	{New: func() any { return make([]Word, 4096) }},
	{New: func() any { return make([]Word, 16384) }},
	{New: func() any { return make([]Word, 65536) }},
	{New: func() any { return make([]Word, 262144) }},
	{New: func() any { return make([]Word, 1048576) }},  // 1M words = 8MB on 64-bit
	{New: func() any { return make([]Word, 4194304) }},  // 4M words = 32MB on 64-bit
	{New: func() any { return make([]Word, 16777216) }}, // 16M words = 128MB on 64-bit
}

// wordSliceSizes defines the size classes for word slice pools.
var wordSliceSizes = [...]int{64, 256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304, 16777216}

// wordSlicePoolIndex returns the pool index for a given size, or -1 if the
// size is too large for pooling.
//
// wordSliceSizes are powers of 4 starting from 4^3 = 64: index i corresponds
// to size 4^(i+3), so bits.Len(size-1) maps directly to the index.
func wordSlicePoolIndex(size int) int {
	if size <= 0 {
		return 0
	}
	if size > wordSliceSizes[len(wordSliceSizes)-1] {
		return -1
	}
	idx := (bits.Len(uint(size-1)) - 5) / 2
	if idx < 0 {
		idx = 0
	}
	return idx
}

// AcquireWords gets a zeroed word slice of exactly the given length from the
// pool. Sizes above the largest class are allocated directly.
//
// The slice should be released with ReleaseWords, preferably with defer:
//
//	buf := arith.AcquireWords(n)
//	defer arith.ReleaseWords(buf)
func AcquireWords(size int) []Word {
	idx := wordSlicePoolIndex(size)
	if idx < 0 {
		return make([]Word, size)
	}
	slice := wordSlicePools[idx].Get().([]Word)
	clear(slice)
	return slice[:size]
}

// AcquireWordsUnsafe returns a pooled word slice without clearing it. Use it
// only when every element is written before it is read, as with scratch space.
func AcquireWordsUnsafe(size int) []Word {
	idx := wordSlicePoolIndex(size)
	if idx < 0 {
		return make([]Word, size)
	}
	slice := wordSlicePools[idx].Get().([]Word)
	return slice[:size]
}

// ReleaseWords returns a word slice obtained from AcquireWords or
// AcquireWordsUnsafe to its pool. Safe to call with nil.
func ReleaseWords(slice []Word) {
	if slice == nil {
		return
	}
	c := cap(slice)
	idx := wordSlicePoolIndex(c)
	if idx >= 0 && wordSliceSizes[idx] == c {
		wordSlicePools[idx].Put(slice[:c])
	}
}

// PreWarm puts count buffers of the size class covering size into the pool,
// so that the first multiplications of a run do not pay for allocation.
func PreWarm(size, count int) {
	idx := wordSlicePoolIndex(size)
	if idx < 0 {
		return
	}
	for i := 0; i < count; i++ {
		wordSlicePools[idx].Put(make([]Word, wordSliceSizes[idx]))
	}
}
