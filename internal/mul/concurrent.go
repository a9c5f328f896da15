package mul

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/bigmul/internal/arith"
)

// ─────────────────────────────────────────────────────────────────────────────
// Concurrent top level
// ─────────────────────────────────────────────────────────────────────────────

// MulConcurrent sets out = a*b like Mul, running the independent top-level
// products on separate goroutines. Balanced operands are split once in
// Toom-22 fashion and the three half-size products run in parallel;
// unbalanced operands are cut into chunks of a whose products against b run
// in parallel and are then accumulated in order. The result is identical to
// Mul's.
//
// Operands shorter than the parallel threshold are multiplied on the calling
// goroutine. The context is checked before forking and after joining; an
// in-flight product is never interrupted, and out is unspecified when an
// error is returned.
//
// Parameters:
//   - ctx: Cancellation for the whole call.
//   - out: Destination of exactly len(a)+len(b) limbs.
//   - a, b: Operands with len(a) >= len(b) >= 1.
//
// Returns:
//   - error: ctx.Err() if the context ended, nil otherwise.
func (mp *Multiplier) MulConcurrent(ctx context.Context, out, a, b []Word) error {
	checkOperands("mul.MulConcurrent", out, a, b)
	if err := ctx.Err(); err != nil {
		return err
	}
	an, bn := len(a), len(b)
	switch {
	case bn < mp.parallelThreshold:
		mp.Mul(out, a, b)
	case toom22Valid(an, bn):
		if err := mp.mulSplit22(ctx, out, a, b); err != nil {
			return err
		}
	default:
		if err := mp.mulSplitChunks(ctx, out, a, b); err != nil {
			return err
		}
	}
	return ctx.Err()
}

// mulSplit22 runs one Toom-22 level with its three products in parallel.
// The evaluated differences get private buffers because the sequential
// engine keeps them in the part of out that v0 overwrites.
func (mp *Multiplier) mulSplit22(ctx context.Context, out, a, b []Word) error {
	an, bn := len(a), len(b)
	s := an >> 1
	n := an - s
	t := bn - n
	a0, a1 := a[:n], a[n:]
	b0, b1 := b[:n], b[n:]

	buf := arith.AcquireWordsUnsafe(4 * n)
	defer arith.ReleaseWords(buf)
	asm1, bsm1, vm1 := buf[:n], buf[n:2*n], buf[2*n:4*n]
	neg := toom22Eval(asm1, bsm1, a0, a1, b0, b1)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		mp.MulN(vm1, asm1, bsm1)
		return nil
	})
	g.Go(func() error {
		mp.MulN(out[:2*n], a0, b0)
		return nil
	})
	g.Go(func() error {
		mp.Mul(out[2*n:], a1, b1)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	toom22Interpolate(out, vm1, n, s, t, neg)
	return nil
}

// mulSplitChunks cuts a into at most GOMAXPROCS chunks of at least len(b)
// limbs, multiplies each by b in parallel and adds the partial products
// into out from the bottom up.
func (mp *Multiplier) mulSplitChunks(ctx context.Context, out, a, b []Word) error {
	an, bn := len(a), len(b)
	k := min(runtime.GOMAXPROCS(0), an/bn)
	if k < 2 {
		mp.Mul(out, a, b)
		return nil
	}
	size := ceilDiv(an, k)

	var chunks [][]Word
	for off := 0; off < an; off += size {
		chunks = append(chunks, a[off:min(off+size, an)])
	}
	products := make([][]Word, len(chunks))
	defer func() {
		for _, p := range products {
			arith.ReleaseWords(p)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range chunks {
		products[i] = arith.AcquireWordsUnsafe(len(c) + bn)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := products[i]
			if len(c) >= bn {
				mp.Mul(p, c, b)
			} else {
				mp.Mul(p, b, c)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	copy(out, products[0])
	off := len(chunks[0])
	for i := 1; i < len(chunks); i++ {
		addChunk(out[off:], products[i], bn, len(chunks[i]))
		off += len(chunks[i])
	}
	return nil
}
