package orchestration

import (
	"math/big"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agbru/bigmul/internal/arith"
	apperrors "github.com/agbru/bigmul/internal/errors"
)

// ReferenceName labels the math/big product in mismatch reports.
const ReferenceName = "math/big"

// DefaultReferenceCacheSize is the number of reference products kept by
// NewReferenceCache callers that have no better figure.
const DefaultReferenceCacheSize = 8

type referenceKey struct {
	an, bn int
	seed   int64
}

// ReferenceCache memoizes math/big products of generated operands, keyed by
// operand sizes and seed. Calibration and repeated TUI runs multiply the
// same operands many times; the reference only needs computing once.
// It is safe for concurrent use.
type ReferenceCache struct {
	cache *lru.Cache[referenceKey, []arith.Word]
}

// NewReferenceCache creates a cache holding at most size products.
//
// Returns:
//   - *ReferenceCache: The cache.
//   - error: An error if size is not positive.
func NewReferenceCache(size int) (*ReferenceCache, error) {
	c, err := lru.New[referenceKey, []arith.Word](size)
	if err != nil {
		return nil, apperrors.WrapError(err, "creating reference cache")
	}
	return &ReferenceCache{cache: c}, nil
}

// Product returns ops.A * ops.B as computed by math/big, zero-extended to
// len(A)+len(B) limbs. A nil cache computes without memoizing. The
// returned slice is shared and must not be modified.
func (rc *ReferenceCache) Product(ops Operands) []arith.Word {
	if rc != nil {
		if p, ok := rc.cache.Get(ops.key()); ok {
			return p
		}
	}
	p := referenceProduct(ops.A, ops.B)
	if rc != nil {
		rc.cache.Add(ops.key(), p)
	}
	return p
}

// Len returns the number of cached products.
func (rc *ReferenceCache) Len() int {
	if rc == nil {
		return 0
	}
	return rc.cache.Len()
}

func referenceProduct(a, b []arith.Word) []arith.Word {
	x := new(big.Int).SetBits(append([]big.Word(nil), a...))
	y := new(big.Int).SetBits(append([]big.Word(nil), b...))
	words := new(big.Int).Mul(x, y).Bits()
	p := make([]arith.Word, len(a)+len(b))
	copy(p, words)
	return p
}

// Verify compares product against want limb by limb.
//
// Returns:
//   - error: A MismatchError naming algorithm and reference, or nil.
func Verify(algorithm, reference string, product, want []arith.Word) error {
	if len(product) != len(want) {
		return apperrors.MismatchError{Algorithm: algorithm, Reference: reference, Limb: -1}
	}
	for i := range want {
		if product[i] != want[i] {
			return apperrors.MismatchError{Algorithm: algorithm, Reference: reference, Limb: i}
		}
	}
	return nil
}
