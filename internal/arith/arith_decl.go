// The carry-propagating loops below are the assembly kernels of math/big,
// reached through //go:linkname pull declarations. math/big keeps these
// symbols linkable for existing importers, but they are outside its API:
// a release may change a signature, and a mismatch is not a compile error
// but silent memory corruption at run time. After a toolchain upgrade, run
// the arith tests first; TestLinkedKernelsMatchBig checks every kernel
// against big.Int. shrVU is no longer linkable and lives in arith.go.

package arith

import (
	"math/big"
	_ "unsafe" // go:linkname
)

// Word is one limb. It aliases big.Word so limb slices convert to and from
// big.Int without copying.
type Word = big.Word

// addVV: z = x + y over len(z) limbs, carry out.
//
//go:linkname addVV math/big.addVV
func addVV(z, x, y []Word) (c Word)

// subVV: z = x - y over len(z) limbs, borrow out.
//
//go:linkname subVV math/big.subVV
func subVV(z, x, y []Word) (c Word)

// addVW: z = x + y for a one-limb y, carry out.
//
//go:linkname addVW math/big.addVW
func addVW(z, x []Word, y Word) (c Word)

// subVW: z = x - y for a one-limb y, borrow out.
//
//go:linkname subVW math/big.subVW
func subVW(z, x []Word, y Word) (c Word)

// shlVU: z = x << s for 0 < s < _W; the bits pushed out of the top limb
// come back right-aligned.
//
//go:linkname shlVU math/big.shlVU
func shlVU(z, x []Word, s uint) (c Word)

// mulAddVWW: z = x*y + r, high limb out.
//
//go:linkname mulAddVWW math/big.mulAddVWW
func mulAddVWW(z, x []Word, y, r Word) (c Word)

// addMulVVW: z += x*y, high limb out.
//
//go:linkname addMulVVW math/big.addMulVVW
func addMulVVW(z, x []Word, y Word) (c Word)
