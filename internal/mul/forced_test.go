package mul

import (
	"errors"
	"testing"

	"github.com/agbru/bigmul/internal/arith"
	apperrors "github.com/agbru/bigmul/internal/errors"
)

func TestMulWithOutOfDomain(t *testing.T) {
	t.Parallel()
	mp := newMinimal(t)
	tests := []struct {
		name   string
		alg    Algorithm
		an, bn int
	}{
		{"toom22 too unbalanced", Toom22, 30, 10},
		{"toom33 too unbalanced", Toom33, 30, 10},
		{"toom44 too unbalanced", Toom44, 40, 20},
		{"toom32 balanced", Toom32, 20, 20},
		{"toom42 excluded pair", Toom42, 9, 4},
		{"toom43 excluded pair", Toom43, 16, 13},
		{"toom53 excluded pair", Toom53, 16, 9},
		{"toom63 too short", Toom63, 12, 6},
		{"a shorter than b", Basecase, 3, 5},
		{"empty b", Auto, 3, 0},
		{"unknown algorithm", Algorithm(42), 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := randomWords(tt.an, 1)
			b := randomWords(tt.bn, 2)
			out := make([]Word, tt.an+tt.bn)
			err := mp.MulWith(tt.alg, out, a, b, nil)
			if !errors.Is(err, ErrOutOfDomain) {
				t.Fatalf("MulWith error = %v, want ErrOutOfDomain", err)
			}
			var de apperrors.DomainError
			if !errors.As(err, &de) {
				t.Fatalf("MulWith error %v does not carry a DomainError", err)
			}
			if de.Algorithm != tt.alg.String() || de.ALimbs != tt.an || de.BLimbs != tt.bn {
				t.Errorf("DomainError = %+v, want %s on %d x %d", de, tt.alg, tt.an, tt.bn)
			}
			if !arith.IsZero(out) {
				t.Error("out was written on error")
			}
			if _, err := mp.Itch(tt.alg, tt.an, tt.bn); !errors.Is(err, ErrOutOfDomain) {
				t.Errorf("Itch error = %v, want ErrOutOfDomain", err)
			}
		})
	}
}

func TestMulWithBadBuffers(t *testing.T) {
	t.Parallel()
	mp := newMinimal(t)
	a := randomWords(40, 1)
	b := randomWords(40, 2)

	t.Run("output length", func(t *testing.T) {
		t.Parallel()
		err := mp.MulWith(Toom22, make([]Word, 79), a, b, nil)
		var ve apperrors.ValidationError
		if !errors.As(err, &ve) || ve.Field != "out" {
			t.Fatalf("error = %v, want a ValidationError on out", err)
		}
		if errors.Is(err, ErrOutOfDomain) {
			t.Error("a bad output length is not a domain error")
		}
	})

	t.Run("short scratch", func(t *testing.T) {
		t.Parallel()
		need, err := mp.Itch(Toom33, 40, 40)
		if err != nil {
			t.Fatal(err)
		}
		if need == 0 {
			t.Fatal("toom33 at 40 limbs needs scratch")
		}
		err = mp.MulWith(Toom33, make([]Word, 80), a, b, make([]Word, need-1))
		var ve apperrors.ValidationError
		if !errors.As(err, &ve) || ve.Field != "scratch" {
			t.Fatalf("error = %v, want a ValidationError on scratch", err)
		}
	})

	t.Run("pooled scratch", func(t *testing.T) {
		t.Parallel()
		out := make([]Word, 80)
		if err := mp.MulWith(Toom44, out, a, b, nil); err != nil {
			t.Fatal(err)
		}
		checkProduct(t, "toom44 pooled", out, a, b)
	})
}

func TestItchMatchesDispatcher(t *testing.T) {
	t.Parallel()
	mp := newMinimal(t)
	for _, sz := range [][2]int{{1, 1}, {30, 30}, {100, 40}, {300, 70}} {
		got, err := mp.Itch(Auto, sz[0], sz[1])
		if err != nil {
			t.Fatal(err)
		}
		if want := mp.MulItch(sz[0], sz[1]); got != want {
			t.Errorf("Itch(Auto, %d, %d) = %d, MulItch = %d", sz[0], sz[1], got, want)
		}
	}
	if n, err := mp.Itch(Basecase, 50, 3); err != nil || n != 0 {
		t.Errorf("Itch(Basecase) = %d, %v; want 0, nil", n, err)
	}
}

func TestScratchRelease(t *testing.T) {
	t.Parallel()
	var nilScratch *Scratch
	nilScratch.Release()

	mp := newMinimal(t)
	s := mp.NewScratch(40, 300)
	if s.Len() != mp.MulItch(300, 40) || s.Len() == 0 {
		t.Errorf("Len = %d, want %d", s.Len(), mp.MulItch(300, 40))
	}
	s.Release()
	if s.Len() != 0 {
		t.Errorf("Len after Release = %d", s.Len())
	}

	small := mp.NewScratch(3, 3)
	if small.Len() != 0 {
		t.Errorf("basecase scratch Len = %d, want 0", small.Len())
	}
	small.Release()
}
