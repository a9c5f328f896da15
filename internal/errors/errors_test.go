package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config", NewConfigError("unknown algorithm %q", "toom99"), `unknown algorithm "toom99"`},
		{"calculation without algorithm", CalculationError{Cause: errors.New("boom")}, "boom"},
		{"calculation", CalculationError{Algorithm: "toom42", Cause: errors.New("boom")}, "toom42: boom"},
		{"timeout", TimeoutError{Algorithm: "toom53", Completed: 0, Reps: 3}, "toom53 timed out after 0 of 3 repetitions"},
		{"domain", DomainError{Algorithm: "toom63", ALimbs: 10, BLimbs: 10}, "toom63 cannot multiply 10 x 10 limbs"},
		{"validation", ValidationError{Field: "scratch", Message: "has 10 limbs, need 12"}, "invalid scratch: has 10 limbs, need 12"},
		{"mismatch at a limb", MismatchError{Algorithm: "toom43", Reference: "math/big", Limb: 7}, "product of toom43 differs from math/big at limb 7"},
		{"mismatch in length", MismatchError{Algorithm: "toom42", Reference: "toom22", Limb: -1}, "product of toom42 differs in length from toom22"},
		{"memory", MemoryError{Estimated: 2048, Limit: 1024}, "estimated memory of 2048 bytes exceeds the limit of 1024 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrapChains(t *testing.T) {
	t.Parallel()

	t.Run("calculation error exposes its cause", func(t *testing.T) {
		t.Parallel()
		err := CalculationError{Algorithm: "toom33", Cause: MismatchError{Algorithm: "toom33", Limb: 1}}
		var me MismatchError
		if !errors.As(err, &me) || me.Limb != 1 {
			t.Errorf("errors.As(MismatchError) failed on %v", err)
		}
	})

	t.Run("timeout is a deadline", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("run: %w", TimeoutError{Algorithm: "toom44", Completed: 1, Reps: 2})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Error("TimeoutError should unwrap to context.DeadlineExceeded")
		}
		var te TimeoutError
		if !errors.As(err, &te) || te.Completed != 1 {
			t.Errorf("errors.As(TimeoutError) = %+v", te)
		}
	})

	t.Run("domain error survives wrapping", func(t *testing.T) {
		t.Parallel()
		sentinel := errors.New("out of domain")
		err := fmt.Errorf("%w: %w", sentinel, DomainError{Algorithm: "toom32", ALimbs: 5, BLimbs: 5})
		var de DomainError
		if !errors.Is(err, sentinel) || !errors.As(err, &de) || de.Algorithm != "toom32" {
			t.Errorf("wrapped DomainError lost: %v", err)
		}
	})
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	if WrapError(nil, "ignored %d", 1) != nil {
		t.Error("WrapError(nil) should be nil")
	}
	base := NewConfigError("toom33 threshold below toom22")
	err := WrapError(base, "profile %s", "a.json")
	if err.Error() != "profile a.json: toom33 threshold below toom22" {
		t.Errorf("Error() = %q", err.Error())
	}
	var ce ConfigError
	if !errors.As(err, &ce) {
		t.Error("the ConfigError is no longer reachable")
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, true},
		{fmt.Errorf("toom22: %w", context.DeadlineExceeded), true},
		{TimeoutError{Algorithm: "toom22"}, true},
		{CalculationError{Cause: errors.New("boom")}, false},
	}
	for _, tt := range tests {
		if got := IsContextError(tt.err); got != tt.want {
			t.Errorf("IsContextError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
