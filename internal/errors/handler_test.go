package apperrors

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"
)

type bracketColors struct{}

func (bracketColors) Yellow() string { return "[Y]" }
func (bracketColors) Red() string    { return "[R]" }
func (bracketColors) Reset() string  { return "[/]" }

func TestHandleCalculationError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		duration time.Duration
		colors   ColorProvider
		code     int
		line     string
	}{
		{"nil", nil, 0, nil, ExitSuccess, ""},
		{
			"engine timeout",
			TimeoutError{Algorithm: "toom44", Completed: 2, Reps: 5},
			time.Second, bracketColors{}, ExitErrorTimeout,
			"Status: Timeout after [Y]1s[/]. toom44 timed out after 2 of 5 repetitions\n",
		},
		{
			"bare deadline",
			context.DeadlineExceeded,
			0, nil, ExitErrorTimeout,
			"Status: Timeout. The -timeout deadline expired.\n",
		},
		{
			"canceled",
			fmt.Errorf("toom44: %w", context.Canceled),
			500 * time.Millisecond, bracketColors{}, ExitErrorCanceled,
			"[Y]Status: Canceled[/] after [Y]500ms[/]\n",
		},
		{
			"mismatch inside a calculation error",
			CalculationError{Algorithm: "toom63", Cause: MismatchError{Algorithm: "toom63", Reference: "math/big", Limb: 12}},
			0, bracketColors{}, ExitErrorMismatch,
			"[R]Status: Mismatch.[/] toom63: product of toom63 differs from math/big at limb 12\n",
		},
		{
			"wrapped config error",
			WrapError(NewConfigError("toom22 threshold 3 is below 8"), "calibration profile"),
			0, nil, ExitErrorConfig,
			"Status: Invalid configuration. calibration profile: toom22 threshold 3 is below 8\n",
		},
		{
			"memory budget",
			MemoryError{Estimated: 4096, Limit: 1024},
			0, nil, ExitErrorConfig,
			"Status: Invalid configuration. estimated memory of 4096 bytes exceeds the limit of 1024 bytes\n",
		},
		{
			"anything else",
			fmt.Errorf("scratch pool exhausted"),
			0, nil, ExitErrorGeneric,
			"Status: Failure. scratch pool exhausted\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			if code := HandleCalculationError(tt.err, tt.duration, &out, tt.colors); code != tt.code {
				t.Errorf("code = %d, want %d", code, tt.code)
			}
			if out.String() != tt.line {
				t.Errorf("output = %q, want %q", out.String(), tt.line)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{TimeoutError{Algorithm: "toom33", Reps: 3}, ExitErrorTimeout},
		{CalculationError{Algorithm: "toom33", Cause: context.DeadlineExceeded}, ExitErrorTimeout},
		{context.Canceled, ExitErrorCanceled},
		{MemoryError{Estimated: 10, Limit: 5}, ExitErrorConfig},
		{ConfigError{Message: "bad"}, ExitErrorConfig},
		{MismatchError{Algorithm: "toom33", Reference: "toom22", Limb: -1}, ExitErrorMismatch},
		{DomainError{Algorithm: "toom63", ALimbs: 10, BLimbs: 2}, ExitErrorGeneric},
		{ValidationError{Field: "out"}, ExitErrorGeneric},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
