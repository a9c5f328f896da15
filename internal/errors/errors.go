package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess       = 0   // Every selected engine produced a verified product.
	ExitErrorGeneric  = 1   // An unexpected failure.
	ExitErrorTimeout  = 2   // The -timeout deadline expired.
	ExitErrorMismatch = 3   // A product differs from the reference.
	ExitErrorConfig   = 4   // Invalid flags, thresholds or memory budget.
	ExitErrorCanceled = 130 // Interrupted, e.g. by SIGINT.
)

// ConfigError is an invalid flag, environment value, threshold table or
// calibration profile.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A ConfigError.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError is an engine failure while multiplying. The cause stays
// reachable through errors.Is and errors.As.
type CalculationError struct {
	// Algorithm is the engine that failed; it may be empty.
	Algorithm string
	Cause     error
}

func (e CalculationError) Error() string {
	if e.Algorithm == "" {
		return e.Cause.Error()
	}
	return e.Algorithm + ": " + e.Cause.Error()
}

func (e CalculationError) Unwrap() error { return e.Cause }

// TimeoutError reports an engine stopped by the run deadline before it
// finished its repetitions. It unwraps to context.DeadlineExceeded.
type TimeoutError struct {
	Algorithm string
	// Completed is the number of repetitions timed before the deadline.
	Completed int
	Reps      int
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %d of %d repetitions", e.Algorithm, e.Completed, e.Reps)
}

func (e TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// DomainError reports operand sizes an engine cannot multiply, such as
// 10 x 2 limbs for Toom-63.
type DomainError struct {
	Algorithm      string
	ALimbs, BLimbs int
}

func (e DomainError) Error() string {
	return fmt.Sprintf("%s cannot multiply %d x %d limbs", e.Algorithm, e.ALimbs, e.BLimbs)
}

// ValidationError reports a caller buffer of the wrong size.
type ValidationError struct {
	// Field names the buffer, "out" or "scratch".
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// MismatchError reports a product that differs from the reference product
// computed by math/big, or from another algorithm's product.
type MismatchError struct {
	// Algorithm is the name of the algorithm whose product is wrong.
	Algorithm string
	// Reference names what the product was compared against.
	Reference string
	// Limb is the lowest differing limb, or -1 when the lengths differ.
	Limb int
}

func (e MismatchError) Error() string {
	if e.Limb < 0 {
		return fmt.Sprintf("product of %s differs in length from %s", e.Algorithm, e.Reference)
	}
	return fmt.Sprintf("product of %s differs from %s at limb %d", e.Algorithm, e.Reference, e.Limb)
}

// MemoryError reports a run whose estimated footprint exceeds
// -memory-limit.
type MemoryError struct {
	Estimated uint64
	Limit     uint64
}

func (e MemoryError) Error() string {
	return fmt.Sprintf("estimated memory of %d bytes exceeds the limit of %d bytes", e.Estimated, e.Limit)
}

// WrapError wraps err with a formatted context message using %w, so that
// errors.Is and errors.As still see the cause. It returns nil for a nil err.
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err stems from a canceled or expired
// context.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
