package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the terminal color codes used in failure messages.
// It keeps this package free of any dependency on the UI packages.
type ColorProvider interface {
	Yellow() string
	Red() string
	Reset() string
}

// DefaultColorProvider provides no color codes (for non-terminal output).
type DefaultColorProvider struct{}

func (DefaultColorProvider) Yellow() string { return "" }
func (DefaultColorProvider) Red() string    { return "" }
func (DefaultColorProvider) Reset() string  { return "" }

// ExitCode maps err to the process exit status without printing anything.
func ExitCode(err error) int {
	var (
		cfgErr      ConfigError
		mismatchErr MismatchError
		memErr      MemoryError
		timeoutErr  TimeoutError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &timeoutErr):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &mismatchErr):
		return ExitErrorMismatch
	case errors.As(err, &cfgErr), errors.As(err, &memErr):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}

// HandleCalculationError prints a status line for a failed run and returns
// the matching exit code from ExitCode.
//
// Parameters:
//   - err: The error that occurred.
//   - duration: How long the run lasted before failing; zero omits it.
//   - out: The io.Writer to which the status line is written.
//   - colors: Provider for terminal color codes (can be nil for no colors).
//
// Returns:
//   - int: The appropriate exit code for the error type.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = DefaultColorProvider{}
	}

	elapsed := ""
	if duration > 0 {
		elapsed = fmt.Sprintf(" after %s%s%s", colors.Yellow(), duration, colors.Reset())
	}

	code := ExitCode(err)
	switch code {
	case ExitErrorTimeout:
		var te TimeoutError
		if errors.As(err, &te) {
			fmt.Fprintf(out, "Status: Timeout%s. %v\n", elapsed, te)
		} else {
			fmt.Fprintf(out, "Status: Timeout%s. The -timeout deadline expired.\n", elapsed)
		}
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sStatus: Canceled%s%s\n", colors.Yellow(), colors.Reset(), elapsed)
	case ExitErrorMismatch:
		fmt.Fprintf(out, "%sStatus: Mismatch.%s %v\n", colors.Red(), colors.Reset(), err)
	case ExitErrorConfig:
		fmt.Fprintf(out, "Status: Invalid configuration. %v\n", err)
	default:
		fmt.Fprintf(out, "%sStatus: Failure.%s %v\n", colors.Red(), colors.Reset(), err)
	}
	return code
}
