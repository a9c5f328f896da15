// Package logging builds the zerolog loggers shared by the command, the
// runner, the calibration and the metrics server.
package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/bigmul/internal/errors"
)

// NewLogger returns a JSON logger writing to w at level, tagging every
// entry with the component name.
//
// Parameters:
//   - w: The destination of the JSON log lines.
//   - component: The value of the "component" field.
//   - level: The minimum level written.
//
// Returns:
//   - zerolog.Logger: The logger.
func NewLogger(w io.Writer, component string, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().
		Timestamp().
		Str("component", component).
		Logger()
}

// ForRun derives the logger of one comparison run, so every entry of the
// run carries its ID and operand sizes.
func ForRun(l zerolog.Logger, runID string, aLimbs, bLimbs int) zerolog.Logger {
	return l.With().
		Str("run_id", runID).
		Int("a_limbs", aLimbs).
		Int("b_limbs", bLimbs).
		Logger()
}

// ParseLogLevel maps a -log-level value to a zerolog level. The empty
// string means info.
func ParseLogLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel, apperrors.NewConfigError(
			"unknown log level %q (valid: trace, debug, info, warn, error, disabled)", name)
	}
	return level, nil
}
