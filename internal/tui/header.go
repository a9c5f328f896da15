package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigmul/internal/format"
)

// HeaderModel renders the top bar: title, version, operand sizes and
// elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	an, bn    int
	seed      int64
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string, an, bn int, seed int64) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		an:        an,
		bn:        bn,
		seed:      seed,
	}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer for a run with the given seed.
func (h *HeaderModel) Reset(seed int64) {
	h.startTime = time.Now()
	h.endTime = time.Time{}
	h.seed = seed
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since the run started, frozen once it is done.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header. spin is the spinner frame shown while a run is
// active; it is empty once the run is done.
func (h HeaderModel) View(spin string) string {
	titleText := "bigmul dashboard"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")

	parts := []string{
		titleStyle.Render(titleText),
		versionStyle.Render(fmt.Sprintf("%d x %d limbs, seed %d", h.an, h.bn, h.seed)),
		elapsedStyle.Render("Elapsed: " + format.FormatExecutionDuration(h.Elapsed())),
	}
	row := strings.Join(parts, pipe)
	if spin != "" {
		row = spin + " " + row
	}

	gap := h.width - 2 - lipgloss.Width(row)
	if gap > 0 {
		row += strings.Repeat(" ", gap)
	}
	return headerStyle.Render(row)
}
