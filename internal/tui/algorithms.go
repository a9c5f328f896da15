package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigmul/internal/format"
	"github.com/agbru/bigmul/internal/orchestration"
)

// AlgoStatus is the state of one engine row.
type AlgoStatus int

const (
	StatusIdle AlgoStatus = iota
	StatusRunning
	StatusComplete
	StatusSkipped
	StatusError
)

// String returns the label shown in the status column.
func (s AlgoStatus) String() string {
	switch s {
	case StatusRunning:
		return "RUN"
	case StatusComplete:
		return "OK"
	case StatusSkipped:
		return "SKIP"
	case StatusError:
		return "ERR"
	}
	return "WAIT"
}

// Column widths for the algorithm table (shared between header and rows).
const (
	colWidthRank     = 3
	colWidthName     = 10
	colWidthProgress = 24
	colWidthPct      = 7
	colWidthDur      = 11
	colWidthScratch  = 9
	colWidthStatus   = 6
)

// AlgorithmsModel is the table of engines of a run.
type AlgorithmsModel struct {
	names      []string
	progresses []float64
	statuses   []AlgoStatus
	durations  []time.Duration
	scratch    []int
	errs       []error
	ranks      []int
	cursor     int
}

// NewAlgorithmsModel creates a table with one idle row per engine name.
func NewAlgorithmsModel(names []string) AlgorithmsModel {
	m := AlgorithmsModel{names: names}
	m.Reset()
	return m
}

// Reset puts every row back to idle, keeping the cursor.
func (m *AlgorithmsModel) Reset() {
	n := len(m.names)
	m.progresses = make([]float64, n)
	m.statuses = make([]AlgoStatus, n)
	m.durations = make([]time.Duration, n)
	m.scratch = make([]int, n)
	m.errs = make([]error, n)
	m.ranks = make([]int, n)
}

// SetProgress records the progress of the engine at idx.
func (m *AlgorithmsModel) SetProgress(idx int, value float64) {
	if idx < 0 || idx >= len(m.names) {
		return
	}
	m.progresses[idx] = value
	if m.statuses[idx] == StatusIdle {
		m.statuses[idx] = StatusRunning
	}
}

// SetResults fills the rows from the sorted results of a run. The rank of
// a row is its position among the verified results.
func (m *AlgorithmsModel) SetResults(results []orchestration.MultiplicationResult) {
	rank := 0
	for _, res := range results {
		idx := m.indexOf(res.Name)
		if idx < 0 {
			continue
		}
		m.durations[idx] = res.Duration
		m.scratch[idx] = res.ScratchLimbs
		m.errs[idx] = res.Err
		m.progresses[idx] = 1
		switch {
		case res.Skipped:
			m.statuses[idx] = StatusSkipped
		case res.Err != nil:
			m.statuses[idx] = StatusError
		default:
			rank++
			m.statuses[idx] = StatusComplete
			m.ranks[idx] = rank
		}
	}
}

// Status returns the status of the row named name.
func (m AlgorithmsModel) Status(name string) AlgoStatus {
	if idx := m.indexOf(name); idx >= 0 {
		return m.statuses[idx]
	}
	return StatusIdle
}

// Selected returns the name under the cursor.
func (m AlgorithmsModel) Selected() string {
	if len(m.names) == 0 {
		return ""
	}
	return m.names[m.cursor]
}

// MoveUp moves the cursor one row up.
func (m *AlgorithmsModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// MoveDown moves the cursor one row down.
func (m *AlgorithmsModel) MoveDown() {
	if m.cursor < len(m.names)-1 {
		m.cursor++
	}
}

func (m AlgorithmsModel) indexOf(name string) int {
	for i, n := range m.names {
		if n == name {
			return i
		}
	}
	return -1
}

// calculateTableWidth returns the total width of the algorithm table row.
func calculateTableWidth() int {
	// 2 (cursor) + columns + 1 space between each of the 7 columns
	return 2 + colWidthRank + colWidthName + colWidthProgress + colWidthPct +
		colWidthDur + colWidthScratch + colWidthStatus + 6
}

// View renders the algorithm table.
func (m AlgorithmsModel) View() string {
	var b strings.Builder

	b.WriteString(sectionTitleStyle.Render("ALGORITHMS"))
	b.WriteString("\n\n")

	header := m.joinColumns("  ", "#", "Algorithm", "Progress", "%", "Best", "Scratch", "Status")
	b.WriteString(tableHeaderStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("━", calculateTableWidth())))

	for i := range m.names {
		b.WriteString("\n")
		b.WriteString(m.renderRow(i))
	}
	return b.String()
}

// joinColumns lays out one table line with the fixed column widths.
func (m AlgorithmsModel) joinColumns(lead, rank, name, bar, pct, dur, scratch, status string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lead,
		lipgloss.NewStyle().Width(colWidthRank).Render(rank), " ",
		lipgloss.NewStyle().Width(colWidthName).Render(name), " ",
		lipgloss.NewStyle().Width(colWidthProgress).Render(bar), " ",
		lipgloss.NewStyle().Width(colWidthPct).Align(lipgloss.Right).Render(pct), " ",
		lipgloss.NewStyle().Width(colWidthDur).Align(lipgloss.Right).Render(dur), " ",
		lipgloss.NewStyle().Width(colWidthScratch).Align(lipgloss.Right).Render(scratch), " ",
		status,
	)
}

// renderRow renders a single algorithm row.
func (m AlgorithmsModel) renderRow(idx int) string {
	status := m.statuses[idx]

	lead := "  "
	if idx == m.cursor {
		lead = cursorRowStyle.Render("► ")
	}

	rank := "-"
	if m.ranks[idx] > 0 {
		rank = strconv.Itoa(m.ranks[idx])
	}

	dur, scratch := "-", "-"
	switch status {
	case StatusComplete:
		dur = formatDuration(m.durations[idx])
		scratch = strconv.Itoa(m.scratch[idx])
	case StatusRunning:
		dur = "..."
	}

	statusCol := lipgloss.NewStyle().Width(colWidthStatus).Align(lipgloss.Center)
	switch status {
	case StatusRunning:
		statusCol = statusCol.Inherit(statusRunningStyle)
	case StatusComplete:
		statusCol = statusCol.Inherit(successStyle)
		if m.ranks[idx] == 1 {
			rank = successStyle.Render(rank)
		}
	case StatusSkipped:
		statusCol = statusCol.Inherit(dimStyle)
	case StatusError:
		statusCol = statusCol.Inherit(errorStyle)
	default:
		statusCol = statusCol.Inherit(dimStyle)
	}

	return m.joinColumns(lead,
		rank,
		truncateString(m.names[idx], colWidthName),
		renderProgressBar(m.progresses[idx], colWidthProgress),
		fmt.Sprintf("%.1f%%", m.progresses[idx]*100),
		dur,
		scratch,
		statusCol.Render(status.String()),
	)
}

// SelectedDetail describes the row under the cursor: its error when it
// failed or was skipped.
func (m AlgorithmsModel) SelectedDetail() string {
	if len(m.names) == 0 {
		return ""
	}
	idx := m.cursor
	switch m.statuses[idx] {
	case StatusSkipped, StatusError:
		if m.errs[idx] != nil {
			return m.names[idx] + ": " + m.errs[idx].Error()
		}
	case StatusComplete:
		return fmt.Sprintf("%s: best %s, %d scratch limbs", m.names[idx], formatDuration(m.durations[idx]), m.scratch[idx])
	}
	return ""
}

// truncateString truncates a string to maxLen characters, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// renderProgressBar renders a progress bar with exact width.
func renderProgressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	filled = max(0, min(filled, width))
	return progressFullStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func formatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}
