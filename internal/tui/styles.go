package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigmul/internal/ui"
)

// Dashboard styles, derived from the active ui theme by initTUIStyles.
var (
	panelStyle        lipgloss.Style
	headerStyle       lipgloss.Style
	titleStyle        lipgloss.Style
	versionStyle      lipgloss.Style
	elapsedStyle      lipgloss.Style
	sectionTitleStyle lipgloss.Style
	tableHeaderStyle  lipgloss.Style
	cursorRowStyle    lipgloss.Style
	dimStyle          lipgloss.Style

	progressFullStyle  lipgloss.Style
	progressEmptyStyle lipgloss.Style
	metricLabelStyle   lipgloss.Style
	metricValueStyle   lipgloss.Style
	sparklineStyle     lipgloss.Style

	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	errorStyle   lipgloss.Style

	// Status badges of the footer: running, paused, done, failed.
	statusRunningStyle lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles derives every style from the current theme. Run calls it
// again once app.Run has picked the theme.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()
	fg := func(c lipgloss.TerminalColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	bold := func(c lipgloss.TerminalColor) lipgloss.Style { return fg(c).Bold(true) }

	panelStyle = fg(t.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	headerStyle = bold(t.Accent).Padding(0, 1)
	titleStyle = bold(t.Accent)
	versionStyle = fg(t.Dim)
	elapsedStyle = fg(t.Accent)
	sectionTitleStyle = bold(t.Text)
	tableHeaderStyle = bold(t.Dim)
	cursorRowStyle = bold(t.Accent)
	dimStyle = fg(t.Dim)

	progressFullStyle = fg(t.Accent)
	progressEmptyStyle = fg(t.Dim)
	metricLabelStyle = fg(t.Dim)
	metricValueStyle = bold(t.Accent)
	sparklineStyle = fg(t.Warning)

	successStyle = fg(t.Success)
	warningStyle = fg(t.Warning)
	errorStyle = fg(t.Error)

	statusRunningStyle = bold(t.Success)
	statusPausedStyle = bold(t.Warning)
	statusDoneStyle = bold(t.Accent)
	statusErrorStyle = bold(t.Error)
}
