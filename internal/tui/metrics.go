package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigmul/internal/format"
	"github.com/agbru/bigmul/internal/memory"
	"github.com/agbru/bigmul/internal/mul"
	"github.com/agbru/bigmul/internal/orchestration"
)

// heapHistory is the number of heap samples kept for the sparkline.
const heapHistory = 64

// runHistory is the number of reruns whose best time is plotted.
const runHistory = 32

// MetricsModel displays runtime memory figures and the summary of a run.
type MetricsModel struct {
	alloc        uint64
	heapSys      uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int
	heap         *history
	bestTimes    *history

	average float64
	eta     time.Duration

	fastest  *orchestration.MultiplicationResult
	baseline time.Duration
	verified int
	skipped  int
	failed   int
	runErr   error

	width int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{heap: newHistory(heapHistory), bestTimes: newHistory(runHistory)}
}

// SetWidth updates the available width. The heap history keeps as many
// samples as the sparkline has columns.
func (m *MetricsModel) SetWidth(w int) {
	m.width = w
	m.heap.fit(max(w-20, 8))
}

// UpdateMemStats records a runtime sample. The sparkline plots the live
// heap as a percentage of the heap obtained from the OS.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapSys = msg.HeapSys
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
	if msg.HeapSys > 0 {
		m.heap.add(float64(msg.Alloc) / float64(msg.HeapSys) * 100)
	}
}

// UpdateProgress records the aggregated progress of the run.
func (m *MetricsModel) UpdateProgress(average float64, eta time.Duration) {
	m.average = average
	m.eta = eta
}

// SetResults counts the outcomes of a run and keeps the basecase time
// the speedup is measured against.
func (m *MetricsModel) SetResults(results []orchestration.MultiplicationResult) {
	m.verified, m.skipped, m.failed = 0, 0, 0
	m.baseline = 0
	for _, res := range results {
		switch {
		case res.Skipped:
			m.skipped++
		case res.Err != nil:
			m.failed++
		default:
			m.verified++
			if res.Name == mul.Basecase.String() {
				m.baseline = res.Duration
			}
		}
	}
}

// SetFastest records the fastest verified result and adds its time to
// the rerun history.
func (m *MetricsModel) SetFastest(res orchestration.MultiplicationResult) {
	m.fastest = &res
	m.bestTimes.add(float64(res.Duration))
}

// SetError records the error that decided the exit code.
func (m *MetricsModel) SetError(err error) {
	m.runErr = err
}

// Reset clears the run summary, keeping the heap and rerun histories.
func (m *MetricsModel) Reset() {
	m.average, m.eta = 0, 0
	m.fastest = nil
	m.baseline = 0
	m.verified, m.skipped, m.failed = 0, 0, 0
	m.runErr = nil
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	colWidth := max((m.width-6)/2, 24)
	var rows []string

	rows = append(rows,
		formatMetricCol("Heap:", memory.FormatBytes(m.alloc)+" / "+memory.FormatBytes(m.heapSys), colWidth)+
			formatMetricCol("GC:", fmt.Sprintf("%d (%.1fms)", m.numGC, float64(m.pauseTotalNs)/1e6), colWidth),
		formatMetricCol("Progress:", fmt.Sprintf("%.1f%%", m.average*100), colWidth)+
			formatMetricCol("ETA:", format.FormatETA(m.eta), colWidth),
		formatMetricCol("Goroutines:", fmt.Sprintf("%d", m.numGoroutine), colWidth)+
			formatMetricCol("Engines:", fmt.Sprintf("%d ok, %d skipped, %d failed", m.verified, m.skipped, m.failed), colWidth),
	)

	if heap := m.heap.values(); len(heap) > 0 {
		rows = append(rows, sparkRow("Heap use:", RenderSparkline(heap, 0, 100), ""))
	}
	if times := m.bestTimes.values(); len(times) > 1 {
		lo, hi := spanOf(times)
		rows = append(rows, sparkRow("Best times:", RenderSparkline(times, lo, hi),
			formatDuration(time.Duration(m.bestTimes.last()))))
	}

	if m.fastest != nil {
		line := formatMetricCol("Fastest:", m.fastest.Name+" in "+formatDuration(m.fastest.Duration), colWidth)
		if m.baseline > 0 && m.fastest.Duration > 0 {
			line += formatMetricCol("vs basecase:", fmt.Sprintf("x%.2f", float64(m.baseline)/float64(m.fastest.Duration)), colWidth)
		}
		rows = append(rows, line)
		if m.failed == 0 && m.runErr == nil {
			rows = append(rows, " "+successStyle.Render("✓ all products match "+orchestration.ReferenceName))
		}
	}
	if m.runErr != nil {
		rows = append(rows, " "+errorStyle.Render("✗ "+m.runErr.Error()))
	}

	return panelStyle.Width(max(m.width-2, 0)).Render(strings.Join(rows, "\n"))
}

func sparkRow(label, spark, suffix string) string {
	row := " " + metricLabelStyle.Render(fmt.Sprintf("%-12s", label)) + " " + sparklineStyle.Render(spark)
	if suffix != "" {
		row += " " + metricValueStyle.Render(suffix)
	}
	return row
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-12s", label)),
		metricValueStyle.Render(value))
	// Pad to fixed column width using lipgloss-aware width
	visible := lipgloss.Width(cell)
	if visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}
