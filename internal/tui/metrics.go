package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/iterprogress/internal/format"
	"github.com/agbru/iterprogress/internal/sysmon"
)

// throughputHistorySize is the number of throughput samples kept for the
// sparkline.
const throughputHistorySize = 120

// MetricsModel displays resource usage and the aggregated throughput of the
// run.
type MetricsModel struct {
	stats sysmon.Snapshot

	totalItems uint64
	lastItems  uint64
	lastUpdate time.Time
	throughput float64 // smoothed items per second
	history    *rateHistory

	width  int
	height int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{
		lastUpdate: time.Now(),
		history:    newRateHistory(throughputHistorySize),
	}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateRuntimeStats stores a resource sample.
func (m *MetricsModel) UpdateRuntimeStats(msg RuntimeStatsMsg) {
	m.stats = msg.Snapshot
}

// UpdateItems records the total item count across workloads.
func (m *MetricsModel) UpdateItems(total uint64) {
	m.totalItems = total
}

// Sample folds the items pulled since the previous sample into the smoothed
// throughput and appends it to the history. Called on every tick.
func (m *MetricsModel) Sample(now time.Time) {
	dt := now.Sub(m.lastUpdate).Seconds()
	if dt <= 0.05 {
		return
	}
	var instant float64
	if m.totalItems > m.lastItems {
		instant = float64(m.totalItems-m.lastItems) / dt
	}
	if m.history.Len() > 0 {
		m.throughput = 0.7*m.throughput + 0.3*instant
	} else {
		m.throughput = instant
	}
	m.history.Push(m.throughput)
	m.lastItems = m.totalItems
	m.lastUpdate = now
}

// Throughput returns the smoothed items per second.
func (m MetricsModel) Throughput() float64 {
	return m.throughput
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	var rows strings.Builder

	st := m.stats
	heapStr := valueStyle.Render(formatBytes(st.HeapAlloc) + " / " + formatBytes(st.HeapSys))
	gcStr := valueStyle.Render(fmt.Sprintf("%d (%.1fms)", st.NumGC, float64(st.PauseTotalNs)/1e6))
	pipe := labelStyle.Render(" | ")
	rows.WriteString(fmt.Sprintf("  %s %s%s%s %s%s%s %s",
		labelStyle.Render("Heap:"), heapStr,
		pipe,
		labelStyle.Render("GC:"), gcStr,
		pipe,
		labelStyle.Render("Goroutines:"), valueStyle.Render(fmt.Sprint(st.Goroutines))))

	colWidth := max((m.width-6)/2, 0)
	rows.WriteString("\n")
	rows.WriteString(formatMetricCol("CPU:", fmt.Sprintf("%.1f%%", st.CPUPercent), colWidth))
	rows.WriteString(formatMetricCol("Memory:", fmt.Sprintf("%.1f%%", st.MemPercent), colWidth))
	rows.WriteString("\n")
	rows.WriteString(formatMetricCol("Items:", format.FormatNumberString(fmt.Sprint(m.totalItems)), colWidth))
	rows.WriteString(formatMetricCol("Throughput:", format.FormatRate(m.throughput), colWidth))

	if w := m.width - 6; w > 0 {
		rows.WriteString("\n  ")
		rows.WriteString(sparklineStyle.Render(renderSparkline(m.history.Slice(), w)))
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(rows.String())
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		labelStyle.Render(fmt.Sprintf("%-12s", label)),
		valueStyle.Render(value))
	// Pad to fixed column width using lipgloss-aware width
	if visible := lipgloss.Width(cell); visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
