package tui

import (
	"fmt"
	"strings"
	"time"

	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/iterprogress/internal/format"
	"github.com/agbru/iterprogress/internal/orchestration"
	"github.com/agbru/iterprogress/internal/ui"
	"github.com/agbru/iterprogress/progress"
)

const (
	// linesPerRow is the height of one workload entry.
	linesPerRow = 2
	nameWidth   = 10
	minBarWidth = 10
	rowReserved = nameWidth + 16
)

// workloadRow is the display state of one workload.
type workloadRow struct {
	name        string
	rec         progress.Record
	seen        bool
	fraction    float64
	hasFraction bool
	done        bool
	err         error
	duration    time.Duration
}

// WorkloadsModel renders one entry per workload: a progress bar when the
// fraction is known, a spinner otherwise, and the record's rates and ETA.
type WorkloadsModel struct {
	rows    []workloadRow
	bar     progressbar.Model
	spinner spinner.Model
	offset  int
	width   int
	height  int
}

// NewWorkloadsModel creates the panel for the named workloads.
func NewWorkloadsModel(names []string) WorkloadsModel {
	rows := make([]workloadRow, len(names))
	for i, name := range names {
		rows[i] = workloadRow{name: name}
	}
	return WorkloadsModel{
		rows:    rows,
		bar:     newBar(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
	}
}

func newBar() progressbar.Model {
	t := ui.GetCurrentTUITheme()
	fill := progressbar.WithGradient(t.BarStart, t.BarEnd)
	if t.BarStart == "" {
		fill = progressbar.WithSolidFill("")
	}
	return progressbar.New(fill, progressbar.WithoutPercentage())
}

// SetSize updates dimensions.
func (m *WorkloadsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.bar.Width = max(w-rowReserved, minBarWidth)
	m.clampOffset()
}

// Apply folds a progress message into the matching row.
func (m *WorkloadsModel) Apply(msg WorkloadProgressMsg) {
	if msg.Index < 0 || msg.Index >= len(m.rows) {
		return
	}
	r := &m.rows[msg.Index]
	r.rec = msg.Record
	r.seen = true
	r.fraction, r.hasFraction = msg.Fraction, msg.HasFraction
	r.done = r.done || msg.Done
}

// ApplySummary records the outcome of every workload.
func (m *WorkloadsModel) ApplySummary(results []orchestration.RunResult) {
	for _, res := range results {
		for i := range m.rows {
			if m.rows[i].name != res.Name {
				continue
			}
			m.rows[i].done = true
			m.rows[i].err = res.Err
			m.rows[i].duration = res.Duration
			if res.Last != nil && !m.rows[i].seen {
				m.rows[i].rec = *res.Last
				m.rows[i].seen = true
			}
		}
	}
}

// Reset clears every row.
func (m *WorkloadsModel) Reset() {
	for i := range m.rows {
		m.rows[i] = workloadRow{name: m.rows[i].name}
	}
	m.offset = 0
}

// ScrollUp moves the view one entry up.
func (m *WorkloadsModel) ScrollUp() {
	m.offset--
	m.clampOffset()
}

// ScrollDown moves the view one entry down.
func (m *WorkloadsModel) ScrollDown() {
	m.offset++
	m.clampOffset()
}

func (m *WorkloadsModel) visibleRows() int {
	return max((m.height-2)/linesPerRow, 1)
}

func (m *WorkloadsModel) clampOffset() {
	m.offset = min(m.offset, max(len(m.rows)-m.visibleRows(), 0))
	m.offset = max(m.offset, 0)
}

// Update advances the spinner.
func (m WorkloadsModel) Update(msg tea.Msg) (WorkloadsModel, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// View renders the visible entries.
func (m WorkloadsModel) View() string {
	var sb strings.Builder
	if len(m.rows) == 0 {
		sb.WriteString(labelStyle.Render("No workload selected"))
	}
	end := min(m.offset+m.visibleRows(), len(m.rows))
	for i := m.offset; i < end; i++ {
		if i > m.offset {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderRow(m.rows[i]))
	}
	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(sb.String())
}

func (m WorkloadsModel) renderRow(r workloadRow) string {
	var status string
	switch {
	case r.err != nil:
		status = errorStyle.Render("✗")
	case r.done:
		status = successStyle.Render("✓")
	default:
		status = m.spinner.View()
	}

	name := nameStyle.Render(fmt.Sprintf("%-*s", nameWidth, truncate(r.name, nameWidth)))

	var gauge string
	switch {
	case r.done && r.err == nil:
		gauge = m.bar.ViewAs(1) + valueStyle.Render(" 100.0%")
	case r.hasFraction:
		gauge = m.bar.ViewAs(r.fraction) + valueStyle.Render(fmt.Sprintf(" %5.1f%%", r.fraction*100))
	default:
		gauge = labelStyle.Render(strings.Repeat("·", m.bar.Width))
	}

	return fmt.Sprintf(" %s %s %s\n   %s", status, name, gauge, detailLine(r))
}

// detailLine renders the item count, rates and ETA or the final outcome.
func detailLine(r workloadRow) string {
	if !r.seen && r.err == nil {
		return labelStyle.Render("waiting for the first item")
	}
	parts := []string{
		labelStyle.Render("items ") + valueStyle.Render(format.FormatNumberString(fmt.Sprint(r.rec.NumDone()))),
		labelStyle.Render("rate ") + valueStyle.Render(format.FormatRate(r.rec.Rate())),
	}
	if v, ok := r.rec.RollingAvgRate(); ok {
		parts = append(parts, labelStyle.Render("rolling ")+valueStyle.Render(format.FormatRate(v)))
	}
	if v, ok := r.rec.ExpAvgRate(); ok {
		parts = append(parts, labelStyle.Render("exp ")+valueStyle.Render(format.FormatRate(v)))
	}
	switch {
	case r.err != nil:
		parts = append(parts, errorStyle.Render(r.err.Error()))
	case r.done && r.duration > 0:
		parts = append(parts, labelStyle.Render("took ")+valueStyle.Render(format.FormatExecutionDuration(r.duration)))
	case !r.done:
		if eta, ok := r.rec.ETA(); ok {
			parts = append(parts, labelStyle.Render("ETA ")+valueStyle.Render(format.FormatETA(eta)))
		}
	}
	return strings.Join(parts, labelStyle.Render("  "))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
