package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/iterprogress/internal/format"
)

// HeaderModel renders the top bar: title, version, elapsed time and, once a
// fraction is known, the overall progress and ETA.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	width     int
	average   float64
	eta       time.Duration
	known     bool
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
	}
}

// SetProgress records the aggregated progress shown on the right.
func (h *HeaderModel) SetProgress(average float64, eta time.Duration, known bool) {
	h.average = average
	h.eta = eta
	h.known = h.known || known
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
	h.average, h.eta, h.known = 0, 0, false
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since start, frozen once SetDone was called.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "iterprogress"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	title := titleStyle.Render(titleText)
	pipe := versionStyle.Render(" | ")
	elapsed := elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed())))
	leftPart := title + pipe + elapsed

	var rightPart string
	if h.known {
		rightPart = elapsedStyle.Render(fmt.Sprintf("%.1f%%", h.average*100))
		if h.endTime.IsZero() && h.eta > 0 {
			rightPart += pipe + elapsedStyle.Render("ETA "+format.FormatETA(h.eta))
		}
	}

	innerWidth := max(h.width-2, 0)
	gap := max(innerWidth-lipgloss.Width(leftPart)-lipgloss.Width(rightPart), 1)

	return headerStyle.Width(h.width).Render(leftPart + strings.Repeat(" ", gap) + rightPart)
}
