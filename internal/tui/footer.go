package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the key help and the run status.
type FooterModel struct {
	help   help.Model
	keys   KeyMap
	width  int
	paused bool
	done   bool
	failed bool
}

// NewFooterModel creates a new footer.
func NewFooterModel(keys KeyMap) FooterModel {
	h := help.New()
	h.Styles.ShortKey = valueStyle
	h.Styles.ShortDesc = labelStyle
	h.Styles.ShortSeparator = labelStyle
	return FooterModel{help: h, keys: keys}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

// SetPaused toggles the paused status.
func (f *FooterModel) SetPaused(paused bool) { f.paused = paused }

// SetDone toggles the done status.
func (f *FooterModel) SetDone(done bool) { f.done = done }

// SetError marks the run as failed.
func (f *FooterModel) SetError(failed bool) { f.failed = failed }

// Status returns the plain status label.
func (f FooterModel) Status() string {
	switch {
	case f.failed:
		return "FAILED"
	case f.done:
		return "DONE"
	case f.paused:
		return "PAUSED"
	default:
		return "RUNNING"
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	var status string
	switch label := f.Status(); label {
	case "FAILED":
		status = statusErrorStyle.Render(label)
	case "DONE":
		status = statusDoneStyle.Render(label)
	case "PAUSED":
		status = statusPausedStyle.Render(label)
	default:
		status = statusRunningStyle.Render(label)
	}

	keys := f.help.View(f.keys)
	gap := max(f.width-lipgloss.Width(keys)-lipgloss.Width(status)-2, 1)
	return " " + keys + spaces(gap) + status
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
