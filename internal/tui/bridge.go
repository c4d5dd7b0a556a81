package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/iterprogress/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter.
// It drains the progress channel and forwards updates as bubbletea messages.
type TUIProgressReporter struct {
	ref *programRef
	gen uint64
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains the progress channel and sends a WorkloadProgressMsg
// per update.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.Update, workloads []string, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(workloads)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	for update := range progressChan {
		ap := agg.Update(update)
		t.ref.Send(WorkloadProgressMsg{
			Index:           ap.Index,
			Workload:        ap.Workload,
			Record:          ap.Record,
			Fraction:        ap.Fraction,
			HasFraction:     ap.HasFraction,
			AverageProgress: ap.AverageProgress,
			ETA:             ap.ETA,
			TotalItems:      ap.TotalItems,
			Done:            ap.Done,
			Generation:      t.gen,
		})
	}
	t.ref.Send(ProgressDoneMsg{Generation: t.gen})
}

// TUIResultPresenter implements orchestration.ResultPresenter.
// It sends the results to the TUI instead of writing to stdout.
type TUIResultPresenter struct {
	ref *programRef
	gen uint64
}

var _ orchestration.ResultPresenter = (*TUIResultPresenter)(nil)

// PresentSummary sends a copy of the results to the TUI.
func (t *TUIResultPresenter) PresentSummary(results []orchestration.RunResult, _ io.Writer) {
	t.ref.Send(SummaryMsg{Results: append([]orchestration.RunResult(nil), results...), Generation: t.gen})
}
