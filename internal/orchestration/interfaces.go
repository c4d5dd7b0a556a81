package orchestration

import (
	"io"
	"sync"

	"github.com/agbru/iterprogress/progress"
)

// Update is a progress observation forwarded from a workload goroutine to the
// ProgressReporter.
type Update struct {
	// Index is the position of the workload in the run.
	Index int
	// Workload is the workload name.
	Workload string
	// Record is the progress record the update was built from.
	Record progress.Record
	// Done marks the final update of a workload, sent whether or not a
	// trigger fired.
	Done bool
}

// ProgressReporter defines the interface for displaying workload progress.
// This interface decouples the orchestration layer from the presentation layer.
//
// Implementations handle the visual representation of progress (spinners,
// progress bars, etc.) while the orchestration layer focuses on running
// the workloads.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed, then
	// calls wg.Done.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving updates from the workloads.
	//   - workloads: The workload names, indexed like Update.Index.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan Update, workloads []string, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan Update, workloads []string, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan Update, workloads []string, out io.Writer) {
	f(wg, progressChan, workloads, out)
}

// NullProgressReporter is a no-op implementation of ProgressReporter.
// It drains the progress channel without displaying anything.
// Useful for quiet mode or testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan Update, _ []string, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter defines the interface for presenting run results.
type ResultPresenter interface {
	// PresentSummary displays one row per workload. Results are already
	// sorted, successes first.
	PresentSummary(results []RunResult, out io.Writer)
}
