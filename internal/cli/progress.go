package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/iterprogress/internal/format"
	"github.com/agbru/iterprogress/internal/orchestration"
)

// DisplayProgress renders a spinner line until progressChan is closed. The
// line shows the aggregate bar and ETA once any workload knows its fraction,
// and the item count and throughput otherwise.
//
// Parameters:
//   - wg: Signalled when the display has stopped.
//   - progressChan: The updates forwarded by the orchestrator.
//   - workloads: The workload names, indexed like Update.Index.
//   - out: The writer the spinner draws on.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.Update, workloads []string, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(workloads)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	width := barWidth(out)
	s := newSpinner(spinner.WithWriter(out), spinner.WithHiddenCursor(true))
	s.UpdateSuffix(progressSuffix(agg, width))
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case u, ok := <-progressChan:
			if !ok {
				s.Stop()
				fmt.Fprintln(out, progressSuffix(agg, width))
				return
			}
			agg.Update(u)
			s.UpdateSuffix(progressSuffix(agg, width))
		case <-ticker.C:
			s.UpdateSuffix(progressSuffix(agg, width))
		}
	}
}

// progressSuffix formats the status text shown after the spinner.
func progressSuffix(agg *orchestration.ProgressAggregator, width int) string {
	label := ""
	if agg.IsMultiWorkload() {
		label = fmt.Sprintf(" %d workloads", agg.NumWorkloads())
	}
	items := format.FormatNumberString(fmt.Sprint(agg.TotalItems()))
	if agg.AnyFractionKnown() {
		return fmt.Sprintf("%s %s | %s items", label, format.FormatProgressBarWithETA(agg.CalculateAverage(), agg.GetETA(), width), items)
	}
	return fmt.Sprintf("%s %s items | %s", label, items, format.FormatRate(agg.TotalRate()))
}

// barWidth sizes the progress bar to the terminal behind out, leaving room
// for the counters.
func barWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok {
		return ProgressBarWidth
	}
	cols := terminalWidth(f)
	if cols <= 0 {
		return ProgressBarWidth
	}
	return min(max(cols-50, minBarWidth), ProgressBarWidth)
}
