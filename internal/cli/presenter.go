package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/agbru/iterprogress/internal/format"
	"github.com/agbru/iterprogress/internal/orchestration"
	"github.com/agbru/iterprogress/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter for CLI output.
// It wraps the DisplayProgress function to provide a spinner and progress bar
// display while workloads run.
type CLIProgressReporter struct{}

// Verify that CLIProgressReporter implements orchestration.ProgressReporter.
var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for running workloads.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.Update, workloads []string, out io.Writer) {
	DisplayProgress(wg, progressChan, workloads, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter for CLI output.
type CLIResultPresenter struct{}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// summaryRow is one formatted line of the summary table.
type summaryRow struct {
	name, items, duration, rate string
	err                         error
}

func buildRows(results []orchestration.RunResult) []summaryRow {
	rows := make([]summaryRow, len(results))
	for i, res := range results {
		rate := "-"
		if res.Last != nil {
			rate = format.FormatRate(res.Last.Rate())
		}
		duration := format.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		rows[i] = summaryRow{
			name:     res.Name,
			items:    format.FormatNumberString(fmt.Sprint(res.Items)),
			duration: duration,
			rate:     rate,
			err:      res.Err,
		}
	}
	return rows
}

// PresentSummary displays the summary table with workload names, item
// counts, durations, throughput and status. Uses manual padding to correctly
// handle ANSI color codes.
func (CLIResultPresenter) PresentSummary(results []orchestration.RunResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Run Summary ---\n")

	headers := [4]string{"Workload", "Items", "Duration", "Rate"}
	widths := [4]int{}
	for i, h := range headers {
		widths[i] = len(h)
	}
	rows := buildRows(results)
	for _, r := range rows {
		for i, cell := range [4]string{r.name, r.items, r.duration, r.rate} {
			widths[i] = max(widths[i], len([]rune(cell)))
		}
	}

	for i, h := range headers {
		fmt.Fprintf(out, "%s%s%s%s   ", ui.ColorUnderline(), h, ui.ColorReset(), padRight("", widths[i]-len(h)))
	}
	fmt.Fprintf(out, "%sStatus%s\n", ui.ColorUnderline(), ui.ColorReset())

	for _, r := range rows {
		status := fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
		if r.err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), r.err, ui.ColorReset())
		}
		colors := [4]string{ui.ColorBlue(), ui.ColorCyan(), ui.ColorYellow(), ui.ColorMagenta()}
		for i, cell := range [4]string{r.name, r.items, r.duration, r.rate} {
			fmt.Fprintf(out, "%s%s%s%s   ", colors[i], cell, ui.ColorReset(), padRight("", widths[i]-len([]rune(cell))))
		}
		fmt.Fprintln(out, status)
	}
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}
