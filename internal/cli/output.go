// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* and Print* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayProgress], [DisplayQuietSummary], [PrintExecutionConfig].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietSummary].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteSummaryToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/agbru/iterprogress/internal/config"
	"github.com/agbru/iterprogress/internal/orchestration"
	"github.com/agbru/iterprogress/internal/ui"
	"github.com/agbru/iterprogress/internal/workload"
)

// PrintExecutionConfig displays the run configuration: item count, timeout,
// triggers and the statistics being tracked.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Producing %s%d%s items with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), cfg.N, ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	fmt.Fprintf(out, "Reporting: every=%s%s%s, every-items=%s%d%s, sample=%s%d%s.\n",
		ui.ColorCyan(), cfg.Every, ui.ColorReset(),
		ui.ColorCyan(), cfg.EveryItems, ui.ColorReset(),
		ui.ColorCyan(), cfg.Sample, ui.ColorReset())
	if cfg.Window > 0 || cfg.ExpRate > 0 || cfg.AssumeSize > 0 {
		fmt.Fprintf(out, "Statistics: window=%s%d%s, exp-rate=%s%g%s, assume-size=%s%d%s.\n",
			ui.ColorCyan(), cfg.Window, ui.ColorReset(),
			ui.ColorCyan(), cfg.ExpRate, ui.ColorReset(),
			ui.ColorCyan(), cfg.AssumeSize, ui.ColorReset())
	}
}

// PrintExecutionMode displays whether one workload or several run.
func PrintExecutionMode(workloads []workload.Workload, out io.Writer) {
	var modeDesc string
	switch len(workloads) {
	case 0:
		modeDesc = "No workload selected"
	case 1:
		modeDesc = fmt.Sprintf("Single run of the %s%s%s workload",
			ui.ColorGreen(), workloads[0].Name, ui.ColorReset())
	default:
		names := make([]string, len(workloads))
		for i, w := range workloads {
			names[i] = w.Name
		}
		modeDesc = fmt.Sprintf("Concurrent run of %s%s%s",
			ui.ColorGreen(), strings.Join(names, ", "), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

// FormatQuietSummary returns one tab-separated line per workload: name,
// items, duration and status. Suitable for scripting.
func FormatQuietSummary(results []orchestration.RunResult) string {
	var b strings.Builder
	for _, res := range results {
		status := "ok"
		if res.Err != nil {
			status = "error: " + res.Err.Error()
		}
		fmt.Fprintf(&b, "%s\t%d\t%s\t%s\n", res.Name, res.Items, res.Duration, status)
	}
	return b.String()
}

// DisplayQuietSummary outputs the results in quiet mode.
func DisplayQuietSummary(out io.Writer, results []orchestration.RunResult) {
	fmt.Fprint(out, FormatQuietSummary(results))
}

// WriteSummaryToFile writes the results to path, creating parent
// directories as needed. An empty path is a no-op.
func WriteSummaryToFile(path string, results []orchestration.RunResult, cfg config.AppConfig) error {
	if path == "" {
		return nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# iterprogress run summary\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Workloads: %s\n", strings.Join(cfg.Workloads, ","))
	fmt.Fprintf(file, "# N: %d\n", cfg.N)
	fmt.Fprintf(file, "\n")
	fmt.Fprint(file, FormatQuietSummary(results))

	return file.Close()
}
