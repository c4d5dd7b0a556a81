// Package config parses and validates the command-line configuration of
// iterprogress. Values are resolved in the order CLI flags, then
// ITERPROGRESS_* environment variables, then defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/iterprogress/internal/errors"
	"github.com/agbru/iterprogress/progress"
)

// EnvPrefix is prepended to every environment variable the configuration
// reads.
const EnvPrefix = "ITERPROGRESS_"

// Defaults applied when neither a flag nor an environment variable is set.
const (
	DefaultWorkload = "ticker"
	DefaultN        = 100
	DefaultStep     = 20 * time.Millisecond
	DefaultEvery    = 250 * time.Millisecond
	DefaultSample   = 1
	DefaultTimeout  = 5 * time.Minute
	DefaultTheme    = "dark"
)

// Themes lists the accepted -theme values.
var Themes = []string{"dark", "light", "orange", "none"}

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Workloads lists the workloads to run concurrently.
	Workloads []string
	// N is the number of items for sized workloads, and the cap for unbounded
	// ones (0 leaves them uncapped).
	N uint64
	// Step is the synthetic per-item delay of the ticker workload.
	Step time.Duration
	// Input is the file read by the lines workload ("-" for stdin).
	Input string

	// Every forwards a progress update whenever a multiple of this duration
	// is crossed. Zero disables the time trigger.
	Every time.Duration
	// EveryItems forwards a progress update every n items. Zero disables the
	// item trigger.
	EveryItems uint64

	// Window is the rolling average window size; 0 disables it.
	Window int
	// ExpRate is the exponential average smoothing factor; 0 disables it.
	ExpRate float64
	// AssumeSize is the total assumed for sequences of unknown length; 0
	// leaves the size unknown.
	AssumeSize uint64
	// Sample builds a record only on every Sample-th item.
	Sample uint64

	Timeout     time.Duration
	Verbose     bool
	Quiet       bool
	TUI         bool
	MetricsAddr string
	Trace       bool
	// Output is the path the run summary is written to; empty disables it.
	Output string
	// Theme names the colour scheme: dark, light, orange or none.
	Theme   string
	NoColor bool
	// Completion names a shell to print a completion script for instead of
	// running.
	Completion string
}

// ParseConfig parses args into an AppConfig, applies environment overrides
// for flags that were not given explicitly, and validates the result against
// the available workloads. Usage errors are written to errWriter.
func ParseConfig(programName string, args []string, errWriter io.Writer, availableWorkloads []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	var (
		cfg       AppConfig
		workloads string
	)
	fs.StringVar(&workloads, "workload", DefaultWorkload, fmt.Sprintf("Comma-separated workloads to run (%s, or all).", strings.Join(availableWorkloads, ", ")))
	fs.Uint64Var(&cfg.N, "n", DefaultN, "Number of items to produce (cap for unbounded workloads).")
	fs.DurationVar(&cfg.Step, "step", DefaultStep, "Per-item delay of the ticker workload.")
	fs.StringVar(&cfg.Input, "input", "", "File read by the lines workload (- for stdin).")
	fs.DurationVar(&cfg.Every, "every", DefaultEvery, "Report progress every time this interval is crossed (0 disables).")
	fs.Uint64Var(&cfg.EveryItems, "every-items", 0, "Report progress every n items (0 disables).")
	fs.IntVar(&cfg.Window, "window", 0, "Rolling average window size (0 disables).")
	fs.Float64Var(&cfg.ExpRate, "exp-rate", 0, "Exponential average smoothing factor in (0, 1] (0 disables).")
	fs.Uint64Var(&cfg.AssumeSize, "assume-size", 0, "Total size assumed for sequences of unknown length.")
	fs.Uint64Var(&cfg.Sample, "sample", DefaultSample, "Build a progress record only every n items.")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum run time.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Enable debug logging (shorthand).")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Only print the final summary (shorthand).")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Only print the final summary.")
	fs.BoolVar(&cfg.TUI, "tui", false, "Show the interactive dashboard.")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090).")
	fs.BoolVar(&cfg.Trace, "trace", false, "Emit an OpenTelemetry span per workload run.")
	fs.StringVar(&cfg.Output, "o", "", "Write the run summary to this file (shorthand).")
	fs.StringVar(&cfg.Output, "output", "", "Write the run summary to this file.")
	fs.StringVar(&cfg.Theme, "theme", DefaultTheme, fmt.Sprintf("Colour theme (%s).", strings.Join(Themes, ", ")))
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colours (also honours NO_COLOR).")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script for this shell (bash, zsh, fish) and exit.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	cfg.Workloads = splitList(workloads)
	applyEnvOverrides(&cfg, fs)

	if err := cfg.Validate(availableWorkloads); err != nil {
		fmt.Fprintf(errWriter, "Configuration error: %v\n", err)
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency. A nil
// availableWorkloads skips the workload name check; "all" is always accepted.
func (c AppConfig) Validate(availableWorkloads []string) error {
	if len(c.Workloads) == 0 {
		return apperrors.NewConfigError("no workload selected")
	}
	for _, w := range c.Workloads {
		if w == "all" {
			continue
		}
		if availableWorkloads != nil && !slices.Contains(availableWorkloads, w) {
			return apperrors.NewConfigError("unknown workload %q (available: %s)", w, strings.Join(availableWorkloads, ", "))
		}
		if w == "lines" && c.Input == "" {
			return apperrors.NewConfigError("the lines workload requires -input")
		}
		if (w == "fib" || w == "ticker") && c.N == 0 {
			return apperrors.NewConfigError("the %s workload requires -n > 0", w)
		}
	}
	switch {
	case c.Window < 0:
		return invalid("window", "must be non-negative, got %d", c.Window)
	case c.ExpRate < 0 || c.ExpRate > 1 || math.IsNaN(c.ExpRate):
		return invalid("exp-rate", "must be in [0, 1], got %v", c.ExpRate)
	case c.Sample == 0:
		return invalid("sample", "must be at least 1")
	case c.Every < 0:
		return invalid("every", "must be non-negative, got %s", c.Every)
	case c.Step < 0:
		return invalid("step", "must be non-negative, got %s", c.Step)
	case c.Timeout <= 0:
		return invalid("timeout", "must be positive, got %s", c.Timeout)
	case c.Verbose && c.Quiet:
		return apperrors.NewConfigError("-verbose and -quiet are mutually exclusive")
	case c.TUI && c.Quiet:
		return apperrors.NewConfigError("-tui and -quiet are mutually exclusive")
	case c.TUI && c.Output != "":
		return apperrors.NewConfigError("-tui and -output are mutually exclusive")
	case c.Theme != "" && !slices.Contains(Themes, c.Theme):
		return apperrors.NewConfigError("unknown theme %q (available: %s)", c.Theme, strings.Join(Themes, ", "))
	}
	return nil
}

func invalid(name, format string, args ...any) error {
	return apperrors.ValidationError{Field: "-" + name, Message: fmt.Sprintf(format, args...)}
}

// ToOptions maps the statistics settings to decorator options.
func (c AppConfig) ToOptions() []progress.Option {
	var opts []progress.Option
	if c.Window > 0 {
		opts = append(opts, progress.WithRollingAverage(c.Window))
	}
	if c.ExpRate > 0 {
		opts = append(opts, progress.WithExpAverage(c.ExpRate))
	}
	if c.AssumeSize > 0 {
		opts = append(opts, progress.WithAssumedSize(c.AssumeSize))
	}
	return opts
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" && !slices.Contains(out, part) {
			out = append(out, part)
		}
	}
	return out
}
