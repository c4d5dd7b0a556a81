package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/iterprogress/internal/cli"
	"github.com/agbru/iterprogress/internal/config"
	apperrors "github.com/agbru/iterprogress/internal/errors"
	"github.com/agbru/iterprogress/internal/logging"
	"github.com/agbru/iterprogress/internal/orchestration"
	"github.com/agbru/iterprogress/internal/tui"
	"github.com/agbru/iterprogress/internal/ui"
	"github.com/agbru/iterprogress/internal/workload"
)

// Application represents the iterprogress application instance.
type Application struct {
	Config    config.AppConfig
	Factory   workload.Factory
	ErrWriter io.Writer
	// Stdin is read by workloads whose input is "-".
	Stdin io.Reader
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom workload Factory for the application.
func WithFactory(f workload.Factory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithStdin sets the reader handed to workloads reading standard input.
func WithStdin(r io.Reader) AppOption {
	return func(a *Application) { a.Stdin = r }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, Stdin: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = workload.NewDefaultRegistry()
	}

	programName := "iterprogress"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	zerolog.SetGlobalLevel(a.logLevel())
	ui.InitTheme(a.Config.Theme, a.Config.NoColor)

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	workloads, err := orchestration.GetWorkloadsToRun(a.Config.Workloads, a.Factory)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	logger := a.newLogger()
	stack, err := newTelemetryStack(ctx, a.Config, logger)
	if err != nil {
		logger.Error("telemetry setup failed", err)
		return apperrors.ExitErrorGeneric
	}
	defer stack.Close(ctx)

	opts := orchestration.RunOptions{
		Sink:   stack.Sink(),
		RunID:  stack.RunID(),
		Stdin:  a.Stdin,
		Logger: logger.With(logging.String("run_id", stack.RunID().String())),
	}

	if a.Config.TUI {
		return tui.Run(ctx, workloads, a.Config, opts, Version)
	}
	return a.runCLI(ctx, workloads, opts, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runCLI runs the workloads with the spinner display, or silently in quiet
// mode, then prints the summary and writes it to the output file if one is
// configured.
func (a *Application) runCLI(ctx context.Context, workloads []workload.Workload, opts orchestration.RunOptions, out io.Writer) int {
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(workloads, out)
	}

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		reporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	results := orchestration.ExecuteWorkloads(ctx, workloads, a.Config, opts, reporter, progressOut)

	var exitCode int
	if a.Config.Quiet {
		cli.DisplayQuietSummary(out, results)
		exitCode = orchestration.Summarize(results, nopPresenter{}, io.Discard)
	} else {
		exitCode = orchestration.Summarize(results, cli.CLIResultPresenter{}, out)
	}

	if a.Config.Output != "" {
		if err := cli.WriteSummaryToFile(a.Config.Output, results, a.Config); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving summary: %v\n", err)
			if exitCode == apperrors.ExitSuccess {
				exitCode = apperrors.ExitErrorGeneric
			}
		} else if !a.Config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Summary saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), a.Config.Output, ui.ColorReset())
		}
	}
	return exitCode
}

// nopPresenter discards the summary; quiet mode prints its own.
type nopPresenter struct{}

func (nopPresenter) PresentSummary([]orchestration.RunResult, io.Writer) {}

// logLevel maps the verbosity flags to a zerolog level.
func (a *Application) logLevel() zerolog.Level {
	switch {
	case a.Config.Verbose:
		return zerolog.DebugLevel
	case a.Config.Quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// newLogger returns a console logger on ErrWriter. The dashboard owns the
// terminal, so TUI runs log nothing.
func (a *Application) newLogger() *logging.ZerologAdapter {
	if a.Config.TUI || a.ErrWriter == nil {
		return logging.Nop()
	}
	return logging.NewConsoleLogger(a.ErrWriter, ui.GetCurrentTheme().Name == ui.NoColorTheme.Name)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
