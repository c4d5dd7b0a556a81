package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/iterprogress/internal/config"
	apperrors "github.com/agbru/iterprogress/internal/errors"
	"github.com/agbru/iterprogress/internal/logging"
	"github.com/agbru/iterprogress/internal/telemetry"
	"github.com/agbru/iterprogress/internal/workload"
	"github.com/agbru/iterprogress/progress"
)

// RunResult encapsulates the outcome of a single workload run.
type RunResult struct {
	// Name is the workload name.
	Name string
	// Items is the number of items pulled before the run ended.
	Items uint64
	// Duration is the wall-clock time of the run.
	Duration time.Duration
	// Last is the last record built, or nil if none was.
	Last *progress.Record
	// Err contains any error that ended the run early.
	Err error
}

// RunOptions carries the collaborators of ExecuteWorkloads. Zero values are
// replaced by no-op defaults.
type RunOptions struct {
	// Sink receives the start, progress and completion events.
	Sink telemetry.Sink
	// RunID tags every event; a random one is generated when zero.
	RunID uuid.UUID
	// Stdin is handed to workloads reading "-".
	Stdin io.Reader
	// Logger reports sink failures.
	Logger logging.Logger
}

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking workload
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// ExecuteWorkloads orchestrates the concurrent execution of one or more
// workloads.
//
// Each workload runs in its own goroutine behind a progress decorator. Records
// that pass the configured triggers are forwarded to the reporter and to the
// telemetry sink; a final update is always sent when the workload stops.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - workloads: The workloads to execute.
//   - cfg: The application configuration (sizes, triggers, statistics).
//   - opts: Telemetry and I/O collaborators.
//   - reporter: The progress reporter (use NullProgressReporter for quiet mode).
//   - out: The io.Writer for displaying progress updates.
//
// Returns:
//   - []RunResult: The results, indexed like workloads.
func ExecuteWorkloads(ctx context.Context, workloads []workload.Workload, cfg config.AppConfig, opts RunOptions, reporter ProgressReporter, out io.Writer) []RunResult {
	if opts.Sink == nil {
		opts.Sink = telemetry.NopSink{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.RunID == uuid.Nil {
		opts.RunID = uuid.New()
	}

	g, ctx := errgroup.WithContext(ctx)
	results := make([]RunResult, len(workloads))
	progressChan := make(chan Update, max(1, len(workloads))*ProgressBufferMultiplier)

	names := make([]string, len(workloads))
	for i, w := range workloads {
		names[i] = w.Name
	}

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, names, out)

	for i, w := range workloads {
		r := &runner{idx: i, w: w, cfg: cfg, opts: opts, updates: progressChan}
		g.Go(func() error {
			results[i] = r.run(ctx)
			return nil
		})
	}

	g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// runner drives a single workload.
type runner struct {
	idx     int
	w       workload.Workload
	cfg     config.AppConfig
	opts    RunOptions
	updates chan<- Update
}

func (r *runner) event(stage telemetry.Stage) telemetry.Event {
	return telemetry.Event{
		RunID:    r.opts.RunID,
		Workload: r.w.Name,
		Index:    r.idx,
		Stage:    stage,
		TS:       time.Now(),
	}
}

func (r *runner) consume(ctx context.Context, evt telemetry.Event) {
	if err := r.opts.Sink.Consume(ctx, evt); err != nil {
		r.opts.Logger.Warn("telemetry sink failed",
			logging.String("workload", r.w.Name),
			logging.String("stage", string(evt.Stage)),
			logging.Err(err))
	}
}

// forward sends rec to the reporter and the sink. It reports false when ctx
// ended before the reporter accepted the update.
func (r *runner) forward(ctx context.Context, rec progress.Record, done bool) bool {
	select {
	case r.updates <- Update{Index: r.idx, Workload: r.w.Name, Record: rec, Done: done}:
	case <-ctx.Done():
		return false
	}
	if !done {
		evt := r.event(telemetry.StageProgress)
		evt.Record = rec
		r.consume(ctx, evt)
	}
	return true
}

func (r *runner) run(ctx context.Context) RunResult {
	start := time.Now()
	r.consume(ctx, r.event(telemetry.StageStart))

	items, last, err := r.pull(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && r.cfg.Timeout > 0 {
			err = apperrors.TimeoutError{Operation: r.w.Name, Limit: r.cfg.Timeout}
		}
		if !apperrors.IsContextError(err) {
			r.opts.Logger.Warn("workload failed",
				logging.String("workload", r.w.Name),
				logging.Uint64("items", items),
				logging.Err(err))
		}
		err = apperrors.RunError{Workload: r.w.Name, Cause: err}
	}
	res := RunResult{Name: r.w.Name, Items: items, Duration: time.Since(start), Last: last, Err: err}

	if last != nil {
		// Sent on a fresh context so cancelled runs still report where they
		// stopped when the reporter keeps up.
		r.forward(context.WithoutCancel(ctx), *last, true)
	}

	evt := r.event(telemetry.StageDone)
	if last != nil {
		evt.Record = *last
	}
	evt.Duration = res.Duration
	evt.Err = err
	r.consume(context.WithoutCancel(ctx), evt)
	return res
}

// pull drains the workload and returns the item count, the last record and
// the error that stopped it early, if any.
func (r *runner) pull(ctx context.Context) (uint64, *progress.Record, error) {
	seq, err := r.w.New(ctx, workload.Params{
		N:     r.cfg.N,
		Step:  r.cfg.Step,
		Input: r.cfg.Input,
		Stdin: r.opts.Stdin,
	})
	if err != nil {
		return 0, nil, err
	}
	defer seq.Close()

	var (
		items uint64
		last  *progress.Record
	)
	emit := func(rec progress.Record) error {
		last = &rec
		if shouldReport(rec, r.cfg) && !r.forward(ctx, rec, false) {
			return ctx.Err()
		}
		return nil
	}

	if r.cfg.Sample > 1 {
		s := progress.WrapSampled[workload.Item](seq, r.cfg.Sample, r.cfg.ToOptions()...)
		for rec := range s.All() {
			items++
			if err := ctx.Err(); err != nil {
				return items, last, err
			}
			if rec != nil {
				if err := emit(*rec); err != nil {
					return items, last, err
				}
			}
		}
	} else {
		d := progress.Wrap[workload.Item](seq, r.cfg.ToOptions()...)
		for rec := range d.All() {
			items++
			if err := ctx.Err(); err != nil {
				return items, last, err
			}
			if err := emit(rec); err != nil {
				return items, last, err
			}
		}
	}

	if err := seq.Err(); err != nil {
		return items, last, err
	}
	return items, last, ctx.Err()
}

// shouldReport applies the configured triggers. With both triggers disabled
// every record is reported.
func shouldReport(rec progress.Record, cfg config.AppConfig) bool {
	if cfg.Every <= 0 && cfg.EveryItems == 0 {
		return true
	}
	return (cfg.Every > 0 && rec.ShouldTriggerEvery(cfg.Every)) ||
		(cfg.EveryItems > 0 && rec.ShouldTriggerEveryItems(cfg.EveryItems))
}

// Summarize sorts the results (successes first, then by duration), hands
// them to the presenter and derives the process exit code.
//
// Parameters:
//   - results: The results to summarise; sorted in place.
//   - presenter: The result presenter for display formatting.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: ExitSuccess when every workload completed, otherwise the exit
//     code of the first failure.
func Summarize(results []RunResult, presenter ResultPresenter, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	presenter.PresentSummary(results, out)

	failed := 0
	var firstError error
	for _, res := range results {
		if res.Err != nil {
			failed++
			if firstError == nil {
				firstError = res.Err
			}
		}
	}
	if firstError == nil {
		fmt.Fprintf(out, "\nGlobal Status: Success. %d workload(s) completed.\n", len(results))
		return apperrors.ExitSuccess
	}
	fmt.Fprintf(out, "\nGlobal Status: Failure. %d of %d workload(s) failed.\n", failed, len(results))
	return apperrors.ExitCodeFor(firstError)
}
