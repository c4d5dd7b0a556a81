package sinks

import (
	"context"
	"math"

	"github.com/agbru/iterprogress/internal/format"
	"github.com/agbru/iterprogress/internal/logging"
	"github.com/agbru/iterprogress/internal/telemetry"
)

// LogSink emits structured logs for each event. Progress events are logged
// at debug level so a normal run only shows starts and completions.
type LogSink struct {
	logger logging.Logger
}

// NewLogSink wires a logger to the sink interface.
func NewLogSink(logger logging.Logger) *LogSink {
	if logger == nil {
		logger = logging.Nop()
	}
	return &LogSink{logger: logger}
}

// Consume logs evt using structured fields.
func (s *LogSink) Consume(_ context.Context, evt telemetry.Event) error {
	base := []logging.Field{
		logging.String("run_id", evt.RunID.String()),
		logging.String("workload", evt.Workload),
	}
	switch evt.Stage {
	case telemetry.StageStart:
		s.logger.Info("run started", base...)
	case telemetry.StageProgress:
		s.logger.Debug(format.FormatRecord(evt.Workload, evt.Record), append(base, recordFields(evt)...)...)
	case telemetry.StageDone:
		fields := append(base, recordFields(evt)...)
		fields = append(fields, logging.Duration("duration", evt.Duration))
		if evt.Err != nil {
			s.logger.Error("run failed", evt.Err, fields...)
			return nil
		}
		s.logger.Info("run finished", fields...)
	}
	return nil
}

func recordFields(evt telemetry.Event) []logging.Field {
	rec := evt.Record
	fields := []logging.Field{logging.Uint64("num_done", rec.NumDone())}
	if rate := rec.Rate(); !math.IsInf(rate, 0) && !math.IsNaN(rate) {
		fields = append(fields, logging.Float64("rate", rate))
	}
	if pct, ok := rec.Percent(); ok {
		fields = append(fields, logging.Float64("percent", pct))
	}
	if eta, ok := rec.ETA(); ok {
		fields = append(fields, logging.Duration("eta", eta))
	}
	if avg, ok := rec.RollingAvgStepDuration(); ok {
		fields = append(fields, logging.Duration("rolling_avg_step", avg))
	}
	if avg, ok := rec.ExpAvgStepDuration(); ok {
		fields = append(fields, logging.Duration("exp_avg_step", avg))
	}
	return fields
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
