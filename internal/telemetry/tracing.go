package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/agbru/iterprogress/internal/logging"
)

// InitTracerProvider installs a global tracer provider that samples every
// span and hands finished spans to a LogExporter.
func InitTracerProvider(logger logging.Logger) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSyncer(NewLogExporter(logger)),
	)
	otel.SetTracerProvider(tp)
	return tp
}

// Shutdown flushes and stops tp, giving up after five seconds.
func Shutdown(ctx context.Context, logger logging.Logger, tp *sdktrace.TracerProvider) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := tp.Shutdown(ctx); err != nil {
		logger.Error("error shutting down tracer provider", err)
	}
}

// LogExporter writes one log entry per finished span.
type LogExporter struct {
	logger logging.Logger
}

// NewLogExporter returns an exporter logging through logger.
func NewLogExporter(logger logging.Logger) *LogExporter {
	return &LogExporter{logger: logger}
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *LogExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		fields := []logging.Field{
			logging.String("span", s.Name()),
			logging.String("trace_id", s.SpanContext().TraceID().String()),
			logging.Duration("duration", s.EndTime().Sub(s.StartTime())),
			logging.Int("events", len(s.Events())),
			logging.String("status", s.Status().Code.String()),
		}
		for _, kv := range s.Attributes() {
			fields = append(fields, attributeField(kv))
		}
		e.logger.Info("span finished", fields...)
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (e *LogExporter) Shutdown(context.Context) error { return nil }

func attributeField(kv attribute.KeyValue) logging.Field {
	return logging.Field{Key: string(kv.Key), Value: kv.Value.AsInterface()}
}
