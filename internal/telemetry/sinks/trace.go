package sinks

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/iterprogress/internal/telemetry"
	"github.com/agbru/iterprogress/progress"
)

const tracerName = "github.com/agbru/iterprogress/internal/telemetry/sinks"

type spanKey struct {
	run   uuid.UUID
	index int
}

// TraceSink opens one span per workload run and records progress events on
// it. Spans are ended on completion, or by Close for runs that never
// completed.
type TraceSink struct {
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[spanKey]trace.Span
}

// NewTraceSink creates spans from tp, or from the global provider when tp is
// nil.
func NewTraceSink(tp trace.TracerProvider) *TraceSink {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &TraceSink{tracer: tp.Tracer(tracerName), spans: make(map[spanKey]trace.Span)}
}

// Consume implements telemetry.Sink.
func (s *TraceSink) Consume(ctx context.Context, evt telemetry.Event) error {
	key := spanKey{run: evt.RunID, index: evt.Index}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch evt.Stage {
	case telemetry.StageStart:
		_, span := s.tracer.Start(ctx, "workload "+evt.Workload,
			trace.WithTimestamp(evt.TS),
			trace.WithAttributes(
				attribute.String("run.id", evt.RunID.String()),
				attribute.String("workload.name", evt.Workload),
				attribute.Int("workload.index", evt.Index),
			))
		s.spans[key] = span
	case telemetry.StageProgress:
		span, ok := s.spans[key]
		if !ok {
			return fmt.Errorf("progress event for workload %q without a start", evt.Workload)
		}
		span.AddEvent("progress", trace.WithTimestamp(evt.TS), trace.WithAttributes(recordAttributes(evt.Record)...))
	case telemetry.StageDone:
		span, ok := s.spans[key]
		if !ok {
			return fmt.Errorf("completion for workload %q without a start", evt.Workload)
		}
		delete(s.spans, key)
		span.SetAttributes(recordAttributes(evt.Record)...)
		if evt.Err != nil {
			span.RecordError(evt.Err)
			span.SetStatus(codes.Error, evt.Err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End(trace.WithTimestamp(evt.TS))
	}
	return nil
}

func recordAttributes(rec progress.Record) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.Int64("progress.num_done", int64(rec.NumDone())),
		attribute.Float64("progress.elapsed_seconds", rec.Elapsed().Seconds()),
	}
	if f, ok := rec.Fraction(); ok {
		attrs = append(attrs, attribute.Float64("progress.fraction", f))
	}
	if eta, ok := rec.ETA(); ok {
		attrs = append(attrs, attribute.Float64("progress.eta_seconds", eta.Seconds()))
	}
	return attrs
}

// Close ends any span still open.
func (s *TraceSink) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, span := range s.spans {
		span.SetStatus(codes.Error, "run did not complete")
		span.End()
		delete(s.spans, key)
	}
	return nil
}
