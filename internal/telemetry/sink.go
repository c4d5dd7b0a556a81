package telemetry

import (
	"context"
	"errors"
)

// Sink consumes events. Implementations must be safe for concurrent use, as
// workloads report from their own goroutines.
type Sink interface {
	Consume(ctx context.Context, evt Event) error
	Close(ctx context.Context) error
}

// Fanout delivers every event to each of its sinks in order.
type Fanout []Sink

// Consume forwards evt to every sink, joining their errors.
func (f Fanout) Consume(ctx context.Context, evt Event) error {
	var errs []error
	for _, s := range f {
		if err := s.Consume(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink, joining their errors.
func (f Fanout) Close(ctx context.Context) error {
	var errs []error
	for _, s := range f {
		if err := s.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Consume(context.Context, Event) error { return nil }
func (NopSink) Close(context.Context) error          { return nil }
