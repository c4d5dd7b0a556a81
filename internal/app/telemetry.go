package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/agbru/iterprogress/internal/config"
	"github.com/agbru/iterprogress/internal/logging"
	"github.com/agbru/iterprogress/internal/server"
	"github.com/agbru/iterprogress/internal/telemetry"
	"github.com/agbru/iterprogress/internal/telemetry/sinks"
)

// telemetryStack owns the sinks of one run and the optional metrics server
// and tracer provider behind them.
type telemetryStack struct {
	runID    uuid.UUID
	sink     telemetry.Fanout
	registry *prometheus.Registry
	tp       *sdktrace.TracerProvider
	logger   logging.Logger

	stopServer context.CancelFunc
	serverDone <-chan error
}

// newTelemetryStack wires the log and Prometheus sinks, plus the trace sink
// with -trace, and starts the metrics server when an address is configured.
func newTelemetryStack(ctx context.Context, cfg config.AppConfig, logger logging.Logger) (*telemetryStack, error) {
	reg := prometheus.NewRegistry()
	promSink, err := sinks.NewPrometheusSink(reg)
	if err != nil {
		return nil, err
	}

	s := &telemetryStack{
		runID:    uuid.New(),
		sink:     telemetry.Fanout{sinks.NewLogSink(logger), promSink},
		registry: reg,
		logger:   logger,
	}

	if cfg.Trace {
		s.tp = telemetry.InitTracerProvider(logger)
		s.sink = append(s.sink, sinks.NewTraceSink(s.tp))
	}

	if cfg.MetricsAddr != "" {
		srvCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		done, err := server.New(cfg.MetricsAddr, server.NewMetrics(s.Registry()), logger).Start(srvCtx)
		if err != nil {
			cancel()
			s.shutdownTracer(ctx)
			return nil, err
		}
		s.stopServer, s.serverDone = cancel, done
	}

	logger.Debug("telemetry ready",
		logging.String("run_id", s.runID.String()),
		logging.Int("sinks", len(s.sink)),
		logging.Bool("metrics_server", s.stopServer != nil))
	return s, nil
}

// Sink returns the fan-out of every configured sink.
func (s *telemetryStack) Sink() telemetry.Sink { return s.sink }

// RunID returns the identifier tagging every event of the run.
func (s *telemetryStack) RunID() uuid.UUID { return s.runID }

// Registry returns the Prometheus registry shared by the sink and the server.
func (s *telemetryStack) Registry() *prometheus.Registry { return s.registry }

// Close closes the sinks, stops the metrics server and flushes pending spans.
func (s *telemetryStack) Close(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	if err := s.sink.Close(ctx); err != nil {
		s.logger.Warn("closing telemetry sinks failed", logging.Err(err))
	}
	if s.stopServer != nil {
		s.stopServer()
		for range s.serverDone {
		}
	}
	s.shutdownTracer(ctx)
}

func (s *telemetryStack) shutdownTracer(ctx context.Context) {
	if s.tp != nil {
		telemetry.Shutdown(ctx, s.logger, s.tp)
	}
}
