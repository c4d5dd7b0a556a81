package sinks

import (
	"context"
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/iterprogress/internal/telemetry"
)

// PrometheusSink exports the latest progress record of every workload as
// gauges, plus run lifecycle counters.
type PrometheusSink struct {
	runsStarted   prometheus.Counter
	runsCompleted *prometheus.CounterVec
	runsRunning   prometheus.Gauge
	runDuration   *prometheus.HistogramVec

	itemsDone   *prometheus.GaugeVec
	fraction    *prometheus.GaugeVec
	rate        *prometheus.GaugeVec
	rollingRate *prometheus.GaugeVec
	expRate     *prometheus.GaugeVec
	etaSeconds  *prometheus.GaugeVec
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, []string{"workload"})
	}
	s := &PrometheusSink{
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "iterprogress_runs_started_total",
			Help: "Total workload runs that have started.",
		}),
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iterprogress_runs_completed_total",
			Help: "Total workload runs completed partitioned by result.",
		}, []string{"result"}),
		runsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "iterprogress_runs_running",
			Help: "Current number of running workloads.",
		}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "iterprogress_run_duration_seconds",
			Help:    "Wall time per completed workload run.",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"result"}),
		itemsDone:   gauge("iterprogress_items_done", "Items yielded so far."),
		fraction:    gauge("iterprogress_fraction", "Completion fraction in [0, 1], when known."),
		rate:        gauge("iterprogress_rate", "Cumulative items per second."),
		rollingRate: gauge("iterprogress_rolling_rate", "Items per second over the rolling window."),
		expRate:     gauge("iterprogress_exp_rate", "Exponentially smoothed items per second."),
		etaSeconds:  gauge("iterprogress_eta_seconds", "Estimated seconds remaining, when known."),
	}
	for _, collector := range []prometheus.Collector{
		s.runsStarted,
		s.runsCompleted,
		s.runsRunning,
		s.runDuration,
		s.itemsDone,
		s.fraction,
		s.rate,
		s.rollingRate,
		s.expRate,
		s.etaSeconds,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the collectors from evt. It is safe for concurrent use by
// multiple goroutines.
func (s *PrometheusSink) Consume(_ context.Context, evt telemetry.Event) error {
	switch evt.Stage {
	case telemetry.StageStart:
		s.runsStarted.Inc()
		s.runsRunning.Inc()
	case telemetry.StageProgress:
		s.observeRecord(evt)
	case telemetry.StageDone:
		s.observeRecord(evt)
		result := evt.Result()
		s.runsCompleted.WithLabelValues(result).Inc()
		s.runsRunning.Dec()
		if evt.Duration > 0 {
			s.runDuration.WithLabelValues(result).Observe(evt.Duration.Seconds())
		}
	}
	return nil
}

func (s *PrometheusSink) observeRecord(evt telemetry.Event) {
	rec := evt.Record
	w := evt.Workload
	s.itemsDone.WithLabelValues(w).Set(float64(rec.NumDone()))
	if f, ok := rec.Fraction(); ok {
		s.fraction.WithLabelValues(w).Set(f)
	}
	if r := rec.Rate(); !math.IsInf(r, 0) && !math.IsNaN(r) {
		s.rate.WithLabelValues(w).Set(r)
	}
	if r, ok := rec.RollingAvgRate(); ok && !math.IsInf(r, 0) {
		s.rollingRate.WithLabelValues(w).Set(r)
	}
	if r, ok := rec.ExpAvgRate(); ok && !math.IsInf(r, 0) {
		s.expRate.WithLabelValues(w).Set(r)
	}
	if eta, ok := rec.ETA(); ok {
		s.etaSeconds.WithLabelValues(w).Set(eta.Seconds())
	}
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}
