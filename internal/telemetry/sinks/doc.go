// Package sinks implements concrete telemetry consumers: structured logging,
// Prometheus gauges and OpenTelemetry spans. Each sink satisfies the
// telemetry.Sink interface and is safe for concurrent use.
package sinks
