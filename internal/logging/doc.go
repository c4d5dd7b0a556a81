// Package logging defines the structured Logger used by the orchestration,
// telemetry and server packages, backed by zerolog.
package logging
