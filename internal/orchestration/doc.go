// Package orchestration runs workloads concurrently behind progress
// decorators, forwards their progress to a reporter and a telemetry sink, and
// summarises the outcome. It decouples business logic from presentation via
// the ProgressReporter and ResultPresenter interfaces.
package orchestration
