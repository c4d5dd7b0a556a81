// Package telemetry defines the events emitted while workloads run and the
// sinks that consume them.
package telemetry

import (
	"time"

	"github.com/google/uuid"

	"github.com/agbru/iterprogress/progress"
)

// Stage denotes which point of a workload run an Event describes.
type Stage string

// Supported stages.
const (
	StageStart    Stage = "START"
	StageProgress Stage = "PROGRESS"
	StageDone     Stage = "DONE"
)

// Event captures one observation of a workload run.
type Event struct {
	// RunID identifies the application run; all workloads of one run share it.
	RunID uuid.UUID
	// Workload is the name of the workload.
	Workload string
	// Index is the position of the workload within the run.
	Index int
	// Stage tells start, progress and completion events apart.
	Stage Stage
	// TS is the wall-clock time the event was emitted.
	TS time.Time
	// Record is the latest progress record. It is the zero Record on start
	// events and on completion of a workload that yielded no record.
	Record progress.Record
	// Duration is the total run time, set on completion.
	Duration time.Duration
	// Err is the failure that ended the run, if any.
	Err error
}

// Done reports whether the event marks the end of a run.
func (e Event) Done() bool { return e.Stage == StageDone }

// Result returns "success" or "error" for completion events.
func (e Event) Result() string {
	if e.Err != nil {
		return "error"
	}
	return "success"
}
