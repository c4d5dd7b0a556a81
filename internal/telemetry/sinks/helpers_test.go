package sinks

import (
	"time"

	"github.com/google/uuid"

	"github.com/agbru/iterprogress/internal/telemetry"
	"github.com/agbru/iterprogress/progress"
)

var testStart = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// halfwayRecord returns the record of item 2 of 4 pulled one second after
// start.
func halfwayRecord() progress.Record {
	d := progress.Wrap(progress.Range(4), progress.WithClock(func() time.Time { return testStart }))
	d.SetNextTime(testStart.Add(500 * time.Millisecond))
	d.Next()
	d.SetNextTime(testStart.Add(time.Second))
	rec, _, _ := d.Next()
	return rec
}

func lifecycle(runID uuid.UUID, name string, err error) []telemetry.Event {
	rec := halfwayRecord()
	return []telemetry.Event{
		{RunID: runID, Workload: name, Stage: telemetry.StageStart, TS: testStart},
		{RunID: runID, Workload: name, Stage: telemetry.StageProgress, TS: testStart.Add(time.Second), Record: rec},
		{RunID: runID, Workload: name, Stage: telemetry.StageDone, TS: testStart.Add(2 * time.Second), Record: rec, Duration: 2 * time.Second, Err: err},
	}
}
