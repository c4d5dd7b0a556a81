package tui

import (
	"time"

	"github.com/agbru/iterprogress/internal/orchestration"
	"github.com/agbru/iterprogress/internal/sysmon"
	"github.com/agbru/iterprogress/progress"
)

// WorkloadProgressMsg carries one aggregated progress update. AverageProgress
// is the mean fraction across all workloads.
type WorkloadProgressMsg struct {
	Index           int
	Workload        string
	Record          progress.Record
	Fraction        float64
	HasFraction     bool
	AverageProgress float64
	ETA             time.Duration
	TotalItems      uint64
	Done            bool
	Generation      uint64
}

// ProgressDoneMsg is sent once the progress channel is closed.
type ProgressDoneMsg struct {
	Generation uint64
}

// SummaryMsg carries the sorted run results.
type SummaryMsg struct {
	Results    []orchestration.RunResult
	Generation uint64
}

// RunCompleteMsg signals that every workload has stopped.
type RunCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg signals that the run context ended.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}

// RuntimeStatsMsg carries a resource sample of the process and the host.
type RuntimeStatsMsg struct {
	sysmon.Snapshot
}

// TickMsg drives periodic refreshes.
type TickMsg time.Time
