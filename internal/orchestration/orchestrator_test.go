package orchestration

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/iterprogress/internal/config"
	apperrors "github.com/agbru/iterprogress/internal/errors"
	"github.com/agbru/iterprogress/internal/telemetry"
	"github.com/agbru/iterprogress/internal/workload"
)

// TestExecuteWorkloads verifies that the orchestrator runs workloads and
// records their outcome.
func TestExecuteWorkloads(t *testing.T) {
	t.Parallel()
	failure := errors.New("mock error")
	tests := []struct {
		name        string
		w           workload.Workload
		wantItems   uint64
		wantLast    uint64
		expectError bool
	}{
		{"Single success", fakeWorkload("ok", 0, nil, 0), 5, 5, false},
		{"Failure midway", fakeWorkload("midway", 0, failure, 2), 2, 2, true},
		{"Constructor failure", brokenWorkload("broken"), 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			results := ExecuteWorkloads(context.Background(), []workload.Workload{tt.w}, config.AppConfig{N: 5, Sample: 1}, RunOptions{}, NullProgressReporter{}, io.Discard)
			require.Len(t, results, 1)
			res := results[0]
			assert.Equal(t, tt.w.Name, res.Name)
			assert.Equal(t, tt.wantItems, res.Items)
			if tt.wantLast == 0 {
				assert.Nil(t, res.Last)
			} else {
				require.NotNil(t, res.Last)
				assert.Equal(t, tt.wantLast, res.Last.NumDone())
			}
			if !tt.expectError {
				assert.NoError(t, res.Err)
				return
			}
			var runErr apperrors.RunError
			require.ErrorAs(t, res.Err, &runErr)
			assert.Equal(t, tt.w.Name, runErr.Workload)
		})
	}
}

func TestExecuteWorkloadsForwardsUpdates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cfg        config.AppConfig
		wantCounts []uint64
		wantItems  uint64
	}{
		{
			name:       "every record without triggers",
			cfg:        config.AppConfig{N: 4, Sample: 1},
			wantCounts: []uint64{1, 2, 3, 4, 4},
			wantItems:  4,
		},
		{
			name:       "item trigger",
			cfg:        config.AppConfig{N: 10, Sample: 1, EveryItems: 3},
			wantCounts: []uint64{1, 4, 7, 10, 10},
			wantItems:  10,
		},
		{
			name:       "sampled",
			cfg:        config.AppConfig{N: 10, Sample: 4},
			wantCounts: []uint64{4, 8, 8},
			wantItems:  10,
		},
		{
			name:       "time trigger not yet due",
			cfg:        config.AppConfig{N: 3, Sample: 1, Every: time.Hour},
			wantCounts: []uint64{3},
			wantItems:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reporter := &collectingReporter{}
			results := ExecuteWorkloads(context.Background(), []workload.Workload{fakeWorkload("w", 0, nil, 0)}, tt.cfg, RunOptions{}, reporter, io.Discard)

			updates := reporter.byIndex(0)
			counts := make([]uint64, len(updates))
			for i, u := range updates {
				counts[i] = u.Record.NumDone()
				assert.Equal(t, "w", u.Workload)
				assert.Equal(t, i == len(updates)-1, u.Done, "only the last update is final")
			}
			assert.Equal(t, tt.wantCounts, counts)
			assert.Equal(t, tt.wantItems, results[0].Items)
			assert.Equal(t, []string{"w"}, reporter.names)
		})
	}
}

func TestExecuteWorkloadsTelemetry(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	runID := uuid.New()
	opts := RunOptions{Sink: sink, RunID: runID}
	workloads := []workload.Workload{fakeWorkload("a", 0, nil, 0), brokenWorkload("b")}
	ExecuteWorkloads(context.Background(), workloads, config.AppConfig{N: 2, Sample: 1}, opts, NullProgressReporter{}, io.Discard)

	assert.Equal(t, []telemetry.Stage{telemetry.StageStart, telemetry.StageProgress, telemetry.StageProgress, telemetry.StageDone}, sink.stages("a"))
	assert.Equal(t, []telemetry.Stage{telemetry.StageStart, telemetry.StageDone}, sink.stages("b"))

	for _, evt := range sink.events {
		assert.Equal(t, runID, evt.RunID)
		if evt.Done() {
			assert.Equal(t, evt.Workload == "b", evt.Err != nil, "workload %s", evt.Workload)
		}
		if evt.Workload == "b" {
			assert.Equal(t, 1, evt.Index)
		}
	}
}

func TestExecuteWorkloadsSinkErrorsDoNotFailRuns(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{fail: errors.New("sink down")}
	results := ExecuteWorkloads(context.Background(), []workload.Workload{fakeWorkload("a", 0, nil, 0)}, config.AppConfig{N: 3, Sample: 1}, RunOptions{Sink: sink}, NullProgressReporter{}, io.Discard)
	require.NoError(t, results[0].Err)
	assert.Equal(t, uint64(3), results[0].Items)
}

func TestExecuteWorkloadsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	results := ExecuteWorkloads(ctx, []workload.Workload{fakeWorkload("slow", 5*time.Millisecond, nil, 0)}, config.AppConfig{N: 10000, Sample: 1}, RunOptions{}, NullProgressReporter{}, io.Discard)
	res := results[0]
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.Less(t, res.Items, uint64(10000))
	assert.Equal(t, apperrors.ExitErrorTimeout, apperrors.ExitCodeFor(res.Err))
}

func TestExecuteWorkloadsTimeoutError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	cfg := config.AppConfig{N: 10000, Sample: 1, Timeout: 30 * time.Millisecond}
	results := ExecuteWorkloads(ctx, []workload.Workload{fakeWorkload("slow", 5*time.Millisecond, nil, 0)}, cfg, RunOptions{}, NullProgressReporter{}, io.Discard)

	var timeoutErr apperrors.TimeoutError
	require.ErrorAs(t, results[0].Err, &timeoutErr)
	assert.Equal(t, "slow", timeoutErr.Operation)
	assert.Equal(t, cfg.Timeout, timeoutErr.Limit)
	assert.ErrorIs(t, results[0].Err, context.DeadlineExceeded)
	assert.Contains(t, results[0].Err.Error(), "timed out after 30ms")
}

func TestShouldReport(t *testing.T) {
	t.Parallel()

	results := ExecuteWorkloads(context.Background(), []workload.Workload{fakeWorkload("w", 0, nil, 0)}, config.AppConfig{N: 1, Sample: 1}, RunOptions{}, NullProgressReporter{}, io.Discard)
	rec := *results[0].Last

	tests := []struct {
		name string
		cfg  config.AppConfig
		want bool
	}{
		{"no triggers", config.AppConfig{}, true},
		{"first item fires the item trigger", config.AppConfig{EveryItems: 5}, true},
		{"time trigger not due on the first item", config.AppConfig{Every: time.Hour}, false},
		{"either trigger suffices", config.AppConfig{Every: time.Hour, EveryItems: 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, shouldReport(rec, tt.cfg))
		})
	}
}

// TestSummarize verifies ordering and exit code selection.
func TestSummarize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name               string
		results            []RunResult
		expectedStatus     int
		expectedOrder      []string
		expectedStatusLine string
	}{
		{
			name: "All success",
			results: []RunResult{
				{Name: "A", Duration: 2 * time.Millisecond},
				{Name: "B", Duration: time.Millisecond},
			},
			expectedStatus:     apperrors.ExitSuccess,
			expectedOrder:      []string{"B", "A"},
			expectedStatusLine: "Success",
		},
		{
			name: "Mixed success/failure",
			results: []RunResult{
				{Name: "A", Duration: time.Millisecond, Err: apperrors.RunError{Workload: "A", Cause: errors.New("fail")}},
				{Name: "B", Duration: 5 * time.Millisecond},
			},
			expectedStatus:     apperrors.ExitErrorWorkload,
			expectedOrder:      []string{"B", "A"},
			expectedStatusLine: "1 of 2",
		},
		{
			name: "Timeout",
			results: []RunResult{
				{Name: "A", Err: apperrors.RunError{Workload: "A", Cause: context.DeadlineExceeded}},
			},
			expectedStatus:     apperrors.ExitErrorTimeout,
			expectedOrder:      []string{"A"},
			expectedStatusLine: "Failure",
		},
		{
			name: "Canceled",
			results: []RunResult{
				{Name: "A", Err: apperrors.RunError{Workload: "A", Cause: context.Canceled}},
			},
			expectedStatus:     apperrors.ExitErrorCanceled,
			expectedOrder:      []string{"A"},
			expectedStatusLine: "Failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			presenter := &mockResultPresenter{}
			var out strings.Builder
			status := Summarize(tt.results, presenter, &out)
			assert.Equal(t, tt.expectedStatus, status)
			var order []string
			for _, r := range presenter.results {
				order = append(order, r.Name)
			}
			assert.Equal(t, tt.expectedOrder, order)
			assert.Contains(t, out.String(), tt.expectedStatusLine)
		})
	}
}
