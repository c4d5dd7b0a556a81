package orchestration

import (
	"math"
	"sync"
	"time"

	"github.com/agbru/iterprogress/internal/format"
	"github.com/agbru/iterprogress/progress"
)

// ProgressAggregator manages multi-workload progress aggregation.
// It wraps format.ProgressWithETA and provides a higher-level API
// for consuming Updates from a channel. Both CLI and TUI
// use this to avoid duplicating the aggregation setup and update logic.
//
// Workloads whose fraction is unknown count as 0 in the average until they
// finish, at which point they count as 1.
type ProgressAggregator struct {
	state *format.ProgressWithETA
	names []string

	mu    sync.Mutex
	items []uint64
	etas  []time.Duration
	known []bool
	done  []bool
	rates []float64
}

// NewProgressAggregator creates a new aggregator for the given workloads.
// Returns nil if workloads is empty.
func NewProgressAggregator(workloads []string) *ProgressAggregator {
	n := len(workloads)
	if n == 0 {
		return nil
	}
	return &ProgressAggregator{
		state: format.NewProgressWithETA(n),
		names: workloads,
		items: make([]uint64, n),
		etas:  make([]time.Duration, n),
		known: make([]bool, n),
		done:  make([]bool, n),
		rates: make([]float64, n),
	}
}

// AggregatedProgress holds the result of processing a single update.
type AggregatedProgress struct {
	// Index is the index of the workload that sent the update.
	Index int
	// Workload is its name.
	Workload string
	// Record is the record carried by the update.
	Record progress.Record
	// Fraction is the workload's fraction, valid when HasFraction is set.
	Fraction    float64
	HasFraction bool
	// AverageProgress is the aggregated average across all workloads.
	AverageProgress float64
	// ETA is the largest per-workload ETA when every running workload has
	// one, otherwise the smoothed aggregate estimate.
	ETA time.Duration
	// TotalItems is the sum of items done over all workloads.
	TotalItems uint64
	// Done is set on a workload's final update.
	Done bool
}

// Update processes a single update and returns the aggregated result.
// Updates with an out-of-range index are ignored.
func (a *ProgressAggregator) Update(u Update) AggregatedProgress {
	ap := AggregatedProgress{Index: u.Index, Workload: u.Workload, Record: u.Record, Done: u.Done}
	if u.Index < 0 || u.Index >= len(a.names) {
		ap.AverageProgress = a.CalculateAverage()
		ap.ETA = a.GetETA()
		return ap
	}

	f, ok := u.Record.Fraction()
	ap.Fraction, ap.HasFraction = f, ok

	a.mu.Lock()
	a.items[u.Index] = u.Record.NumDone()
	a.rates[u.Index] = u.Record.Rate()
	a.known[u.Index] = ok
	a.done[u.Index] = a.done[u.Index] || u.Done
	if eta, ok := u.Record.ETA(); ok {
		a.etas[u.Index] = eta
	} else {
		a.etas[u.Index] = -1
	}
	if u.Done {
		f = 1
	}
	a.mu.Unlock()

	if ok || u.Done {
		ap.AverageProgress, _ = a.state.UpdateWithETA(u.Index, f)
	} else {
		ap.AverageProgress = a.state.CalculateAverage()
	}
	ap.ETA = a.GetETA()
	ap.TotalItems = a.TotalItems()
	return ap
}

// CalculateAverage returns the current average progress without updating.
// Useful for periodic refresh between updates (e.g., CLI ticker).
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA estimate without updating.
// Useful for periodic refresh between updates (e.g., CLI ticker).
func (a *ProgressAggregator) GetETA() time.Duration {
	a.mu.Lock()
	var longest time.Duration
	complete := true
	for i := range a.names {
		if a.done[i] {
			continue
		}
		if a.etas[i] < 0 || !a.known[i] {
			complete = false
			break
		}
		longest = max(longest, a.etas[i])
	}
	a.mu.Unlock()
	if complete {
		return longest
	}
	return a.state.GetETA()
}

// AnyFractionKnown reports whether at least one workload knows its fraction
// or has finished.
func (a *ProgressAggregator) AnyFractionKnown() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.names {
		if a.known[i] || a.done[i] {
			return true
		}
	}
	return false
}

// TotalItems returns the sum of items done over all workloads.
func (a *ProgressAggregator) TotalItems() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	var total uint64
	for _, n := range a.items {
		total += n
	}
	return total
}

// TotalRate returns the sum of the mean rates of the running workloads.
// Rates that are not finite yet (no elapsed time) are left out.
func (a *ProgressAggregator) TotalRate() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	var total float64
	for i, r := range a.rates {
		if !a.done[i] && !math.IsInf(r, 0) && !math.IsNaN(r) {
			total += r
		}
	}
	return total
}

// Workloads returns the tracked workload names.
func (a *ProgressAggregator) Workloads() []string {
	return a.names
}

// NumWorkloads returns the number of workloads being tracked.
func (a *ProgressAggregator) NumWorkloads() int {
	return len(a.names)
}

// IsMultiWorkload returns true if tracking more than one workload.
func (a *ProgressAggregator) IsMultiWorkload() bool {
	return len(a.names) > 1
}

// DrainChannel reads all updates from the channel without processing.
// Use this when there is nothing to display and updates should be discarded.
func DrainChannel(progressChan <-chan Update) {
	for range progressChan {
	}
}
