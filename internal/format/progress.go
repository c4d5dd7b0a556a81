package format

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

// maxETA caps aggregate estimates so a stalled run does not print absurd
// values.
const maxETA = 24 * time.Hour

// ProgressBar renders a bar of length cells, filled proportionally to
// progress. Values outside [0, 1] are clamped.
func ProgressBar(progress float64, length int) string {
	progress = clamp01(progress)
	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBar renders a bracketed bar followed by the percentage.
func FormatProgressBar(progress float64, width int) string {
	return fmt.Sprintf("[%s] %6.2f%%", ProgressBar(progress, width), clamp01(progress)*100)
}

// FormatProgressBarWithETA renders FormatProgressBar followed by the ETA.
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("%s ETA: %s", FormatProgressBar(progress, width), FormatETA(eta))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}

// ProgressState tracks the latest completion fraction of a fixed number of
// concurrent runs. It is safe for concurrent use.
type ProgressState struct {
	mu             sync.Mutex
	progresses     []float64
	numCalculators int
}

// NewProgressState returns a state for n runs, all at zero.
func NewProgressState(n int) *ProgressState {
	return &ProgressState{progresses: make([]float64, n), numCalculators: n}
}

// Update records the fraction of run i. Out-of-range indices are ignored.
func (s *ProgressState) Update(i int, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.progresses) {
		return
	}
	s.progresses[i] = clamp01(v)
}

// CalculateAverage returns the mean fraction over all runs.
func (s *ProgressState) CalculateAverage() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.average()
}

func (s *ProgressState) average() float64 {
	if s.numCalculators == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.progresses {
		sum += p
	}
	return sum / float64(s.numCalculators)
}

// ProgressWithETA extends ProgressState with an aggregate ETA derived from
// the average fraction completed per second since creation.
type ProgressWithETA struct {
	*ProgressState
	startTime    time.Time
	progressRate float64
}

// NewProgressWithETA returns an aggregate tracker for n runs.
func NewProgressWithETA(n int) *ProgressWithETA {
	return &ProgressWithETA{
		ProgressState: NewProgressState(n),
		startTime:     time.Now(),
	}
}

// UpdateWithETA records the fraction of run i and returns the new average
// and the aggregate ETA.
func (p *ProgressWithETA) UpdateWithETA(i int, v float64) (float64, time.Duration) {
	p.Update(i, v)
	p.mu.Lock()
	avg := p.average()
	if elapsed := time.Since(p.startTime).Seconds(); elapsed > 0 {
		p.progressRate = avg / elapsed
	}
	p.mu.Unlock()
	return avg, p.GetETA()
}

// GetETA returns the remaining time at the current rate, or 0 while no rate
// is known. Estimates are capped at 24 hours.
func (p *ProgressWithETA) GetETA() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	avg := p.average()
	if p.progressRate <= 0 || avg <= 0 {
		return 0
	}
	remaining := (1 - avg) / p.progressRate
	eta := time.Duration(remaining * float64(time.Second))
	if eta > maxETA || eta < 0 {
		return maxETA
	}
	return eta
}
