package format

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestFormatETA(t *testing.T) {
	t.Parallel()
	tests := []struct {
		eta  time.Duration
		want string
	}{
		{0, "calculating..."},
		{-time.Second, "calculating..."},
		{500 * time.Millisecond, "< 1s"},
		{time.Second, "1s"},
		{59*time.Second + 900*time.Millisecond, "59s"},
		{time.Minute, "1m"},
		{2*time.Minute + 30*time.Second, "2m30s"},
		{time.Hour, "1h"},
		{time.Hour + 15*time.Minute + 40*time.Second, "1h15m"},
		{maxETA, "24h"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatETA(tt.eta), "FormatETA(%v)", tt.eta)
	}
}

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Nanosecond, "0µs"},
		{250 * time.Microsecond, "250µs"},
		{42 * time.Millisecond, "42ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatExecutionDuration(tt.d), "FormatExecutionDuration(%v)", tt.d)
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		fraction float64
		want     string
	}{
		{0, "░░░░░░░░"},
		{0.25, "██░░░░░░"},
		{0.99, "███████░"},
		{1, "████████"},
		{1.7, "████████"},
		{-0.2, "░░░░░░░░"},
		{math.NaN(), "░░░░░░░░"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProgressBar(tt.fraction, 8), "ProgressBar(%v)", tt.fraction)
	}
}

func TestFormatProgressBarWithETA(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "[██░░]  50.00% ETA: 2m30s", FormatProgressBarWithETA(0.5, 150*time.Second, 4))
	assert.Equal(t, "[░░░░]   0.00% ETA: calculating...", FormatProgressBarWithETA(0, 0, 4))
}

func TestProgressState(t *testing.T) {
	t.Parallel()

	s := NewProgressState(4)
	assert.Zero(t, s.CalculateAverage())

	s.Update(0, 1)
	s.Update(1, 0.5)
	s.Update(2, 1.5)  // clamped to 1
	s.Update(3, -1)   // clamped to 0
	s.Update(7, 0.9)  // ignored
	s.Update(-1, 0.9) // ignored
	assert.InDelta(t, 0.625, s.CalculateAverage(), 1e-12)

	assert.Zero(t, NewProgressState(0).CalculateAverage())
}

func TestProgressWithETA(t *testing.T) {
	t.Parallel()

	p := NewProgressWithETA(2)
	assert.Zero(t, p.GetETA(), "no estimate before the first update")

	avg, eta := p.UpdateWithETA(0, 0.25)
	assert.InDelta(t, 0.125, avg, 1e-12)
	assert.GreaterOrEqual(t, eta, time.Duration(0))

	avg, _ = p.UpdateWithETA(1, 0.75)
	assert.InDelta(t, 0.5, avg, 1e-12)

	// Half done at 10% per second leaves five seconds.
	p.mu.Lock()
	p.progressRate = 0.1
	p.mu.Unlock()
	assert.InDelta(t, float64(5*time.Second), float64(p.GetETA()), float64(time.Millisecond))
}

func TestProgressWithETA_Capped(t *testing.T) {
	t.Parallel()

	p := NewProgressWithETA(1)
	p.Update(0, 0.001)
	p.progressRate = 1e-9
	assert.Equal(t, maxETA, p.GetETA())
}

func TestProgressState_AverageStaysInRange(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("average is within [0, 1] for any updates", prop.ForAll(
		func(values []float64) bool {
			s := NewProgressState(len(values) + 1)
			for i, v := range values {
				s.Update(i, v)
			}
			avg := s.CalculateAverage()
			return avg >= 0 && avg <= 1
		},
		gen.SliceOf(gen.Float64Range(-10, 10)),
	))

	properties.TestingRun(t)
}
