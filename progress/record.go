package progress

import (
	"math"
	"time"
)

// maxDuration is the largest representable time.Duration. Estimates that
// would exceed it saturate here.
const maxDuration = time.Duration(math.MaxInt64)

// Record is the progress snapshot produced for a single step of a decorated
// sequence. Every method is a pure read of the snapshot; the decorator never
// changes a record after handing it out. Records are plain values and can be
// copied and sent across goroutines freely.
//
// The only mutation is AssumeFraction, which overrides the fraction of this
// copy alone.
type Record struct {
	numDone  uint64
	elapsed  time.Duration
	sizeHint SizeHint

	assumedSize    uint64
	hasAssumedSize bool

	assumedFraction    float64
	hasAssumedFraction bool

	previous    time.Time
	hasPrevious bool
	start       time.Time

	rollingAvg    time.Duration
	hasRollingAvg bool
	expAvg        time.Duration
	hasExpAvg     bool
}

// NumDone returns how many items have been produced up to and including this
// step. The first record of a decorator has NumDone() == 1.
func (r Record) NumDone() uint64 {
	return r.numDone
}

// Elapsed returns the time since the decorator was created.
func (r Record) Elapsed() time.Duration {
	return r.elapsed
}

// SizeHint returns the wrapped sequence's remaining-size hint, as reported
// just after the item for this step was pulled.
func (r Record) SizeHint() SizeHint {
	return r.sizeHint
}

// AssumedSize returns the total-size override configured on the decorator.
func (r Record) AssumedSize() (uint64, bool) {
	return r.assumedSize, r.hasAssumedSize
}

// AssumedFraction returns the fraction override set with AssumeFraction.
func (r Record) AssumedFraction() (float64, bool) {
	return r.assumedFraction, r.hasAssumedFraction
}

// PreviousStepTime returns the timestamp of the previous record. It is absent
// for the first record only. Under sampling, pulls that built no record do
// not count.
func (r Record) PreviousStepTime() (time.Time, bool) {
	return r.previous, r.hasPrevious
}

// StartTime returns when the decorator was created. All records from one
// decorator share it.
func (r Record) StartTime() time.Time {
	return r.start
}

// RollingAvgStepDuration returns the mean step duration over the rolling
// window, if rolling tracking is enabled and a previous step exists.
func (r Record) RollingAvgStepDuration() (time.Duration, bool) {
	return r.rollingAvg, r.hasRollingAvg
}

// ExpAvgStepDuration returns the exponentially smoothed step duration, if
// exponential tracking is enabled and a previous step exists.
func (r Record) ExpAvgStepDuration() (time.Duration, bool) {
	return r.expAvg, r.hasExpAvg
}

// Rate returns the cumulative throughput in items per second since start.
// A zero elapsed time yields +Inf.
func (r Record) Rate() float64 {
	return float64(r.numDone) / r.elapsed.Seconds()
}

// Fraction returns how far through the sequence this step is, in [0, 1].
//
// An assumed fraction always wins. Otherwise the total is taken from an
// exact size hint (remaining + done), then from the assumed size. When
// neither is known, for example on an infinite sequence, the fraction is
// absent.
func (r Record) Fraction() (float64, bool) {
	if r.hasAssumedFraction {
		return r.assumedFraction, true
	}

	var total float64
	if remaining, ok := r.sizeHint.Exact(); ok {
		total = float64(remaining) + float64(r.numDone)
	} else if r.hasAssumedSize {
		total = float64(r.assumedSize)
	} else {
		return 0, false
	}
	return float64(r.numDone) / total, true
}

// AssumeFraction overrides the fraction reported by this record. It has no
// effect on the decorator or on any other record.
func (r *Record) AssumeFraction(f float64) {
	r.assumedFraction = f
	r.hasAssumedFraction = true
}

// Percent returns Fraction scaled to 0-100.
func (r Record) Percent() (float64, bool) {
	f, ok := r.Fraction()
	if !ok {
		return 0, false
	}
	return f * 100, true
}

// ETA estimates the remaining time by extrapolating the average rate so far
// linearly to the end of the sequence. It is absent when the fraction is
// unknown or zero.
func (r Record) ETA() (time.Duration, bool) {
	total, ok := r.EstimatedTotalDuration()
	if !ok {
		return 0, false
	}
	if total == maxDuration {
		return maxDuration, true
	}
	return total - r.elapsed, true
}

// EstimatedTotalDuration estimates how long the whole sequence will take,
// elapsed time included.
func (r Record) EstimatedTotalDuration() (time.Duration, bool) {
	f, ok := r.Fraction()
	if !ok || f == 0 {
		return 0, false
	}
	return scaleDuration(r.elapsed, 1/f), true
}

// RollingAvgRate returns items per second over the rolling window.
func (r Record) RollingAvgRate() (float64, bool) {
	if !r.hasRollingAvg {
		return 0, false
	}
	return 1 / r.rollingAvg.Seconds(), true
}

// ExpAvgRate returns the exponentially smoothed items per second.
func (r Record) ExpAvgRate() (float64, bool) {
	if !r.hasExpAvg {
		return 0, false
	}
	return 1 / r.expAvg.Seconds(), true
}

// scaleDuration multiplies d by factor, saturating instead of overflowing.
func scaleDuration(d time.Duration, factor float64) time.Duration {
	v := math.Round(float64(d) * factor)
	switch {
	case math.IsNaN(v):
		return 0
	case v >= float64(math.MaxInt64):
		return maxDuration
	case v <= float64(math.MinInt64):
		return time.Duration(math.MinInt64)
	}
	return time.Duration(v)
}
