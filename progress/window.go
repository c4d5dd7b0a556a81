package progress

import (
	"math"
	"time"
)

// rollingWindow keeps the most recent step durations in a fixed-capacity
// ring. Slots are overwritten oldest-first; the buffer is never resized.
type rollingWindow struct {
	values  []time.Duration
	written uint64
	sum     time.Duration
}

func newRollingWindow(size int) *rollingWindow {
	return &rollingWindow{values: make([]time.Duration, size)}
}

// observe records d and returns the mean over the filled part of the ring.
func (w *rollingWindow) observe(d time.Duration) time.Duration {
	capacity := uint64(len(w.values))
	slot := w.written % capacity
	w.sum += d - w.values[slot]
	w.values[slot] = d
	w.written++

	filled := min(w.written, capacity)
	return w.sum / time.Duration(filled)
}

// expAverage is an exponential moving average of step durations. The first
// observation seeds the average.
type expAverage struct {
	rate   float64
	avg    time.Duration
	primed bool
}

func newExpAverage(rate float64) *expAverage {
	return &expAverage{rate: rate}
}

func (e *expAverage) observe(d time.Duration) time.Duration {
	if !e.primed {
		e.avg = d
		e.primed = true
		return e.avg
	}
	e.avg = time.Duration(math.Round(float64(d)*e.rate + float64(e.avg)*(1-e.rate)))
	return e.avg
}
