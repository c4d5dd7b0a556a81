package tui

import "strings"

// sparklineChars maps levels 0..7 to Unicode block elements.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// rateHistory keeps the most recent throughput samples of a workload in a
// fixed-capacity ring.
type rateHistory struct {
	data  []float64
	head  int
	count int
}

func newRateHistory(capacity int) *rateHistory {
	return &rateHistory{data: make([]float64, max(capacity, 1))}
}

// Push adds a sample, overwriting the oldest when full.
func (r *rateHistory) Push(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	r.count = min(r.count+1, len(r.data))
}

// Len returns the number of stored samples.
func (r *rateHistory) Len() int { return r.count }

// Last returns the most recent sample, or 0 if empty.
func (r *rateHistory) Last() float64 {
	if r.count == 0 {
		return 0
	}
	return r.data[(r.head-1+len(r.data))%len(r.data)]
}

// Slice returns the samples oldest first.
func (r *rateHistory) Slice() []float64 {
	if r.count == 0 {
		return nil
	}
	out := make([]float64, r.count)
	start := (r.head - r.count + len(r.data)) % len(r.data)
	for i := range r.count {
		out[i] = r.data[(start+i)%len(r.data)]
	}
	return out
}

// Reset drops every sample.
func (r *rateHistory) Reset() {
	r.head = 0
	r.count = 0
}

// renderSparkline draws the last width values scaled to their maximum.
// Shorter inputs are left-padded with spaces so the newest sample is always
// in the last column.
func renderSparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	var peak float64
	for _, v := range values {
		peak = max(peak, v)
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", width-len(values)))
	for _, v := range values {
		idx := 0
		if peak > 0 && v > 0 {
			idx = min(int(v/peak*7), 7)
		}
		sb.WriteRune(sparklineChars[idx])
	}
	return sb.String()
}
