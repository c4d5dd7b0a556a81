package progress

import (
	"fmt"
	"io"
	"math"
	"time"
)

// ShouldTriggerEverySeconds reports whether an action scheduled every n
// seconds is due at this step.
//
// It fires once for each n-second boundary crossed between the previous
// record and this one, measured from the start time. On the first record it
// fires only if more than n seconds have already elapsed. Accuracy is bounded
// by how often the sequence is pulled: this is a best-effort gate, not a
// timer. A non-positive n fires on every step.
func (r Record) ShouldTriggerEverySeconds(n float64) bool {
	if n <= 0 {
		return true
	}
	current := r.elapsed.Seconds()
	if !r.hasPrevious {
		return current > n
	}
	last := r.previous.Sub(r.start).Seconds()
	return math.Trunc(current/n) != math.Trunc(last/n)
}

// ShouldTriggerEvery is ShouldTriggerEverySeconds for a time.Duration.
func (r Record) ShouldTriggerEvery(d time.Duration) bool {
	return r.ShouldTriggerEverySeconds(d.Seconds())
}

// ShouldTriggerEveryItems reports whether an action scheduled every n items
// is due at this step. It fires on the first item and then on items n+1,
// 2n+1, and so on. n == 0 is treated as 1.
func (r Record) ShouldTriggerEveryItems(n uint64) bool {
	if n == 0 {
		n = 1
	}
	return (r.numDone-1)%n == 0
}

// DoEverySeconds runs action if ShouldTriggerEverySeconds(n) holds.
func (r Record) DoEverySeconds(n float64, action func()) {
	if r.ShouldTriggerEverySeconds(n) {
		action()
	}
}

// DoEvery runs action if ShouldTriggerEvery(d) holds.
func (r Record) DoEvery(d time.Duration, action func()) {
	if r.ShouldTriggerEvery(d) {
		action()
	}
}

// DoEveryItems runs action if ShouldTriggerEveryItems(n) holds.
//
//	for rec, v := range progress.Wrap(seq).All() {
//		rec.DoEveryItems(1000, func() { log.Printf("%d done", rec.NumDone()) })
//		process(v)
//	}
func (r Record) DoEveryItems(n uint64, action func()) {
	if r.ShouldTriggerEveryItems(n) {
		action()
	}
}

// PrintEverySeconds writes msg to w if ShouldTriggerEverySeconds(n) holds.
// No newline is added.
func (r Record) PrintEverySeconds(w io.Writer, n float64, msg any) {
	if r.ShouldTriggerEverySeconds(n) {
		fmt.Fprint(w, msg)
	}
}

// PrintEveryItems writes msg to w if ShouldTriggerEveryItems(n) holds.
// No newline is added.
func (r Record) PrintEveryItems(w io.Writer, n uint64, msg any) {
	if r.ShouldTriggerEveryItems(n) {
		fmt.Fprint(w, msg)
	}
}
