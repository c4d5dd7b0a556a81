package progress

import (
	"iter"
	"time"
)

// Decorator wraps a Sequence and pairs every item it yields with a Record.
// The items themselves pass through untouched, as does the wrapped
// sequence's size hint.
//
// A Decorator is owned by a single consumer and is not safe for concurrent
// use.
type Decorator[T any] struct {
	seq Sequence[T]
	t   tracker
}

// Wrap attaches progress tracking to seq. The start time is taken now.
//
//	d := progress.Wrap(progress.FromSlice(jobs), progress.WithExpAverage(0.1))
//	for rec, job := range d.All() {
//		rec.DoEveryItems(100, func() { fmt.Println(rec.NumDone(), rec.Rate()) })
//		run(job)
//	}
func Wrap[T any](seq Sequence[T], opts ...Option) *Decorator[T] {
	return &Decorator[T]{seq: seq, t: newTracker(1, opts)}
}

// Next pulls the next item from the wrapped sequence and returns it along
// with the record for this step. It returns false once the wrapped sequence
// is exhausted.
func (d *Decorator[T]) Next() (Record, T, bool) {
	now, injected := d.t.takeNext()
	item, ok := d.seq.Next()
	if !ok {
		return Record{}, item, false
	}
	rec, _ := d.t.step(now, injected, d.seq.SizeHint)
	return rec, item, true
}

// All returns an iterator over (record, item) pairs for use with range.
func (d *Decorator[T]) All() iter.Seq2[Record, T] {
	return func(yield func(Record, T) bool) {
		for {
			rec, item, ok := d.Next()
			if !ok || !yield(rec, item) {
				return
			}
		}
	}
}

// SizeHint passes through the wrapped sequence's size hint.
func (d *Decorator[T]) SizeHint() SizeHint {
	return d.seq.SizeHint()
}

// Count consumes the remaining items without building records and returns
// how many there were.
func (d *Decorator[T]) Count() uint64 {
	return countRemaining(d.seq)
}

// Skip advances up to n steps, discarding items and records, and returns the
// number of steps taken. The step counter and averages advance as usual, so
// the next record reports NumDone() == n+1.
func (d *Decorator[T]) Skip(n uint64) uint64 {
	var skipped uint64
	for skipped < n {
		if _, _, ok := d.Next(); !ok {
			break
		}
		skipped++
	}
	return skipped
}

// Configure re-applies options. Call it before the first pull; later calls
// take effect from the next step.
func (d *Decorator[T]) Configure(opts ...Option) *Decorator[T] {
	d.t.configure(opts)
	return d
}

// SetNextTime makes the next pull use now instead of reading the clock. The
// slot is cleared by that pull whether or not it yields an item.
func (d *Decorator[T]) SetNextTime(now time.Time) {
	d.t.setNext(now)
}

// Inner returns the wrapped sequence. Pulling from it directly bypasses the
// decorator's bookkeeping.
func (d *Decorator[T]) Inner() Sequence[T] {
	return d.seq
}

// Unwrap discards all progress state and returns the wrapped sequence,
// positioned right after the last item the decorator yielded. The decorator
// must not be used afterwards.
func (d *Decorator[T]) Unwrap() Sequence[T] {
	seq := d.seq
	d.seq = nil
	d.t = tracker{}
	return seq
}
