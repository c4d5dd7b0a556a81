package progress

import (
	"iter"
	"time"
)

// Sampled is a Decorator that only materializes a Record on every k-th pull.
// The other pulls return a nil record, but still advance the step count and
// the rolling and exponential averages, so sampled records report the same
// statistics an always-emitting decorator would.
//
// Use it on sequences fast enough that building a record per item shows up
// in profiles.
type Sampled[T any] struct {
	seq Sequence[T]
	t   tracker
}

// WrapSampled attaches sampled progress tracking to seq, producing a record
// on pulls k, 2k, 3k, ... A k of 0 or 1 produces a record on every pull.
func WrapSampled[T any](seq Sequence[T], k uint64, opts ...Option) *Sampled[T] {
	return &Sampled[T]{seq: seq, t: newTracker(k, opts)}
}

// Next pulls the next item. The record is nil unless this pull lands on a
// sampling boundary.
func (s *Sampled[T]) Next() (*Record, T, bool) {
	now, injected := s.t.takeNext()
	item, ok := s.seq.Next()
	if !ok {
		return nil, item, false
	}
	rec, emitted := s.t.step(now, injected, s.seq.SizeHint)
	if !emitted {
		return nil, item, true
	}
	return &rec, item, true
}

// All returns an iterator over (record, item) pairs; the record is nil off
// the sampling boundaries.
func (s *Sampled[T]) All() iter.Seq2[*Record, T] {
	return func(yield func(*Record, T) bool) {
		for {
			rec, item, ok := s.Next()
			if !ok || !yield(rec, item) {
				return
			}
		}
	}
}

// Every returns the sampling factor.
func (s *Sampled[T]) Every() uint64 {
	return s.t.every
}

// SizeHint passes through the wrapped sequence's size hint.
func (s *Sampled[T]) SizeHint() SizeHint {
	return s.seq.SizeHint()
}

// Count consumes the remaining items without tracking them.
func (s *Sampled[T]) Count() uint64 {
	return countRemaining(s.seq)
}

// Skip advances up to n steps and returns the number taken.
func (s *Sampled[T]) Skip(n uint64) uint64 {
	var skipped uint64
	for skipped < n {
		if _, _, ok := s.Next(); !ok {
			break
		}
		skipped++
	}
	return skipped
}

// Configure re-applies options.
func (s *Sampled[T]) Configure(opts ...Option) *Sampled[T] {
	s.t.configure(opts)
	return s
}

// SetNextTime makes the next pull use now instead of reading the clock.
func (s *Sampled[T]) SetNextTime(now time.Time) {
	s.t.setNext(now)
}

// Inner returns the wrapped sequence.
func (s *Sampled[T]) Inner() Sequence[T] {
	return s.seq
}

// Unwrap discards all progress state and returns the wrapped sequence.
func (s *Sampled[T]) Unwrap() Sequence[T] {
	seq := s.seq
	s.seq = nil
	s.t = tracker{}
	return seq
}
