package progress

import (
	"iter"
	"math"
)

// SizeHint describes how many items a sequence has left to produce.
// Lower is always a valid lower bound. Upper is only meaningful when HasUpper
// is true; a sequence that cannot bound itself (an infinite generator, a
// stream of unknown length) leaves HasUpper false.
type SizeHint struct {
	// Lower is the minimum number of remaining items.
	Lower uint64
	// Upper is the maximum number of remaining items, valid if HasUpper is set.
	Upper uint64
	// HasUpper reports whether Upper carries a bound.
	HasUpper bool
}

// ExactSize returns a hint for a sequence with exactly n remaining items.
func ExactSize(n uint64) SizeHint {
	return SizeHint{Lower: n, Upper: n, HasUpper: true}
}

// AtLeast returns a hint with a lower bound and no upper bound.
func AtLeast(n uint64) SizeHint {
	return SizeHint{Lower: n}
}

// Between returns a hint bounded on both sides.
func Between(lower, upper uint64) SizeHint {
	return SizeHint{Lower: lower, Upper: upper, HasUpper: true}
}

// Unknown returns the hint of a sequence that knows nothing about its length.
func Unknown() SizeHint {
	return SizeHint{}
}

// Exact returns the remaining count when the hint is an exact bound.
func (h SizeHint) Exact() (uint64, bool) {
	if h.HasUpper && h.Upper == h.Lower {
		return h.Lower, true
	}
	return 0, false
}

// Sequence is the capability a decorator wraps: something that produces the
// next item or reports exhaustion, and can describe how much is left.
//
// Implementations do not need to be safe for concurrent use.
type Sequence[T any] interface {
	// Next returns the next item, or false once the sequence is exhausted.
	Next() (T, bool)
	// SizeHint reports the number of items remaining after the last Next.
	SizeHint() SizeHint
}

// Counter is implemented by sequences that can count their remaining items
// faster than pulling them one by one. Count consumes the sequence.
type Counter interface {
	Count() uint64
}

// countRemaining drains seq and returns how many items it had left, using
// the Counter fast path when available.
func countRemaining[T any](seq Sequence[T]) uint64 {
	if c, ok := seq.(Counter); ok {
		return c.Count()
	}
	var n uint64
	for {
		if _, ok := seq.Next(); !ok {
			return n
		}
		n++
	}
}

type sliceSeq[T any] struct {
	items []T
	pos   int
}

// FromSlice returns a sequence over the elements of items. Its size hint is
// always exact.
func FromSlice[T any](items []T) Sequence[T] {
	return &sliceSeq[T]{items: items}
}

func (s *sliceSeq[T]) Next() (T, bool) {
	if s.pos >= len(s.items) {
		var zero T
		return zero, false
	}
	item := s.items[s.pos]
	s.pos++
	return item, true
}

func (s *sliceSeq[T]) SizeHint() SizeHint {
	return ExactSize(uint64(len(s.items) - s.pos))
}

func (s *sliceSeq[T]) Count() uint64 {
	n := uint64(len(s.items) - s.pos)
	s.pos = len(s.items)
	return n
}

type rangeSeq struct {
	next, end uint64
}

// Range returns the sequence 0, 1, ..., n-1.
func Range(n uint64) Sequence[uint64] {
	return &rangeSeq{end: n}
}

func (r *rangeSeq) Next() (uint64, bool) {
	if r.next >= r.end {
		return 0, false
	}
	v := r.next
	r.next++
	return v, true
}

func (r *rangeSeq) SizeHint() SizeHint {
	return ExactSize(r.end - r.next)
}

func (r *rangeSeq) Count() uint64 {
	n := r.end - r.next
	r.next = r.end
	return n
}

type naturals struct {
	next uint64
}

// Naturals returns the unbounded sequence 0, 1, 2, ... Its size hint has the
// largest possible lower bound and no upper bound, so a decorator over it
// never resolves a fraction unless one is assumed.
func Naturals() Sequence[uint64] {
	return &naturals{}
}

func (n *naturals) Next() (uint64, bool) {
	v := n.next
	n.next++
	return v, true
}

func (n *naturals) SizeHint() SizeHint {
	return AtLeast(math.MaxUint64)
}

type funcSeq[T any] struct {
	next func() (T, bool)
}

// FromFunc adapts a generator function. The resulting sequence reports an
// unknown size.
func FromFunc[T any](next func() (T, bool)) Sequence[T] {
	return &funcSeq[T]{next: next}
}

func (f *funcSeq[T]) Next() (T, bool) {
	return f.next()
}

func (f *funcSeq[T]) SizeHint() SizeHint {
	return Unknown()
}

type chanSeq[T any] struct {
	ch <-chan T
}

// FromChannel returns a sequence that receives from ch until it is closed.
// Next blocks while the channel is empty. The lower bound of the hint is the
// number of buffered values.
func FromChannel[T any](ch <-chan T) Sequence[T] {
	return &chanSeq[T]{ch: ch}
}

func (c *chanSeq[T]) Next() (T, bool) {
	v, ok := <-c.ch
	return v, ok
}

func (c *chanSeq[T]) SizeHint() SizeHint {
	return AtLeast(uint64(len(c.ch)))
}

// FromSeq converts a push iterator into a pull sequence. The returned stop
// function must be called if the sequence is abandoned before exhaustion.
func FromSeq[T any](seq iter.Seq[T]) (Sequence[T], func()) {
	next, stop := iter.Pull(seq)
	return FromFunc(next), stop
}

type takeSeq[T any] struct {
	seq       Sequence[T]
	remaining uint64
}

// Take caps seq at n items. Taking from an unbounded sequence yields an
// exactly-sized one.
func Take[T any](seq Sequence[T], n uint64) Sequence[T] {
	return &takeSeq[T]{seq: seq, remaining: n}
}

func (t *takeSeq[T]) Next() (T, bool) {
	if t.remaining == 0 {
		var zero T
		return zero, false
	}
	item, ok := t.seq.Next()
	if !ok {
		t.remaining = 0
		return item, false
	}
	t.remaining--
	return item, true
}

func (t *takeSeq[T]) SizeHint() SizeHint {
	if t.remaining == 0 {
		return ExactSize(0)
	}
	h := t.seq.SizeHint()
	lower := min(h.Lower, t.remaining)
	upper := t.remaining
	if h.HasUpper {
		upper = min(h.Upper, t.remaining)
	}
	return Between(lower, upper)
}
