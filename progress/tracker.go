package progress

import (
	"math"
	"time"
)

// Option configures the statistics a decorator tracks. Options may be passed
// to Wrap or WrapSampled, or re-applied later with Configure; each call
// replaces the previous setting for the same concern.
type Option func(*tracker)

// WithRollingAverage enables a rolling mean of step durations over the last
// size steps. A non-positive size disables rolling tracking. Re-enabling
// allocates a fresh, empty window.
func WithRollingAverage(size int) Option {
	return func(t *tracker) {
		if size <= 0 {
			t.rolling = nil
			return
		}
		t.rolling = newRollingWindow(size)
	}
}

// WithoutRollingAverage disables rolling tracking and releases its buffer.
func WithoutRollingAverage() Option {
	return WithRollingAverage(0)
}

// WithExpAverage enables an exponential moving average of step durations
// with smoothing factor rate. Small rates (0.001 to 0.1) smooth heavily.
// A non-positive or NaN rate disables exponential tracking; rates above 1
// are clamped to 1.
func WithExpAverage(rate float64) Option {
	return func(t *tracker) {
		if rate <= 0 || math.IsNaN(rate) {
			t.exp = nil
			return
		}
		t.exp = newExpAverage(min(rate, 1))
	}
}

// WithoutExpAverage disables exponential tracking.
func WithoutExpAverage() Option {
	return WithExpAverage(0)
}

// WithAssumedSize sets the total number of items to assume when the wrapped
// sequence cannot report an exact size. An exact size hint still wins.
func WithAssumedSize(n uint64) Option {
	return func(t *tracker) {
		t.assumedSize = n
		t.hasAssumedSize = true
	}
}

// WithoutAssumedSize clears the assumed total size.
func WithoutAssumedSize() Option {
	return func(t *tracker) {
		t.assumedSize = 0
		t.hasAssumedSize = false
	}
}

// WithClock replaces the wall clock. The start time is read from the clock
// once, when the decorator is created, so this option only affects the start
// time when passed to Wrap or WrapSampled.
func WithClock(clock func() time.Time) Option {
	return func(t *tracker) {
		if clock == nil {
			clock = time.Now
		}
		t.clock = clock
	}
}

// tracker holds the accumulating state shared by Decorator and Sampled.
type tracker struct {
	count uint64
	every uint64

	start time.Time

	// previous is the timestamp of the last record built; lastPull is the
	// timestamp of the last pull, record or not. They differ only when
	// sampling.
	previous    time.Time
	hasPrevious bool
	lastPull    time.Time
	hasLastPull bool

	rolling *rollingWindow
	exp     *expAverage

	assumedSize    uint64
	hasAssumedSize bool

	next    time.Time
	hasNext bool

	clock func() time.Time
}

func newTracker(every uint64, opts []Option) tracker {
	if every == 0 {
		every = 1
	}
	t := tracker{every: every, clock: time.Now}
	t.configure(opts)
	t.start = t.clock()
	return t
}

func (t *tracker) configure(opts []Option) {
	for _, opt := range opts {
		opt(t)
	}
}

// setNext fills the one-shot timestamp slot used by the next pull.
func (t *tracker) setNext(now time.Time) {
	t.next = now
	t.hasNext = true
}

// takeNext empties the timestamp slot, reporting whether it was filled.
func (t *tracker) takeNext() (time.Time, bool) {
	now, ok := t.next, t.hasNext
	t.next = time.Time{}
	t.hasNext = false
	return now, ok
}

// step accounts for one pulled item. override is the injected timestamp for
// this pull, if any. A record is built only on sampling boundaries; the
// averages advance on every step, while the previous-record timestamp moves
// only when a record is built. hint is only consulted when a record is built.
func (t *tracker) step(override time.Time, hasOverride bool, hint func() SizeHint) (Record, bool) {
	now := override
	if !hasOverride {
		now = t.clock()
	}
	t.count++

	var (
		expAvg, rollingAvg       time.Duration
		hasExpAvg, hasRollingAvg bool
	)
	if t.hasLastPull && (t.exp != nil || t.rolling != nil) {
		d := now.Sub(t.lastPull)
		if t.exp != nil {
			expAvg, hasExpAvg = t.exp.observe(d), true
		}
		if t.rolling != nil {
			rollingAvg, hasRollingAvg = t.rolling.observe(d), true
		}
	}

	t.lastPull, t.hasLastPull = now, true

	if t.count%t.every != 0 {
		return Record{}, false
	}

	rec := Record{
		numDone:        t.count,
		elapsed:        now.Sub(t.start),
		sizeHint:       hint(),
		assumedSize:    t.assumedSize,
		hasAssumedSize: t.hasAssumedSize,
		previous:       t.previous,
		hasPrevious:    t.hasPrevious,
		start:          t.start,
		rollingAvg:     rollingAvg,
		hasRollingAvg:  hasRollingAvg,
		expAvg:         expAvg,
		hasExpAvg:      hasExpAvg,
	}
	t.previous, t.hasPrevious = now, true
	return rec, true
}
