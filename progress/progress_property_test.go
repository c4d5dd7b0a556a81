package progress

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func testParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return parameters
}

// TestFraction_PropertyBased verifies that after i pulls from a sequence of
// exactly s items the fraction is i/s and the percentage is 100 times that.
func TestFraction_PropertyBased(t *testing.T) {
	properties := gopter.NewProperties(testParameters())

	properties.Property("fraction is done over total", prop.ForAll(
		func(s, i uint64) bool {
			if i > s {
				i = s
			}
			d := Wrap(Range(s))
			var rec Record
			for range i {
				rec, _ = mustNext(d)
			}
			if i == 0 {
				return true
			}
			f, ok := rec.Fraction()
			if !ok || math.Abs(f-float64(i)/float64(s)) > 1e-12 {
				return false
			}
			p, _ := rec.Percent()
			return math.Abs(p-100*f) < 1e-9
		},
		gen.UInt64Range(1, 500),
		gen.UInt64Range(0, 500),
	))

	properties.Property("unbounded fraction is absent", prop.ForAll(
		func(i uint64) bool {
			d := Wrap(Naturals())
			d.Skip(i)
			rec, _ := mustNext(d)
			_, ok := rec.Fraction()
			return !ok && rec.NumDone() == i+1
		},
		gen.UInt64Range(0, 300),
	))

	properties.TestingRun(t)
}

// TestItemTrigger_PropertyBased verifies the item gate fires exactly on
// counts 1, k+1, 2k+1, ...
func TestItemTrigger_PropertyBased(t *testing.T) {
	properties := gopter.NewProperties(testParameters())

	properties.Property("fires ceil(n/k) times", prop.ForAll(
		func(n, k uint64) bool {
			d := Wrap(Range(n))
			var fired uint64
			for rec := range d.All() {
				want := (rec.NumDone()-1)%k == 0
				if rec.ShouldTriggerEveryItems(k) != want {
					return false
				}
				if want {
					fired++
				}
			}
			return fired == (n+k-1)/k
		},
		gen.UInt64Range(0, 200),
		gen.UInt64Range(1, 20),
	))

	properties.TestingRun(t)
}

// TestSampled_PropertyBased verifies the sampled variant yields floor(n/k)
// records, each at a multiple of k.
func TestSampled_PropertyBased(t *testing.T) {
	properties := gopter.NewProperties(testParameters())

	properties.Property("records land on multiples of k", prop.ForAll(
		func(n, k uint64) bool {
			s := WrapSampled(Range(n), k)
			var records, items uint64
			for rec := range s.All() {
				items++
				if rec == nil {
					continue
				}
				records++
				if rec.NumDone() != items || items%k != 0 {
					return false
				}
			}
			return items == n && records == n/k
		},
		gen.UInt64Range(0, 200),
		gen.UInt64Range(1, 20),
	))

	properties.TestingRun(t)
}

// TestAverages_PropertyBased compares the rolling window against a naive mean
// of the trailing durations, and checks that a smoothing rate of 1 tracks
// the latest step exactly.
func TestAverages_PropertyBased(t *testing.T) {
	properties := gopter.NewProperties(testParameters())

	properties.Property("rolling mean matches naive mean", prop.ForAll(
		func(steps []int64, size int) bool {
			d := Wrap(Naturals(), WithClock(frozenClock), WithRollingAverage(size))
			var offset time.Duration
			pullAt(d, offset)
			for i, ms := range steps {
				offset += time.Duration(ms) * time.Millisecond
				rec, _, _ := pullAt(d, offset)

				window := steps[max(0, i+1-size) : i+1]
				var sum time.Duration
				for _, v := range window {
					sum += time.Duration(v) * time.Millisecond
				}
				got, ok := rec.RollingAvgStepDuration()
				if !ok || got != sum/time.Duration(len(window)) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(0, 2000)),
		gen.IntRange(1, 8),
	))

	properties.Property("rate 1 tracks the last step", prop.ForAll(
		func(steps []int64) bool {
			d := Wrap(Naturals(), WithClock(frozenClock), WithExpAverage(1))
			var offset time.Duration
			pullAt(d, offset)
			for _, ms := range steps {
				offset += time.Duration(ms) * time.Millisecond
				rec, _, _ := pullAt(d, offset)
				got, ok := rec.ExpAvgStepDuration()
				if !ok || got != time.Duration(ms)*time.Millisecond {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(0, 2000)),
	))

	properties.TestingRun(t)
}
