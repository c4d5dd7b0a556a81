package progress

import "time"

// testEpoch is the fixed clock reading used as every test decorator's start.
var testEpoch = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// frozenClock never advances; tests drive time through SetNextTime.
func frozenClock() time.Time {
	return testEpoch
}

// at returns the timestamp d after testEpoch.
func at(d time.Duration) time.Time {
	return testEpoch.Add(d)
}

// pullAt pins the next pull of d to offset and performs it.
func pullAt[T any](d *Decorator[T], offset time.Duration) (Record, T, bool) {
	d.SetNextTime(at(offset))
	return d.Next()
}

// mustNext pulls from d and panics on exhaustion.
func mustNext[T any](d *Decorator[T]) (Record, T) {
	rec, item, ok := d.Next()
	if !ok {
		panic("sequence exhausted")
	}
	return rec, item
}
