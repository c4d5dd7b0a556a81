// Package progress decorates a sequence with per-step progress telemetry.
//
// Wrap any Sequence and every item comes back paired with a Record: how many
// items are done, how long it has been, the cumulative, rolling and
// exponentially smoothed rates, the completion fraction when the size is
// known, and an ETA derived from it. The wrapped items, their order and the
// sequence's size hint are left untouched.
//
//	d := progress.Wrap(progress.Range(1_000), progress.WithRollingAverage(50))
//	for rec, n := range d.All() {
//		rec.DoEvery(time.Second, func() {
//			pct, _ := rec.Percent()
//			log.Printf("%.1f%% done, %.0f/s", pct, rec.Rate())
//		})
//		work(n)
//	}
//
// Unknowable values are reported as absent (an ok == false second result)
// rather than as errors: an infinite sequence has no fraction unless one is
// assumed with WithAssumedSize or Record.AssumeFraction. A rate over a zero
// time span is +Inf.
//
// For very hot loops, WrapSampled only builds a record every k items while
// keeping the averages exact.
//
// Decorators are single-consumer and not safe for concurrent use. Records
// are values and may be shared freely.
package progress
