package workload

import (
	"context"
	"fmt"
	"time"

	"github.com/agbru/iterprogress/progress"
)

// ticker yields n items, waiting step before each one. It stops early when
// its context is done.
type ticker struct {
	nopCloser
	ctx  context.Context
	n, i uint64
	step time.Duration
	err  error
}

// NewTicker returns p.N synthetic items spaced by p.Step.
func NewTicker(ctx context.Context, p Params) (Sequence, error) {
	return &ticker{ctx: ctx, n: p.N, step: p.Step}, nil
}

func (t *ticker) Next() (Item, bool) {
	if t.i >= t.n || t.err != nil {
		return Item{}, false
	}
	if err := sleep(t.ctx, t.step); err != nil {
		t.err = err
		return Item{}, false
	}
	item := Item{Index: t.i, Value: fmt.Sprintf("tick %d", t.i+1)}
	t.i++
	return item, true
}

func (t *ticker) SizeHint() progress.SizeHint {
	if t.err != nil {
		return progress.ExactSize(0)
	}
	return progress.ExactSize(t.n - t.i)
}

func (t *ticker) Err() error { return t.err }

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
