package orchestration

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/agbru/iterprogress/internal/telemetry"
	"github.com/agbru/iterprogress/internal/workload"
	"github.com/agbru/iterprogress/progress"
)

// fakeSeq yields n items, sleeping delay before each one, and fails with err
// after failAt items when err is set.
type fakeSeq struct {
	ctx    context.Context
	n      uint64
	pos    uint64
	delay  time.Duration
	err    error
	failAt uint64
	stop   error
	closed *bool
}

func (f *fakeSeq) Next() (workload.Item, bool) {
	if f.pos >= f.n || f.stop != nil {
		return workload.Item{}, false
	}
	if f.err != nil && f.pos == f.failAt {
		f.stop = f.err
		return workload.Item{}, false
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-f.ctx.Done():
			f.stop = f.ctx.Err()
			return workload.Item{}, false
		}
	}
	f.pos++
	return workload.Item{Index: f.pos - 1}, true
}

func (f *fakeSeq) SizeHint() progress.SizeHint { return progress.ExactSize(f.n - f.pos) }
func (f *fakeSeq) Err() error                  { return f.stop }

func (f *fakeSeq) Close() error {
	if f.closed != nil {
		*f.closed = true
	}
	return nil
}

// fakeWorkload builds a workload around fakeSeq. The sequence length comes
// from Params.N.
func fakeWorkload(name string, delay time.Duration, err error, failAt uint64) workload.Workload {
	return workload.Workload{
		Name: name,
		New: func(ctx context.Context, p workload.Params) (workload.Sequence, error) {
			return &fakeSeq{ctx: ctx, n: p.N, delay: delay, err: err, failAt: failAt}, nil
		},
	}
}

func brokenWorkload(name string) workload.Workload {
	return workload.Workload{
		Name: name,
		New: func(context.Context, workload.Params) (workload.Sequence, error) {
			return nil, errors.New("cannot open")
		},
	}
}

// collectingReporter records every update it receives.
type collectingReporter struct {
	mu      sync.Mutex
	names   []string
	updates []Update
}

func (c *collectingReporter) DisplayProgress(wg *sync.WaitGroup, ch <-chan Update, workloads []string, _ io.Writer) {
	defer wg.Done()
	c.mu.Lock()
	c.names = workloads
	c.mu.Unlock()
	for u := range ch {
		c.mu.Lock()
		c.updates = append(c.updates, u)
		c.mu.Unlock()
	}
}

func (c *collectingReporter) byIndex(i int) []Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Update
	for _, u := range c.updates {
		if u.Index == i {
			out = append(out, u)
		}
	}
	return out
}

// recordingSink stores every event.
type recordingSink struct {
	mu     sync.Mutex
	events []telemetry.Event
	fail   error
}

func (s *recordingSink) Consume(_ context.Context, evt telemetry.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return s.fail
}

func (s *recordingSink) Close(context.Context) error { return nil }

func (s *recordingSink) stages(workload string) []telemetry.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []telemetry.Stage
	for _, e := range s.events {
		if e.Workload == workload {
			out = append(out, e.Stage)
		}
	}
	return out
}

// mockResultPresenter records what it was asked to present.
type mockResultPresenter struct {
	results []RunResult
}

func (m *mockResultPresenter) PresentSummary(results []RunResult, _ io.Writer) {
	m.results = append([]RunResult(nil), results...)
}
