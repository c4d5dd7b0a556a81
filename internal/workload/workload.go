// Package workload provides the built-in sequences the demo application
// wraps with progress tracking.
package workload

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/agbru/iterprogress/progress"
)

// Item is a single value produced by a workload.
type Item struct {
	// Index is the zero-based position of the item in its sequence.
	Index uint64
	// Value is the item rendered as text.
	Value string
}

// Sequence is a progress.Sequence of Items that can fail and may hold
// resources. Err reports why the sequence stopped early, if it did.
type Sequence interface {
	progress.Sequence[Item]
	Err() error
	Close() error
}

// Params carries the settings shared by all constructors.
type Params struct {
	// N is the item count for sized workloads and the cap for unbounded
	// ones; 0 leaves unbounded workloads uncapped.
	N uint64
	// Step is the per-item delay of the ticker workload.
	Step time.Duration
	// Input is the path read by the lines workload; "-" selects Stdin.
	Input string
	// Stdin is read when Input is "-".
	Stdin io.Reader
}

// Constructor builds a fresh sequence. ctx bounds the sequence's lifetime
// for workloads that block.
type Constructor func(ctx context.Context, p Params) (Sequence, error)

// Workload describes a registered workload.
type Workload struct {
	Name        string
	Description string
	New         Constructor
}

// Factory looks up workloads by name.
type Factory interface {
	// Get returns the workload registered under name.
	Get(name string) (Workload, error)
	// List returns the registered names in sorted order.
	List() []string
}

// Registry is the default Factory implementation. It is safe for concurrent
// use.
type Registry struct {
	mu        sync.RWMutex
	workloads map[string]Workload
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{workloads: make(map[string]Workload)}
}

// NewDefaultRegistry returns a registry holding the built-in workloads.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Workload{Name: "fib", Description: "Fibonacci numbers F(0) to F(n-1)", New: NewFibonacci})
	r.Register(Workload{Name: "primes", Description: "unbounded prime numbers, capped at n when n > 0", New: NewPrimes})
	r.Register(Workload{Name: "ticker", Description: "n synthetic items spaced by -step", New: NewTicker})
	r.Register(Workload{Name: "lines", Description: "lines of -input", New: NewLines})
	return r
}

// Register adds or replaces a workload.
func (r *Registry) Register(w Workload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workloads[w.Name] = w
}

// Get implements Factory.
func (r *Registry) Get(name string) (Workload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.workloads[name]
	if !ok {
		return Workload{}, fmt.Errorf("unknown workload %q", name)
	}
	return w, nil
}

// List implements Factory.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.workloads))
	for name := range r.workloads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// nopCloser provides the Err and Close methods for sequences that cannot
// fail and hold nothing.
type nopCloser struct{}

func (nopCloser) Err() error   { return nil }
func (nopCloser) Close() error { return nil }
