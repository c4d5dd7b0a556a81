package workload

import (
	"context"

	"github.com/agbru/iterprogress/progress"
)

// bigNum is the arbitrary-precision integer the fib workload iterates with.
// It is math/big by default and GMP with the gmp build tag.
type bigNum interface {
	String() string
}

// fibonacci yields F(0), F(1), ..., F(n-1). Its size hint is exact.
type fibonacci struct {
	nopCloser
	n, i uint64
	adv  fibAdvancer
}

// NewFibonacci returns the first p.N Fibonacci numbers.
func NewFibonacci(_ context.Context, p Params) (Sequence, error) {
	return &fibonacci{n: p.N, adv: newFibAdvancer()}, nil
}

func (f *fibonacci) Next() (Item, bool) {
	if f.i >= f.n {
		return Item{}, false
	}
	item := Item{Index: f.i, Value: f.adv.current().String()}
	f.adv.advance()
	f.i++
	return item, true
}

func (f *fibonacci) SizeHint() progress.SizeHint {
	return progress.ExactSize(f.n - f.i)
}
