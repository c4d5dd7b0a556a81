//go:build !gmp

package workload

import "math/big"

// fibAdvancer holds the pair (F(i), F(i+1)).
type fibAdvancer struct {
	a, b *big.Int
}

func newFibAdvancer() fibAdvancer {
	return fibAdvancer{a: big.NewInt(0), b: big.NewInt(1)}
}

func (f *fibAdvancer) current() bigNum { return f.a }

func (f *fibAdvancer) advance() {
	f.a.Add(f.a, f.b)
	f.a, f.b = f.b, f.a
}
