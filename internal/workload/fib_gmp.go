//go:build gmp

package workload

import "github.com/ncw/gmp"

// fibAdvancer holds the pair (F(i), F(i+1)) in GMP integers.
type fibAdvancer struct {
	a, b *gmp.Int
}

func newFibAdvancer() fibAdvancer {
	return fibAdvancer{a: gmp.NewInt(0), b: gmp.NewInt(1)}
}

func (f *fibAdvancer) current() bigNum { return f.a }

func (f *fibAdvancer) advance() {
	f.a.Add(f.a, f.b)
	f.a, f.b = f.b, f.a
}
