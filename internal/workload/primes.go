package workload

import (
	"context"
	"math"
	"strconv"

	"github.com/agbru/iterprogress/progress"
)

// primes yields 2, 3, 5, 7, ... by trial division. It never ends on its own.
//
// Only the primes up to the square root of the current candidate are kept as
// divisors. They come from a second, lazily created primes stream, so memory
// grows with the square root of the largest prime produced.
type primes struct {
	divisors []uint64
	source   *primes
	count    uint64
	next     uint64
}

// NewPrimes returns the prime numbers in increasing order. A positive p.N
// caps the stream at that many primes.
func NewPrimes(_ context.Context, p Params) (Sequence, error) {
	var seq progress.Sequence[Item] = &primes{next: 2}
	if p.N > 0 {
		seq = progress.Take(seq, p.N)
	}
	return plain{Sequence: seq}, nil
}

func (p *primes) Next() (Item, bool) {
	candidate := p.nextPrime()
	item := Item{Index: p.count, Value: strconv.FormatUint(candidate, 10)}
	p.count++
	return item, true
}

func (p *primes) nextPrime() uint64 {
	for candidate := p.next; ; candidate++ {
		if p.isPrime(candidate) {
			p.next = candidate + 1
			return candidate
		}
	}
}

func (p *primes) isPrime(n uint64) bool {
	if n < 4 {
		return n >= 2
	}
	p.growDivisors(n)
	for _, q := range p.divisors {
		if q*q > n {
			return true
		}
		if n%q == 0 {
			return false
		}
	}
	return true
}

// growDivisors extends the divisor list until its last entry exceeds the
// square root of n.
func (p *primes) growDivisors(n uint64) {
	for len(p.divisors) == 0 || p.divisors[len(p.divisors)-1]*p.divisors[len(p.divisors)-1] <= n {
		if p.source == nil {
			p.source = &primes{next: 2}
		}
		p.divisors = append(p.divisors, p.source.nextPrime())
	}
}

func (p *primes) SizeHint() progress.SizeHint {
	return progress.AtLeast(math.MaxUint64)
}

// plain adapts a sequence that cannot fail and holds nothing.
type plain struct {
	progress.Sequence[Item]
	nopCloser
}
