package equation

import (
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// maxTrigExp is the largest binary exponent of a trig argument. Beyond it,
// reducing the argument modulo 2π needs more precision than is reasonable.
const maxTrigExp = 1 << 16

// sincos computes sin(x) and cos(x) with prec bits of precision. The results
// carry extra guard bits. Panics with big.ErrNaN if x is infinite or too large.
func sincos(x *big.Float, prec uint) (s, c *big.Float) {
	if x.IsInf() {
		panic(big.ErrNaN{})
	}
	wprec := prec + guard
	if exp := x.MantExp(nil); exp > maxTrigExp {
		panic(big.ErrNaN{})
	} else if exp > 0 {
		// Keep prec bits of the reduced argument.
		wprec += uint(exp)
	}
	r := reduce(x, wprec)
	r2 := new(big.Float).SetPrec(wprec).Mul(r, r)
	s = series(new(big.Float).SetPrec(wprec).Set(r), r2, 2, wprec)
	c = series(new(big.Float).SetPrec(wprec).SetInt64(1), r2, 1, wprec)
	return s, c
}

// reduce returns x - 2πk for the integer k nearest x/2π.
func reduce(x *big.Float, prec uint) *big.Float {
	twopi := bigfloat.Pi(new(big.Float).SetPrec(prec))
	twopi.SetMantExp(twopi, 1)
	r := new(big.Float).SetPrec(prec).Set(x)
	k := new(big.Float).SetPrec(prec).Quo(r, twopi)
	if k.Signbit() {
		k.Sub(k, big.NewFloat(0.5))
	} else {
		k.Add(k, big.NewFloat(0.5))
	}
	n, _ := k.Int(nil)
	if n.Sign() == 0 {
		return r
	}
	k.SetInt(n)
	return r.Sub(r, k.Mul(k, twopi))
}

// series sums the alternating series whose first term is sum and whose
// successive terms are multiplied by -x2/((n)(n+1)), n = first, first+2, ...
// This is the Taylor series of sin with first = 2 and of cos with first = 1.
func series(sum, x2 *big.Float, first int64, prec uint) *big.Float {
	term := new(big.Float).SetPrec(prec).Set(sum)
	d := new(big.Float).SetPrec(prec)
	for n := first; term.Sign() != 0; n += 2 {
		term.Mul(term, x2)
		term.Quo(term, d.SetInt64(n*(n+1)))
		term.Neg(term)
		sum.Add(sum, term)
		if term.Sign() == 0 || term.MantExp(nil) < sum.MantExp(nil)-int(prec) {
			break
		}
	}
	return sum
}
