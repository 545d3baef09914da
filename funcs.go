package equation

import (
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// guard is the number of extra bits used for intermediate results.
const guard = 32

// monadic is a function of one real. It must set z to its result at z's
// precision and must not modify x. If x is outside the function's domain, it
// panics with big.ErrNaN.
type monadic func(z, x *big.Float) *big.Float

var funcs = map[string]monadic{
	"cos":   cos,
	"sec":   sec,
	"sin":   sin,
	"csc":   csc,
	"tan":   tan,
	"cot":   cot,
	"sqrt":  sqrt,
	"log":   ln,
	"log10": log10,
}

// constfuncs computes the named constants at z's precision.
var constfuncs = map[string]func(z *big.Float) *big.Float{
	"pi": bigfloat.Pi,
	"e": func(z *big.Float) *big.Float {
		var one big.Float
		one.SetFloat64(1)
		return bigfloat.Exp(z, &one)
	},
}

// isFunc reports whether name is the name of a function.
func isFunc(name string) bool {
	_, ok := funcs[name]
	return ok
}

// callFunc evaluates the named function at x to prec bits.
func callFunc(name string, x *big.Float, prec uint) (r *big.Float, err error) {
	f := funcs[name]
	if f == nil {
		return nil, &FuncError{Name: name}
	}
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if _, ok := p.(big.ErrNaN); ok {
			r, err = nil, &DomainError{X: x, Arg: 1, Func: name}
			return
		}
		panic(p)
	}()
	r = new(big.Float).SetPrec(prec)
	f(r, x)
	return r, nil
}

// Functions returns the sorted names of the functions recognized in
// expressions.
func Functions() []string {
	names := make([]string, 0, len(funcs))
	for k := range funcs {
		names = append(names, k)
	}
	sortstrs(names)
	return names
}

// Constants returns the sorted names of the constants recognized in
// expressions.
func Constants() []string {
	names := make([]string, 0, len(constfuncs))
	for k := range constfuncs {
		names = append(names, k)
	}
	sortstrs(names)
	return names
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

func sqrt(z, x *big.Float) *big.Float {
	return z.Sqrt(x)
}

func ln(z, x *big.Float) *big.Float {
	switch {
	case x.Sign() < 0:
		panic(big.ErrNaN{})
	case x.Sign() == 0:
		return z.SetInf(true)
	case x.IsInf():
		return z.SetInf(false)
	}
	w := new(big.Float).SetPrec(z.Prec() + guard).Set(x)
	return z.Set(bigfloat.Log(new(big.Float).SetPrec(w.Prec()), w))
}

func log10(z, x *big.Float) *big.Float {
	prec := z.Prec() + guard
	n := ln(new(big.Float).SetPrec(prec), x)
	if n.IsInf() {
		return z.Set(n)
	}
	d := ln(new(big.Float).SetPrec(prec), big.NewFloat(10))
	return z.Quo(n, d)
}

func cos(z, x *big.Float) *big.Float {
	_, c := sincos(x, z.Prec())
	return z.Set(c)
}

func sin(z, x *big.Float) *big.Float {
	s, _ := sincos(x, z.Prec())
	return z.Set(s)
}

func tan(z, x *big.Float) *big.Float {
	s, c := sincos(x, z.Prec())
	return z.Quo(s, c)
}

func sec(z, x *big.Float) *big.Float {
	_, c := sincos(x, z.Prec())
	return z.Quo(big.NewFloat(1), c)
}

func csc(z, x *big.Float) *big.Float {
	s, _ := sincos(x, z.Prec())
	return z.Quo(big.NewFloat(1), s)
}

func cot(z, x *big.Float) *big.Float {
	s, c := sincos(x, z.Prec())
	return z.Quo(c, s)
}
