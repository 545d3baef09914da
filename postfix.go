package equation

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// Operators contains the binary operators understood in expressions, from
// most to least binding.
const Operators = "^*/%+-"

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// apply sets z to the result of the operator applied to x and y. z may
	// alias x.
	apply func(z, x, y *big.Float) error
}

var operators = map[string]operator{
	"^": {3, true, pow},
	"*": {2, false, mul},
	"/": {2, false, quo},
	"%": {2, false, mod},
	"+": {1, false, add},
	"-": {1, false, sub},
}

// yields reports whether an operator p on the operator stack must be output
// before pushing q.
func (p operator) yields(q operator) bool {
	if p.prec != q.prec {
		return p.prec > q.prec
	}
	return !q.right
}

// toPostfix converts a flat infix token sequence to postfix order using the
// shunting yard algorithm. Every number in the result has its value parsed.
func (ctx *Context) toPostfix(toks []Token) ([]Token, error) {
	out := make([]Token, 0, len(toks))
	ops := make([]Token, 0, len(toks)/2)
	// operand is whether the last token completed an operand, i.e. whether an
	// operator is expected next.
	operand := false
	// open is the number of unclosed open brackets.
	open := 0
	for i, tok := range toks {
		switch tok.kind {
		case tokenNum:
			if operand {
				return nil, &EquationError{Col: tok.pos, Operands: 2, Tokens: toks}
			}
			v, err := number(tok, ctx.prec)
			if err != nil {
				return nil, err
			}
			tok.val = v
			out = append(out, tok)
			operand = true
		case tokenIdent:
			return nil, &NameError{Col: tok.pos, Name: tok.text}
		case tokenOp:
			op, ok := operators[tok.text]
			if !ok {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text}
			}
			if !operand {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Context: window(toks, i)}
			}
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.kind == tokenOpen || !operators[top.text].yields(op) {
					break
				}
				out = append(out, top)
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, tok)
			operand = false
		case tokenOpen:
			if operand {
				return nil, &EquationError{Col: tok.pos, Operands: 2, Tokens: toks}
			}
			ops = append(ops, tok)
			open++
		case tokenClose:
			if open == 0 {
				return nil, &BracketError{Col: tok.pos, Right: tok.text}
			}
			if !operand {
				return nil, &EquationError{Col: tok.pos, Operands: 1, Tokens: toks}
			}
			open--
			for {
				top := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if top.kind == tokenOpen {
					break
				}
				out = append(out, top)
			}
		default:
			panic("equation: unknown token: " + tok.String())
		}
	}
	if !operand {
		if len(toks) == 0 {
			return nil, &EquationError{}
		}
		end := toks[len(toks)-1]
		return nil, &EquationError{Col: end.pos, Operands: 1, Tokens: toks}
	}
	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i].kind == tokenOpen {
			return nil, &BracketError{Col: ops[i].pos, Left: ops[i].text}
		}
		out = append(out, ops[i])
	}
	return out, nil
}

// window returns a copy of the token at i and its immediate neighbours.
func window(toks []Token, i int) []Token {
	lo, hi := i-1, i+2
	if lo < 0 {
		lo = 0
	}
	if hi > len(toks) {
		hi = len(toks)
	}
	return append([]Token(nil), toks[lo:hi]...)
}

// stack is an operand stack for evaluating postfix sequences.
type stack []*big.Float

// push adds a zero value with the given precision to the stack and returns it.
func (s *stack) push(prec uint) *big.Float {
	r := new(big.Float).SetPrec(prec)
	*s = append(*s, r)
	return r
}

// pop removes the top from the stack and returns it.
func (s *stack) pop() *big.Float {
	r := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (s stack) top() *big.Float {
	return s[len(s)-1]
}

// evalPostfix evaluates a postfix sequence produced by toPostfix.
func (ctx *Context) evalPostfix(q []Token) (*big.Float, error) {
	s := make(stack, 0, len(q)/2+1)
	for _, tok := range q {
		if tok.isNum() {
			s.push(ctx.prec).Set(tok.val)
			continue
		}
		if len(s) < 2 {
			return nil, &EquationError{Col: tok.pos, Operands: len(s), Tokens: q}
		}
		op, ok := operators[tok.text]
		if !ok {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text}
		}
		r := s.pop()
		l := s.top()
		if err := op.call(tok.text, l, r); err != nil {
			return nil, err
		}
	}
	if len(s) != 1 {
		col := 0
		if len(q) > 0 {
			col = q[0].pos
		}
		return nil, &EquationError{Col: col, Operands: len(s), Tokens: q}
	}
	return s[0], nil
}

// call applies the operator to l and r, storing the result in l. NaN panics
// from package big become domain errors.
func (op operator) call(name string, l, r *big.Float) (err error) {
	x := new(big.Float).Copy(l)
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if _, ok := p.(big.ErrNaN); ok {
			err = &DomainError{X: x, Func: name}
			return
		}
		panic(p)
	}()
	return op.apply(l, l, r)
}

func add(z, x, y *big.Float) error {
	z.Add(x, y)
	return nil
}

func sub(z, x, y *big.Float) error {
	z.Sub(x, y)
	return nil
}

func mul(z, x, y *big.Float) error {
	z.Mul(x, y)
	return nil
}

func quo(z, x, y *big.Float) error {
	// Guard against invalid divisions, 0/0 or inf/inf.
	if x.Sign() == 0 && y.Sign() == 0 || x.IsInf() && y.IsInf() {
		return &DomainError{X: new(big.Float).Copy(y), Arg: 2, Func: "/"}
	}
	z.Quo(x, y)
	return nil
}

// mod computes the floored remainder of x/y, which has the sign of y.
func mod(z, x, y *big.Float) error {
	switch {
	case y.Sign() == 0:
		return &DomainError{X: new(big.Float).Copy(y), Arg: 2, Func: "%"}
	case x.IsInf():
		return &DomainError{X: new(big.Float).Copy(x), Arg: 1, Func: "%"}
	case y.IsInf():
		if x.Sign() != 0 && x.Signbit() != y.Signbit() {
			z.Set(y)
		} else {
			z.Set(x)
		}
		return nil
	}
	prec := z.Prec() + guard
	if d := x.MantExp(nil) - y.MantExp(nil); d > 0 {
		prec += uint(d)
	}
	q := new(big.Float).SetPrec(prec).Quo(x, y)
	n, acc := q.Int(nil)
	if acc == big.Above {
		// Truncation rounded a negative quotient up.
		n.Sub(n, big.NewInt(1))
	}
	q.SetInt(n)
	q.Mul(q, y)
	z.Sub(x, q)
	return nil
}

// maxIntPow is the largest exponent magnitude evaluated by repeated squaring.
const maxIntPow = 1 << 20

func pow(z, x, y *big.Float) error {
	if x.IsInf() || y.IsInf() {
		fx, _ := x.Float64()
		fy, _ := y.Float64()
		r := math.Pow(fx, fy)
		if math.IsNaN(r) {
			return &DomainError{X: new(big.Float).Copy(x), Arg: 1, Func: "^"}
		}
		z.SetFloat64(r)
		return nil
	}
	if y.IsInt() {
		if n, acc := y.Int64(); acc == big.Exact && -maxIntPow <= n && n <= maxIntPow {
			intpow(z, x, n)
			return nil
		}
	}
	neg := false
	switch {
	case x.Sign() == 0:
		if y.Sign() < 0 {
			z.SetInf(false)
		} else {
			z.SetInt64(0)
		}
		return nil
	case x.Signbit():
		if !y.IsInt() {
			// Non-integer powers of negative numbers are complex.
			return &DomainError{X: new(big.Float).Copy(x), Arg: 1, Func: "^"}
		}
		neg = odd(y)
	}
	prec := z.Prec() + guard
	bx := new(big.Float).SetPrec(prec).Abs(x)
	by := new(big.Float).SetPrec(prec).Set(y)
	z.Set(bigfloat.Pow(new(big.Float).SetPrec(prec), bx, by))
	if neg {
		z.Neg(z)
	}
	return nil
}

// odd reports whether the integer y is odd. An integer is odd exactly when
// its lowest mantissa bit is the units bit.
func odd(y *big.Float) bool {
	if y.Sign() == 0 {
		return false
	}
	return y.MantExp(nil) == int(y.MinPrec())
}

// intpow sets z to x^n by repeated squaring.
func intpow(z, x *big.Float, n int64) {
	neg := n < 0
	if neg {
		n = -n
	}
	prec := z.Prec() + guard
	b := new(big.Float).SetPrec(prec).Set(x)
	r := new(big.Float).SetPrec(prec).SetInt64(1)
	for ; n > 0; n >>= 1 {
		if n&1 != 0 {
			r.Mul(r, b)
		}
		if n > 1 {
			b.Mul(b, b)
		}
	}
	if neg {
		r.Quo(big.NewFloat(1), r)
	}
	z.Set(r)
}
