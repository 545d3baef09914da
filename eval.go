package equation

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places to which results are rounded.
const Places = 15

// Context is a context for evaluating expressions. Contexts hold only
// configuration and constant values, so a Context is safe to use
// concurrently.
type Context struct {
	consts map[string]*big.Float
	prec   uint
	depth  int
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	precopt  uint
	depthopt int
)

func (precopt) ctxOption()  {}
func (depthopt) ctxOption() {}

// Prec sets the precision of calculations in bits.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// MaxDepth sets the maximum nesting depth of brackets and function calls.
func MaxDepth(depth int) ContextOption {
	return depthopt(depth)
}

// NewContext creates a new evaluation context. If no precision is given, the
// default is 64. If no maximum depth is given, the default is 256.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{prec: 64, depth: 256}
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		consts: ctx.consts,
		prec:   ctx.prec,
		depth:  ctx.depth,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case precopt:
			n.prec = uint(opt)
		case depthopt:
			n.depth = int(opt)
		default:
			panic("equation: unknown option type")
		}
	}
	if n.prec == 0 {
		panic("equation: precision must be positive")
	}
	if n.consts == nil || n.prec != ctx.prec {
		n.consts = make(map[string]*big.Float, len(constfuncs))
		for k, f := range constfuncs {
			n.consts[k] = f(new(big.Float).SetPrec(n.prec))
		}
	}
	return &n
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// MaxDepth returns the maximum nesting depth of the context.
func (ctx *Context) MaxDepth() int {
	return ctx.depth
}

// Eval evaluates an expression and returns its result rounded to Places
// decimal places.
func (ctx *Context) Eval(src string) (*big.Float, error) {
	if src == "" {
		return nil, ErrEmpty
	}
	toks := Tokenize(src)
	if len(toks) == 0 {
		return nil, ErrEmpty
	}
	r, err := ctx.evalTokens(toks, 0, Token{})
	if err != nil {
		return nil, err
	}
	return round(r, Places), nil
}

// evalTokens evaluates a token sequence. Each bracketed block, with its
// function if it has one, is evaluated recursively and replaced by its value;
// the remaining flat sequence is evaluated as infix. open is the bracket that
// began the sequence, or the zero Token at the top level.
func (ctx *Context) evalTokens(toks []Token, depth int, open Token) (*big.Float, error) {
	if len(toks) == 0 {
		return nil, &EquationError{Col: open.pos}
	}
	flat := make([]Token, 0, len(toks))
	for i := 0; i < len(toks); {
		tok := toks[i]
		switch {
		case tok.kind == tokenIdent && isFunc(tok.text):
			if i+1 >= len(toks) {
				return nil, &CallError{Col: tok.pos, Func: tok.text}
			}
			if toks[i+1].kind != tokenOpen {
				return nil, &CallError{Col: tok.pos, Func: tok.text, Next: toks[i+1].Text()}
			}
			x, next, err := ctx.evalBlock(toks, i+2, toks[i+1], depth)
			if err != nil {
				return nil, err
			}
			r, err := callFunc(tok.text, x, ctx.prec)
			if err != nil {
				return nil, err
			}
			flat = append(flat, valueToken(r, tok.pos))
			i = next
		case tok.kind == tokenOpen:
			x, next, err := ctx.evalBlock(toks, i+1, tok, depth)
			if err != nil {
				return nil, err
			}
			flat = append(flat, valueToken(x, tok.pos))
			i = next
		default:
			flat = append(flat, tok)
			i++
		}
	}
	flat, err := resolveUnary(ctx.substConsts(flat), ctx.prec)
	if err != nil {
		return nil, err
	}
	q, err := ctx.toPostfix(flat)
	if err != nil {
		return nil, err
	}
	return ctx.evalPostfix(q)
}

// evalBlock extracts and evaluates the block beginning at toks[i], where open
// is the bracket before it. It returns the value and the index after the
// block.
func (ctx *Context) evalBlock(toks []Token, i int, open Token, depth int) (*big.Float, int, error) {
	if depth >= ctx.depth {
		return nil, 0, &DepthError{Col: open.pos, Max: ctx.depth}
	}
	block, next, err := extractBlock(toks, i, open)
	if err != nil {
		return nil, 0, err
	}
	x, err := ctx.evalTokens(block, depth+1, open)
	if err != nil {
		return nil, 0, err
	}
	return x, next, nil
}

// zeroExp is a binary exponent small enough that any value below 2**zeroExp
// rounds to zero at Places decimal places.
const zeroExp = -60

// round rounds x to the given number of decimal places, with ties to even.
func round(x *big.Float, places int32) *big.Float {
	if x.Sign() == 0 || places <= Places && x.MantExp(nil) < zeroExp {
		// Skip the decimal conversion, whose cost grows with the exponent.
		return new(big.Float).SetPrec(x.Prec())
	}
	if x.IsInf() || x.IsInt() {
		return x
	}
	d, err := decimal.NewFromString(x.Text('g', -1))
	if err != nil {
		return x
	}
	r, ok := new(big.Float).SetPrec(x.Prec()).SetString(d.RoundBank(places).String())
	if !ok {
		return x
	}
	return r
}

// EvalString is a shortcut to evaluate an expression with a new context.
func EvalString(src string, opts ...ContextOption) (*big.Float, error) {
	return NewContext(opts...).Eval(src)
}
