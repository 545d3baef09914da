package equation

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func TestOperatorsExist(t *testing.T) {
	for _, r := range Operators {
		if _, ok := operators[string(r)]; !ok {
			t.Errorf("no operator for %c", r)
		}
	}
	if len(operators) != len(Operators) {
		t.Errorf("%d operators in table, %d in Operators", len(operators), len(Operators))
	}
}

func TestOperatorPrecedence(t *testing.T) {
	order := []string{"^", "*", "+"}
	for i := 1; i < len(order); i++ {
		if a, b := operators[order[i-1]], operators[order[i]]; a.prec <= b.prec {
			t.Errorf("%s should bind more tightly than %s", order[i-1], order[i])
		}
	}
	for _, op := range []string{"/", "%"} {
		if operators[op].prec != operators["*"].prec {
			t.Errorf("%s should have the precedence of *", op)
		}
	}
	if operators["-"].prec != operators["+"].prec {
		t.Error("- should have the precedence of +")
	}
	for k, op := range operators {
		if op.right != (k == "^") {
			t.Errorf("wrong associativity for %s", k)
		}
	}
}

func TestToPostfix(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"num", "1", "[1]"},
		{"add", "1 + 2", "[1 2 +]"},
		{"prec", "1 + 2 * 3", "[1 2 3 * +]"},
		{"prec-desc", "1 * 2 + 3", "[1 2 * 3 +]"},
		{"left", "1 - 2 - 3", "[1 2 - 3 -]"},
		{"div-left", "8 / 4 / 2", "[8 4 / 2 /]"},
		{"right", "2 ^ 3 ^ 2", "[2 3 2 ^ ^]"},
		{"mixed", "8 % 3 / 2", "[8 3 % 2 /]"},
		{"pow-mul", "2 * 3 ^ 2", "[2 3 2 ^ *]"},
		{"parens", "( 1 + 2 ) * 3", "[1 2 + 3 *]"},
		{"nested", "2 * ( ( 1 + 2 ) ^ 2 )", "[2 1 2 + 2 ^ *]"},
	}
	ctx := NewContext()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q, err := ctx.toPostfix(Tokenize(c.src))
			if err != nil {
				t.Fatalf("converting %q: %v", c.src, err)
			}
			if got := texts(q); got != c.want {
				t.Errorf("converting %q: want %s, got %s", c.src, c.want, got)
			}
			for _, tok := range q {
				if tok.isNum() && tok.val == nil {
					t.Errorf("converting %q: number %v not parsed", c.src, tok)
				}
			}
		})
	}
}

func TestToPostfixErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  interface{}
		col  int
	}{
		{"close", "1 )", new(*BracketError), 3},
		{"close-after-op", "1 + )", new(*BracketError), 5},
		{"close-first", ") 1", new(*BracketError), 1},
		{"open", "( 1", new(*BracketError), 1},
		{"operands", "2 3 +", new(*EquationError), 3},
		{"operators", "1 + + 2", new(*OperatorError), 5},
		{"leading-op", "* 2", new(*OperatorError), 1},
		{"trailing-op", "1 +", new(*EquationError), 3},
		{"name", "1 + x", new(*NameError), 5},
		{"func-name", "cos", new(*NameError), 1},
		{"unknown-op", "1 $ 2", new(*OperatorError), 3},
		{"bad-num", "1 + 1..2", new(*LexError), 5},
		{"empty-parens", "( )", new(*EquationError), 3},
		{"juxtaposed", "2 ( 3 )", new(*EquationError), 3},
	}
	ctx := NewContext()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ctx.toPostfix(Tokenize(c.src))
			if err == nil {
				t.Fatalf("converting %q gave no error", c.src)
			}
			if !errors.As(err, c.err) {
				t.Fatalf("converting %q: wrong error type %#v", c.src, err)
			}
			if ie, ok := err.(InputError); !ok || ie.Pos() != c.col {
				t.Errorf("converting %q: want error at %d, got %v", c.src, c.col, err)
			}
		})
	}
}

func TestEvalPostfix(t *testing.T) {
	cases := []struct {
		src string
		r   float64
	}{
		{"1", 1},
		{"1 + 2", 3},
		{"1 - 2 - 3", -4},
		{"2 * 3 + 4", 10},
		{"2 + 3 * 4", 14},
		{"2 * 3 ^ 2", 18},
		{"2 ^ 3 ^ 2", 512},
		{"2 ^ 10", 1024},
		{"2 ^ 0.5", math.Sqrt2},
		{"9 / 4", 2.25},
		{"7 % 3", 1},
		{"7.5 % 2", 1.5},
		{"2 ^ 0", 1},
	}
	ctx := NewContext()
	for _, c := range cases {
		q, err := ctx.toPostfix(Tokenize(c.src))
		if err != nil {
			t.Errorf("converting %q: %v", c.src, err)
			continue
		}
		r, err := ctx.evalPostfix(q)
		if err != nil {
			t.Errorf("evaluating %q: %v", c.src, err)
			continue
		}
		if f, _ := r.Float64(); math.Abs(f-c.r) > 1e-15*math.Max(1, math.Abs(c.r)) {
			t.Errorf("evaluating %q: want %g, got %g", c.src, c.r, r)
		}
	}
}

func TestEvalPostfixMalformed(t *testing.T) {
	num := func(x float64) Token { return valueToken(big.NewFloat(x), 1) }
	plus := Token{text: "+", kind: tokenOp, pos: 2}
	cases := []struct {
		name     string
		q        []Token
		operands int
	}{
		{"residual", []Token{num(1), num(2)}, 2},
		{"underflow", []Token{num(1), plus}, 1},
		{"only-op", []Token{plus}, 0},
		{"empty", nil, 0},
	}
	ctx := NewContext()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ctx.evalPostfix(c.q)
			ee, ok := err.(*EquationError)
			if !ok {
				t.Fatalf("want EquationError, got %v", err)
			}
			if ee.Operands != c.operands {
				t.Errorf("want %d operands, got %d", c.operands, ee.Operands)
			}
		})
	}
}

func TestOperatorDomain(t *testing.T) {
	inf := new(big.Float).SetInf(false)
	cases := []struct {
		name string
		op   string
		x, y *big.Float
	}{
		{"zero-div-zero", "/", big.NewFloat(0), big.NewFloat(0)},
		{"inf-div-inf", "/", inf, inf},
		{"mod-zero", "%", big.NewFloat(5), big.NewFloat(0)},
		{"mod-inf", "%", inf, big.NewFloat(2)},
		{"neg-root", "^", big.NewFloat(-1), big.NewFloat(0.5)},
		{"inf-sub-inf", "-", inf, inf},
		{"zero-mul-inf", "*", big.NewFloat(0), inf},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			z := new(big.Float).SetPrec(64).Set(c.x)
			err := operators[c.op].call(c.op, z, c.y)
			var de *DomainError
			if !errors.As(err, &de) {
				t.Fatalf("want DomainError, got %v", err)
			}
			if de.Func != c.op {
				t.Errorf("error names %q, not %q", de.Func, c.op)
			}
			if !errors.As(err, new(big.ErrNaN)) {
				t.Errorf("%v does not unwrap to big.ErrNaN", err)
			}
		})
	}
}

func TestMod(t *testing.T) {
	cases := []struct {
		x, y, r float64
	}{
		{7, 3, 1},
		{-7, 3, 2},
		{7, -3, -2},
		{-7, -3, -1},
		{6, 3, 0},
		{-6, 3, 0},
		{5.5, 2, 1.5},
		{-5.5, 2, 0.5},
		{1e20, 7, math.Mod(1e20, 7)},
	}
	for _, c := range cases {
		z := new(big.Float).SetPrec(64)
		if err := mod(z, big.NewFloat(c.x), big.NewFloat(c.y)); err != nil {
			t.Errorf("%g %% %g: %v", c.x, c.y, err)
			continue
		}
		if f, _ := z.Float64(); f != c.r {
			t.Errorf("%g %% %g: want %g, got %g", c.x, c.y, c.r, z)
		}
	}
}

func TestPow(t *testing.T) {
	cases := []struct {
		x, y, r float64
	}{
		{2, 3, 8},
		{-2, 3, -8},
		{-8, 2, 64},
		{2, -2, 0.25},
		{-2, -1, -0.5},
		{0, 0, 1},
		{0, 2, 0},
		{0, -1, math.Inf(1)},
		{0, 0.5, 0},
		{4, 0.5, 2},
		{10, 1e6, math.Inf(1)},
		{-1, 1 << 20, 1},
		{-1, 1<<20 + 2, 1},
		{-1, 1<<20 + 3, -1},
		{-1, -(1<<20 + 3), -1},
		{-1, 1e15, 1},
		{-1, 1e15 + 1, -1},
		{-0.5, 1<<21 + 1, 0},
	}
	for _, c := range cases {
		z := new(big.Float).SetPrec(64)
		if err := pow(z, big.NewFloat(c.x), big.NewFloat(c.y)); err != nil {
			t.Errorf("%g ^ %g: %v", c.x, c.y, err)
			continue
		}
		f, _ := z.Float64()
		if math.IsInf(c.r, 0) {
			if f != c.r {
				t.Errorf("%g ^ %g: want %g, got %g", c.x, c.y, c.r, z)
			}
			continue
		}
		if math.Abs(f-c.r) > 1e-15*math.Max(1, math.Abs(c.r)) {
			t.Errorf("%g ^ %g: want %g, got %g", c.x, c.y, c.r, z)
		}
	}
}
