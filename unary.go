package equation

import "math/big"

// substConsts replaces constant names with their values.
func (ctx *Context) substConsts(toks []Token) []Token {
	out := make([]Token, len(toks))
	for i, tok := range toks {
		if tok.kind == tokenIdent {
			if v := ctx.consts[tok.text]; v != nil {
				tok.kind = tokenNum
				tok.val = v
			}
		}
		out[i] = tok
	}
	return out
}

// symbol reports whether tok is an operator or bracket.
func symbol(tok Token) bool {
	switch tok.kind {
	case tokenOp, tokenOpen, tokenClose:
		return true
	default:
		return false
	}
}

// resolveUnary decides whether each - in a flat token sequence is subtraction
// or negation. A leading - becomes 0 -, and a - that follows an operator is
// folded into the number after it. The decision looks only at the immediate
// neighbours of each -, so bracketed blocks must already be reduced to values.
func resolveUnary(toks []Token, prec uint) ([]Token, error) {
	out := make([]Token, 0, len(toks)+1)
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		if tok.kind != tokenOp || tok.text != "-" {
			out = append(out, tok)
			continue
		}
		if i+1 >= len(toks) {
			return nil, &EmptyExpressionError{Col: tok.pos, After: tok.text}
		}
		next := toks[i+1]
		if i == 0 {
			zero := Token{text: "0", kind: tokenNum, val: new(big.Float).SetPrec(prec), pos: tok.pos}
			out = append(out, zero, tok)
			continue
		}
		prev := toks[i-1]
		switch {
		case prev.isNum() && (next.isNum() || symbol(next)):
			out = append(out, tok)
		case symbol(prev) && next.isNum():
			v, err := number(next, prec)
			if err != nil {
				return nil, err
			}
			neg := Token{text: "-" + next.Text(), kind: tokenNum, val: new(big.Float).Neg(v), pos: tok.pos}
			out = append(out, neg)
			i++
		default:
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Context: window(toks, i)}
		}
	}
	return out, nil
}
