package equation

import (
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// Token is an atomic unit of an expression.
type Token struct {
	text string
	kind tokenKind
	// val is the numeric value of a number token once it is known. Literals
	// scanned from source have a nil val until they are parsed.
	val *big.Float
	// pos is the 1-based rune column where the token starts. Values produced
	// from a bracketed block take the position of the block's opener.
	pos int
}

// Text returns the token's source text, or the formatted value for a token
// produced during evaluation.
func (t Token) Text() string {
	if t.text == "" && t.val != nil {
		return t.val.Text('g', 10)
	}
	return t.text
}

// Pos returns the 1-based rune column of the token.
func (t Token) Pos() int {
	return t.pos
}

func (t Token) String() string {
	return t.kind.String() + ":" + t.Text() + "@" + strconv.Itoa(t.pos)
}

// isNum reports whether the token is a number, whether or not its value has
// been parsed.
func (t Token) isNum() bool {
	return t.kind == tokenNum
}

// isOp reports whether the token is an operator symbol.
func (t Token) isOp() bool {
	return t.kind == tokenOp
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenNum is a numeric literal or a computed value.
	tokenNum
	// tokenIdent is a function or constant name, or any other word.
	tokenIdent
	// tokenOp is a single non-word rune, normally an operator.
	tokenOp
	// tokenOpen is (.
	tokenOpen
	// tokenClose is ).
	tokenClose
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenNum:
		return "Num"
	case tokenIdent:
		return "Ident"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// valueToken creates a number token with a known value.
func valueToken(v *big.Float, pos int) Token {
	return Token{kind: tokenNum, val: v, pos: pos}
}

// wordRune reports whether r continues a number or identifier.
func wordRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Tokenize splits src into tokens. Runs of letters, digits, underscores, and
// decimal points form single tokens; every other non-space rune is a token by
// itself. Tokenize never fails. Malformed numbers are reported when they are
// parsed.
func Tokenize(src string) []Token {
	var toks []Token
	var buf strings.Builder
	col, start := 0, 0
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		toks = append(toks, wordToken(buf.String(), start))
		buf.Reset()
	}
	for _, r := range src {
		col++
		switch {
		case wordRune(r):
			if buf.Len() == 0 {
				start = col
			}
			buf.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			tok := Token{text: string(r), kind: tokenOp, pos: col}
			switch r {
			case '(':
				tok.kind = tokenOpen
			case ')':
				tok.kind = tokenClose
			}
			toks = append(toks, tok)
		}
	}
	flush()
	return toks
}

// wordToken classifies a run of word runes.
func wordToken(text string, pos int) Token {
	kind := tokenIdent
	if c := text[0]; '0' <= c && c <= '9' || c == '.' {
		kind = tokenNum
	}
	return Token{text: text, kind: kind, pos: pos}
}

// parseNum parses the text of a numeric literal at the given precision.
func parseNum(tok Token, prec uint) (*big.Float, error) {
	if strings.ContainsAny(tok.text, "pP") {
		// Parse accepts binary exponents.
		return nil, &LexError{Text: tok.text, Kind: "number", Col: tok.pos}
	}
	r, _, err := new(big.Float).SetPrec(prec).Parse(tok.text, 10)
	switch {
	case err == nil:
		return r, nil
	case err.Error() == "exponent overflow",
		strings.HasSuffix(err.Error(), ": value out of range"):
		// There isn't realistically any better way to detect this error.
		return new(big.Float).SetPrec(prec).SetInf(false), nil
	default:
		return nil, &LexError{Text: tok.text, Kind: "number", Col: tok.pos}
	}
}

// number returns the value of a number token, parsing it if needed.
func number(tok Token, prec uint) (*big.Float, error) {
	if tok.val != nil {
		return tok.val, nil
	}
	return parseNum(tok, prec)
}
