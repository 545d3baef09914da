package equation

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
)

// ErrEmpty is returned when evaluating an empty expression.
var ErrEmpty = errors.New("empty expression")

// BracketError is an error indicating parentheses that do not balance. It
// implements InputError.
type BracketError struct {
	// Col is the position of the unmatched parenthesis.
	Col int
	// Left is the opening parenthesis, or empty if a closing parenthesis had
	// no opener.
	Left string
	// Right is the closing parenthesis, or empty if an opening parenthesis
	// was never closed.
	Right string
	// Block is the part of the unclosed block collected before the input
	// ran out.
	Block []Token
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Block != nil {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket near block "+texts(err.Block))
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// CallError is an error indicating a function name that is not immediately
// followed by an open bracket. It implements InputError.
type CallError struct {
	// Col is the position of the function name.
	Col int
	// Func is the function name.
	Func string
	// Next is the token following the name, or empty at the end of input.
	Next string
}

func (err *CallError) Error() string {
	if err.Next == "" {
		return errpos(err.Col, "unopened parenthesis: "+err.Func+" at end of expression")
	}
	return errpos(err.Col, "unopened parenthesis: "+err.Func+" followed by "+strconv.Quote(err.Next))
}

func (err *CallError) Pos() int {
	return err.Col
}

// FuncError is an error from calling a function that does not exist.
type FuncError struct {
	// Name is the function name.
	Name string
}

func (err *FuncError) Error() string {
	return "undefined function: " + strconv.Quote(err.Name)
}

// NameError is an error from a name that is not a number, function, or
// constant. It implements InputError.
type NameError struct {
	// Col is the position of the name.
	Col int
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return errpos(err.Col, "undefined variable: "+strconv.Quote(err.Name))
}

func (err *NameError) Pos() int {
	return err.Col
}

// OperatorError is an error indicating an operator in a position where it
// cannot be applied, or a symbol that is not an operator. It implements
// InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Context is the operator with its neighbours, if it had any.
	Context []Token
}

func (err *OperatorError) Error() string {
	if len(err.Context) == 0 {
		return errpos(err.Col, "unknown operator "+strconv.Quote(err.Operator))
	}
	return errpos(err.Col, "unsupported operation: "+texts(err.Context))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an operator with no operand
// following it. It implements InputError.
type EmptyExpressionError struct {
	// Col is the position of the operator.
	Col int
	// After is the operator.
	After string
}

func (err *EmptyExpressionError) Error() string {
	return errpos(err.Col, "no expression after "+strconv.Quote(err.After))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// EquationError is an error indicating operands and operators that do not
// combine into a single value. It implements InputError.
type EquationError struct {
	// Col is the position of the first token where the problem was found.
	Col int
	// Operands is the number of values that remained, or 0 if there were
	// none at all.
	Operands int
	// Tokens is the token sequence being evaluated.
	Tokens []Token
}

func (err *EquationError) Error() string {
	switch err.Operands {
	case 0:
		return errpos(err.Col, "malformed equation: no value")
	case 1:
		return errpos(err.Col, "malformed equation: missing operand in "+texts(err.Tokens))
	default:
		return errpos(err.Col, "malformed equation: "+strconv.Itoa(err.Operands)+" operands without operators in "+texts(err.Tokens))
	}
}

func (err *EquationError) Pos() int {
	return err.Col
}

// DepthError is an error indicating brackets nested more deeply than the
// context allows. It implements InputError.
type DepthError struct {
	// Col is the position of the bracket that exceeded the limit.
	Col int
	// Max is the maximum nesting depth.
	Max int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, "nesting too deep (limit "+strconv.Itoa(err.Max)+")")
}

func (err *DepthError) Pos() int {
	return err.Col
}

// LexError indicates a token that cannot be parsed. It implements
// InputError.
type LexError struct {
	// Text is the token text.
	Text string
	// Kind is the type of token that was expected, e.g. "number".
	Kind string
	// Col is the position of the token.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}

// DomainError is an error returned when a function or operator is applied to
// arguments outside its domain. DomainError unwraps to big.ErrNaN.
type DomainError struct {
	// X is the out-of-domain argument.
	X *big.Float
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function or operator.
	Func string
}

func (err *DomainError) Error() string {
	r := "arithmetic error: " + err.X.String() + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err *DomainError) Unwrap() error {
	return big.ErrNaN{}
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// texts joins the text of tokens with spaces.
func texts(toks []Token) string {
	s := make([]string, len(toks))
	for i, tok := range toks {
		s[i] = tok.Text()
	}
	return "[" + strings.Join(s, " ") + "]"
}

// InputError is an error with position information. Every error resulting from
// invalid input other than ErrEmpty implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*BracketError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*NameError)(nil)
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*EquationError)(nil)
	_ InputError = (*DepthError)(nil)
	_ InputError = (*LexError)(nil)
)
