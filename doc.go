// Package equation implements an arbitrary-precision floating-point
// calculator for infix equations.
//
// An equation uses the binary operators ^, *, /, %, +, and - with the usual
// precedence, where ^ is exponentiation and groups right to left, so that
// "2^3^2" is 512. Parentheses group subexpressions to any depth. A - at the
// start of an expression or following another operator negates the number
// after it, so "-2^2" is -4 but "1 - -2^2" is 5.
//
// The functions cos, sec, sin, csc, tan, cot, sqrt, log (natural), and log10
// each take one argument in parentheses, and the names pi and e evaluate to
// their constants. Any other name is an error; callers must substitute their
// own variables before evaluating.
//
// Results are rounded to 15 decimal places.
package equation
