package formula

import (
	"math/big"
	"strconv"
)

// CharError is an error indicating input that no rule accepts. It implements
// InputError.
type CharError struct {
	// Col is the position of the unexpected rune.
	Col int
	// Want describes what the rule expected.
	Want string
	// Found is the rune that was found instead, or -1 at the end of input.
	Found rune
}

func (err *CharError) Error() string {
	found := "end of input"
	if err.Found >= 0 {
		found = strconv.QuoteRune(err.Found)
	}
	return errpos(err.Col, "expected "+err.Want+" but found "+found)
}

func (err *CharError) Pos() int {
	return err.Col
}

// NumberError is an error indicating an integer literal that cannot be
// represented. It implements InputError.
type NumberError struct {
	// Col is the position of the first digit.
	Col int
	// Text is the literal.
	Text string
	// Err is the conversion error.
	Err error
}

func (err *NumberError) Error() string {
	return errpos(err.Col, "invalid integer "+err.Text+": "+err.Err.Error())
}

func (err *NumberError) Pos() int {
	return err.Col
}

func (err *NumberError) Unwrap() error {
	return err.Err
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the rune that caused the error.
	Pos() int
}

var (
	_ InputError = (*CharError)(nil)
	_ InputError = (*NumberError)(nil)
)

// EmptyExpressionError is an error indicating a formula, group, or function
// argument list with nothing in it.
type EmptyExpressionError struct{}

func (err *EmptyExpressionError) Error() string {
	return "input is empty"
}

// OperandError is an error indicating an operator and operand sequence that
// does not reduce to exactly one value.
type OperandError struct {
	// Op is the operator that was missing an operand. It is empty if the
	// problem is extra operands instead.
	Op string
	// Extra is the number of operands left over with no operator to use them.
	Extra int
}

func (err *OperandError) Error() string {
	if err.Op == "" {
		return "erroneous binary operation attempted: " + strconv.Itoa(err.Extra) + " operands without an operator"
	}
	return "erroneous binary operation attempted: missing operand for " + strconv.Quote(err.Op)
}

// DomainError is an error returned by precise evaluation when an operation
// has no real result, e.g. 0/0. DomainError unwraps to big.ErrNaN.
type DomainError struct {
	// X is the out-of-domain argument, if it is representable.
	X *big.Float
	// Func is a name identifying the function or operator.
	Func string
}

func (err *DomainError) Error() string {
	r := "NaN"
	if err.X != nil {
		r = err.X.String()
	}
	r += " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	return r
}

func (err *DomainError) Unwrap() error {
	return big.ErrNaN{}
}
