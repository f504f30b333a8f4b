package fstexpr

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyExpression indicates an expression without any operand.
	ErrEmptyExpression = errors.New("fstexpr: there are no constructed objects")
	// ErrMissingSeparator indicates an operand without the ':' separator.
	ErrMissingSeparator = errors.New("fstexpr: missing separator")
	// ErrMissingOutput indicates an operand ending right after its separator.
	ErrMissingOutput = errors.New("fstexpr: missing output value after the separator")
	// ErrBadOutput indicates an output that is not an integer in [0, fst.MaxOutput].
	ErrBadOutput = errors.New("fstexpr: output is not a 32-bit non-negative integer")
	// ErrInvalidWord indicates an operand word that is not valid UTF-8.
	ErrInvalidWord = errors.New("fstexpr: word is not valid UTF-8")
	// ErrUnknownOperator indicates a single symbol that is not * + . or |.
	ErrUnknownOperator = errors.New("fstexpr: symbol was not recognized as an operation")
	// ErrStackUnderflow indicates an operator without enough operands.
	ErrStackUnderflow = errors.New("fstexpr: not enough objects to apply the operation")
	// ErrLeftoverOperands indicates more than one operand left at the end.
	ErrLeftoverOperands = errors.New("fstexpr: more than one object left to apply operations to")
)

// SyntaxError reports a problem at a byte offset of the expression.
type SyntaxError struct {
	Pos   int
	Token string
	Err   error
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%v (at position %d)", e.Err, e.Pos)
	}
	return fmt.Sprintf("%v: %q (at position %d)", e.Err, e.Token, e.Pos)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
