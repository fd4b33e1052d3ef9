package curve

import "errors"

var (
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")
	ErrArithmeticUnderflow = errors.New("arithmetic underflow")
	ErrDivisionByZero      = errors.New("division by zero")
)
