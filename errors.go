package imgrt

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is wrapped by every failure caused by an operand kind
	// combination with no defined meaning
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrOverflow is returned when a float does not fit in an integer
	ErrOverflow = errors.New("value out of integer range")
	// ErrUnknownBuiltin is returned by Call for names missing from Builtins
	ErrUnknownBuiltin = errors.New("unknown builtin")
	// ErrArity is returned by Call when the argument count is wrong
	ErrArity = errors.New("wrong number of arguments")
)

// TypeMismatchError describes the operator and operand kinds that failed
type TypeMismatchError struct {
	Op    string
	Left  Kind
	Right Kind
	// Unary is set for single-operand operations; Right is then unused
	Unary bool
}

func (e *TypeMismatchError) Error() string {
	if e.Unary {
		return fmt.Sprintf("%s: cannot apply to %s", e.Op, e.Left)
	}
	return fmt.Sprintf("%s: cannot apply to %s and %s", e.Op, e.Left, e.Right)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

func mismatch(op string, a, b Value) error {
	return &TypeMismatchError{Op: op, Left: a.Kind(), Right: b.Kind()}
}

func mismatchUnary(op string, a Value) error {
	return &TypeMismatchError{Op: op, Left: a.Kind(), Unary: true}
}
