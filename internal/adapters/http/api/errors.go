package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
)

// Wrap annotates err with the operation that produced it.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// WrapKind annotates err with an operation and a sentinel kind. Callers
// match the kind with errors.Is while the cause stays in the message.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %v", op, kind, err)
}

// NewKind returns a bare kind error annotated with the operation.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}
