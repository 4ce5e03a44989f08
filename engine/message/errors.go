package message

import (
	"errors"
	"fmt"
)

var ErrHandlerNotFound = errors.New("no handler registered")

// NotFoundError is returned by AddMessage for an id without a handler.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("message %q: %v", e.ID, ErrHandlerNotFound)
}

func (e *NotFoundError) Unwrap() error {
	return ErrHandlerNotFound
}
