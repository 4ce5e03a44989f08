package resources

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNotFound is returned when no entry of the requested type exists
	// under the key, or when a type has no entries at all.
	ErrNotFound = errors.New("resource not found")

	// ErrBorrowed is returned when an entry exists but its current borrows
	// forbid the requested access. Retry on a later frame.
	ErrBorrowed = errors.New("resource already borrowed")
)

// LookupError describes a failed borrow.
type LookupError struct {
	// Type is the bucket that was searched.
	Type reflect.Type

	// Key is the entry key, empty for whole-bucket queries.
	Key string

	// Err is ErrNotFound or ErrBorrowed.
	Err error
}

func (e *LookupError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("query %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("resource %s %q: %v", e.Type, e.Key, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func notFound(t reflect.Type, key string) error {
	return &LookupError{Type: t, Key: key, Err: ErrNotFound}
}

func borrowed(t reflect.Type, key string) error {
	return &LookupError{Type: t, Key: key, Err: ErrBorrowed}
}
