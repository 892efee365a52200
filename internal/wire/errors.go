package wire

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrEmptyItems is returned when a quote request has no items.
var ErrEmptyItems = errors.New("Items list cannot be empty") //nolint:stylecheck // user-facing message

// ValidationError indicates that a request field is missing, has the wrong
// JSON type, or violates a value constraint.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q failed %q validation", e.Field, e.Rule)
}

// DecodeError indicates that the request body is not well-formed JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "malformed request body: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }
