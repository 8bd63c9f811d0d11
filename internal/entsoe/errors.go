package entsoe

import (
	"errors"
	"fmt"
)

// ErrDecode matches every decode failure via errors.Is.
var ErrDecode = errors.New("entsoe: decode failed")

var (
	// ErrEmptyResult is returned when no usable price point survived decoding.
	ErrEmptyResult = fmt.Errorf("%w: no price points found", ErrDecode)

	// ErrInvalidPeriod is returned when the observed interval does not satisfy start < end.
	ErrInvalidPeriod = fmt.Errorf("%w: period start is not before period end", ErrDecode)
)

// SyntaxError reports a byte stream that is not well-formed XML. Err carries
// the low-level diagnostic from the tokenizer.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("entsoe: xml syntax error: %v", e.Err)
}

func (e *SyntaxError) Unwrap() []error { return []error{ErrDecode, e.Err} }

// MissingFieldError reports a required summary field that never appeared
// in the document.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("entsoe: missing required field: %s", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrDecode }
