package domain

import (
	"fmt"
)

// MalformedInputError reports a dataset row whose required field could not
// be parsed. A load that hits one fails wholesale; no partial dataset is
// ever returned.
type MalformedInputError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *MalformedInputError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("malformed input at row %d: field %s has unparsable value %q", e.Row, e.Field, e.Value)
	}
	return fmt.Sprintf("malformed input at row %d: field %s", e.Row, e.Field)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// InvalidFilterError reports a structurally inconsistent FilterSpec, such
// as an inverted date range or an unknown time frame. Empty match sets are
// not errors; they produce zeroed results.
type InvalidFilterError struct {
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return "invalid filter: " + e.Reason
}
