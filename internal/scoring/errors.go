package scoring

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation error")
	// ErrUnknownCategory matches every *UnknownCategoryError via errors.Is.
	ErrUnknownCategory = errors.New("unknown category")
)

// ValidationError reports malformed or out-of-range input. Field names the
// offending input using the backend's field names where possible.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type UnknownCategoryError struct {
	Name string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q", e.Name)
}

func (e *UnknownCategoryError) Is(target error) bool { return target == ErrUnknownCategory }

func invalid(field string, value any, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// prefixed qualifies a ValidationError's field with the input it came from,
// e.g. "satScores." or "brands[2].".
func prefixed(prefix string, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		cp := *ve
		cp.Field = prefix + cp.Field
		return &cp
	}
	return err
}
