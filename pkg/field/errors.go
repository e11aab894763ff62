package field

import (
	"errors"
	"fmt"
)

var (
	// ErrMissing reports an absent value for a member marked with Require.
	ErrMissing = errors.New("required value is missing")
	// ErrShape reports a tree node of the wrong kind (value, object or list).
	ErrShape = errors.New("unexpected value shape")
	// ErrInvalidValue reports text a scalar cannot parse.
	ErrInvalidValue = errors.New("invalid value")
)

// DecodeError describes a failure converting a form tree node into a field
// value. Path is the canonical key of the offending field.
type DecodeError struct {
	Path  string
	Value string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("field %q: cannot decode %q: %v", e.Path, e.Value, e.Err)
	}
	return fmt.Sprintf("field %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func shapeError(at, want string, node any) error {
	return &DecodeError{Path: at, Err: fmt.Errorf("%w: expected %s, got %s", ErrShape, want, describeNode(node))}
}

func describeNode(node any) string {
	switch node.(type) {
	case string:
		return "a value"
	case map[string]any:
		return "an object"
	case []any:
		return "a list"
	default:
		return fmt.Sprintf("%T", node)
	}
}
