package field

import (
	"fmt"
	"strconv"
	"strings"
)

// ScalarType is the primitive kind a scalar field binds to.
type ScalarType string

const (
	TypeString  ScalarType = "string"
	TypeInteger ScalarType = "integer"
	TypeBoolean ScalarType = "boolean"
)

// Scalar converts between a single form value and a Go value. Parse receives
// the raw submitted text; Format produces the text rendered back into inputs.
// IsNull, when set, reports values that stand for "absent" (nil pointers).
type Scalar[V any] struct {
	Type    ScalarType
	Choices []string
	Parse   func(string) (V, error)
	Format  func(V) string
	IsNull  func(V) bool
}

// String binds text as-is.
var String = Scalar[string]{
	Type:   TypeString,
	Parse:  func(raw string) (string, error) { return raw, nil },
	Format: func(value string) string { return value },
}

// Int binds base-10 integers. Empty input binds to 0.
var Int = Scalar[int]{
	Type: TypeInteger,
	Parse: func(raw string) (int, error) {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return 0, nil
		}
		value, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, fmt.Errorf("%w: expected an integer", ErrInvalidValue)
		}
		return value, nil
	},
	Format: strconv.Itoa,
}

// Bool binds checkbox style values. A missing or empty value is false.
var Bool = Scalar[bool]{
	Type: TypeBoolean,
	Parse: func(raw string) (bool, error) {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "", "false", "off", "0", "no":
			return false, nil
		case "true", "on", "1", "yes":
			return true, nil
		default:
			return false, fmt.Errorf("%w: expected a boolean", ErrInvalidValue)
		}
	},
	Format: strconv.FormatBool,
}

// Enum binds one of a fixed set of string values. Empty input binds to the
// zero value so that presence constraints can report it.
func Enum[V ~string](values ...V) Scalar[V] {
	choices := make([]string, 0, len(values))
	lookup := make(map[string]V, len(values))
	for _, value := range values {
		choices = append(choices, string(value))
		lookup[string(value)] = value
	}
	return Scalar[V]{
		Type:    TypeString,
		Choices: choices,
		Parse: func(raw string) (V, error) {
			var zero V
			if raw == "" {
				return zero, nil
			}
			value, ok := lookup[raw]
			if !ok {
				return zero, fmt.Errorf("%w: expected one of %s", ErrInvalidValue, strings.Join(choices, ", "))
			}
			return value, nil
		},
		Format: func(value V) string { return string(value) },
		IsNull: func(value V) bool { return value == "" },
	}
}

// Optional wraps s so that empty input binds to nil and nil renders as an
// empty string.
func Optional[V any](s Scalar[V]) Scalar[*V] {
	return Scalar[*V]{
		Type:    s.Type,
		Choices: s.Choices,
		Parse: func(raw string) (*V, error) {
			if strings.TrimSpace(raw) == "" {
				return nil, nil
			}
			value, err := s.Parse(raw)
			if err != nil {
				return nil, err
			}
			return &value, nil
		},
		Format: func(value *V) string {
			if value == nil {
				return ""
			}
			return s.Format(*value)
		},
		IsNull: func(value *V) bool { return value == nil },
	}
}
