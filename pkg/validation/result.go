package validation

// Result is the outcome of validating a T. An invalid result still carries
// the value so forms can be re-rendered with what was submitted.
type Result[T any] struct {
	value      T
	violations Violations
}

// Valid wraps a value that passed every constraint.
func Valid[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Invalid wraps a value together with its violations. An empty violation set
// yields a valid result.
func Invalid[T any](value T, violations Violations) Result[T] {
	if len(violations) == 0 {
		return Valid(value)
	}
	return Result[T]{value: value, violations: violations}
}

// IsValid reports whether no violations were found.
func (r Result[T]) IsValid() bool {
	return len(r.violations) == 0
}

// Value returns the validated value.
func (r Result[T]) Value() T {
	return r.value
}

// Violations returns the violations of an invalid result. It is never nil.
func (r Result[T]) Violations() Violations {
	if r.violations == nil {
		return Violations{}
	}
	return r.violations
}
