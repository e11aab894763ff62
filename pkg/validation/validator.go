// Package validation runs the constraints declared on a field.Schema and
// reports violations keyed by the same canonical paths that path.Path and
// the form renderer use.
package validation

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-formbind/pkg/field"
)

// Option configures a Validator.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger used to report invalid outcomes at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Validator validates values of T against a schema. It holds no mutable state
// and is safe for concurrent use.
type Validator[T any] struct {
	schema *field.Schema[T]
	logger *slog.Logger
}

// New returns a Validator for schema.
func New[T any](schema *field.Schema[T], options ...Option) *Validator[T] {
	if schema == nil {
		panic("validation: schema is required")
	}
	cfg := config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Validator[T]{schema: schema, logger: cfg.logger}
}

// Validate checks value transitively, including nested objects and every list
// element.
func (v *Validator[T]) Validate(value T) Result[T] {
	violations := Violations{}
	v.schema.Validate(value, "", violations.Add)
	if len(violations) == 0 {
		return Valid(value)
	}
	v.logger.LogAttrs(context.Background(), slog.LevelDebug, "validation failed",
		slog.String("schema", v.schema.Name()),
		slog.Int("violations", violations.Len()),
		slog.Any("paths", violations.Paths()),
	)
	return Invalid(value, violations)
}
