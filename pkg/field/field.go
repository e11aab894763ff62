// Package field declares bindable fields as explicit descriptors: a name, an
// accessor pair, a codec and the constraints attached to the field. A Schema
// groups the descriptors of one type so values can be decoded from nested form
// trees, encoded back, and validated without runtime reflection.
package field

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-formbind/pkg/constraint"
)

// Kind distinguishes scalar, nested object and list members.
type Kind int

const (
	KindScalar Kind = iota
	KindObject
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Info is the type-erased description of a member. Members lists the nested
// members of objects and of list elements.
type Info struct {
	Name        string
	Kind        Kind
	Type        ScalarType
	Choices     []string
	Constraints []constraint.Constraint
	Required    bool
	Optional    bool
	Members     []Info
}

// Reporter receives violations as (canonical path, message) pairs.
type Reporter func(path, message string)

// Member is implemented by Field and List. The unexported methods keep the
// set of member kinds closed so every consumer can handle all of them.
type Member[T any] interface {
	Info() Info
	decode(node map[string]any, dst *T, at string) error
	encode(src T, dst map[string]any)
	validate(src T, at string, report Reporter)
}

// Field describes a scalar or nested-object field of T holding a V.
type Field[T, V any] struct {
	name        string
	kind        Kind
	optional    bool
	get         func(T) V
	set         func(*T, V)
	scalar      *Scalar[V]
	decodeNode  func(node any, at string) (V, bool, error)
	encodeNode  func(V) (any, bool)
	cascade     func(V, string, Reporter)
	subject     func(V) constraint.Subject
	members     func() []Info
	constraints []constraint.Constraint
	required    bool
}

// Text declares a scalar field bound through s.
func Text[T, V any](name string, get func(T) V, set func(*T, V), s Scalar[V], constraints ...constraint.Constraint) Field[T, V] {
	mustDeclare(name, get == nil || set == nil)
	if s.Parse == nil || s.Format == nil {
		panic(fmt.Sprintf("field %q: scalar codec requires Parse and Format", name))
	}
	codec := s
	return Field[T, V]{
		name:        name,
		kind:        KindScalar,
		get:         get,
		set:         set,
		scalar:      &codec,
		constraints: slices.Clone(constraints),
		subject: func(value V) constraint.Subject {
			if codec.IsNull != nil && codec.IsNull(value) {
				return constraint.Null()
			}
			return constraint.Text(codec.Format(value))
		},
	}
}

// Object declares a nested value struct decoded and validated through schema.
func Object[T, V any](name string, get func(T) V, set func(*T, V), schema *Schema[V], constraints ...constraint.Constraint) Field[T, V] {
	mustDeclare(name, get == nil || set == nil)
	mustSchema(name, schema)
	return Field[T, V]{
		name:        name,
		kind:        KindObject,
		get:         get,
		set:         set,
		constraints: slices.Clone(constraints),
		decodeNode: func(node any, at string) (V, bool, error) {
			var zero V
			tree, ok := node.(map[string]any)
			if !ok {
				return zero, false, shapeError(at, "an object", node)
			}
			value, err := schema.Decode(tree, at)
			return value, true, err
		},
		encodeNode: func(value V) (any, bool) {
			out := schema.Encode(value)
			return out, len(out) > 0
		},
		cascade: func(value V, at string, report Reporter) {
			schema.Validate(value, at, report)
		},
		subject: func(V) constraint.Subject { return constraint.Present() },
		members: schema.Describe,
	}
}

// Ref declares an optional nested struct held by pointer. A nil pointer is
// absent: it is skipped when encoding and validating nested members. A
// submitted subtree whose values are all blank also binds to nil, so an
// untouched optional section of a form stays absent.
func Ref[T, V any](name string, get func(T) *V, set func(*T, *V), schema *Schema[V], constraints ...constraint.Constraint) Field[T, *V] {
	mustDeclare(name, get == nil || set == nil)
	mustSchema(name, schema)
	return Field[T, *V]{
		name:        name,
		kind:        KindObject,
		optional:    true,
		get:         get,
		set:         set,
		constraints: slices.Clone(constraints),
		decodeNode: func(node any, at string) (*V, bool, error) {
			tree, ok := node.(map[string]any)
			if !ok {
				return nil, false, shapeError(at, "an object", node)
			}
			if blankTree(tree) {
				return nil, false, nil
			}
			value, err := schema.Decode(tree, at)
			if err != nil {
				return nil, false, err
			}
			return &value, true, nil
		},
		encodeNode: func(value *V) (any, bool) {
			if value == nil {
				return nil, false
			}
			return schema.Encode(*value), true
		},
		cascade: func(value *V, at string, report Reporter) {
			if value != nil {
				schema.Validate(*value, at, report)
			}
		},
		subject: func(value *V) constraint.Subject {
			if value == nil {
				return constraint.Null()
			}
			return constraint.Present()
		},
		members: schema.Describe,
	}
}

// Name returns the declared field name.
func (f Field[T, V]) Name() string {
	return f.name
}

// Kind reports whether f is a scalar or an object field.
func (f Field[T, V]) Kind() Kind {
	return f.kind
}

// Constraints returns a copy of the declared constraints.
func (f Field[T, V]) Constraints() []constraint.Constraint {
	return slices.Clone(f.constraints)
}

// Get reads the field from root.
func (f Field[T, V]) Get(root T) V {
	return f.get(root)
}

// Set writes value into dst.
func (f Field[T, V]) Set(dst *T, value V) {
	f.set(dst, value)
}

// Format renders value as input text. It returns false for object fields,
// which have no single text form.
func (f Field[T, V]) Format(value V) (string, bool) {
	if f.scalar == nil {
		return "", false
	}
	return f.scalar.Format(value), true
}

// Require returns a copy of f whose absence from a submitted tree fails
// decoding with ErrMissing.
func (f Field[T, V]) Require() Field[T, V] {
	f.required = true
	return f
}

// Info describes f.
func (f Field[T, V]) Info() Info {
	info := Info{
		Name:        f.name,
		Kind:        f.kind,
		Constraints: slices.Clone(f.constraints),
		Required:    f.required,
		Optional:    f.optional,
	}
	if f.scalar != nil {
		info.Type = f.scalar.Type
		info.Choices = slices.Clone(f.scalar.Choices)
		info.Optional = f.scalar.IsNull != nil
	}
	if f.members != nil {
		info.Members = f.members()
	}
	return info
}

func (f Field[T, V]) decode(tree map[string]any, dst *T, at string) error {
	node, ok := tree[f.name]
	if !ok {
		if f.required {
			return &DecodeError{Path: at, Err: ErrMissing}
		}
		return nil
	}

	switch f.kind {
	case KindScalar:
		raw, ok := node.(string)
		if !ok {
			return shapeError(at, "a value", node)
		}
		value, err := f.scalar.Parse(raw)
		if err != nil {
			return &DecodeError{Path: at, Value: raw, Err: err}
		}
		f.set(dst, value)
	case KindObject:
		value, ok, err := f.decodeNode(node, at)
		if err != nil {
			return err
		}
		if ok {
			f.set(dst, value)
		}
	default:
		panic(fmt.Sprintf("field %q: unsupported kind %s", f.name, f.kind))
	}
	return nil
}

func (f Field[T, V]) encode(src T, dst map[string]any) {
	value := f.get(src)
	switch f.kind {
	case KindScalar:
		if f.scalar.IsNull != nil && f.scalar.IsNull(value) {
			return
		}
		dst[f.name] = f.scalar.Format(value)
	case KindObject:
		if node, ok := f.encodeNode(value); ok {
			dst[f.name] = node
		}
	default:
		panic(fmt.Sprintf("field %q: unsupported kind %s", f.name, f.kind))
	}
}

func (f Field[T, V]) validate(src T, at string, report Reporter) {
	value := f.get(src)
	subject := f.subject(value)
	for _, rule := range f.constraints {
		if message, ok := rule.Check(subject); !ok {
			report(at, message)
		}
	}
	if f.cascade != nil {
		f.cascade(value, at, report)
	}
}

func blankTree(node any) bool {
	switch typed := node.(type) {
	case string:
		return strings.TrimSpace(typed) == ""
	case map[string]any:
		for _, child := range typed {
			if !blankTree(child) {
				return false
			}
		}
		return true
	case []any:
		for _, child := range typed {
			if !blankTree(child) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func mustDeclare(name string, missingAccessor bool) {
	if name == "" {
		panic("field: name is required")
	}
	if missingAccessor {
		panic(fmt.Sprintf("field %q: accessor pair is required", name))
	}
}

func mustSchema[V any](name string, schema *Schema[V]) {
	if schema == nil {
		panic(fmt.Sprintf("field %q: nested schema is required", name))
	}
}
