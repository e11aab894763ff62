// Package path provides typed property paths: descriptions of a location
// inside an object graph that yield both the canonical form key of the
// location and the value currently stored there.
//
// Three variants exist. Of wraps a single field (Direct), Then and Through
// extend a path with a field of the value it points at (Nested), and At
// selects a field of one element of a list (Indexed).
package path

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/formkey"
)

var (
	// ErrIndexOutOfRange is returned when an Indexed path points past the end
	// of its list.
	ErrIndexOutOfRange = errors.New("path: index out of range")
	// ErrMissingValue is returned when an intermediate pointer on the path is
	// nil.
	ErrMissingValue = errors.New("path: missing intermediate value")
	// ErrNotScalar is returned by Text when the leaf field is an object.
	ErrNotScalar = errors.New("path: leaf field has no text form")
)

// Kind identifies the variant of a Path.
type Kind int

const (
	Direct Kind = iota
	Nested
	Indexed
)

func (k Kind) String() string {
	switch k {
	case Direct:
		return "direct"
	case Nested:
		return "nested"
	case Indexed:
		return "indexed"
	default:
		return "unknown"
	}
}

// Path points at a V inside a root R. Implementations are immutable and only
// provided by this package.
type Path[R, V any] interface {
	// Kind reports the variant.
	Kind() Kind
	// String returns the canonical key, e.g. "addresses[0].city".
	String() string
	// Segments returns the key as parsed segments.
	Segments() []formkey.Segment
	// Value navigates root and returns the value at the location. Structural
	// mismatches (nil intermediates, out of range indices) fail.
	Value(root R) (V, error)
	// Text returns the value formatted for an input.
	Text(root R) (string, error)
	// Leaf describes the innermost field, including its constraints.
	Leaf() field.Info

	sealed()
}

// Of returns the Direct path of f.
func Of[R, V any](f field.Field[R, V]) Path[R, V] {
	return direct[R, V]{field: f}
}

// Then extends parent with a field of the value struct it points at.
func Then[R, M, V any](parent Path[R, M], f field.Field[M, V]) Path[R, V] {
	return nested[R, M, V]{parent: parent, field: f}
}

// Through extends parent with a field of the struct it points at by pointer.
// A nil pointer fails navigation with ErrMissingValue.
func Through[R, M, V any](parent Path[R, *M], f field.Field[M, V]) Path[R, V] {
	return through[R, M, V]{parent: parent, field: f}
}

// At returns the Indexed path of f inside element index of list.
func At[R, E, V any](list field.List[R, E], index int, f field.Field[E, V]) Path[R, V] {
	return indexed[R, E, V]{slot: Element(list, index), field: f}
}

type direct[R, V any] struct {
	field field.Field[R, V]
}

func (p direct[R, V]) Kind() Kind { return Direct }

func (p direct[R, V]) String() string { return p.field.Name() }

func (p direct[R, V]) Segments() []formkey.Segment {
	return []formkey.Segment{formkey.Prop(p.field.Name())}
}

func (p direct[R, V]) Value(root R) (V, error) {
	return p.field.Get(root), nil
}

func (p direct[R, V]) Text(root R) (string, error) {
	value, err := p.Value(root)
	return text(p.String(), p.field, value, err)
}

func (p direct[R, V]) Leaf() field.Info { return p.field.Info() }

func (direct[R, V]) sealed() {}

type nested[R, M, V any] struct {
	parent Path[R, M]
	field  field.Field[M, V]
}

func (p nested[R, M, V]) Kind() Kind { return Nested }

func (p nested[R, M, V]) String() string {
	return formkey.Join(p.parent.String(), p.field.Name())
}

func (p nested[R, M, V]) Segments() []formkey.Segment {
	return append(p.parent.Segments(), formkey.Prop(p.field.Name()))
}

func (p nested[R, M, V]) Value(root R) (V, error) {
	mid, err := p.parent.Value(root)
	if err != nil {
		var zero V
		return zero, err
	}
	return p.field.Get(mid), nil
}

func (p nested[R, M, V]) Text(root R) (string, error) {
	value, err := p.Value(root)
	return text(p.String(), p.field, value, err)
}

func (p nested[R, M, V]) Leaf() field.Info { return p.field.Info() }

func (nested[R, M, V]) sealed() {}

type through[R, M, V any] struct {
	parent Path[R, *M]
	field  field.Field[M, V]
}

func (p through[R, M, V]) Kind() Kind { return Nested }

func (p through[R, M, V]) String() string {
	return formkey.Join(p.parent.String(), p.field.Name())
}

func (p through[R, M, V]) Segments() []formkey.Segment {
	return append(p.parent.Segments(), formkey.Prop(p.field.Name()))
}

func (p through[R, M, V]) Value(root R) (V, error) {
	var zero V
	mid, err := p.parent.Value(root)
	if err != nil {
		return zero, err
	}
	if mid == nil {
		return zero, fmt.Errorf("%w: %q is nil while resolving %q", ErrMissingValue, p.parent.String(), p.String())
	}
	return p.field.Get(*mid), nil
}

func (p through[R, M, V]) Text(root R) (string, error) {
	value, err := p.Value(root)
	return text(p.String(), p.field, value, err)
}

func (p through[R, M, V]) Leaf() field.Info { return p.field.Info() }

func (through[R, M, V]) sealed() {}

type indexed[R, E, V any] struct {
	slot  Slot[R, E]
	field field.Field[E, V]
}

func (p indexed[R, E, V]) Kind() Kind { return Indexed }

func (p indexed[R, E, V]) String() string {
	return p.slot.Key(p.field.Name())
}

func (p indexed[R, E, V]) Segments() []formkey.Segment {
	return []formkey.Segment{
		formkey.Prop(p.slot.List()),
		formkey.At(p.slot.Index()),
		formkey.Prop(p.field.Name()),
	}
}

func (p indexed[R, E, V]) Value(root R) (V, error) {
	element, err := p.slot.Element(root)
	if err != nil {
		var zero V
		return zero, err
	}
	return p.field.Get(element), nil
}

func (p indexed[R, E, V]) Text(root R) (string, error) {
	value, err := p.Value(root)
	return text(p.String(), p.field, value, err)
}

func (p indexed[R, E, V]) Leaf() field.Info { return p.field.Info() }

func (indexed[R, E, V]) sealed() {}

func text[X, V any](key string, leaf field.Field[X, V], value V, err error) (string, error) {
	if err != nil {
		return "", err
	}
	formatted, ok := leaf.Format(value)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotScalar, key)
	}
	return formatted, nil
}
