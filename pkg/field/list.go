package field

import (
	"fmt"
	"slices"

	"github.com/goliatone/go-formbind/pkg/constraint"
	"github.com/goliatone/go-formbind/pkg/formkey"
)

// List describes a field of T holding a slice of E, each element bound and
// validated through the element schema. List constraints (NotEmpty, Size)
// apply to the element count.
type List[T, E any] struct {
	name        string
	get         func(T) []E
	set         func(*T, []E)
	elem        *Schema[E]
	constraints []constraint.Constraint
	required    bool
}

// Many declares a list field.
func Many[T, E any](name string, get func(T) []E, set func(*T, []E), elem *Schema[E], constraints ...constraint.Constraint) List[T, E] {
	mustDeclare(name, get == nil || set == nil)
	mustSchema(name, elem)
	return List[T, E]{
		name:        name,
		get:         get,
		set:         set,
		elem:        elem,
		constraints: slices.Clone(constraints),
	}
}

// Name returns the declared list name.
func (l List[T, E]) Name() string {
	return l.name
}

// Get reads the list from root.
func (l List[T, E]) Get(root T) []E {
	return l.get(root)
}

// Set writes items into dst.
func (l List[T, E]) Set(dst *T, items []E) {
	l.set(dst, items)
}

// Elem returns the element schema.
func (l List[T, E]) Elem() *Schema[E] {
	return l.elem
}

// Constraints returns a copy of the list-level constraints.
func (l List[T, E]) Constraints() []constraint.Constraint {
	return slices.Clone(l.constraints)
}

// Require returns a copy of l whose absence fails decoding with ErrMissing.
func (l List[T, E]) Require() List[T, E] {
	l.required = true
	return l
}

// Info describes l. Members describes the element type.
func (l List[T, E]) Info() Info {
	return Info{
		Name:        l.name,
		Kind:        KindList,
		Constraints: slices.Clone(l.constraints),
		Required:    l.required,
		Members:     l.elem.Describe(),
	}
}

func (l List[T, E]) decode(tree map[string]any, dst *T, at string) error {
	node, ok := tree[l.name]
	if !ok {
		if l.required {
			return &DecodeError{Path: at, Err: ErrMissing}
		}
		return nil
	}
	nodes, ok := node.([]any)
	if !ok {
		return shapeError(at, "a list", node)
	}

	items := make([]E, 0, len(nodes))
	for index, item := range nodes {
		elementAt := formkey.Indexed(at, index)
		subtree, ok := item.(map[string]any)
		if !ok {
			return shapeError(elementAt, "an object", item)
		}
		value, err := l.elem.Decode(subtree, elementAt)
		if err != nil {
			return err
		}
		items = append(items, value)
	}
	l.set(dst, items)
	return nil
}

func (l List[T, E]) encode(src T, dst map[string]any) {
	items := l.get(src)
	if len(items) == 0 {
		return
	}
	nodes := make([]any, 0, len(items))
	for _, item := range items {
		nodes = append(nodes, l.elem.Encode(item))
	}
	dst[l.name] = nodes
}

func (l List[T, E]) validate(src T, at string, report Reporter) {
	items := l.get(src)
	subject := constraint.Elements(len(items))
	if items == nil {
		subject = constraint.Null()
	}
	for _, rule := range l.constraints {
		if message, ok := rule.Check(subject); !ok {
			report(at, message)
		}
	}
	for index, item := range items {
		l.elem.Validate(item, formkey.Indexed(at, index), report)
	}
}

func (l List[T, E]) String() string {
	return fmt.Sprintf("list %s of %s", l.name, l.elem.Name())
}
