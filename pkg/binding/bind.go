package binding

import (
	"fmt"
	"net/url"

	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/formkey"
)

// Bind builds a tree from values and decodes it into a T through schema.
// Malformed keys fail with formkey.ErrSyntax, coercion failures with a
// *field.DecodeError. The zero T is returned on any error.
func Bind[T any](values url.Values, schema *field.Schema[T], options ...Option) (T, error) {
	tree, err := FromValues(values, options...)
	if err != nil {
		var zero T
		return zero, err
	}
	return BindTree(tree, schema)
}

// BindTree decodes an already built tree into a T.
func BindTree[T any](tree Tree, schema *field.Schema[T]) (T, error) {
	value, err := schema.Decode(tree, "")
	if err != nil {
		var zero T
		return zero, fmt.Errorf("binding: decode %s: %w", schema.Name(), err)
	}
	return value, nil
}

// BindIndexed decodes only the submitted element list[index] into an E,
// without requiring the rest of the parent object. Keys outside the list are
// ignored. Decode error paths keep the element prefix, e.g.
// "addresses[0].postalCode".
func BindIndexed[T, E any](values url.Values, list field.List[T, E], index int, options ...Option) (E, error) {
	var zero E
	tree, err := FromValues(values, options...)
	if err != nil {
		return zero, err
	}
	return BindIndexedTree(tree, list, index)
}

// BindIndexedTree is BindIndexed over an already built tree.
func BindIndexedTree[T, E any](tree Tree, list field.List[T, E], index int) (E, error) {
	var zero E
	at := formkey.Indexed(list.Name(), index)

	node, ok := tree[list.Name()]
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrNoElement, at)
	}
	items, ok := node.([]any)
	if !ok {
		return zero, fmt.Errorf("%w: %q is not a list", ErrConflict, list.Name())
	}
	if index < 0 || index >= len(items) {
		return zero, fmt.Errorf("%w: %q", ErrNoElement, at)
	}
	subtree, ok := items[index].(map[string]any)
	if !ok {
		return zero, fmt.Errorf("%w: %q is not an object", ErrConflict, at)
	}

	value, err := list.Elem().Decode(subtree, at)
	if err != nil {
		return zero, fmt.Errorf("binding: decode %s: %w", at, err)
	}
	return value, nil
}

// Values flattens value into canonical form keys, the inverse of Bind.
func Values[T any](schema *field.Schema[T], value T) url.Values {
	return Flatten(schema.Encode(value))
}

// Flatten converts a tree back into form values using canonical keys.
// Elements of a list keep their position, so binding the result yields the
// same indices.
func Flatten(tree map[string]any) url.Values {
	out := make(url.Values)
	flatten(tree, "", out)
	return out
}

func flatten(node map[string]any, prefix string, out url.Values) {
	for name, child := range node {
		key := formkey.Join(prefix, name)
		switch typed := child.(type) {
		case string:
			out.Set(key, typed)
		case map[string]any:
			flatten(typed, key, out)
		case []any:
			for index, item := range typed {
				if element, ok := item.(map[string]any); ok {
					flatten(element, formkey.Indexed(key, index), out)
				}
			}
		}
	}
}
