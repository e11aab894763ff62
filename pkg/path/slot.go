package path

import (
	"fmt"

	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/formkey"
)

// Slot binds a list field to one position. Indexed paths and field groups
// share it so every key for the element is built from the same list and
// index.
type Slot[R, E any] struct {
	list  field.List[R, E]
	index int
}

// Element returns the slot for element index of list.
func Element[R, E any](list field.List[R, E], index int) Slot[R, E] {
	return Slot[R, E]{list: list, index: index}
}

// List returns the list field name.
func (s Slot[R, E]) List() string {
	return s.list.Name()
}

// Index returns the element position.
func (s Slot[R, E]) Index() int {
	return s.index
}

// String returns the key of the element itself, e.g. "addresses[0]".
func (s Slot[R, E]) String() string {
	return formkey.Indexed(s.list.Name(), s.index)
}

// Key returns the canonical key of the element field name.
func (s Slot[R, E]) Key(name string) string {
	return formkey.Element(s.list.Name(), s.index, name)
}

// Element returns the element stored in root, failing with
// ErrIndexOutOfRange when the list is shorter than the slot requires.
func (s Slot[R, E]) Element(root R) (E, error) {
	items := s.list.Get(root)
	if s.index < 0 || s.index >= len(items) {
		var zero E
		return zero, fmt.Errorf("%w: %q has %d element(s), index %d requested", ErrIndexOutOfRange, s.list.Name(), len(items), s.index)
	}
	return items[s.index], nil
}
