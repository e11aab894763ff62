package field

import (
	"fmt"

	"github.com/goliatone/go-formbind/pkg/formkey"
)

// Schema is the descriptor table of T: its members in declaration order.
// Schemas are immutable once built and safe for concurrent use.
type Schema[T any] struct {
	name    string
	members []Member[T]
	names   []string
	byName  map[string]Member[T]
}

// NewSchema builds a schema. Duplicate member names panic, since schemas are
// declared once at package initialisation.
func NewSchema[T any](name string, members ...Member[T]) *Schema[T] {
	s := &Schema[T]{
		name:    name,
		members: make([]Member[T], 0, len(members)),
		names:   make([]string, 0, len(members)),
		byName:  make(map[string]Member[T], len(members)),
	}
	for _, member := range members {
		if member == nil {
			continue
		}
		memberName := member.Info().Name
		if _, exists := s.byName[memberName]; exists {
			panic(fmt.Sprintf("field: schema %q declares %q twice", name, memberName))
		}
		s.byName[memberName] = member
		s.members = append(s.members, member)
		s.names = append(s.names, memberName)
	}
	return s
}

// Name returns the schema name.
func (s *Schema[T]) Name() string {
	return s.name
}

// Members returns the members in declaration order.
func (s *Schema[T]) Members() []Member[T] {
	out := make([]Member[T], len(s.members))
	copy(out, s.members)
	return out
}

// Member looks a member up by name.
func (s *Schema[T]) Member(name string) (Member[T], bool) {
	member, ok := s.byName[name]
	return member, ok
}

// Decode converts a nested form tree into a T. at is the canonical path of the
// tree itself ("" for the root) and prefixes every error path. Keys without a
// matching member are ignored. On error the zero T is returned.
func (s *Schema[T]) Decode(tree map[string]any, at string) (T, error) {
	var out T
	for i, member := range s.members {
		if err := member.decode(tree, &out, formkey.Join(at, s.names[i])); err != nil {
			var zero T
			return zero, err
		}
	}
	return out, nil
}

// Encode converts value back into a nested form tree. Absent optional values
// and empty lists are omitted.
func (s *Schema[T]) Encode(value T) map[string]any {
	out := make(map[string]any, len(s.members))
	for _, member := range s.members {
		member.encode(value, out)
	}
	return out
}

// Validate checks every member of value, cascading into nested objects and
// list elements, and reports violations under canonical paths rooted at at.
func (s *Schema[T]) Validate(value T, at string, report Reporter) {
	for i, member := range s.members {
		member.validate(value, formkey.Join(at, s.names[i]), report)
	}
}

// Describe returns the type-erased description of every member.
func (s *Schema[T]) Describe() []Info {
	out := make([]Info, 0, len(s.members))
	for _, member := range s.members {
		out = append(out, member.Info())
	}
	return out
}
