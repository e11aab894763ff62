// Package binding turns flat form submissions into typed values. Keys such as
// "addresses[0].city" are parsed with formkey, folded into a nested tree of
// maps and lists, and decoded through a field.Schema.
package binding

import (
	"errors"
	"fmt"
	"net/url"
	"sort"

	"github.com/goliatone/go-formbind/pkg/formkey"
)

// DefaultMaxIndex bounds list indices accepted from submitted keys.
const DefaultMaxIndex = 1000

var (
	// ErrConflict reports a key whose shape disagrees with an earlier key,
	// e.g. "a=1" followed by "a.b=2".
	ErrConflict = errors.New("binding: conflicting keys")
	// ErrIndexLimit reports a list index above the configured maximum.
	ErrIndexLimit = errors.New("binding: list index exceeds limit")
	// ErrNoElement reports a BindIndexed call for an element that was not
	// submitted.
	ErrNoElement = errors.New("binding: no submitted element")
)

// Tree is a nested form tree. Nodes are string, map[string]any or []any.
type Tree map[string]any

// Option configures a Builder.
type Option func(*config)

type config struct {
	maxIndex int
}

// WithMaxIndex overrides DefaultMaxIndex. Non-positive values are ignored.
func WithMaxIndex(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxIndex = n
		}
	}
}

func newConfig(options []Option) config {
	cfg := config{maxIndex: DefaultMaxIndex}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// Builder folds (key, value) pairs into a Tree. It is not safe for
// concurrent use; build one per request.
type Builder struct {
	cfg  config
	root map[string]any
}

// NewBuilder returns an empty Builder.
func NewBuilder(options ...Option) *Builder {
	return &Builder{
		cfg:  newConfig(options),
		root: make(map[string]any),
	}
}

// Tree returns the tree built so far.
func (b *Builder) Tree() Tree {
	return Tree(b.root)
}

// Add places value at the location described by key, creating intermediate
// maps and lists and growing lists with empty maps up to the target index.
// When the exact key already holds a value the first value is kept.
func (b *Builder) Add(key, value string) error {
	segments, err := formkey.Parse(key)
	if err != nil {
		return err
	}
	return b.AddSegments(segments, value)
}

// AddSegments is Add for an already parsed key.
func (b *Builder) AddSegments(segments []formkey.Segment, value string) error {
	if len(segments) == 0 || segments[len(segments)-1].Kind != formkey.Property {
		return fmt.Errorf("binding: key %q must end with a property name", formkey.Format(segments))
	}
	for _, segment := range segments {
		if segment.Kind == formkey.Index && segment.Index > b.cfg.maxIndex {
			return fmt.Errorf("%w: %q uses index %d, maximum is %d", ErrIndexLimit, formkey.Format(segments), segment.Index, b.cfg.maxIndex)
		}
	}

	current := b.root
	for i := 0; i < len(segments)-1; i++ {
		segment := segments[i]
		next := segments[i+1]
		at := formkey.Format(segments[:i+1])

		switch {
		case segment.Kind == formkey.Property && next.Kind == formkey.Property:
			child, err := childMap(current, segment.Name, at)
			if err != nil {
				return err
			}
			current = child
		case segment.Kind == formkey.Property && next.Kind == formkey.Index:
			list, err := childList(current, segment.Name, at)
			if err != nil {
				return err
			}
			for len(list) <= next.Index {
				list = append(list, make(map[string]any))
			}
			current[segment.Name] = list

			element, ok := list[next.Index].(map[string]any)
			if !ok {
				return fmt.Errorf("%w: %q is not an object", ErrConflict, formkey.Format(segments[:i+2]))
			}
			current = element
			i++ // the index segment has been consumed
		default:
			return fmt.Errorf("binding: key %q has an index without a property", formkey.Format(segments))
		}
	}

	name := segments[len(segments)-1].Name
	switch current[name].(type) {
	case nil:
		current[name] = value
	case string:
		// first value wins
	default:
		return fmt.Errorf("%w: %q already holds nested values", ErrConflict, formkey.Format(segments))
	}
	return nil
}

func childMap(parent map[string]any, name, at string) (map[string]any, error) {
	switch node := parent[name].(type) {
	case nil:
		child := make(map[string]any)
		parent[name] = child
		return child, nil
	case map[string]any:
		return node, nil
	default:
		return nil, fmt.Errorf("%w: %q is used both as an object and as %s", ErrConflict, at, shape(node))
	}
}

func childList(parent map[string]any, name, at string) ([]any, error) {
	switch node := parent[name].(type) {
	case nil:
		return nil, nil
	case []any:
		return node, nil
	default:
		return nil, fmt.Errorf("%w: %q is used both as a list and as %s", ErrConflict, at, shape(node))
	}
}

func shape(node any) string {
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

// FromValues builds a Tree from submitted form values. Keys are visited in
// sorted order so the result does not depend on map iteration, and only the
// first value of a repeated key is used.
func FromValues(values url.Values, options ...Option) (Tree, error) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	builder := NewBuilder(options...)
	for _, key := range keys {
		submitted := values[key]
		if len(submitted) == 0 {
			continue
		}
		if err := builder.Add(key, submitted[0]); err != nil {
			return nil, err
		}
	}
	return builder.Tree(), nil
}
