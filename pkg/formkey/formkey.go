// Package formkey parses flat form field names such as "addresses[0].city"
// into path segments and formats the canonical path strings shared by
// binding, validation and rendering.
package formkey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is wrapped by every SyntaxError.
var ErrSyntax = errors.New("formkey: invalid key")

// SegmentKind tags a Segment.
type SegmentKind int

const (
	// Property selects a named field.
	Property SegmentKind = iota
	// Index selects a list element.
	Index
)

func (k SegmentKind) String() string {
	switch k {
	case Property:
		return "property"
	case Index:
		return "index"
	default:
		return "unknown"
	}
}

// Segment is one step of a parsed key: a property name or a list index.
type Segment struct {
	Kind  SegmentKind
	Name  string
	Index int
}

// Prop builds a Property segment.
func Prop(name string) Segment {
	return Segment{Kind: Property, Name: name}
}

// At builds an Index segment.
func At(index int) Segment {
	return Segment{Kind: Index, Index: index}
}

func (s Segment) String() string {
	if s.Kind == Index {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Name
}

// SyntaxError describes a key that does not follow the grammar
//
//	key        = segment { "." segment }
//	segment    = identifier [ "[" digits "]" ]
//	identifier = ( letter | "_" ) { letter | digit | "_" | "-" }
type SyntaxError struct {
	Key    string
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("formkey: invalid key %q at offset %d: %s", e.Key, e.Offset, e.Reason)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Parse splits key into segments. The result is never empty and always ends
// with a Property segment.
func Parse(key string) ([]Segment, error) {
	p := parser{key: key}
	return p.parse()
}

type parser struct {
	key string
	pos int
}

func (p *parser) fail(reason string) error {
	return &SyntaxError{Key: p.key, Offset: p.pos, Reason: reason}
}

func (p *parser) parse() ([]Segment, error) {
	if p.key == "" {
		return nil, p.fail("empty key")
	}

	segments := make([]Segment, 0, strings.Count(p.key, ".")+strings.Count(p.key, "[")+1)
	for {
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}
		segments = append(segments, Prop(name))

		if p.peek() == '[' {
			index, err := p.index()
			if err != nil {
				return nil, err
			}
			segments = append(segments, At(index))
		}

		if p.pos == len(p.key) {
			break
		}
		switch p.peek() {
		case '.':
			p.pos++
			if p.pos == len(p.key) {
				return nil, p.fail("trailing '.'")
			}
		case '[':
			return nil, p.fail("only one index is allowed per segment")
		default:
			return nil, p.fail(fmt.Sprintf("unexpected %q", p.key[p.pos]))
		}
	}

	if segments[len(segments)-1].Kind != Property {
		return nil, &SyntaxError{Key: p.key, Offset: len(p.key), Reason: "key must end with a property name"}
	}
	return segments, nil
}

func (p *parser) peek() byte {
	if p.pos >= len(p.key) {
		return 0
	}
	return p.key[p.pos]
}

func (p *parser) identifier() (string, error) {
	start := p.pos
	for p.pos < len(p.key) {
		c := p.key[p.pos]
		switch {
		case isLetter(c) || c == '_':
		case (isDigit(c) || c == '-') && p.pos > start:
		default:
			if p.pos == start {
				return "", p.fail("expected a property name")
			}
			return p.key[start:p.pos], nil
		}
		p.pos++
	}
	if p.pos == start {
		return "", p.fail("expected a property name")
	}
	return p.key[start:p.pos], nil
}

func (p *parser) index() (int, error) {
	p.pos++ // '['
	start := p.pos
	for p.pos < len(p.key) && isDigit(p.key[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		if p.pos == len(p.key) {
			return 0, p.fail("unbalanced '['")
		}
		return 0, p.fail("index must be a non-negative integer")
	}
	if p.peek() != ']' {
		if p.pos == len(p.key) {
			return 0, p.fail("unbalanced '['")
		}
		return 0, p.fail("index must be a non-negative integer")
	}
	digits := p.key[start:p.pos]
	if len(digits) > 1 && digits[0] == '0' {
		return 0, &SyntaxError{Key: p.key, Offset: start, Reason: "index must not have leading zeros"}
	}
	p.pos++ // ']'

	value, err := strconv.Atoi(digits)
	if err != nil {
		return 0, &SyntaxError{Key: p.key, Offset: start, Reason: "index out of integer range"}
	}
	return value, nil
}

// Format renders segments back into key form. It is the inverse of Parse.
func Format(segments []Segment) string {
	var b strings.Builder
	for i, segment := range segments {
		switch segment.Kind {
		case Property:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(segment.Name)
		case Index:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(segment.Index))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// Join appends a property name to a parent path.
func Join(parent, name string) string {
	if parent == "" {
		return name
	}
	if name == "" {
		return parent
	}
	return parent + "." + name
}

// Element returns the key of field name inside element index of list.
func Element(list string, index int, name string) string {
	return Join(Indexed(list, index), name)
}

// Indexed returns the key of element index of list.
func Indexed(list string, index int) string {
	return list + "[" + strconv.Itoa(index) + "]"
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
