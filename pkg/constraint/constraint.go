// Package constraint describes the validation rules attached to bindable
// fields. The same Constraint values drive server-side validation and the
// HTML attributes emitted next to rendered inputs, so both sides always agree
// on what a field accepts.
package constraint

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind identifies a constraint rule.
type Kind string

const (
	KindNotNull  Kind = "notNull"
	KindNotBlank Kind = "notBlank"
	KindNotEmpty Kind = "notEmpty"
	KindSize     Kind = "size"
	KindPattern  Kind = "pattern"
	KindEmail    Kind = "email"
	KindMin      Kind = "min"
	KindMax      Kind = "max"
)

// Unbounded marks a Size constraint without an upper limit.
const Unbounded = -1

// Constraint is a single declarative rule. Min/Max carry length bounds for
// KindSize and numeric bounds for KindMin/KindMax. Pattern holds the original
// expression for KindPattern.
type Constraint struct {
	Kind    Kind
	Min     int64
	Max     int64
	Pattern string
	Message string

	re *regexp.Regexp
}

// NotNull rejects absent values.
func NotNull() Constraint {
	return Constraint{Kind: KindNotNull}
}

// NotBlank rejects absent values and text made only of whitespace.
func NotBlank() Constraint {
	return Constraint{Kind: KindNotBlank}
}

// NotEmpty rejects absent values, empty text and empty lists.
func NotEmpty() Constraint {
	return Constraint{Kind: KindNotEmpty}
}

// Size bounds the rune length of text or the element count of a list. Pass
// Unbounded as max to leave the upper limit open.
func Size(min, max int) Constraint {
	if min < 0 {
		min = 0
	}
	if max < 0 {
		max = Unbounded
	}
	return Constraint{Kind: KindSize, Min: int64(min), Max: int64(max)}
}

// MinLength is Size(n, Unbounded).
func MinLength(n int) Constraint {
	return Size(n, Unbounded)
}

// MaxLength is Size(0, n).
func MaxLength(n int) Constraint {
	return Size(0, n)
}

// Pattern requires the whole value to match expr. It panics when expr does not
// compile, mirroring regexp.MustCompile: constraints are declared at init.
func Pattern(expr string) Constraint {
	return Constraint{
		Kind:    KindPattern,
		Pattern: expr,
		re:      regexp.MustCompile(`^(?:` + expr + `)$`),
	}
}

// Email requires a bare, well-formed e-mail address.
func Email() Constraint {
	return Constraint{Kind: KindEmail}
}

// Min sets an inclusive numeric lower bound.
func Min(n int64) Constraint {
	return Constraint{Kind: KindMin, Min: n}
}

// Max sets an inclusive numeric upper bound.
func Max(n int64) Constraint {
	return Constraint{Kind: KindMax, Max: n}
}

// WithMessage returns a copy of c reporting msg instead of the default text.
func (c Constraint) WithMessage(msg string) Constraint {
	c.Message = strings.TrimSpace(msg)
	return c
}

// Required reports whether c forbids absent or empty values.
func (c Constraint) Required() bool {
	switch c.Kind {
	case KindNotNull, KindNotBlank, KindNotEmpty:
		return true
	default:
		return false
	}
}

// Subject is the view of a value a constraint inspects. Scalars are seen
// through their text form; lists through their element count.
type Subject struct {
	Null   bool
	Text   string
	Count  int
	list   bool
	object bool
}

// Null is the subject of an absent value.
func Null() Subject {
	return Subject{Null: true}
}

// Text is the subject of a present scalar value.
func Text(value string) Subject {
	return Subject{Text: value}
}

// Elements is the subject of a list holding n elements.
func Elements(n int) Subject {
	return Subject{Count: n, list: true}
}

// Present is the subject of a non-null nested object. Only presence rules
// apply to it.
func Present() Subject {
	return Subject{object: true}
}

// IsList reports whether the subject describes a list.
func (s Subject) IsList() bool {
	return s.list
}

func (s Subject) length() int {
	if s.list {
		return s.Count
	}
	return utf8.RuneCountInString(s.Text)
}

// Check evaluates c against s. It returns the violation message and false when
// the subject breaks the rule.
func (c Constraint) Check(s Subject) (string, bool) {
	switch c.Kind {
	case KindNotNull:
		if s.Null {
			return c.message("must not be null"), false
		}
	case KindNotBlank:
		if s.Null || (!s.list && !s.object && strings.TrimSpace(s.Text) == "") {
			return c.message("must not be blank"), false
		}
	case KindNotEmpty:
		if s.Null || (!s.object && s.length() == 0) {
			return c.message("must not be empty"), false
		}
	case KindSize:
		if s.Null || s.object {
			return "", true
		}
		n := int64(s.length())
		if n < c.Min || (c.Max != Unbounded && n > c.Max) {
			return c.message(c.sizeMessage()), false
		}
	case KindPattern:
		if s.Null || s.list || s.object || s.Text == "" {
			return "", true
		}
		if !c.matcher().MatchString(s.Text) {
			return c.message(fmt.Sprintf("must match %q", c.Pattern)), false
		}
	case KindEmail:
		if s.Null || s.list || s.object || s.Text == "" {
			return "", true
		}
		if !isEmail(s.Text) {
			return c.message("must be a well-formed email address"), false
		}
	case KindMin, KindMax:
		if s.Null || s.list || s.object || strings.TrimSpace(s.Text) == "" {
			return "", true
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s.Text), 10, 64)
		if err != nil {
			return c.message("must be a number"), false
		}
		if c.Kind == KindMin && n < c.Min {
			return c.message(fmt.Sprintf("must be greater than or equal to %d", c.Min)), false
		}
		if c.Kind == KindMax && n > c.Max {
			return c.message(fmt.Sprintf("must be less than or equal to %d", c.Max)), false
		}
	default:
		panic(fmt.Sprintf("constraint: unknown kind %q", c.Kind))
	}
	return "", true
}

func (c Constraint) message(fallback string) string {
	if c.Message != "" {
		return c.Message
	}
	return fallback
}

func (c Constraint) sizeMessage() string {
	if c.Max == Unbounded {
		return fmt.Sprintf("size must be at least %d", c.Min)
	}
	return fmt.Sprintf("size must be between %d and %d", c.Min, c.Max)
}

func (c Constraint) matcher() *regexp.Regexp {
	if c.re != nil {
		return c.re
	}
	// Constraint built as a literal rather than through Pattern.
	return regexp.MustCompile(`^(?:` + c.Pattern + `)$`)
}

func isEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}
	at := strings.LastIndexByte(value, '@')
	return at > 0 && at < len(value)-1
}
