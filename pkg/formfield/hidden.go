package formfield

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// HiddenField is a hidden input emitted alongside the visible controls.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken returns a hidden field carrying token under name ("_csrf",
// "csrf_token").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// VersionField returns a hidden field used for optimistic locking.
func VersionField(name string, version any) HiddenField {
	return Hidden(name, version)
}

// MergeHiddenFields returns a copy of base with fields applied. Empty names are
// ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, f := range fields {
		if name := strings.TrimSpace(f.Name); name != "" {
			out[name] = f.Value
		}
	}
	return out
}

// SortedHiddenFields returns fields sorted by name for deterministic output.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: strings.TrimSpace(name), Value: fields[name]})
	}
	return out
}

// HiddenInputs renders fields as hidden inputs sorted by name.
func HiddenInputs(fields ...HiddenField) templ.Component {
	merged := MergeHiddenFields(nil, fields...)
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		for _, f := range SortedHiddenFields(merged) {
			b.WriteString(`<input type="hidden"`)
			writeAttr(&b, "name", f.Name)
			writeAttr(&b, "value", f.Value)
			b.WriteString(">\n")
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// FormErrors renders form-level messages that belong to no single field.
func FormErrors(messages []string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if len(messages) == 0 {
			return nil
		}
		var b strings.Builder
		b.WriteString(`<div class="form-errors" role="alert">` + "\n")
		for _, message := range messages {
			b.WriteString(`  <p class="form-error">`)
			b.WriteString(templ.EscapeString(message))
			b.WriteString("</p>\n")
		}
		b.WriteString("</div>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}
