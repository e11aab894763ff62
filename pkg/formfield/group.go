package formfield

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/path"
)

// GroupEntry is one field of a list element rendered by Group.
type GroupEntry[E any] struct {
	name    string
	label   string
	options []Option
	leaf    field.Info
	text    func(E) (string, bool)
}

// Entry declares a field of the element type for Group. The key and value
// are resolved per slot, so one declaration serves every index.
func Entry[E, V any](f field.Field[E, V], label string, options ...Option) GroupEntry[E] {
	return GroupEntry[E]{
		name:    f.Name(),
		label:   label,
		options: options,
		leaf:    f.Info(),
		text: func(element E) (string, bool) {
			return f.Format(f.Get(element))
		},
	}
}

// Group renders every entry for the element held by slot inside root, in a
// fieldset. Keys are built through slot.Key so they match path.At for the
// same list, index and field. The element must exist in root.
func Group[R, E any](slot path.Slot[R, E], root R, violations map[string][]string, entries ...GroupEntry[E]) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		element, err := slot.Element(root)
		if err != nil {
			return err
		}

		var b strings.Builder
		b.WriteString(`<fieldset class="field-group" data-list="`)
		b.WriteString(templ.EscapeString(slot.List()))
		b.WriteString(fmt.Sprintf(`" data-index="%d">`, slot.Index()))
		b.WriteByte('\n')

		for _, entry := range entries {
			key := slot.Key(entry.name)
			value, ok := entry.text(element)
			if !ok {
				return fmt.Errorf("formfield: %q: %w", key, path.ErrNotScalar)
			}
			b.WriteString(renderControl(control{
				key:      key,
				value:    value,
				leaf:     entry.leaf,
				label:    entry.label,
				messages: violations[key],
				cfg:      newConfig(entry.options),
			}))
		}

		for _, message := range violations[slot.String()] {
			b.WriteString(`<p class="field-error" data-field="`)
			b.WriteString(templ.EscapeString(slot.String()))
			b.WriteString(`">`)
			b.WriteString(templ.EscapeString(message))
			b.WriteString("</p>\n")
		}

		b.WriteString("</fieldset>\n")
		_, err = io.WriteString(w, b.String())
		return err
	})
}
