// Package formfield renders labelled form controls bound to property paths.
// Every control is named with the canonical key of its path, shows the value
// currently stored at that path, carries the HTML constraint attributes of the
// innermost field and lists the violations recorded under the same key.
package formfield

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"

	"github.com/goliatone/go-formbind/pkg/constraint"
	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/path"
)

// Input renders the control for p. The value is read from root and the
// messages from violations[p.String()]. A structurally inconsistent (path,
// root) pair fails rendering with the path error. Neither root nor violations
// are modified.
func Input[R, V any](p path.Path[R, V], root R, violations map[string][]string, label string, options ...Option) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		value, err := p.Text(root)
		if err != nil {
			return err
		}
		key := p.String()
		_, err = io.WriteString(w, renderControl(control{
			key:      key,
			value:    value,
			leaf:     p.Leaf(),
			label:    label,
			messages: violations[key],
			cfg:      newConfig(options),
		}))
		return err
	})
}

type control struct {
	key      string
	value    string
	leaf     field.Info
	label    string
	messages []string
	cfg      config
}

func renderControl(c control) string {
	id := c.cfg.id
	if id == "" {
		id = controlID(c.key)
	}
	label := c.label
	if label == "" {
		label = Label(c.leaf.Name)
	}

	attrs := constraint.HTMLAttributes(c.leaf.Constraints)
	_, required := attrs["required"]
	invalid := len(c.messages) > 0

	var b strings.Builder
	b.Grow(256)

	b.WriteString(`<div class="field`)
	if invalid {
		b.WriteString(` has-error`)
	}
	if c.cfg.class != "" {
		b.WriteByte(' ')
		b.WriteString(templ.EscapeString(c.cfg.class))
	}
	b.WriteString(`">`)
	b.WriteByte('\n')

	b.WriteString(`  <label for="`)
	b.WriteString(templ.EscapeString(id))
	b.WriteString(`">`)
	b.WriteString(templ.EscapeString(label))
	if required {
		b.WriteString(` *`)
	}
	b.WriteString("</label>\n")

	b.WriteString("  ")
	switch kind := controlKind(c); kind {
	case "select":
		writeSelect(&b, c, id, attrs, invalid)
	default:
		writeInput(&b, c, kind, id, attrs, invalid)
	}
	b.WriteByte('\n')

	for _, message := range c.messages {
		b.WriteString(`  <p class="field-error" data-field="`)
		b.WriteString(templ.EscapeString(c.key))
		b.WriteString(`">`)
		b.WriteString(templ.EscapeString(message))
		b.WriteString("</p>\n")
	}

	if help := sanitizeHelp(c.cfg.help); help != "" {
		b.WriteString(`  <small class="field-help" id="`)
		b.WriteString(templ.EscapeString(id))
		b.WriteString(`-help">`)
		b.WriteString(help)
		b.WriteString("</small>\n")
	}

	b.WriteString("</div>\n")
	return b.String()
}

func controlKind(c control) string {
	if c.cfg.inputType != "" {
		return c.cfg.inputType
	}
	if len(c.leaf.Choices) > 0 {
		return "select"
	}
	switch c.leaf.Type {
	case field.TypeBoolean:
		return "checkbox"
	case field.TypeInteger:
		return "number"
	}
	if inputType := constraint.InputType(c.leaf.Constraints); inputType != "" {
		return inputType
	}
	return "text"
}

func writeInput(b *strings.Builder, c control, kind, id string, attrs map[string]string, invalid bool) {
	b.WriteString(`<input type="`)
	b.WriteString(templ.EscapeString(kind))
	b.WriteString(`"`)
	writeAttr(b, "id", id)
	writeAttr(b, "name", c.key)
	if kind == "checkbox" {
		writeAttr(b, "value", "true")
		if c.value == "true" {
			b.WriteString(` checked`)
		}
		// presence rules would force the box to be ticked
		delete(attrs, "required")
	} else {
		writeAttr(b, "value", c.value)
	}
	writeCommonAttrs(b, c, id, attrs, invalid)
	if c.cfg.placeholder != "" && kind != "checkbox" {
		writeAttr(b, "placeholder", c.cfg.placeholder)
	}
	b.WriteString(`>`)
}

func writeSelect(b *strings.Builder, c control, id string, attrs map[string]string, invalid bool) {
	b.WriteString(`<select`)
	writeAttr(b, "id", id)
	writeAttr(b, "name", c.key)
	writeCommonAttrs(b, c, id, attrs, invalid)
	b.WriteString(`>`)

	b.WriteString(`<option value=""`)
	if c.value == "" {
		b.WriteString(` selected`)
	}
	b.WriteString(`>`)
	b.WriteString(templ.EscapeString(c.cfg.placeholder))
	b.WriteString(`</option>`)

	for _, choice := range c.leaf.Choices {
		b.WriteString(`<option`)
		writeAttr(b, "value", choice)
		if choice == c.value {
			b.WriteString(` selected`)
		}
		b.WriteString(`>`)
		b.WriteString(templ.EscapeString(Label(strings.ToLower(choice))))
		b.WriteString(`</option>`)
	}
	b.WriteString(`</select>`)
}

func writeCommonAttrs(b *strings.Builder, c control, id string, attrs map[string]string, invalid bool) {
	for _, name := range sortedKeys(attrs) {
		writeAttr(b, name, attrs[name])
	}
	for _, name := range sortedKeys(c.cfg.attrs) {
		writeAttr(b, name, c.cfg.attrs[name])
	}
	if c.cfg.disabled {
		b.WriteString(` disabled`)
	}
	if strings.TrimSpace(c.cfg.help) != "" {
		writeAttr(b, "aria-describedby", id+"-help")
	}
	if invalid {
		writeAttr(b, "aria-invalid", "true")
	}
}

// writeAttr writes name="value", or a bare name for empty boolean attributes
// such as required.
func writeAttr(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(templ.EscapeString(name))
	if value == "" && isBooleanAttr(name) {
		return
	}
	b.WriteString(`="`)
	b.WriteString(templ.EscapeString(value))
	b.WriteString(`"`)
}

func isBooleanAttr(name string) bool {
	switch name {
	case "required", "disabled", "readonly", "multiple", "autofocus":
		return true
	default:
		return false
	}
}

func sortedKeys(values map[string]string) []string {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// controlID derives an element id from a canonical key:
// "addresses[0].city" becomes "field-addresses-0-city".
func controlID(key string) string {
	var b strings.Builder
	b.WriteString("field-")
	dash := false
	for _, r := range key {
		if isLetter(r) || isDigit(r) || r == '_' {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
