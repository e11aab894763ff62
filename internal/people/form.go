package people

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/goliatone/go-formbind/pkg/formfield"
)

// FormData is what the person forms need to render.
type FormData struct {
	Person     Person
	Violations map[string][]string
	FormErrors []string
	Action     string
	Hidden     []formfield.HiddenField
	Submit     string
}

// Form renders the registration/edit form. Existing addresses are rendered as
// indexed field groups so the whole person can be resubmitted at once.
func Form(data FormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := data.Person
		// the contact section is always shown; a blank submission binds to nil
		if p.EmergencyContact == nil {
			p.EmergencyContact = &Contact{}
		}

		parts := []templ.Component{
			templ.Raw(fmt.Sprintf(`<form method="post" action="%s" class="person-form" novalidate>`+"\n", templ.EscapeString(data.Action))),
			formfield.HiddenInputs(data.Hidden...),
			formfield.FormErrors(data.FormErrors),
			templ.Raw("<fieldset>\n<legend>Person</legend>\n"),
			formfield.Input(FirstNamePath, p, data.Violations, "First name", formfield.Attr("autocomplete", "given-name")),
			formfield.Input(LastNamePath, p, data.Violations, "Last name", formfield.Attr("autocomplete", "family-name")),
			formfield.Input(EmailPath, p, data.Violations, "E-mail", formfield.Placeholder("you@example.com")),
			formfield.Input(AgePath, p, data.Violations, "Age"),
			templ.Raw("</fieldset>\n<fieldset>\n<legend>Preferences</legend>\n"),
			formfield.Input(NewsletterPath, p, data.Violations, "Send me the newsletter"),
			formfield.Input(LanguagePath, p, data.Violations, "Language", formfield.Placeholder("en"), formfield.Help("Two letter <code>ISO 639-1</code> code.")),
			templ.Raw("</fieldset>\n<fieldset>\n<legend>Emergency contact</legend>\n"),
			formfield.Input(ContactNamePath, p, data.Violations, "Name"),
			formfield.Input(ContactPhonePath, p, data.Violations, "Phone", formfield.Type("tel")),
			formfield.FormErrors(data.Violations[EmergencyContact.Name()]),
			templ.Raw("</fieldset>\n"),
		}
		for index := range p.Addresses {
			parts = append(parts, AddressFields(p, index, data.Violations))
		}
		parts = append(parts,
			formfield.FormErrors(data.Violations[Addresses.Name()]),
			templ.Raw(fmt.Sprintf(`<button type="submit">%s</button>`+"\n</form>\n", templ.EscapeString(submitLabel(data.Submit)))),
		)
		return renderAll(ctx, w, parts...)
	})
}

// AddressForm renders a standalone form editing only the address at index.
// The element must exist in data.Person; use WithBlankAddress to render the
// form for a new address.
func AddressForm(data FormData, index int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return renderAll(ctx, w,
			templ.Raw(fmt.Sprintf(`<form method="post" action="%s" class="address-form" novalidate>`+"\n", templ.EscapeString(data.Action))),
			formfield.HiddenInputs(data.Hidden...),
			formfield.FormErrors(data.FormErrors),
			AddressFields(data.Person, index, data.Violations),
			templ.Raw(fmt.Sprintf(`<button type="submit">%s</button>`+"\n</form>\n", templ.EscapeString(submitLabel(data.Submit)))),
		)
	})
}

// AddressFields renders the field group of the address at index.
func AddressFields(p Person, index int, violations map[string][]string) templ.Component {
	return formfield.Group(AddressSlot(index), p, violations,
		formfield.Entry(AddressTypeField, "Type", formfield.Placeholder("Choose...")),
		formfield.Entry(AddressStreet, "Street address", formfield.Attr("autocomplete", "street-address")),
		formfield.Entry(AddressCity, "City"),
		formfield.Entry(AddressPostalCode, "Postal code", formfield.Attr("autocomplete", "postal-code")),
		formfield.Entry(AddressCountry, "Country"),
	)
}

func submitLabel(label string) string {
	if label == "" {
		return "Save"
	}
	return label
}

func renderAll(ctx context.Context, w io.Writer, components ...templ.Component) error {
	for _, component := range components {
		if err := component.Render(ctx, w); err != nil {
			return err
		}
	}
	return nil
}
