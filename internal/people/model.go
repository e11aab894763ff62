// Package people declares the demo registration domain: a person with
// preferences, an optional emergency contact and a list of addresses, bound
// and validated through field descriptors.
package people

import (
	"github.com/goliatone/go-formbind/pkg/constraint"
	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/path"
)

// AddressType classifies an address.
type AddressType string

const (
	AddressHome  AddressType = "HOME"
	AddressWork  AddressType = "WORK"
	AddressOther AddressType = "OTHER"
)

// Address is one postal address of a person.
type Address struct {
	Type          AddressType `json:"type" yaml:"type"`
	StreetAddress string      `json:"streetAddress" yaml:"streetAddress"`
	City          string      `json:"city" yaml:"city"`
	PostalCode    string      `json:"postalCode" yaml:"postalCode"`
	Country       string      `json:"country" yaml:"country"`
}

// Contact is someone to call in an emergency.
type Contact struct {
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
}

// Preferences holds communication settings.
type Preferences struct {
	Newsletter bool   `json:"newsletter" yaml:"newsletter"`
	Language   string `json:"language" yaml:"language"`
}

// Person is the registration aggregate.
type Person struct {
	ID               string      `json:"id" yaml:"id"`
	Version          int         `json:"version" yaml:"version"`
	FirstName        string      `json:"firstName" yaml:"firstName"`
	LastName         string      `json:"lastName" yaml:"lastName"`
	Email            string      `json:"email" yaml:"email"`
	Age              *int        `json:"age,omitempty" yaml:"age,omitempty"`
	Preferences      Preferences `json:"preferences" yaml:"preferences"`
	EmergencyContact *Contact    `json:"emergencyContact,omitempty" yaml:"emergencyContact,omitempty"`
	Addresses        []Address   `json:"addresses,omitempty" yaml:"addresses,omitempty"`
}

// MaxAddresses bounds the address list.
const MaxAddresses = 5

// Address fields.
var (
	AddressTypeField = field.Text("type",
		func(a Address) AddressType { return a.Type },
		func(a *Address, v AddressType) { a.Type = v },
		field.Enum(AddressHome, AddressWork, AddressOther),
		constraint.NotNull().WithMessage("choose an address type"),
	)
	AddressStreet = field.Text("streetAddress",
		func(a Address) string { return a.StreetAddress },
		func(a *Address, v string) { a.StreetAddress = v },
		field.String,
		constraint.NotBlank(), constraint.MaxLength(100),
	)
	AddressCity = field.Text("city",
		func(a Address) string { return a.City },
		func(a *Address, v string) { a.City = v },
		field.String,
		constraint.NotBlank(), constraint.MaxLength(50),
	)
	AddressPostalCode = field.Text("postalCode",
		func(a Address) string { return a.PostalCode },
		func(a *Address, v string) { a.PostalCode = v },
		field.String,
		constraint.NotBlank(), constraint.Pattern(`[A-Za-z0-9][A-Za-z0-9 \-]{1,8}[A-Za-z0-9]`).WithMessage("must be a valid postal code"),
	)
	AddressCountry = field.Text("country",
		func(a Address) string { return a.Country },
		func(a *Address, v string) { a.Country = v },
		field.String,
		constraint.NotBlank(), constraint.MaxLength(56),
	)

	AddressSchema = field.NewSchema[Address]("address",
		AddressTypeField, AddressStreet, AddressCity, AddressPostalCode, AddressCountry,
	)
)

// Contact fields.
var (
	ContactName = field.Text("name",
		func(c Contact) string { return c.Name },
		func(c *Contact, v string) { c.Name = v },
		field.String,
		constraint.NotBlank(), constraint.MaxLength(100),
	)
	ContactPhone = field.Text("phone",
		func(c Contact) string { return c.Phone },
		func(c *Contact, v string) { c.Phone = v },
		field.String,
		constraint.NotBlank(), constraint.Pattern(`\+?[0-9 ()\-]{6,20}`).WithMessage("must be a phone number"),
	)

	ContactSchema = field.NewSchema[Contact]("contact", ContactName, ContactPhone)
)

// Preference fields.
var (
	Newsletter = field.Text("newsletter",
		func(p Preferences) bool { return p.Newsletter },
		func(p *Preferences, v bool) { p.Newsletter = v },
		field.Bool,
	)
	Language = field.Text("language",
		func(p Preferences) string { return p.Language },
		func(p *Preferences, v string) { p.Language = v },
		field.String,
		constraint.Pattern(`[a-z]{2}`).WithMessage("must be a two letter language code"),
	)

	PreferencesSchema = field.NewSchema[Preferences]("preferences", Newsletter, Language)
)

// Person fields.
var (
	Version = field.Text("version",
		func(p Person) int { return p.Version },
		func(p *Person, v int) { p.Version = v },
		field.Int,
		constraint.Min(0),
	)
	FirstName = field.Text("firstName",
		func(p Person) string { return p.FirstName },
		func(p *Person, v string) { p.FirstName = v },
		field.String,
		constraint.NotBlank(), constraint.MaxLength(50),
	)
	LastName = field.Text("lastName",
		func(p Person) string { return p.LastName },
		func(p *Person, v string) { p.LastName = v },
		field.String,
		constraint.NotBlank(), constraint.MaxLength(50),
	)
	Email = field.Text("email",
		func(p Person) string { return p.Email },
		func(p *Person, v string) { p.Email = v },
		field.String,
		constraint.NotBlank(), constraint.Email(), constraint.MaxLength(254),
	)
	Age = field.Text("age",
		func(p Person) *int { return p.Age },
		func(p *Person, v *int) { p.Age = v },
		field.Optional(field.Int),
		constraint.Min(0), constraint.Max(150),
	)
	PreferencesField = field.Object("preferences",
		func(p Person) Preferences { return p.Preferences },
		func(p *Person, v Preferences) { p.Preferences = v },
		PreferencesSchema,
	)
	EmergencyContact = field.Ref("emergencyContact",
		func(p Person) *Contact { return p.EmergencyContact },
		func(p *Person, v *Contact) { p.EmergencyContact = v },
		ContactSchema,
	)
	Addresses = field.Many("addresses",
		func(p Person) []Address { return p.Addresses },
		func(p *Person, v []Address) { p.Addresses = v },
		AddressSchema,
		constraint.Size(0, MaxAddresses).WithMessage("at most 5 addresses are allowed"),
	)

	Schema = field.NewSchema[Person]("person",
		Version, FirstName, LastName, Email, Age, PreferencesField, EmergencyContact, Addresses,
	)
)

// Paths used by the registration form.
var (
	FirstNamePath    = path.Of(FirstName)
	LastNamePath     = path.Of(LastName)
	EmailPath        = path.Of(Email)
	AgePath          = path.Of(Age)
	NewsletterPath   = path.Then(path.Of(PreferencesField), Newsletter)
	LanguagePath     = path.Then(path.Of(PreferencesField), Language)
	ContactNamePath  = path.Through(path.Of(EmergencyContact), ContactName)
	ContactPhonePath = path.Through(path.Of(EmergencyContact), ContactPhone)
)

// AddressSlot returns the slot of the address at index.
func AddressSlot(index int) path.Slot[Person, Address] {
	return path.Element(Addresses, index)
}
