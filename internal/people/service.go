package people

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/path"
	"github.com/goliatone/go-formbind/pkg/validation"
)

// Option configures a Binder.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	bindOptions []binding.Option
}

// WithLogger sets the logger handed to the validator.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithMaxIndex bounds list indices accepted from submissions.
func WithMaxIndex(n int) Option {
	return func(cfg *config) {
		cfg.bindOptions = append(cfg.bindOptions, binding.WithMaxIndex(n))
	}
}

// Binder turns registration submissions into validated people. Binding
// failures (malformed keys, values that cannot be decoded) are returned as
// errors; constraint failures are reported through an invalid Result.
type Binder struct {
	validator   *validation.Validator[Person]
	bindOptions []binding.Option
}

// NewBinder returns a Binder.
func NewBinder(options ...Option) *Binder {
	var cfg config
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Binder{
		validator:   validation.New(Schema, validation.WithLogger(cfg.logger)),
		bindOptions: cfg.bindOptions,
	}
}

// Validate runs every constraint of the person schema.
func (b *Binder) Validate(p Person) validation.Result[Person] {
	return b.validator.Validate(p)
}

// Register binds a new person from a submitted form.
func (b *Binder) Register(values url.Values) (validation.Result[Person], error) {
	p, err := binding.Bind(values, Schema, b.bindOptions...)
	if err != nil {
		return validation.Result[Person]{}, fmt.Errorf("people: register: %w", err)
	}
	p.ID = ""
	return b.validator.Validate(p), nil
}

// Update binds a full edit form over existing. Identity is kept from
// existing; the version comes from the submission so stale edits can be
// detected by the repository.
func (b *Binder) Update(existing Person, values url.Values) (validation.Result[Person], error) {
	p, err := binding.Bind(values, Schema, b.bindOptions...)
	if err != nil {
		return validation.Result[Person]{}, fmt.Errorf("people: update %s: %w", existing.ID, err)
	}
	p.ID = existing.ID
	if _, submitted := values[Version.Name()]; !submitted {
		p.Version = existing.Version
	}
	return b.validator.Validate(p), nil
}

// PutAddress binds only the address submitted at index and stores it into a
// copy of existing, replacing the element at index or appending it when index
// equals the current length. Other addresses are left untouched.
func (b *Binder) PutAddress(existing Person, index int, values url.Values) (validation.Result[Person], error) {
	address, err := binding.BindIndexed(values, Addresses, index, b.bindOptions...)
	if err != nil {
		return validation.Result[Person]{}, fmt.Errorf("people: address %d: %w", index, err)
	}
	updated, err := WithAddress(existing, index, address)
	if err != nil {
		return validation.Result[Person]{}, err
	}
	return b.validator.Validate(updated), nil
}

// WithAddress returns a copy of p with address stored at index. Index may
// address an existing element or the position right after the last one.
func WithAddress(p Person, index int, address Address) (Person, error) {
	if index < 0 || index > len(p.Addresses) {
		return Person{}, fmt.Errorf("people: %w: %q has %d element(s), index %d requested",
			path.ErrIndexOutOfRange, Addresses.Name(), len(p.Addresses), index)
	}
	addresses := make([]Address, len(p.Addresses), len(p.Addresses)+1)
	copy(addresses, p.Addresses)
	if index == len(addresses) {
		addresses = append(addresses, address)
	} else {
		addresses[index] = address
	}
	p.Addresses = addresses
	return p, nil
}

// WithBlankAddress returns a copy of p with an empty address appended, used
// to render the "add address" form at the next free index.
func WithBlankAddress(p Person) Person {
	out, _ := WithAddress(p, len(p.Addresses), Address{})
	return out
}
