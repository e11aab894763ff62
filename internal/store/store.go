// Package store persists registered people. Two repositories are provided: an
// in-memory one for tests and demos, and a SQLite one backed by
// modernc.org/sqlite. Both assign identifiers on first save and enforce
// optimistic locking through Person.Version.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbind/internal/people"
)

var (
	// ErrNotFound reports an update of a person that was never saved.
	ErrNotFound = errors.New("store: person not found")
	// ErrStale reports an update based on an outdated version.
	ErrStale = errors.New("store: stale version")
	// ErrUnknownDriver reports an unsupported repository driver name.
	ErrUnknownDriver = errors.New("store: unknown driver")
)

// FieldError rejects the value of a single field. Path is a JSON pointer into
// the submitted person, for example "/email".
type FieldError struct {
	Path    string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("store: %s: %s", e.Path, e.Message)
}

// Payload returns the error in the shape accepted by validation.FromPayload.
func (e *FieldError) Payload() map[string][]string {
	return map[string][]string{e.Path: {e.Message}}
}

// Repository stores people.
type Repository interface {
	// Save creates the person when ID is empty and updates it otherwise. The
	// returned person carries the assigned ID and the new version.
	Save(ctx context.Context, p people.Person) (people.Person, error)
	FindByID(ctx context.Context, id string) (people.Person, bool, error)
	// List returns people in creation order.
	List(ctx context.Context) ([]people.Person, error)
	Close() error
}

// Open returns the repository for driver ("memory" or "sqlite").
func Open(ctx context.Context, driver, dsn string) (Repository, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		return OpenSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func duplicateEmail() *FieldError {
	return &FieldError{Path: "/" + people.Email.Name(), Message: "is already registered"}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func clonePerson(p people.Person) people.Person {
	if p.Age != nil {
		age := *p.Age
		p.Age = &age
	}
	if p.EmergencyContact != nil {
		contact := *p.EmergencyContact
		p.EmergencyContact = &contact
	}
	if p.Addresses != nil {
		p.Addresses = append([]people.Address(nil), p.Addresses...)
	}
	return p
}
