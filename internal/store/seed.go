package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbind/internal/people"
	"github.com/goliatone/go-formbind/pkg/validation"
)

// ErrInvalidSeed reports a seed entry that does not pass validation.
var ErrInvalidSeed = errors.New("store: invalid seed")

type seedFile struct {
	People []people.Person `yaml:"people"`
}

// ReadSeed decodes a YAML seed document of the form
//
//	people:
//	  - firstName: Jane
//	    ...
//
// Unknown keys are rejected.
func ReadSeed(r io.Reader) ([]people.Person, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc seedFile
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: decode seed: %w", err)
	}
	return doc.People, nil
}

// Seed validates every entry and saves it into repo as a new person. Nothing
// is saved when any entry is invalid.
func Seed(ctx context.Context, repo Repository, entries []people.Person, validator *people.Binder) (int, error) {
	if validator == nil {
		validator = people.NewBinder()
	}
	for i, entry := range entries {
		entry.ID = ""
		result := validator.Validate(entry)
		if !result.IsValid() {
			return 0, fmt.Errorf("%w: entry %d: %s", ErrInvalidSeed, i, describe(result.Violations()))
		}
	}
	for i, entry := range entries {
		entry.ID = ""
		if _, err := repo.Save(ctx, entry); err != nil {
			return i, fmt.Errorf("store: seed entry %d: %w", i, err)
		}
	}
	return len(entries), nil
}

// SeedFile reads path and seeds repo with its entries.
func SeedFile(ctx context.Context, repo Repository, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("store: open seed: %w", err)
	}
	defer f.Close()

	entries, err := ReadSeed(f)
	if err != nil {
		return 0, err
	}
	return Seed(ctx, repo, entries, nil)
}

func describe(v validation.Violations) string {
	parts := make([]string, 0, v.Len())
	for _, path := range v.Paths() {
		parts = append(parts, path+": "+strings.Join(v.Messages(path), ", "))
	}
	return strings.Join(parts, "; ")
}
