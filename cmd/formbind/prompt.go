package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/internal/people"
	"github.com/goliatone/go-formbind/internal/store"
	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/formprompt"
)

// errInvalid is returned after the violations of a rejected registration
// have been printed.
var errInvalid = errors.New("registration is invalid")

var promptLabels = map[string]string{
	"firstName":              "First name",
	"lastName":               "Last name",
	"email":                  "E-mail",
	"preferences.newsletter": "Send me the newsletter",
	"preferences.language":   "Language (two letter code)",
	"emergencyContact":       "Emergency contact",
	"addresses":              "Address",
	"addresses[].type":       "Address type",
}

func newPromptCmd(a *app) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Register a person interactively",
		Long: `Ask for every registration field on the terminal, then bind and
validate the answers exactly like a submitted form. The bound person is
printed as JSON; with --save it is stored in the configured repository.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := a.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			prompter := formprompt.New(formprompt.WithDriver(a.driver), formprompt.WithLabels(promptLabels))
			values, err := prompter.Collect(ctx, registrationMembers(), nil)
			if err != nil {
				return err
			}

			binder := people.NewBinder(people.WithLogger(logger), people.WithMaxIndex(cfg.Binding.MaxIndex))
			result, err := binder.Register(values)
			if err != nil {
				return err
			}
			if !result.IsValid() {
				violations := result.Violations()
				for _, path := range violations.Paths() {
					for _, message := range violations.Messages(path) {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, message)
					}
				}
				return errInvalid
			}

			person := result.Value()
			if save {
				repo, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
				if err != nil {
					return err
				}
				defer repo.Close()
				if person, err = repo.Save(ctx, person); err != nil {
					return err
				}
				logger.Info("person registered", slog.String("id", person.ID), slog.String("driver", cfg.Store.Driver))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(person)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&save, "save", false, "store the person in the configured repository")
	flags.String("store", "memory", "repository driver (memory, sqlite)")
	flags.String("dsn", "", "sqlite data source name")
	flags.Int("max-index", 1000, "largest list index accepted")
	return cmd
}

// registrationMembers lists the person members a user fills in; the version
// is managed by the repository.
func registrationMembers() []field.Info {
	var members []field.Info
	for _, info := range people.Schema.Describe() {
		if info.Name == people.Version.Name() {
			continue
		}
		members = append(members, info)
	}
	return members
}
