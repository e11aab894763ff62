package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/internal/people"
)

func newSchemaCmd(a *app) *cobra.Command {
	var document bool
	cmd := &cobra.Command{
		Use:   "schema [name]",
		Short: "Print the JSON schema of a form",
		Long: `Print the OpenAPI schema of a registration form. Without a name the
person form is printed; --openapi prints a document holding every form.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out any
			switch {
			case document:
				out = people.OpenAPI(apiVersion)
			default:
				name := people.Schema.Name()
				if len(args) == 1 {
					name = args[0]
				}
				docs := people.SchemaDocs()
				doc, ok := docs[name]
				if !ok {
					return fmt.Errorf("unknown schema %q (known: %s)", name, strings.Join(schemaNames(docs), ", "))
				}
				out = doc
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().BoolVar(&document, "openapi", false, "print an OpenAPI document with every form schema")
	return cmd
}

const apiVersion = "1.0.0"

func schemaNames[V any](docs map[string]V) []string {
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
