package people

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbind/pkg/schemadoc"
)

// SchemaDocs returns a fresh OpenAPI schema for every form of the domain,
// keyed by schema name.
func SchemaDocs() map[string]*openapi3.Schema {
	return map[string]*openapi3.Schema{
		Schema.Name():            schemadoc.FromSchema(Schema),
		AddressSchema.Name():     schemadoc.FromSchema(AddressSchema),
		ContactSchema.Name():     schemadoc.FromSchema(ContactSchema),
		PreferencesSchema.Name(): schemadoc.FromSchema(PreferencesSchema),
	}
}

// OpenAPI bundles SchemaDocs into a document.
func OpenAPI(version string) *openapi3.T {
	return schemadoc.Document("formbind", version, SchemaDocs())
}
