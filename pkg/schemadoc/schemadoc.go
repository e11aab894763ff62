// Package schemadoc exports field schemas as OpenAPI 3 schema objects so the
// constraints that drive form rendering and validation can be published to
// API clients.
package schemadoc

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbind/pkg/constraint"
	"github.com/goliatone/go-formbind/pkg/field"
)

// FromSchema converts schema into an OpenAPI object schema.
func FromSchema[T any](schema *field.Schema[T]) *openapi3.Schema {
	out := FromMembers(schema.Describe())
	out.Title = schema.Name()
	return out
}

// FromMembers converts member descriptions into an OpenAPI object schema.
// Members carrying a presence constraint or marked required are listed in
// "required".
func FromMembers(members []field.Info) *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	for _, member := range members {
		out.WithProperty(member.Name, memberSchema(member))
		if member.Required || hasPresence(member.Constraints) {
			out.Required = append(out.Required, member.Name)
		}
	}
	return out
}

// Document wraps named schemas into a minimal OpenAPI document under
// components/schemas.
func Document(title, version string, schemas map[string]*openapi3.Schema) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: title, Version: version},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas, len(schemas)),
		},
	}
	for name, schema := range schemas {
		doc.Components.Schemas[name] = openapi3.NewSchemaRef("", schema)
	}
	return doc
}

func memberSchema(info field.Info) *openapi3.Schema {
	switch info.Kind {
	case field.KindObject:
		out := FromMembers(info.Members)
		out.Nullable = info.Optional
		return out
	case field.KindList:
		out := openapi3.NewArraySchema().WithItems(FromMembers(info.Members))
		applyListConstraints(out, info.Constraints)
		return out
	case field.KindScalar:
		out := scalarSchema(info)
		applyScalarConstraints(out, info.Constraints)
		return out
	default:
		panic(fmt.Sprintf("schemadoc: unsupported member kind %s", info.Kind))
	}
}

func scalarSchema(info field.Info) *openapi3.Schema {
	var out *openapi3.Schema
	switch info.Type {
	case field.TypeInteger:
		out = openapi3.NewIntegerSchema()
	case field.TypeBoolean:
		out = openapi3.NewBoolSchema()
	default:
		out = openapi3.NewStringSchema()
	}
	if len(info.Choices) > 0 {
		values := make([]any, 0, len(info.Choices))
		for _, choice := range info.Choices {
			values = append(values, choice)
		}
		out.Enum = values
	}
	out.Nullable = info.Optional && info.Type != field.TypeString
	return out
}

func applyScalarConstraints(out *openapi3.Schema, constraints []constraint.Constraint) {
	for _, c := range constraints {
		switch c.Kind {
		case constraint.KindNotBlank, constraint.KindNotEmpty:
			if out.MinLength == 0 {
				out.MinLength = 1
			}
		case constraint.KindSize:
			if c.Min > 0 {
				out.MinLength = uint64(c.Min)
			}
			if c.Max != constraint.Unbounded {
				out.MaxLength = uint64Ptr(c.Max)
			}
		case constraint.KindPattern:
			out.Pattern = "^(?:" + c.Pattern + ")$"
		case constraint.KindEmail:
			out.Format = "email"
		case constraint.KindMin:
			out.Min = float64Ptr(c.Min)
		case constraint.KindMax:
			out.Max = float64Ptr(c.Max)
		case constraint.KindNotNull:
			out.Nullable = false
		}
	}
}

func applyListConstraints(out *openapi3.Schema, constraints []constraint.Constraint) {
	for _, c := range constraints {
		switch c.Kind {
		case constraint.KindNotEmpty:
			if out.MinItems == 0 {
				out.MinItems = 1
			}
		case constraint.KindSize:
			if c.Min > 0 {
				out.MinItems = uint64(c.Min)
			}
			if c.Max != constraint.Unbounded {
				out.MaxItems = uint64Ptr(c.Max)
			}
		}
	}
}

func hasPresence(constraints []constraint.Constraint) bool {
	for _, c := range constraints {
		if c.Required() {
			return true
		}
	}
	return false
}

func uint64Ptr(v int64) *uint64 {
	out := uint64(v)
	return &out
}

func float64Ptr(v int64) *float64 {
	out := float64(v)
	return &out
}
