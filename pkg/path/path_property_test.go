package path_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/formkey"
	"github.com/goliatone/go-formbind/pkg/path"
)

type row struct {
	Cell string
}

type sheet struct {
	Rows []row
}

// TestIndexedKeyProperties checks that indexed keys parse back to the list,
// index and field they were built from, and that the parsed key navigates to
// the same element.
func TestIndexedKeyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("indexed key round trip", prop.ForAll(
		func(listName, fieldName string, index int) bool {
			cell := field.Text(fieldName, func(r row) string { return r.Cell }, func(r *row, v string) { r.Cell = v }, field.String)
			rows := field.Many(listName, func(s sheet) []row { return s.Rows }, func(s *sheet, v []row) { s.Rows = v }, field.NewSchema[row]("row", cell))

			p := path.At(rows, index, cell)
			segments, err := formkey.Parse(p.String())
			if err != nil || len(segments) != 3 {
				return false
			}
			if segments[0].Name != listName || segments[1].Index != index || segments[2].Name != fieldName {
				return false
			}

			root := sheet{Rows: make([]row, index+1)}
			root.Rows[segments[1].Index].Cell = "hit"
			value, err := p.Value(root)
			return err == nil && value == "hit"
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.IntRange(0, 500),
	))

	properties.Property("nested key is parent key plus name", prop.ForAll(
		func(parent, child string) bool {
			key := formkey.Join(parent, child)
			segments, err := formkey.Parse(key)
			if err != nil {
				return false
			}
			return formkey.Format(segments) == key && len(segments) == 2
		},
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
