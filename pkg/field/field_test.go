package field_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/constraint"
	"github.com/goliatone/go-formbind/pkg/field"
)

type color string

type part struct {
	Label string
	Color color
}

type kit struct {
	Title string
	Count int
	Lead  part
	Spare *part
	Parts []part
}

var (
	partSchema = field.NewSchema[part]("part",
		field.Text("label", func(p part) string { return p.Label }, func(p *part, v string) { p.Label = v }, field.String, constraint.NotBlank(), constraint.MaxLength(8)),
		field.Text("color", func(p part) color { return p.Color }, func(p *part, v color) { p.Color = v }, field.Enum[color]("red", "blue"), constraint.NotNull()),
	)
	kitSchema = field.NewSchema[kit]("kit",
		field.Text("title", func(k kit) string { return k.Title }, func(k *kit, v string) { k.Title = v }, field.String, constraint.NotBlank()),
		field.Text("count", func(k kit) int { return k.Count }, func(k *kit, v int) { k.Count = v }, field.Int, constraint.Min(1)),
		field.Object("lead", func(k kit) part { return k.Lead }, func(k *kit, v part) { k.Lead = v }, partSchema),
		field.Ref("spare", func(k kit) *part { return k.Spare }, func(k *kit, v *part) { k.Spare = v }, partSchema),
		field.Many("parts", func(k kit) []part { return k.Parts }, func(k *kit, v []part) { k.Parts = v }, partSchema, constraint.NotEmpty()),
	)
)

type violation struct {
	Path    string
	Message string
}

func collect(k kit) []violation {
	var out []violation
	kitSchema.Validate(k, "", func(path, message string) {
		out = append(out, violation{Path: path, Message: message})
	})
	return out
}

func TestSchemaValidate_ReportsCanonicalPaths(t *testing.T) {
	got := collect(kit{
		Title: " ",
		Count: 0,
		Lead:  part{Label: "too-long-label", Color: "red"},
		Spare: &part{Label: "ok"},
		Parts: []part{{Label: "a", Color: "blue"}, {Label: "", Color: "red"}},
	})

	want := []violation{
		{Path: "title", Message: "must not be blank"},
		{Path: "count", Message: "must be greater than or equal to 1"},
		{Path: "lead.label", Message: "size must be between 0 and 8"},
		{Path: "spare.color", Message: "must not be null"},
		{Path: "parts[1].label", Message: "must not be blank"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaValidate_NilRefAndNilList(t *testing.T) {
	got := collect(kit{Title: "ok", Count: 1, Lead: part{Label: "x", Color: "red"}})
	want := []violation{{Path: "parts", Message: "must not be empty"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaDescribe(t *testing.T) {
	infos := kitSchema.Describe()
	if len(infos) != 5 {
		t.Fatalf("expected 5 members, got %d", len(infos))
	}

	count := infos[1]
	if count.Kind != field.KindScalar || count.Type != field.TypeInteger {
		t.Fatalf("unexpected count info: %+v", count)
	}

	spare := infos[3]
	if spare.Kind != field.KindObject || !spare.Optional || len(spare.Members) != 2 {
		t.Fatalf("unexpected spare info: %+v", spare)
	}
	if diff := cmp.Diff([]string{"red", "blue"}, spare.Members[1].Choices); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}

	parts := infos[4]
	if parts.Kind != field.KindList || len(parts.Members) != 2 || parts.Members[0].Name != "label" {
		t.Fatalf("unexpected parts info: %+v", parts)
	}
	if len(parts.Constraints) != 1 || parts.Constraints[0].Kind != constraint.KindNotEmpty {
		t.Fatalf("unexpected list constraints: %+v", parts.Constraints)
	}
}

func TestSchemaEncode(t *testing.T) {
	got := kitSchema.Encode(kit{
		Title: "starter",
		Count: 2,
		Lead:  part{Label: "x", Color: "red"},
		Parts: []part{{Label: "y"}},
	})
	want := map[string]any{
		"title": "starter",
		"count": "2",
		"lead":  map[string]any{"label": "x", "color": "red"},
		"parts": []any{map[string]any{"label": "y"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("encoded tree mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaDecode_ErrorCarriesPath(t *testing.T) {
	tree := map[string]any{
		"parts": []any{
			map[string]any{"label": "a"},
			map[string]any{"color": "green"},
		},
	}
	got, err := kitSchema.Decode(tree, "")
	var decodeErr *field.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if decodeErr.Path != "parts[1].color" || decodeErr.Value != "green" {
		t.Fatalf("unexpected error: %+v", decodeErr)
	}
	if !errors.Is(err, field.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue in chain")
	}
	if diff := cmp.Diff(kit{}, got); diff != "" {
		t.Fatalf("expected zero value on error (-want +got):\n%s", diff)
	}
}

func TestFieldAccessorsAndFormat(t *testing.T) {
	title := field.Text("title", func(k kit) string { return k.Title }, func(k *kit, v string) { k.Title = v }, field.String)
	var k kit
	title.Set(&k, "hello")
	if title.Get(k) != "hello" {
		t.Fatalf("set/get mismatch: %+v", k)
	}
	if text, ok := title.Format("hello"); !ok || text != "hello" {
		t.Fatalf("unexpected format: %q %v", text, ok)
	}

	lead := field.Object("lead", func(k kit) part { return k.Lead }, func(k *kit, v part) { k.Lead = v }, partSchema)
	if _, ok := lead.Format(part{}); ok {
		t.Fatalf("object fields have no text form")
	}
	if !title.Require().Info().Required || title.Info().Required {
		t.Fatalf("Require must return a marked copy")
	}
}

func TestScalars(t *testing.T) {
	if v, err := field.Int.Parse(" 42 "); err != nil || v != 42 {
		t.Fatalf("int parse: %v %v", v, err)
	}
	if _, err := field.Int.Parse("4x"); !errors.Is(err, field.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if v, err := field.Bool.Parse("ON"); err != nil || !v {
		t.Fatalf("bool parse: %v %v", v, err)
	}
	if _, err := field.Bool.Parse("maybe"); !errors.Is(err, field.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}

	optional := field.Optional(field.Int)
	if v, err := optional.Parse(""); err != nil || v != nil {
		t.Fatalf("empty optional should be nil: %v %v", v, err)
	}
	if optional.Format(nil) != "" {
		t.Fatalf("nil optional must format as empty text")
	}
}

func TestNewSchemaRejectsDuplicates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for duplicate member")
		}
	}()
	title := field.Text("title", func(k kit) string { return k.Title }, func(k *kit, v string) { k.Title = v }, field.String)
	field.NewSchema[kit]("dup", title, title)
}

func TestRefDecode_BlankSubtreeStaysNil(t *testing.T) {
	got, err := kitSchema.Decode(map[string]any{
		"spare": map[string]any{"label": " ", "color": ""},
	}, "")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Spare != nil {
		t.Fatalf("blank optional section should bind to nil, got %+v", got.Spare)
	}

	got, err = kitSchema.Decode(map[string]any{
		"spare": map[string]any{"label": "bolt", "color": ""},
	}, "")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Spare == nil || got.Spare.Label != "bolt" {
		t.Fatalf("expected spare to be bound, got %+v", got.Spare)
	}
}
