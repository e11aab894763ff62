package constraint_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/constraint"
)

func TestHTMLAttributes_NotBlankAndMaxLength(t *testing.T) {
	got := constraint.HTMLAttributes([]constraint.Constraint{
		constraint.NotBlank(),
		constraint.MaxLength(50),
	})
	want := map[string]string{"required": "", "maxlength": "50"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestHTMLAttributes_NoConstraints(t *testing.T) {
	got := constraint.HTMLAttributes(nil)
	if got == nil {
		t.Fatalf("expected empty map, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected no attributes, got %v", got)
	}
}

func TestHTMLAttributes_Combined(t *testing.T) {
	got := constraint.HTMLAttributes([]constraint.Constraint{
		constraint.Size(2, 10),
		constraint.Pattern(`[0-9]+`),
		constraint.Email(),
		constraint.Min(18),
		constraint.Max(130),
	})
	want := map[string]string{
		"minlength": "2",
		"maxlength": "10",
		"pattern":   "[0-9]+",
		"min":       "18",
		"max":       "130",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestHTMLAttributes_UnboundedSizeOmitsMaxLength(t *testing.T) {
	got := constraint.HTMLAttributes([]constraint.Constraint{constraint.MinLength(3)})
	want := map[string]string{"minlength": "3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestInputType(t *testing.T) {
	if got := constraint.InputType([]constraint.Constraint{constraint.NotBlank(), constraint.Email()}); got != "email" {
		t.Fatalf("expected email input type, got %q", got)
	}
	if got := constraint.InputType([]constraint.Constraint{constraint.NotBlank()}); got != "" {
		t.Fatalf("expected no input type, got %q", got)
	}
}

func TestCheck(t *testing.T) {
	cases := []struct {
		name    string
		rule    constraint.Constraint
		subject constraint.Subject
		wantOK  bool
		wantMsg string
	}{
		{"not null rejects null", constraint.NotNull(), constraint.Null(), false, "must not be null"},
		{"not null accepts empty text", constraint.NotNull(), constraint.Text(""), true, ""},
		{"not blank rejects spaces", constraint.NotBlank(), constraint.Text("   "), false, "must not be blank"},
		{"not blank accepts text", constraint.NotBlank(), constraint.Text("Ada"), true, ""},
		{"not empty rejects empty list", constraint.NotEmpty(), constraint.Elements(0), false, "must not be empty"},
		{"size ignores null", constraint.Size(1, 3), constraint.Null(), true, ""},
		{"size counts runes", constraint.MaxLength(3), constraint.Text("äöü"), true, ""},
		{"size rejects long text", constraint.MaxLength(3), constraint.Text("abcd"), false, "size must be between 0 and 3"},
		{"size rejects short list", constraint.Size(1, constraint.Unbounded), constraint.Elements(0), false, "size must be at least 1"},
		{"pattern matches whole value", constraint.Pattern(`[0-9]{5}`), constraint.Text("123456"), false, `must match "[0-9]{5}"`},
		{"pattern accepts match", constraint.Pattern(`[0-9]{5}`), constraint.Text("12345"), true, ""},
		{"pattern skips empty", constraint.Pattern(`[0-9]{5}`), constraint.Text(""), true, ""},
		{"email rejects garbage", constraint.Email(), constraint.Text("bad-email"), false, "must be a well-formed email address"},
		{"email rejects display names", constraint.Email(), constraint.Text("Ada <ada@example.com>"), false, "must be a well-formed email address"},
		{"email accepts address", constraint.Email(), constraint.Text("ada@example.com"), true, ""},
		{"email skips empty", constraint.Email(), constraint.Text(""), true, ""},
		{"min rejects small", constraint.Min(18), constraint.Text("17"), false, "must be greater than or equal to 18"},
		{"max accepts bound", constraint.Max(130), constraint.Text("130"), true, ""},
		{"custom message", constraint.NotBlank().WithMessage("First name is required"), constraint.Text(""), false, "First name is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, ok := tc.rule.Check(tc.subject)
			if ok != tc.wantOK {
				t.Fatalf("ok mismatch: want %v, got %v (message %q)", tc.wantOK, ok, msg)
			}
			if msg != tc.wantMsg {
				t.Fatalf("message mismatch: want %q, got %q", tc.wantMsg, msg)
			}
		})
	}
}

func TestRequired(t *testing.T) {
	for _, c := range []constraint.Constraint{constraint.NotNull(), constraint.NotBlank(), constraint.NotEmpty()} {
		if !c.Required() {
			t.Fatalf("expected %s to be required", c.Kind)
		}
	}
	if constraint.MaxLength(3).Required() {
		t.Fatalf("size must not be reported as required")
	}
}
