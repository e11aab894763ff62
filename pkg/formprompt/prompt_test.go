package formprompt_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/constraint"
	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/formprompt"
)

type role string

type phone struct {
	Label  string
	Number string
}

type owner struct {
	Name  string
	Email string
}

type member struct {
	Name   string
	Age    *int
	Role   role
	Active bool
	Owner  *owner
	Phones []phone
}

var (
	phoneSchema = field.NewSchema[phone]("phone",
		field.Text("label", func(p phone) string { return p.Label }, func(p *phone, v string) { p.Label = v }, field.String),
		field.Text("number", func(p phone) string { return p.Number }, func(p *phone, v string) { p.Number = v }, field.String,
			constraint.NotBlank()),
	)
	ownerSchema = field.NewSchema[owner]("owner",
		field.Text("name", func(o owner) string { return o.Name }, func(o *owner, v string) { o.Name = v }, field.String,
			constraint.NotBlank()),
		field.Text("email", func(o owner) string { return o.Email }, func(o *owner, v string) { o.Email = v }, field.String,
			constraint.Email()),
	)
	memberSchema = field.NewSchema[member]("member",
		field.Text("name", func(m member) string { return m.Name }, func(m *member, v string) { m.Name = v }, field.String,
			constraint.NotBlank(), constraint.MaxLength(10)),
		field.Text("age", func(m member) *int { return m.Age }, func(m *member, v *int) { m.Age = v }, field.Optional(field.Int),
			constraint.Min(0)),
		field.Text("role", func(m member) role { return m.Role }, func(m *member, v role) { m.Role = v }, field.Enum[role]("admin", "editor")),
		field.Text("active", func(m member) bool { return m.Active }, func(m *member, v bool) { m.Active = v }, field.Bool),
		field.Ref("owner", func(m member) *owner { return m.Owner }, func(m *member, v *owner) { m.Owner = v }, ownerSchema),
		field.Many("phones", func(m member) []phone { return m.Phones }, func(m *member, v []phone) { m.Phones = v }, phoneSchema,
			constraint.Size(1, 2)),
	)
)

// stubDriver answers prompts from scripted queues and records what was asked.
type stubDriver struct {
	inputs   []string
	confirms []bool
	selects  []int

	asked []string
	infos []string
}

func (s *stubDriver) Input(_ context.Context, cfg formprompt.InputConfig) (string, error) {
	s.asked = append(s.asked, "input:"+cfg.Message)
	if len(s.inputs) == 0 {
		return "", fmt.Errorf("unexpected input prompt %q", cfg.Message)
	}
	answer := s.inputs[0]
	s.inputs = s.inputs[1:]
	return answer, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg formprompt.ConfirmConfig) (bool, error) {
	s.asked = append(s.asked, "confirm:"+cfg.Message)
	if len(s.confirms) == 0 {
		return false, fmt.Errorf("unexpected confirm prompt %q", cfg.Message)
	}
	answer := s.confirms[0]
	s.confirms = s.confirms[1:]
	return answer, nil
}

func (s *stubDriver) Select(_ context.Context, cfg formprompt.SelectConfig) (int, error) {
	s.asked = append(s.asked, "select:"+cfg.Message)
	if len(s.selects) == 0 {
		return 0, fmt.Errorf("unexpected select prompt %q", cfg.Message)
	}
	answer := s.selects[0]
	s.selects = s.selects[1:]
	return answer, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func TestCollect_WalksSchema(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{"Ada", "36", "mobile", "555-0100"},
		confirms: []bool{
			true,  // active
			false, // add owner
			false, // add phone #2
		},
		selects: []int{1},
	}

	values, err := formprompt.New(formprompt.WithDriver(driver)).Collect(context.Background(), memberSchema.Describe(), nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := url.Values{
		"name":             {"Ada"},
		"age":              {"36"},
		"role":             {"editor"},
		"active":           {"true"},
		"phones[0].label":  {"mobile"},
		"phones[0].number": {"555-0100"},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	wantAsked := []string{
		"input:Name",
		"input:Age",
		"select:Role",
		"confirm:Active",
		"confirm:Add owner?",
		"input:Label",
		"input:Number",
		"confirm:Add phones #2?",
	}
	if diff := cmp.Diff(wantAsked, driver.asked); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}

	got, err := binding.Bind(values, memberSchema)
	if err != nil {
		t.Fatalf("bind collected values: %v", err)
	}
	if got.Name != "Ada" || got.Age == nil || *got.Age != 36 || got.Role != "editor" || !got.Active {
		t.Fatalf("unexpected bound member: %+v", got)
	}
	if got.Owner != nil {
		t.Fatalf("expected no owner, got %+v", got.Owner)
	}
	if diff := cmp.Diff([]phone{{Label: "mobile", Number: "555-0100"}}, got.Phones); diff != "" {
		t.Fatalf("phones mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_RepromptsUntilConstraintsHold(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{
			"",             // name: blank
			"Bartholomew",  // name: too long
			"Bart",         // name
			"old",          // age: not a number
			"-1",           // age: below min
			"",             // age: absent is fine
			"Homer",        // owner.name
			"not-an-email", // owner.email
			"homer@example.com",
			"home",
			"555-0101",
			"work",
			"555-0102",
		},
		// phones hold at most two elements, so no third confirmation is asked.
		confirms: []bool{false, true, true},
		selects:  []int{0},
	}

	values, err := formprompt.New(formprompt.WithDriver(driver)).Collect(context.Background(), memberSchema.Describe(), nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := url.Values{
		"name":             {"Bart"},
		"age":              {""},
		"role":             {"admin"},
		"active":           {"false"},
		"owner.name":       {"Homer"},
		"owner.email":      {"homer@example.com"},
		"phones[0].label":  {"home"},
		"phones[0].number": {"555-0101"},
		"phones[1].label":  {"work"},
		"phones[1].number": {"555-0102"},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infos) != 5 {
		t.Fatalf("expected 5 constraint messages, got %d: %v", len(driver.infos), driver.infos)
	}
	if driver.infos[0] != "name must not be blank" {
		t.Fatalf("unexpected first message %q", driver.infos[0])
	}
	if driver.infos[2] != "age must be a whole number" {
		t.Fatalf("unexpected age message %q", driver.infos[2])
	}
}

func TestCollect_PrefillAndLabels(t *testing.T) {
	driver := &recordingDriver{stubDriver: stubDriver{
		inputs:   []string{"Ada", "", "mobile", "555"},
		confirms: []bool{false, false, false},
		selects:  []int{0},
	}}
	prefill := url.Values{"name": {"Ada"}, "role": {"editor"}, "phones[0].label": {"mobile"}}

	p := formprompt.New(
		formprompt.WithDriver(driver),
		formprompt.WithLabels(map[string]string{"name": "Full name", "phones[].number": "Phone number"}),
	)
	if _, err := p.Collect(context.Background(), memberSchema.Describe(), prefill); err != nil {
		t.Fatalf("collect: %v", err)
	}

	if driver.inputDefaults["Full name"] != "Ada" {
		t.Fatalf("expected prefilled name default, got %q", driver.inputDefaults["Full name"])
	}
	if driver.inputDefaults["Label"] != "mobile" {
		t.Fatalf("expected prefilled label default, got %q", driver.inputDefaults["Label"])
	}
	if _, ok := driver.inputDefaults["Phone number"]; !ok {
		t.Fatalf("expected element label override, asked %v", driver.asked)
	}
	if driver.selectDefault != 1 {
		t.Fatalf("expected select default 1, got %d", driver.selectDefault)
	}
}

func TestCollect_DriverErrors(t *testing.T) {
	driver := &stubDriver{}
	_, err := formprompt.New(formprompt.WithDriver(driver)).Collect(context.Background(), memberSchema.Describe(), nil)
	if err == nil {
		t.Fatal("expected error from exhausted driver")
	}

	aborting := &abortDriver{}
	_, err = formprompt.New(formprompt.WithDriver(aborting)).Collect(context.Background(), memberSchema.Describe(), nil)
	if !errors.Is(err, formprompt.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}

	var zero formprompt.Prompter
	if _, err := zero.Collect(context.Background(), memberSchema.Describe(), nil); !errors.Is(err, formprompt.ErrNoDriver) {
		t.Fatalf("expected ErrNoDriver, got %v", err)
	}
}

type recordingDriver struct {
	stubDriver
	inputDefaults map[string]string
	selectDefault int
}

func (r *recordingDriver) Input(ctx context.Context, cfg formprompt.InputConfig) (string, error) {
	if r.inputDefaults == nil {
		r.inputDefaults = make(map[string]string)
	}
	r.inputDefaults[cfg.Message] = cfg.Default
	return r.stubDriver.Input(ctx, cfg)
}

func (r *recordingDriver) Select(ctx context.Context, cfg formprompt.SelectConfig) (int, error) {
	r.selectDefault = cfg.DefaultIndex
	return r.stubDriver.Select(ctx, cfg)
}

type abortDriver struct{ stubDriver }

func (a *abortDriver) Input(context.Context, formprompt.InputConfig) (string, error) {
	return "", formprompt.ErrAborted
}
