package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbind/internal/people"
	"github.com/goliatone/go-formbind/internal/store"
	"github.com/goliatone/go-formbind/pkg/formprompt"
)

type scriptedDriver struct {
	inputs   []string
	confirms []bool
	selects  []int
}

func (d *scriptedDriver) Input(_ context.Context, cfg formprompt.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", fmt.Errorf("unexpected input %q", cfg.Message)
	}
	answer := d.inputs[0]
	d.inputs = d.inputs[1:]
	return answer, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg formprompt.ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, fmt.Errorf("unexpected confirm %q", cfg.Message)
	}
	answer := d.confirms[0]
	d.confirms = d.confirms[1:]
	return answer, nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg formprompt.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return 0, fmt.Errorf("unexpected select %q", cfg.Message)
	}
	answer := d.selects[0]
	d.selects = d.selects[1:]
	return answer, nil
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func run(t *testing.T, driver formprompt.Driver, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out, errOut bytes.Buffer
	a := newApp(&out, &errOut)
	if driver != nil {
		a.driver = driver
	}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestSchemaCommand(t *testing.T) {
	out, _, err := run(t, nil, "schema", "address")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc["properties"], "postalCode")

	_, _, err = run(t, nil, "schema", "invoice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "known: address, contact, person, preferences")
}

func TestSchemaCommand_OpenAPI(t *testing.T) {
	out, _, err := run(t, nil, "schema", "--openapi")
	require.NoError(t, err)

	var doc struct {
		OpenAPI    string `json:"openapi"`
		Components struct {
			Schemas map[string]any `json:"schemas"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.NotEmpty(t, doc.OpenAPI)
	assert.Len(t, doc.Components.Schemas, 4)
}

func TestPromptCommand(t *testing.T) {
	driver := &scriptedDriver{
		inputs:   []string{"Ada", "Lovelace", "ada@example.com", "36", "en"},
		confirms: []bool{true, false, false},
	}
	out, _, err := run(t, driver, "prompt")
	require.NoError(t, err)

	var p people.Person
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "Ada", p.FirstName)
	assert.Equal(t, "Lovelace", p.LastName)
	require.NotNil(t, p.Age)
	assert.Equal(t, 36, *p.Age)
	assert.True(t, p.Preferences.Newsletter)
	assert.Nil(t, p.EmergencyContact)
	assert.Empty(t, p.Addresses)
	assert.Empty(t, p.ID, "unsaved people have no id")
}

func TestPromptCommand_SavesToSQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "people.db")
	driver := &scriptedDriver{
		inputs: []string{
			"Grace", "Hopper", "grace@example.com", "", "",
			"221B Baker Street", "London", "NW1 6XE", "UK",
		},
		confirms: []bool{false, false, true, false},
		selects:  []int{1},
	}
	out, _, err := run(t, driver, "prompt", "--save", "--store", "sqlite", "--dsn", dsn)
	require.NoError(t, err)

	var saved people.Person
	require.NoError(t, json.Unmarshal([]byte(out), &saved))
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, 1, saved.Version)

	repo, err := store.Open(context.Background(), "sqlite", dsn)
	require.NoError(t, err)
	defer repo.Close()
	found, ok, err := repo.FindByID(context.Background(), saved.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, found.Addresses, 1)
	assert.Equal(t, people.AddressWork, found.Addresses[0].Type)
	assert.Equal(t, "London", found.Addresses[0].City)
}

func TestPromptCommand_RejectsBadStore(t *testing.T) {
	_, _, err := run(t, &scriptedDriver{}, "prompt", "--store", "postgres")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")
}

func TestRootCommand_RejectsBadLogLevel(t *testing.T) {
	_, _, err := run(t, nil, "schema", "--log-level", "loud")
	require.NoError(t, err, "schema does not build a logger")

	_, _, err = run(t, &scriptedDriver{}, "prompt", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown level")
}
