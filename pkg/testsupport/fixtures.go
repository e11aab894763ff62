// Package testsupport holds helpers shared by the package tests: form value
// fixtures, component rendering and golden files.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/google/go-cmp/cmp"
)

// Values parses a url-encoded form body.
func Values(t *testing.T, query string) url.Values {
	t.Helper()

	values, err := url.ParseQuery(query)
	if err != nil {
		t.Fatalf("parse form values %q: %v", query, err)
	}
	return values
}

// Render renders component and returns the markup.
func Render(t *testing.T, component templ.Component) string {
	t.Helper()

	var buf bytes.Buffer
	if err := component.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render component: %v", err)
	}
	return buf.String()
}

// Golden compares got with the golden file at path. With UPDATE_GOLDENS set
// the file is rewritten instead. Trailing whitespace is ignored.
func Golden(t *testing.T, path string, got []byte) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir golden dir: %v", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if diff := cmp.Diff(strings.TrimRight(string(want), " \n"), strings.TrimRight(string(got), " \n")); diff != "" {
		t.Fatalf("golden %s mismatch (-want +got):\n%s", path, diff)
	}
}

// GoldenJSON is Golden for the indented JSON encoding of value.
func GoldenJSON(t *testing.T, path string, value any) {
	t.Helper()

	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	Golden(t, path, payload)
}
