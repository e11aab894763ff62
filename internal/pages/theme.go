package pages

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Themes holds the manifests selectable through the "pages.theme" setting.
// Manifests are also registered with a go-theme registry, which validates
// them.
type Themes struct {
	registry  interface{ Register(*theme.Manifest) error }
	manifests map[string]*theme.Manifest
}

// NewThemes returns the built-in themes: "light" with a "dark" variant.
func NewThemes() (*Themes, error) {
	t := &Themes{
		registry:  theme.NewRegistry(),
		manifests: make(map[string]*theme.Manifest),
	}
	if err := t.Register(defaultManifest()); err != nil {
		return nil, err
	}
	return t, nil
}

// Register adds manifest. Theme names must be unique.
func (t *Themes) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("pages: theme manifest requires a name")
	}
	if _, exists := t.manifests[manifest.Name]; exists {
		return fmt.Errorf("pages: theme %q already registered", manifest.Name)
	}
	if err := t.registry.Register(manifest); err != nil {
		return fmt.Errorf("pages: register theme %q: %w", manifest.Name, err)
	}
	t.manifests[manifest.Name] = manifest
	return nil
}

// Select resolves "name" or "name/variant".
func (t *Themes) Select(selector string) (*theme.Selection, error) {
	name, variant, _ := strings.Cut(strings.TrimSpace(selector), "/")
	manifest, ok := t.manifests[name]
	if !ok {
		return nil, fmt.Errorf("pages: unknown theme %q", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("pages: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// CSSVars derives custom properties from the selection's tokens; variant
// tokens override the base ones.
func CSSVars(sel *theme.Selection) map[string]string {
	if sel == nil || sel.Manifest == nil {
		return nil
	}
	vars := make(map[string]string, len(sel.Manifest.Tokens))
	for key, value := range sel.Manifest.Tokens {
		vars["--"+key] = value
	}
	if variant, ok := sel.Manifest.Variants[sel.Variant]; ok {
		for key, value := range variant.Tokens {
			vars["--"+key] = value
		}
	}
	return vars
}

// Stylesheet renders vars as a :root rule with sorted declarations.
func Stylesheet(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func defaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "light",
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-bg":     "#ffffff",
			"color-text":   "#1f2328",
			"color-accent": "#0969da",
			"color-error":  "#cf222e",
			"radius":       "6px",
			"spacing":      "0.75rem",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"color-bg":     "#0d1117",
					"color-text":   "#e6edf3",
					"color-accent": "#4493f8",
					"color-error":  "#f85149",
				},
			},
		},
	}
}
