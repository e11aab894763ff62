package formfield

import "strings"

// Option customises a rendered field.
type Option func(*config)

type config struct {
	placeholder string
	class       string
	id          string
	inputType   string
	help        string
	disabled    bool
	attrs       map[string]string
}

// Placeholder sets the placeholder text of the control.
func Placeholder(text string) Option {
	return func(cfg *config) {
		cfg.placeholder = strings.TrimSpace(text)
	}
}

// Class appends CSS classes to the field wrapper.
func Class(class string) Option {
	return func(cfg *config) {
		cfg.class = strings.TrimSpace(strings.Join([]string{cfg.class, class}, " "))
	}
}

// ID overrides the control id derived from the field key.
func ID(id string) Option {
	return func(cfg *config) {
		cfg.id = strings.TrimSpace(id)
	}
}

// Type overrides the input type inferred from the field.
func Type(inputType string) Option {
	return func(cfg *config) {
		cfg.inputType = strings.TrimSpace(inputType)
	}
}

// Help adds help text below the control. Basic inline markup is kept; the
// rest is sanitised.
func Help(text string) Option {
	return func(cfg *config) {
		cfg.help = text
	}
}

// Disabled renders the control disabled.
func Disabled() Option {
	return func(cfg *config) {
		cfg.disabled = true
	}
}

// Attr sets an extra attribute on the control, e.g. hx-post for HTMX forms.
func Attr(name, value string) Option {
	return func(cfg *config) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if cfg.attrs == nil {
			cfg.attrs = make(map[string]string)
		}
		cfg.attrs[name] = value
	}
}

func newConfig(options []Option) config {
	var cfg config
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}
