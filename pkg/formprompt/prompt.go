// Package formprompt fills a form from the terminal. It walks the members of
// a field schema, asks for every scalar and produces the same url.Values a
// browser would submit, keyed by canonical paths, so the result goes through
// the regular binding and validation pipeline.
package formprompt

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbind/pkg/constraint"
	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/formfield"
	"github.com/goliatone/go-formbind/pkg/formkey"
)

// Option configures a Prompter.
type Option func(*Prompter)

// WithDriver overrides the survey driver.
func WithDriver(driver Driver) Option {
	return func(p *Prompter) {
		if driver != nil {
			p.driver = driver
		}
	}
}

// WithLabels sets prompt messages by canonical path (for example
// "addresses[].city" for every address element). Missing labels are derived
// from field names.
func WithLabels(labels map[string]string) Option {
	return func(p *Prompter) {
		for key, label := range labels {
			p.labels[key] = label
		}
	}
}

// Prompter asks for form values.
type Prompter struct {
	driver Driver
	labels map[string]string
}

// New returns a Prompter using the survey driver unless overridden.
func New(options ...Option) *Prompter {
	p := &Prompter{
		driver: &SurveyDriver{},
		labels: make(map[string]string),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// Collect prompts for every member. prefill provides defaults by canonical
// key; it is not modified. Scalar constraints are checked as answers come in
// and the question is repeated until the answer satisfies them.
func (p *Prompter) Collect(ctx context.Context, members []field.Info, prefill url.Values) (url.Values, error) {
	if p.driver == nil {
		return nil, ErrNoDriver
	}
	out := make(url.Values)
	if err := p.members(ctx, members, "", "", prefill, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Prompter) members(ctx context.Context, members []field.Info, prefix, pattern string, prefill, out url.Values) error {
	for _, info := range members {
		key := formkey.Join(prefix, info.Name)
		labelKey := formkey.Join(pattern, info.Name)
		if err := p.member(ctx, info, key, labelKey, prefill, out); err != nil {
			return err
		}
	}
	return nil
}

func (p *Prompter) member(ctx context.Context, info field.Info, key, labelKey string, prefill, out url.Values) error {
	switch info.Kind {
	case field.KindObject:
		if info.Optional {
			add, err := p.driver.Confirm(ctx, ConfirmConfig{
				Message: "Add " + strings.ToLower(p.label(info, labelKey)) + "?",
				Default: hasPrefix(prefill, key),
			})
			if err != nil {
				return err
			}
			if !add {
				return nil
			}
		}
		return p.members(ctx, info.Members, key, labelKey, prefill, out)
	case field.KindList:
		return p.list(ctx, info, key, labelKey, prefill, out)
	default:
		value, err := p.scalar(ctx, info, key, p.label(info, labelKey), prefill.Get(key))
		if err != nil {
			return err
		}
		out.Set(key, value)
		return nil
	}
}

func (p *Prompter) list(ctx context.Context, info field.Info, key, labelKey string, prefill, out url.Values) error {
	minCount, maxCount := listBounds(info.Constraints)
	label := strings.ToLower(p.label(info, labelKey))
	elementPattern := labelKey + "[]"

	for index := 0; maxCount < 0 || index < int(maxCount); index++ {
		if index >= int(minCount) {
			add, err := p.driver.Confirm(ctx, ConfirmConfig{
				Message: fmt.Sprintf("Add %s #%d?", label, index+1),
				Default: hasPrefix(prefill, formkey.Indexed(key, index)),
			})
			if err != nil {
				return err
			}
			if !add {
				return nil
			}
		}
		if err := p.members(ctx, info.Members, formkey.Indexed(key, index), elementPattern, prefill, out); err != nil {
			return err
		}
	}
	return nil
}

func (p *Prompter) scalar(ctx context.Context, info field.Info, key, label, current string) (string, error) {
	for {
		value, err := p.ask(ctx, info, label, current)
		if err != nil {
			return "", err
		}
		if messages := check(info, value); len(messages) > 0 {
			if err := p.driver.Info(ctx, fmt.Sprintf("%s %s", key, strings.Join(messages, ", "))); err != nil {
				return "", err
			}
			current = value
			continue
		}
		return value, nil
	}
}

func (p *Prompter) ask(ctx context.Context, info field.Info, label, current string) (string, error) {
	switch {
	case info.Type == field.TypeBoolean:
		yes, _ := strconv.ParseBool(current)
		answer, err := p.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: yes || current == "on"})
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(answer), nil
	case len(info.Choices) > 0:
		options := make([]string, len(info.Choices))
		copy(options, info.Choices)
		idx, err := p.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: indexOf(options, current),
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(options) {
			return "", nil
		}
		return options[idx], nil
	default:
		answer, err := p.driver.Input(ctx, InputConfig{Message: label, Default: current})
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(answer), nil
	}
}

func (p *Prompter) label(info field.Info, labelKey string) string {
	if label, ok := p.labels[labelKey]; ok && label != "" {
		return label
	}
	return formfield.Label(info.Name)
}

// check applies the scalar constraints of info to a raw answer.
func check(info field.Info, value string) []string {
	subject := constraint.Text(value)
	if value == "" && (info.Optional || info.Type != field.TypeString) {
		subject = constraint.Null()
	}
	if info.Type == field.TypeInteger && value != "" {
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return []string{"must be a whole number"}
		}
	}
	var messages []string
	for _, c := range info.Constraints {
		if message, ok := c.Check(subject); !ok {
			messages = append(messages, message)
		}
	}
	return messages
}

func listBounds(constraints []constraint.Constraint) (int64, int64) {
	minCount, maxCount := int64(0), int64(constraint.Unbounded)
	for _, c := range constraints {
		if c.Kind != constraint.KindSize {
			continue
		}
		if c.Min > minCount {
			minCount = c.Min
		}
		if c.Max != constraint.Unbounded && (maxCount == constraint.Unbounded || c.Max < maxCount) {
			maxCount = c.Max
		}
	}
	return minCount, maxCount
}

func hasPrefix(values url.Values, prefix string) bool {
	for key := range values {
		if key == prefix || strings.HasPrefix(key, prefix+".") || strings.HasPrefix(key, prefix+"[") {
			return true
		}
	}
	return false
}
