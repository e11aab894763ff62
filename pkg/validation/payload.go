package validation

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/formkey"
)

// PayloadMapping splits an external error payload into field violations keyed
// by canonical paths and form-level messages.
type PayloadMapping struct {
	Fields Violations
	Form   []string
}

// FromPayload normalises error payloads produced outside the validator (for
// example a repository rejecting a duplicate e-mail) into canonical paths.
// Keys may be JSON pointers ("/addresses/0/city"), dotted paths
// ("addresses.0.city"), bracketed paths, and may carry wrapper prefixes such as
// "body". Keys that do not resolve against members are kept as form-level
// messages so nothing is lost.
func FromPayload(members []field.Info, payload map[string][]string) PayloadMapping {
	mapping := PayloadMapping{Fields: Violations{}}
	if len(payload) == 0 {
		return mapping
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, raw := range keys {
		messages := normalizeMessages(payload[raw])
		if len(messages) == 0 {
			continue
		}
		mapped, ok := mapPayloadKey(raw, members)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		for _, message := range messages {
			mapping.Fields.Add(mapped, message)
		}
	}

	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// mapPayloadKey resolves raw against the member tree and returns the longest
// canonical key it can reach.
func mapPayloadKey(raw string, members []field.Info) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	parts := dropWrapperSegments(splitPayloadPath(raw))
	if len(parts) == 0 {
		return "", false
	}

	var segments []formkey.Segment
	level := members
	for i := 0; i < len(parts); i++ {
		info, ok := lookupMember(level, parts[i])
		if !ok {
			break
		}
		segments = append(segments, formkey.Prop(info.Name))

		if info.Kind == field.KindScalar {
			break
		}
		level = info.Members
		if info.Kind != field.KindList {
			continue
		}
		if i+1 >= len(parts) {
			break
		}
		index, err := strconv.Atoi(parts[i+1])
		if err != nil || index < 0 {
			break
		}
		if i+2 >= len(parts) {
			// "addresses/0" points at the element; report on the list.
			break
		}
		segments = append(segments, formkey.At(index))
		i++
	}

	if len(segments) == 0 {
		return "", false
	}
	if segments[len(segments)-1].Kind == formkey.Index {
		segments = segments[:len(segments)-1]
	}
	return formkey.Format(segments), true
}

func lookupMember(members []field.Info, name string) (field.Info, bool) {
	for _, member := range members {
		if member.Name == name {
			return member, true
		}
	}
	return field.Info{}, false
}

func splitPayloadPath(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}

	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	for len(segments) > 0 {
		switch strings.ToLower(segments[0]) {
		case "body", "request", "payload", "data", "attributes":
			segments = segments[1:]
			continue
		}
		break
	}
	return segments
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
