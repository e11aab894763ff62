package validation

import (
	"sort"
	"strings"
)

// Violations maps canonical field paths ("addresses[0].city") to their
// messages in the order they were reported.
type Violations map[string][]string

// Add records message under path. Blank messages and exact repeats of a
// message already recorded for path are dropped.
func (v Violations) Add(path, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	for _, existing := range v[path] {
		if existing == message {
			return
		}
	}
	v[path] = append(v[path], message)
}

// Messages returns the messages recorded for path.
func (v Violations) Messages(path string) []string {
	return v[path]
}

// Has reports whether path has at least one message.
func (v Violations) Has(path string) bool {
	return len(v[path]) > 0
}

// Paths returns the recorded paths in sorted order.
func (v Violations) Paths() []string {
	out := make([]string, 0, len(v))
	for path := range v {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Len returns the total number of messages.
func (v Violations) Len() int {
	total := 0
	for _, messages := range v {
		total += len(messages)
	}
	return total
}

// Merge adds every message of other into v.
func (v Violations) Merge(other Violations) {
	for _, path := range other.Paths() {
		for _, message := range other[path] {
			v.Add(path, message)
		}
	}
}
