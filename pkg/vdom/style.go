package vdom

import (
	"sort"
	"strings"
)

// Style is an inline style declaration map, e.g. {"width": "120px"}.
type Style map[string]string

// String renders the declarations sorted by property name:
// "height: 80px; width: 120px". Empty values are skipped.
func (s Style) String() string {
	if len(s) == 0 {
		return ""
	}
	var b strings.Builder
	for _, prop := range sortedKeys(s) {
		value := s[prop]
		if prop == "" || value == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(prop)
		b.WriteString(": ")
		b.WriteString(value)
	}
	return b.String()
}

// Merge returns a new Style with other's declarations applied over s.
func (s Style) Merge(other Style) Style {
	if len(s) == 0 && len(other) == 0 {
		return nil
	}
	merged := make(Style, len(s)+len(other))
	for k, v := range s {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
