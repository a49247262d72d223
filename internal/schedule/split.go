package schedule

import (
	"strings"

	"binday/internal/extracthtml"
)

// SplitTypes splits a (possibly composite) row-header label into individual
// collection-type labels.
//
// Whitespace is normalized first (internal runs collapse to single spaces),
// then the extractor's header separator is applied. Blank input yields an
// empty slice; a label with no separator yields exactly one element. Returned
// labels are never empty strings.
func SplitTypes(label string) []string {
	label = strings.Join(strings.Fields(label), " ")
	if label == "" {
		return nil
	}
	if !strings.Contains(label, extracthtml.HeaderSeparator) {
		return []string{label}
	}

	var out []string
	for _, part := range strings.Split(label, extracthtml.HeaderSeparator) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
