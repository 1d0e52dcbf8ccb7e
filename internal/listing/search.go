package listing

import (
	"slices"
	"strings"
)

// Search keeps records where any of fields contains term, ignoring case.
// An empty term keeps everything.
func Search[T Record](records []T, term string, fields []string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return slices.Clone(records)
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if Matches(r, term, fields) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether one record matches a lower-cased term. With no
// fields every text field the record lists takes part.
func Matches(r Record, lowerTerm string, fields []string) bool {
	if len(fields) == 0 {
		fields = stringFieldsOf(r)
	}
	for _, f := range fields {
		s, ok := Text(r.Field(f))
		if ok && strings.Contains(strings.ToLower(s), lowerTerm) {
			return true
		}
	}
	return false
}

// Equals keeps records whose field equals value exactly. An empty value keeps everything.
func Equals[T Record](records []T, field, value string) []T {
	if value == "" {
		return slices.Clone(records)
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if s, ok := Text(r.Field(field)); ok && s == value {
			out = append(out, r)
		}
	}
	return out
}

// Distinct returns the sorted unique non-empty values of a field.
func Distinct[T Record](records []T, field string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		s, ok := Text(r.Field(field))
		if !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}
