package listing

import (
	"fmt"
	"slices"
	"strings"
)

const (
	minProbability = 0
	maxProbability = 100
)

// AdvancedFilter narrows a deal list. Values inside one criterion are OR-ed,
// criteria are AND-ed. Empty criteria do not filter.
type AdvancedFilter struct {
	Stages           []string `json:"stages"`
	Regions          []string `json:"regions"`
	LeadOwners       []string `json:"leadOwners"`
	Priorities       []string `json:"priorities"`
	SearchTerm       string   `json:"searchTerm"`
	ProbabilityRange [2]int   `json:"probabilityRange"`

	rangeSet bool
}

// ActiveFilter is one chip in the active-filters bar.
type ActiveFilter struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Value string `json:"value"`
}

func NewAdvancedFilter() AdvancedFilter {
	return AdvancedFilter{ProbabilityRange: [2]int{minProbability, maxProbability}}
}

// WithProbability sets the inclusive probability range. Bounds are clamped to 0..100.
func (f AdvancedFilter) WithProbability(lo, hi int) AdvancedFilter {
	f.ProbabilityRange = [2]int{max(lo, minProbability), min(hi, maxProbability)}
	f.rangeSet = true
	return f
}

// rangeNarrowed is false for the zero value: a range only filters once set.
func (f AdvancedFilter) rangeNarrowed() bool {
	if !f.rangeSet {
		return false
	}
	lo, hi := f.ProbabilityRange[0], f.ProbabilityRange[1]
	return lo > minProbability || hi < maxProbability
}

// Apply runs the filter over records using the deal field keys.
func Apply[T Record](records []T, f AdvancedFilter) []T {
	out := slices.Clone(records)
	out = in(out, "stage", f.Stages)
	out = in(out, "region", f.Regions)
	out = in(out, "lead_owner", f.LeadOwners)
	out = in(out, "priority", f.Priorities)
	if f.rangeNarrowed() {
		lo, hi := f.ProbabilityRange[0], f.ProbabilityRange[1]
		out = slices.DeleteFunc(out, func(r T) bool {
			p, ok := r.Field("probability").(int)
			return !ok || p < lo || p > hi
		})
	}
	if term := strings.ToLower(strings.TrimSpace(f.SearchTerm)); term != "" {
		out = slices.DeleteFunc(out, func(r T) bool {
			return !matchesAnyString(r, term)
		})
	}
	return out
}

func in[T Record](records []T, field string, values []string) []T {
	if len(values) == 0 {
		return records
	}
	return slices.DeleteFunc(records, func(r T) bool {
		s, ok := Text(r.Field(field))
		return !ok || !slices.Contains(values, s)
	})
}

// matchesAnyString checks every string-typed field of the record.
func matchesAnyString(r Record, term string) bool {
	for _, key := range stringFieldsOf(r) {
		if s, ok := r.Field(key).(string); ok && strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

// fieldLister is implemented by records that can enumerate their keys.
type fieldLister interface {
	FieldKeys() []string
}

// stringFieldsOf lists the keys whose value is text. Numbers, money and
// timestamps are left out so a term like "2025" does not hit every created_at.
func stringFieldsOf(r Record) []string {
	fl, ok := r.(fieldLister)
	if !ok {
		return []string{"id"}
	}
	var out []string
	for _, key := range fl.FieldKeys() {
		if _, isText := r.Field(key).(string); isText {
			out = append(out, key)
		}
	}
	return out
}

// Active lists the criteria currently narrowing the result.
func (f AdvancedFilter) Active() []ActiveFilter {
	var out []ActiveFilter
	if len(f.Stages) > 0 {
		out = append(out, ActiveFilter{Field: "stages", Label: "Stages", Value: strings.Join(f.Stages, ", ")})
	}
	if len(f.Regions) > 0 {
		out = append(out, ActiveFilter{Field: "regions", Label: "Regions", Value: strings.Join(f.Regions, ", ")})
	}
	if len(f.LeadOwners) > 0 {
		out = append(out, ActiveFilter{Field: "leadOwners", Label: "Lead Owners", Value: strings.Join(f.LeadOwners, ", ")})
	}
	if len(f.Priorities) > 0 {
		out = append(out, ActiveFilter{Field: "priorities", Label: "Priorities", Value: strings.Join(f.Priorities, ", ")})
	}
	if f.rangeNarrowed() {
		out = append(out, ActiveFilter{
			Field: "probabilityRange",
			Label: "Probability",
			Value: fmt.Sprintf("%d%% - %d%%", f.ProbabilityRange[0], f.ProbabilityRange[1]),
		})
	}
	if f.SearchTerm != "" {
		out = append(out, ActiveFilter{Field: "searchTerm", Label: "Search", Value: f.SearchTerm})
	}
	return out
}

// Remove clears a single criterion by its ActiveFilter field name.
func (f AdvancedFilter) Remove(field string) AdvancedFilter {
	switch field {
	case "stages":
		f.Stages = nil
	case "regions":
		f.Regions = nil
	case "leadOwners":
		f.LeadOwners = nil
	case "priorities":
		f.Priorities = nil
	case "searchTerm":
		f.SearchTerm = ""
	case "probabilityRange":
		f.ProbabilityRange = [2]int{minProbability, maxProbability}
		f.rangeSet = false
	}
	return f
}
