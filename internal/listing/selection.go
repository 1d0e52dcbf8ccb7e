package listing

import "slices"

// Selection is an insertion-ordered set of record ids.
type Selection struct {
	order []string
	set   map[string]struct{}
}

func NewSelection(ids ...string) *Selection {
	s := &Selection{set: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Select(id)
	}
	return s
}

func (s *Selection) Select(id string) {
	if id == "" {
		return
	}
	if _, ok := s.set[id]; ok {
		return
	}
	s.set[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *Selection) Deselect(id string) {
	if _, ok := s.set[id]; !ok {
		return
	}
	delete(s.set, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
}

// Toggle flips id and reports whether it is selected afterwards.
func (s *Selection) Toggle(id string) bool {
	if s.Contains(id) {
		s.Deselect(id)
		return false
	}
	s.Select(id)
	return s.Contains(id)
}

// SelectAll replaces the selection with ids.
func (s *Selection) SelectAll(ids []string) {
	s.Clear()
	for _, id := range ids {
		s.Select(id)
	}
}

func (s *Selection) Clear() {
	s.order = nil
	s.set = make(map[string]struct{})
}

func (s *Selection) Contains(id string) bool {
	_, ok := s.set[id]
	return ok
}

func (s *Selection) Len() int {
	return len(s.order)
}

func (s *Selection) IDs() []string {
	return slices.Clone(s.order)
}

// AllSelected is the header checkbox state: true only when visible is non-empty and fully selected.
func (s *Selection) AllSelected(visible []string) bool {
	if len(visible) == 0 {
		return false
	}
	for _, id := range visible {
		if !s.Contains(id) {
			return false
		}
	}
	return true
}

// Pick returns the records whose ids are selected, in the records' order.
func Pick[T Record](records []T, s *Selection) []T {
	out := make([]T, 0, s.Len())
	for _, r := range records {
		if s.Contains(r.RecordID()) {
			out = append(out, r)
		}
	}
	return out
}

// IDs collects record ids in order.
func IDs[T Record](records []T) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.RecordID()
	}
	return out
}
