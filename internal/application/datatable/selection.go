package datatable

import "sort"

// Selection is the set of row ids picked for a bulk action.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection starts a selection holding ids.
func NewSelection(ids ...string) *Selection {
	s := &Selection{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

// Toggle adds id if absent, removes it otherwise.
func (s *Selection) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// ToggleAll selects every id in visible, or clears the selection when all of them are already selected.
// POST: Either every visible id is selected or the selection is empty
func (s *Selection) ToggleAll(visible []string) {
	if len(visible) > 0 && s.AllSelected(visible) {
		s.Clear()
		return
	}
	for _, id := range visible {
		s.ids[id] = struct{}{}
	}
}

// AllSelected reports whether every id in visible is selected.
func (s *Selection) AllSelected(visible []string) bool {
	if len(visible) == 0 {
		return false
	}
	for _, id := range visible {
		if _, ok := s.ids[id]; !ok {
			return false
		}
	}
	return true
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.ids)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

// IDs returns the selected ids sorted.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
