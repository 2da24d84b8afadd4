// pkg/engine/selection.go
package engine

import "sort"

// Selection tracks selected record identifiers. Ids persist across page
// changes, but bulk operations only act on records that are actually
// loaded.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection creates an empty selection
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle adds or removes a single record id
func (s *Selection) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

// IsSelected reports whether a record id is selected
func (s *Selection) IsSelected(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Count returns the number of selected ids
func (s *Selection) Count() int {
	return len(s.ids)
}

// IDs returns the selected ids in sorted order
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clear removes every selected id
func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

// ToggleAll implements page-scoped select-all: if every id on the current
// page is already selected the entire selection is cleared, otherwise all
// page ids are added.
func (s *Selection) ToggleAll(pageIDs []string) {
	if len(pageIDs) > 0 && s.allSelected(pageIDs) {
		s.Clear()
		return
	}
	for _, id := range pageIDs {
		s.ids[id] = struct{}{}
	}
}

func (s *Selection) allSelected(pageIDs []string) bool {
	for _, id := range pageIDs {
		if _, ok := s.ids[id]; !ok {
			return false
		}
	}
	return true
}
