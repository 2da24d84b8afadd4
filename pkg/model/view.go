// pkg/model/view.go
package model

import "time"

// ViewState is the snapshot of filter/sort/layout state a saved view
// captures. Plain data only, so views stay trivially serializable.
type ViewState struct {
	Filters       map[string]string `json:"filters"`
	Advanced      []AdvancedFilter  `json:"advancedFilters"`
	Search        string            `json:"search"`
	Sort          SortSpec          `json:"sort"`
	HiddenColumns []string          `json:"hiddenColumns"`
	RowsPerPage   int               `json:"rowsPerPage"`
}

// Clone returns a deep copy so loading a view never aliases live state
func (s ViewState) Clone() ViewState {
	out := s
	out.Filters = make(map[string]string, len(s.Filters))
	for col, pattern := range s.Filters {
		out.Filters[col] = pattern
	}
	out.Advanced = make([]AdvancedFilter, len(s.Advanced))
	copy(out.Advanced, s.Advanced)
	out.HiddenColumns = make([]string, len(s.HiddenColumns))
	copy(out.HiddenColumns, s.HiddenColumns)
	return out
}

// SavedView is a named, reloadable snapshot. Created only by explicit user
// action and deleted only by explicit user action; lifetime is local to the
// session unless persisted externally.
type SavedView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	State     ViewState `json:"state"`
}
