// pkg/engine/layout.go
package engine

// Layout tracks per-column hidden and pinned state. The two are
// independent: a column can be both hidden and pinned, with hidden taking
// precedence in the visible list. Layout is orthogonal to selection,
// sorting, and filtering.
type Layout struct {
	hidden map[string]bool
	pinned []string // order-significant: first pinned renders first
}

// NewLayout creates an empty layout
func NewLayout() *Layout {
	return &Layout{hidden: make(map[string]bool)}
}

// ToggleHidden flips a column's hidden state. Toggling twice restores the
// original state exactly.
func (l *Layout) ToggleHidden(column string) {
	if l.hidden[column] {
		delete(l.hidden, column)
	} else {
		l.hidden[column] = true
	}
}

// IsHidden reports whether a column is hidden
func (l *Layout) IsHidden(column string) bool {
	return l.hidden[column]
}

// HiddenColumns returns the hidden columns in no particular order
func (l *Layout) HiddenColumns() []string {
	out := make([]string, 0, len(l.hidden))
	for column := range l.hidden {
		out = append(out, column)
	}
	return out
}

// SetHidden replaces the hidden set, used when loading a saved view
func (l *Layout) SetHidden(columns []string) {
	l.hidden = make(map[string]bool, len(columns))
	for _, column := range columns {
		l.hidden[column] = true
	}
}

// TogglePinned flips a column's pinned state, preserving first-pinned-first
// order for the remaining pins
func (l *Layout) TogglePinned(column string) {
	for i, pinned := range l.pinned {
		if pinned == column {
			l.pinned = append(l.pinned[:i], l.pinned[i+1:]...)
			return
		}
	}
	l.pinned = append(l.pinned, column)
}

// IsPinned reports whether a column is pinned
func (l *Layout) IsPinned(column string) bool {
	for _, pinned := range l.pinned {
		if pinned == column {
			return true
		}
	}
	return false
}

// VisibleColumns returns the final render order: visible pinned columns in
// the order they were pinned, then the remaining visible columns in
// original header order.
func (l *Layout) VisibleColumns(headers []string) []string {
	declared := make(map[string]bool, len(headers))
	for _, h := range headers {
		declared[h] = true
	}

	out := make([]string, 0, len(headers))
	for _, column := range l.pinned {
		if declared[column] && !l.hidden[column] {
			out = append(out, column)
		}
	}
	for _, column := range headers {
		if !l.hidden[column] && !l.IsPinned(column) {
			out = append(out, column)
		}
	}
	return out
}
