// pkg/engine/selection_test.go
package engine

import "testing"

func TestSelectionToggle(t *testing.T) {
	s := NewSelection()
	s.Toggle("r1")
	if !s.IsSelected("r1") || s.Count() != 1 {
		t.Fatal("toggle should select r1")
	}
	s.Toggle("r1")
	if s.IsSelected("r1") || s.Count() != 0 {
		t.Fatal("second toggle should deselect r1")
	}
}

func TestSelectionToggleAllPageScoped(t *testing.T) {
	s := NewSelection()
	pageIDs := []string{"r1", "r2", "r3"}

	s.ToggleAll(pageIDs)
	if s.Count() != 3 {
		t.Fatalf("count = %d, want 3", s.Count())
	}

	// Selection from another page survives a page-level select-all
	s.Toggle("other-page-row")
	if s.Count() != 4 {
		t.Fatalf("count = %d, want 4", s.Count())
	}

	// All page ids selected: second select-all clears everything
	s.ToggleAll(pageIDs)
	if s.Count() != 0 {
		t.Fatalf("count after clearing select-all = %d, want 0", s.Count())
	}
}

func TestSelectionToggleAllPartialSelectsRest(t *testing.T) {
	s := NewSelection()
	s.Toggle("r2")

	s.ToggleAll([]string{"r1", "r2", "r3"})
	if s.Count() != 3 {
		t.Fatalf("count = %d, want all three page rows selected", s.Count())
	}
}

func TestSelectionIDsSorted(t *testing.T) {
	s := NewSelection()
	s.Toggle("z")
	s.Toggle("a")
	s.Toggle("m")

	ids := s.IDs()
	if !equalIDs(ids, []string{"a", "m", "z"}) {
		t.Errorf("IDs() = %v, want sorted", ids)
	}
}
