// pkg/engine/layout_test.go
package engine

import "testing"

var headers = []string{"id", "name", "email", "city"}

func TestLayoutDefaultsToDeclaredOrder(t *testing.T) {
	l := NewLayout()
	got := l.VisibleColumns(headers)
	if !equalIDs(got, headers) {
		t.Errorf("visible = %v, want declared order", got)
	}
}

func TestLayoutHiddenToggleIdempotent(t *testing.T) {
	l := NewLayout()
	l.ToggleHidden("email")

	got := l.VisibleColumns(headers)
	if !equalIDs(got, []string{"id", "name", "city"}) {
		t.Errorf("visible with email hidden = %v", got)
	}

	l.ToggleHidden("email")
	got = l.VisibleColumns(headers)
	if !equalIDs(got, headers) {
		t.Errorf("double toggle changed order: %v", got)
	}
}

func TestLayoutPinOrder(t *testing.T) {
	l := NewLayout()
	l.TogglePinned("city")
	l.TogglePinned("name")

	got := l.VisibleColumns(headers)
	// Pinned first in pin order, then the rest in original order
	if !equalIDs(got, []string{"city", "name", "id", "email"}) {
		t.Errorf("visible = %v, want [city name id email]", got)
	}
}

func TestLayoutHiddenBeatsPinned(t *testing.T) {
	l := NewLayout()
	l.TogglePinned("name")
	l.ToggleHidden("name")

	got := l.VisibleColumns(headers)
	if !equalIDs(got, []string{"id", "email", "city"}) {
		t.Errorf("visible = %v, hidden must win over pinned", got)
	}

	// Unhiding restores the pin position
	l.ToggleHidden("name")
	got = l.VisibleColumns(headers)
	if !equalIDs(got, []string{"name", "id", "email", "city"}) {
		t.Errorf("visible after unhide = %v", got)
	}
}

func TestLayoutUnpinRestoresOriginalPosition(t *testing.T) {
	l := NewLayout()
	l.TogglePinned("city")
	l.TogglePinned("city")

	got := l.VisibleColumns(headers)
	if !equalIDs(got, headers) {
		t.Errorf("visible after unpin = %v, want declared order", got)
	}
}

func TestLayoutIgnoresUndeclaredPins(t *testing.T) {
	l := NewLayout()
	l.TogglePinned("ghost")

	got := l.VisibleColumns(headers)
	if !equalIDs(got, headers) {
		t.Errorf("visible = %v, undeclared pin must not appear", got)
	}
}
