// pkg/engine/sort_test.go
package engine

import (
	"testing"

	"github.com/tabkit/explorer/pkg/model"
)

func rec(id string, values map[string]interface{}) model.Record {
	return model.Record{ID: id, Values: values}
}

func idsOf(records []model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortNullsLast(t *testing.T) {
	records := []model.Record{
		rec("r1", map[string]interface{}{"a": nil}),
		rec("r2", map[string]interface{}{"a": 3}),
		rec("r3", map[string]interface{}{"a": 1}),
	}

	asc := SortRecords(records, model.SortSpec{Column: "a", Direction: model.SortAsc}, model.TypeNumber)
	if !equalIDs(idsOf(asc), []string{"r3", "r2", "r1"}) {
		t.Errorf("asc order = %v, want [r3 r2 r1]", idsOf(asc))
	}

	desc := SortRecords(records, model.SortSpec{Column: "a", Direction: model.SortDesc}, model.TypeNumber)
	if !equalIDs(idsOf(desc), []string{"r2", "r3", "r1"}) {
		t.Errorf("desc order = %v, want [r2 r3 r1] (nulls still last)", idsOf(desc))
	}
}

func TestSortNumericVsLexicographic(t *testing.T) {
	records := []model.Record{
		rec("r1", map[string]interface{}{"n": "10"}),
		rec("r2", map[string]interface{}{"n": "9"}),
		rec("r3", map[string]interface{}{"n": "100"}),
	}

	asNumber := SortRecords(records, model.SortSpec{Column: "n", Direction: model.SortAsc}, model.TypeNumber)
	if !equalIDs(idsOf(asNumber), []string{"r2", "r1", "r3"}) {
		t.Errorf("numeric order = %v, want [r2 r1 r3]", idsOf(asNumber))
	}

	asText := SortRecords(records, model.SortSpec{Column: "n", Direction: model.SortAsc}, model.TypeText)
	if !equalIDs(idsOf(asText), []string{"r1", "r3", "r2"}) {
		t.Errorf("text order = %v, want [r1 r3 r2]", idsOf(asText))
	}
}

func TestSortDates(t *testing.T) {
	records := []model.Record{
		rec("r1", map[string]interface{}{"d": "2024-03-01"}),
		rec("r2", map[string]interface{}{"d": "2023-12-31"}),
		rec("r3", map[string]interface{}{"d": "2024-01-15"}),
	}

	sorted := SortRecords(records, model.SortSpec{Column: "d", Direction: model.SortAsc}, model.TypeDate)
	if !equalIDs(idsOf(sorted), []string{"r2", "r3", "r1"}) {
		t.Errorf("date order = %v, want [r2 r3 r1]", idsOf(sorted))
	}
}

func TestSortIsStable(t *testing.T) {
	records := []model.Record{
		rec("r1", map[string]interface{}{"g": "b", "i": 1}),
		rec("r2", map[string]interface{}{"g": "a", "i": 2}),
		rec("r3", map[string]interface{}{"g": "a", "i": 3}),
		rec("r4", map[string]interface{}{"g": "b", "i": 4}),
	}

	sorted := SortRecords(records, model.SortSpec{Column: "g", Direction: model.SortAsc}, model.TypeText)
	if !equalIDs(idsOf(sorted), []string{"r2", "r3", "r1", "r4"}) {
		t.Errorf("order = %v, equal keys must keep input order", idsOf(sorted))
	}
}

func TestSortNoSpecKeepsOrder(t *testing.T) {
	records := []model.Record{
		rec("r1", map[string]interface{}{"a": "z"}),
		rec("r2", map[string]interface{}{"a": "a"}),
	}

	sorted := SortRecords(records, model.SortSpec{}, model.TypeText)
	if !equalIDs(idsOf(sorted), []string{"r1", "r2"}) {
		t.Errorf("no-sort order = %v, want input order", idsOf(sorted))
	}
}

func TestNextSortSpecTriState(t *testing.T) {
	s := NextSortSpec(model.SortSpec{}, "name")
	if s.Column != "name" || s.Direction != model.SortAsc {
		t.Fatalf("first click = %+v, want name asc", s)
	}

	s = NextSortSpec(s, "name")
	if s.Column != "name" || s.Direction != model.SortDesc {
		t.Fatalf("second click = %+v, want name desc", s)
	}

	s = NextSortSpec(s, "name")
	if s.Active() {
		t.Fatalf("third click = %+v, want cleared", s)
	}

	// Clicking a different column always starts ascending
	s = NextSortSpec(model.SortSpec{Column: "name", Direction: model.SortDesc}, "age")
	if s.Column != "age" || s.Direction != model.SortAsc {
		t.Fatalf("new column click = %+v, want age asc", s)
	}
}
