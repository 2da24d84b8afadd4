// pkg/engine/sort.go
package engine

import (
	"sort"
	"strings"

	"github.com/tabkit/explorer/pkg/classify"
	"github.com/tabkit/explorer/pkg/model"
)

// SortRecords returns a stably sorted copy of the loaded page. Sorting is
// client-side over the page only; the backing store does not sort.
// Null/empty values order strictly after every present value for both
// directions, so they always land at the bottom.
func SortRecords(records []model.Record, spec model.SortSpec, colType model.ColumnType) []model.Record {
	out := make([]model.Record, len(records))
	copy(out, records)
	if !spec.Active() {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a := out[i].Value(spec.Column)
		b := out[j].Value(spec.Column)

		aEmpty := model.IsEmptyValue(a)
		bEmpty := model.IsEmptyValue(b)
		if aEmpty || bEmpty {
			// Present values always precede absent ones, regardless of
			// direction.
			return !aEmpty && bEmpty
		}

		cmp := compareValues(a, b, colType)
		if spec.Direction == model.SortDesc {
			cmp = -cmp
		}
		return cmp < 0
	})

	return out
}

// compareValues orders two present values using the column's detected
// type: numeric difference for numbers, timestamp difference for dates,
// case-insensitive lexicographic order for everything else. Values that
// fail to parse as their column's type fall back to string comparison.
func compareValues(a, b interface{}, colType model.ColumnType) int {
	switch colType {
	case model.TypeNumber:
		af, aok := classify.ParseNumber(a)
		bf, bok := classify.ParseNumber(b)
		if aok && bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	case model.TypeDate:
		at, aok := classify.ParseTime(a)
		bt, bok := classify.ParseTime(b)
		if aok && bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			}
			return 0
		}
	}

	as := model.ValueString(a)
	bs := model.ValueString(b)
	if cmp := strings.Compare(strings.ToLower(as), strings.ToLower(bs)); cmp != 0 {
		return cmp
	}
	return strings.Compare(as, bs)
}

// NextSortSpec implements the tri-state header click cycle: a click on a
// new column starts ascending, a second click flips to descending, a third
// clears the sort.
func NextSortSpec(current model.SortSpec, column string) model.SortSpec {
	if current.Column != column {
		return model.SortSpec{Column: column, Direction: model.SortAsc}
	}
	if current.Direction == model.SortAsc {
		return model.SortSpec{Column: column, Direction: model.SortDesc}
	}
	return model.SortSpec{}
}
