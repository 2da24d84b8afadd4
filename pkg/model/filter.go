// pkg/model/filter.go
package model

import (
	"fmt"
	"sort"
	"strings"
)

// Operator identifies an advanced filter comparison
type Operator string

const (
	OpContains   Operator = "contains"
	OpEquals     Operator = "equals"
	OpStartsWith Operator = "starts_with"
	OpEndsWith   Operator = "ends_with"
	OpGreater    Operator = "greater_than"
	OpLess       Operator = "less_than"
	OpBetween    Operator = "between"
	OpIsEmpty    Operator = "is_empty"
	OpIsNotEmpty Operator = "is_not_empty"
)

// Translatable reports whether the operator can be expressed against a
// substring-only backing store. The four text operators all degrade to a
// "contains" pattern; range and emptiness operators cannot be expressed
// at all and are dropped during negotiation.
func (op Operator) Translatable() bool {
	switch op {
	case OpContains, OpEquals, OpStartsWith, OpEndsWith:
		return true
	}
	return false
}

// AdvancedFilter is a single structured filter clause
type AdvancedFilter struct {
	Column   string   `json:"column"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
	Value2   string   `json:"value2,omitempty"` // Upper bound for between
}

// SortDirection is the direction of the active sort
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec is the single active sort. The zero value means no sort.
type SortSpec struct {
	Column    string        `json:"column"`
	Direction SortDirection `json:"direction"`
}

// Active reports whether a sort is in effect
func (s SortSpec) Active() bool {
	return s.Column != ""
}

// FetchQuery is the outbound paged query sent to the backing store.
// Filters hold the per-column substring patterns the store can execute;
// untranslatable clauses never appear here.
type FetchQuery struct {
	Search  string
	Filters map[string]string
	Limit   int
	Offset  int
}

// Key returns a canonical identity for the query, used to match an
// in-flight fetch against the state that initiated it. Filter columns are
// ordered so two equivalent queries always produce the same key.
func (q FetchQuery) Key() string {
	cols := make([]string, 0, len(q.Filters))
	for col := range q.Filters {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var sb strings.Builder
	fmt.Fprintf(&sb, "search=%q;limit=%d;offset=%d", q.Search, q.Limit, q.Offset)
	for _, col := range cols {
		fmt.Fprintf(&sb, ";filter_%s=%q", col, q.Filters[col])
	}
	return sb.String()
}
