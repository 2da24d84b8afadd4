// pkg/classify/classifier.go
package classify

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/tabkit/explorer/pkg/model"
)

// emailPattern matches the local@domain.tld shape. Intentionally loose:
// the goal is predominant-type detection, not address validation.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// booleanWords are the string values treated as boolean, case-insensitive.
// "1" and "0" are listed for completeness but in practice classify as
// number, which runs earlier in the heuristic chain.
var booleanWords = map[string]bool{
	"true": true, "false": true,
	"yes": true, "no": true,
	"1": true, "0": true,
}

// heuristicOrder is the declaration order of the per-value heuristics.
// Column-level ties break in this order.
var heuristicOrder = []model.ColumnType{
	model.TypeEmail,
	model.TypeURL,
	model.TypeNumber,
	model.TypeDate,
	model.TypeBoolean,
	model.TypeText,
}

// ClassifyValue assigns a semantic type to a single non-empty value.
// Heuristics run in order: email, URL, number, date, boolean, text.
func ClassifyValue(v interface{}) model.ColumnType {
	switch t := v.(type) {
	case bool:
		return model.TypeBoolean
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return model.TypeNumber
	case time.Time:
		return model.TypeDate
	case string:
		return classifyString(t)
	}
	return classifyString(model.ValueString(v))
}

func classifyString(s string) model.ColumnType {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return model.TypeText
	}

	if emailPattern.MatchString(trimmed) {
		return model.TypeEmail
	}

	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return model.TypeURL
	}

	if _, ok := ParseNumber(trimmed); ok {
		return model.TypeNumber
	}

	// The digit requirement keeps month names and other pure text from
	// being swallowed by the lenient date parser.
	if containsDigit(trimmed) {
		if _, err := dateparse.ParseAny(trimmed); err == nil {
			return model.TypeDate
		}
	}

	if booleanWords[lower] {
		return model.TypeBoolean
	}

	return model.TypeText
}

// ClassifyColumn returns the predominant type among a column's non-empty
// values: the most frequent per-value classification, ties broken by
// heuristic declaration order. A column with no non-empty values is text.
// Deterministic for a fixed value set.
func ClassifyColumn(values []interface{}) model.ColumnType {
	counts := make(map[model.ColumnType]int)
	for _, v := range values {
		if model.IsEmptyValue(v) {
			continue
		}
		counts[ClassifyValue(v)]++
	}

	best := model.TypeText
	bestCount := 0
	for _, t := range heuristicOrder {
		if counts[t] > bestCount {
			best = t
			bestCount = counts[t]
		}
	}
	return best
}

// ColumnValues extracts a column's values from a page of records
func ColumnValues(records []model.Record, column string) []interface{} {
	values := make([]interface{}, 0, len(records))
	for _, rec := range records {
		values = append(values, rec.Value(column))
	}
	return values
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
