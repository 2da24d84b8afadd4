// pkg/model/dataset.go
package model

import (
	"fmt"
	"strings"
	"time"
)

// Dataset describes a server-stored tabular dataset. The store owns the
// authoritative copy; the engine holds a read-only reference plus one
// loaded page of records.
type Dataset struct {
	ID         string    // Store-assigned identifier
	Name       string    // Display name
	Columns    []string  // Declared column headers, in order (may be empty)
	TotalCount int       // Server-authoritative row count
	FileName   string    // Original upload file name, if any
	FileType   string    // Original upload file type, if any
	CreatedAt  time.Time // Upload/creation timestamp
}

// HasColumn reports whether the dataset declares a column (case-insensitive)
func (d *Dataset) HasColumn(name string) bool {
	for _, col := range d.Columns {
		if strings.EqualFold(col, name) {
			return true
		}
	}
	return false
}

// Record is a single dataset row: a stable identifier, a 1-based row number
// assigned by the store, and the column name -> scalar value mapping.
type Record struct {
	ID     string
	RowNum int
	Values map[string]interface{}
}

// Value returns the record's value for a column, or nil if absent
func (r Record) Value(column string) interface{} {
	if r.Values == nil {
		return nil
	}
	return r.Values[column]
}

// IsEmptyValue reports whether a cell value counts as empty for
// classification, statistics, and sorting (nil or empty string)
func IsEmptyValue(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

// ValueString renders a cell value as a string for comparison and export.
// Nil becomes the empty string.
func ValueString(v interface{}) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339)
	}
	return fmt.Sprintf("%v", v)
}
