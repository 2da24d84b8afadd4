// pkg/model/stats.go
package model

// ColumnType is the predominant semantic type detected for a column
type ColumnType string

const (
	TypeText    ColumnType = "text"
	TypeNumber  ColumnType = "number"
	TypeDate    ColumnType = "date"
	TypeBoolean ColumnType = "boolean"
	TypeEmail   ColumnType = "email"
	TypeURL     ColumnType = "url"
)

// NumericStats summarizes the parseable numeric values of a number column
type NumericStats struct {
	Min float64
	Max float64
	Avg float64
}

// ColumnStats is the per-column derived summary for the loaded page.
// Recomputed whenever the page changes; never persisted.
// Invariant: NonEmptyCount + NullCount == page size.
type ColumnStats struct {
	Type          ColumnType
	NonEmptyCount int
	UniqueCount   int
	NullCount     int
	QualityScore  int // 0-100, advisory only
	Numeric       *NumericStats
}
