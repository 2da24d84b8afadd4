// pkg/stats/stats.go
package stats

import (
	"math"

	"go.uber.org/zap"

	"github.com/tabkit/explorer/pkg/classify"
	"github.com/tabkit/explorer/pkg/model"
)

// Quality score weights: completeness carries the most, uniqueness and
// type consistency split the rest.
const (
	completenessWeight = 40.0
	uniquenessWeight   = 30.0
	consistencyWeight  = 30.0
)

// Engine computes per-column summaries over the currently loaded page.
// Results are derived state only and are thrown away on every page change.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a statistics engine
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Compute classifies every column and derives its statistics for the page
func (e *Engine) Compute(records []model.Record, headers []string) map[string]model.ColumnStats {
	out := make(map[string]model.ColumnStats, len(headers))
	for _, column := range headers {
		out[column] = e.computeColumn(records, column)
	}
	return out
}

func (e *Engine) computeColumn(records []model.Record, column string) model.ColumnStats {
	values := classify.ColumnValues(records, column)
	colType := classify.ClassifyColumn(values)

	pageSize := len(records)
	nonEmpty := 0
	matching := 0
	distinct := make(map[string]struct{})

	for _, v := range values {
		if model.IsEmptyValue(v) {
			continue
		}
		nonEmpty++
		distinct[model.ValueString(v)] = struct{}{}
		if classify.ClassifyValue(v) == colType {
			matching++
		}
	}

	cs := model.ColumnStats{
		Type:          colType,
		NonEmptyCount: nonEmpty,
		UniqueCount:   len(distinct),
		NullCount:     pageSize - nonEmpty,
		QualityScore:  qualityScore(pageSize, nonEmpty, len(distinct), matching),
	}

	if colType == model.TypeNumber {
		cs.Numeric = numericSummary(values)
	}

	return cs
}

// qualityScore is the weighted composite of completeness, uniqueness, and
// type consistency, rounded to an integer in [0, 100]. The max(nonEmpty, 1)
// guards keep an all-empty column at score 0 instead of dividing by zero.
func qualityScore(pageSize, nonEmpty, unique, matching int) int {
	if pageSize == 0 {
		return 0
	}

	completeness := float64(nonEmpty) / float64(pageSize) * completenessWeight
	uniqueness := float64(unique) / float64(maxInt(nonEmpty, 1)) * uniquenessWeight
	consistency := float64(matching) / float64(maxInt(nonEmpty, 1)) * consistencyWeight

	score := int(math.Round(completeness + uniqueness + consistency))
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}
	return score
}

// numericSummary computes min/max/mean over the parseable values of a
// number column. Values that fail to parse are excluded from the summary
// rather than failing the whole column.
func numericSummary(values []interface{}) *model.NumericStats {
	var parsed []float64
	for _, v := range values {
		if model.IsEmptyValue(v) {
			continue
		}
		if f, ok := classify.ParseNumber(v); ok {
			parsed = append(parsed, f)
		}
	}
	if len(parsed) == 0 {
		return nil
	}

	ns := &model.NumericStats{Min: parsed[0], Max: parsed[0]}
	sum := 0.0
	for _, f := range parsed {
		if f < ns.Min {
			ns.Min = f
		}
		if f > ns.Max {
			ns.Max = f
		}
		sum += f
	}
	ns.Avg = sum / float64(len(parsed))
	return ns
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
