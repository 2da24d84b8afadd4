// pkg/query/negotiator.go
package query

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tabkit/explorer/pkg/model"
)

// Diagnostic records a filter clause the backing store could not execute.
// Dropped clauses are not errors: the filter stays visible to the caller
// but has no effect on server-side results.
type Diagnostic struct {
	Column   string
	Operator model.Operator
	Reason   string
}

// String formats the diagnostic for display
func (d Diagnostic) String() string {
	return fmt.Sprintf("filter on %q dropped: %s", d.Column, d.Reason)
}

// Negotiator merges the three filter inputs (free-text search, basic
// per-column filters, advanced filter clauses) into a single outbound
// query the backing store can execute. The store supports only
// case-insensitive substring matching per column plus a global search
// term, so equals/starts_with/ends_with degrade to substring patterns and
// range/emptiness operators are dropped with a diagnostic.
type Negotiator struct {
	logger *zap.Logger
}

// NewNegotiator creates a filter negotiator
func NewNegotiator(logger *zap.Logger) *Negotiator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Negotiator{logger: logger.Named("negotiator")}
}

// Negotiate builds the outbound FetchQuery. Filters combine with AND
// semantics on the store side. When a basic filter and a translatable
// advanced filter target the same column, the advanced pattern wins
// (the query has one pattern slot per column).
func (n *Negotiator) Negotiate(
	search string,
	basic map[string]string,
	advanced []model.AdvancedFilter,
	limit, offset int,
) (model.FetchQuery, []Diagnostic) {
	q := model.FetchQuery{
		Search:  strings.TrimSpace(search),
		Filters: make(map[string]string),
		Limit:   limit,
		Offset:  offset,
	}

	for column, pattern := range basic {
		if pattern == "" {
			continue
		}
		q.Filters[column] = pattern
	}

	var diags []Diagnostic
	for _, af := range advanced {
		if af.Column == "" {
			continue
		}
		if !af.Operator.Translatable() {
			diag := Diagnostic{
				Column:   af.Column,
				Operator: af.Operator,
				Reason:   fmt.Sprintf("operator %q is not supported by the backing store (substring matching only)", af.Operator),
			}
			diags = append(diags, diag)
			n.logger.Warn("Dropping untranslatable filter clause",
				zap.String("column", af.Column),
				zap.String("operator", string(af.Operator)))
			continue
		}
		if af.Value == "" {
			continue
		}
		if af.Operator != model.OpContains {
			// equals/starts_with/ends_with cannot be enforced without the
			// full dataset in memory; degrade to substring and say so.
			n.logger.Debug("Degrading filter operator to substring match",
				zap.String("column", af.Column),
				zap.String("operator", string(af.Operator)))
		}
		q.Filters[af.Column] = af.Value
	}

	return q, diags
}
