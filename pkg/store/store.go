// pkg/store/store.go
package store

import (
	"context"
	"sort"
	"strings"

	"github.com/tabkit/explorer/pkg/model"
)

// PageResult is one fetched slice of a dataset plus the authoritative
// total for the filtered result set
type PageResult struct {
	Records    []model.Record
	TotalCount int
}

// PageFetcher is the engine's view of the backing store. The store's
// query capability is deliberately narrow: case-insensitive substring
// matching per column plus a global free-text term. No sort parameters
// and no range or emptiness operators are accepted.
type PageFetcher interface {
	// FetchPage executes the negotiated query against one dataset
	FetchPage(ctx context.Context, datasetID string, q model.FetchQuery) (*PageResult, error)

	// Metadata returns the dataset's descriptor, including its declared
	// column headers and total row count
	Metadata(ctx context.Context, datasetID string) (*model.Dataset, error)
}

// escapeLike escapes LIKE wildcards in a user pattern so substring
// matching stays literal. Both reference stores use backslash as the
// escape character.
func escapeLike(pattern string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(pattern)
}

// sortedFilterColumns orders filter columns so generated SQL and bound
// arguments are deterministic for a given query
func sortedFilterColumns(filters map[string]string) []string {
	cols := make([]string, 0, len(filters))
	for col := range filters {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}
