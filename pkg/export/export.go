// pkg/export/export.go
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tabkit/explorer/pkg/model"
)

// CSV serializes rows restricted to the given columns, in column order,
// with a header line. Standard CSV escaping: fields containing commas or
// quotes are wrapped in double quotes with internal quotes doubled.
func CSV(columns []string, rows []model.Record) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(columns); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	line := make([]string, len(columns))
	for _, rec := range rows {
		for i, column := range columns {
			line[i] = model.ValueString(rec.Value(column))
		}
		if err := w.Write(line); err != nil {
			return "", fmt.Errorf("failed to write CSV row %d: %w", rec.RowNum, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return sb.String(), nil
}

// JSON serializes rows as an array of objects restricted to the given
// columns. Values keep their scalar types; absent cells serialize as null.
func JSON(columns []string, rows []model.Record) (string, error) {
	out := make([]map[string]interface{}, 0, len(rows))
	for _, rec := range rows {
		obj := make(map[string]interface{}, len(columns))
		for _, column := range columns {
			obj[column] = rec.Value(column)
		}
		out = append(out, obj)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON export: %w", err)
	}
	return string(data), nil
}
