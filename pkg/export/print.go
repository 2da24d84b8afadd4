// pkg/export/print.go
package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/tabkit/explorer/pkg/model"
)

// PrintHTML renders an HTML table fragment of at most limit rows for
// printing, with a truncation notice when more rows exist. All cell text
// is escaped.
func PrintHTML(title string, columns []string, rows []model.Record, limit int) string {
	if limit <= 0 {
		limit = 100
	}

	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "<h2>%s</h2>\n", html.EscapeString(title))
	}

	sb.WriteString("<table>\n<thead>\n<tr>")
	for _, column := range columns {
		fmt.Fprintf(&sb, "<th>%s</th>", html.EscapeString(column))
	}
	sb.WriteString("</tr>\n</thead>\n<tbody>\n")

	shown := rows
	if len(shown) > limit {
		shown = shown[:limit]
	}
	for _, rec := range shown {
		sb.WriteString("<tr>")
		for _, column := range columns {
			fmt.Fprintf(&sb, "<td>%s</td>",
				html.EscapeString(model.ValueString(rec.Value(column))))
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</tbody>\n</table>\n")

	if len(rows) > limit {
		fmt.Fprintf(&sb, "<p>Showing first %d of %d rows.</p>\n", limit, len(rows))
	}

	return sb.String()
}
