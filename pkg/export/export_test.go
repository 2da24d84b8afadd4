// pkg/export/export_test.go
package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/tabkit/explorer/pkg/model"
)

func row(id string, values map[string]interface{}) model.Record {
	return model.Record{ID: id, Values: values}
}

func TestCSVEscapesQuotesAndCommas(t *testing.T) {
	rows := []model.Record{
		row("r1", map[string]interface{}{
			"quote": `He said, "hi"`,
			"plain": "ok",
		}),
	}

	out, err := CSV([]string{"quote", "plain"}, rows)
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header + 1 row:\n%s", len(lines), out)
	}
	if lines[0] != "quote,plain" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != `"He said, ""hi""",ok` {
		t.Errorf("row = %q, want quoted field with doubled quotes", lines[1])
	}
}

func TestCSVColumnOrderAndMissingCells(t *testing.T) {
	rows := []model.Record{
		row("r1", map[string]interface{}{"b": "2"}),
	}

	out, err := CSV([]string{"a", "b"}, rows)
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[1] != ",2" {
		t.Errorf("row = %q, missing cell must serialize empty", lines[1])
	}
}

func TestJSONRestrictsToColumns(t *testing.T) {
	rows := []model.Record{
		row("r1", map[string]interface{}{"name": "Alice", "secret": "hidden"}),
	}

	out, err := JSON([]string{"name"}, rows)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("objects = %d, want 1", len(decoded))
	}
	if decoded[0]["name"] != "Alice" {
		t.Errorf("name = %v", decoded[0]["name"])
	}
	if _, ok := decoded[0]["secret"]; ok {
		t.Error("excluded column leaked into JSON export")
	}
}

func TestJSONEmptyRows(t *testing.T) {
	out, err := JSON([]string{"a"}, nil)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("empty export = %q, want empty array", out)
	}
}

func TestPrintHTMLEscapesAndTruncates(t *testing.T) {
	rows := []model.Record{
		row("r1", map[string]interface{}{"name": "<script>alert(1)</script>"}),
		row("r2", map[string]interface{}{"name": "two"}),
		row("r3", map[string]interface{}{"name": "three"}),
	}

	out := PrintHTML("People & Places", []string{"name"}, rows, 2)

	if strings.Contains(out, "<script>") {
		t.Error("cell text must be escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("escaped cell missing:\n%s", out)
	}
	if !strings.Contains(out, "People &amp; Places") {
		t.Errorf("escaped title missing:\n%s", out)
	}
	if !strings.Contains(out, "Showing first 2 of 3 rows.") {
		t.Errorf("truncation notice missing:\n%s", out)
	}
	if strings.Contains(out, "three") {
		t.Errorf("row past the limit rendered:\n%s", out)
	}
}

func TestPrintHTMLNoNoticeWhenWithinLimit(t *testing.T) {
	rows := []model.Record{
		row("r1", map[string]interface{}{"name": "one"}),
	}

	out := PrintHTML("", []string{"name"}, rows, 10)
	if strings.Contains(out, "Showing first") {
		t.Errorf("unexpected truncation notice:\n%s", out)
	}
	if strings.Contains(out, "<h2>") {
		t.Errorf("empty title must not render a heading:\n%s", out)
	}
}
