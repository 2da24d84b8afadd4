// pkg/classify/classifier_test.go
package classify

import (
	"testing"

	"github.com/tabkit/explorer/pkg/model"
)

func TestClassifyValue(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  model.ColumnType
	}{
		{"email", "a@b.com", model.TypeEmail},
		{"email with subdomain", "user@mail.example.org", model.TypeEmail},
		{"http url", "http://example.com/path", model.TypeURL},
		{"https url", "https://example.com", model.TypeURL},
		{"integer string", "42", model.TypeNumber},
		{"float string", "3.14", model.TypeNumber},
		{"negative number", "-17.5", model.TypeNumber},
		{"native int", 42, model.TypeNumber},
		{"native float", 3.14, model.TypeNumber},
		{"iso date", "2024-01-15", model.TypeDate},
		{"slash date", "01/15/2024", model.TypeDate},
		{"timestamp", "2024-01-15T10:30:00Z", model.TypeDate},
		{"true", "true", model.TypeBoolean},
		{"yes uppercase", "YES", model.TypeBoolean},
		{"no", "no", model.TypeBoolean},
		{"native bool", false, model.TypeBoolean},
		{"plain text", "hello world", model.TypeText},
		{"month name alone", "January", model.TypeText},
		{"text with at but no tld", "not@anemail", model.TypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyValue(tt.value); got != tt.want {
				t.Errorf("ClassifyValue(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestClassifyValueNumericBeatsBoolean(t *testing.T) {
	// "1" and "0" are in the boolean word list but the numeric heuristic
	// runs first
	for _, v := range []string{"1", "0"} {
		if got := ClassifyValue(v); got != model.TypeNumber {
			t.Errorf("ClassifyValue(%q) = %v, want number", v, got)
		}
	}
}

func TestClassifyColumnMajority(t *testing.T) {
	tests := []struct {
		name   string
		values []interface{}
		want   model.ColumnType
	}{
		{
			name:   "emails with empty ignored",
			values: []interface{}{"a@b.com", "c@d.com", ""},
			want:   model.TypeEmail,
		},
		{
			name:   "numeric majority",
			values: []interface{}{"1", "2", "x"},
			want:   model.TypeNumber,
		},
		{
			name:   "all empty is text",
			values: []interface{}{"", nil, ""},
			want:   model.TypeText,
		},
		{
			name:   "no values is text",
			values: nil,
			want:   model.TypeText,
		},
		{
			name:   "tie broken by heuristic order",
			values: []interface{}{"a@b.com", "plain text"},
			want:   model.TypeEmail,
		},
		{
			name:   "dates",
			values: []interface{}{"2024-01-01", "2024-02-01", "2024-03-01"},
			want:   model.TypeDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyColumn(tt.values); got != tt.want {
				t.Errorf("ClassifyColumn(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestClassifyColumnDeterministic(t *testing.T) {
	values := []interface{}{"a@b.com", "1", "2024-01-01", "true", "text", "https://x.io"}
	first := ClassifyColumn(values)
	for i := 0; i < 50; i++ {
		if got := ClassifyColumn(values); got != first {
			t.Fatalf("classification changed between runs: %v then %v", first, got)
		}
	}
}

func TestParseNumber(t *testing.T) {
	if f, ok := ParseNumber("  12.5 "); !ok || f != 12.5 {
		t.Errorf("ParseNumber(\"  12.5 \") = %v, %v", f, ok)
	}
	if _, ok := ParseNumber("abc"); ok {
		t.Error("ParseNumber(\"abc\") should fail")
	}
	if _, ok := ParseNumber(true); ok {
		t.Error("booleans are not numbers")
	}
	if f, ok := ParseNumber(7); !ok || f != 7 {
		t.Errorf("ParseNumber(7) = %v, %v", f, ok)
	}
}

func TestParseTime(t *testing.T) {
	if _, ok := ParseTime("2024-06-01"); !ok {
		t.Error("expected 2024-06-01 to parse")
	}
	if _, ok := ParseTime("January"); ok {
		t.Error("pure text without digits must not parse as a date")
	}
}
