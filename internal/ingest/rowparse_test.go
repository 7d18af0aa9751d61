package ingest

import (
	"reflect"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"quoted comma", `A,"B, C",D`, []string{"A", "B, C", "D"}},
		{"whole line quoted field", `"Acme, Inc.",100`, []string{"Acme, Inc.", "100"}},
		{"empty fields", "a,,c", []string{"a", "", "c"}},
		{"trailing comma", "a,b,", []string{"a", "b", ""}},
		{"whitespace trimmed", " a , b ,c ", []string{"a", "b", "c"}},
		{"single field", "solo", []string{"solo"}},
		{"empty line", "", []string{""}},
		{"unterminated quote swallows commas", `a,"b,c`, []string{"a", "b,c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLine(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLine(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"unix endings", "h\nr1\nr2", []string{"h", "r1", "r2"}},
		{"crlf endings", "h\r\nr1\r\nr2", []string{"h", "r1", "r2"}},
		{"trailing newline dropped", "h\nr1\n", []string{"h", "r1"}},
		{"bom stripped", "\ufeffh\nr1", []string{"h", "r1"}},
		{"single line", "h", []string{"h"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLines(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitLines(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}
