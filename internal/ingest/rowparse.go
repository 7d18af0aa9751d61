package ingest

import "strings"

// ParseLine splits a raw CSV line into cells, honoring quoted commas.
//
// A double quote toggles an "inside quotes" flag; a comma is a field
// separator only when outside quotes. Surrounding quote characters are
// stripped from each emitted field. Escaped quotes ("") inside quoted fields
// are not un-escaped; the toggle semantics treat them as quote-off/quote-on.
func ParseLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())

	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

// SplitLines breaks file content into lines, tolerating CRLF endings and a
// trailing newline. A UTF-8 BOM on the first line is removed so header
// matching is not thrown off by invisible bytes.
func SplitLines(content string) []string {
	content = strings.TrimPrefix(content, "\ufeff")
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	// Drop a single empty trailing line produced by a final newline.
	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "" {
		lines = lines[:n-1]
	}
	return lines
}
