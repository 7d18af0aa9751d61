package ingest

// columns.go resolves column identity from CSV header content. Uploads have
// no fixed column order, so each canonical field is located by case-insensitive
// substring heuristics declared in internal/schema.

import (
	"strings"

	"github.com/reconlab/ingest/internal/schema"
)

// ColumnMap holds the resolved header position for each canonical field.
// Optional fields are -1 when no header matched.
type ColumnMap struct {
	TransactionNumber int
	Amount            int
	Date              int
	Status            int
	DueDate           int
	Reference         int
	Contact           int
}

// InferColumns maps a CSV header row to column positions. It is pure and
// idempotent: the same header row always yields the same mapping.
//
// If any required field (transaction number, amount, date) cannot be
// resolved, the whole batch fails fast with *MissingColumnsError before any
// data row is parsed -- there is no point parsing data whose shape is unknown.
func InferColumns(headers []string) (ColumnMap, error) {
	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}

	cols := ColumnMap{
		TransactionNumber: -1,
		Amount:            -1,
		Date:              -1,
		Status:            -1,
		DueDate:           -1,
		Reference:         -1,
		Contact:           -1,
	}

	var missing []string
	for _, spec := range schema.TransactionColumns {
		idx := findColumn(lowered, spec)
		if idx < 0 && spec.Required {
			missing = append(missing, spec.Field)
		}
		switch spec.Field {
		case schema.FieldTransactionNumber:
			cols.TransactionNumber = idx
		case schema.FieldAmount:
			cols.Amount = idx
		case schema.FieldDate:
			cols.Date = idx
		case schema.FieldStatus:
			cols.Status = idx
		case schema.FieldDueDate:
			cols.DueDate = idx
		case schema.FieldReference:
			cols.Reference = idx
		case schema.FieldContact:
			cols.Contact = idx
		}
	}

	if len(missing) > 0 {
		return ColumnMap{}, &MissingColumnsError{Missing: missing}
	}
	return cols, nil
}

// findColumn scans keywords in priority order; the first header containing a
// keyword (and none of the exclude terms) wins.
func findColumn(lowered []string, spec schema.ColumnSpec) int {
	for _, keyword := range spec.Keywords {
		for i, h := range lowered {
			if h == "" || !strings.Contains(h, keyword) {
				continue
			}
			if containsAny(h, spec.Exclude) {
				continue
			}
			return i
		}
	}
	return -1
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
