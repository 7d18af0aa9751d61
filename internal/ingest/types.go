package ingest

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Source tags where a record came from. It is always set by the builder that
// created the record, never inferred downstream.
type Source string

const (
	SourceCSV Source = "csv"
	SourceAPI Source = "api"
)

// DateFormat identifies the textual layout of dates in a source. The two
// sides of a reconciliation may use different formats, so the caller supplies
// one tag per source.
type DateFormat string

const (
	FormatMMDDYYYY     DateFormat = "MM/DD/YYYY"
	FormatDDMMYYYY     DateFormat = "DD/MM/YYYY"
	FormatYYYYMMDD     DateFormat = "YYYY-MM-DD"
	FormatDDMMYYYYDash DateFormat = "DD-MM-YYYY"
	FormatMMDDYYYYDash DateFormat = "MM-DD-YYYY"
)

// DateFormats lists every supported format tag.
var DateFormats = []DateFormat{
	FormatMMDDYYYY,
	FormatDDMMYYYY,
	FormatYYYYMMDD,
	FormatDDMMYYYYDash,
	FormatMMDDYYYYDash,
}

// ParseDateFormat validates a caller-supplied format string.
func ParseDateFormat(s string) (DateFormat, error) {
	for _, f := range DateFormats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown date format %q (supported: %v)", s, DateFormats)
}

// TransactionRecord is the canonical record shape all downstream code depends
// on, independent of whether it originated from CSV or the provider API.
// Records are immutable once built.
//
// Date and DueDate are ISO-8601 when normalization succeeded; otherwise they
// carry the original input string verbatim. Consumers must treat them as
// "ISO-8601 or opaque string".
type TransactionRecord struct {
	ID                string          `json:"id"`
	TransactionNumber string          `json:"transactionNumber"`
	Amount            decimal.Decimal `json:"amount"`
	Date              string          `json:"date"`
	DueDate           string          `json:"dueDate,omitempty"`
	Status            string          `json:"status"`
	Reference         string          `json:"reference,omitempty"`
	ContactName       string          `json:"contactName,omitempty"`
	Type              string          `json:"type"`
	Source            Source          `json:"source"`
}

// RejectionReason records why a single row or provider item was dropped.
// Row is the 1-based data row number for CSV input and the 0-based array
// index for provider items.
type RejectionReason struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Batch is the transient result of one ingestion invocation. It is created
// fresh for every upload or contact selection and discarded once handed to
// the matcher.
//
// Invariant: AcceptedCount + DroppedCount == TotalInputRows. No input item
// silently disappears between stages.
type Batch struct {
	Records        []TransactionRecord `json:"records"`
	TotalInputRows int                 `json:"totalInputRows"`
	AcceptedCount  int                 `json:"acceptedCount"`
	DroppedCount   int                 `json:"droppedCount"`
	Errors         []RejectionReason   `json:"errors"`
}

// accept appends a record and keeps the counts consistent.
func (b *Batch) accept(rec TransactionRecord) {
	b.Records = append(b.Records, rec)
	b.AcceptedCount++
}

// reject records a dropped row and keeps the counts consistent.
func (b *Batch) reject(row int, reason string) {
	b.Errors = append(b.Errors, RejectionReason{Row: row, Reason: reason})
	b.DroppedCount++
}
