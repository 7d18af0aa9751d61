// Package schema declares the shape knowledge the ingestion pipeline relies
// on: which header keywords identify each canonical field in an arbitrary CSV
// layout, and how the accounting provider's type and status codes map to the
// human labels used across the record set.
package schema

// Canonical field keys used by the column inference engine.
const (
	FieldTransactionNumber = "transactionNumber"
	FieldAmount            = "amount"
	FieldDate              = "date"
	FieldStatus            = "status"
	FieldDueDate           = "dueDate"
	FieldReference         = "reference"
	FieldContact           = "contact"
)

// ColumnSpec declares how one canonical field is located in a CSV header row.
// Keywords are case-insensitive substring matches tried in priority order;
// the first header containing a keyword (and none of the Exclude terms) wins.
type ColumnSpec struct {
	Field    string
	Keywords []string
	Exclude  []string
	Required bool
}

// TransactionColumns defines the header heuristics for transaction CSVs.
// The "date" spec excludes "due" so a due-date column is never mistaken for
// the primary transaction date.
var TransactionColumns = []ColumnSpec{
	{Field: FieldTransactionNumber, Keywords: []string{"transaction", "invoice", "number", "id"}, Required: true},
	{Field: FieldAmount, Keywords: []string{"amount", "total", "value", "debit", "credit"}, Required: true},
	{Field: FieldDate, Keywords: []string{"date"}, Exclude: []string{"due"}, Required: true},
	{Field: FieldStatus, Keywords: []string{"status", "state"}},
	{Field: FieldDueDate, Keywords: []string{"due"}},
	{Field: FieldReference, Keywords: []string{"reference", "ref", "memo", "description"}},
	{Field: FieldContact, Keywords: []string{"vendor", "supplier", "contact", "customer", "name"}},
}
