package ingest

import (
	"errors"
	"testing"
)

func TestBuildFromCSV(t *testing.T) {
	lines := []string{
		"Invoice Number,Vendor Name,Amount,Date,Due Date,Status",
		`INV-001,"Acme, Inc.",100.50,01/15/2024,02/15/2024,Open`,
	}

	batch, err := BuildFromCSV(lines, FormatMMDDYYYY)
	if err != nil {
		t.Fatalf("BuildFromCSV() error = %v", err)
	}

	if batch.AcceptedCount != 1 || batch.DroppedCount != 0 {
		t.Fatalf("accepted/dropped = %d/%d, want 1/0", batch.AcceptedCount, batch.DroppedCount)
	}

	rec := batch.Records[0]
	if rec.ID != "csv-1" {
		t.Errorf("ID = %q, want %q", rec.ID, "csv-1")
	}
	if rec.TransactionNumber != "INV-001" {
		t.Errorf("TransactionNumber = %q, want %q", rec.TransactionNumber, "INV-001")
	}
	if rec.ContactName != "Acme, Inc." {
		t.Errorf("ContactName = %q, want %q", rec.ContactName, "Acme, Inc.")
	}
	if rec.Amount.String() != "100.5" {
		t.Errorf("Amount = %s, want 100.5", rec.Amount)
	}
	if rec.Date != "2024-01-15" {
		t.Errorf("Date = %q, want %q", rec.Date, "2024-01-15")
	}
	if rec.DueDate != "2024-02-15" {
		t.Errorf("DueDate = %q, want %q", rec.DueDate, "2024-02-15")
	}
	if rec.Source != SourceCSV {
		t.Errorf("Source = %q, want %q", rec.Source, SourceCSV)
	}
}

// Bad rows drop individually with a reason; good rows around them survive.
// Accepted plus dropped always accounts for every input row.
func TestBuildFromCSV_RowLevelRejection(t *testing.T) {
	lines := []string{
		"Invoice,Amount,Date",
		"INV-1,100,01/01/2024",
		",200,01/02/2024",      // missing number
		"INV-3,,01/03/2024",    // missing amount
		"INV-4,400,",           // missing date
		"INV-5,abc,01/05/2024", // unparsable amount
		",,",                   // blank interior row
		"INV-6,600,01/06/2024",
	}

	batch, err := BuildFromCSV(lines, FormatMMDDYYYY)
	if err != nil {
		t.Fatalf("BuildFromCSV() error = %v", err)
	}

	if batch.TotalInputRows != 7 {
		t.Errorf("TotalInputRows = %d, want 7", batch.TotalInputRows)
	}
	if batch.AcceptedCount != 2 {
		t.Errorf("AcceptedCount = %d, want 2", batch.AcceptedCount)
	}
	if batch.DroppedCount != 5 {
		t.Errorf("DroppedCount = %d, want 5", batch.DroppedCount)
	}
	if batch.AcceptedCount+batch.DroppedCount != batch.TotalInputRows {
		t.Errorf("accepted(%d) + dropped(%d) != total(%d)",
			batch.AcceptedCount, batch.DroppedCount, batch.TotalInputRows)
	}

	wantRows := []int{2, 3, 4, 5, 6}
	if len(batch.Errors) != len(wantRows) {
		t.Fatalf("Errors = %d entries, want %d", len(batch.Errors), len(wantRows))
	}
	for i, want := range wantRows {
		if batch.Errors[i].Row != want {
			t.Errorf("Errors[%d].Row = %d, want %d", i, batch.Errors[i].Row, want)
		}
		if batch.Errors[i].Reason == "" {
			t.Errorf("Errors[%d].Reason is empty", i)
		}
	}
}

// Short rows are treated as having empty cells, not as a structural failure.
func TestBuildFromCSV_ShortRow(t *testing.T) {
	lines := []string{
		"Invoice,Amount,Date",
		"INV-1,100", // date cell missing entirely
	}

	batch, err := BuildFromCSV(lines, FormatMMDDYYYY)
	if err != nil {
		t.Fatalf("BuildFromCSV() error = %v", err)
	}
	if batch.DroppedCount != 1 {
		t.Errorf("DroppedCount = %d, want 1", batch.DroppedCount)
	}
}

func TestBuildFromCSV_TooFewLines(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"empty", nil},
		{"header only", []string{"Invoice,Amount,Date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildFromCSV(tt.lines, FormatMMDDYYYY)
			var fileErr *FileFormatError
			if !errors.As(err, &fileErr) {
				t.Errorf("BuildFromCSV() error = %v, want *FileFormatError", err)
			}
		})
	}
}

func TestBuildFromCSV_MissingColumnsIsFatal(t *testing.T) {
	lines := []string{
		"foo,bar",
		"1,2",
	}

	batch, err := BuildFromCSV(lines, FormatMMDDYYYY)
	var colErr *MissingColumnsError
	if !errors.As(err, &colErr) {
		t.Fatalf("BuildFromCSV() error = %v, want *MissingColumnsError", err)
	}
	if batch != nil {
		t.Error("BuildFromCSV() should not return a batch when columns are unresolvable")
	}
}
