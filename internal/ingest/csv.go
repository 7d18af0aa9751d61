package ingest

// csv.go builds canonical records from uploaded CSV content. Rows are scanned
// sequentially because row order determines the synthetic record ID and rows
// must be skip-counted deterministically for the batch invariant.

import "fmt"

// BuildFromCSV converts raw CSV lines into a Batch. Line 0 is the header row;
// lines 1..N are data rows.
//
// Fatal conditions (fewer than two lines, unresolvable required columns)
// return an error and no batch. Per-row problems (empty required cell,
// unparsable amount) drop only that row, with the reason recorded on the
// batch. AcceptedCount + DroppedCount always equals TotalInputRows.
func BuildFromCSV(lines []string, format DateFormat) (*Batch, error) {
	if len(lines) < 2 {
		return nil, &FileFormatError{Reason: "file must contain a header row and at least one data row"}
	}

	cols, err := InferColumns(ParseLine(lines[0]))
	if err != nil {
		return nil, err
	}

	batch := &Batch{TotalInputRows: len(lines) - 1}

	for i, line := range lines[1:] {
		rowNum := i + 1 // 1-based data row number, also the synthetic ID suffix

		cells := ParseLine(line)
		if isEmptyRow(cells) {
			batch.reject(rowNum, "empty row")
			continue
		}

		number := cellAt(cells, cols.TransactionNumber)
		amountRaw := cellAt(cells, cols.Amount)
		dateRaw := cellAt(cells, cols.Date)

		switch {
		case number == "":
			batch.reject(rowNum, "missing transaction number")
			continue
		case amountRaw == "":
			batch.reject(rowNum, "missing amount")
			continue
		case dateRaw == "":
			batch.reject(rowNum, "missing date")
			continue
		}

		amount, err := ParseAmount(amountRaw)
		if err != nil {
			batch.reject(rowNum, err.Error())
			continue
		}

		batch.accept(TransactionRecord{
			ID:                fmt.Sprintf("csv-%d", rowNum),
			TransactionNumber: number,
			Amount:            amount,
			Date:              NormalizeDate(dateRaw, format),
			DueDate:           NormalizeDate(cellAt(cells, cols.DueDate), format),
			Status:            cellAt(cells, cols.Status),
			Reference:         cellAt(cells, cols.Reference),
			ContactName:       cellAt(cells, cols.Contact),
			Type:              "Invoice",
			Source:            SourceCSV,
		})
	}

	return batch, nil
}

// cellAt returns the cell at idx, or "" when the column is absent or the row
// is short. Short rows are common in hand-edited CSVs.
func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

// isEmptyRow reports whether every cell in the row is blank. Blank interior
// rows are counted as dropped so no input row silently disappears.
func isEmptyRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
