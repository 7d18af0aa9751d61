package ingest

// provider.go builds canonical records from the accounting provider's invoice
// payload. The payload shape is not contractually guaranteed: array elements
// may be null, non-objects, or objects missing every expected key, and key
// casing is provider-defined. Each item passes through a single typed
// pipeline stage that returns either an accepted record or a rejection
// reason, so a value is never re-validated after its type already guarantees
// validity.

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/reconlab/ingest/internal/schema"
)

// itemOutcome is the result of transforming one provider item.
type itemOutcome struct {
	record TransactionRecord
	ok     bool
	reason string
}

func accepted(rec TransactionRecord) itemOutcome {
	return itemOutcome{record: rec, ok: true}
}

func rejected(reason string) itemOutcome {
	return itemOutcome{reason: reason}
}

// BuildFromProvider converts raw provider items into a Batch. Every input
// item is either transformed or recorded as rejected with its array index;
// no item silently disappears. A malformed item never aborts the batch.
func BuildFromProvider(items []any, contactName string) *Batch {
	batch := &Batch{TotalInputRows: len(items)}

	for i, item := range items {
		out := transformItem(i, item, contactName)
		if !out.ok {
			batch.reject(i, out.reason)
			continue
		}
		batch.accept(out.record)
	}

	return batch
}

// transformItem converts one untrusted provider item to a canonical record.
func transformItem(idx int, item any, contactName string) itemOutcome {
	if item == nil {
		return rejected("item is null")
	}
	obj, ok := item.(map[string]any)
	if !ok {
		return rejected(fmt.Sprintf("item is not an object (%T)", item))
	}

	nativeID := lookupString(obj, "InvoiceID", "ID")
	number := lookupString(obj, "InvoiceNumber", "Number")
	if nativeID == "" && number == "" {
		return rejected("item has no identifier")
	}

	typeCode := lookupString(obj, "Type")

	// ID priority: native id, then invoice number, then a timestamp fallback.
	id := nativeID
	if id == "" {
		id = number
	}
	if id == "" {
		id = fmt.Sprintf("%s-%d-%d", strings.ToLower(typeCode), time.Now().UnixNano(), idx)
	}
	// Guard against the fallback logic itself producing a degenerate value.
	if id == "" || id == "undefined" || id == "null" {
		return rejected("item identifier is degenerate")
	}

	amount, err := lookupAmount(obj, "Total", "Amount")
	if err != nil {
		return rejected(err.Error())
	}

	name := contactName
	if contact, ok := lookupValue(obj, "Contact").(map[string]any); ok {
		if n := lookupString(contact, "Name"); n != "" {
			name = n
		}
	}

	return accepted(TransactionRecord{
		ID:                id,
		TransactionNumber: number,
		Amount:            amount,
		Date:              lookupString(obj, "DateString", "Date"),
		DueDate:           lookupString(obj, "DueDateString", "DueDate"),
		Status:            schema.StatusLabel(lookupString(obj, "Status")),
		Reference:         lookupString(obj, "Reference"),
		ContactName:       name,
		Type:              schema.TypeLabel(typeCode),
		Source:            SourceAPI,
	})
}

// lookupValue finds the first key that matches case-insensitively. Provider
// key casing is untrusted, so exact map access is never used.
func lookupValue(obj map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			return v
		}
	}
	for _, key := range keys {
		for k, v := range obj {
			if strings.EqualFold(k, key) {
				return v
			}
		}
	}
	return nil
}

// lookupString stringifies the first matching key. Numbers are rendered
// compactly; anything else non-string yields "".
func lookupString(obj map[string]any, keys ...string) string {
	switch v := lookupValue(obj, keys...).(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// lookupAmount extracts a monetary value that may arrive as a JSON number or
// a string. Missing or non-numeric amounts reject the item: an invoice
// without a trustworthy amount is useless to the matcher.
func lookupAmount(obj map[string]any, keys ...string) (decimal.Decimal, error) {
	switch v := lookupValue(obj, keys...).(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		d, err := ParseAmount(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("unparsable amount %q", v)
		}
		return d, nil
	case nil:
		return decimal.Zero, fmt.Errorf("missing amount")
	default:
		return decimal.Zero, fmt.Errorf("amount has unexpected type %T", v)
	}
}
