package schema

import "strings"

// typeLabels maps the provider's invoice type codes to the human labels used
// across the canonical record set.
var typeLabels = map[string]string{
	"ACCREC":       "Receivable Invoice",
	"ACCRECCREDIT": "Receivable Credit Note",
	"ACCPAY":       "Payable Invoice",
	"ACCPAYCREDIT": "Payable Credit Note",
}

// statusLabels maps the provider's invoice status codes to display labels.
var statusLabels = map[string]string{
	"DRAFT":      "Draft",
	"SUBMITTED":  "Awaiting Approval",
	"AUTHORISED": "Awaiting Payment",
	"PAID":       "Paid",
	"VOIDED":     "Voided",
	"DELETED":    "Deleted",
}

// TypeLabel returns the human label for a provider type code. Unknown codes
// fall back to the generic "Invoice" so a record never carries a raw enum.
func TypeLabel(code string) string {
	if label, ok := typeLabels[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return label
	}
	return "Invoice"
}

// StatusLabel returns the display label for a provider status code. Unknown
// codes pass through unchanged; the status field is informational only.
func StatusLabel(code string) string {
	if label, ok := statusLabels[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return label
	}
	return code
}
