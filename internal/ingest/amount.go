package ingest

// amount.go handles the messy reality of user-provided monetary values:
// currency symbols, thousands separators, accounting-style parentheses for
// negatives, and stray whitespace. Sign is preserved because payable vs.
// receivable polarity matters to the matcher.

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a raw cell or field value to a decimal amount.
// Non-numeric characters other than digits, '.', and '-' are stripped before
// parsing. Returns an error when nothing numeric remains or the residue does
// not parse.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	// Accounting format "(123.45)" means negative.
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("no numeric content in %q", s)
	}
	if isNegative && !strings.HasPrefix(cleaned, "-") {
		cleaned = "-" + cleaned
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparsable amount %q", s)
	}
	return d, nil
}
