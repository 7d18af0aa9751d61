package ingest

// dates.go normalizes source dates into ISO-8601.
//
// The same numeric triple means different calendar dates depending on which
// format tag the caller supplied ("01/02/2024" is January 2 under MM/DD/YYYY
// and February 1 under DD/MM/YYYY), so the tag is load-bearing and parsing is
// never guessed from the string itself.
//
// Every failure path degrades to passing the original string through: an
// unparsed-but-preserved date is strictly more useful downstream than a
// dropped record. NormalizeDate never returns an error and never panics.

import (
	"strconv"
	"strings"
	"time"
)

// datePositions maps each format tag to the positions of day, month, and year
// within the split string, plus the separator the tag uses.
type datePositions struct {
	sep              string
	day, month, year int
}

var dateLayouts = map[DateFormat]datePositions{
	FormatMMDDYYYY:     {sep: "/", month: 0, day: 1, year: 2},
	FormatDDMMYYYY:     {sep: "/", day: 0, month: 1, year: 2},
	FormatYYYYMMDD:     {sep: "-", year: 0, month: 1, day: 2},
	FormatDDMMYYYYDash: {sep: "-", day: 0, month: 1, year: 2},
	FormatMMDDYYYYDash: {sep: "-", month: 0, day: 1, year: 2},
}

// NormalizeDate converts a raw date string to ISO-8601 (2006-01-02) according
// to the supplied format tag. On any parse or validation failure the original
// input is returned unchanged.
//
// Validation is a bound check, not a calendar check: month must be 1-12 and
// day 1-31, but day=31 in a 30-day month is accepted. This permissiveness is
// deliberate and matches the soft-fail contract.
func NormalizeDate(raw string, format DateFormat) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw
	}

	layout, ok := dateLayouts[format]
	if !ok {
		return raw
	}

	parts := strings.Split(s, layout.sep)
	if len(parts) != 3 {
		return raw
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return raw
		}
		nums[i] = n
	}

	day := nums[layout.day]
	month := nums[layout.month]
	year := nums[layout.year]

	if month < 1 || month > 12 {
		return raw
	}
	if day < 1 || day > 31 {
		return raw
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.IsZero() {
		return raw
	}
	return t.Format("2006-01-02")
}
