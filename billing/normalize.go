package billing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var contactPattern = regexp.MustCompile(`(\d{3}) (\d{3}-\d{4})`)

// NormalizeContact rewrites "604 555-1234" as "604-555-1234". Values that do
// not contain that pattern are returned unchanged.
func NormalizeContact(s string) string {
	return contactPattern.ReplaceAllString(s, "$1-$2")
}

// Amount is one normalized amount cell.
type Amount struct {
	Column string
	// Text is the trimmed cell text with a lone "-" rewritten to "0".
	Text  string
	Value decimal.Decimal
	// Defaulted is set when the cell could not be parsed and Value was
	// coerced to zero.
	Defaulted bool
}

// ParseAmount converts a raw cell into an Amount. It never fails: "-" means
// zero, and anything that is not a number after stripping "$" and thousands
// separators becomes zero with Defaulted set.
func ParseAmount(column, raw string) Amount {
	text := dashToZero(strings.TrimSpace(raw))
	a := Amount{Column: column, Text: text}

	cleaned := strings.NewReplacer(",", "", "$", "").Replace(text)
	v, err := decimal.NewFromString(strings.TrimSpace(cleaned))
	if err != nil {
		a.Value = decimal.Zero
		a.Defaulted = true
		return a
	}
	a.Value = v
	return a
}

func dashToZero(s string) string {
	if s == "-" {
		return "0"
	}
	return s
}
