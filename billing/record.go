package billing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidValueMode is returned by ParseValueMode for unknown modes.
var ErrInvalidValueMode = errors.New("invalid value mode")

// ValueMode controls how amount cells are written out.
type ValueMode int

const (
	// Numeric writes parsed amounts as numbers.
	Numeric ValueMode = iota
	// Verbatim writes the cell text as extracted, with "-" shown as "0".
	Verbatim
)

func (m ValueMode) String() string {
	if m == Verbatim {
		return "verbatim"
	}
	return "numeric"
}

// ParseValueMode accepts "numeric" or "verbatim"; an empty string means
// Numeric.
func ParseValueMode(s string) (ValueMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "numeric":
		return Numeric, nil
	case "verbatim":
		return Verbatim, nil
	}
	return Numeric, fmt.Errorf("%w: %q (expected numeric or verbatim)", ErrInvalidValueMode, s)
}

// Record is one subscriber row.
type Record struct {
	FirstName     string
	LastName      string
	ContactNumber string
	Amounts       []Amount
}

// Amount returns the amount for the named column.
func (r Record) Amount(header string) (Amount, bool) {
	for _, a := range r.Amounts {
		if a.Column == header {
			return a, true
		}
	}
	return Amount{}, false
}

// Fields flattens the record into cell values matching l.Headers(). Columns
// the record does not carry are nil so the sink leaves them blank.
func (r Record) Fields(l Layout, mode ValueMode) []any {
	out := make([]any, 0, 3+len(l.AmountHeaders))
	out = append(out, r.FirstName, r.LastName, r.ContactNumber)
	for _, h := range l.AmountHeaders {
		a, ok := r.Amount(h)
		switch {
		case !ok:
			out = append(out, nil)
		case mode == Verbatim:
			out = append(out, a.Text)
		default:
			out = append(out, a.Value.InexactFloat64())
		}
	}
	return out
}

// Defaulted counts amounts that were coerced to zero.
func (r Record) Defaulted() int {
	n := 0
	for _, a := range r.Amounts {
		if a.Defaulted {
			n++
		}
	}
	return n
}
