// Package billing turns the raw cell grids extracted from telecom invoice
// tables into subscriber billing records.
//
// Everything in this package works on in-memory values: a page grid goes in,
// records and their column layout come out. Reading the PDF and writing the
// workbook live in the converter package.
package billing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTableType is returned by ParseTableType for unknown tokens.
var ErrInvalidTableType = errors.New("invalid table type")

// TableType selects which invoice table is being extracted.
type TableType int

const (
	// Hardware is the device balance table (five amount columns).
	Hardware TableType = iota + 1
	// Raw is the per-subscriber charges table (six or seven amount columns).
	Raw
)

// String returns the display name used in prompts and headers.
func (t TableType) String() string {
	switch t {
	case Hardware:
		return "Hardware"
	case Raw:
		return "Raw"
	default:
		return fmt.Sprintf("TableType(%d)", int(t))
	}
}

// Key returns the lowercase token accepted by ParseTableType.
func (t TableType) Key() string {
	return strings.ToLower(t.String())
}

// ParseTableType accepts "hardware" or "raw" in any case.
func ParseTableType(s string) (TableType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hardware":
		return Hardware, nil
	case "raw":
		return Raw, nil
	}
	return 0, fmt.Errorf("%w: %q (expected hardware or raw)", ErrInvalidTableType, s)
}

// TableTypes lists every supported table type in display order.
func TableTypes() []TableType {
	return []TableType{Hardware, Raw}
}
