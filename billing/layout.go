package billing

// Fixed leading columns of every output row.
const (
	HeaderFirstName     = "First Name"
	HeaderLastName      = "Last Name"
	HeaderContactNumber = "Contact Number"
)

// Amount column headers.
const (
	HeaderStartingBalance        = "Starting Balance"
	HeaderPayments               = "Payments ($)"
	HeaderCurrentBalance         = "Current Balance"
	HeaderStartingDeviceDiscount = "Starting Device Discount Balance ($)"
	HeaderCurrentDeviceDiscount  = "Current Device Discount Balance ($)"
	HeaderPartialCharges         = "Partial Charges ($)"
	HeaderMonthlyAndOtherCharges = "Monthly and Other Charges ($)"
	HeaderAddOns                 = "Add-Ons ($)"
	HeaderUsageCharges           = "Usage Charges ($)"
	HeaderTotalBeforeTaxes       = "Total Before Taxes ($)"
	HeaderTaxes                  = "Taxes ($)"
	HeaderTotal                  = "Total ($)"
)

// rawColumnsWithPartialCharges is the raw grid width of a Raw page that
// carries the partial charges column.
const rawColumnsWithPartialCharges = 8

var (
	hardwareAmountHeaders = []string{
		HeaderStartingBalance,
		HeaderPayments,
		HeaderCurrentBalance,
		HeaderStartingDeviceDiscount,
		HeaderCurrentDeviceDiscount,
	}

	// rawAmountHeaders is the canonical Raw order; pages without the
	// partial charges column use rawAmountHeaders[1:].
	rawAmountHeaders = []string{
		HeaderPartialCharges,
		HeaderMonthlyAndOtherCharges,
		HeaderAddOns,
		HeaderUsageCharges,
		HeaderTotalBeforeTaxes,
		HeaderTaxes,
		HeaderTotal,
	}

	highlightHeaders = map[string]bool{
		HeaderPartialCharges:         true,
		HeaderMonthlyAndOtherCharges: true,
		HeaderAddOns:                 true,
		HeaderUsageCharges:           true,
	}
)

// Layout is the column shape of one extracted table.
type Layout struct {
	TableType     TableType
	AmountHeaders []string
}

// ResolveLayout returns the amount columns for a table type given the
// number of raw columns the page grid has. It must be called per page: the
// partial charges column only shows up on pages with a mid-cycle change.
func ResolveLayout(t TableType, rawColumns int) Layout {
	switch {
	case t == Hardware:
		return Layout{TableType: t, AmountHeaders: clone(hardwareAmountHeaders)}
	case rawColumns == rawColumnsWithPartialCharges:
		return Layout{TableType: t, AmountHeaders: clone(rawAmountHeaders)}
	default:
		return Layout{TableType: t, AmountHeaders: clone(rawAmountHeaders[1:])}
	}
}

// AmountColumns is the number of amount cells read after the label cell.
func (l Layout) AmountColumns() int {
	return len(l.AmountHeaders)
}

// Headers returns the full output header row.
func (l Layout) Headers() []string {
	out := make([]string, 0, 3+len(l.AmountHeaders))
	out = append(out, HeaderFirstName, HeaderLastName, HeaderContactNumber)
	return append(out, l.AmountHeaders...)
}

// Has reports whether the layout carries the named amount column.
func (l Layout) Has(header string) bool {
	for _, h := range l.AmountHeaders {
		if h == header {
			return true
		}
	}
	return false
}

// Union merges two layouts of the same table type. The result keeps the
// canonical column order, so a Raw page with partial charges and one
// without merge into the seven-column shape.
func (l Layout) Union(other Layout) Layout {
	if l.TableType == 0 {
		return Layout{TableType: other.TableType, AmountHeaders: clone(other.AmountHeaders)}
	}
	seen := make(map[string]bool, len(l.AmountHeaders)+len(other.AmountHeaders))
	for _, h := range l.AmountHeaders {
		seen[h] = true
	}
	for _, h := range other.AmountHeaders {
		seen[h] = true
	}

	canonical := rawAmountHeaders
	if l.TableType == Hardware {
		canonical = hardwareAmountHeaders
	}
	merged := Layout{TableType: l.TableType}
	for _, h := range canonical {
		if seen[h] {
			merged.AmountHeaders = append(merged.AmountHeaders, h)
			delete(seen, h)
		}
	}
	// Headers outside the canonical set keep first-seen order.
	for _, h := range append(clone(l.AmountHeaders), other.AmountHeaders...) {
		if seen[h] {
			merged.AmountHeaders = append(merged.AmountHeaders, h)
			delete(seen, h)
		}
	}
	return merged
}

// IsHighlighted reports whether a header is emphasized in the workbook.
func IsHighlighted(header string) bool {
	return highlightHeaders[header]
}

// HighlightHeaders returns the emphasized headers in canonical order.
func HighlightHeaders() []string {
	var out []string
	for _, h := range rawAmountHeaders {
		if highlightHeaders[h] {
			out = append(out, h)
		}
	}
	return out
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
