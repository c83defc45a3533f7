package billing

import (
	"strings"
	"unicode"
)

// Grid is one extracted page table. Cell 0 of each row is the label cell.
type Grid [][]string

// Width is the widest row of the grid.
func (g Grid) Width() int {
	w := 0
	for _, row := range g {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Page is the grid extracted from one PDF page.
type Page struct {
	Number int
	Grid   Grid
}

// Table is the result of scanning one page.
type Table struct {
	Page    int
	Layout  Layout
	Records []Record
	Stats   PageStat
}

// PageStat summarises one scan.
type PageStat struct {
	Page      int
	Rows      int
	Records   int
	Skipped   int
	Stopped   bool
	Defaulted int
}

// Scanner classifies grid rows and rebuilds two-line subscriber records.
type Scanner struct {
	tableType TableType
	keywords  []string
	stops     []string
}

// NewScanner builds a scanner for one table type.
func NewScanner(t TableType, rules Rules) *Scanner {
	return &Scanner{
		tableType: t,
		keywords:  lowerAll(rules.SkipKeywords[t]),
		stops:     lowerAll(rules.StopMarkers),
	}
}

// Scan walks the grid once. A label with two or more words starts a record;
// the row after it always carries the contact number and is consumed
// without being classified itself.
func (s *Scanner) Scan(page int, g Grid) Table {
	layout := ResolveLayout(s.tableType, g.Width())
	t := Table{
		Page:   page,
		Layout: layout,
		Stats:  PageStat{Page: page, Rows: len(g)},
	}

	for i := 0; i < len(g); {
		label := strings.TrimSpace(cell(g[i], 0))
		lower := strings.ToLower(label)

		if containsAny(lower, s.stops) {
			t.Stats.Stopped = true
			break
		}
		if isMonthHeader(label) || containsAny(lower, s.keywords) {
			t.Stats.Skipped++
			i++
			continue
		}

		first, last, ok := splitName(label)
		if !ok {
			i++
			continue
		}

		rec := Record{FirstName: first, LastName: last}
		if i+1 < len(g) {
			rec.ContactNumber = NormalizeContact(strings.TrimSpace(cell(g[i+1], 0)))
		}
		rec.Amounts = make([]Amount, 0, layout.AmountColumns())
		for c, h := range layout.AmountHeaders {
			rec.Amounts = append(rec.Amounts, ParseAmount(h, cell(g[i], c+1)))
		}

		t.Records = append(t.Records, rec)
		t.Stats.Defaulted += rec.Defaulted()
		i += 2
	}

	t.Stats.Records = len(t.Records)
	return t
}

// splitName splits "Mary Ann Smith" into "Mary" and "Ann Smith". Single
// word labels are not names.
func splitName(label string) (first, last string, ok bool) {
	if len(strings.Fields(label)) < 2 {
		return "", "", false
	}
	idx := strings.IndexFunc(label, unicode.IsSpace)
	return label[:idx], strings.TrimSpace(label[idx:]), true
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
