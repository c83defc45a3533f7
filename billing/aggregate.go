package billing

// Sheet names used by the workbook sink.
const (
	MainSheetName   = "Extracted Data"
	ReviewSheetName = "Review"
)

// Sheet is an ordered bucket of records sharing one header row.
type Sheet struct {
	Name    string
	Layout  Layout
	Records []Record
}

// Rows flattens every record for the sink.
func (s *Sheet) Rows(mode ValueMode) [][]any {
	out := make([][]any, 0, len(s.Records))
	for _, r := range s.Records {
		out = append(out, r.Fields(s.Layout, mode))
	}
	return out
}

func (s *Sheet) add(t Table) {
	s.Layout = s.Layout.Union(t.Layout)
	s.Records = append(s.Records, t.Records...)
}

// Result is the outcome of a multi-page extraction.
type Result struct {
	TableType TableType
	Main      Sheet
	// Review is nil unless a review page produced a table.
	Review *Sheet
	Pages  []PageStat
}

// Records is the number of records across both sheets.
func (r *Result) Records() int {
	n := len(r.Main.Records)
	if r.Review != nil {
		n += len(r.Review.Records)
	}
	return n
}

// Sheets returns the non-nil sheets in workbook order.
func (r *Result) Sheets() []*Sheet {
	out := []*Sheet{&r.Main}
	if r.Review != nil {
		out = append(out, r.Review)
	}
	return out
}

// Aggregate scans pages in the given order and concatenates their records.
// Pages listed in rules.ReviewPages go to the review sheet instead.
func Aggregate(pages []Page, t TableType, rules Rules) *Result {
	sc := NewScanner(t, rules)
	// The zero Layout lets the first page decide the shape.
	res := &Result{TableType: t, Main: Sheet{Name: MainSheetName}}

	for _, p := range pages {
		tbl := sc.Scan(p.Number, p.Grid)
		res.Pages = append(res.Pages, tbl.Stats)

		if rules.IsReviewPage(p.Number) {
			if res.Review == nil {
				res.Review = &Sheet{Name: ReviewSheetName}
			}
			res.Review.add(tbl)
			continue
		}
		res.Main.add(tbl)
	}

	if res.Main.Layout.TableType == 0 {
		res.Main.Layout = ResolveLayout(t, 0)
	}
	return res
}
