package billing

import (
	"regexp"
	"strings"
)

// DefaultStopMarker ends the scan of a page: everything after the mobile
// data sharing summary is not subscriber data.
const DefaultStopMarker = "summary of mobile data sharing"

var monthPattern = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)

// Rules is the row classification policy for one run.
type Rules struct {
	// SkipKeywords holds case-insensitive substrings per table type. A label
	// containing any of them is dropped.
	SkipKeywords map[TableType][]string
	// StopMarkers end the scan of the current page.
	StopMarkers []string
	// ReviewPages are routed to the review sheet instead of the main one.
	ReviewPages []int
}

// DefaultRules returns the canonical keyword sets.
func DefaultRules() Rules {
	return Rules{
		SkipKeywords: map[TableType][]string{
			Hardware: {"SAMSUNG", "IPHONE", "GOOGLE", "GALAXY", "SUMMARY", "MOBILE"},
			Raw:      {"BBAN", "BUSINESS", "MOBILE", "SUMMARY", "ACCOUNT", "TABLET"},
		},
		StopMarkers: []string{DefaultStopMarker},
	}
}

// WithExtraKeywords returns a copy of r with kw added to every table type.
func (r Rules) WithExtraKeywords(kw ...string) Rules {
	out := r.clone()
	for _, t := range TableTypes() {
		out.SkipKeywords[t] = append(out.SkipKeywords[t], kw...)
	}
	return out
}

// IsReviewPage reports whether page is routed to the review sheet.
func (r Rules) IsReviewPage(page int) bool {
	for _, p := range r.ReviewPages {
		if p == page {
			return true
		}
	}
	return false
}

func (r Rules) clone() Rules {
	out := Rules{
		SkipKeywords: make(map[TableType][]string, len(r.SkipKeywords)),
		StopMarkers:  clone(r.StopMarkers),
		ReviewPages:  append([]int(nil), r.ReviewPages...),
	}
	for t, kw := range r.SkipKeywords {
		out.SkipKeywords[t] = clone(kw)
	}
	return out
}

// lowerAll lowercases and drops blank entries.
func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func containsAny(label string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(label, n) {
			return true
		}
	}
	return false
}

func isMonthHeader(label string) bool {
	return monthPattern.MatchString(label)
}
