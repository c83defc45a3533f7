package billing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPageRange is returned by ParsePages for malformed input.
var ErrInvalidPageRange = errors.New("invalid page range")

// MaxPages caps how many pages one selection may expand to.
const MaxPages = 10000

// ParsePages expands "1,3,5-7" into [1 3 5 6 7]. Ranges are inclusive,
// repeated pages are kept once at their first position.
func ParsePages(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: no pages given", ErrInvalidPageRange)
	}

	var pages []int
	seen := make(map[int]bool)
	add := func(p int) {
		if !seen[p] {
			seen[p] = true
			pages = append(pages, p)
		}
	}

	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return nil, fmt.Errorf("%w: empty entry in %q", ErrInvalidPageRange, s)
		}

		lo, hi, isRange := strings.Cut(tok, "-")
		start, err := parsePage(lo, tok)
		if err != nil {
			return nil, err
		}
		if !isRange {
			add(start)
			continue
		}
		end, err := parsePage(hi, tok)
		if err != nil {
			return nil, err
		}
		if end < start {
			return nil, fmt.Errorf("%w: %q ends before it starts", ErrInvalidPageRange, tok)
		}
		if end-start >= MaxPages {
			return nil, fmt.Errorf("%w: %q spans more than %d pages", ErrInvalidPageRange, tok, MaxPages)
		}
		for p := start; p <= end; p++ {
			add(p)
		}
		if len(pages) > MaxPages {
			break
		}
	}
	if len(pages) > MaxPages {
		return nil, fmt.Errorf("%w: more than %d pages selected", ErrInvalidPageRange, MaxPages)
	}
	return pages, nil
}

func parsePage(s, tok string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a page number", ErrInvalidPageRange, tok)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %q (pages start at 1)", ErrInvalidPageRange, tok)
	}
	return n, nil
}

// FormatPages renders pages back into the compact range syntax.
func FormatPages(pages []int) string {
	var parts []string
	for i := 0; i < len(pages); {
		j := i
		for j+1 < len(pages) && pages[j+1] == pages[j]+1 {
			j++
		}
		if j > i {
			parts = append(parts, fmt.Sprintf("%d-%d", pages[i], pages[j]))
		} else {
			parts = append(parts, strconv.Itoa(pages[i]))
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}
