package converter

// grid.go rebuilds a table grid from positioned glyphs.
//
// Glyphs are merged into words using font-size derived spacing, words are
// grouped into rows by baseline, and columns are the merged horizontal
// extents of words taken from rows that hold more than one cell. Single
// phrase rows (contact numbers, section titles) are then dropped into the
// column they overlap most.

import (
	"math"
	"sort"
	"strings"

	"github.com/Cortexa-LLC/mcp/src/billextract/billing"
	"github.com/ledongthuc/pdf"
)

const (
	rowTolerance = 2.0 // points between baselines of the same row
	columnGap    = 1.0 // extents closer than this belong to one column
)

type word struct {
	x, end, y float64
	s         string
}

type span struct{ x, end float64 }

// buildGrid turns the glyphs of one page into rows of cells, top to bottom.
func buildGrid(chars []pdf.Text) billing.Grid {
	rows := groupRows(mergeWords(chars))
	if len(rows) == 0 {
		return nil
	}

	cols := columnSpans(rows)
	grid := make(billing.Grid, 0, len(rows))
	for _, row := range rows {
		cells := make([][]string, len(cols))
		for _, w := range row {
			c := bestColumn(w, cols)
			cells[c] = append(cells[c], w.s)
		}
		out := make([]string, len(cols))
		for i, parts := range cells {
			out[i] = strings.Join(parts, " ")
		}
		grid = append(grid, out)
	}
	return grid
}

// mergeWords snaps glyph baselines, orders them top to bottom and left to
// right, then joins neighbouring glyphs into words and phrases.
func mergeWords(chars []pdf.Text) []word {
	glyphs := make([]pdf.Text, 0, len(chars))
	for _, c := range chars {
		if c.S != "" {
			glyphs = append(glyphs, c)
		}
	}
	if len(glyphs) == 0 {
		return nil
	}

	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].Y > glyphs[j].Y })
	base := glyphs[0].Y
	for i := range glyphs {
		if math.Abs(base-glyphs[i].Y) < rowTolerance {
			glyphs[i].Y = base
		} else {
			base = glyphs[i].Y
		}
	}
	sort.SliceStable(glyphs, func(i, j int) bool {
		if glyphs[i].Y != glyphs[j].Y {
			return glyphs[i].Y > glyphs[j].Y
		}
		return glyphs[i].X < glyphs[j].X
	})

	var words []word
	for i := 0; i < len(glyphs); {
		j := i + 1
		for j < len(glyphs) && glyphs[j].Y == glyphs[i].Y {
			j++
		}
		for k := i; k < j; {
			ck := glyphs[k]
			s := ck.S
			end := ck.X + ck.W
			charSpace := ck.FontSize / 6
			wordSpace := ck.FontSize * 2 / 3
			l := k + 1
			for ; l < j; l++ {
				cl := glyphs[l]
				if cl.X <= end+charSpace {
					s += cl.S
				} else if cl.X <= end+wordSpace {
					s += " " + cl.S
				} else {
					break
				}
				end = math.Max(end, cl.X+cl.W)
			}
			if text := strings.Join(strings.Fields(s), " "); text != "" {
				words = append(words, word{x: ck.X, end: end, y: ck.Y, s: text})
			}
			k = l
		}
		i = j
	}
	return words
}

func groupRows(words []word) [][]word {
	var rows [][]word
	for i, w := range words {
		if i == 0 || w.y != words[i-1].y {
			rows = append(rows, nil)
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], w)
	}
	return rows
}

func columnSpans(rows [][]word) []span {
	var extents []span
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		for _, w := range row {
			extents = append(extents, span{w.x, w.end})
		}
	}
	if len(extents) == 0 {
		for _, row := range rows {
			for _, w := range row {
				extents = append(extents, span{w.x, w.end})
			}
		}
	}

	sort.Slice(extents, func(i, j int) bool { return extents[i].x < extents[j].x })
	cols := []span{extents[0]}
	for _, e := range extents[1:] {
		last := &cols[len(cols)-1]
		if e.x <= last.end+columnGap {
			last.end = math.Max(last.end, e.end)
			continue
		}
		cols = append(cols, e)
	}
	return cols
}

// bestColumn picks the column with the largest overlap, or the one whose
// start is nearest when nothing overlaps.
func bestColumn(w word, cols []span) int {
	best, bestOverlap := -1, 0.0
	for i, c := range cols {
		if o := math.Min(w.end, c.end) - math.Max(w.x, c.x); o > bestOverlap {
			best, bestOverlap = i, o
		}
	}
	if best >= 0 {
		return best
	}
	best = 0
	for i, c := range cols {
		if math.Abs(w.x-c.x) < math.Abs(w.x-cols[best].x) {
			best = i
		}
	}
	return best
}
