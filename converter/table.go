package converter

// table.go renders workbook sheets as GitHub-Flavored Markdown tables.
// MCP clients only receive text, so preview_workbook and the preview command
// show a written workbook this way instead of returning the xlsx bytes.

import "strings"

const minColWidth = 3 // minimum separator width for a valid Markdown table (---)

// renderMarkdownTable converts a [][]string into a Markdown table. The first
// row is the header. Columns are padded to their widest cell.
func renderMarkdownTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	maxCols := 0
	for _, row := range rows {
		maxCols = max(maxCols, len(row))
	}
	if maxCols == 0 {
		return ""
	}

	widths := make([]int, maxCols)
	for i := range widths {
		widths[i] = minColWidth
	}
	for _, row := range rows {
		for i, raw := range row {
			widths[i] = max(widths[i], len(escapePipes(raw)))
		}
	}

	cell := func(row []string, col int) string {
		if col < len(row) {
			return escapePipes(row[col])
		}
		return ""
	}
	line := func(row []string) string {
		var sb strings.Builder
		sb.WriteString("|")
		for i := 0; i < maxCols; i++ {
			c := cell(row, i)
			sb.WriteString(" " + c + strings.Repeat(" ", widths[i]-len(c)) + " |")
		}
		sb.WriteByte('\n')
		return sb.String()
	}

	var sb strings.Builder
	sb.WriteString(line(rows[0]))
	sb.WriteString("|")
	for i := 0; i < maxCols; i++ {
		sb.WriteString(" " + strings.Repeat("-", widths[i]) + " |")
	}
	sb.WriteByte('\n')
	for _, row := range rows[1:] {
		sb.WriteString(line(row))
	}
	return sb.String()
}

// escapePipes keeps | inside a cell from ending it.
func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
