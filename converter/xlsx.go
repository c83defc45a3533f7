package converter

// xlsx.go writes extraction results to a workbook and reads workbooks back
// for preview, using the excelize library.

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Cortexa-LLC/mcp/src/billextract/billing"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxSheetHeading = "## " // Markdown heading level for each sheet name
	defaultSheet     = "Sheet1"
	highlightColor   = "FFFF00"
	columnPadding    = 2
)

// writeWorkbook writes every sheet of res to path. The file is assembled in
// a temporary file next to path and renamed into place, so a failed write
// never leaves a partial workbook behind.
func writeWorkbook(path string, res *billing.Result, mode billing.ValueMode) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sh := range res.Sheets() {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sh.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return fmt.Errorf("add sheet %q: %w", sh.Name, err)
		}

		// Header emphasis goes on the review sheet, which is checked by hand.
		if err := fillSheet(f, sh, mode, sh.Name == billing.ReviewSheetName); err != nil {
			return fmt.Errorf("write sheet %q: %w", sh.Name, err)
		}
	}

	return saveAtomic(f, path)
}

func fillSheet(f *excelize.File, sh *billing.Sheet, mode billing.ValueMode, highlight bool) error {
	headers := sh.Layout.Headers()
	rows := sh.Rows(mode)

	widths := make([]int, len(headers))
	for c, h := range headers {
		if err := setCell(f, sh.Name, c+1, 1, h); err != nil {
			return err
		}
		widths[c] = utf8.RuneCountInString(h)
	}
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			if err := setCell(f, sh.Name, c+1, r+2, v); err != nil {
				return err
			}
			widths[c] = max(widths[c], utf8.RuneCountInString(cellText(v)))
		}
	}

	for c, w := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sh.Name, col, col, float64(w+columnPadding)); err != nil {
			return err
		}
	}

	if !highlight {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{highlightColor}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	for c, h := range headers {
		if !billing.IsHighlighted(h) {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sh.Name, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, v)
}

func saveAtomic(f *excelize.File, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".billextract-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp workbook: %w", err)
	}
	name := tmp.Name()
	_ = tmp.Close()

	if err := f.SaveAs(name); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("save workbook: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("move workbook into place: %w", err)
	}
	return nil
}

// cellText is the display form of a sheet value.
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// previewWorkbook renders every sheet of an xlsx file as a level-2 heading
// followed by a Markdown table.
func previewWorkbook(filePath string) (string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return "", fmt.Errorf("open xlsx %s: %w", filePath, err)
	}
	defer func() { _ = f.Close() }()

	var sb strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return sb.String(), fmt.Errorf("read sheet %q in %s: %w", sheet, filePath, err)
		}
		if len(rows) == 0 {
			continue
		}

		sb.WriteString(xlsxSheetHeading + sheet + "\n\n")
		sb.WriteString(renderMarkdownTable(rows))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
