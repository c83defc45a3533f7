package converter

// Shared test helpers for the converter package.

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Cortexa-LLC/mcp/src/billextract/billing"
	"github.com/Cortexa-LLC/mcp/src/billextract/config"
)

// ---- file factories --------------------------------------------------------

// writeTempFile writes content to a temp file with the given name and returns
// its path. The file is cleaned up automatically when the test ends.
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// makeXLSX builds a minimal .xlsx file with one sheet and returns its path.
func makeXLSX(t *testing.T, sheet string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for r, row := range rows {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, f.SetCellValue(sheet, cell, val))
		}
	}

	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// textItem is one string drawn at (x, y) in 10pt Courier.
type textItem struct {
	x, y float64
	s    string
}

// makePDF writes a PDF with one page per entry of pages. Every page uses a
// monospaced font with explicit widths so glyph positions are predictable:
// each character is 6pt wide at 10pt.
func makePDF(t *testing.T, pages ...[]textItem) string {
	t.Helper()

	var objs []string
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	widths := strings.TrimSpace(strings.Repeat("600 ", 95))

	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths ["+widths+"] >>",
	)
	for i, items := range pages {
		var content strings.Builder
		for _, it := range items {
			s := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(it.s)
			fmt.Fprintf(&content, "BT /F1 10 Tf %.2f %.2f Td (%s) Tj ET\n", it.x, it.y, s)
		}
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)

	return writeTempFile(t, "invoice.pdf", buf.String())
}

// invoiceRow lays out a label followed by right-hand amount columns, the
// way the hardware table prints a subscriber line.
func invoiceRow(y float64, label string, amounts ...string) []textItem {
	items := []textItem{{x: 50, y: y, s: label}}
	for i, a := range amounts {
		items = append(items, textItem{x: 250 + float64(i)*70, y: y, s: a})
	}
	return items
}

// glyphs splits s into per-character pdf.Text values the way the content
// stream interpreter reports them for a 10pt monospaced font.
func glyphs(x, y float64, s string) []pdf.Text {
	const size, advance = 10.0, 6.0
	var out []pdf.Text
	for i, r := range s {
		out = append(out, pdf.Text{
			Font:     "Courier",
			FontSize: size,
			X:        x + float64(i)*advance,
			Y:        y,
			W:        advance,
			S:        string(r),
		})
	}
	return out
}

// ---- converter fixtures ----------------------------------------------------

// fakeTables is a TableReader returning canned pages.
type fakeTables struct {
	pages []billing.Page
	err   error
	calls int
}

func (f *fakeTables) ReadTables(_ context.Context, _ string, pages []int) ([]billing.Page, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	byNum := make(map[int]billing.Page, len(f.pages))
	for _, p := range f.pages {
		byNum[p.Number] = p
	}
	out := make([]billing.Page, 0, len(pages))
	for _, n := range pages {
		out = append(out, billing.Page{Number: n, Grid: byNum[n].Grid})
	}
	return out, nil
}

func testConfig() *config.Config {
	return &config.Config{
		MaxFileSizeBytes: config.DefaultMaxFileBytes,
		OutputMode:       billing.Numeric,
	}
}

func newTestConverter(t *testing.T, cfg *config.Config, tables TableReader) (*Converter, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	if cfg == nil {
		cfg = testConfig()
	}
	opts := []Option{WithLogger(logger)}
	if tables != nil {
		opts = append(opts, WithTableReader(tables))
	}
	return NewConverter(cfg, opts...), hook
}

var hardwareGrid = billing.Grid{
	{"John Smith", "100", "0", "100", "50", "50"},
	{"604 555-1234", "", "", "", "", ""},
	{"SAMSUNG GALAXY", "", "", "", "", ""},
	{"Jane Doe", "200", "10", "190", "0", "0"},
	{"604 555-5678", "", "", "", "", ""},
}
