package converter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cortexa-LLC/mcp/src/billextract/billing"
)

func hardwareRequest(t *testing.T) Request {
	t.Helper()
	return Request{
		PDFPath:    writeTempFile(t, "invoice.pdf", "%PDF-1.4"),
		TableType:  "hardware",
		Pages:      "1",
		OutputPath: filepath.Join(t.TempDir(), "out.xlsx"),
	}
}

func TestExtract_Hardware(t *testing.T) {
	tables := &fakeTables{pages: []billing.Page{{Number: 1, Grid: hardwareGrid}}}
	c, hook := newTestConverter(t, nil, tables)
	req := hardwareRequest(t)

	sum, err := c.Extract(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, req.PDFPath, sum.PDFPath)
	assert.Equal(t, []int{1}, sum.Pages)
	require.Len(t, sum.Result.Main.Records, 2)
	assert.Nil(t, sum.Result.Review)

	john := sum.Result.Main.Records[0]
	assert.Equal(t, "John", john.FirstName)
	assert.Equal(t, "Smith", john.LastName)
	assert.Equal(t, "604-555-1234", john.ContactNumber)

	rows, err := openWorkbook(t, req.OutputPath).GetRows(billing.MainSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Jane", "Doe", "604-555-5678", "200", "10", "190", "0", "0"}, rows[2])

	assert.Contains(t, sum.Markdown, "Jane")
	assert.Contains(t, sum.Markdown, "Records: 2")

	var messages []string
	for _, e := range hook.AllEntries() {
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "extracting invoice tables")
	assert.Contains(t, messages, "scanned page")
	assert.Contains(t, messages, "workbook written")
}

func TestExtract_ReviewPages(t *testing.T) {
	cfg := testConfig()
	cfg.ReviewPages = []int{2}
	tables := &fakeTables{pages: []billing.Page{
		{Number: 1, Grid: hardwareGrid},
		{Number: 2, Grid: billing.Grid{{"Ann One", "1", "2", "3", "4", "5"}, {"604 555-0001"}}},
	}}
	c, _ := newTestConverter(t, cfg, tables)
	req := hardwareRequest(t)
	req.Pages = "1-2"

	sum, err := c.Extract(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, sum.Result.Review)
	assert.Len(t, sum.Result.Main.Records, 2)
	assert.Len(t, sum.Result.Review.Records, 1)

	assert.Equal(t, []string{billing.MainSheetName, billing.ReviewSheetName}, openWorkbook(t, req.OutputPath).GetSheetList())
}

func TestExtract_PageOrderIsPreserved(t *testing.T) {
	tables := &fakeTables{pages: []billing.Page{
		{Number: 1, Grid: billing.Grid{{"Ann One", "1", "1", "1", "1", "1"}, {"604 555-0001"}}},
		{Number: 2, Grid: billing.Grid{{"Bob Two", "2", "2", "2", "2", "2"}, {"604 555-0002"}}},
	}}
	c, _ := newTestConverter(t, nil, tables)
	req := hardwareRequest(t)
	req.Pages = "2,1"

	sum, err := c.Extract(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, sum.Result.Main.Records, 2)
	assert.Equal(t, "Bob", sum.Result.Main.Records[0].FirstName)
	assert.Equal(t, "Ann", sum.Result.Main.Records[1].FirstName)
}

func TestExtract_Report(t *testing.T) {
	tables := &fakeTables{pages: []billing.Page{{Number: 1, Grid: hardwareGrid}}}
	c, _ := newTestConverter(t, nil, tables)
	req := hardwareRequest(t)
	req.ReportPath = filepath.Join(t.TempDir(), "report.html")

	_, err := c.Extract(context.Background(), req)
	require.NoError(t, err)

	data, err := os.ReadFile(req.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1>Invoice extraction</h1>")
	assert.Contains(t, string(data), "John")
}

func TestExtract_ReportFailureLeavesNoWorkbook(t *testing.T) {
	tables := &fakeTables{pages: []billing.Page{{Number: 1, Grid: hardwareGrid}}}
	c, _ := newTestConverter(t, nil, tables)
	req := hardwareRequest(t)
	req.ReportPath = filepath.Join(t.TempDir(), "missing-dir", "report.html")

	_, err := c.Extract(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write report")
	assert.False(t, IsInputError(err))
	assert.NoFileExists(t, req.OutputPath)
	assert.NoFileExists(t, req.ReportPath)
}

func TestExtract_WorkbookFailureRemovesReport(t *testing.T) {
	tables := &fakeTables{pages: []billing.Page{{Number: 1, Grid: hardwareGrid}}}
	c, _ := newTestConverter(t, nil, tables)
	req := hardwareRequest(t)
	req.OutputPath = filepath.Join(t.TempDir(), "missing-dir", "out.xlsx")
	req.ReportPath = filepath.Join(t.TempDir(), "report.html")

	_, err := c.Extract(context.Background(), req)
	require.Error(t, err)
	assert.NoFileExists(t, req.OutputPath)
	assert.NoFileExists(t, req.ReportPath)
}

func TestExtract_VerbatimMode(t *testing.T) {
	tables := &fakeTables{pages: []billing.Page{{Number: 1, Grid: billing.Grid{
		{"Ann One", "$1,200.00", "-", "1,200.00", "0", "0"},
		{"604 555-0001"},
	}}}}
	c, _ := newTestConverter(t, nil, tables)
	req := hardwareRequest(t)
	req.Mode = "verbatim"

	_, err := c.Extract(context.Background(), req)
	require.NoError(t, err)

	rows, err := openWorkbook(t, req.OutputPath).GetRows(billing.MainSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Ann", "One", "604-555-0001", "$1,200.00", "0", "1,200.00", "0", "0"}, rows[1])
}

func TestExtract_InputErrors(t *testing.T) {
	emptyDir := t.TempDir()
	big := writeTempFile(t, "big.pdf", "0123456789")

	tests := []struct {
		name   string
		mutate func(*Request)
		maxLen int64
		want   error
	}{
		{"no pdf", func(r *Request) { r.PDFPath = " " }, 0, ErrNoPDF},
		{"missing pdf", func(r *Request) { r.PDFPath = "/no/such/invoice.pdf" }, 0, ErrNoPDF},
		{"not a pdf", func(r *Request) { r.PDFPath = writeTempFile(t, "notes.txt", "x") }, 0, ErrUnsupportedFile},
		{"empty directory", func(r *Request) { r.PDFPath = emptyDir }, 0, ErrNoPDF},
		{"too large", func(r *Request) { r.PDFPath = big }, 5, ErrFileTooLarge},
		{"bad table type", func(r *Request) { r.TableType = "summary" }, 0, billing.ErrInvalidTableType},
		{"no pages", func(r *Request) { r.Pages = "" }, 0, ErrNoPages},
		{"bad pages", func(r *Request) { r.Pages = "5-2" }, 0, billing.ErrInvalidPageRange},
		{"zero page", func(r *Request) { r.Pages = "0" }, 0, billing.ErrInvalidPageRange},
		{"no output", func(r *Request) { r.OutputPath = "" }, 0, ErrNoOutput},
		{"csv output", func(r *Request) { r.OutputPath = "out.csv" }, 0, ErrUnsupportedFile},
		{"bad mode", func(r *Request) { r.Mode = "text" }, 0, billing.ErrInvalidValueMode},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			if tc.maxLen > 0 {
				cfg.MaxFileSizeBytes = tc.maxLen
			}
			tables := &fakeTables{}
			c, _ := newTestConverter(t, cfg, tables)
			req := hardwareRequest(t)
			tc.mutate(&req)

			_, err := c.Extract(context.Background(), req)
			require.ErrorIs(t, err, tc.want)
			assert.True(t, IsInputError(err))
			assert.Zero(t, tables.calls, "reader must not run on invalid input")
			if req.OutputPath != "" {
				assert.NoFileExists(t, req.OutputPath)
			}
		})
	}
}

func TestExtract_DirectoryPicksFirstPDF(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "0-notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF"), 0o600))
	}

	c, _ := newTestConverter(t, nil, &fakeTables{pages: []billing.Page{{Number: 1, Grid: hardwareGrid}}})
	req := hardwareRequest(t)
	req.PDFPath = dir

	sum, err := c.Extract(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.PDF"), sum.PDFPath)
}

func TestExtract_ReaderError(t *testing.T) {
	tables := &fakeTables{err: errors.New("page 9 out of range (document has 2 pages)")}
	c, _ := newTestConverter(t, nil, tables)
	req := hardwareRequest(t)

	_, err := c.Extract(context.Background(), req)
	require.ErrorIs(t, err, ErrExtraction)
	assert.False(t, IsInputError(err))
	assert.Contains(t, err.Error(), "page 9 out of range")
	assert.NoFileExists(t, req.OutputPath)
}

func TestExtract_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tables := &fakeTables{err: context.Canceled}
	c, _ := newTestConverter(t, nil, tables)

	_, err := c.Extract(ctx, hardwareRequest(t))
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrExtraction)
}

func TestExtract_RulesFileError(t *testing.T) {
	cfg := testConfig()
	cfg.RulesFile = writeTempFile(t, "rules.yaml", "skip_keywords: [")
	tables := &fakeTables{}
	c, _ := newTestConverter(t, cfg, tables)

	_, err := c.Extract(context.Background(), hardwareRequest(t))
	require.Error(t, err)
	assert.Zero(t, tables.calls)
}

func TestExtract_GeneratedPDF(t *testing.T) {
	var items []textItem
	items = append(items, invoiceRow(700, "Mary Ann Smith", "1,250.00", "-", "1,250.00", "100", "80")...)
	items = append(items, invoiceRow(688, "778 555-0199")...)
	items = append(items, invoiceRow(676, "Summary of mobile data sharing")...)
	items = append(items, invoiceRow(664, "Late Entry", "1", "1", "1", "1", "1")...)

	c, _ := newTestConverter(t, nil, nil)
	req := Request{
		PDFPath:    makePDF(t, items),
		TableType:  "Hardware",
		Pages:      "1",
		OutputPath: filepath.Join(t.TempDir(), "out.xlsx"),
	}

	sum, err := c.Extract(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, sum.Result.Main.Records, 1)

	rec := sum.Result.Main.Records[0]
	assert.Equal(t, "Mary", rec.FirstName)
	assert.Equal(t, "Ann Smith", rec.LastName)
	assert.Equal(t, "778-555-0199", rec.ContactNumber)
	assert.True(t, sum.Result.Pages[0].Stopped)
}

func TestNewConverter_Defaults(t *testing.T) {
	c := NewConverter(testConfig())
	assert.IsType(t, &pdfTableReader{}, c.tables)
	assert.Equal(t, logrus.StandardLogger(), c.log)
}

func TestPreviewWorkbook(t *testing.T) {
	c, _ := newTestConverter(t, nil, nil)
	path := makeXLSX(t, "Extracted Data", [][]string{{"First Name"}, {"Ann"}})

	out, err := c.PreviewWorkbook(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, out, "## Extracted Data")
	assert.Contains(t, out, "Ann")
}

func TestPreviewWorkbook_Errors(t *testing.T) {
	c, _ := newTestConverter(t, nil, nil)

	_, err := c.PreviewWorkbook(context.Background(), "/no/such.xlsx")
	assert.Error(t, err)

	_, err = c.PreviewWorkbook(context.Background(), writeTempFile(t, "a.csv", "x"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	cfg := testConfig()
	cfg.MaxFileSizeBytes = 1
	small, _ := newTestConverter(t, cfg, nil)
	_, err = small.PreviewWorkbook(context.Background(), makeXLSX(t, "Sheet1", [][]string{{"a"}}))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestGetConversionInfo(t *testing.T) {
	cfg := testConfig()
	cfg.ReviewPages = []int{26}
	cfg.ExtraKeywords = []string{"SPAAR"}
	c, _ := newTestConverter(t, cfg, nil)

	info := c.GetConversionInfo(context.Background())
	assert.Contains(t, info, "### Hardware")
	assert.Contains(t, info, "### Raw")
	assert.Contains(t, info, "Starting Device Discount Balance ($)")
	assert.Contains(t, info, "Partial Charges ($)")
	assert.Contains(t, info, "SPAAR")
	assert.Contains(t, info, "- Review pages: 26")
	assert.Contains(t, info, "- Stop markers: summary of mobile data sharing")
	assert.Contains(t, info, "- Max file size: 50 MB")
	assert.Contains(t, info, "- Output mode: numeric")
}

func TestGetConversionInfo_RulesFileError(t *testing.T) {
	cfg := testConfig()
	cfg.RulesFile = "/no/such/rules.yaml"
	c, _ := newTestConverter(t, cfg, nil)

	info := c.GetConversionInfo(context.Background())
	assert.Contains(t, info, "Rules file error")
	assert.Contains(t, info, "- Review pages: none")
}
