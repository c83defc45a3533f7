package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Cortexa-LLC/mcp/src/billextract/billing"
	"github.com/Cortexa-LLC/mcp/src/billextract/config"
)

// TableReader extracts one grid per requested page from a document.
type TableReader interface {
	ReadTables(ctx context.Context, path string, pages []int) ([]billing.Page, error)
}

// Request describes one extraction run. Fields are the raw user inputs and
// are validated by Extract.
type Request struct {
	// PDFPath is a PDF file, or a directory holding one.
	PDFPath   string
	TableType string
	// Pages uses the "1,3,5-7" range syntax.
	Pages      string
	OutputPath string
	// ReportPath, when set, receives an HTML report.
	ReportPath string
	// Mode is "numeric" or "verbatim"; empty uses the configured mode.
	Mode string
}

// Summary is returned by a successful Extract.
type Summary struct {
	PDFPath    string
	OutputPath string
	ReportPath string
	Pages      []int
	Result     *billing.Result
	// Markdown is a readable rendering of the extracted sheets.
	Markdown string
}

// Converter runs invoice extractions: validate the selection, read page
// grids, rebuild records and write the workbook.
type Converter struct {
	cfg      *config.Config
	tables   TableReader
	reporter *reporter
	log      logrus.FieldLogger
}

// Option customises a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Converter) { c.log = l }
}

// WithTableReader replaces the PDF table reader.
func WithTableReader(r TableReader) Option {
	return func(c *Converter) { c.tables = r }
}

// NewConverter creates a Converter. A nil cfg loads the environment config.
func NewConverter(cfg *config.Config, opts ...Option) *Converter {
	if cfg == nil {
		cfg = config.Load()
	}
	c := &Converter{
		cfg:      cfg,
		reporter: newReporter(),
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tables == nil {
		c.tables = &pdfTableReader{log: c.log}
	}
	return c
}

type validRequest struct {
	pdfPath   string
	tableType billing.TableType
	pages     []int
	mode      billing.ValueMode
}

// Extract runs one extraction. Selection problems are returned before the
// PDF is read (see IsInputError). The report is written before the workbook
// and removed again if the workbook cannot be saved, so a failed run leaves
// neither file behind.
func (c *Converter) Extract(ctx context.Context, req Request) (*Summary, error) {
	v, err := c.validate(req)
	if err != nil {
		return nil, err
	}
	rules, err := c.cfg.Rules()
	if err != nil {
		return nil, err
	}

	log := c.log.WithFields(logrus.Fields{
		"pdf":   v.pdfPath,
		"table": v.tableType.Key(),
		"pages": billing.FormatPages(v.pages),
	})
	log.Info("extracting invoice tables")

	pages, err := c.tables.ReadTables(ctx, v.pdfPath, v.pages)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	res := billing.Aggregate(pages, v.tableType, rules)
	for _, st := range res.Pages {
		log.WithFields(logrus.Fields{
			"page":      st.Page,
			"rows":      st.Rows,
			"records":   st.Records,
			"skipped":   st.Skipped,
			"stopped":   st.Stopped,
			"defaulted": st.Defaulted,
			"review":    rules.IsReviewPage(st.Page),
		}).Debug("scanned page")
	}

	html, err := c.reporter.HTML(v.pdfPath, v.pages, res, v.mode)
	if err != nil {
		return nil, err
	}
	summary, err := c.reporter.Markdown(html)
	if err != nil {
		return nil, err
	}
	if req.ReportPath != "" {
		if err := writeReport(req.ReportPath, html); err != nil {
			return nil, err
		}
	}

	if err := writeWorkbook(req.OutputPath, res, v.mode); err != nil {
		if req.ReportPath != "" {
			_ = os.Remove(req.ReportPath)
		}
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"output":  req.OutputPath,
		"records": res.Records(),
	}).Info("workbook written")

	return &Summary{
		PDFPath:    v.pdfPath,
		OutputPath: req.OutputPath,
		ReportPath: req.ReportPath,
		Pages:      v.pages,
		Result:     res,
		Markdown:   summary,
	}, nil
}

func (c *Converter) validate(req Request) (*validRequest, error) {
	if strings.TrimSpace(req.PDFPath) == "" {
		return nil, ErrNoPDF
	}
	pdfPath, err := c.resolvePDF(req.PDFPath)
	if err != nil {
		return nil, err
	}

	tt, err := billing.ParseTableType(req.TableType)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Pages) == "" {
		return nil, ErrNoPages
	}
	pages, err := billing.ParsePages(req.Pages)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.OutputPath) == "" {
		return nil, ErrNoOutput
	}
	if !strings.EqualFold(filepath.Ext(req.OutputPath), ".xlsx") {
		return nil, fmt.Errorf("%w: output must be .xlsx, got %s", ErrUnsupportedFile, req.OutputPath)
	}

	mode := c.cfg.OutputMode
	if req.Mode != "" {
		if mode, err = billing.ParseValueMode(req.Mode); err != nil {
			return nil, err
		}
	}

	return &validRequest{pdfPath: pdfPath, tableType: tt, pages: pages, mode: mode}, nil
}

// resolvePDF checks the selected file, or picks the first PDF of a
// directory.
func (c *Converter) resolvePDF(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found", ErrNoPDF, path)
	}
	if info.IsDir() {
		if path, err = findPDF(path); err != nil {
			return "", err
		}
		if info, err = os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoPDF, err)
		}
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}
	if info.Size() > c.cfg.MaxFileSizeBytes {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, info.Size(), c.cfg.MaxFileSizeBytes)
	}
	return path, nil
}

// findPDF returns the first *.pdf in dir by name.
func findPDF(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoPDF, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: no PDF file in %s", ErrNoPDF, dir)
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0]), nil
}

// PreviewWorkbook renders an existing workbook as Markdown.
func (c *Converter) PreviewWorkbook(_ context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("file not found: %s", path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}
	if info.Size() > c.cfg.MaxFileSizeBytes {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, info.Size(), c.cfg.MaxFileSizeBytes)
	}
	return previewWorkbook(path)
}

// GetConversionInfo returns a Markdown summary of table layouts, rules and
// configuration.
func (c *Converter) GetConversionInfo(_ context.Context) string {
	var sb strings.Builder
	sb.WriteString("# Invoice Extraction Info\n\n## Table Types\n")

	rules, rulesErr := c.cfg.Rules()
	if rulesErr != nil {
		rules = billing.DefaultRules()
	}
	for _, t := range billing.TableTypes() {
		fmt.Fprintf(&sb, "\n### %s\n", t)
		if t == billing.Raw {
			fmt.Fprintf(&sb, "- Columns (with partial charges): %s\n", strings.Join(billing.ResolveLayout(t, 8).Headers(), ", "))
			fmt.Fprintf(&sb, "- Columns (without): %s\n", strings.Join(billing.ResolveLayout(t, 7).Headers(), ", "))
		} else {
			fmt.Fprintf(&sb, "- Columns: %s\n", strings.Join(billing.ResolveLayout(t, 0).Headers(), ", "))
		}
		fmt.Fprintf(&sb, "- Skip keywords: %s\n", strings.Join(rules.SkipKeywords[t], ", "))
	}

	review := billing.FormatPages(rules.ReviewPages)
	if review == "" {
		review = "none"
	}
	fmt.Fprintf(&sb, `
## Rules
- Stop markers: %s
- Review pages: %s
- Highlighted columns: %s

## Configuration
- Max file size: %d MB
- Output mode: %s
`,
		strings.Join(rules.StopMarkers, ", "),
		review,
		strings.Join(billing.HighlightHeaders(), ", "),
		c.cfg.MaxFileSizeMB(),
		c.cfg.OutputMode,
	)
	if rulesErr != nil {
		fmt.Fprintf(&sb, "- Rules file error: %v (defaults shown)\n", rulesErr)
	}
	return sb.String()
}
