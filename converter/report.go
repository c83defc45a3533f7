package converter

// report.go renders an extraction as an HTML document and derives the
// Markdown summary returned to CLI and MCP callers from that same HTML.

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"

	"github.com/Cortexa-LLC/mcp/src/billextract/billing"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
table { border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 2px 6px; }
td.num { text-align: right; }
.hl { background: #ffff00; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<ul>
<li>Source: {{.Source}}</li>
<li>Table type: {{.TableType}}</li>
<li>Pages: {{.Pages}}</li>
<li>Records: {{.Records}}</li>
</ul>
{{range .Sheets}}
<h2>{{.Name}}</h2>
{{if .Rows}}
<table>
<thead><tr>{{range .Headers}}<th{{if .Highlight}} class="hl"{{end}}>{{.Text}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td{{if .Numeric}} class="num"{{end}}>{{.Text}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{else}}
<p>No records.</p>
{{end}}
{{end}}
<h2>Pages</h2>
<table>
<thead><tr><th>Page</th><th>Rows</th><th>Records</th><th>Skipped</th><th>Stopped</th><th>Defaulted</th></tr></thead>
<tbody>
{{range .Stats}}<tr><td>{{.Page}}</td><td>{{.Rows}}</td><td>{{.Records}}</td><td>{{.Skipped}}</td><td>{{.Stopped}}</td><td>{{.Defaulted}}</td></tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

type reportCell struct {
	Text      string
	Numeric   bool
	Highlight bool
}

type reportSheet struct {
	Name    string
	Headers []reportCell
	Rows    [][]reportCell
}

type reportData struct {
	Title     string
	Source    string
	TableType string
	Pages     string
	Records   int
	Sheets    []reportSheet
	Stats     []billing.PageStat
}

// reporter owns the HTML to Markdown converter.
type reporter struct {
	htmlConverter *md.Converter
}

func newReporter() *reporter {
	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.Table())
	return &reporter{htmlConverter: conv}
}

// HTML renders res as a standalone document.
func (r *reporter) HTML(source string, pages []int, res *billing.Result, mode billing.ValueMode) (string, error) {
	data := reportData{
		Title:     "Invoice extraction",
		Source:    source,
		TableType: res.TableType.String(),
		Pages:     billing.FormatPages(pages),
		Records:   res.Records(),
		Stats:     res.Pages,
	}
	for _, sh := range res.Sheets() {
		rs := reportSheet{Name: sh.Name}
		for _, h := range sh.Layout.Headers() {
			rs.Headers = append(rs.Headers, reportCell{Text: h, Highlight: billing.IsHighlighted(h)})
		}
		for _, row := range sh.Rows(mode) {
			cells := make([]reportCell, len(row))
			for i, v := range row {
				cells[i] = reportText(v)
			}
			rs.Rows = append(rs.Rows, cells)
		}
		data.Sheets = append(data.Sheets, rs)
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// Markdown converts a rendered report to Markdown.
func (r *reporter) Markdown(html string) (string, error) {
	out, err := r.htmlConverter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert report to markdown: %w", err)
	}
	return out, nil
}

func reportText(v any) reportCell {
	if f, ok := v.(float64); ok {
		return reportCell{Text: strconv.FormatFloat(f, 'f', 2, 64), Numeric: true}
	}
	return reportCell{Text: cellText(v)}
}

// writeReport writes html to path through a temporary file in the same
// directory.
func writeReport(path, html string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".billextract-*.html")
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.WriteString(html); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
