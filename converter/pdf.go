package converter

// pdf.go reads page tables from the PDF text layer.
//
// Uses github.com/ledongthuc/pdf for parsing. Only the embedded text layer
// is read; scanned (image-only) invoices yield empty grids.

import (
	"context"
	"fmt"

	"github.com/Cortexa-LLC/mcp/src/billextract/billing"
	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
)

// pdfTableReader is the default TableReader.
type pdfTableReader struct {
	log logrus.FieldLogger
}

// ReadTables returns one grid per requested page, in request order.
func (r *pdfTableReader) ReadTables(ctx context.Context, path string, pages []int) (out []billing.Page, err error) {
	// The content stream interpreter panics on malformed operators.
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, fmt.Errorf("parse pdf %s: %v", path, p)
		}
	}()

	f, doc, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	numPages := doc.NumPage()
	for _, n := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if n < 1 || n > numPages {
			return nil, fmt.Errorf("page %d out of range (document has %d pages)", n, numPages)
		}

		p := doc.Page(n)
		var grid billing.Grid
		if !p.V.IsNull() {
			grid = buildGrid(p.Content().Text)
		}
		r.log.WithFields(logrus.Fields{
			"page":    n,
			"rows":    len(grid),
			"columns": grid.Width(),
		}).Debug("read page table")
		out = append(out, billing.Page{Number: n, Grid: grid})
	}
	return out, nil
}
