package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Cortexa-LLC/mcp/src/billextract/billing"
	"github.com/Cortexa-LLC/mcp/src/billextract/converter"
)

// errExtractFailed is what the user sees for failures that are not about
// their input; the cause goes to the log.
var errExtractFailed = errors.New("failed to extract data from the PDF; see the log for details")

func newExtractCmd(a *app) *cobra.Command {
	var req converter.Request

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract a subscriber table from selected invoice pages into a workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sum, err := a.conv.Extract(cmd.Context(), req)
			if err != nil {
				if converter.IsInputError(err) {
					return err
				}
				a.log.WithError(err).WithField("pdf", req.PDFPath).Error("extraction failed")
				return errExtractFailed
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Data extracted and saved to %s\n", sum.OutputPath)
			fmt.Fprintf(out, "Pages: %s, records: %d\n", billing.FormatPages(sum.Pages), sum.Result.Records())
			if sum.Result.Review != nil {
				fmt.Fprintf(out, "Review sheet: %d records\n", len(sum.Result.Review.Records))
			}
			if sum.ReportPath != "" {
				fmt.Fprintf(out, "Report written to %s\n", sum.ReportPath)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.PDFPath, "pdf", "", "invoice PDF, or a directory holding one")
	f.StringVar(&req.TableType, "type", "", "table type (hardware or raw)")
	f.StringVar(&req.Pages, "pages", "", "pages to extract, e.g. 1,3,5-7")
	f.StringVarP(&req.OutputPath, "out", "o", "", "output workbook (.xlsx)")
	f.StringVar(&req.Mode, "mode", "", "amount cells: numeric or verbatim (default from BILLEXTRACT_OUTPUT_MODE)")
	f.StringVar(&req.ReportPath, "report", "", "also write an HTML report to this path")
	return cmd
}
