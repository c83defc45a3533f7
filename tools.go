package main

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/Cortexa-LLC/mcp/src/billextract/converter"
)

// MCP tool parameter key constants, shared between schema definitions and
// argument extraction so a typo in one place is caught by the other.
const (
	argPDFPath    = "pdf_path"
	argTableType  = "table_type"
	argPages      = "pages"
	argOutputPath = "output_path"
	argMode       = "mode"
	argReportPath = "report_path"
	argPath       = "path"
)

// registerTools binds MCP tool definitions to their handlers.
func registerTools(s *server.MCPServer, conv extractor, log logrus.FieldLogger) {
	h := &toolHandlers{conv: conv, log: log}

	// extract_invoice_tables: PDF pages to workbook
	s.AddTool(
		mcp.NewTool("extract_invoice_tables",
			mcp.WithDescription("Extract the subscriber table from selected pages of a telecom invoice PDF and save it as an Excel workbook. "+
				"Returns a Markdown summary of the extracted rows."),
			mcp.WithString(argPDFPath,
				mcp.Required(),
				mcp.Description("Absolute path of the invoice PDF, or of a directory holding it"),
			),
			mcp.WithString(argTableType,
				mcp.Required(),
				mcp.Description("Table layout to extract"),
				mcp.Enum("hardware", "raw"),
			),
			mcp.WithString(argPages,
				mcp.Required(),
				mcp.Description("Pages to extract, e.g. 1,3,5-7"),
			),
			mcp.WithString(argOutputPath,
				mcp.Required(),
				mcp.Description("Absolute path of the .xlsx file to write"),
			),
			mcp.WithString(argMode,
				mcp.Description("How amount cells are written"),
				mcp.Enum("numeric", "verbatim"),
			),
			mcp.WithString(argReportPath,
				mcp.Description("Optional path for an HTML report"),
			),
		),
		h.extract,
	)

	// preview_workbook: render an xlsx as Markdown
	s.AddTool(
		mcp.NewTool("preview_workbook",
			mcp.WithDescription("Render every sheet of an Excel workbook as a Markdown table."),
			mcp.WithString(argPath,
				mcp.Required(),
				mcp.Description("Absolute path of the .xlsx file"),
			),
		),
		h.preview,
	)

	// get_extraction_info: layouts, rules and configuration
	s.AddTool(
		mcp.NewTool("get_extraction_info",
			mcp.WithDescription("Return the table layouts, row classification rules and active configuration."),
		),
		h.info,
	)
}

type toolHandlers struct {
	conv extractor
	log  logrus.FieldLogger
}

func (h *toolHandlers) extract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	r := converter.Request{
		PDFPath:    stringArg(args, argPDFPath),
		TableType:  stringArg(args, argTableType),
		Pages:      stringArg(args, argPages),
		OutputPath: stringArg(args, argOutputPath),
		Mode:       stringArg(args, argMode),
		ReportPath: stringArg(args, argReportPath),
	}

	sum, err := h.conv.Extract(ctx, r)
	if err != nil {
		if converter.IsInputError(err) || errors.Is(err, context.Canceled) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		h.log.WithError(err).WithField("pdf", r.PDFPath).Error("extraction failed")
		return mcp.NewToolResultError(errExtractFailed.Error() + ": " + err.Error()), nil
	}
	return mcp.NewToolResultText("Data extracted and saved to " + sum.OutputPath + "\n\n" + sum.Markdown), nil
}

func (h *toolHandlers) preview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := stringArg(req.Params.Arguments, argPath)
	if path == "" {
		return mcp.NewToolResultError(argPath + " is required"), nil
	}
	out, err := h.conv.PreviewWorkbook(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (h *toolHandlers) info(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(h.conv.GetConversionInfo(ctx)), nil
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}
