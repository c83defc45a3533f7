package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Cortexa-LLC/mcp/src/billextract/config"
	"github.com/Cortexa-LLC/mcp/src/billextract/converter"
)

// Server identity constants.
const (
	serverName    = "billextract"
	serverVersion = "0.1.0"
)

// extractor is the part of *converter.Converter used by the commands and
// MCP tools, so tests can inject a mock.
type extractor interface {
	Extract(ctx context.Context, req converter.Request) (*converter.Summary, error)
	PreviewWorkbook(ctx context.Context, path string) (string, error)
	GetConversionInfo(ctx context.Context) string
}

// app carries what PersistentPreRunE builds for the subcommands.
type app struct {
	log  *logrus.Logger
	conv extractor // set up front by tests, built from config otherwise
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{}
	cmd := newRootCmd(a)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	var envFile, logLevel, logFormat string

	root := &cobra.Command{
		Use:   serverName,
		Short: "Extract subscriber tables from telecom invoice PDFs into Excel",
		Long: `Extract subscriber tables from telecom invoice PDFs into Excel.

Each subscriber occupies two rows in the invoice: a name row carrying the
amounts and a contact number row below it. The Hardware table carries device
balances, the Raw table carries per-line charges.

Examples:
  billextract extract --pdf invoice.pdf --type hardware --pages 3-5 --out hardware.xlsx
  billextract extract --pdf ./bills --type raw --pages 20-27 --out raw.xlsx --report raw.html
  billextract preview raw.xlsx
  billextract serve`,
		Version:       serverVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadEnvFile(envFile); err != nil {
				return err
			}
			cfg := config.Load()
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = logFormat
			}

			log, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.log = log
			if a.conv == nil {
				a.conv = converter.NewConverter(cfg, converter.WithLogger(log))
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", config.DefaultLogFormat, "log format (text, json)")

	root.AddCommand(
		newExtractCmd(a),
		newPreviewCmd(a),
		newInfoCmd(a),
		newServeCmd(a),
	)
	return root
}

// newLogger writes to w (stderr in production: stdout is the MCP transport).
func newLogger(cfg *config.Config, w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q (expected text or json)", cfg.LogFormat)
	}
	return log, nil
}
