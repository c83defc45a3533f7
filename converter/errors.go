package converter

import (
	"errors"

	"github.com/Cortexa-LLC/mcp/src/billextract/billing"
)

// Input selection errors. They are reported before any extraction starts and
// no output is written.
var (
	ErrNoPDF           = errors.New("no PDF file selected")
	ErrNoPages         = errors.New("no pages given")
	ErrNoOutput        = errors.New("no output path given")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
)

// ErrExtraction wraps failures of the PDF table reader.
var ErrExtraction = errors.New("table extraction failed")

var inputErrors = []error{
	ErrNoPDF,
	ErrNoPages,
	ErrNoOutput,
	ErrUnsupportedFile,
	ErrFileTooLarge,
	billing.ErrInvalidTableType,
	billing.ErrInvalidPageRange,
	billing.ErrInvalidValueMode,
}

// IsInputError reports whether err was caused by the caller's selection
// (file, table type, pages, output) rather than by the extraction itself.
func IsInputError(err error) bool {
	for _, target := range inputErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
