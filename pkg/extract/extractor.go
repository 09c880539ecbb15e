package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Result holds the text extracted from a single PDF document.
type Result struct {
	// Text is the extracted plain text, trimmed. Empty for scanned or
	// image-based documents.
	Text string

	// Pages is the page count of the document.
	Pages int
}

// TextExtractor pulls plain text out of PDF bytes.
type TextExtractor interface {
	ExtractText(data []byte) (*Result, error)
}

// PDFExtractor is the default TextExtractor built on a pure-Go PDF parser.
type PDFExtractor struct{}

// NewPDFExtractor returns a ready-to-use extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText parses the document and returns its plain text and page
// count. A valid PDF with no extractable text (a scanned document)
// returns an empty Text with no error.
func (e *PDFExtractor) ExtractText(data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	text, err := io.ReadAll(plain)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	return &Result{
		Text:  strings.TrimSpace(string(text)),
		Pages: reader.NumPage(),
	}, nil
}

// Compile-time interface assertion
var _ TextExtractor = (*PDFExtractor)(nil)
