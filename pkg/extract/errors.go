package extract

import "errors"

var (
	ErrEmptyFile        = errors.New("file is empty")
	ErrNotPDF           = errors.New("only PDF files are allowed")
	ErrFileTooLarge     = errors.New("PDF file size must be less than 10MB")
	ErrNoFileProvided   = errors.New("no PDF file provided")
	ErrExtractionFailed = errors.New("PDF extraction failed")
)
