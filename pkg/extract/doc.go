// Package extract pulls plain text out of PDF documents and exposes the
// extraction as a small HTTP service.
//
// # Architecture
//
// PDFExtractor parses uploaded bytes with a pure-Go PDF reader and
// returns the trimmed text plus the page count. Scanned or image-based
// documents yield an empty text with no error so callers can tell "no
// text layer" apart from a corrupt file.
//
// Handler wraps a TextExtractor with a chi router serving:
//
//	GET  /health                 liveness probe
//	POST /extract-pdf-text       single document, multipart field "pdf"
//	POST /extract-multiple-pdfs  up to 5 documents, multipart field "pdfs"
//
// Uploads are capped at 10MB and must be PDFs. Responses are JSON; the
// extracted text feeds the compose package's attachment context.
//
// # Quick Start
//
//	handler := extract.NewHandler(extract.NewPDFExtractor())
//	http.ListenAndServe(":3001", handler.Router())
package extract
