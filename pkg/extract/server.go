package extract

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// MaxFileSize caps uploads at 10MB.
	MaxFileSize = 10 << 20

	// MaxBatchFiles caps the batch endpoint at 5 documents per request.
	MaxBatchFiles = 5
)

type extractResponse struct {
	Success    bool   `json:"success"`
	Filename   string `json:"filename"`
	Text       string `json:"text"`
	Pages      int    `json:"pages"`
	Characters int    `json:"characters,omitempty"`
	Message    string `json:"message,omitempty"`
}

type batchItem struct {
	Filename   string `json:"filename"`
	Success    bool   `json:"success"`
	Text       string `json:"text,omitempty"`
	Pages      int    `json:"pages,omitempty"`
	Characters int    `json:"characters,omitempty"`
	Error      string `json:"error,omitempty"`
}

type batchResponse struct {
	Success    bool        `json:"success"`
	TotalFiles int         `json:"totalFiles"`
	Results    []batchItem `json:"results"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Handler serves the PDF extraction HTTP API.
type Handler struct {
	extractor TextExtractor
	log       *slog.Logger
}

// HandlerOption configures the handler.
type HandlerOption func(*Handler)

// WithLogger sets the logger used by the handler. Defaults to a
// discard logger.
func WithLogger(log *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.log = log
	}
}

// NewHandler creates the extraction API handler. Panics if the
// extractor is nil.
func NewHandler(extractor TextExtractor, opts ...HandlerOption) *Handler {
	if extractor == nil {
		panic("extract: extractor is required")
	}

	h := &Handler{
		extractor: extractor,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router returns the HTTP routes for the extraction service.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Post("/extract-pdf-text", h.extractOne)
	r.Post("/extract-multiple-pdfs", h.extractBatch)

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "PDF extraction service is running",
	})
}

func (h *Handler) extractOne(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.readUpload(r, "pdf")
	if err != nil {
		h.writeUploadError(w, r, err)
		return
	}

	result, err := h.extractor.ExtractText(data)
	if err != nil {
		h.log.ErrorContext(r.Context(), "PDF extraction failed",
			slog.String("filename", filename), slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "PDF extraction failed",
			Message: "Unable to extract text from PDF",
		})
		return
	}

	if result.Text == "" {
		writeJSON(w, http.StatusOK, extractResponse{
			Success:  true,
			Filename: filename,
			Text:     "",
			Pages:    result.Pages,
			Message:  "PDF processed but no text found. This might be a scanned PDF or image-based PDF.",
		})
		return
	}

	h.log.InfoContext(r.Context(), "extracted text from PDF",
		slog.String("filename", filename),
		slog.Int("pages", result.Pages),
		slog.Int("characters", len(result.Text)))

	writeJSON(w, http.StatusOK, extractResponse{
		Success:    true,
		Filename:   filename,
		Text:       result.Text,
		Pages:      result.Pages,
		Characters: len(result.Text),
	})
}

func (h *Handler) extractBatch(w http.ResponseWriter, r *http.Request) {
	files, err := h.readUploads(r, "pdfs")
	if err != nil {
		h.writeUploadError(w, r, err)
		return
	}

	results := make([]batchItem, 0, len(files))
	for _, f := range files {
		result, err := h.extractor.ExtractText(f.data)
		if err != nil {
			h.log.ErrorContext(r.Context(), "PDF extraction failed",
				slog.String("filename", f.name), slog.Any("error", err))
			results = append(results, batchItem{
				Filename: f.name,
				Success:  false,
				Error:    "Unable to extract text from PDF",
			})
			continue
		}

		results = append(results, batchItem{
			Filename:   f.name,
			Success:    true,
			Text:       result.Text,
			Pages:      result.Pages,
			Characters: len(result.Text),
		})
	}

	writeJSON(w, http.StatusOK, batchResponse{
		Success:    true,
		TotalFiles: len(files),
		Results:    results,
	})
}

type upload struct {
	name string
	data []byte
}

func (h *Handler) readUpload(r *http.Request, field string) ([]byte, string, error) {
	files, err := h.parseForm(r, field, 1)
	if err != nil {
		return nil, "", err
	}
	return files[0].data, files[0].name, nil
}

func (h *Handler) readUploads(r *http.Request, field string) ([]upload, error) {
	return h.parseForm(r, field, MaxBatchFiles)
}

func (h *Handler) parseForm(r *http.Request, field string, limit int) ([]upload, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxFileSize)
	if err := r.ParseMultipartForm(MaxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, ErrFileTooLarge
		}
		return nil, ErrNoFileProvided
	}

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, ErrNoFileProvided
	}
	if len(headers) > limit {
		headers = headers[:limit]
	}

	uploads := make([]upload, 0, len(headers))
	for _, fh := range headers {
		if !isPDF(fh) {
			return nil, ErrNotPDF
		}
		if fh.Size > MaxFileSize {
			return nil, ErrFileTooLarge
		}

		f, err := fh.Open()
		if err != nil {
			return nil, ErrNoFileProvided
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, ErrNoFileProvided
		}

		uploads = append(uploads, upload{name: fh.Filename, data: data})
	}

	return uploads, nil
}

func isPDF(fh *multipart.FileHeader) bool {
	if fh.Header.Get("Content-Type") == "application/pdf" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf")
}

func (h *Handler) writeUploadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "File too large",
			Message: ErrFileTooLarge.Error(),
		})
	case errors.Is(err, ErrNotPDF):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid file type",
			Message: ErrNotPDF.Error(),
		})
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "No PDF file provided",
			Message: "Please upload a PDF file",
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
