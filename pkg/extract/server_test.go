package extract_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldkit/coldkit/pkg/extract"
)

type stubExtractor struct {
	result *extract.Result
	err    error
}

func (s *stubExtractor) ExtractText(data []byte) (*extract.Result, error) {
	return s.result, s.err
}

func multipartPDF(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	hdr.Set("Content-Type", "application/pdf")

	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()

	handler := extract.NewHandler(&stubExtractor{}).Router()
	rec := doRequest(t, handler, http.MethodGet, "/health", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
}

func TestExtractPDFText(t *testing.T) {
	t.Parallel()

	t.Run("returns extracted text", func(t *testing.T) {
		t.Parallel()

		handler := extract.NewHandler(&stubExtractor{
			result: &extract.Result{Text: "hello world", Pages: 2},
		}).Router()

		body, contentType := multipartPDF(t, "pdf", "resume.pdf", []byte("%PDF-1.4 fake"))
		rec := doRequest(t, handler, http.MethodPost, "/extract-pdf-text", body, contentType)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Success    bool   `json:"success"`
			Filename   string `json:"filename"`
			Text       string `json:"text"`
			Pages      int    `json:"pages"`
			Characters int    `json:"characters"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "resume.pdf", resp.Filename)
		assert.Equal(t, "hello world", resp.Text)
		assert.Equal(t, 2, resp.Pages)
		assert.Equal(t, len("hello world"), resp.Characters)
	})

	t.Run("scanned PDF reports no text found", func(t *testing.T) {
		t.Parallel()

		handler := extract.NewHandler(&stubExtractor{
			result: &extract.Result{Text: "", Pages: 3},
		}).Router()

		body, contentType := multipartPDF(t, "pdf", "scan.pdf", []byte("%PDF-1.4 fake"))
		rec := doRequest(t, handler, http.MethodPost, "/extract-pdf-text", body, contentType)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Success bool   `json:"success"`
			Text    string `json:"text"`
			Pages   int    `json:"pages"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Empty(t, resp.Text)
		assert.Equal(t, 3, resp.Pages)
		assert.Contains(t, resp.Message, "no text found")
	})

	t.Run("missing file is a bad request", func(t *testing.T) {
		t.Parallel()

		handler := extract.NewHandler(&stubExtractor{}).Router()

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("note", "no file here"))
		require.NoError(t, mw.Close())

		rec := doRequest(t, handler, http.MethodPost, "/extract-pdf-text", &buf, mw.FormDataContentType())
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "No PDF file provided", resp.Error)
	})

	t.Run("rejects non-PDF uploads", func(t *testing.T) {
		t.Parallel()

		handler := extract.NewHandler(&stubExtractor{}).Router()

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="pdf"; filename="notes.txt"`)
		hdr.Set("Content-Type", "text/plain")
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte("plain text"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		rec := doRequest(t, handler, http.MethodPost, "/extract-pdf-text", &buf, mw.FormDataContentType())
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "only PDF files are allowed", resp.Message)
	})

	t.Run("extraction failure is a server error", func(t *testing.T) {
		t.Parallel()

		handler := extract.NewHandler(&stubExtractor{
			err: errors.New("corrupt xref table"),
		}).Router()

		body, contentType := multipartPDF(t, "pdf", "broken.pdf", []byte("not a pdf"))
		rec := doRequest(t, handler, http.MethodPost, "/extract-pdf-text", body, contentType)

		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "PDF extraction failed", resp.Error)
	})
}

func TestExtractMultiplePDFs(t *testing.T) {
	t.Parallel()

	handler := extract.NewHandler(&stubExtractor{
		result: &extract.Result{Text: "doc text", Pages: 1},
	}).Router()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range []string{"a.pdf", "b.pdf"} {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="pdfs"; filename="`+name+`"`)
		hdr.Set("Content-Type", "application/pdf")
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 fake"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	rec := doRequest(t, handler, http.MethodPost, "/extract-multiple-pdfs", &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success    bool `json:"success"`
		TotalFiles int  `json:"totalFiles"`
		Results    []struct {
			Filename string `json:"filename"`
			Success  bool   `json:"success"`
			Text     string `json:"text"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.TotalFiles)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "a.pdf", resp.Results[0].Filename)
	assert.Equal(t, "doc text", resp.Results[0].Text)
}

func TestPDFExtractorEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := extract.NewPDFExtractor().ExtractText(nil)
	assert.ErrorIs(t, err, extract.ErrEmptyFile)
}
