package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/reconlab/ingest/internal/config"
	"github.com/reconlab/ingest/internal/ingest"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			RequestTimeout:  time.Minute,
			ShutdownTimeout: time.Second,
		},
		Ingest: config.IngestConfig{
			MaxFileSize:       1 << 20,
			DefaultDateFormat: "MM/DD/YYYY",
		},
		Rate:    config.RateLimitConfig{Enabled: false},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}
}

type stubFetcher struct {
	items []any
	err   error
}

func (s *stubFetcher) FetchInvoices(ctx context.Context, contactName string) ([]any, error) {
	return s.items, s.err
}

// multipartCSV builds a multipart body with a file part and optional format
// field.
func multipartCSV(t *testing.T, filename, content, format string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("writing file part: %v", err)
	}
	if format != "" {
		if err := w.WriteField("format", format); err != nil {
			t.Fatalf("WriteField() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}

	return &buf, w.FormDataContentType()
}

func TestHandleIngestCSV(t *testing.T) {
	srv := NewServer(testConfig(), nil)

	body, contentType := multipartCSV(t,
		"transactions.csv",
		"Invoice,Amount,Date\nINV-1,100.50,15/01/2024\n",
		"DD/MM/YYYY",
	)

	req := httptest.NewRequest(http.MethodPost, "/api/ingest/csv", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	var batch ingest.Batch
	if err := json.NewDecoder(rec.Body).Decode(&batch); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if batch.AcceptedCount != 1 {
		t.Errorf("AcceptedCount = %d, want 1", batch.AcceptedCount)
	}
	if batch.Records[0].Date != "2024-01-15" {
		t.Errorf("Date = %q, want %q", batch.Records[0].Date, "2024-01-15")
	}
}

func TestHandleIngestCSV_MissingColumns(t *testing.T) {
	srv := NewServer(testConfig(), nil)

	body, contentType := multipartCSV(t, "bad.csv", "foo,bar\n1,2\n", "")

	req := httptest.NewRequest(http.MethodPost, "/api/ingest/csv", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Code != "COL001" {
		t.Errorf("Code = %q, want %q", resp.Code, "COL001")
	}
	if resp.Action == "" {
		t.Error("Action is empty, want actionable guidance")
	}
}

func TestHandleIngestCSV_AllRowsDroppedIncludesDiagnostics(t *testing.T) {
	srv := NewServer(testConfig(), nil)

	body, contentType := multipartCSV(t, "empty.csv", "Invoice,Amount,Date\n,100,01/01/2024\n", "")

	req := httptest.NewRequest(http.MethodPost, "/api/ingest/csv", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Code != "EMPTY001" {
		t.Errorf("Code = %q, want %q", resp.Code, "EMPTY001")
	}
	if len(resp.Rows) != 1 {
		t.Errorf("Rows = %d entries, want the per-row reason", len(resp.Rows))
	}
}

func TestHandleIngestCSV_UnknownFormat(t *testing.T) {
	srv := NewServer(testConfig(), nil)

	body, contentType := multipartCSV(t, "t.csv", "Invoice,Amount,Date\nI,1,01/01/2024\n", "YYYY/DD/MM")

	req := httptest.NewRequest(http.MethodPost, "/api/ingest/csv", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestHandleIngestProvider(t *testing.T) {
	fetch := &stubFetcher{items: []any{
		map[string]any{"InvoiceID": "A", "Total": 12.5},
		map[string]any{},
	}}
	srv := NewServer(testConfig(), fetch)

	req := httptest.NewRequest(http.MethodPost, "/api/ingest/provider",
		strings.NewReader(`{"contactName":"Acme"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	var batch ingest.Batch
	if err := json.NewDecoder(rec.Body).Decode(&batch); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if batch.AcceptedCount != 1 || batch.DroppedCount != 1 {
		t.Errorf("accepted/dropped = %d/%d, want 1/1", batch.AcceptedCount, batch.DroppedCount)
	}
}

func TestHandleIngestProvider_NoFetcher(t *testing.T) {
	srv := NewServer(testConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/ingest/provider",
		strings.NewReader(`{"contactName":"Acme"}`))
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestHandleIngestProvider_MissingContact(t *testing.T) {
	srv := NewServer(testConfig(), &stubFetcher{})

	req := httptest.NewRequest(http.MethodPost, "/api/ingest/provider",
		strings.NewReader(`{"contactName":"  "}`))
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleIngestProvider_NetworkError(t *testing.T) {
	fetch := &stubFetcher{err: &ingest.NetworkError{Cause: ingest.CauseAuth, Err: errors.New("401")}}
	srv := NewServer(testConfig(), fetch)

	req := httptest.NewRequest(http.MethodPost, "/api/ingest/provider",
		strings.NewReader(`{"contactName":"Acme"}`))
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Code != "NET002" {
		t.Errorf("Code = %q, want %q", resp.Code, "NET002")
	}
}

func TestHandleHealth(t *testing.T) {
	srv := NewServer(testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want %q", got, "nosniff")
	}
}
