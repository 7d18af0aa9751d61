package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/reconlab/ingest/internal/ingest"
	"github.com/reconlab/ingest/internal/logging"
)

// handleIngestCSV accepts a multipart upload with a "file" part and an
// optional "format" field naming the date layout of the file. The response is
// the full batch: accepted records plus per-row rejection reasons.
func (s *Server) handleIngestCSV(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Ingest.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Ingest.MaxFileSize); err != nil {
		s.respondError(w, r, &ingest.FileFormatError{
			Reason: "upload too large or not multipart form data",
		}, nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, &ingest.FileFormatError{
			Reason: `missing "file" form field`,
		}, nil)
		return
	}
	defer file.Close()

	format, err := s.resolveFormat(r.FormValue("format"))
	if err != nil {
		s.respondError(w, r, &ingest.FileFormatError{Reason: err.Error()}, nil)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Error("reading upload failed", "error", err)
		s.respondError(w, r, err, nil)
		return
	}

	batch, err := s.csv.IngestCSV(r.Context(), header.Filename, data, format)
	if err != nil {
		s.respondError(w, r, err, batch)
		return
	}

	writeJSON(w, http.StatusOK, batch)
}

// providerRequest is the JSON body for provider ingestion.
type providerRequest struct {
	ContactName string `json:"contactName"`
}

// handleIngestProvider fetches and normalizes a contact's invoices from the
// configured accounting provider.
func (s *Server) handleIngestProvider(w http.ResponseWriter, r *http.Request) {
	if s.fetcher == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:   "no accounting provider configured",
			Message: "no accounting provider configured",
			Action:  "Set PROVIDER_BASE_URL and PROVIDER_TOKEN",
			Code:    "PROV001",
		})
		return
	}

	var req providerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request body",
			Message: "invalid request body",
			Action:  `send JSON like {"contactName": "Acme Ltd"}`,
			Code:    "REQ001",
		})
		return
	}
	if strings.TrimSpace(req.ContactName) == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "contactName is required",
			Message: "contactName is required",
			Action:  "select a contact before fetching invoices",
			Code:    "REQ002",
		})
		return
	}

	batch, err := s.prov.IngestProvider(r.Context(), s.fetcher, req.ContactName)
	if err != nil {
		s.respondError(w, r, err, batch)
		return
	}

	writeJSON(w, http.StatusOK, batch)
}

// resolveFormat validates the requested date format, falling back to the
// configured default when the field is empty.
func (s *Server) resolveFormat(raw string) (ingest.DateFormat, error) {
	if strings.TrimSpace(raw) == "" {
		raw = s.cfg.Ingest.DefaultDateFormat
	}
	return ingest.ParseDateFormat(raw)
}
