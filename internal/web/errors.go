package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with full technical detail server-side and returned
// to the client as a user-friendly message with an action suggestion and a
// short code support staff can reference. Handlers never format error JSON
// themselves.

import (
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/reconlab/ingest/internal/ingest"
)

// ErrorResponse is the JSON structure for API error responses. It carries
// both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string                   `json:"error"`
	Message string                   `json:"message"`
	Action  string                   `json:"action,omitempty"`
	Code    string                   `json:"code"`
	Rows    []ingest.RejectionReason `json:"rows,omitempty"`
}

// respondError logs the technical error and writes the mapped user message.
// When the failed attempt still produced per-row diagnostics (every row
// rejected), they are included so the client can show the user what to fix.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, batch *ingest.Batch) {
	userMsg := ingest.MapError(err)
	status := statusFor(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", chimw.GetReqID(r.Context()),
	)

	resp := ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	}
	if batch != nil {
		resp.Rows = batch.Errors
	}
	writeJSON(w, status, resp)
}

// statusFor maps ingestion errors to HTTP status codes.
func statusFor(err error) int {
	var fileErr *ingest.FileFormatError
	var colErr *ingest.MissingColumnsError
	var emptyErr *ingest.EmptyResultError
	var netErr *ingest.NetworkError

	switch {
	case errors.As(err, &fileErr), errors.As(err, &colErr), errors.As(err, &emptyErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ingest.ErrBusy):
		return http.StatusConflict
	case errors.As(err, &netErr):
		switch netErr.Cause {
		case ingest.CauseTimeout:
			return http.StatusGatewayTimeout
		case ingest.CauseAuth:
			return http.StatusBadGateway
		default:
			return http.StatusBadGateway
		}
	default:
		return http.StatusInternalServerError
	}
}
