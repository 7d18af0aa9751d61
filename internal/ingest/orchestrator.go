package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
)

// State is the lifecycle of one ingestion attempt. Transitions are linear:
// Idle -> Validating -> Accepted | Rejected, and Reset returns to Idle.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateAccepted   State = "accepted"
	StateRejected   State = "rejected"
)

// Fetcher retrieves raw invoice items for a contact from the accounting
// provider. Implementations classify transport failures as *NetworkError.
type Fetcher interface {
	FetchInvoices(ctx context.Context, contactName string) ([]any, error)
}

// Orchestrator drives ingestion attempts for one source slot. Each new
// attempt replaces the previous result entirely; there is no merging of
// partial results across attempts.
//
// The zero value is not usable; construct with NewOrchestrator.
type Orchestrator struct {
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	attemptID string
	lastBatch *Batch
	lastErr   error
}

// NewOrchestrator returns an idle orchestrator that logs through logger.
// A nil logger falls back to slog.Default.
func NewOrchestrator(logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		logger: logger,
		state:  StateIdle,
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastResult returns the batch and error from the most recent attempt.
// The batch may be non-nil alongside an EmptyResultError: the per-row
// diagnostics are still useful even when nothing was accepted.
func (o *Orchestrator) LastResult() (*Batch, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastBatch, o.lastErr
}

// Reset discards the previous attempt's outcome and returns to Idle. It is
// a no-op while an attempt is validating.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateValidating {
		return
	}
	o.state = StateIdle
	o.attemptID = ""
	o.lastBatch = nil
	o.lastErr = nil
}

// begin claims the slot for a new attempt. Returns ErrBusy when another
// attempt is already validating.
func (o *Orchestrator) begin() (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateValidating {
		return "", ErrBusy
	}
	o.state = StateValidating
	o.attemptID = uuid.NewString()
	o.lastBatch = nil
	o.lastErr = nil
	return o.attemptID, nil
}

// finish records the attempt outcome and moves to the terminal state.
func (o *Orchestrator) finish(batch *Batch, err error) (*Batch, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastBatch = batch
	o.lastErr = err
	if err != nil {
		o.state = StateRejected
	} else {
		o.state = StateAccepted
	}
	return batch, err
}

// IngestCSV validates and normalizes an uploaded CSV file.
//
// Fatal failures (wrong extension, no data rows, missing required columns)
// reject the attempt with no batch. If every row fails validation the attempt
// is rejected with an EmptyResultError, but the batch is still returned so
// the caller can surface the per-row reasons.
func (o *Orchestrator) IngestCSV(ctx context.Context, fileName string, data []byte, format DateFormat) (*Batch, error) {
	attemptID, err := o.begin()
	if err != nil {
		return nil, err
	}

	logger := o.logger.With(
		"attempt_id", attemptID,
		"source", SourceCSV,
		"file", fileName,
	)
	logger.InfoContext(ctx, "csv ingestion started", "bytes", len(data), "format", format)

	if !strings.EqualFold(filepath.Ext(fileName), ".csv") {
		err := &FileFormatError{Reason: fmt.Sprintf("unsupported file type %q, expected .csv", filepath.Ext(fileName))}
		logger.WarnContext(ctx, "csv ingestion rejected", "error", err)
		return o.finish(nil, err)
	}

	lines := SplitLines(sanitizeUTF8(data))
	batch, err := BuildFromCSV(lines, format)
	if err != nil {
		logger.WarnContext(ctx, "csv ingestion rejected", "error", err)
		return o.finish(nil, err)
	}

	if batch.AcceptedCount == 0 {
		err := &EmptyResultError{Source: SourceCSV}
		logger.WarnContext(ctx, "csv ingestion rejected",
			"error", err,
			"total_rows", batch.TotalInputRows,
			"dropped", batch.DroppedCount,
		)
		return o.finish(batch, err)
	}

	logger.InfoContext(ctx, "csv ingestion accepted",
		"total_rows", batch.TotalInputRows,
		"accepted", batch.AcceptedCount,
		"dropped", batch.DroppedCount,
	)
	return o.finish(batch, nil)
}

// IngestProvider fetches a contact's invoices from the accounting provider
// and normalizes them.
//
// A provider returning zero items is a successful, empty attempt: the
// contact simply has no invoices. A non-empty response where every item
// fails validation is rejected with an EmptyResultError.
func (o *Orchestrator) IngestProvider(ctx context.Context, fetch Fetcher, contactName string) (*Batch, error) {
	attemptID, err := o.begin()
	if err != nil {
		return nil, err
	}

	logger := o.logger.With(
		"attempt_id", attemptID,
		"source", SourceAPI,
		"contact", contactName,
	)
	logger.InfoContext(ctx, "provider ingestion started")

	items, err := fetch.FetchInvoices(ctx, contactName)
	if err != nil {
		logger.WarnContext(ctx, "provider ingestion rejected", "error", err)
		return o.finish(nil, err)
	}

	batch := BuildFromProvider(items, contactName)

	if batch.AcceptedCount == 0 && batch.TotalInputRows > 0 {
		err := &EmptyResultError{Source: SourceAPI}
		logger.WarnContext(ctx, "provider ingestion rejected",
			"error", err,
			"total_items", batch.TotalInputRows,
			"dropped", batch.DroppedCount,
		)
		return o.finish(batch, err)
	}

	logger.InfoContext(ctx, "provider ingestion accepted",
		"total_items", batch.TotalInputRows,
		"accepted", batch.AcceptedCount,
		"dropped", batch.DroppedCount,
	)
	return o.finish(batch, nil)
}

// sanitizeUTF8 replaces invalid UTF-8 sequences so downstream string handling
// never sees broken runes. Valid input is returned without copying twice.
func sanitizeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}
