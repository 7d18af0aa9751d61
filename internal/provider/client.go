// Package provider implements the HTTP client for the external accounting
// provider. It fetches raw invoice payloads and classifies transport and
// HTTP failures into the ingestion error taxonomy so callers never inspect
// status codes or error strings themselves.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/reconlab/ingest/internal/ingest"
)

// maxResponseBytes caps how much of a provider response is read. Anything
// larger than this is not a plausible invoice list.
const maxResponseBytes = 32 << 20 // 32 MiB

// Client talks to the accounting provider's invoice endpoint.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client with a fixed request timeout. The token is sent
// as a Bearer credential on every request.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// invoicesEnvelope matches the provider's wrapped list response. Some
// deployments return a bare array instead, which FetchInvoices also accepts.
type invoicesEnvelope struct {
	Invoices []any `json:"Invoices"`
}

// FetchInvoices retrieves all invoices for a contact. Items are returned
// undecoded ([]any) because the payload shape is untrusted; validation
// happens in the record builder, not here.
//
// Failures are always *ingest.NetworkError with a cause the caller can act
// on: timeout, auth (401/403), or server (anything else).
func (c *Client) FetchInvoices(ctx context.Context, contactName string) ([]any, error) {
	u := fmt.Sprintf("%s/invoices?contact=%s", c.baseURL, url.QueryEscape(contactName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &ingest.NetworkError{Cause: ingest.CauseServer, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ingest.NetworkError{Cause: classifyTransport(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ingest.NetworkError{
			Cause: classifyStatus(resp.StatusCode),
			Err:   fmt.Errorf("provider returned %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &ingest.NetworkError{Cause: ingest.CauseServer, Err: err}
	}

	items, err := decodeInvoices(body)
	if err != nil {
		return nil, &ingest.NetworkError{Cause: ingest.CauseServer, Err: err}
	}
	return items, nil
}

// decodeInvoices accepts both {"Invoices":[...]} and a bare JSON array.
func decodeInvoices(body []byte) ([]any, error) {
	var envelope invoicesEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Invoices != nil {
		return envelope.Invoices, nil
	}

	var items []any
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("unexpected invoice payload: %w", err)
	}
	return items, nil
}

// classifyTransport maps client-side request failures to a cause.
func classifyTransport(err error) ingest.NetworkCause {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return ingest.CauseTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ingest.CauseTimeout
	}
	return ingest.CauseServer
}

// classifyStatus maps non-200 responses to a cause.
func classifyStatus(code int) ingest.NetworkCause {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ingest.CauseAuth
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return ingest.CauseTimeout
	default:
		return ingest.CauseServer
	}
}
