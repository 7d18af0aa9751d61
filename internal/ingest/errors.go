package ingest

// errors.go defines the ingestion error taxonomy and the mapping from typed
// errors to user-facing messages.
//
// Fatal kinds (FileFormatError, MissingColumnsError, NetworkError) abort the
// attempt and return no records: a half-built batch is never presented as
// trustworthy. Row-level rejections are values accumulated on the Batch, not
// errors. EmptyResultError marks the in-between case: the input was
// structurally valid but nothing survived validation.
//
// Every rejection must be attributable to a reason a non-technical user can
// act on ("this file is missing an amount column", not a stack trace), so
// MapError translates each kind into a message, an action, and a short code
// support staff can reference.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FileFormatError means the uploaded file cannot be a transaction CSV at all:
// wrong extension or fewer than two lines. Fatal to the attempt.
type FileFormatError struct {
	Reason string
}

func (e *FileFormatError) Error() string {
	return fmt.Sprintf("invalid file: %s", e.Reason)
}

// MissingColumnsError means one or more required CSV columns could not be
// resolved from the header row. Fatal; no rows are parsed.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("required columns not found: %s", strings.Join(e.Missing, ", "))
}

// NetworkCause subdivides provider call failures so the caller can render
// cause-specific guidance.
type NetworkCause string

const (
	CauseTimeout NetworkCause = "timeout"
	CauseAuth    NetworkCause = "auth"
	CauseServer  NetworkCause = "server"
)

// NetworkError means the provider call failed before any items were
// received. Fatal to the attempt; retry is a caller decision.
type NetworkError struct {
	Cause NetworkCause
	Err   error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("provider request failed (%s): %v", e.Cause, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// EmptyResultError means a structurally valid file or response produced zero
// accepted records after validation. Distinct from the provider returning
// zero items, so the caller can show an actionable message.
type EmptyResultError struct {
	Source Source
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no usable records in %s input", e.Source)
}

// ErrBusy is returned when an ingestion is started while another attempt on
// the same source box is still validating.
var ErrBusy = errors.New("ingestion already in progress")

// UserMessage carries user-friendly error information with actionable
// guidance and a code for support reference.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

// defaultMessage is the fallback for unexpected errors. Support staff should
// check the logs for the original technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a typed ingestion error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var fileErr *FileFormatError
	if errors.As(err, &fileErr) {
		return UserMessage{
			Message: "The file does not look like a transaction CSV: " + fileErr.Reason,
			Action:  "Upload a .csv file with a header row and at least one data row",
			Code:    "FILE001",
		}
	}

	var colErr *MissingColumnsError
	if errors.As(err, &colErr) {
		return UserMessage{
			Message: "Required columns are missing: " + strings.Join(colErr.Missing, ", "),
			Action:  "Check that the header row names the transaction number, amount, and date columns",
			Code:    "COL001",
		}
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		switch netErr.Cause {
		case CauseTimeout:
			return UserMessage{
				Message: "The accounting provider did not respond in time",
				Action:  "Please try again in a few moments",
				Code:    "NET001",
			}
		case CauseAuth:
			return UserMessage{
				Message: "The connection to the accounting provider has expired",
				Action:  "Reconnect your accounting provider and try again",
				Code:    "NET002",
			}
		default:
			return UserMessage{
				Message: "The accounting provider returned an error",
				Action:  "Please try again later",
				Code:    "NET003",
			}
		}
	}

	var emptyErr *EmptyResultError
	if errors.As(err, &emptyErr) {
		return UserMessage{
			Message: "No usable records were found in the " + string(emptyErr.Source) + " data",
			Action:  "Review the per-row errors to see why every record was dropped",
			Code:    "EMPTY001",
		}
	}

	if errors.Is(err, ErrBusy) {
		return UserMessage{
			Message: "Another ingestion is still running for this source",
			Action:  "Wait for it to finish and try again",
			Code:    "BUSY001",
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return UserMessage{
			Message: "The request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "NET001",
		}
	}
	if errors.Is(err, context.Canceled) {
		return UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "ERR001",
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsFatal reports whether an error aborts the whole attempt (as opposed to
// EmptyResultError, which still carries per-row diagnostics on the batch).
func IsFatal(err error) bool {
	var fileErr *FileFormatError
	var colErr *MissingColumnsError
	var netErr *NetworkError
	return errors.As(err, &fileErr) || errors.As(err, &colErr) || errors.As(err, &netErr)
}
