// Package ingest normalizes invoice data from heterogeneous sources into a
// canonical record set for the reconciliation matcher.
//
// Two sources are supported: free-form CSV uploads (column identity resolved
// from header content, not position) and the accounting provider's invoice
// API (payload shape treated as untrusted). Both paths converge on the same
// Batch output: accepted TransactionRecords plus a per-row account of
// everything that was dropped and why.
//
// The package holds no long-lived state. Every ingestion attempt produces an
// independent Batch that is handed to the matcher by reference and then
// discarded.
package ingest
