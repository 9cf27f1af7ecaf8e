// Package slogobs implements observability.Provider on top of log/slog.
//
// Spans, events and metric updates are emitted as structured log records
// through a Handler that writes either a compact single-line format or
// newline-delimited JSON. Level and format default to the
// JSONRESCUE_LOG_LEVEL and JSONRESCUE_LOG_FORMAT environment variables,
// falling back to LOG_LEVEL and LOG_FORMAT.
package slogobs
