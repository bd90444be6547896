// Package logging assembles structured slog loggers and formatting helpers used
// across nyamedia.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so ingestion code can tag log
// lines with run IDs, series IDs, and feed sources. A no-op logger is provided
// for tests and wiring code that cannot fail.
package logging
