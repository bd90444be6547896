// Package logs reads back the JSON log file written beside console output.
//
// Tail returns the last lines of the file (or the lines appended after a
// known offset, optionally waiting for more), and Record parses one line so
// the CLI can filter by level, series, or run and render it for a terminal.
// Memory use is bounded by the requested line count, not the file size.
package logs
