// Package ingest runs the release ingestion pipeline.
//
// One run lists every tracked series, fetches each series' feed, resolves
// entries to releases through the extractor registry, skips releases already
// recorded as missions, dispatches the rest to the download daemon, and
// records each successful dispatch. Failures are contained per entry and per
// series; only failing to list series ends a run with an error.
//
// Series are processed by a bounded worker pool. Entries within one series are
// always handled sequentially, and a series is never scheduled twice in the
// same run, so the check-then-record sequence for a series has one writer.
package ingest
