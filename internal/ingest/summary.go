package ingest

import (
	"time"

	"nyamedia/internal/logging"
)

type seriesOutcome int

const (
	outcomeProcessed seriesOutcome = iota
	outcomeEmpty
	outcomeFailed
	outcomeUnsupported
)

type seriesResult struct {
	outcome          seriesOutcome
	entries          int
	dispatched       int
	duplicates       int
	unsupported      int
	dispatchFailures int
	recordFailures   int
}

// Summary reports what one run did.
type Summary struct {
	RunID string
	// Series counts every series the run looked at.
	Series int
	// Empty counts series whose feed had no entries.
	Empty int
	// SeriesFailed counts series skipped because the feed or the mission list
	// could not be read.
	SeriesFailed int
	// UnsupportedSources counts series whose source tag has no extractor.
	UnsupportedSources int
	Entries            int
	Dispatched         int
	Duplicates         int
	UnsupportedEntries int
	DispatchFailures   int
	RecordFailures     int
	Duration           time.Duration
}

// Failures totals the problems worth reporting to an operator.
func (s Summary) Failures() int {
	return s.SeriesFailed + s.UnsupportedSources + s.DispatchFailures + s.RecordFailures
}

func (s *Summary) add(r seriesResult) {
	s.Series++
	switch r.outcome {
	case outcomeEmpty:
		s.Empty++
	case outcomeFailed:
		s.SeriesFailed++
	case outcomeUnsupported:
		s.UnsupportedSources++
	}
	s.Entries += r.entries
	s.Dispatched += r.dispatched
	s.Duplicates += r.duplicates
	s.UnsupportedEntries += r.unsupported
	s.DispatchFailures += r.dispatchFailures
	s.RecordFailures += r.recordFailures
}

func (s Summary) logAttrs() []any {
	return logging.Args(
		logging.Int("series", s.Series),
		logging.Int("entries", s.Entries),
		logging.Int("dispatched", s.Dispatched),
		logging.Int("duplicates", s.Duplicates),
		logging.Int("unsupported_entries", s.UnsupportedEntries),
		logging.Int("series_failed", s.SeriesFailed),
		logging.Int("unsupported_sources", s.UnsupportedSources),
		logging.Int("dispatch_failures", s.DispatchFailures),
		logging.Int("record_failures", s.RecordFailures),
		logging.Duration("duration", s.Duration.Round(time.Millisecond)),
	)
}
