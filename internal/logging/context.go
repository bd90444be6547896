package logging

import (
	"context"
	"log/slog"

	"nyamedia/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one ingestion run across every series it touches.
	FieldRunID = "run_id"
	// FieldSeriesID is the standardized key for tracked series identifiers.
	FieldSeriesID = "series_id"
	// FieldFeedSource is the source tag (nyaa, dmhy) of the feed being processed.
	FieldFeedSource = "feed_source"
	// FieldContentID is the extracted release identifier.
	FieldContentID = "content_id"
	// FieldErrorKind carries services.Kind of the logged error.
	FieldErrorKind = "error_kind"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if id, ok := services.SeriesIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldSeriesID, id))
	}
	if source, ok := services.FeedSourceFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldFeedSource, source))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
