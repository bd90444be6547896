package services

import "context"

type contextKey string

const (
	runIDKey      contextKey = "run_id"
	seriesIDKey   contextKey = "series_id"
	feedSourceKey contextKey = "feed_source"
)

// WithRunID annotates context with the ingestion run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the ingestion run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSeriesID annotates context with the series being processed.
func WithSeriesID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, seriesIDKey, id)
}

// SeriesIDFromContext extracts the series identifier if present.
func SeriesIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(seriesIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithFeedSource annotates context with the feed source tag (nyaa, dmhy, ...).
func WithFeedSource(ctx context.Context, source string) context.Context {
	if source == "" {
		return ctx
	}
	return context.WithValue(ctx, feedSourceKey, source)
}

// FeedSourceFromContext returns the feed source tag if present.
func FeedSourceFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(feedSourceKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
