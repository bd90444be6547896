package ingest

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"nyamedia/internal/extract"
	"nyamedia/internal/feed"
	"nyamedia/internal/logging"
	"nyamedia/internal/notifications"
	"nyamedia/internal/services"
	"nyamedia/internal/store"
)

// Store is the persistence surface the engine needs.
type Store interface {
	ListSeries(ctx context.Context) ([]store.Series, error)
	ListMissions(ctx context.Context, seriesID int64) ([]store.Mission, error)
	AddMission(ctx context.Context, seriesID int64, contentID string) (*store.Mission, error)
}

// Fetcher retrieves and parses a feed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*feed.Feed, error)
}

// Dispatcher hands a release to the download daemon.
type Dispatcher interface {
	Destination(seriesID int64) string
	Dispatch(ctx context.Context, uri, destinationDir string) error
}

// Dependencies wires an Engine.
type Dependencies struct {
	Store      Store
	Fetcher    Fetcher
	Dispatcher Dispatcher
	Registry   *extract.Registry
	Notifier   notifications.Service
	Logger     *slog.Logger
	// Workers bounds how many series are processed concurrently. Values
	// below one mean sequential processing.
	Workers int
}

// Engine runs ingestion passes. It holds no state between runs.
type Engine struct {
	store      Store
	fetcher    Fetcher
	dispatcher Dispatcher
	registry   *extract.Registry
	notifier   notifications.Service
	logger     *slog.Logger
	workers    int
}

// New constructs an Engine. A nil registry uses extract.Default and a nil
// notifier disables notifications.
func New(deps Dependencies) *Engine {
	registry := deps.Registry
	if registry == nil {
		registry = extract.Default()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notifications.NewService(nil)
	}
	workers := deps.Workers
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		store:      deps.Store,
		fetcher:    deps.Fetcher,
		dispatcher: deps.Dispatcher,
		registry:   registry,
		notifier:   notifier,
		logger:     logging.NewComponentLogger(deps.Logger, "ingest"),
		workers:    workers,
	}
}

// Run performs one ingestion pass over every tracked series. The returned
// error is non-nil only when the series list cannot be read or ctx is
// cancelled; everything else is reported through the Summary.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	started := time.Now()
	summary := Summary{RunID: uuid.NewString()}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, e.logger)

	all, err := e.store.ListSeries(ctx)
	if err != nil {
		logging.ErrorWithContext(logger, "list series failed", "list_series_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.String(logging.FieldErrorHint, "check the database path and permissions"),
		)
		if notifyErr := e.notifier.NotifyError(ctx, err, "listing series"); notifyErr != nil {
			logger.Debug("error notification failed", logging.Error(notifyErr))
		}
		summary.Duration = time.Since(started)
		return summary, err
	}
	tracked := uniqueSeries(all)
	logger.Info("ingestion run started", logging.Int("series", len(tracked)), logging.Int("workers", e.workers))

	var (
		mu    sync.Mutex
		group errgroup.Group
	)
	group.SetLimit(e.workers)
	for _, series := range tracked {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			result := e.processSeries(ctx, series)
			mu.Lock()
			summary.add(result)
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	summary.Duration = time.Since(started)
	logger.Info("ingestion run finished", summary.logAttrs()...)

	if summary.Dispatched > 0 || summary.Failures() > 0 {
		if err := e.notifier.NotifyRunCompleted(ctx, summary.Dispatched, summary.Failures(), summary.Duration); err != nil {
			logger.Debug("run notification failed", logging.Error(err))
		}
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (e *Engine) processSeries(ctx context.Context, series store.Series) seriesResult {
	ctx = services.WithSeriesID(ctx, series.ID)
	ctx = services.WithFeedSource(ctx, series.Source)
	logger := logging.WithContext(ctx, e.logger)
	result := seriesResult{}

	if !e.registry.Supports(series.Source) {
		err := services.Wrap(services.ErrUnsupportedSource, "ingest", "series", "source "+series.Source, nil)
		logging.ErrorWithContext(logger, "unsupported feed source", "unsupported_source",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.String(logging.FieldErrorHint, "edit the series or register an extractor for this source"),
		)
		result.outcome = outcomeUnsupported
		return result
	}

	parsed, err := e.fetcher.Fetch(ctx, series.FeedURL)
	if err != nil {
		logging.WarnWithContext(logger, "feed fetch failed", "feed_fetch_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.String("feed_url", series.FeedURL),
			logging.String(logging.FieldImpact, "series skipped this run"),
		)
		result.outcome = outcomeFailed
		return result
	}
	if len(parsed.Entries) == 0 {
		logger.Info("feed has no content")
		result.outcome = outcomeEmpty
		return result
	}

	missions, err := e.store.ListMissions(ctx, series.ID)
	if err != nil {
		logging.ErrorWithContext(logger, "list missions failed", "list_missions_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
		)
		result.outcome = outcomeFailed
		return result
	}
	known := make(map[string]struct{}, len(missions))
	for _, mission := range missions {
		known[mission.ContentID] = struct{}{}
	}

	destination := e.dispatcher.Destination(series.ID)
	for _, entry := range feed.Chronological(parsed.Entries) {
		if ctx.Err() != nil {
			break
		}
		result.entries++

		release, err := e.registry.Extract(series.Source, entry)
		if errors.Is(err, services.ErrUnsupportedSource) {
			logging.ErrorWithContext(logger, "unsupported feed source", "unsupported_source",
				logging.Error(err),
				logging.String(logging.FieldErrorKind, services.Kind(err)),
			)
			result.outcome = outcomeUnsupported
			break
		}
		if err != nil {
			logging.WarnWithContext(logger, "feed entry skipped", "entry_unsupported",
				logging.Error(err),
				logging.String(logging.FieldErrorKind, services.Kind(err)),
				logging.String("title", entry.Title),
				logging.String(logging.FieldImpact, "entry ignored; later entries still processed"),
			)
			result.unsupported++
			continue
		}
		if _, seen := known[release.ContentID]; seen {
			result.duplicates++
			continue
		}

		entryLogger := logger.With(logging.String(logging.FieldContentID, release.ContentID))
		if err := e.dispatcher.Dispatch(ctx, release.URI, destination); err != nil {
			logging.ErrorWithContext(entryLogger, "dispatch failed", "dispatch_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorKind, services.Kind(err)),
				logging.String("title", entry.Title),
				logging.String(logging.FieldErrorHint, "release stays unrecorded and is retried next run"),
			)
			result.dispatchFailures++
			continue
		}
		// Tracked locally even when recording fails so the same release is
		// never dispatched twice in one run.
		known[release.ContentID] = struct{}{}
		result.dispatched++

		if _, err := e.store.AddMission(ctx, series.ID, release.ContentID); err != nil {
			logging.ErrorWithContext(entryLogger, "record mission failed", "record_mission_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorKind, services.Kind(err)),
				logging.String(logging.FieldErrorHint, "release was dispatched but will be dispatched again next run"),
			)
			result.recordFailures++
		}
		entryLogger.Info("release dispatched", logging.String("title", entry.Title), logging.String("dir", destination))
		if err := e.notifier.NotifyReleaseDispatched(ctx, series.DisplayName(), entry.Title); err != nil {
			entryLogger.Debug("dispatch notification failed", logging.Error(err))
		}
	}
	return result
}

func uniqueSeries(all []store.Series) []store.Series {
	seen := make(map[int64]struct{}, len(all))
	out := make([]store.Series, 0, len(all))
	for _, series := range all {
		if _, ok := seen[series.ID]; ok {
			continue
		}
		seen[series.ID] = struct{}{}
		out = append(out, series)
	}
	return out
}
