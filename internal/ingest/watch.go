package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"nyamedia/internal/logging"
)

// Watch calls tick immediately and then every interval until ctx is done.
// Ticks never overlap: a tick that outlasts the interval delays the next one.
// Watch returns nil on cancellation.
func Watch(ctx context.Context, interval time.Duration, logger *slog.Logger, tick func(context.Context) error) error {
	if interval <= 0 {
		return errors.New("watch interval must be positive")
	}
	logger = logging.NewComponentLogger(logger, "watch")
	logger.Info("watching feeds", logging.Duration("interval", interval))

	runTick := func() {
		if err := tick(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logging.WarnWithContext(logger, "scheduled run failed", "watch_run_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "next run proceeds on schedule"),
			)
		}
	}
	runTick()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil
		case <-ticker.C:
			runTick()
		}
	}
}
