package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"nyamedia/internal/config"
	"nyamedia/internal/ingest"
	"nyamedia/internal/logging"
	"nyamedia/internal/runlock"
	"nyamedia/internal/store"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Perform a single ingestion run over every tracked series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngestion(cmd, ctx)
		},
	}
}

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run ingestion on an interval until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			if interval <= 0 {
				cfg, _ := ctx.ensureConfig()
				interval = time.Duration(cfg.Feeds.WatchInterval) * time.Second
			}

			signalCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				engine := newEngine(cfg, st, logger)
				return ingest.Watch(signalCtx, interval, logger, func(runCtx context.Context) error {
					summary, err := runLocked(runCtx, cfg, engine)
					if errors.Is(err, runlock.ErrHeld) {
						logging.WarnWithContext(logger, "previous run still in progress, skipping", "run_skipped",
							logging.String(logging.FieldErrorHint, "increase feeds.watch_interval if this repeats"),
							logging.String(logging.FieldImpact, "feeds are checked on the next tick"),
						)
						return nil
					}
					if err != nil {
						return err
					}
					printSummary(cmd.OutOrStdout(), summary)
					return nil
				})
			})
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Time between runs (defaults to feeds.watch_interval)")
	return cmd
}

func runIngestion(cmd *cobra.Command, ctx *commandContext) error {
	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}
	return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
		summary, err := runLocked(cmd.Context(), cfg, newEngine(cfg, st, logger))
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), summary)
		return nil
	})
}

// runLocked performs one run while holding the run lock beside the database.
func runLocked(ctx context.Context, cfg *config.Config, engine *ingest.Engine) (ingest.Summary, error) {
	lock, err := runlock.Acquire(cfg.LockPath())
	if err != nil {
		return ingest.Summary{}, err
	}
	defer lock.Release()
	return engine.Run(ctx)
}

func printSummary(out io.Writer, s ingest.Summary) {
	fmt.Fprintf(out, "Run %s: %d dispatched, %d already recorded, %d failed across %d series in %s\n",
		shortRunID(s.RunID), s.Dispatched, s.Duplicates, s.Failures(), s.Series, s.Duration.Round(time.Millisecond))
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

