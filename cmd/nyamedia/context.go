package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"nyamedia/internal/config"
	"nyamedia/internal/dispatch"
	"nyamedia/internal/extract"
	"nyamedia/internal/feed"
	"nyamedia/internal/ingest"
	"nyamedia/internal/logging"
	"nyamedia/internal/notifications"
	"nyamedia/internal/services/aria2"
	"nyamedia/internal/store"
)

type commandContext struct {
	configFlag   *string
	databaseFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag, databaseFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		databaseFlag: databaseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.databaseFlag != nil {
			if err := cfg.SetStorePath(*c.databaseFlag); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfigTo(cfg, cmd.ErrOrStderr())
}

func (c *commandContext) withStore(fn func(*config.Config, *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open database %s: %w", cfg.Store.Path, err)
	}
	defer st.Close()
	return fn(cfg, st)
}

func newEngine(cfg *config.Config, st *store.Store, logger *slog.Logger) *ingest.Engine {
	client := aria2.NewClient(cfg, logger)
	return ingest.New(ingest.Dependencies{
		Store:      st,
		Fetcher:    feed.NewFetcher(cfg.Feeds),
		Dispatcher: dispatch.New(client, cfg.Aria2.DownloadRoot, logger),
		Registry:   extract.Default(),
		Notifier:   notifications.NewService(cfg),
		Logger:     logger,
		Workers:    cfg.Feeds.Workers,
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func parseSeriesID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid series id %q: must be a positive integer", raw)
	}
	return id, nil
}
