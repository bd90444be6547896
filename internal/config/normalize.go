package config

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeAria2()
	c.normalizeFeeds()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		c.Store.Path = filepath.Join(c.Paths.DataDir, defaultStoreFile)
	}
	if c.Store.Path, err = expandPath(c.Store.Path); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.Host = strings.TrimSpace(c.API.Host)
	if c.API.Host == "" {
		if value, ok := os.LookupEnv("NYAMEDIA_API_HOST"); ok {
			c.API.Host = strings.TrimSpace(value)
		}
	}
	c.API.Host = strings.TrimRight(c.API.Host, "/")
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = defaultAPITimeoutSeconds
	}
}

func (c *Config) normalizeAria2() {
	c.Aria2.Host = strings.TrimRight(strings.TrimSpace(c.Aria2.Host), "/")
	if c.Aria2.Host == "" {
		c.Aria2.Host = defaultAria2Host
	}
	if !strings.Contains(c.Aria2.Host, "://") {
		c.Aria2.Host = "http://" + c.Aria2.Host
	}
	c.Aria2.RPCPath = strings.TrimSpace(c.Aria2.RPCPath)
	if c.Aria2.RPCPath == "" {
		c.Aria2.RPCPath = defaultAria2RPCPath
	}
	if !strings.HasPrefix(c.Aria2.RPCPath, "/") {
		c.Aria2.RPCPath = "/" + c.Aria2.RPCPath
	}
	c.Aria2.Secret = strings.TrimSpace(c.Aria2.Secret)
	if c.Aria2.Secret == "" {
		if value, ok := os.LookupEnv("ARIA2_SECRET"); ok {
			c.Aria2.Secret = strings.TrimSpace(value)
		}
	}
	c.Aria2.DownloadRoot = strings.TrimSpace(c.Aria2.DownloadRoot)
	if c.Aria2.DownloadRoot == "" {
		c.Aria2.DownloadRoot = defaultAria2DownloadRoot
	}
	// The download root names a directory on the daemon's host, so it is
	// cleaned with POSIX rules rather than the local filepath rules.
	c.Aria2.DownloadRoot = path.Clean(c.Aria2.DownloadRoot)
	if c.Aria2.TimeoutSeconds <= 0 {
		c.Aria2.TimeoutSeconds = defaultAria2TimeoutSeconds
	}
	if c.Aria2.BreakerFailures < 0 {
		c.Aria2.BreakerFailures = 0
	}
	if c.Aria2.BreakerCooldownSeconds <= 0 {
		c.Aria2.BreakerCooldownSeconds = defaultAria2BreakerCooldown
	}
}

func (c *Config) normalizeFeeds() {
	if c.Feeds.TimeoutSeconds <= 0 {
		c.Feeds.TimeoutSeconds = defaultFeedTimeoutSeconds
	}
	c.Feeds.UserAgent = strings.TrimSpace(c.Feeds.UserAgent)
	if c.Feeds.UserAgent == "" {
		c.Feeds.UserAgent = defaultFeedUserAgent
	}
	if c.Feeds.Workers <= 0 {
		c.Feeds.Workers = defaultFeedWorkers
	}
	if c.Feeds.WatchInterval <= 0 {
		c.Feeds.WatchInterval = defaultFeedWatchInterval
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// Aria2Endpoint returns the JSON-RPC URL assembled from host, port, and RPC path.
func (c *Config) Aria2Endpoint() string {
	host := c.Aria2.Host
	if c.Aria2.Port > 0 {
		if parsed, err := url.Parse(host); err == nil && parsed.Port() == "" {
			host = host + ":" + strconv.Itoa(c.Aria2.Port)
		}
	}
	return host + c.Aria2.RPCPath
}
