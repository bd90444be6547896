package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateAria2(); err != nil {
		return err
	}
	if err := c.validateFeeds(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStore() error {
	if strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("store.path must be set")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.Host == "" {
		// Only the add command needs the metadata service; it reports the
		// missing host itself.
		return nil
	}
	if err := validateHTTPURL(c.API.Host); err != nil {
		return fmt.Errorf("api.host: %w", err)
	}
	return nil
}

func (c *Config) validateAria2() error {
	if err := validateHTTPURL(c.Aria2.Host); err != nil {
		return fmt.Errorf("aria2.host: %w", err)
	}
	if c.Aria2.Port < 0 || c.Aria2.Port > 65535 {
		return errors.New("aria2.port must be between 0 and 65535")
	}
	if !strings.HasPrefix(c.Aria2.DownloadRoot, "/") {
		return errors.New("aria2.download_root must be an absolute path on the aria2 host")
	}
	return ensurePositiveMap(map[string]int{
		"aria2.timeout_seconds":          c.Aria2.TimeoutSeconds,
		"aria2.breaker_cooldown_seconds": c.Aria2.BreakerCooldownSeconds,
	})
}

func (c *Config) validateFeeds() error {
	if err := ensurePositiveMap(map[string]int{
		"feeds.timeout_seconds": c.Feeds.TimeoutSeconds,
		"feeds.workers":         c.Feeds.Workers,
		"feeds.watch_interval":  c.Feeds.WatchInterval,
	}); err != nil {
		return err
	}
	if c.Feeds.RequestsPerSecond < 0 {
		return errors.New("feeds.requests_per_second must be >= 0 (0 disables rate limiting)")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	if c.Notifications.NtfyTopic != "" {
		if err := validateHTTPURL(c.Notifications.NtfyTopic); err != nil {
			return fmt.Errorf("notifications.ntfy_topic: %w", err)
		}
	}
	return nil
}

func validateHTTPURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse %q: %w", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%q is missing a host", raw)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
