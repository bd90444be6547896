package preflight

import (
	"strings"

	"nyamedia/internal/config"
)

// CheckMetadataFromConfig reports whether the series metadata service is
// configured. It is optional: without it, add stores series without names.
func CheckMetadataFromConfig(cfg *config.Config) Result {
	const name = "Metadata service"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if strings.TrimSpace(cfg.API.Host) == "" {
		return Result{Name: name, Passed: true, Detail: "Not configured (series names will not be resolved)"}
	}
	return Result{Name: name, Passed: true, Detail: cfg.API.Host}
}

// CheckNotificationsFromConfig reports the ntfy notification setup.
func CheckNotificationsFromConfig(cfg *config.Config) Result {
	const name = "Notifications"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	var enabled []string
	if cfg.Notifications.Dispatch {
		enabled = append(enabled, "dispatch")
	}
	if cfg.Notifications.RunSummary {
		enabled = append(enabled, "run summary")
	}
	if cfg.Notifications.Errors {
		enabled = append(enabled, "errors")
	}
	if len(enabled) == 0 {
		return Result{Name: name, Passed: true, Detail: topic + " (all events muted)"}
	}
	return Result{Name: name, Passed: true, Detail: topic + " (" + strings.Join(enabled, ", ") + ")"}
}
