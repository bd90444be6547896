package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nyamedia/internal/config"
)

const userAgent = "nyamedia/0.1"

// Service defines the notification surface exposed to the ingestion engine
// and CLI.
type Service interface {
	NotifyReleaseDispatched(ctx context.Context, series, title string) error
	NotifyRunCompleted(ctx context.Context, dispatched, failed int, duration time.Duration) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		toggles:  cfg.Notifications,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	toggles  config.Notifications
}

func (n *ntfyService) NotifyReleaseDispatched(ctx context.Context, series, title string) error {
	if !n.toggles.Dispatch {
		return nil
	}
	series = strings.TrimSpace(series)
	title = strings.TrimSpace(title)
	message := fmt.Sprintf("⬇️ Downloading: %s", series)
	if title != "" {
		message = fmt.Sprintf("%s\n%s", message, title)
	}
	return n.send(ctx, payload{
		title:   "nyamedia - New Release",
		message: message,
		tags:    []string{"nyamedia", "release", "dispatched"},
	})
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, dispatched, failed int, duration time.Duration) error {
	if !n.toggles.RunSummary {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	data := payload{
		title:   "nyamedia - Run Complete",
		message: fmt.Sprintf("Queued %d new release(s) in %s", dispatched, duration),
		tags:    []string{"nyamedia", "run", "completed"},
	}
	if failed > 0 {
		data.title = "nyamedia - Run Complete (with errors)"
		data.message = fmt.Sprintf("Queued %d new release(s), %d failed in %s", dispatched, failed, duration)
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.toggles.Errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("❌ Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    "nyamedia - Error",
		message:  builder.String(),
		tags:     []string{"nyamedia", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "nyamedia - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"nyamedia", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyReleaseDispatched(context.Context, string, string) error { return nil }
func (noopService) NotifyRunCompleted(context.Context, int, int, time.Duration) error {
	return nil
}
func (noopService) NotifyError(context.Context, error, string) error { return nil }
func (noopService) TestNotification(context.Context) error           { return nil }
