package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nyamedia/internal/config"
	"nyamedia/internal/notifications"
)

type captured struct {
	title, tags, priority, body string
}

func newServer(t *testing.T, status int, requests *[]captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*requests = append(*requests, captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyReleaseDispatched(context.Background(), "Frieren", "ep 1"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := notifications.NewService(nil).TestNotification(context.Background()); err != nil {
		t.Fatalf("expected nil config to yield noop, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	var requests []captured
	srv := newServer(t, http.StatusOK, &requests)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = srv.URL
	svc := notifications.NewService(&cfg)
	ctx := context.Background()

	if err := svc.NotifyReleaseDispatched(ctx, "Frieren", "[Group] Frieren - 01"); err != nil {
		t.Fatalf("NotifyReleaseDispatched: %v", err)
	}
	if err := svc.NotifyRunCompleted(ctx, 3, 1, 1500*time.Millisecond); err != nil {
		t.Fatalf("NotifyRunCompleted: %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("aria2 down"), "series 7"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}

	if len(requests) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(requests))
	}
	if requests[0].title != "nyamedia - New Release" || !strings.Contains(requests[0].body, "[Group] Frieren - 01") {
		t.Fatalf("unexpected dispatch payload %#v", requests[0])
	}
	if requests[0].tags != "nyamedia,release,dispatched" {
		t.Fatalf("unexpected tags %q", requests[0].tags)
	}
	if requests[1].title != "nyamedia - Run Complete (with errors)" || requests[1].body != "Queued 3 new release(s), 1 failed in 2s" {
		t.Fatalf("unexpected run payload %#v", requests[1])
	}
	if requests[2].priority != "high" || requests[2].body != "❌ Error with series 7: aria2 down" {
		t.Fatalf("unexpected error payload %#v", requests[2])
	}
}

func TestNtfyServiceHonoursToggles(t *testing.T) {
	var requests []captured
	srv := newServer(t, http.StatusOK, &requests)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = srv.URL
	cfg.Notifications.Dispatch = false
	cfg.Notifications.RunSummary = false
	svc := notifications.NewService(&cfg)

	_ = svc.NotifyReleaseDispatched(context.Background(), "Frieren", "")
	_ = svc.NotifyRunCompleted(context.Background(), 1, 0, time.Second)
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("TestNotification: %v", err)
	}
	if len(requests) != 1 || requests[0].title != "nyamedia - Test" {
		t.Fatalf("expected only the test notification, got %#v", requests)
	}
}

func TestNtfyServiceReportsHTTPErrors(t *testing.T) {
	var requests []captured
	srv := newServer(t, http.StatusForbidden, &requests)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = srv.URL
	if err := notifications.NewService(&cfg).TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
