package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"nyamedia/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrDispatch, "aria2", "addUri", "rpc failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrDispatch) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"aria2", "addUri", "rpc failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if err == nil || err.Error() != "service failure" {
		t.Fatalf("unexpected error %v", err)
	}
	if got := services.Kind(err); got != "unknown" {
		t.Fatalf("expected unknown kind, got %q", got)
	}
}

func TestKindMapping(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrFeedFetch, "feed", "fetch", "", errors.New("timeout")), "feed_fetch"},
		{services.Wrap(services.ErrUnsupportedSource, "extract", "", "tag \"x\"", nil), "unsupported_source"},
		{services.Wrap(services.ErrUnsupportedEntry, "extract", "nyaa", "missing hash", nil), "unsupported_entry"},
		{fmt.Errorf("outer: %w", services.Wrap(services.ErrStoreWrite, "store", "add mission", "", nil)), "store_write"},
		{services.Wrap(services.ErrStoreRead, "store", "list", "", nil), "store_read"},
		{services.Wrap(services.ErrNotFound, "store", "get", "", nil), "not_found"},
	}
	for _, tt := range tests {
		if got := services.Kind(tt.err); got != tt.want {
			t.Fatalf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
