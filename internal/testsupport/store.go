package testsupport

import (
	"context"
	"testing"

	"nyamedia/internal/config"
	"nyamedia/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// AddSeries registers a series for tests using the provided store.
func AddSeries(t testing.TB, st *store.Store, id int64, feedURL, source string) *store.Series {
	t.Helper()

	series, err := st.AddSeries(context.Background(), store.Series{ID: id, FeedURL: feedURL, Source: source})
	if err != nil {
		t.Fatalf("store.AddSeries: %v", err)
	}
	return series
}
