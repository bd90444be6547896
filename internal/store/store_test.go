package store_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"nyamedia/internal/services"
	"nyamedia/internal/store"
	"nyamedia/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	version, err := st.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if version != 1 {
		t.Fatalf("unexpected schema version %d", version)
	}
	if st.Path() != cfg.Store.Path {
		t.Fatalf("unexpected path %q", st.Path())
	}

	// Reopening an initialized database is a no-op.
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	reopened := testsupport.MustOpenStore(t, cfg)
	if err := reopened.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	st.Close()

	db, err := sql.Open("sqlite", cfg.Store.Path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := store.Open(cfg); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestSeriesLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	added, err := st.AddSeries(ctx, store.Series{ID: 7, FeedURL: " https://nyaa.si/?page=rss&q=x ", Source: "nyaa", Name: "Frieren"})
	if err != nil {
		t.Fatalf("AddSeries: %v", err)
	}
	if added.FeedURL != "https://nyaa.si/?page=rss&q=x" || added.Name != "Frieren" || added.CreatedAt.IsZero() {
		t.Fatalf("unexpected series %#v", added)
	}
	testsupport.AddSeries(t, st, 3, "https://share.dmhy.org/topics/rss/rss.xml", "dmhy")

	if _, err := st.AddSeries(ctx, store.Series{ID: 7, FeedURL: "https://other", Source: "nyaa"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected duplicate to be a validation error, got %v", err)
	}
	if _, err := st.AddSeries(ctx, store.Series{ID: 8, Source: "nyaa"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected missing feed url to be a validation error, got %v", err)
	}

	list, err := st.ListSeries(ctx)
	if err != nil {
		t.Fatalf("ListSeries: %v", err)
	}
	if len(list) != 2 || list[0].ID != 3 || list[1].ID != 7 {
		t.Fatalf("unexpected series list %#v", list)
	}

	if err := st.UpdateFeedURL(ctx, 7, "https://nyaa.si/?page=rss&q=y"); err != nil {
		t.Fatalf("UpdateFeedURL: %v", err)
	}
	got, err := st.GetSeries(ctx, 7)
	if err != nil {
		t.Fatalf("GetSeries: %v", err)
	}
	if got.FeedURL != "https://nyaa.si/?page=rss&q=y" || got.Source != "nyaa" {
		t.Fatalf("feed url not updated: %#v", got)
	}

	if err := st.UpdateFeedURL(ctx, 99, "https://x"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for unknown series, got %v", err)
	}
	if _, err := st.GetSeries(ctx, 99); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMissionsAndCascade(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	testsupport.AddSeries(t, st, 7, "https://nyaa.si/rss", "nyaa")

	for _, hash := range []string{"H1", "H2"} {
		mission, err := st.AddMission(ctx, 7, hash)
		if err != nil {
			t.Fatalf("AddMission(%s): %v", hash, err)
		}
		if mission.ID == 0 || mission.SeriesID != 7 || mission.ContentID != hash {
			t.Fatalf("unexpected mission %#v", mission)
		}
	}
	if _, err := st.AddMission(ctx, 7, "  "); !errors.Is(err, services.ErrStoreWrite) {
		t.Fatalf("expected store write error for blank content id, got %v", err)
	}
	if _, err := st.AddMission(ctx, 404, "H9"); !errors.Is(err, services.ErrStoreWrite) {
		t.Fatalf("expected foreign key failure to be a store write error, got %v", err)
	}

	missions, err := st.ListMissions(ctx, 7)
	if err != nil {
		t.Fatalf("ListMissions: %v", err)
	}
	if len(missions) != 2 || missions[0].ContentID != "H1" || missions[1].ContentID != "H2" {
		t.Fatalf("unexpected missions %#v", missions)
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Series != 1 || stats.Missions != 2 || stats.SeriesBySource["nyaa"] != 1 {
		t.Fatalf("unexpected stats %#v", stats)
	}

	if err := st.RemoveSeries(ctx, 7); err != nil {
		t.Fatalf("RemoveSeries: %v", err)
	}
	count, err := st.CountMissions(ctx, 7)
	if err != nil {
		t.Fatalf("CountMissions: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected missions to cascade, %d remain", count)
	}
	if err := st.RemoveSeries(ctx, 7); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
}

func TestOpenAdoptsLegacyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	legacy := `
CREATE TABLE series (series_id INTEGER PRIMARY KEY NOT NULL, rss_link TEXT, rss_source TEXT);
CREATE TABLE missions (id INTEGER PRIMARY KEY NOT NULL, series_id INTEGER NOT NULL, info_hash TEXT NOT NULL);
INSERT INTO series VALUES (7, 'https://nyaa.si/?page=rss', 'nyaa');
INSERT INTO missions (series_id, info_hash) VALUES (7, 'H1'), (7, 'H2'), (12, 'orphan');
`
	if _, err := db.Exec(legacy); err != nil {
		t.Fatalf("seed legacy db: %v", err)
	}
	db.Close()

	ctx := context.Background()
	st, err := store.OpenPath(ctx, path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	defer st.Close()

	series, err := st.GetSeries(ctx, 7)
	if err != nil {
		t.Fatalf("GetSeries: %v", err)
	}
	if series.FeedURL != "https://nyaa.si/?page=rss" || series.Source != "nyaa" {
		t.Fatalf("unexpected adopted series %#v", series)
	}
	missions, err := st.ListMissions(ctx, 7)
	if err != nil {
		t.Fatalf("ListMissions: %v", err)
	}
	if len(missions) != 2 {
		t.Fatalf("expected 2 adopted missions, got %#v", missions)
	}
	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Missions != 2 {
		t.Fatalf("expected orphan mission to be dropped, got %d missions", stats.Missions)
	}
}
