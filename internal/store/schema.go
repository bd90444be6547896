package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

func (s *Store) initSchema(ctx context.Context) error {
	hasVersion, err := s.tableExists(ctx, "schema_version")
	if err != nil {
		return err
	}
	if !hasVersion {
		legacy, err := s.tableExists(ctx, "series")
		if err != nil {
			return err
		}
		if legacy {
			return s.adoptLegacy(ctx)
		}
		return s.createSchema(ctx)
	}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

// SchemaVersion reports the version recorded in the database.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func (s *Store) tableExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name=?", name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check %s table: %w", name, err)
	}
	return count > 0, nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// adoptLegacy converts the unversioned layout (series.rss_link/rss_source and
// missions.info_hash) into the current schema inside one transaction. Missions
// whose series no longer exists are dropped because the old layout had no
// cascade.
func (s *Store) adoptLegacy(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin legacy adoption tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='missions'",
	).Scan(&count); err != nil {
		return fmt.Errorf("check legacy missions table: %w", err)
	}
	hasMissions := count > 0

	now := time.Now().UTC().Format(time.RFC3339Nano)
	steps := []struct {
		desc  string
		query string
		args  []any
		skip  bool
	}{
		{desc: "rename legacy series", query: "ALTER TABLE series RENAME TO legacy_series"},
		{desc: "rename legacy missions", query: "ALTER TABLE missions RENAME TO legacy_missions", skip: !hasMissions},
		{desc: "create schema", query: schemaSQL},
		{
			desc: "copy legacy series",
			query: `INSERT INTO series (series_id, feed_url, feed_source, name, created_at)
                SELECT series_id, COALESCE(rss_link, ''), COALESCE(rss_source, ''), NULL, ? FROM legacy_series`,
			args: []any{now},
		},
		{
			desc: "copy legacy missions",
			query: `INSERT INTO missions (id, series_id, content_id, created_at)
                SELECT id, series_id, info_hash, ? FROM legacy_missions
                WHERE series_id IN (SELECT series_id FROM series)`,
			args: []any{now},
			skip: !hasMissions,
		},
		{desc: "drop legacy series", query: "DROP TABLE legacy_series"},
		{desc: "drop legacy missions", query: "DROP TABLE legacy_missions", skip: !hasMissions},
		{desc: "record schema version", query: "INSERT INTO schema_version (version) VALUES (?)", args: []any{schemaVersion}},
	}
	for _, step := range steps {
		if step.skip {
			continue
		}
		if _, err := tx.ExecContext(ctx, step.query, step.args...); err != nil {
			return fmt.Errorf("adopt legacy database: %s: %w", step.desc, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit legacy adoption: %w", err)
	}
	return nil
}
