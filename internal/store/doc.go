// Package store persists tracked series and their dispatched releases
// ("missions") in SQLite.
//
// The Store owns connection setup, schema creation and version checks, and
// the typed CRUD used by the ingestion engine and the CLI. Read failures are
// tagged services.ErrStoreRead and write failures services.ErrStoreWrite so
// callers can classify them without inspecting driver errors.
//
// Databases written by the earlier script-based tool (series.rss_link,
// missions.info_hash, no schema_version table) are adopted in place on first
// open. Schema changes bump schemaVersion in schema.go.
package store
