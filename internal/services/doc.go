// Package services defines shared utilities consumed by the ingestion engine and
// its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, series IDs, and feed source tags for
//     logging.
//   - Structured error markers plus the Wrap helper, so callers can classify a
//     failure with errors.Is no matter how deep it was wrapped.
//
// Subpackages hold the remote clients: aria2 for the download daemon and
// metadata for the series lookup service.
package services
