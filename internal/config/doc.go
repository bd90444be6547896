// Package config loads, normalizes, and validates nyamedia configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ARIA2_SECRET and NYAMEDIA_API_HOST. The Config type centralizes every knob
// the ingestion engine and CLI need so the store location, aria2 endpoint, and
// feed politeness settings are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
