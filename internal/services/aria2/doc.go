// Package aria2 is a minimal JSON-RPC client for the aria2 download daemon.
//
// Only the calls nyamedia needs are implemented: aria2.addUri to queue a
// download and aria2.getVersion for health checks. Calls run behind a circuit
// breaker so a daemon that is down fails fast for the rest of an ingestion
// run instead of costing one full timeout per release.
package aria2
