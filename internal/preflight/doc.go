// Package preflight provides readiness checks for the configuration, the
// store, and the external services nyamedia depends on.
//
// The CLI "nyamedia doctor" command runs RunAll and renders each Result. The
// individual check functions are exported so commands can run a single check
// before doing work (run and watch verify the store directory first).
//
// Optional integrations report Passed with a descriptive detail when they are
// not configured; only required pieces fail.
package preflight
