// Package main hosts the nyamedia CLI entrypoint and command graph.
//
// The Cobra-based command tree covers series administration (add, series,
// missions), ingestion (run, watch, and the bare root command), diagnostics
// (doctor, sources, test-notify), and configuration scaffolding. It
// centralizes configuration resolution, the --database override, and logger
// construction so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
