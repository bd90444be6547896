// Package feed fetches RSS and Atom documents and flattens their items into
// Entry values the extractors understand.
//
// Fetches share one rate limiter so a run over many series stays polite to
// the same feed host. Parsing is delegated to gofeed; extension elements such
// as nyaa:infoHash survive as Entry.Extensions keyed by namespace prefix.
package feed
