// Package notifications delivers ingestion events to ntfy.
//
// The ntfy implementation publishes to the topic URL configured under
// [notifications] and degrades to a no-op when no topic is set. Each event
// kind has its own toggle so a busy watch loop can report only errors.
package notifications
