// Package extract maps raw feed entries to stable release identifiers, one
// strategy per feed source.
package extract

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"nyamedia/internal/feed"
	"nyamedia/internal/services"
)

// Release is what a feed entry resolves to: the identifier used for dedup and
// the URI handed to the download daemon.
type Release struct {
	ContentID string
	URI       string
}

// Extractor resolves one feed entry. Entries the strategy cannot use return an
// error tagged services.ErrUnsupportedEntry.
type Extractor interface {
	Extract(entry feed.Entry) (Release, error)
}

// Func adapts a plain function to Extractor.
type Func func(entry feed.Entry) (Release, error)

func (f Func) Extract(entry feed.Entry) (Release, error) { return f(entry) }

// Registry holds extractors keyed by source tag.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]Extractor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[string]Extractor)}
}

// Default returns a registry with the built-in nyaa and dmhy strategies.
func Default() *Registry {
	r := NewRegistry()
	r.Register(SourceNyaa, Func(nyaa))
	r.Register(SourceDmhy, Func(dmhy))
	return r
}

// Register binds an extractor to a source tag, replacing any previous one.
func (r *Registry) Register(tag string, extractor Extractor) {
	tag = normalizeTag(tag)
	if tag == "" || extractor == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[tag] = extractor
}

// Lookup returns the extractor for tag.
func (r *Registry) Lookup(tag string) (Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	extractor, ok := r.extractors[normalizeTag(tag)]
	return extractor, ok
}

// Supports reports whether tag has a registered extractor.
func (r *Registry) Supports(tag string) bool {
	_, ok := r.Lookup(tag)
	return ok
}

// Extract resolves entry with the extractor registered for tag. An unknown
// tag is services.ErrUnsupportedSource.
func (r *Registry) Extract(tag string, entry feed.Entry) (Release, error) {
	extractor, ok := r.Lookup(tag)
	if !ok {
		return Release{}, services.Wrap(services.ErrUnsupportedSource, "extract", "lookup",
			fmt.Sprintf("no extractor for source %q", tag), nil)
	}
	return extractor.Extract(entry)
}

// Sources lists registered tags in sorted order.
func (r *Registry) Sources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.extractors))
	for tag := range r.extractors {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
