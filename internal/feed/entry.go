package feed

import (
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/text/width"
)

// Enclosure is a media attachment on a feed item.
type Enclosure struct {
	URL    string
	Type   string
	Length string
}

// Entry is one feed item reduced to the fields release extraction needs.
type Entry struct {
	Title      string
	Link       string
	GUID       string
	Published  *time.Time
	Enclosures []Enclosure
	// Extensions maps namespace prefix -> element name -> values in document order.
	Extensions map[string]map[string][]string
}

// Extension returns the first non-blank value of prefix:name, trimmed.
func (e Entry) Extension(prefix, name string) string {
	for _, value := range e.Extensions[prefix][name] {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// Feed is a parsed document.
type Feed struct {
	Title   string
	Entries []Entry
}

func fromGofeed(parsed *gofeed.Feed) *Feed {
	out := &Feed{Title: foldTitle(parsed.Title)}
	out.Entries = make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		out.Entries = append(out.Entries, fromItem(item))
	}
	return out
}

func fromItem(item *gofeed.Item) Entry {
	entry := Entry{
		Title: foldTitle(item.Title),
		Link:  strings.TrimSpace(item.Link),
		GUID:  strings.TrimSpace(item.GUID),
	}
	switch {
	case item.PublishedParsed != nil:
		published := item.PublishedParsed.UTC()
		entry.Published = &published
	case item.UpdatedParsed != nil:
		updated := item.UpdatedParsed.UTC()
		entry.Published = &updated
	}
	for _, enc := range item.Enclosures {
		if enc == nil {
			continue
		}
		entry.Enclosures = append(entry.Enclosures, Enclosure{
			URL:    strings.TrimSpace(enc.URL),
			Type:   enc.Type,
			Length: enc.Length,
		})
	}
	if len(item.Extensions) > 0 {
		entry.Extensions = make(map[string]map[string][]string, len(item.Extensions))
		for prefix, elements := range item.Extensions {
			names := make(map[string][]string, len(elements))
			for name, values := range elements {
				for _, value := range values {
					names[name] = append(names[name], value.Value)
				}
			}
			entry.Extensions[prefix] = names
		}
	}
	return entry
}

// foldTitle maps full-width ASCII variants (common in CJK release titles) to
// their narrow forms and collapses whitespace.
func foldTitle(title string) string {
	return strings.Join(strings.Fields(width.Fold.String(title)), " ")
}

// Chronological returns entries oldest first when every entry carries a publish
// time. Otherwise the feed's own order is returned unchanged.
func Chronological(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	for _, entry := range out {
		if entry.Published == nil {
			return out
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Published.Before(*out[j].Published)
	})
	return out
}
