package testsupport

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// FeedItem describes one <item> of a generated RSS document. Zero fields are
// omitted from the output.
type FeedItem struct {
	Title     string
	Link      string
	InfoHash  string
	Enclosure string
	Published time.Time
}

// NyaaFeed renders an RSS 2.0 document in the nyaa layout, with the info
// hash carried in the nyaa:infoHash extension element.
func NyaaFeed(items ...FeedItem) string {
	return renderFeed(`xmlns:nyaa="https://nyaa.si/xmlns/nyaa"`, items)
}

// DmhyFeed renders an RSS 2.0 document in the dmhy layout, where the magnet
// link is the item's enclosure.
func DmhyFeed(items ...FeedItem) string {
	return renderFeed("", items)
}

func renderFeed(namespaces string, items []FeedItem) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, "<rss version=\"2.0\" %s>\n<channel>\n<title>test feed</title>\n<link>https://example.com/</link>\n<description>test</description>\n", namespaces)
	for _, item := range items {
		b.WriteString("<item>\n")
		if item.Title != "" {
			fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(item.Title))
		}
		if item.Link != "" {
			fmt.Fprintf(&b, "<link>%s</link>\n", html.EscapeString(item.Link))
		}
		if !item.Published.IsZero() {
			fmt.Fprintf(&b, "<pubDate>%s</pubDate>\n", item.Published.UTC().Format(time.RFC1123Z))
		}
		if item.InfoHash != "" {
			fmt.Fprintf(&b, "<nyaa:infoHash>%s</nyaa:infoHash>\n", html.EscapeString(item.InfoHash))
		}
		if item.Enclosure != "" {
			fmt.Fprintf(&b, "<enclosure url=\"%s\" length=\"1\" type=\"application/x-bittorrent\"/>\n", html.EscapeString(item.Enclosure))
		}
		b.WriteString("</item>\n")
	}
	b.WriteString("</channel>\n</rss>\n")
	return b.String()
}
