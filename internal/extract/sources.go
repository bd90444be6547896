package extract

import (
	"nyamedia/internal/feed"
	"nyamedia/internal/services"
)

const (
	SourceNyaa = "nyaa"
	SourceDmhy = "dmhy"
)

// nyaa feeds carry the torrent info hash in a nyaa:infoHash element; the item
// link is the .torrent download.
func nyaa(entry feed.Entry) (Release, error) {
	hash := entry.Extension("nyaa", "infoHash")
	if hash == "" {
		return Release{}, services.Wrap(services.ErrUnsupportedEntry, "extract", SourceNyaa, "entry has no nyaa:infoHash", nil)
	}
	if entry.Link == "" {
		return Release{}, services.Wrap(services.ErrUnsupportedEntry, "extract", SourceNyaa, "entry has no link", nil)
	}
	return Release{ContentID: hash, URI: entry.Link}, nil
}

// dmhy feeds put the magnet link in the first enclosure; the item link is an
// HTML topic page, so the magnet doubles as both identifier and URI.
func dmhy(entry feed.Entry) (Release, error) {
	if len(entry.Enclosures) == 0 {
		return Release{}, services.Wrap(services.ErrUnsupportedEntry, "extract", SourceDmhy, "entry has no enclosure", nil)
	}
	magnet := entry.Enclosures[0].URL
	if magnet == "" {
		return Release{}, services.Wrap(services.ErrUnsupportedEntry, "extract", SourceDmhy, "enclosure has no url", nil)
	}
	return Release{ContentID: magnet, URI: magnet}, nil
}
