package store

import "time"

// Series is a tracked media series bound to one feed.
type Series struct {
	ID        int64
	FeedURL   string
	Source    string
	Name      string
	CreatedAt time.Time
}

// DisplayName returns the stored name, falling back to the numeric id.
func (s Series) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return "series " + itoa(s.ID)
}

// Mission records that a release was handed to the download daemon.
type Mission struct {
	ID        int64
	SeriesID  int64
	ContentID string
	CreatedAt time.Time
}

// Stats summarizes database contents for diagnostics.
type Stats struct {
	SchemaVersion  int
	Series         int
	Missions       int
	SeriesBySource map[string]int
}
