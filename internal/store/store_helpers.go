package store

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"nyamedia/internal/services"
)

const (
	seriesColumns  = "series_id, feed_url, feed_source, name, created_at"
	missionColumns = "id, series_id, content_id, created_at"
	component      = "store"
)

type scanner interface{ Scan(dest ...any) error }

func scanSeries(row scanner) (*Series, error) {
	var (
		series     Series
		name       sql.NullString
		createdRaw sql.NullString
	)
	if err := row.Scan(&series.ID, &series.FeedURL, &series.Source, &name, &createdRaw); err != nil {
		return nil, err
	}
	series.Name = name.String
	if created, err := parseTimeString(createdRaw.String); err == nil {
		series.CreatedAt = created
	}
	return &series, nil
}

func scanMission(row scanner) (*Mission, error) {
	var (
		mission    Mission
		createdRaw sql.NullString
	)
	if err := row.Scan(&mission.ID, &mission.SeriesID, &mission.ContentID, &createdRaw); err != nil {
		return nil, err
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		mission.CreatedAt = created
	}
	return &mission, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func readErr(operation string, err error) error {
	return services.Wrap(services.ErrStoreRead, component, operation, "", err)
}

func writeErr(operation string, err error) error {
	return services.Wrap(services.ErrStoreWrite, component, operation, "", err)
}
