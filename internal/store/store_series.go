package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"nyamedia/internal/services"
)

// AddSeries registers a series. Registering an id twice is a validation error.
func (s *Store) AddSeries(ctx context.Context, series Series) (*Series, error) {
	if series.ID <= 0 {
		return nil, services.Wrap(services.ErrValidation, component, "add series", "series id must be positive", nil)
	}
	series.FeedURL = strings.TrimSpace(series.FeedURL)
	series.Source = strings.TrimSpace(series.Source)
	if series.FeedURL == "" {
		return nil, services.Wrap(services.ErrValidation, component, "add series", "feed url is required", nil)
	}
	if series.Source == "" {
		return nil, services.Wrap(services.ErrValidation, component, "add series", "feed source is required", nil)
	}

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO series (series_id, feed_url, feed_source, name, created_at) VALUES (?, ?, ?, ?, ?)`,
		series.ID,
		series.FeedURL,
		series.Source,
		nullableString(strings.TrimSpace(series.Name)),
		timestamp(),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, services.Wrap(services.ErrValidation, component, "add series",
				fmt.Sprintf("series %d is already tracked", series.ID), err)
		}
		return nil, writeErr("add series", err)
	}
	return s.GetSeries(ctx, series.ID)
}

// GetSeries fetches a series by id. A missing series is services.ErrNotFound.
func (s *Store) GetSeries(ctx context.Context, id int64) (*Series, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+seriesColumns+` FROM series WHERE series_id = ?`, id)
	series, err := scanSeries(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, component, "get series", fmt.Sprintf("series %d", id), nil)
	}
	if err != nil {
		return nil, readErr("get series", err)
	}
	return series, nil
}

// ListSeries returns every tracked series ordered by id.
func (s *Store) ListSeries(ctx context.Context) ([]Series, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+seriesColumns+` FROM series ORDER BY series_id`)
	if err != nil {
		return nil, readErr("list series", err)
	}
	defer rows.Close()

	var out []Series
	for rows.Next() {
		series, err := scanSeries(rows)
		if err != nil {
			return nil, readErr("list series", err)
		}
		out = append(out, *series)
	}
	if err := rows.Err(); err != nil {
		return nil, readErr("list series", err)
	}
	return out, nil
}

// UpdateFeedURL replaces the feed a series is bound to.
func (s *Store) UpdateFeedURL(ctx context.Context, id int64, feedURL string) error {
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return services.Wrap(services.ErrValidation, component, "update feed url", "feed url is required", nil)
	}
	res, err := s.execWithRetry(ctx, `UPDATE series SET feed_url = ? WHERE series_id = ?`, feedURL, id)
	if err != nil {
		return writeErr("update feed url", err)
	}
	return requireAffected(res, "update feed url", id)
}

// RemoveSeries deletes a series together with its missions.
func (s *Store) RemoveSeries(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM series WHERE series_id = ?`, id)
	if err != nil {
		return writeErr("remove series", err)
	}
	return requireAffected(res, "remove series", id)
}

func requireAffected(res sql.Result, operation string, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return writeErr(operation, err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, component, operation, fmt.Sprintf("series %d", id), nil)
	}
	return nil
}
