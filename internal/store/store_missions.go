package store

import (
	"context"
	"strings"

	"nyamedia/internal/services"
)

// ListMissions returns the missions recorded for a series, oldest first.
func (s *Store) ListMissions(ctx context.Context, seriesID int64) ([]Mission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+missionColumns+` FROM missions WHERE series_id = ? ORDER BY id`, seriesID)
	if err != nil {
		return nil, readErr("list missions", err)
	}
	defer rows.Close()

	var out []Mission
	for rows.Next() {
		mission, err := scanMission(rows)
		if err != nil {
			return nil, readErr("list missions", err)
		}
		out = append(out, *mission)
	}
	if err := rows.Err(); err != nil {
		return nil, readErr("list missions", err)
	}
	return out, nil
}

// AddMission records a dispatched release. Uniqueness per series is the
// caller's responsibility; the schema only indexes the pair.
func (s *Store) AddMission(ctx context.Context, seriesID int64, contentID string) (*Mission, error) {
	contentID = strings.TrimSpace(contentID)
	if contentID == "" {
		return nil, services.Wrap(services.ErrStoreWrite, component, "add mission", "content id is required", nil)
	}
	created := timestamp()
	res, err := s.execWithRetry(ctx,
		`INSERT INTO missions (series_id, content_id, created_at) VALUES (?, ?, ?)`,
		seriesID, contentID, created)
	if err != nil {
		return nil, writeErr("add mission", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, writeErr("add mission", err)
	}
	mission := &Mission{ID: id, SeriesID: seriesID, ContentID: contentID}
	if parsed, err := parseTimeString(created); err == nil {
		mission.CreatedAt = parsed
	}
	return mission, nil
}

// CountMissions returns how many releases were recorded for a series.
func (s *Store) CountMissions(ctx context.Context, seriesID int64) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM missions WHERE series_id = ?`, seriesID,
	).Scan(&count); err != nil {
		return 0, readErr("count missions", err)
	}
	return count, nil
}
