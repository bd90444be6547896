package store

import "context"

// Stats aggregates database contents for the doctor command.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{SeriesBySource: map[string]int{}}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return stats, readErr("stats", err)
	}
	stats.SchemaVersion = version

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM missions`).Scan(&stats.Missions); err != nil {
		return stats, readErr("stats", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT feed_source, COUNT(1) FROM series GROUP BY feed_source`)
	if err != nil {
		return stats, readErr("stats", err)
	}
	defer rows.Close()
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return stats, readErr("stats", err)
		}
		stats.SeriesBySource[source] = count
		stats.Series += count
	}
	if err := rows.Err(); err != nil {
		return stats, readErr("stats", err)
	}
	return stats, nil
}

// Ping verifies the database connection is usable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return readErr("ping", err)
	}
	return nil
}
