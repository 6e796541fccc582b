package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ewintr.nl/videotime/model"
	"github.com/google/uuid"
)

// SQL stores snapshots in PostgreSQL or SQLite. Both accept the same
// statements.
type SQL struct {
	db *sql.DB
}

func NewSQL(db *sql.DB) (*SQL, error) {
	s := &SQL{db: db}
	if err := migrate(db, sqlMigration); err != nil {
		return &SQL{}, err
	}

	return s, nil
}

func (s *SQL) ReplaceAll(ctx context.Context, snap model.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, query := range []string{`DELETE FROM video`, `DELETE FROM statistics`} {
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return err
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO video
(position, youtube_id, title, duration_seconds, published_at)
VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, d := range snap.Details {
		if _, err := stmt.ExecContext(ctx, i, string(d.YoutubeID), d.Title, d.DurationSeconds, d.PublishedAt); err != nil {
			return fmt.Errorf("could not insert video %s: %w", d.YoutubeID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO statistics
(run_id, mean_duration, std_duration, total_duration, total_count, speed_of_light, time_sun_earth, closest_star, caption, last_updated)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		snap.RunID.String(),
		snap.Stats.MeanDuration, snap.Stats.StdDuration, snap.Stats.TotalDuration, snap.Stats.TotalCount,
		snap.Facts.SpeedOfLight, snap.Facts.TimeSunEarth, snap.Facts.ClosestStar,
		snap.Caption, snap.LastUpdated.UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQL) Latest(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot
	var runID, lastUpdated string
	err := s.db.QueryRowContext(ctx, `
SELECT run_id, mean_duration, std_duration, total_duration, total_count, speed_of_light, time_sun_earth, closest_star, caption, last_updated
FROM statistics`).Scan(
		&runID,
		&snap.Stats.MeanDuration, &snap.Stats.StdDuration, &snap.Stats.TotalDuration, &snap.Stats.TotalCount,
		&snap.Facts.SpeedOfLight, &snap.Facts.TimeSunEarth, &snap.Facts.ClosestStar,
		&snap.Caption, &lastUpdated,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return model.Snapshot{}, ErrNotFound
	case err != nil:
		return model.Snapshot{}, err
	}

	if snap.RunID, err = uuid.Parse(runID); err != nil {
		return model.Snapshot{}, fmt.Errorf("invalid run id %q: %w", runID, err)
	}
	if snap.LastUpdated, err = time.Parse(time.RFC3339, lastUpdated); err != nil {
		return model.Snapshot{}, fmt.Errorf("invalid last updated %q: %w", lastUpdated, err)
	}

	return snap, nil
}

func (s *SQL) Stats(ctx context.Context) (model.Statistics, error) {
	snap, err := s.Latest(ctx)
	if err != nil {
		return model.Statistics{}, err
	}
	return snap.Stats, nil
}

func (s *SQL) Facts(ctx context.Context) (model.DerivedFacts, error) {
	snap, err := s.Latest(ctx)
	if err != nil {
		return model.DerivedFacts{}, err
	}
	return snap.Facts, nil
}

func (s *SQL) Details(ctx context.Context) ([]model.VideoDetail, error) {
	return s.videos(ctx, `
SELECT youtube_id, title, duration_seconds, published_at
FROM video
ORDER BY position`)
}

// Recent returns the most recently published videos first.
func (s *SQL) Recent(ctx context.Context, limit int) ([]model.VideoDetail, error) {
	return s.videos(ctx, `
SELECT youtube_id, title, duration_seconds, published_at
FROM video
ORDER BY published_at DESC, position
LIMIT $1`, limit)
}

func (s *SQL) videos(ctx context.Context, query string, args ...any) ([]model.VideoDetail, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []model.VideoDetail{}
	for rows.Next() {
		var d model.VideoDetail
		var ytID string
		if err := rows.Scan(&ytID, &d.Title, &d.DurationSeconds, &d.PublishedAt); err != nil {
			return nil, err
		}
		d.YoutubeID = model.YoutubeVideoID(ytID)
		details = append(details, d)
	}

	return details, rows.Err()
}
