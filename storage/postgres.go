package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type PostgresInfo struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

func OpenPostgres(info PostgresInfo) (*sql.DB, error) {
	db, err := sql.Open("postgres", fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", info.Host, info.Port, info.User, info.Password, info.Database))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

// OpenSQLite opens the database file at path, ":memory:" for a throwaway
// database.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer, and every connection to :memory: would
	// see its own empty database
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

var sqlMigration = []string{
	`CREATE TABLE video (
position INTEGER PRIMARY KEY,
youtube_id VARCHAR(255) NOT NULL,
title TEXT NOT NULL,
duration_seconds BIGINT NOT NULL,
published_at VARCHAR(255) NOT NULL
)`,
	`CREATE INDEX video_published_at ON video (published_at)`,
	`CREATE TABLE statistics (
run_id VARCHAR(36) PRIMARY KEY,
mean_duration VARCHAR(32) NOT NULL,
std_duration VARCHAR(32) NOT NULL,
total_duration VARCHAR(32) NOT NULL,
total_count INTEGER NOT NULL,
speed_of_light VARCHAR(64) NOT NULL,
time_sun_earth VARCHAR(64) NOT NULL,
closest_star VARCHAR(64) NOT NULL,
last_updated VARCHAR(64) NOT NULL
)`,
	`ALTER TABLE statistics ADD COLUMN caption TEXT NOT NULL DEFAULT ''`,
}

func migrate(db *sql.DB, wanted []string) error {
	query := `CREATE TABLE IF NOT EXISTS migration
("id" INTEGER PRIMARY KEY, "query" TEXT)`
	_, err := db.Exec(query)
	if err != nil {
		return err
	}

	// find existing
	rows, err := db.Query(`SELECT query FROM migration ORDER BY id`)
	if err != nil {
		return err
	}

	existing := []string{}
	for rows.Next() {
		var query string
		if err := rows.Scan(&query); err != nil {
			rows.Close()
			return err
		}
		existing = append(existing, query)
	}
	rows.Close()

	// compare
	missing, err := compareMigrations(wanted, existing)
	if err != nil {
		return err
	}

	// execute missing
	for i, query := range missing {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("could not execute migration %d: %w", len(existing)+i+1, err)
		}

		// register
		if _, err := db.Exec(`
INSERT INTO migration
(id, query) VALUES ($1, $2)
`, len(existing)+i+1, query); err != nil {
			return err
		}
	}

	return nil
}

func compareMigrations(wanted, existing []string) ([]string, error) {
	needed := []string{}
	if len(wanted) < len(existing) {
		return []string{}, fmt.Errorf("not enough migrations")
	}

	for i, want := range wanted {
		switch {
		case i >= len(existing):
			needed = append(needed, want)
		case want == existing[i]:
			// do nothing
		case want != existing[i]:
			return []string{}, fmt.Errorf("incompatible migration: %v", want)
		}
	}

	return needed, nil
}
