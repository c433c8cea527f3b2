package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration is one schema change applied in version order
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations holds the embedded schema history. Append only.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_stations",
		SQL: `
			CREATE TABLE IF NOT EXISTS stations (
				station_id TEXT PRIMARY KEY,
				name       TEXT NOT NULL,
				lat        REAL NOT NULL,
				lon        REAL NOT NULL,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
	{
		Version: 2,
		Name:    "create_station_metrics",
		SQL: `
			CREATE TABLE IF NOT EXISTS station_metrics (
				station_id TEXT NOT NULL,
				metric     TEXT NOT NULL,
				direction  TEXT NOT NULL,
				value      REAL NOT NULL,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (station_id, metric, direction),
				FOREIGN KEY (station_id) REFERENCES stations(station_id)
			);
			CREATE INDEX IF NOT EXISTS idx_station_metrics_key
				ON station_metrics(metric, direction);
		`,
	},
	{
		Version: 3,
		Name:    "create_ingest_runs",
		SQL: `
			CREATE TABLE IF NOT EXISTS ingest_runs (
				id            INTEGER PRIMARY KEY AUTOINCREMENT,
				source        TEXT NOT NULL,
				trips_total   INTEGER NOT NULL,
				trips_valid   INTEGER NOT NULL,
				stations_seen INTEGER NOT NULL,
				started_at    TIMESTAMP NOT NULL,
				finished_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
	{
		Version: 4,
		Name:    "create_trips",
		SQL: `
			CREATE TABLE IF NOT EXISTS trips (
				id                   INTEGER PRIMARY KEY AUTOINCREMENT,
				departure_station_id TEXT NOT NULL,
				return_station_id    TEXT NOT NULL,
				departure_time       TIMESTAMP NOT NULL,
				return_time          TIMESTAMP NOT NULL,
				distance_m           REAL NOT NULL,
				duration_s           REAL NOT NULL,
				departure_date       TEXT NOT NULL,
				departure_hour       INTEGER NOT NULL,
				departure_weekday    INTEGER NOT NULL,
				return_date          TEXT NOT NULL,
				return_hour          INTEGER NOT NULL,
				return_weekday       INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_trips_departure
				ON trips(departure_station_id, departure_hour);
			CREATE INDEX IF NOT EXISTS idx_trips_return
				ON trips(return_station_id, return_hour);
		`,
	},
}

// Migrate applies all pending migrations in version order
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		log.Printf("[Database] Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedVersions(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

func applyMigration(db *sql.DB, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.SQL); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		return err
	}

	return tx.Commit()
}
