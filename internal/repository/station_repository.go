package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/avainio/bikeviz-backend-go/internal/models"
)

// StationRepository handles database operations for stations and their
// metric values
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository creates a new station repository
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// UpsertStations inserts or updates stations in one transaction
func (r *StationRepository) UpsertStations(stations []models.Station) error {
	if len(stations) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO stations (station_id, name, lat, lon, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(station_id) DO UPDATE SET
			name = excluded.name,
			lat = excluded.lat,
			lon = excluded.lon,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare station upsert: %w", err)
	}
	defer stmt.Close()

	for i := range stations {
		s := &stations[i]
		if _, err := stmt.Exec(s.ID, s.Name, s.Lat, s.Lon); err != nil {
			return fmt.Errorf("failed to upsert station %s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit station upsert: %w", err)
	}

	return nil
}

// ReplaceMetrics replaces all metric values for the given stations
func (r *StationRepository) ReplaceMetrics(metrics map[string]map[models.MetricKey]float64) error {
	if len(metrics) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO station_metrics (station_id, metric, direction, value, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(station_id, metric, direction) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare metric upsert: %w", err)
	}
	defer stmt.Close()

	for stationID, values := range metrics {
		for key, value := range values {
			if _, err := stmt.Exec(stationID, string(key.Metric), string(key.Direction), value); err != nil {
				return fmt.Errorf("failed to upsert metric %s for station %s: %w", key, stationID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit metric upsert: %w", err)
	}

	return nil
}

// GetStations retrieves all stations with their metric values attached
func (r *StationRepository) GetStations() ([]models.Station, error) {
	rows, err := r.db.Query(`
		SELECT station_id, name, lat, lon
		FROM stations
		ORDER BY station_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	var stations []models.Station
	index := make(map[string]int)

	for rows.Next() {
		var s models.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Lat, &s.Lon); err != nil {
			return nil, fmt.Errorf("failed to scan station: %w", err)
		}
		s.Metrics = make(map[models.MetricKey]float64)
		index[s.ID] = len(stations)
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stations: %w", err)
	}

	metricRows, err := r.db.Query(`
		SELECT station_id, metric, direction, value
		FROM station_metrics
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query station metrics: %w", err)
	}
	defer metricRows.Close()

	for metricRows.Next() {
		var stationID, metric, direction string
		var value float64
		if err := metricRows.Scan(&stationID, &metric, &direction, &value); err != nil {
			return nil, fmt.Errorf("failed to scan station metric: %w", err)
		}

		i, ok := index[stationID]
		if !ok {
			continue
		}
		key := models.MetricKey{
			Metric:    models.Metric(metric),
			Direction: models.Direction(direction),
		}
		stations[i].Metrics[key] = value
	}

	return stations, metricRows.Err()
}

// MetricsVersion returns a token that changes whenever any metric row
// changes, used in visualization cache keys.
func (r *StationRepository) MetricsVersion() (string, error) {
	var count int64
	var latest sql.NullString
	err := r.db.QueryRow(`
		SELECT COUNT(*), MAX(updated_at) FROM station_metrics
	`).Scan(&count, &latest)
	if err != nil {
		return "", fmt.Errorf("failed to query metrics version: %w", err)
	}

	return fmt.Sprintf("%d-%s", count, latest.String), nil
}

// RecordIngestRun stores a summary row for a completed ingest
func (r *StationRepository) RecordIngestRun(source string, total, valid, stations int, startedAt time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO ingest_runs (source, trips_total, trips_valid, stations_seen, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, source, total, valid, stations, startedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record ingest run: %w", err)
	}
	return nil
}
