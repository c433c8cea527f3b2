package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/avainio/bikeviz-backend-go/internal/models"
)

// TripRepository handles database operations for enriched trips
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

// ReplaceTrips replaces the stored trip set with a new ingest's output
func (r *TripRepository) ReplaceTrips(trips []models.EnrichedTrip) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM trips"); err != nil {
		return fmt.Errorf("failed to clear trips: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO trips (
			departure_station_id, return_station_id,
			departure_time, return_time, distance_m, duration_s,
			departure_date, departure_hour, departure_weekday,
			return_date, return_hour, return_weekday
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare trip insert: %w", err)
	}
	defer stmt.Close()

	for i := range trips {
		t := &trips[i]
		_, err := stmt.Exec(
			t.DepartureStationID, t.ReturnStationID,
			t.DepartureTime.UTC().Format(time.RFC3339), t.ReturnTime.UTC().Format(time.RFC3339),
			t.DistanceMeters, t.DurationSeconds,
			t.DepartureDate, t.DepartureHour, t.DepartureWeekday,
			t.ReturnDate, t.ReturnHour, t.ReturnWeekday,
		)
		if err != nil {
			return fmt.Errorf("failed to insert trip: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trip insert: %w", err)
	}

	return nil
}

// HourlyProfile returns a station's departure and arrival counts bucketed
// by hour of day
func (r *TripRepository) HourlyProfile(stationID string) (*models.HourlyProfile, error) {
	profile := &models.HourlyProfile{}

	if err := r.scanHourly(
		"SELECT departure_hour, COUNT(*) FROM trips WHERE departure_station_id = ? GROUP BY departure_hour",
		stationID, &profile.Departures,
	); err != nil {
		return nil, fmt.Errorf("failed to query departure profile: %w", err)
	}

	if err := r.scanHourly(
		"SELECT return_hour, COUNT(*) FROM trips WHERE return_station_id = ? GROUP BY return_hour",
		stationID, &profile.Arrivals,
	); err != nil {
		return nil, fmt.Errorf("failed to query arrival profile: %w", err)
	}

	return profile, nil
}

func (r *TripRepository) scanHourly(query, stationID string, buckets *[24]int) error {
	rows, err := r.db.Query(query, stationID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var hour, count int
		if err := rows.Scan(&hour, &count); err != nil {
			return err
		}
		if hour >= 0 && hour < 24 {
			buckets[hour] = count
		}
	}

	return rows.Err()
}
