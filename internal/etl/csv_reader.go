package etl

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/avainio/bikeviz-backend-go/internal/models"
)

// Column headers of the HSL open-data trip CSV export
const (
	colDeparture          = "Departure"
	colReturn             = "Return"
	colDepartureStationID = "Departure station id"
	colReturnStationID    = "Return station id"
	colDistance           = "Covered distance (m)"
	colDuration           = "Duration (sec.)"
)

// timeLayouts tried in order when parsing trip timestamps; the export has
// switched formats between seasons.
var timeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ListCSVFiles returns the sorted CSV files in a directory
func ListCSVFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("trip data directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to list CSV files: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// ReadTrips parses trips from a CSV stream. Rows that fail to parse are
// returned as a count, not an error: a season export routinely contains a
// handful of malformed rows and they must not abort the ingest.
func ReadTrips(r io.Reader) ([]models.Trip, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colDeparture, colReturn, colDepartureStationID, colReturnStationID, colDistance, colDuration} {
		if _, ok := cols[required]; !ok {
			return nil, 0, fmt.Errorf("missing required column %q", required)
		}
	}

	var trips []models.Trip
	malformed := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			malformed++
			continue
		}

		trip, err := parseTrip(record, cols)
		if err != nil {
			malformed++
			continue
		}
		trips = append(trips, trip)
	}

	return trips, malformed, nil
}

func parseTrip(record []string, cols map[string]int) (models.Trip, error) {
	field := func(name string) (string, error) {
		i := cols[name]
		if i >= len(record) {
			return "", fmt.Errorf("row too short for column %q", name)
		}
		return strings.TrimSpace(record[i]), nil
	}

	var trip models.Trip
	var err error

	dep, err := field(colDeparture)
	if err != nil {
		return trip, err
	}
	if trip.DepartureTime, err = parseTime(dep); err != nil {
		return trip, err
	}

	ret, err := field(colReturn)
	if err != nil {
		return trip, err
	}
	if trip.ReturnTime, err = parseTime(ret); err != nil {
		return trip, err
	}

	if trip.DepartureStationID, err = field(colDepartureStationID); err != nil {
		return trip, err
	}
	if trip.ReturnStationID, err = field(colReturnStationID); err != nil {
		return trip, err
	}

	dist, err := field(colDistance)
	if err != nil {
		return trip, err
	}
	if trip.DistanceMeters, err = strconv.ParseFloat(dist, 64); err != nil {
		return trip, fmt.Errorf("invalid distance %q: %w", dist, err)
	}

	dur, err := field(colDuration)
	if err != nil {
		return trip, err
	}
	if trip.DurationSeconds, err = strconv.ParseFloat(dur, 64); err != nil {
		return trip, fmt.Errorf("invalid duration %q: %w", dur, err)
	}

	return trip, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
