package etl

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/avainio/bikeviz-backend-go/internal/database"
	"github.com/avainio/bikeviz-backend-go/internal/models"
	"github.com/avainio/bikeviz-backend-go/internal/repository"
)

// Kaivopuisto and Kamppi are about 1.9 km apart; trip distances below must
// stay plausible against that straight line.
const pipelineStationsJSON = `{"data": {"bikeRentalStations": [
	{"stationId": "001", "name": "Kaivopuisto", "lat": 60.155, "lon": 24.950},
	{"stationId": "047", "name": "Kamppi", "lat": 60.169, "lon": 24.931}
]}}`

const pipelineTripCSV = `Departure,Return,Departure station id,Return station id,Covered distance (m),Duration (sec.)
2021-06-07T08:10:00,2021-06-07T08:22:00,001,047,2150,720
2021-06-07T17:00:00,2021-06-07T17:12:00,047,001,2300,720
2021-06-07T09:00:00,2021-06-07T09:01:00,001,047,100,60
`

func TestPipelineRun(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	stationRepo := repository.NewStationRepository(db)
	tripRepo := repository.NewTripRepository(db)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pipelineStationsJSON))
	}))
	defer srv.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2021-06.csv"), []byte(pipelineTripCSV), 0o644))

	pipeline := NewPipeline(NewStationFetcher(srv.URL, ""), stationRepo, tripRepo)
	require.NoError(t, pipeline.Run(context.Background(), dir))

	// The 100 m trip is shorter than the straight line between the
	// stations and must have been rejected.
	stations, err := stationRepo.GetStations()
	require.NoError(t, err)
	require.Len(t, stations, 2)

	depKey := models.MetricKey{Metric: models.MetricTripCount, Direction: models.DirectionDepartures}
	arrKey := models.MetricKey{Metric: models.MetricTripCount, Direction: models.DirectionArrivals}
	assert.Equal(t, 1.0, stations[0].Metrics[depKey])
	assert.Equal(t, 1.0, stations[0].Metrics[arrKey])

	// Enriched trips are persisted with their hour-of-day components
	profile, err := tripRepo.HourlyProfile("001")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.Departures[8])
	assert.Equal(t, 1, profile.Arrivals[17])
	assert.Zero(t, profile.Departures[9])
}

func TestPipelineRunFailsWithoutCSVFiles(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pipelineStationsJSON))
	}))
	defer srv.Close()

	pipeline := NewPipeline(NewStationFetcher(srv.URL, ""),
		repository.NewStationRepository(db), repository.NewTripRepository(db))

	err = pipeline.Run(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no CSV files")
}
