package service

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/avainio/bikeviz-backend-go/internal/boundary"
	"github.com/avainio/bikeviz-backend-go/internal/database"
	"github.com/avainio/bikeviz-backend-go/internal/models"
	"github.com/avainio/bikeviz-backend-go/internal/repository"
	"github.com/avainio/bikeviz-backend-go/internal/viz"
)

const helsinkiBoundaryJSON = `{"type": "Polygon", "coordinates": [[[24.8, 60.1], [25.2, 60.1], [25.2, 60.3], [24.8, 60.3], [24.8, 60.1]]]}`

func seededRepos(t *testing.T) (*repository.StationRepository, *repository.TripRepository) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	repo := repository.NewStationRepository(db)
	require.NoError(t, repo.UpsertStations([]models.Station{
		{ID: "001", Name: "Kaivopuisto", Lat: 60.155, Lon: 24.950},
		{ID: "047", Name: "Kamppi", Lat: 60.169, Lon: 24.931},
		{ID: "022", Name: "Rautatientori", Lat: 60.171, Lon: 24.944},
	}))

	key := models.MetricKey{Metric: models.MetricTripCount, Direction: models.DirectionDepartures}
	require.NoError(t, repo.ReplaceMetrics(map[string]map[models.MetricKey]float64{
		"001": {key: 120},
		"047": {key: 430},
		"022": {key: 890},
	}))

	return repo, repository.NewTripRepository(db)
}

func seededRepo(t *testing.T) *repository.StationRepository {
	t.Helper()
	repo, _ := seededRepos(t)
	return repo
}

func boundaryLoader(t *testing.T) *boundary.Loader {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(helsinkiBoundaryJSON))
	}))
	t.Cleanup(srv.Close)
	return boundary.NewLoader(srv.URL)
}

func defaultRequest() ScaleRequest {
	return ScaleRequest{
		Metric:    models.MetricTripCount,
		Direction: models.DirectionDepartures,
		Scale:     viz.ScaleLinear,
		Mode:      viz.ModeMarkers,
		Stops:     7,
	}
}

func TestScaleRequestValidate(t *testing.T) {
	req := defaultRequest()
	assert.NoError(t, req.Validate())

	bad := defaultRequest()
	bad.Metric = "speedAvg"
	assert.Error(t, bad.Validate())

	bad = defaultRequest()
	bad.Scale = "sqrt"
	assert.Error(t, bad.Validate())

	bad = defaultRequest()
	bad.Mode = "heatmap"
	assert.Error(t, bad.Validate())
}

func TestScaleExpression(t *testing.T) {
	svc := NewVizService(seededRepo(t), boundaryLoader(t))

	expr, err := svc.ScaleExpression(defaultRequest())
	require.NoError(t, err)

	interp, ok := expr.(viz.Interpolate)
	require.True(t, ok, "expected an interpolate expression, got %T", expr)
	assert.NotEmpty(t, interp.Stops)
}

func TestScaleExpressionRejectsInvalidRequest(t *testing.T) {
	svc := NewVizService(seededRepo(t), boundaryLoader(t))

	req := defaultRequest()
	req.Direction = "inbound"
	_, err := svc.ScaleExpression(req)
	assert.Error(t, err)
}

func TestClusterScaleExpression(t *testing.T) {
	svc := NewVizService(seededRepo(t), boundaryLoader(t))

	key := models.MetricKey{Metric: models.MetricTripCount, Direction: models.DirectionDepartures}
	clusters := []models.ClusterAggregate{
		{Sums: map[models.MetricKey]float64{key: 300}, PointCount: 2},
		{Sums: map[models.MetricKey]float64{key: 890}, PointCount: 1},
	}

	req := defaultRequest()
	req.Mode = viz.ModeClusters
	expr, err := svc.ClusterScaleExpression(req, clusters)
	require.NoError(t, err)
	assert.NotNil(t, expr)
}

func TestRegions(t *testing.T) {
	svc := NewVizService(seededRepo(t), boundaryLoader(t))

	req := defaultRequest()
	req.Mode = viz.ModeRegions
	result, err := svc.Regions(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, result.Cells, 3)
	assert.Equal(t, "tripCount.departures", result.Metric)
	assert.NotEmpty(t, result.Boundary)
	assert.NotNil(t, result.Expression)
}

func TestRegionsBoundaryFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := NewVizService(seededRepo(t), boundary.NewLoader(srv.URL))

	req := defaultRequest()
	req.Mode = viz.ModeRegions
	_, err := svc.Regions(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boundary unavailable")
}

func TestInvalidateCache(t *testing.T) {
	svc := NewVizService(seededRepo(t), boundaryLoader(t))

	_, err := svc.ScaleExpression(defaultRequest())
	require.NoError(t, err)

	// Flush must not break subsequent requests
	svc.InvalidateCache()
	_, err = svc.ScaleExpression(defaultRequest())
	assert.NoError(t, err)
}
