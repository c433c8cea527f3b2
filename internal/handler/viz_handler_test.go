package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/avainio/bikeviz-backend-go/internal/boundary"
	"github.com/avainio/bikeviz-backend-go/internal/database"
	"github.com/avainio/bikeviz-backend-go/internal/models"
	"github.com/avainio/bikeviz-backend-go/internal/repository"
	"github.com/avainio/bikeviz-backend-go/internal/service"
)

const testBoundaryJSON = `{"type": "Polygon", "coordinates": [[[24.8, 60.1], [25.2, 60.1], [25.2, 60.3], [24.8, 60.3], [24.8, 60.1]]]}`

func vizTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	repo := repository.NewStationRepository(db)
	require.NoError(t, repo.UpsertStations([]models.Station{
		{ID: "001", Name: "Kaivopuisto", Lat: 60.155, Lon: 24.950},
		{ID: "047", Name: "Kamppi", Lat: 60.169, Lon: 24.931},
	}))
	key := models.MetricKey{Metric: models.MetricTripCount, Direction: models.DirectionDepartures}
	require.NoError(t, repo.ReplaceMetrics(map[string]map[models.MetricKey]float64{
		"001": {key: 120},
		"047": {key: 430},
	}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testBoundaryJSON))
	}))
	t.Cleanup(srv.Close)

	h := NewVizHandler(service.NewVizService(repo, boundary.NewLoader(srv.URL)))

	r := gin.New()
	r.GET("/viz/scale", h.GetScale)
	r.GET("/viz/regions", h.GetRegions)
	r.POST("/viz/cluster-scale", h.PostClusterScale)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetScale(t *testing.T) {
	r := vizTestRouter(t)

	w := doRequest(r, http.MethodGet, "/viz/scale?metric=tripCount&direction=departures&scale=linear", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    struct {
			Metric     string          `json:"metric"`
			Expression json.RawMessage `json:"expression"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Zero(t, body.Code)
	assert.Equal(t, "success", body.Message)
	assert.Equal(t, "tripCount.departures", body.Data.Metric)
	assert.Contains(t, string(body.Data.Expression), `"type"`)
}

func TestGetScaleDefaults(t *testing.T) {
	r := vizTestRouter(t)
	w := doRequest(r, http.MethodGet, "/viz/scale", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetScaleRejectsUnknownSelection(t *testing.T) {
	r := vizTestRouter(t)

	for _, q := range []string{
		"metric=speedAvg",
		"direction=inbound",
		"scale=sqrt",
		"mode=heatmap",
	} {
		w := doRequest(r, http.MethodGet, "/viz/scale?"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", q)
	}
}

func TestGetRegions(t *testing.T) {
	r := vizTestRouter(t)

	w := doRequest(r, http.MethodGet, "/viz/regions?scale=quantile", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Cells           []json.RawMessage `json:"cells"`
			BoundaryVersion string            `json:"boundaryVersion"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data.Cells, 2)
	assert.NotEmpty(t, body.Data.BoundaryVersion)
}

func TestPostClusterScale(t *testing.T) {
	r := vizTestRouter(t)

	payload := `{"clusters": [
		{"sums": {"tripCount.departures": 300}, "pointCount": 2},
		{"sums": {"tripCount.departures": 890}, "pointCount": 1}
	]}`
	w := doRequest(r, http.MethodPost, "/viz/cluster-scale", payload)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPostClusterScaleRejectsBadMetricKey(t *testing.T) {
	r := vizTestRouter(t)

	payload := `{"clusters": [{"sums": {"bogus": 1}, "pointCount": 1}]}`
	w := doRequest(r, http.MethodPost, "/viz/cluster-scale", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
