package etl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStationFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("digitransit-subscription-key"))

		var body struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body.Query, "bikeRentalStations")

		w.Write([]byte(`{"data": {"bikeRentalStations": [
			{"stationId": "001", "name": " Kaivopuisto ", "lat": 60.155, "lon": 24.950},
			{"stationId": "002", "name": "Broken", "lat": 0, "lon": 0},
			{"stationId": "003", "name": "OutOfRange", "lat": 95, "lon": 24.9}
		]}}`))
	}))
	defer srv.Close()

	f := NewStationFetcher(srv.URL, "test-key")
	stations, err := f.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, stations, 1)
	assert.Equal(t, "001", stations[0].ID)
	assert.Equal(t, "Kaivopuisto", stations[0].Name)
}

func TestStationFetcherGraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "rate limited"}]}`))
	}))
	defer srv.Close()

	f := NewStationFetcher(srv.URL, "")
	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestStationFetcherHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewStationFetcher(srv.URL, "")
	_, err := f.Fetch(context.Background())
	assert.Error(t, err)
}

func TestStationFetcherDefaultEndpoint(t *testing.T) {
	f := NewStationFetcher("", "key")
	assert.Equal(t, DefaultDigitransitEndpoint, f.Endpoint)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "kaivopuisto", NormalizeName("  Kaivopuisto "))
}
