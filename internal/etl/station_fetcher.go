package etl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/avainio/bikeviz-backend-go/internal/models"
	"github.com/avainio/bikeviz-backend-go/internal/spatial"
)

// DefaultDigitransitEndpoint is the HSL routing GraphQL API
const DefaultDigitransitEndpoint = "https://api.digitransit.fi/routing/v2/hsl/gtfs/v1"

const stationQuery = `
{
  bikeRentalStations {
    stationId
    name
    lat
    lon
  }
}
`

// StationFetcher retrieves bike rental station coordinates from the
// Digitransit GraphQL API
type StationFetcher struct {
	Endpoint        string
	SubscriptionKey string
	Client          *http.Client
}

// NewStationFetcher creates a fetcher for an endpoint; an empty endpoint
// uses the HSL default
func NewStationFetcher(endpoint, subscriptionKey string) *StationFetcher {
	if endpoint == "" {
		endpoint = DefaultDigitransitEndpoint
	}
	return &StationFetcher{
		Endpoint:        endpoint,
		SubscriptionKey: subscriptionKey,
		Client:          &http.Client{Timeout: 30 * time.Second},
	}
}

type graphqlResponse struct {
	Data struct {
		BikeRentalStations []struct {
			StationID string  `json:"stationId"`
			Name      string  `json:"name"`
			Lat       float64 `json:"lat"`
			Lon       float64 `json:"lon"`
		} `json:"bikeRentalStations"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Fetch returns all bike rental stations with valid coordinates
func (f *StationFetcher) Fetch(ctx context.Context) ([]models.Station, error) {
	payload, err := json.Marshal(map[string]string{"query": stationQuery})
	if err != nil {
		return nil, fmt.Errorf("failed to encode station query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build station request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if f.SubscriptionKey != "" {
		req.Header.Set("digitransit-subscription-key", f.SubscriptionKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("station fetch returned status %d", resp.StatusCode)
	}

	var parsed graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode station response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("station query failed: %s", parsed.Errors[0].Message)
	}

	stations := make([]models.Station, 0, len(parsed.Data.BikeRentalStations))
	skipped := 0
	for _, s := range parsed.Data.BikeRentalStations {
		if !spatial.ValidCoordinate(s.Lat, s.Lon) || (s.Lat == 0 && s.Lon == 0) {
			skipped++
			continue
		}
		stations = append(stations, models.Station{
			ID:   s.StationID,
			Name: strings.TrimSpace(s.Name),
			Lat:  s.Lat,
			Lon:  s.Lon,
		})
	}

	if skipped > 0 {
		log.Printf("[StationFetcher] Skipped %d stations with invalid coordinates", skipped)
	}

	return stations, nil
}

// NormalizeName lowers and trims a station name for fuzzy matching between
// the CSV export and the API
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
