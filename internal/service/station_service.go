package service

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/avainio/bikeviz-backend-go/internal/models"
	"github.com/avainio/bikeviz-backend-go/internal/repository"
	"github.com/avainio/bikeviz-backend-go/internal/spatial"
)

// StationService exposes the station snapshot to the map frontend
type StationService struct {
	repo  *repository.StationRepository
	trips *repository.TripRepository
}

// NewStationService creates a station service
func NewStationService(repo *repository.StationRepository, trips *repository.TripRepository) *StationService {
	return &StationService{repo: repo, trips: trips}
}

// GeoJSON returns all stations as a feature collection with metric
// properties, ready for a map source
func (s *StationService) GeoJSON() (*geojson.FeatureCollection, error) {
	stations, err := s.repo.GetStations()
	if err != nil {
		return nil, fmt.Errorf("failed to load stations: %w", err)
	}

	fc := geojson.NewFeatureCollection()
	for i := range stations {
		st := &stations[i]
		f := geojson.NewFeature(orb.Point{st.Lon, st.Lat})
		f.ID = st.ID
		f.Properties = st.Properties()
		fc.Append(f)
	}

	return fc, nil
}

// HourlyProfile returns a station's trip activity by hour of day, for the
// station detail popup
func (s *StationService) HourlyProfile(stationID string) (*models.HourlyProfile, error) {
	profile, err := s.trips.HourlyProfile(stationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hourly profile: %w", err)
	}
	return profile, nil
}

// Extent returns the station bounding box for the initial viewport fit.
// The second return is false when no stations are stored yet.
func (s *StationService) Extent() (spatial.Extent, bool, error) {
	stations, err := s.repo.GetStations()
	if err != nil {
		return spatial.Extent{}, false, fmt.Errorf("failed to load stations: %w", err)
	}

	extent, ok := spatial.StationExtent(stations)
	return extent, ok, nil
}
