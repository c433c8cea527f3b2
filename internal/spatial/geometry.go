package spatial

import "github.com/avainio/bikeviz-backend-go/internal/models"

// Extent is an axis-aligned lat/lon bounding box with a center point,
// used for the map's initial viewport fit.
type Extent struct {
	MinLat    float64 `json:"minLat"`
	MinLon    float64 `json:"minLon"`
	MaxLat    float64 `json:"maxLat"`
	MaxLon    float64 `json:"maxLon"`
	CenterLat float64 `json:"centerLat"`
	CenterLon float64 `json:"centerLon"`
}

// StationExtent computes the bounding box and centroid of a station set.
// The second return is false when there are no stations.
func StationExtent(stations []models.Station) (Extent, bool) {
	if len(stations) == 0 {
		return Extent{}, false
	}

	e := Extent{
		MinLat: stations[0].Lat, MaxLat: stations[0].Lat,
		MinLon: stations[0].Lon, MaxLon: stations[0].Lon,
	}

	var sumLat, sumLon float64
	for i := range stations {
		s := &stations[i]
		if s.Lat < e.MinLat {
			e.MinLat = s.Lat
		}
		if s.Lat > e.MaxLat {
			e.MaxLat = s.Lat
		}
		if s.Lon < e.MinLon {
			e.MinLon = s.Lon
		}
		if s.Lon > e.MaxLon {
			e.MaxLon = s.Lon
		}
		sumLat += s.Lat
		sumLon += s.Lon
	}

	e.CenterLat = sumLat / float64(len(stations))
	e.CenterLon = sumLon / float64(len(stations))

	return e, true
}
