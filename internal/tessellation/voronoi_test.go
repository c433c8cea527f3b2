package tessellation

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avainio/bikeviz-backend-go/internal/boundary"
	"github.com/avainio/bikeviz-backend-go/internal/models"
)

// squareBoundary builds a unit test boundary covering lon/lat [0, 10].
func squareBoundary() *boundary.Boundary {
	ring := orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
	return &boundary.Boundary{
		Ring:    ring,
		Bound:   ring.Bound(),
		Version: "test",
	}
}

func cellStation(id string, lon, lat float64) models.Station {
	return models.Station{
		ID:   id,
		Name: "Station " + id,
		Lon:  lon,
		Lat:  lat,
		Metrics: map[models.MetricKey]float64{
			{Metric: models.MetricTripCount, Direction: models.DirectionDepartures}: 10,
		},
	}
}

func TestGenerateNoStations(t *testing.T) {
	cells := Generate(nil, squareBoundary())
	require.NotNil(t, cells)
	assert.Empty(t, cells)
}

func TestGenerateSingleStationCoversBounds(t *testing.T) {
	b := squareBoundary()
	cells := Generate([]models.Station{cellStation("001", 5, 5)}, b)

	require.Len(t, cells, 1)
	assert.Equal(t, "001", cells[0].StationID)
	assert.Equal(t, "Station 001", cells[0].Props["name"])
	require.Len(t, cells[0].Geometry, 1)
	assert.Equal(t, b.Bound, cells[0].Geometry[0].Bound())
}

func TestGenerateOneCellPerStation(t *testing.T) {
	b := squareBoundary()
	stations := []models.Station{
		cellStation("001", 2, 2),
		cellStation("002", 8, 2),
		cellStation("003", 2, 8),
		cellStation("004", 8, 8),
	}

	cells := Generate(stations, b)
	require.Len(t, cells, 4)

	byID := make(map[string]Cell, len(cells))
	for _, c := range cells {
		byID[c.StationID] = c
	}
	for _, s := range stations {
		c, ok := byID[s.ID]
		require.True(t, ok, "no cell for station %s", s.ID)
		assert.Equal(t, s.Properties(), c.Props)
		assert.False(t, c.Unclipped)
	}
}

func TestGenerateCellsStayWithinBoundary(t *testing.T) {
	b := squareBoundary()
	stations := []models.Station{
		cellStation("001", 1, 1),
		cellStation("002", 9, 1),
		cellStation("003", 5, 9),
	}

	const eps = 1e-9
	for _, c := range Generate(stations, b) {
		if c.Unclipped {
			continue
		}
		for _, ring := range c.Geometry {
			for _, p := range ring {
				assert.GreaterOrEqual(t, p[0], b.Bound.Min[0]-eps)
				assert.LessOrEqual(t, p[0], b.Bound.Max[0]+eps)
				assert.GreaterOrEqual(t, p[1], b.Bound.Min[1]-eps)
				assert.LessOrEqual(t, p[1], b.Bound.Max[1]+eps)
			}
		}
	}
}

func TestGenerateDuplicateCoordinatesGetFallbackCells(t *testing.T) {
	b := squareBoundary()
	stations := []models.Station{
		cellStation("001", 3, 3),
		cellStation("002", 7, 7),
		cellStation("003", 3, 3), // same point as 001
	}

	cells := Generate(stations, b)
	require.Len(t, cells, 3)

	var dup *Cell
	for i := range cells {
		if cells[i].StationID == "003" {
			dup = &cells[i]
		}
	}
	require.NotNil(t, dup, "duplicate station has no cell")

	bound := dup.Geometry[0].Bound()
	assert.InDelta(t, fallbackCellSize, bound.Max[0]-bound.Min[0], 1e-12)
	assert.InDelta(t, fallbackCellSize, bound.Max[1]-bound.Min[1], 1e-12)
	assert.InDelta(t, 3, (bound.Min[0]+bound.Max[0])/2, 1e-12)
}

func TestIntersectOverlappingSquares(t *testing.T) {
	poly := orb.Polygon{{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}}
	ring := orb.Ring{{2, 2}, {6, 2}, {6, 6}, {2, 6}, {2, 2}}

	result, err := intersect(poly, ring)
	require.NoError(t, err)
	require.NotEmpty(t, result)

	bound := result.Bound()
	assert.InDelta(t, 2, bound.Min[0], 1e-9)
	assert.InDelta(t, 2, bound.Min[1], 1e-9)
	assert.InDelta(t, 4, bound.Max[0], 1e-9)
	assert.InDelta(t, 4, bound.Max[1], 1e-9)
}

func TestIntersectDisjointPolygonsIsEmpty(t *testing.T) {
	poly := orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}}
	ring := orb.Ring{{5, 5}, {6, 5}, {6, 6}, {5, 6}, {5, 5}}

	result, err := intersect(poly, ring)
	require.NoError(t, err)
	assert.Empty(t, result)
}
