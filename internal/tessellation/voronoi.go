package tessellation

import (
	"github.com/paulmach/orb"
	"github.com/pzsz/voronoi"

	"github.com/avainio/bikeviz-backend-go/internal/boundary"
	"github.com/avainio/bikeviz-backend-go/internal/models"
)

// fallbackCellSize is the edge length (degrees) of the tiny square
// synthesized for a station whose Voronoi cell cannot be constructed,
// e.g. when two stations share coordinates. Roughly 10 m at Helsinki
// latitudes.
const fallbackCellSize = 1e-4

// Cell is one region of the closest-station partition with its
// originating station's properties passed through unchanged.
type Cell struct {
	Geometry  orb.Polygon            `json:"geometry"`
	StationID string                 `json:"stationId"`
	Props     map[string]interface{} `json:"properties"`
	// Unclipped marks a cell kept whole because boundary clipping failed
	Unclipped bool `json:"unclipped,omitempty"`
}

// Generate computes one bounded polygonal region per station, clipped to
// the boundary ring. Stateless: every invocation recomputes from scratch
// over the full station snapshot.
func Generate(stations []models.Station, b *boundary.Boundary) []Cell {
	if len(stations) == 0 {
		return []Cell{}
	}

	if len(stations) == 1 {
		s := &stations[0]
		return []Cell{{
			Geometry:  orb.Polygon{boundsRing(b.Bound)},
			StationID: s.ID,
			Props:     s.Properties(),
		}}
	}

	// Coincident coordinates break the diagram; only the first station at
	// a point becomes a site, later ones get the tiny-square fallback.
	sites := make([]voronoi.Vertex, 0, len(stations))
	siteOwner := make(map[voronoi.Vertex]int, len(stations))
	duplicates := make([]int, 0)
	for i := range stations {
		v := voronoi.Vertex{X: stations[i].Lon, Y: stations[i].Lat}
		if _, seen := siteOwner[v]; seen {
			duplicates = append(duplicates, i)
			continue
		}
		siteOwner[v] = i
		sites = append(sites, v)
	}

	bbox := voronoi.NewBBox(b.Bound.Min[0], b.Bound.Min[1], b.Bound.Max[0], b.Bound.Max[1])
	diagram := voronoi.ComputeDiagram(sites, bbox, true)

	cells := make([]Cell, 0, len(stations))
	seen := make(map[int]bool, len(stations))

	for _, vc := range diagram.Cells {
		idx, ok := siteOwner[vc.Site]
		if !ok {
			continue
		}
		seen[idx] = true
		s := &stations[idx]

		ring := cellRing(vc)
		if len(ring) < 4 {
			cells = append(cells, fallbackCell(s))
			continue
		}

		cells = append(cells, clipped(orb.Polygon{ring}, s, b)...)
	}

	// Sites the diagram dropped entirely, plus coordinate duplicates
	for i := range stations {
		if !seen[i] && !containsInt(duplicates, i) {
			duplicates = append(duplicates, i)
		}
	}
	for _, i := range duplicates {
		cells = append(cells, fallbackCell(&stations[i]))
	}

	return cells
}

// cellRing extracts a closed coordinate ring from a Voronoi cell's ordered
// halfedges
func cellRing(vc *voronoi.Cell) orb.Ring {
	if len(vc.Halfedges) < 3 {
		return nil
	}

	ring := make(orb.Ring, 0, len(vc.Halfedges)+1)
	for _, he := range vc.Halfedges {
		v := he.GetStartpoint()
		ring = append(ring, orb.Point{v.X, v.Y})
	}
	ring = append(ring, ring[0])
	return ring
}

// fallbackCell synthesizes a tiny square centered on the station
func fallbackCell(s *models.Station) Cell {
	h := fallbackCellSize / 2
	ring := orb.Ring{
		{s.Lon - h, s.Lat - h},
		{s.Lon + h, s.Lat - h},
		{s.Lon + h, s.Lat + h},
		{s.Lon - h, s.Lat + h},
		{s.Lon - h, s.Lat - h},
	}
	return Cell{
		Geometry:  orb.Polygon{ring},
		StationID: s.ID,
		Props:     s.Properties(),
	}
}

func boundsRing(bound orb.Bound) orb.Ring {
	return orb.Ring{
		{bound.Min[0], bound.Min[1]},
		{bound.Max[0], bound.Min[1]},
		{bound.Max[0], bound.Max[1]},
		{bound.Min[0], bound.Max[1]},
		{bound.Min[0], bound.Min[1]},
	}
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
