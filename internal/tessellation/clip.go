package tessellation

import (
	"fmt"
	"log"

	polyclip "github.com/ctessum/polyclip-go"
	"github.com/paulmach/orb"

	"github.com/avainio/bikeviz-backend-go/internal/boundary"
	"github.com/avainio/bikeviz-backend-go/internal/models"
)

// clipped intersects a cell polygon with the boundary ring.
// Empty intersection (cell fully outside the boundary) drops the cell.
// A clip failure keeps the unclipped cell and logs a non-fatal warning
// rather than aborting the whole tessellation.
func clipped(poly orb.Polygon, s *models.Station, b *boundary.Boundary) []Cell {
	result, err := intersect(poly, b.Ring)
	if err != nil {
		log.Printf("[Tessellation] Boundary clip failed for station %s, keeping unclipped cell: %v", s.ID, err)
		return []Cell{{
			Geometry:  poly,
			StationID: s.ID,
			Props:     s.Properties(),
			Unclipped: true,
		}}
	}

	if len(result) == 0 {
		return nil
	}

	return []Cell{{
		Geometry:  result,
		StationID: s.ID,
		Props:     s.Properties(),
	}}
}

// intersect computes poly ∩ ring. The clipper can panic on degenerate
// geometry; that is converted into an error for the caller's fallback.
func intersect(poly orb.Polygon, ring orb.Ring) (result orb.Polygon, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("polygon clipper panic: %v", r)
		}
	}()

	subject := toPolyclip(poly)
	clip := polyclip.Polygon{toContour(ring)}

	out := subject.Construct(polyclip.INTERSECTION, clip)
	if len(out) == 0 {
		return nil, nil
	}

	return fromPolyclip(out), nil
}

func toPolyclip(poly orb.Polygon) polyclip.Polygon {
	out := make(polyclip.Polygon, 0, len(poly))
	for _, ring := range poly {
		out = append(out, toContour(ring))
	}
	return out
}

func toContour(ring orb.Ring) polyclip.Contour {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		// polyclip contours are implicitly closed
		n--
	}
	contour := make(polyclip.Contour, 0, n)
	for _, p := range ring[:n] {
		contour = append(contour, polyclip.Point{X: p[0], Y: p[1]})
	}
	return contour
}

func fromPolyclip(p polyclip.Polygon) orb.Polygon {
	out := make(orb.Polygon, 0, len(p))
	for _, contour := range p {
		ring := make(orb.Ring, 0, len(contour)+1)
		for _, pt := range contour {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}
		if len(ring) > 0 {
			ring = append(ring, ring[0])
		}
		out = append(out, ring)
	}
	return out
}
