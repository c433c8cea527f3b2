package boundary

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/singleflight"
)

// Boundary is the geographic clipping polygon for the tessellation: a
// closed outer ring plus its bounding box. Loaded once and treated as
// read-only for the rest of the process lifetime.
type Boundary struct {
	Ring    orb.Ring
	Bound   orb.Bound
	Version string
}

// Loader fetches and caches the boundary GeoJSON resource. Concurrent
// first callers coalesce into a single in-flight fetch; a failed load
// leaves the cache empty so a later call retries.
type Loader struct {
	url    string
	client *http.Client

	group singleflight.Group

	mu     sync.RWMutex
	cached *Boundary
}

// NewLoader creates a boundary loader for a GeoJSON resource URL
func NewLoader(url string) *Loader {
	return &Loader{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Load returns the cached boundary, fetching it on first use
func (l *Loader) Load(ctx context.Context) (*Boundary, error) {
	l.mu.RLock()
	cached := l.cached
	l.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := l.group.Do("boundary", func() (interface{}, error) {
		// Re-check: a concurrent caller may have populated the cache
		// between the read above and winning the flight.
		l.mu.RLock()
		cached := l.cached
		l.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		// Coalesced waiters must not fail because the winning caller's
		// context was canceled; the client timeout still bounds the fetch.
		b, err := l.fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.cached = b
		l.mu.Unlock()

		log.Printf("[Boundary] Loaded boundary version %s (%d ring points)", b.Version, len(b.Ring))
		return b, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Boundary), nil
}

// Cached returns the boundary if it has already been loaded
func (l *Loader) Cached() *Boundary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cached
}

// Clear drops the cached boundary. For tests.
func (l *Loader) Clear() {
	l.mu.Lock()
	l.cached = nil
	l.mu.Unlock()
}

func (l *Loader) fetch(ctx context.Context) (*Boundary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build boundary request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch boundary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("boundary fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read boundary body: %w", err)
	}

	return Parse(body)
}

// Parse extracts the outer clipping ring from GeoJSON bytes. Accepts a
// FeatureCollection, a Feature, or a bare geometry; the first polygon's
// outer ring wins.
func Parse(data []byte) (*Boundary, error) {
	ring, err := extractRing(data)
	if err != nil {
		return nil, err
	}

	if len(ring) < 4 {
		return nil, fmt.Errorf("boundary ring has %d points, need at least 4", len(ring))
	}
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}

	return &Boundary{
		Ring:    ring,
		Bound:   ring.Bound(),
		Version: fmt.Sprintf("%x", xxhash.Sum64(data)),
	}, nil
}

func extractRing(data []byte) (orb.Ring, error) {
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil {
		for _, f := range fc.Features {
			if r, ok := ringOf(f.Geometry); ok {
				return r, nil
			}
		}
		return nil, fmt.Errorf("boundary feature collection contains no polygon")
	}

	if f, err := geojson.UnmarshalFeature(data); err == nil {
		if r, ok := ringOf(f.Geometry); ok {
			return r, nil
		}
		return nil, fmt.Errorf("boundary feature is not a polygon")
	}

	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse boundary geojson: %w", err)
	}
	if r, ok := ringOf(g.Geometry()); ok {
		return r, nil
	}
	return nil, fmt.Errorf("boundary geometry is not a polygon")
}

func ringOf(g orb.Geometry) (orb.Ring, bool) {
	switch geom := g.(type) {
	case orb.Polygon:
		if len(geom) > 0 {
			return geom[0], true
		}
	case orb.MultiPolygon:
		if len(geom) > 0 && len(geom[0]) > 0 {
			return geom[0][0], true
		}
	}
	return nil, false
}
