package service

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/avainio/bikeviz-backend-go/internal/boundary"
	"github.com/avainio/bikeviz-backend-go/internal/models"
	"github.com/avainio/bikeviz-backend-go/internal/repository"
	"github.com/avainio/bikeviz-backend-go/internal/stats"
	"github.com/avainio/bikeviz-backend-go/internal/tessellation"
	"github.com/avainio/bikeviz-backend-go/internal/viz"
)

// ScaleRequest selects what to visualize. All fields are validated at the
// HTTP boundary; the engine itself panics on unknown enum values.
type ScaleRequest struct {
	Metric    models.Metric
	Direction models.Direction
	Scale     viz.ScaleType
	Mode      viz.Mode
	Stops     int
}

// Validate rejects unknown enum values with a caller-facing error
func (r *ScaleRequest) Validate() error {
	if !r.Metric.Valid() {
		return fmt.Errorf("unknown metric %q", r.Metric)
	}
	if !r.Direction.Valid() {
		return fmt.Errorf("unknown direction %q", r.Direction)
	}
	if !r.Scale.Valid() {
		return fmt.Errorf("unknown scale %q", r.Scale)
	}
	if !r.Mode.Valid() {
		return fmt.Errorf("unknown mode %q", r.Mode)
	}
	return nil
}

// RegionsResult is the tessellation plus the expression that colors it
type RegionsResult struct {
	Expression viz.Expression      `json:"expression"`
	Metric     string              `json:"metric"`
	Cells      []tessellation.Cell `json:"cells"`
	Boundary   string              `json:"boundaryVersion"`
}

// VizService builds color mapping expressions and tessellations over the
// current station snapshot. Hover-driven re-renders hit far more often
// than the data changes, so results are memoized keyed by (selection,
// series fingerprint, boundary version).
type VizService struct {
	repo     *repository.StationRepository
	boundary *boundary.Loader
	cache    *gocache.Cache
}

// NewVizService creates a visualization service
func NewVizService(repo *repository.StationRepository, loader *boundary.Loader) *VizService {
	return &VizService{
		repo:     repo,
		boundary: loader,
		cache:    gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// ScaleExpression builds the color mapping expression for a selection over
// the stored stations
func (s *VizService) ScaleExpression(req ScaleRequest) (viz.Expression, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	stations, err := s.repo.GetStations()
	if err != nil {
		return nil, fmt.Errorf("failed to load stations: %w", err)
	}

	series := viz.ExtractSeries(stations, req.Metric, req.Direction)
	key := s.scaleKey(req, series, "")

	if cached, ok := s.cache.Get(key); ok {
		return cached.(viz.Expression), nil
	}

	expr := viz.BuildScale(req.Scale, series, viz.ScaleOptions{
		Stops:   req.Stops,
		TrimPct: req.Mode.TrimPct(),
	})

	s.cache.SetDefault(key, expr)
	return expr, nil
}

// ClusterScaleExpression builds an expression over cluster aggregates
// supplied by the caller. Averages are derived here; the scale builder
// sees an ordinary numeric series.
func (s *VizService) ClusterScaleExpression(req ScaleRequest, clusters []models.ClusterAggregate) (viz.Expression, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	series := viz.ExtractClusterSeries(clusters, req.Metric, req.Direction)
	key := s.scaleKey(req, series, "clusters")

	if cached, ok := s.cache.Get(key); ok {
		return cached.(viz.Expression), nil
	}

	expr := viz.BuildScale(req.Scale, series, viz.ScaleOptions{
		Stops:   req.Stops,
		TrimPct: req.Mode.TrimPct(),
	})

	s.cache.SetDefault(key, expr)
	return expr, nil
}

// Regions computes the closest-station tessellation clipped to the
// boundary, paired with the region color expression. A boundary load
// failure is returned to the caller: it disables the region visualization
// mode, marker visualization stays functional.
func (s *VizService) Regions(ctx context.Context, req ScaleRequest) (*RegionsResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b, err := s.boundary.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("boundary unavailable: %w", err)
	}

	stations, err := s.repo.GetStations()
	if err != nil {
		return nil, fmt.Errorf("failed to load stations: %w", err)
	}

	series := viz.ExtractSeries(stations, req.Metric, req.Direction)
	key := s.scaleKey(req, series, "regions|"+b.Version)

	if cached, ok := s.cache.Get(key); ok {
		return cached.(*RegionsResult), nil
	}

	expr := viz.BuildScale(req.Scale, series, viz.ScaleOptions{
		Stops:   req.Stops,
		TrimPct: req.Mode.TrimPct(),
	})

	result := &RegionsResult{
		Expression: expr,
		Metric:     models.MetricKey{Metric: req.Metric, Direction: req.Direction}.String(),
		Cells:      tessellation.Generate(stations, b),
		Boundary:   b.Version,
	}

	s.cache.SetDefault(key, result)
	return result, nil
}

// InvalidateCache drops all memoized results, e.g. after an ingest run
func (s *VizService) InvalidateCache() {
	s.cache.Flush()
}

func (s *VizService) scaleKey(req ScaleRequest, series []float64, suffix string) string {
	fp := stats.Fingerprint(series, uint64(req.Stops))
	return fmt.Sprintf("%s|%s|%s|%s|%d|%x|%s",
		req.Scale, req.Metric, req.Direction, req.Mode, req.Stops, fp, suffix)
}
