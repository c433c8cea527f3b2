package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/avainio/bikeviz-backend-go/internal/models"
	"github.com/avainio/bikeviz-backend-go/internal/service"
	"github.com/avainio/bikeviz-backend-go/internal/viz"
	"github.com/avainio/bikeviz-backend-go/pkg/response"
)

// VizHandler handles HTTP requests for visualization expressions and
// tessellations
type VizHandler struct {
	service *service.VizService
}

// NewVizHandler creates a new visualization handler
func NewVizHandler(service *service.VizService) *VizHandler {
	return &VizHandler{service: service}
}

// scaleRequest parses the selection query parameters shared by the
// visualization endpoints
func scaleRequest(c *gin.Context, defaultMode viz.Mode) service.ScaleRequest {
	mode := viz.Mode(c.DefaultQuery("mode", string(defaultMode)))
	return service.ScaleRequest{
		Metric:    models.Metric(c.DefaultQuery("metric", string(models.MetricTripCount))),
		Direction: models.Direction(c.DefaultQuery("direction", string(models.DirectionDepartures))),
		Scale:     viz.ScaleType(c.DefaultQuery("scale", string(viz.ScaleLinear))),
		Mode:      mode,
		Stops:     cast.ToInt(c.DefaultQuery("stops", "0")),
	}
}

// GetScale handles GET /api/v1/viz/scale
func (h *VizHandler) GetScale(c *gin.Context) {
	req := scaleRequest(c, viz.ModeMarkers)
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid selection", err)
		return
	}

	expr, err := h.service.ScaleExpression(req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to build scale", err)
		return
	}

	response.Success(c, gin.H{
		"expression": expr,
		"metric":     models.MetricKey{Metric: req.Metric, Direction: req.Direction}.String(),
	})
}

// clusterPayload is the wire form of cluster aggregates: sums keyed by
// "metric.direction" property names
type clusterPayload struct {
	Clusters []struct {
		Sums       map[string]float64 `json:"sums"`
		PointCount int                `json:"pointCount"`
	} `json:"clusters"`
}

// PostClusterScale handles POST /api/v1/viz/cluster-scale. The caller
// (map frontend at low zoom) posts cluster sums and point counts; the
// response is the expression for coloring the cluster markers.
func (h *VizHandler) PostClusterScale(c *gin.Context) {
	req := scaleRequest(c, viz.ModeClusters)
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid selection", err)
		return
	}

	var payload clusterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid cluster payload", err)
		return
	}

	clusters := make([]models.ClusterAggregate, 0, len(payload.Clusters))
	for _, p := range payload.Clusters {
		agg := models.ClusterAggregate{
			Sums:       make(map[models.MetricKey]float64, len(p.Sums)),
			PointCount: p.PointCount,
		}
		for name, sum := range p.Sums {
			key, err := models.ParseMetricKey(name)
			if err != nil {
				response.Error(c, http.StatusBadRequest, "Invalid metric key", err)
				return
			}
			agg.Sums[key] = sum
		}
		clusters = append(clusters, agg)
	}

	expr, err := h.service.ClusterScaleExpression(req, clusters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to build cluster scale", err)
		return
	}

	response.Success(c, gin.H{"expression": expr})
}

// GetRegions handles GET /api/v1/viz/regions. A boundary load failure
// returns 503: region mode is disabled until the boundary is reachable,
// marker endpoints keep working.
func (h *VizHandler) GetRegions(c *gin.Context) {
	req := scaleRequest(c, viz.ModeRegions)
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid selection", err)
		return
	}

	result, err := h.service.Regions(c.Request.Context(), req)
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "Region visualization unavailable", err)
		return
	}

	response.Success(c, result)
}
