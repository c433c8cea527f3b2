package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avainio/bikeviz-backend-go/internal/service"
	"github.com/avainio/bikeviz-backend-go/pkg/response"
)

// StationHandler handles HTTP requests for station data
type StationHandler struct {
	service *service.StationService
}

// NewStationHandler creates a new station handler
func NewStationHandler(service *service.StationService) *StationHandler {
	return &StationHandler{service: service}
}

// GetStations handles GET /api/v1/stations.
// Returns a GeoJSON feature collection directly (not wrapped in the
// standard envelope) so it can be used as a map source URL.
func (h *StationHandler) GetStations(c *gin.Context) {
	fc, err := h.service.GeoJSON()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load stations", err)
		return
	}

	c.JSON(http.StatusOK, fc)
}

// GetHourlyProfile handles GET /api/v1/stations/hourly?station=<id>
func (h *StationHandler) GetHourlyProfile(c *gin.Context) {
	stationID := c.Query("station")
	if stationID == "" {
		response.Error(c, http.StatusBadRequest, "Missing station parameter", nil)
		return
	}

	profile, err := h.service.HourlyProfile(stationID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load hourly profile", err)
		return
	}

	response.Success(c, profile)
}

// GetExtent handles GET /api/v1/stations/extent
func (h *StationHandler) GetExtent(c *gin.Context) {
	extent, ok, err := h.service.Extent()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to compute extent", err)
		return
	}
	if !ok {
		response.Error(c, http.StatusNotFound, "No stations ingested yet", nil)
		return
	}

	response.Success(c, extent)
}
