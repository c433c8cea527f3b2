package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avainio/bikeviz-backend-go/internal/etl"
	"github.com/avainio/bikeviz-backend-go/internal/service"
	"github.com/avainio/bikeviz-backend-go/pkg/response"
)

// AdminHandler handles authenticated maintenance endpoints
type AdminHandler struct {
	pipeline *etl.Pipeline
	viz      *service.VizService
	tripDir  string
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(pipeline *etl.Pipeline, viz *service.VizService, tripDir string) *AdminHandler {
	return &AdminHandler{pipeline: pipeline, viz: viz, tripDir: tripDir}
}

// PostIngest handles POST /api/v1/admin/ingest: runs the full ETL and
// invalidates memoized visualization results on success
func (h *AdminHandler) PostIngest(c *gin.Context) {
	if err := h.pipeline.Run(c.Request.Context(), h.tripDir); err != nil {
		response.Error(c, http.StatusInternalServerError, "Ingest failed", err)
		return
	}

	h.viz.InvalidateCache()
	response.Success(c, gin.H{"status": "ingested"})
}

// PostInvalidate handles POST /api/v1/admin/cache/invalidate
func (h *AdminHandler) PostInvalidate(c *gin.Context) {
	h.viz.InvalidateCache()
	response.Success(c, gin.H{"status": "invalidated"})
}
