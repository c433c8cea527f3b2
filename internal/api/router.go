package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avainio/bikeviz-backend-go/internal/boundary"
	"github.com/avainio/bikeviz-backend-go/internal/config"
	"github.com/avainio/bikeviz-backend-go/internal/database"
	"github.com/avainio/bikeviz-backend-go/internal/etl"
	"github.com/avainio/bikeviz-backend-go/internal/handler"
	"github.com/avainio/bikeviz-backend-go/internal/middleware"
	"github.com/avainio/bikeviz-backend-go/internal/repository"
	"github.com/avainio/bikeviz-backend-go/internal/service"
)

// SetupRouter wires repositories, services and handlers into the HTTP API
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))

	// Permissive CORS: the map frontend is served from a different origin
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "BikeViz API is running",
		})
	})

	db := database.GetDB()
	stationRepo := repository.NewStationRepository(db)
	tripRepo := repository.NewTripRepository(db)
	boundaryLoader := boundary.NewLoader(cfg.BoundaryURL)
	fetcher := etl.NewStationFetcher(cfg.DigitransitURL, cfg.DigitransitKey)
	pipeline := etl.NewPipeline(fetcher, stationRepo, tripRepo)

	stationService := service.NewStationService(stationRepo, tripRepo)
	vizService := service.NewVizService(stationRepo, boundaryLoader)

	stationHandler := handler.NewStationHandler(stationService)
	vizHandler := handler.NewVizHandler(vizService)
	adminHandler := handler.NewAdminHandler(pipeline, vizService, cfg.TripDataDir)

	v1 := r.Group("/api/v1")
	{
		stations := v1.Group("/stations")
		{
			stations.GET("", stationHandler.GetStations)
			stations.GET("/extent", stationHandler.GetExtent)
			stations.GET("/hourly", stationHandler.GetHourlyProfile)
		}

		viz := v1.Group("/viz")
		{
			viz.GET("/scale", vizHandler.GetScale)
			viz.GET("/regions", vizHandler.GetRegions)
			viz.POST("/cluster-scale", vizHandler.PostClusterScale)
		}

		admin := v1.Group("/admin", middleware.Auth(cfg.JWTSecret))
		{
			admin.POST("/ingest", adminHandler.PostIngest)
			admin.POST("/cache/invalidate", adminHandler.PostInvalidate)
		}
	}

	return r
}
