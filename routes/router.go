package routes

import (
	"log/slog"
	"net/http"
	"time"

	"document-chunker/internal/config"
	"document-chunker/internal/telemetry"
	"document-chunker/middleware"
	"document-chunker/models"
	"document-chunker/services"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators shared by all routes
type Dependencies struct {
	Logger      *slog.Logger
	Pipeline    *services.Pipeline
	Metrics     *telemetry.Metrics
	RateLimiter *middleware.RateLimiter
	StartedAt   time.Time
}

// NewRouter builds the gin engine with the full middleware chain
func NewRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.StartedAt.IsZero() {
		deps.StartedAt = time.Now()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(middleware.TracingMiddleware())
	router.Use(middleware.EnrichTrace())
	if deps.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(deps.Metrics))
	}

	router.Use(middleware.CORSMiddleware(cfg))

	router.Use(middleware.BrotliCompression(brotli.DefaultCompression))

	SetupHealthRoutes(router, deps.StartedAt)
	SetupExtractRoutes(router, cfg, deps.Pipeline, deps.RateLimiter)

	return router
}

// SetupHealthRoutes registers GET /health
func SetupHealthRoutes(router *gin.Engine, startedAt time.Time) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:        "healthy",
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			UptimeSeconds: int64(time.Since(startedAt).Seconds()),
		})
	})
}
