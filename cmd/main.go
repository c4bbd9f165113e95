package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"document-chunker/internal/config"
	"document-chunker/internal/logger"
	"document-chunker/internal/telemetry"
	"document-chunker/middleware"
	"document-chunker/routes"
	"document-chunker/services"

	"github.com/gin-gonic/gin"
)

func main() {
	startedAt := time.Now()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	appLogger := logger.InitLogger(cfg)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracer, err := telemetry.InitTracer(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to initialize tracing:", err)
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal("Failed to initialize metrics:", err)
	}

	pipeline := services.NewPipeline(
		services.WithLogger(appLogger),
		services.WithMetrics(metrics),
		services.WithExtractorOptions(services.ExtractorOptions{StrictPDF: cfg.PDFStrictValidation}),
	)

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	if !cfg.AuthEnabled() {
		appLogger.Warn("API_SECRET is not set, /extract accepts unauthenticated requests")
	}

	// Background maintenance runs on its own scheduler
	var heartbeat *services.HeartbeatService
	if cfg.HeartbeatInterval > 0 {
		heartbeat = services.NewHeartbeatService(appLogger, cfg.HeartbeatInterval, cfg.HeartbeatReclaimMemory)
		if limiter != nil {
			err := heartbeat.ScheduleInterval("ratelimit-cleanup", cfg.HeartbeatInterval, func() {
				if removed := limiter.Cleanup(); removed > 0 {
					appLogger.Debug("Removed idle rate limiters", "count", removed)
				}
			})
			if err != nil {
				log.Fatal("Failed to schedule rate limiter cleanup:", err)
			}
		}
		if err := heartbeat.Start(); err != nil {
			log.Fatal("Failed to start heartbeat:", err)
		}
	}

	router := routes.NewRouter(cfg, routes.Dependencies{
		Logger:      appLogger,
		Pipeline:    pipeline,
		Metrics:     metrics,
		RateLimiter: limiter,
		StartedAt:   startedAt,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("Server starting", "port", cfg.Port, "max_file_size", cfg.MaxFileSize)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	if heartbeat != nil {
		heartbeat.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	shutdownTracer(ctx)

	appLogger.Info("Server exited")
}
