package middleware

import (
	"time"

	"document-chunker/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows browser uploads from the configured origins. A lone
// "*" (or no origins at all) allows every origin.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", RequestIDHeader, cfg.APISecretHeader},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	if len(cfg.CORSOrigins) == 0 || (len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}

	return cors.New(corsConfig)
}
