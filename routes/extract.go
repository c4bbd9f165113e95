package routes

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"document-chunker/internal/config"
	"document-chunker/middleware"
	"document-chunker/models"
	"document-chunker/services"
	"document-chunker/utils"

	"github.com/gin-gonic/gin"
)

// UploadField is the multipart field carrying the document
const UploadField = "file"

// SetupExtractRoutes registers POST /extract behind the shared-secret check,
// the per-client rate limit and the upload size limit.
func SetupExtractRoutes(router *gin.Engine, cfg *config.Config, pipeline *services.Pipeline, limiter *middleware.RateLimiter) {
	authMiddleware := middleware.NewAuthMiddleware(cfg)

	handlers := []gin.HandlerFunc{authMiddleware.RequireSecret()}
	if limiter != nil {
		handlers = append(handlers, middleware.RateLimitMiddleware(limiter))
	}
	handlers = append(handlers,
		middleware.RequestSizeLimit(cfg.MaxFileSize),
		HandleExtract(cfg, pipeline),
	)

	router.POST("/extract", handlers...)
}

// HandleExtract runs the uploaded document through the pipeline
func HandleExtract(cfg *config.Config, pipeline *services.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile(UploadField)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				middleware.RespondTooLarge(c, cfg.MaxFileSize)
				return
			}
			utils.RespondWithError(c, http.StatusBadRequest, "no_file",
				fmt.Sprintf("No file provided in form field %q", UploadField), nil)
			return
		}

		if err := validateFilename(header.Filename); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "invalid_filename", err.Error(), nil)
			return
		}

		chunkCfg, err := chunkConfigFromRequest(c, cfg)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest,
				string(services.KindInvalidConfiguration), err.Error(), nil)
			return
		}

		file, err := header.Open()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to read uploaded file", nil)
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to read uploaded file", nil)
			return
		}

		doc := models.SourceDocument{
			Content:          content,
			DeclaredMIMEType: header.Header.Get("Content-Type"),
			Filename:         header.Filename,
		}

		result, err := pipeline.Process(c.Request.Context(), doc, chunkCfg)
		if err != nil {
			utils.RespondWithProcessingError(c, err)
			return
		}

		withOffsets, _ := strconv.ParseBool(c.Query("offsets"))
		c.JSON(http.StatusOK, models.NewExtractResponse(result, withOffsets))
	}
}

// chunkConfigFromRequest reads chunk_size and overlap from the form or the
// query string, falling back to the configured defaults. Range checks are
// left to the chunker.
func chunkConfigFromRequest(c *gin.Context, cfg *config.Config) (services.ChunkConfig, error) {
	chunkCfg := services.ChunkConfig{ChunkSize: cfg.ChunkSize, Overlap: cfg.ChunkOverlap}

	if raw := formOrQuery(c, "chunk_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return chunkCfg, fmt.Errorf("chunk_size must be an integer, got %q", raw)
		}
		chunkCfg.ChunkSize = size
	}

	if raw := formOrQuery(c, "overlap"); raw != "" {
		overlap, err := strconv.Atoi(raw)
		if err != nil {
			return chunkCfg, fmt.Errorf("overlap must be an integer, got %q", raw)
		}
		chunkCfg.Overlap = overlap
	}

	return chunkCfg, nil
}

func formOrQuery(c *gin.Context, key string) string {
	if value := c.PostForm(key); value != "" {
		return value
	}
	return c.Query(key)
}
