package middleware

import (
	"net/http"

	"document-chunker/utils"

	"github.com/gin-gonic/gin"
)

// RequestSizeLimit middleware limits the size of request bodies. Requests
// that announce a larger body are rejected up front; bodies without a
// Content-Length are capped while being read.
func RequestSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			RespondTooLarge(c, maxSize)
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

// RespondTooLarge sends the 413 response used by the size limit
func RespondTooLarge(c *gin.Context, maxSize int64) {
	utils.RespondWithError(c, http.StatusRequestEntityTooLarge,
		"request_too_large",
		"Request body exceeds maximum size",
		gin.H{
			"max_size":    maxSize,
			"received":    c.Request.ContentLength,
			"max_size_mb": maxSize / (1024 * 1024),
		})
}
