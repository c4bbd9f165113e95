package utils

import (
	"net/http"

	"document-chunker/services"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Success   bool        `json:"success"`
	ErrorCode string      `json:"error_code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// RespondWithError sends a standardized error response
func RespondWithError(c *gin.Context, statusCode int, errorCode, message string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		Success:   false,
		ErrorCode: errorCode,
		Message:   message,
		Details:   details,
	})
}

// RespondWithBadRequest sends a 400 Bad Request error
func RespondWithBadRequest(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, "bad_request", message, details)
}

// RespondWithUnauthorized sends a 401 Unauthorized error
func RespondWithUnauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, "unauthorized", message, nil)
}

// RespondWithInternalError sends a 500 Internal Server Error
func RespondWithInternalError(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusInternalServerError, "internal_error", message, details)
}

// StatusForKind maps a pipeline error kind to an HTTP status.
// Caller-input kinds are 400, everything else is 500.
func StatusForKind(kind services.ErrorKind) int {
	if kind.IsClientError() {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// RespondWithProcessingError sends the response for a pipeline failure
func RespondWithProcessingError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	if kind == "" {
		RespondWithInternalError(c, "Document processing failed", nil)
		return
	}

	RespondWithError(c, StatusForKind(kind), string(kind), processingMessage(kind), gin.H{
		"reason": err.Error(),
	})
}

func processingMessage(kind services.ErrorKind) string {
	switch kind {
	case services.KindUnsupportedFormat:
		return "Unsupported file type. Only DOCX and PDF documents are accepted"
	case services.KindInvalidConfiguration:
		return "Invalid chunking parameters: chunk_size must be positive and overlap must be in [0, chunk_size)"
	case services.KindCorruptDocument:
		return "The document could not be opened"
	case services.KindExtractionError:
		return "Text extraction failed"
	default:
		return "Document processing failed"
	}
}
