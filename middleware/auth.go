package middleware

import (
	"crypto/subtle"

	"document-chunker/internal/config"
	"document-chunker/utils"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	config *config.Config
}

func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		config: cfg,
	}
}

// RequireSecret rejects requests whose secret header does not match the
// configured shared secret. With no secret configured every request passes.
func (a *AuthMiddleware) RequireSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.config.AuthEnabled() {
			c.Next()
			return
		}

		provided := c.GetHeader(a.config.APISecretHeader)
		if provided == "" {
			utils.RespondWithUnauthorized(c, "Authentication secret is required")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(a.config.APISecret)) != 1 {
			utils.RespondWithUnauthorized(c, "Invalid authentication secret")
			c.Abort()
			return
		}

		c.Next()
	}
}
