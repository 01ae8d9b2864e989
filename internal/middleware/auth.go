package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tradewire/signalgate/internal/service"
)

const (
	HeaderIngestKey    = "X-API-Key"
	ContextIdentityKey = "identity"
)

// TokenAuthMiddleware resolves the bearer token to an Identity and stores it
// in the request context for handlers downstream.
func TokenAuthMiddleware(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			c.Abort()
			return
		}

		identity, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// IngestKeyMiddleware guards the signal ingestion endpoint with the static
// feed API key. This is a machine credential, independent of user tokens.
func IngestKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(HeaderIngestKey)
		if key == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			c.Abort()
			return
		}
		c.Next()
	}
}
