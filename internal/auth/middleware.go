package auth

import (
	"net/http"
	"strings"

	"github.com/abduss/accounts/internal/token"
	"github.com/gin-gonic/gin"
)

const userIDContextKey = "authUserID"

type tokenVerifier interface {
	Verify(kind token.Kind, tokenString string) (token.Claims, error)
}

// RequireToken validates a bearer token of the given kind and injects its user id.
func RequireToken(verifier tokenVerifier, kind token.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		raw := extractBearerToken(authHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := verifier.Verify(kind, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(userIDContextKey, claims.UserID)
		c.Next()
	}
}

// CurrentUserID returns the user id injected by RequireToken.
func CurrentUserID(c *gin.Context) (string, bool) {
	id := c.GetString(userIDContextKey)
	return id, id != ""
}

func extractBearerToken(header string) string {
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
