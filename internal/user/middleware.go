package user

import (
	"context"
	"errors"
	"net/http"

	"github.com/abduss/accounts/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resolvedUserKey = "resolvedUser"

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (User, error)
}

// RequireExistingUser rejects a malformed :id with 400 and an unknown one with 404,
// otherwise stores the user for the handler.
func RequireExistingUser(finder userFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Wrong UUID format of user ID"})
			return
		}

		user, err := finder.FindByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User with that id does not exist"})
				return
			}
			logger.FromContext(c).Error("resolve user", zap.Error(err), zap.String("user_id", id.String()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user"})
			return
		}

		c.Set(resolvedUserKey, user)
		c.Next()
	}
}

// ResolvedUser returns the user loaded by RequireExistingUser.
func ResolvedUser(c *gin.Context) (User, bool) {
	value, exists := c.Get(resolvedUserKey)
	if !exists {
		return User{}, false
	}
	user, ok := value.(User)
	return user, ok
}
