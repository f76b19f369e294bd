package api

import (
	"context"
	"net/http"
	"strconv"

	"travel-service/internal/models"

	"github.com/gin-gonic/gin"
)

const userContextKey = "currentUser"

// UserResolver loads the user a request acts as. store.Store
// satisfies it. Token validation is handled upstream (API gateway);
// this service trusts the X-User-ID header it forwards.
type UserResolver interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// UserAuth resolves the requesting user from the X-User-ID header and
// rejects requests without a valid one.
func UserAuth(users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.GetHeader("X-User-ID")
		if idStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		userID, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by UserAuth. Only valid on
// routes behind that middleware.
func CurrentUser(c *gin.Context) *models.User {
	user, _ := c.MustGet(userContextKey).(*models.User)
	return user
}
