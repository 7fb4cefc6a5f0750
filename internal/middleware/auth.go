package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/mpetrenko/visitboard/internal/constants"
	"github.com/mpetrenko/visitboard/internal/database"
	apierrors "github.com/mpetrenko/visitboard/internal/errors"
	"github.com/mpetrenko/visitboard/internal/models"
)

// RequireAuth checks if the user is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := SessionUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "Please log in to access this page")
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// SessionUserID reads the authenticated user id from the session.
func SessionUserID(c *gin.Context) (uint64, bool) {
	session := sessions.Default(c)
	return toUserID(session.Get(constants.ContextKeyUserID))
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUserID(userID)
}

func toUserID(v interface{}) (uint64, bool) {
	switch id := v.(type) {
	case uint64:
		return id, true
	case uint:
		return uint64(id), true
	case int:
		if id < 0 {
			return 0, false
		}
		return uint64(id), true
	case int64:
		if id < 0 {
			return 0, false
		}
		return uint64(id), true
	default:
		return 0, false
	}
}

// Principal loads the authenticated user with their role. The loaded
// user is cached in the gin context for the rest of the request.
func Principal(c *gin.Context) (*models.User, bool) {
	if cached, exists := c.Get(constants.ContextKeyUser); exists {
		if user, ok := cached.(*models.User); ok {
			return user, true
		}
	}

	userID, ok := GetUserID(c)
	if !ok {
		return nil, false
	}

	var user models.User
	if err := database.GetDB().Preload("Role").First(&user, userID).Error; err != nil {
		return nil, false
	}

	c.Set(constants.ContextKeyUser, &user)
	return &user, true
}
