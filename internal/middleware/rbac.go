package middleware

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/mpetrenko/visitboard/internal/errors"
	"github.com/mpetrenko/visitboard/internal/policy"
)

// RequireRole restricts access to principals the access policy allows
// for the given role. It MUST be used AFTER RequireAuth.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := Principal(c)
		if !ok {
			apierrors.Unauthorized(c, "Please log in to access this page")
			c.Abort()
			return
		}

		if !policy.Decide(principal, requiredRole, nil).Allowed() {
			apierrors.Forbidden(c, "You do not have enough rights to access this page")
			c.Abort()
			return
		}

		c.Next()
	}
}
