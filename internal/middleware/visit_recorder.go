package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mpetrenko/visitboard/internal/services"
)

// StaticPrefix is the route namespace excluded from visit recording.
const StaticPrefix = "/static"

// VisitRecorder appends one visit log row per inbound request, before
// the target handler runs. Requests that resolve to no route at all
// (c.FullPath is empty, e.g. a 404) are skipped because the exclusion
// is keyed on route resolution, as are static assets and the favicon.
// Recording failures never fail the outer request.
func VisitRecorder(visits *services.VisitService) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || strings.HasPrefix(route, StaticPrefix) || c.Request.URL.Path == "/favicon.ico" {
			c.Next()
			return
		}

		var userID *uint64
		if id, ok := SessionUserID(c); ok {
			userID = &id
		}

		visits.Record(c.Request.URL.Path, userID)
		c.Next()
	}
}
