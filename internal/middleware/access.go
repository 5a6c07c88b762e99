package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tatami/academy-backend/internal/response"
)

// RequirePlatformAdmin rejects callers whose effective access is not admin.
func RequirePlatformAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetAccess(c).IsAdmin {
			response.AbortFail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
			return
		}
		c.Next()
	}
}

// RequireAcademy rejects callers that are neither admin nor linked to an
// academy. It guards mutations; listings answer such callers with empty
// results instead.
func RequireAcademy() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetAccess(c).FailClosed() {
			response.AbortFail(c, http.StatusForbidden, response.ErrNoAcademyLinked)
			return
		}
		c.Next()
	}
}
