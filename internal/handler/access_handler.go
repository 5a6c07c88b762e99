package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tatami/academy-backend/internal/middleware"
	"github.com/tatami/academy-backend/internal/response"
	"github.com/tatami/academy-backend/internal/service"
)

// AccessHandler exposes the caller's effective access.
type AccessHandler struct {
	accessService *service.AccessService
}

// NewAccessHandler creates a new AccessHandler.
func NewAccessHandler(accessService *service.AccessService) *AccessHandler {
	return &AccessHandler{accessService: accessService}
}

// GetMyAccess godoc
// GET /api/v1/me/access
// Returns the resolved access of the caller. A caller without academy gets
// is_admin=false and academy_id=null rather than an error.
func (h *AccessHandler) GetMyAccess(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	resp := h.accessService.Describe(c.Request.Context(), id, middleware.GetAccess(c))
	response.Success(c, http.StatusOK, gin.H{"access": resp})
}
