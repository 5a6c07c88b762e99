package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tatami/academy-backend/internal/middleware"
	"github.com/tatami/academy-backend/internal/response"
	"github.com/tatami/academy-backend/internal/service"
)

// DashboardHandler handles dashboard endpoints.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboardData godoc
// GET /api/v1/dashboard
// Returns student, class and attendance counts plus recent attendance for
// the caller's academy (or all academies for platform admins).
func (h *DashboardHandler) GetDashboardData(c *gin.Context) {
	academyID, ok := academyQuery(c)
	if !ok {
		return
	}

	data, err := h.dashboardService.GetDashboardData(c.Request.Context(), middleware.GetAccess(c), academyID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, data)
}
