package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tatami/academy-backend/internal/middleware"
	"github.com/tatami/academy-backend/internal/response"
	"github.com/tatami/academy-backend/internal/service"
)

// ReportHandler serves belt reports.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// BeltDistribution godoc
// GET /api/v1/reports/belts
// Counts active students per belt.
func (h *ReportHandler) BeltDistribution(c *gin.Context) {
	academyID, ok := academyQuery(c)
	if !ok {
		return
	}

	belts, err := h.reportService.BeltDistribution(c.Request.Context(), middleware.GetAccess(c), academyID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"belts": belts})
}

// Promotions godoc
// GET /api/v1/reports/promotions
// Lists active students by progression; ?ready_only=true keeps only those
// who met their class requirement.
func (h *ReportHandler) Promotions(c *gin.Context) {
	academyID, ok := academyQuery(c)
	if !ok {
		return
	}

	readyOnly := false
	if raw := c.Query("ready_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"ready_only": "ready_only must be a boolean"})
			return
		}
		readyOnly = v
	}

	candidates, err := h.reportService.Promotions(c.Request.Context(), middleware.GetAccess(c), academyID, readyOnly)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"promotions": candidates})
}
