package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tatami/academy-backend/internal/middleware"
	"github.com/tatami/academy-backend/internal/model"
	"github.com/tatami/academy-backend/internal/response"
	"github.com/tatami/academy-backend/internal/service"
	"github.com/tatami/academy-backend/internal/validator"
)

// AttendanceHandler handles attendance tracking.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// ListAttendance godoc
// GET /api/v1/attendance
// Lists attendance visible to the caller, newest first. Filters: class_id,
// from, to (YYYY-MM-DD, inclusive), academy_id.
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	page, perPage := pageQuery(c)

	academyID, ok := academyQuery(c)
	if !ok {
		return
	}

	var filter model.AttendanceFilter
	if raw := c.Query("class_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		classID := id.String()
		filter.ClassID = &classID
	}
	for param, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{param: param + " must be a date in YYYY-MM-DD format"})
			return
		}
		*dst = &t
	}

	records, pagination, err := h.attendanceService.List(c.Request.Context(), middleware.GetAccess(c), academyID, filter, page, perPage)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"attendance": records}, pagination)
}

// RecordAttendance godoc
// POST /api/v1/attendance
// Records or replaces the attendance of a class on a date. Students added
// to the list gain one attended class, students removed lose one.
func (h *AttendanceHandler) RecordAttendance(c *gin.Context) {
	var req model.AttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	record, err := h.attendanceService.Record(c.Request.Context(), middleware.GetAccess(c), &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attendance": record})
}
