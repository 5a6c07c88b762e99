package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tatami/academy-backend/internal/middleware"
	"github.com/tatami/academy-backend/internal/model"
	"github.com/tatami/academy-backend/internal/response"
	"github.com/tatami/academy-backend/internal/service"
	"github.com/tatami/academy-backend/internal/validator"
)

// StudentHandler handles the academy student roster.
type StudentHandler struct {
	studentService *service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// ListStudents godoc
// GET /api/v1/students
// Lists students visible to the caller with pagination. Filters: belt,
// status, search, academy_id (admins only narrow; tenants are pinned).
func (h *StudentHandler) ListStudents(c *gin.Context) {
	page, perPage := pageQuery(c)

	academyID, ok := academyQuery(c)
	if !ok {
		return
	}

	var filter model.StudentFilter
	if raw := c.Query("belt"); raw != "" {
		belt, err := model.ParseBelt(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidBelt)
			return
		}
		filter.Belt = &belt
	}
	if raw := strings.ToLower(c.Query("status")); raw != "" {
		status := model.StudentStatus(raw)
		if status != model.StudentActive && status != model.StudentInactive {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"status": "status must be one of [active inactive]"})
			return
		}
		filter.Status = &status
	}
	filter.Search = c.Query("search")

	students, pagination, err := h.studentService.ListStudents(c.Request.Context(), middleware.GetAccess(c), academyID, filter, page, perPage)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"students": students}, pagination)
}

// GetStudent godoc
// GET /api/v1/students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	student, err := h.studentService.GetByID(c.Request.Context(), middleware.GetAccess(c), id)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// GetProgression godoc
// GET /api/v1/students/:id/progression
// Returns the belt progression of a student.
func (h *StudentHandler) GetProgression(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	progression, err := h.studentService.Progression(c.Request.Context(), middleware.GetAccess(c), id)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"progression": progression})
}

// CreateStudent godoc
// POST /api/v1/students
// Creates a student in the caller's academy. Admins must send academy_id.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req model.StudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), middleware.GetAccess(c), &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// UpdateStudent godoc
// PUT /api/v1/students/:id
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.StudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), middleware.GetAccess(c), id, &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// DeleteStudent godoc
// DELETE /api/v1/students/:id
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.studentService.Delete(c.Request.Context(), middleware.GetAccess(c), id); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "student deleted successfully"})
}
