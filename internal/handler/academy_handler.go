package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tatami/academy-backend/internal/middleware"
	"github.com/tatami/academy-backend/internal/model"
	"github.com/tatami/academy-backend/internal/response"
	"github.com/tatami/academy-backend/internal/service"
	"github.com/tatami/academy-backend/internal/validator"
)

// AcademyHandler handles platform-admin academy management.
type AcademyHandler struct {
	academyService *service.AcademyService
}

// NewAcademyHandler creates a new AcademyHandler.
func NewAcademyHandler(academyService *service.AcademyService) *AcademyHandler {
	return &AcademyHandler{academyService: academyService}
}

// ListAcademies godoc
// GET /api/v1/admin/academies
// Lists academies with pagination, optionally filtered by ?search=.
func (h *AcademyHandler) ListAcademies(c *gin.Context) {
	page, perPage := pageQuery(c)

	academies, pagination, err := h.academyService.List(c.Request.Context(), c.Query("search"), page, perPage)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"academies": academies}, pagination)
}

// GetAcademy godoc
// GET /api/v1/admin/academies/:id
func (h *AcademyHandler) GetAcademy(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	academy, err := h.academyService.GetByID(c.Request.Context(), id)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"academy": academy})
}

// CreateAcademy godoc
// POST /api/v1/admin/academies
// Creates an academy; owner_user_id, when present, is bound as academy_owner.
func (h *AcademyHandler) CreateAcademy(c *gin.Context) {
	var req model.AcademyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	id, _ := middleware.GetIdentity(c)
	academy, err := h.academyService.Create(c.Request.Context(), id.ID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"academy": academy})
}

// UpdateAcademy godoc
// PUT /api/v1/admin/academies/:id
func (h *AcademyHandler) UpdateAcademy(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.AcademyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	academy, err := h.academyService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"academy": academy})
}

// DeleteAcademy godoc
// DELETE /api/v1/admin/academies/:id
// Deletes an academy together with its students, classes and attendance.
func (h *AcademyHandler) DeleteAcademy(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.academyService.Delete(c.Request.Context(), id); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "academy deleted successfully"})
}

// ListMembers godoc
// GET /api/v1/admin/academies/:id/members
func (h *AcademyHandler) ListMembers(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	members, err := h.academyService.Members(c.Request.Context(), id)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"members": members})
}

// PutMember godoc
// PUT /api/v1/admin/academies/:id/members/:user_id
// Binds a user to the academy with the given role.
func (h *AcademyHandler) PutMember(c *gin.Context) {
	academyID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}

	var req model.MemberRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.academyService.BindUser(c.Request.Context(), academyID, userID, req.Role); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "member bound successfully"})
}

// DeleteMember godoc
// DELETE /api/v1/admin/academies/:id/members/:user_id
func (h *AcademyHandler) DeleteMember(c *gin.Context) {
	academyID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.academyService.UnbindUser(c.Request.Context(), academyID, userID); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "member removed successfully"})
}
