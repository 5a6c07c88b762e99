package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tatami/academy-backend/internal/access"
	"github.com/tatami/academy-backend/internal/model"
	"github.com/tatami/academy-backend/internal/repository"
	"github.com/tatami/academy-backend/internal/response"
	"github.com/tatami/academy-backend/internal/service"
)

// failFromError maps a service or repository error to an API error response.
// Unknown errors are logged and reported as INTERNAL_ERROR.
func failFromError(c *gin.Context, err error) {
	var parseErr *time.ParseError

	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, repository.ErrConflict):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, repository.ErrDependencyExists):
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
	case errors.Is(err, repository.ErrInvalidReference):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"detail": "referenced record does not exist"})
	case errors.Is(err, repository.ErrUnknownStudent):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"student_ids": err.Error()})
	case errors.Is(err, access.ErrNoAcademy):
		response.Fail(c, http.StatusForbidden, response.ErrNoAcademyLinked)
	case errors.Is(err, access.ErrAcademyRequired):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"academy_id": err.Error()})
	case errors.Is(err, model.ErrUnknownBelt):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidBelt)
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"time_end": err.Error()})
	case errors.As(err, &parseErr):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"detail": err.Error()})
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// uuidParam reads a UUID path parameter, answering INVALID_ID when malformed.
func uuidParam(c *gin.Context, name string) (string, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return "", false
	}
	return id.String(), true
}

// academyQuery reads the optional academy_id filter.
func academyQuery(c *gin.Context) (string, bool) {
	raw := c.Query("academy_id")
	if raw == "" {
		return "", true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return "", false
	}
	return id.String(), true
}

func pageQuery(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "10"))
	return page, perPage
}
