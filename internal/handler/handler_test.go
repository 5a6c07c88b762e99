package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/tatami/academy-backend/internal/access"
	"github.com/tatami/academy-backend/internal/middleware"
	"github.com/tatami/academy-backend/internal/model"
	"github.com/tatami/academy-backend/internal/repository"
	"github.com/tatami/academy-backend/internal/response"
	"github.com/tatami/academy-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Data  json.RawMessage     `json:"data"`
	Error *response.ErrorBody `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestFailFromError(t *testing.T) {
	_, parseErr := time.Parse("2006-01-02", "2024-02-30")

	tests := []struct {
		name   string
		err    error
		status int
		code   response.ErrCode
	}{
		{"not found", fmt.Errorf("get: %w", repository.ErrNotFound), http.StatusNotFound, response.ErrNotFound},
		{"conflict", repository.ErrConflict, http.StatusConflict, response.ErrConflict},
		{"dependency", repository.ErrDependencyExists, http.StatusConflict, response.ErrDependencyExists},
		{"invalid reference", repository.ErrInvalidReference, http.StatusBadRequest, response.ErrValidation},
		{"unknown student", repository.ErrUnknownStudent, http.StatusBadRequest, response.ErrValidation},
		{"no academy", access.ErrNoAcademy, http.StatusForbidden, response.ErrNoAcademyLinked},
		{"academy required", access.ErrAcademyRequired, http.StatusBadRequest, response.ErrValidation},
		{"unknown belt", fmt.Errorf("%w: %q", model.ErrUnknownBelt, "green"), http.StatusBadRequest, response.ErrInvalidBelt},
		{"time range", service.ErrInvalidTimeRange, http.StatusBadRequest, response.ErrValidation},
		{"date parse", fmt.Errorf("parse date: %w", parseErr), http.StatusBadRequest, response.ErrValidation},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, response.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			failFromError(c, tt.err)

			require.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			require.NotNil(t, body.Error)
			require.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestUUIDParam(t *testing.T) {
	r := gin.New()
	r.GET("/things/:id", func(c *gin.Context) {
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		c.String(http.StatusOK, id)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/8A1F3C1E-9F0B-4C55-9D64-7B1E2F3A4B5C", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "8a1f3c1e-9f0b-4c55-9d64-7b1e2f3a4b5c", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/42", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, response.ErrInvalidID, decode(t, w).Error.Code)
}

func TestHealth(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("unreachable") })

	serve := func(deps map[string]Pinger) (*httptest.ResponseRecorder, map[string]any) {
		r := gin.New()
		r.GET("/health", NewHealthHandler(deps).Health)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		var data map[string]any
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
		return w, data
	}

	w, data := serve(map[string]Pinger{"postgres": up, "redis": up})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", data["status"])

	w, data = serve(map[string]Pinger{"postgres": up, "redis": down})
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Equal(t, "degraded", data["status"])
	require.Equal(t, map[string]any{"postgres": "ok", "redis": "unavailable"}, data["checks"])
}

type noTenancy struct{}

func (noTenancy) FindTenancyForUser(context.Context, string) (*model.TenancyBinding, error) {
	return nil, nil
}

type ownsAcademy string

func (o ownsAcademy) FindAcademyOwnedBy(context.Context, string) (string, error) {
	return string(o), nil
}

func TestGetMyAccess(t *testing.T) {
	h := NewAccessHandler(service.NewAccessService(access.NewResolver(noTenancy{}, ownsAcademy("acad-1"), access.ResolverConfig{}, zerolog.Nop())))
	acad := "acad-1"

	serve := func(eff *model.EffectiveAccess) (*httptest.ResponseRecorder, model.AccessResponse) {
		r := gin.New()
		r.GET("/me/access", func(c *gin.Context) {
			c.Set(middleware.ContextKeyIdentity, model.Identity{ID: "u1", Email: "u1@example.com"})
			if eff != nil {
				c.Set(middleware.ContextKeyAccess, *eff)
			}
		}, h.GetMyAccess)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me/access", nil))

		var data struct {
			Access model.AccessResponse `json:"access"`
		}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
		return w, data.Access
	}

	w, resp := serve(&model.EffectiveAccess{UserID: "u1", AcademyID: &acad})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.IsAcademyOwner)
	require.Equal(t, &acad, resp.AcademyID)

	w, resp = serve(nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, resp.IsAdmin)
	require.Nil(t, resp.AcademyID)
	require.False(t, resp.IsAcademyOwner)
}

func TestAttendanceStreamRejectsWithoutAccess(t *testing.T) {
	h := NewWSHandler(nil, zerolog.Nop(), nil)
	acad := "acad-1"

	tests := []struct {
		name   string
		eff    model.EffectiveAccess
		target string
		status int
	}{
		{name: "fail-closed", eff: model.EffectiveAccess{UserID: "n"}, target: "/stream", status: http.StatusForbidden},
		{name: "foreign academy", eff: model.EffectiveAccess{UserID: "o", AcademyID: &acad}, target: "/stream?academy_id=6f1c2a0e-0000-4000-8000-000000000001", status: http.StatusNotFound},
		{name: "malformed academy", eff: model.EffectiveAccess{UserID: "a", IsAdmin: true}, target: "/stream?academy_id=x", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/stream", func(c *gin.Context) { c.Set(middleware.ContextKeyAccess, tt.eff) }, h.AttendanceStream)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.Equal(t, tt.status, w.Code)
		})
	}
}
