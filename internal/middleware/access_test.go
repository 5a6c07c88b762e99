package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tatami/academy-backend/internal/model"
	"github.com/tatami/academy-backend/internal/response"
)

func serveWithAccess(eff model.EffectiveAccess, guard gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/ping",
		func(c *gin.Context) { c.Set(ContextKeyAccess, eff) },
		guard,
		func(c *gin.Context) { c.Status(http.StatusNoContent) },
	)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	return w
}

func TestRequirePlatformAdmin(t *testing.T) {
	w := serveWithAccess(model.EffectiveAccess{UserID: "a", IsAdmin: true}, RequirePlatformAdmin())
	require.Equal(t, http.StatusNoContent, w.Code)

	w = serveWithAccess(model.EffectiveAccess{UserID: "o", AcademyID: ptr("acad-1")}, RequirePlatformAdmin())
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, response.ErrAdminAccessOnly, decodeError(t, w))
}

func TestRequireAcademy(t *testing.T) {
	tests := []struct {
		name   string
		access model.EffectiveAccess
		status int
	}{
		{name: "admin without academy", access: model.EffectiveAccess{UserID: "a", IsAdmin: true}, status: http.StatusNoContent},
		{name: "linked user", access: model.EffectiveAccess{UserID: "o", AcademyID: ptr("acad-1")}, status: http.StatusNoContent},
		{name: "unlinked user", access: model.EffectiveAccess{UserID: "n"}, status: http.StatusForbidden},
		{name: "empty academy id", access: model.EffectiveAccess{UserID: "n", AcademyID: ptr("")}, status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveWithAccess(tt.access, RequireAcademy())
			require.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusForbidden {
				require.Equal(t, response.ErrNoAcademyLinked, decodeError(t, w))
			}
		})
	}
}

func TestNoStore(t *testing.T) {
	w := serveWithAccess(model.EffectiveAccess{}, NoStore())
	require.Equal(t, "private, no-store", w.Header().Get("Cache-Control"))
}
