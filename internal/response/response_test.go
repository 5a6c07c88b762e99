package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, withMiddleware bool, header string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	r := gin.New()
	if withMiddleware {
		r.Use(RequestIDMiddleware())
	}
	r.GET("/", func(c *gin.Context) { Success(c, http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(HeaderRequestID, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{name: "missing", header: "", keep: false},
		{name: "caller supplied", header: "dash-7f3a.2", keep: true},
		{name: "too long", header: strings.Repeat("a", maxRequestIDLen+1), keep: false},
		{name: "unsafe characters", header: "abc\tdef", keep: false},
		{name: "spaces", header: "a b", keep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serve(t, true, tt.header)

			got := w.Header().Get(HeaderRequestID)
			require.Equal(t, got, body.Metadata.RequestID)
			if tt.keep {
				require.Equal(t, tt.header, got)
				return
			}
			_, err := uuid.Parse(got)
			require.NoError(t, err)
		})
	}
}

func TestMetadataWithoutMiddleware(t *testing.T) {
	w, body := serve(t, false, "")

	require.Empty(t, w.Header().Get(HeaderRequestID))
	_, err := uuid.Parse(body.Metadata.RequestID)
	require.NoError(t, err)
	require.NotEmpty(t, body.Metadata.Timestamp)
	require.Equal(t, "ok", body.Data)
}

func TestNewPagination(t *testing.T) {
	require.Equal(t, &Pagination{Page: 2, PerPage: 10, TotalItems: 21, TotalPages: 3}, NewPagination(2, 10, 21))
	require.Zero(t, NewPagination(1, 10, 0).TotalPages)
	require.Zero(t, NewPagination(1, 0, 5).TotalPages)
}
