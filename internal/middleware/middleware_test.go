package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/service"
)

func newProtectedRouter(tokens TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())
	r.POST("/generate", JWT(tokens), RequireRoles(models.RoleAdmin, models.RoleSuperAdmin), func(c *gin.Context) {
		SetCacheHit(c, false)
		c.Status(http.StatusAccepted)
	})
	return r
}

func TestJWTAndRoles(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	router := newProtectedRouter(tokens)

	admin, _, err := tokens.Issue("admin-1", models.RoleAdmin)
	require.NoError(t, err)
	teacher, _, err := tokens.Issue("teacher-1", models.RoleTeacher)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "malformed header", header: "Token " + admin, status: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "wrong role", header: "Bearer " + teacher, status: http.StatusForbidden},
		{name: "admin", header: "Bearer " + admin, status: http.StatusAccepted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/generate", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestMetricsMiddlewareRecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint64(1), metrics.Snapshot().RequestsTotal)
}

func TestMetricsMiddlewareGroupsUnmatchedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/projects/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/projects/p-1", "/projects/p-2", "/wp-admin", "/.env"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/projects/:id",status="200"} 2`)
	assert.Contains(t, body, `http_requests_total{method="GET",path="unmatched",status="404"} 2`)
	assert.NotContains(t, body, "wp-admin")
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())
	var meta map[string]interface{}
	r.GET("/", func(c *gin.Context) {
		SetCacheHit(c, true)
		SetMeta(c, "count", 3)
		meta = ResponseMeta(c)
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, true, meta["cache_hit"])
	assert.Equal(t, 3, meta["count"])
	assert.Contains(t, meta, "processing_time_ms")
}
