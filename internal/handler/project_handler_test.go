package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/dto"
	internalmiddleware "github.com/noah-isme/sma-timetable/internal/middleware"
	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/service"
)

const projectPayload = `{
  "name": "Term 1",
  "days": ["Mon", "Tue", "Wed"],
  "teachers": [{"id": "T1", "name": "Ayu"}, {"id": "T2", "name": "Budi"}],
  "levels": [{
    "index": 0,
    "name": "Grade 10",
    "classes": [
      {"id": "10A", "periodsPerDay": [5, 5, 5], "breakPeriods": [2, 2, 2]},
      {"id": "10B", "periodsPerDay": [5, 5, 5], "breakPeriods": [2, 2, 2]}
    ],
    "subjects": [
      {"name": "Math", "timings": [
        {"classId": "10A", "teacherId": "T1", "dailyQuota": 2, "weeklyQuota": 4},
        {"classId": "10B", "teacherId": "T1", "dailyQuota": 2, "weeklyQuota": 4}
      ]},
      {"name": "History", "timings": [
        {"classId": "10A", "teacherId": "T2", "dailyQuota": 1, "weeklyQuota": 3},
        {"classId": "10B", "teacherId": "T2", "dailyQuota": 1, "weeklyQuota": 3}
      ]}
    ]
  }]
}`

type apiFixture struct {
	router *gin.Engine
	tokens *service.TokenService
}

func newAPIFixture(t *testing.T) apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := service.NewTimetableService(nil, nil, nil, nil, nil, zap.NewNop(), service.TimetableConfig{Seed: 3, Workers: 1})
	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	t.Cleanup(func() {
		cancel()
		svc.Stop()
	})

	tokens := service.NewTokenService("secret", time.Hour)
	projects := NewProjectHandler(svc)
	jobs := NewJobHandler(svc)

	r := gin.New()
	r.Use(internalmiddleware.WithResponseMeta())
	admin := []gin.HandlerFunc{internalmiddleware.JWT(tokens), internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin)}
	r.GET("/projects", projects.List)
	r.POST("/projects", append(admin, projects.Import)...)
	r.GET("/projects/:id", projects.Get)
	r.GET("/projects/:id/clashes", projects.Clashes)
	r.POST("/projects/:id/save", append(admin, projects.Save)...)
	r.POST("/projects/:id/generate", append(admin, projects.Generate)...)
	r.GET("/jobs/:jobId", jobs.Get)
	return apiFixture{router: r, tokens: tokens}
}

func (f apiFixture) do(t *testing.T, method, path, body string, role models.UserRole) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, _, err := f.tokens.Issue("user-1", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Data json.RawMessage        `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
	return envelope.Meta
}

func TestProjectAPIImportRequiresAdmin(t *testing.T) {
	f := newAPIFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodPost, "/projects", projectPayload, "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodPost, "/projects", projectPayload, models.RoleTeacher).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/projects", `{"name":`, models.RoleAdmin).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/projects", `{"name":"x","days":[],"levels":[]}`, models.RoleAdmin).Code)
}

func TestProjectAPIGenerateLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/projects", projectPayload, models.RoleAdmin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var project dto.Project
	decodeData(t, w, &project)
	require.NotEmpty(t, project.ID)

	w = f.do(t, http.MethodPost, "/projects/"+project.ID+"/generate", "", models.RoleSuperAdmin)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	var job models.GenerationJob
	meta := decodeData(t, w, &job)
	assert.Equal(t, models.JobScopeSchool, job.Scope)
	assert.Equal(t, "user-1", meta["requested_by"])
	assert.Equal(t, "/jobs/"+job.ID, w.Header().Get("Location"))

	require.Eventually(t, func() bool {
		w := f.do(t, http.MethodGet, "/jobs/"+job.ID, "", "")
		var polled models.GenerationJob
		decodeData(t, w, &polled)
		return polled.Status == models.JobStatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	w = f.do(t, http.MethodGet, "/projects/"+project.ID, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &project)
	for _, class := range project.Levels[0].Classes {
		assert.True(t, class.Generated, class.ID)
		assert.NotEmpty(t, class.Placements)
	}

	w = f.do(t, http.MethodGet, "/projects/"+project.ID+"/clashes", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var clashes []dto.ClashItem
	meta = decodeData(t, w, &clashes)
	assert.EqualValues(t, len(clashes), meta["count"])

	w = f.do(t, http.MethodPost, "/projects/"+project.ID+"/save", "", models.RoleAdmin)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)

	w = f.do(t, http.MethodGet, "/projects", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.ProjectSummary
	decodeData(t, w, &list)
	require.Len(t, list, 1)
}

func TestProjectAPIUnknownResources(t *testing.T) {
	f := newAPIFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/projects/missing", "", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/jobs/missing", "", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/projects/missing/generate", "", models.RoleAdmin).Code)
}
