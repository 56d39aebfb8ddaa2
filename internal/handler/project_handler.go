package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/service"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
	"github.com/noah-isme/sma-timetable/pkg/response"
)

type projectService interface {
	Import(ctx context.Context, project dto.Project) (*dto.Project, error)
	Project(ctx context.Context, id string) (*dto.Project, error)
	List(ctx context.Context) ([]models.ProjectSummary, error)
	Save(ctx context.Context, id string) (*dto.ProjectSaved, error)
	Clashes(ctx context.Context, projectID string) ([]dto.ClashItem, error)
	GenerateSchool(ctx context.Context, projectID string) (*models.GenerationJob, error)
}

// ProjectHandler exposes project import, export and school-wide operations.
type ProjectHandler struct {
	service projectService
}

// NewProjectHandler constructs the handler.
func NewProjectHandler(svc *service.TimetableService) *ProjectHandler {
	return &ProjectHandler{service: svc}
}

// Import godoc
// @Summary Import a project
// @Description Builds the school model from a project document. Classes carrying placements are restored.
// @Tags Projects
// @Accept json
// @Produce json
// @Param payload body dto.Project true "Project document"
// @Success 201 {object} response.Envelope
// @Router /projects [post]
func (h *ProjectHandler) Import(c *gin.Context) {
	var req dto.Project
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid project payload"))
		return
	}
	project, err := h.service.Import(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, project)
}

// List godoc
// @Summary List projects
// @Tags Projects
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projects, &models.Pagination{Page: 1, PageSize: len(projects), TotalCount: len(projects)})
}

// Get godoc
// @Summary Export the current state of a project
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Router /projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.service.Project(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, project, nil)
}

// Save godoc
// @Summary Persist a project snapshot
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /projects/{id}/save [post]
func (h *ProjectHandler) Save(c *gin.Context) {
	saved, err := h.service.Save(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, saved, nil)
}

// Clashes godoc
// @Summary Report teacher clashes across committed timetables
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Router /projects/{id}/clashes [get]
func (h *ProjectHandler) Clashes(c *gin.Context) {
	clashes, err := h.service.Clashes(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, clashes, nil, map[string]interface{}{"count": len(clashes)})
}

// Generate godoc
// @Summary Queue regeneration of every class
// @Tags Generation
// @Produce json
// @Param id path string true "Project ID"
// @Success 202 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /projects/{id}/generate [post]
func (h *ProjectHandler) Generate(c *gin.Context) {
	job, err := h.service.GenerateSchool(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, jobLocation(c, job.ID), job, requesterMeta(c))
}
