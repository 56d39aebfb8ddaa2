package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/service"
	"github.com/noah-isme/sma-timetable/pkg/response"
)

type jobReader interface {
	Job(ctx context.Context, id string) (*models.GenerationJob, error)
}

// JobHandler reports generation job progress.
type JobHandler struct {
	jobs jobReader
}

// NewJobHandler constructs the handler.
func NewJobHandler(svc *service.TimetableService) *JobHandler {
	return &JobHandler{jobs: svc}
}

// Get godoc
// @Summary Generation job status and progress
// @Tags Generation
// @Produce json
// @Param jobId path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /jobs/{jobId} [get]
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobs.Job(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}
