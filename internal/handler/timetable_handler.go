package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/middleware"
	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/service"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
	"github.com/noah-isme/sma-timetable/pkg/response"
)

type timetableService interface {
	Timetable(ctx context.Context, projectID, classID string) (*dto.TimetableView, bool, error)
	Remainder(ctx context.Context, projectID, classID string) ([]dto.RemainderItem, error)
	GenerateClass(ctx context.Context, projectID, classID string) (*models.GenerationJob, error)
	Lock(ctx context.Context, projectID, classID string, req dto.EntryRequest) (*dto.TimetableView, error)
	Unlock(ctx context.Context, projectID, classID string, req dto.EntryRequest) (*dto.TimetableView, error)
	Swap(ctx context.Context, projectID, classID string, req dto.SwapRequest) (*dto.TimetableView, error)
	Delete(ctx context.Context, projectID, classID string, req dto.EntryRequest) (*dto.TimetableView, error)
	Place(ctx context.Context, projectID, classID string, req dto.PlaceRequest) (*dto.TimetableView, error)
	Export(ctx context.Context, projectID, classID string, format service.ExportFormat) (*service.ExportResult, error)
}

// TimetableHandler exposes per-class timetable views, generation and manual edits.
type TimetableHandler struct {
	service timetableService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Get godoc
// @Summary Weekly grid of a class
// @Tags Timetables
// @Produce json
// @Param id path string true "Project ID"
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /projects/{id}/classes/{classId}/timetable [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	view, cacheHit, err := h.service.Timetable(c.Request.Context(), c.Param("id"), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, view, nil, middleware.ResponseMeta(c))
}

// Remainder godoc
// @Summary Unplaced periods of a class
// @Tags Timetables
// @Produce json
// @Param id path string true "Project ID"
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /projects/{id}/classes/{classId}/remainder [get]
func (h *TimetableHandler) Remainder(c *gin.Context) {
	items, err := h.service.Remainder(c.Request.Context(), c.Param("id"), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Generate godoc
// @Summary Queue generation of one class
// @Tags Generation
// @Produce json
// @Param id path string true "Project ID"
// @Param classId path string true "Class ID"
// @Success 202 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /projects/{id}/classes/{classId}/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	job, err := h.service.GenerateClass(c.Request.Context(), c.Param("id"), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, jobLocation(c, job.ID), job, requesterMeta(c))
}

// Lock godoc
// @Summary Pin a placed entry to its window
// @Tags Edits
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param classId path string true "Class ID"
// @Param payload body dto.EntryRequest true "Entry"
// @Success 200 {object} response.Envelope
// @Router /projects/{id}/classes/{classId}/lock [post]
func (h *TimetableHandler) Lock(c *gin.Context) {
	h.entryEdit(c, h.service.Lock)
}

// Unlock godoc
// @Summary Release the lock of a placed entry
// @Tags Edits
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param classId path string true "Class ID"
// @Param payload body dto.EntryRequest true "Entry"
// @Success 200 {object} response.Envelope
// @Router /projects/{id}/classes/{classId}/unlock [post]
func (h *TimetableHandler) Unlock(c *gin.Context) {
	h.entryEdit(c, h.service.Unlock)
}

// Delete godoc
// @Summary Move a placed entry into the remainder
// @Tags Edits
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param classId path string true "Class ID"
// @Param payload body dto.EntryRequest true "Entry"
// @Success 200 {object} response.Envelope
// @Router /projects/{id}/classes/{classId}/delete [post]
func (h *TimetableHandler) Delete(c *gin.Context) {
	h.entryEdit(c, h.service.Delete)
}

func (h *TimetableHandler) entryEdit(c *gin.Context, apply func(context.Context, string, string, dto.EntryRequest) (*dto.TimetableView, error)) {
	var req dto.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid entry payload"))
		return
	}
	view, err := apply(c.Request.Context(), c.Param("id"), c.Param("classId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Swap godoc
// @Summary Swap two placed entries of equal width
// @Tags Edits
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param classId path string true "Class ID"
// @Param payload body dto.SwapRequest true "Entries"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /projects/{id}/classes/{classId}/swap [post]
func (h *TimetableHandler) Swap(c *gin.Context) {
	var req dto.SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid swap payload"))
		return
	}
	view, err := h.service.Swap(c.Request.Context(), c.Param("id"), c.Param("classId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Place godoc
// @Summary Place a remainder period onto a Free entry
// @Tags Edits
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param classId path string true "Class ID"
// @Param payload body dto.PlaceRequest true "Remainder entry and target"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /projects/{id}/classes/{classId}/place [post]
func (h *TimetableHandler) Place(c *gin.Context) {
	var req dto.PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid place payload"))
		return
	}
	view, err := h.service.Place(c.Request.Context(), c.Param("id"), c.Param("classId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Export godoc
// @Summary Download a class timetable
// @Tags Timetables
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Project ID"
// @Param classId path string true "Class ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /projects/{id}/classes/{classId}/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(service.ExportFormatCSV))))
	result, err := h.service.Export(c.Request.Context(), c.Param("id"), c.Param("classId"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}
