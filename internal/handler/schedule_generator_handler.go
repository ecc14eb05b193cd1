package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
	"github.com/noah-isme/course-scheduler-api/internal/middleware"
	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/internal/service"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
	"github.com/noah-isme/course-scheduler-api/pkg/export"
	"github.com/noah-isme/course-scheduler-api/pkg/response"
)

// maxWorkingSetCourses bounds a single generation request.
const maxWorkingSetCourses = 64

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
	Breakdown(ctx context.Context, req dto.ScoreRequest) (*models.ScoreBreakdown, error)
	Itinerary(ctx context.Context, req dto.ItineraryRequest) (*dto.ItineraryResponse, error)
	ExportItinerary(ctx context.Context, req dto.ItineraryRequest, format string) ([]byte, export.Format, error)
	Redistribute(req dto.RedistributeRequest) (*dto.RedistributeResponse, error)
}

// ScheduleGeneratorHandler exposes schedule combination endpoints.
type ScheduleGeneratorHandler struct {
	service scheduleGenerator
}

// NewScheduleGeneratorHandler constructs the handler.
func NewScheduleGeneratorHandler(svc *service.ScheduleGeneratorService) *ScheduleGeneratorHandler {
	return &ScheduleGeneratorHandler{service: svc}
}

// Generate godoc
// @Summary Generate ranked conflict-free schedules
// @Description Combines the working set into every conflict-free schedule, scores each against the preferences and returns the best ranked.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Working set"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleGeneratorHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	if len(req.Courses)+len(req.CoreBlocks) > maxWorkingSetCourses {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d courses and core blocks per request", maxWorkingSetCourses)))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, result.Cached)
	response.JSON(c, http.StatusOK, result, nil, middleware.ExtractMeta(c))
}

// Score godoc
// @Summary Score an explicit schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.ScoreRequest true "Sections and preferences"
// @Success 200 {object} response.Envelope
// @Router /schedules/score [post]
func (h *ScheduleGeneratorHandler) Score(c *gin.Context) {
	var req dto.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid score payload"))
		return
	}
	breakdown, err := h.service.Breakdown(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, breakdown, nil)
}

// Itinerary godoc
// @Summary Build the weekly itinerary of a schedule
// @Description Accepts explicit sections or a proposal id with a 1-based rank.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.ItineraryRequest true "Schedule selector"
// @Success 200 {object} response.Envelope
// @Router /schedules/itinerary [post]
func (h *ScheduleGeneratorHandler) Itinerary(c *gin.Context) {
	var req dto.ItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid itinerary payload"))
		return
	}
	itinerary, err := h.service.Itinerary(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, itinerary, nil)
}

// ExportItinerary godoc
// @Summary Download the weekly itinerary
// @Tags Schedules
// @Accept json
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param payload body dto.ItineraryRequest true "Schedule selector"
// @Success 200 {file} file
// @Router /schedules/itinerary/export [post]
func (h *ScheduleGeneratorHandler) ExportItinerary(c *gin.Context) {
	var req dto.ItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid itinerary payload"))
		return
	}
	data, format, err := h.service.ExportItinerary(c.Request.Context(), req, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "itinerary."+string(format), format.ContentType(), data)
}

// Redistribute godoc
// @Summary Move one preference slider and rebalance the rest
// @Tags Preferences
// @Accept json
// @Produce json
// @Param payload body dto.RedistributeRequest true "Slider values"
// @Success 200 {object} response.Envelope
// @Router /preferences/redistribute [post]
func (h *ScheduleGeneratorHandler) Redistribute(c *gin.Context) {
	var req dto.RedistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid redistribute payload"))
		return
	}
	result, err := h.service.Redistribute(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
