package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
	"github.com/noah-isme/course-scheduler-api/internal/middleware"
	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/internal/service"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
	"github.com/noah-isme/course-scheduler-api/pkg/response"
)

type savedScheduleService interface {
	Save(ctx context.Context, ownerID string, req dto.SaveScheduleRequest) (*dto.SavedScheduleDetail, error)
	List(ctx context.Context, ownerID string, query dto.SavedScheduleQuery) ([]dto.SavedScheduleDetail, *models.Pagination, error)
	Get(ctx context.Context, ownerID, id string) (*dto.SavedScheduleDetail, error)
	Delete(ctx context.Context, ownerID, id string) error
	Share(ctx context.Context, ownerID, id string) (*dto.ShareScheduleResponse, error)
	Shared(ctx context.Context, token string) (*dto.SavedScheduleDetail, error)
}

// SavedScheduleHandler exposes a student's saved schedules and public share links.
type SavedScheduleHandler struct {
	service savedScheduleService
}

// NewSavedScheduleHandler constructs the handler.
func NewSavedScheduleHandler(svc *service.SavedScheduleService) *SavedScheduleHandler {
	return &SavedScheduleHandler{service: svc}
}

// List godoc
// @Summary List saved schedules
// @Tags Saved Schedules
// @Produce json
// @Security BearerAuth
// @Param semester query string false "Semester filter"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /saved-schedules [get]
func (h *SavedScheduleHandler) List(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var query dto.SavedScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), ownerID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Save godoc
// @Summary Save a schedule
// @Description Stores explicit sections or a ranked entry of a recent proposal.
// @Tags Saved Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SaveScheduleRequest true "Schedule to save"
// @Success 201 {object} response.Envelope
// @Router /saved-schedules [post]
func (h *SavedScheduleHandler) Save(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var req dto.SaveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid save payload"))
		return
	}
	detail, err := h.service.Save(c.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

// Get godoc
// @Summary Get a saved schedule
// @Tags Saved Schedules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Saved schedule ID"
// @Success 200 {object} response.Envelope
// @Router /saved-schedules/{id} [get]
func (h *SavedScheduleHandler) Get(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	detail, err := h.service.Get(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Delete godoc
// @Summary Delete a saved schedule
// @Tags Saved Schedules
// @Security BearerAuth
// @Param id path string true "Saved schedule ID"
// @Success 204
// @Router /saved-schedules/{id} [delete]
func (h *SavedScheduleHandler) Delete(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Share godoc
// @Summary Create a public link for a saved schedule
// @Tags Saved Schedules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Saved schedule ID"
// @Success 200 {object} response.Envelope
// @Router /saved-schedules/{id}/share [post]
func (h *SavedScheduleHandler) Share(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	share, err := h.service.Share(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, share, nil)
}

// Shared godoc
// @Summary Resolve a public share link
// @Tags Saved Schedules
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /shared/{token} [get]
func (h *SavedScheduleHandler) Shared(c *gin.Context) {
	detail, err := h.service.Shared(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

func requireOwner(c *gin.Context) (string, bool) {
	ownerID := middleware.Claims(c).OwnerID()
	if ownerID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return "", false
	}
	return ownerID, true
}
