package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
	"github.com/noah-isme/course-scheduler-api/internal/service"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
	"github.com/noah-isme/course-scheduler-api/pkg/response"
)

type openSectionOracle interface {
	Status() dto.OpenSectionsStatus
	Lookup(sectionID string) dto.OpenSectionLookup
}

// OpenSectionHandler reports registrar availability.
type OpenSectionHandler struct {
	service openSectionOracle
}

// NewOpenSectionHandler constructs the handler.
func NewOpenSectionHandler(svc *service.OpenSectionService) *OpenSectionHandler {
	return &OpenSectionHandler{service: svc}
}

// Status godoc
// @Summary Open-section snapshot metadata
// @Tags Open Sections
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /open-sections [get]
func (h *OpenSectionHandler) Status(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Status(), nil)
}

// Lookup godoc
// @Summary Whether one section is open
// @Tags Open Sections
// @Produce json
// @Param id path string true "Section index, e.g. 09876 or 09876-01"
// @Success 200 {object} response.Envelope
// @Router /open-sections/{id} [get]
func (h *OpenSectionHandler) Lookup(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "section id is required"))
		return
	}
	response.JSON(c, http.StatusOK, h.service.Lookup(id), nil)
}
