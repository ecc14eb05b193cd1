package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/internal/scheduler"
	"github.com/noah-isme/course-scheduler-api/internal/service"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
	"github.com/noah-isme/course-scheduler-api/pkg/response"
)

// maxRatingLookupNames bounds one instructor-ratings request.
const maxRatingLookupNames = 50

type ratingLookup interface {
	LookupRatings(ctx context.Context, names []string) ([]models.InstructorRating, error)
}

// CatalogHandler serves reference data the schedule builder needs: core codes and instructor ratings.
type CatalogHandler struct {
	ratings ratingLookup
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(ratings *service.RatingService) *CatalogHandler {
	return &CatalogHandler{ratings: ratings}
}

// CoreCodes godoc
// @Summary Known core requirement codes
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /core-codes [get]
func (h *CatalogHandler) CoreCodes(c *gin.Context) {
	codes := scheduler.SortedCoreCodes()
	out := make([]dto.CoreCodeSummary, 0, len(codes))
	for _, code := range codes {
		out = append(out, dto.CoreCodeSummary{Code: code, Description: scheduler.CoreCodes[code]})
	}
	response.JSON(c, http.StatusOK, out, nil)
}

// InstructorRatings godoc
// @Summary Ratings for catalog instructor names
// @Tags Catalog
// @Produce json
// @Param names query string false "Instructor list as printed in the catalog, separated by ';' (URL-encoded as %3B)"
// @Param name query []string false "One instructor name, repeatable"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /instructor-ratings [get]
func (h *CatalogHandler) InstructorRatings(c *gin.Context) {
	names := service.SplitInstructorList(c.Query("names"))
	for _, raw := range c.QueryArray("name") {
		names = append(names, service.SplitInstructorList(raw)...)
	}
	if len(names) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "at least one instructor name is required"))
		return
	}
	if len(names) > maxRatingLookupNames {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d instructor names per request", maxRatingLookupNames)))
		return
	}

	ratings, err := h.ratings.LookupRatings(c.Request.Context(), names)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.InstructorRatingsResponse{Names: names, Ratings: ratings}, nil)
}
