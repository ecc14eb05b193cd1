package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
)

type ratingLookupStub struct {
	names []string
	err   error
}

func (s *ratingLookupStub) LookupRatings(ctx context.Context, names []string) ([]models.InstructorRating, error) {
	s.names = names
	if s.err != nil {
		return nil, s.err
	}
	return []models.InstructorRating{{FirstName: "Ada", LastName: "Lovelace", AvgRating: 4.5}}, nil
}

func TestCatalogHandlerCoreCodes(t *testing.T) {
	handler := &CatalogHandler{}
	c, w := newJSONContext(http.MethodGet, "/core-codes", "")

	handler.CoreCodes(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].([]any)
	require.NotEmpty(t, data)
	first := data[0].(map[string]any)
	assert.Equal(t, "AHo", first["code"])
	assert.Equal(t, "Arts and Humanities", first["description"])
}

func TestCatalogHandlerInstructorRatings(t *testing.T) {
	stub := &ratingLookupStub{}
	handler := &CatalogHandler{ratings: stub}

	c, w := newJSONContext(http.MethodGet, "/instructor-ratings?names=Lovelace,%20Ada%3B%20Hopper&name=Turing", "")
	handler.InstructorRatings(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Lovelace, Ada", "Hopper", "Turing"}, stub.names)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.Len(t, data["ratings"], 1)
}

func TestCatalogHandlerInstructorRatingsRejectsBadInput(t *testing.T) {
	handler := &CatalogHandler{ratings: &ratingLookupStub{}}

	c, w := newJSONContext(http.MethodGet, "/instructor-ratings?names=%20%3B%20", "")
	handler.InstructorRatings(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	many := strings.Repeat("Smith%3B", maxRatingLookupNames+1)
	c, w = newJSONContext(http.MethodGet, "/instructor-ratings?names="+many, "")
	handler.InstructorRatings(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	handler = &CatalogHandler{ratings: &ratingLookupStub{err: appErrors.ErrInternal}}
	c, w = newJSONContext(http.MethodGet, "/instructor-ratings?name=Hopper", "")
	handler.InstructorRatings(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
