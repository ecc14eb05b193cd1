package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
	"github.com/noah-isme/course-scheduler-api/internal/middleware"
	"github.com/noah-isme/course-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
)

type savedScheduleServiceMock struct {
	owner   string
	saved   dto.SaveScheduleRequest
	query   dto.SavedScheduleQuery
	deleted string
}

func (m *savedScheduleServiceMock) Save(ctx context.Context, ownerID string, req dto.SaveScheduleRequest) (*dto.SavedScheduleDetail, error) {
	m.owner, m.saved = ownerID, req
	return &dto.SavedScheduleDetail{ID: "sched-1", Name: req.Name}, nil
}

func (m *savedScheduleServiceMock) List(ctx context.Context, ownerID string, query dto.SavedScheduleQuery) ([]dto.SavedScheduleDetail, *models.Pagination, error) {
	m.owner, m.query = ownerID, query
	return []dto.SavedScheduleDetail{{ID: "sched-1"}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

func (m *savedScheduleServiceMock) Get(ctx context.Context, ownerID, id string) (*dto.SavedScheduleDetail, error) {
	if id != "sched-1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "saved schedule not found")
	}
	return &dto.SavedScheduleDetail{ID: id}, nil
}

func (m *savedScheduleServiceMock) Delete(ctx context.Context, ownerID, id string) error {
	m.deleted = id
	return nil
}

func (m *savedScheduleServiceMock) Share(ctx context.Context, ownerID, id string) (*dto.ShareScheduleResponse, error) {
	return &dto.ShareScheduleResponse{Token: "tok", Path: "/shared/tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (m *savedScheduleServiceMock) Shared(ctx context.Context, token string) (*dto.SavedScheduleDetail, error) {
	if token == "expired" {
		return nil, appErrors.Clone(appErrors.ErrGone, "share link expired")
	}
	return &dto.SavedScheduleDetail{ID: "sched-1", IsPublic: true}, nil
}

type fixedValidator struct{}

func (fixedValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "student-token" {
		return nil, appErrors.ErrUnauthorized
	}
	return &models.JWTClaims{UserID: "student-1"}, nil
}

func newSavedScheduleRouter(mock *savedScheduleServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := &SavedScheduleHandler{service: mock}
	router := gin.New()
	secured := router.Group("/saved-schedules", middleware.JWT(fixedValidator{}))
	secured.GET("", handler.List)
	secured.POST("", handler.Save)
	secured.GET("/:id", handler.Get)
	secured.DELETE("/:id", handler.Delete)
	secured.POST("/:id/share", handler.Share)
	router.GET("/shared/:token", handler.Shared)
	return router
}

func perform(router *gin.Engine, method, target, body string, authorized bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer student-token")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSavedScheduleHandlerRequiresToken(t *testing.T) {
	router := newSavedScheduleRouter(&savedScheduleServiceMock{})

	w := perform(router, http.MethodGet, "/saved-schedules", "", false)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSavedScheduleHandlerSave(t *testing.T) {
	mock := &savedScheduleServiceMock{}
	router := newSavedScheduleRouter(mock)

	w := perform(router, http.MethodPost, "/saved-schedules", `{"name":"Fall plan","proposalId":"p-1","rank":2}`, true)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "student-1", mock.owner)
	assert.Equal(t, "p-1", mock.saved.ProposalID)
	assert.Equal(t, 2, mock.saved.Rank)

	w = perform(router, http.MethodPost, "/saved-schedules", `{"name":`, true)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSavedScheduleHandlerList(t *testing.T) {
	mock := &savedScheduleServiceMock{}
	router := newSavedScheduleRouter(mock)

	w := perform(router, http.MethodGet, "/saved-schedules?semester=2025-fall&page=2&pageSize=5", "", true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.SavedScheduleQuery{Semester: "2025-fall", Page: 2, PageSize: 5}, mock.query)
	assert.Contains(t, w.Body.String(), `"total_count":1`)
}

func TestSavedScheduleHandlerGetDeleteShare(t *testing.T) {
	mock := &savedScheduleServiceMock{}
	router := newSavedScheduleRouter(mock)

	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/saved-schedules/sched-1", "", true).Code)
	assert.Equal(t, http.StatusNotFound, perform(router, http.MethodGet, "/saved-schedules/other", "", true).Code)

	w := perform(router, http.MethodDelete, "/saved-schedules/sched-1", "", true)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "sched-1", mock.deleted)

	w = perform(router, http.MethodPost, "/saved-schedules/sched-1/share", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/shared/tok"`)
}

func TestSavedScheduleHandlerShared(t *testing.T) {
	router := newSavedScheduleRouter(&savedScheduleServiceMock{})

	w := perform(router, http.MethodGet, "/shared/abc", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isPublic":true`)

	w = perform(router, http.MethodGet, "/shared/expired", "", false)
	require.Equal(t, http.StatusGone, w.Code)
}
