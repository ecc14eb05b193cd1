package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler-api/internal/handler"
	"github.com/noah-isme/course-scheduler-api/internal/service"
	"github.com/noah-isme/course-scheduler-api/pkg/config"
	"github.com/noah-isme/course-scheduler-api/pkg/storage"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api/v1"}
	metrics := service.NewMetricsService()
	generator := service.NewScheduleGeneratorService(nil, nil, nil, metrics, nil, nil, service.ScheduleGeneratorConfig{})
	saved := service.NewSavedScheduleService(nil, nil, generator, storage.NewShareTokenSigner("secret", 0), nil, nil)
	openSections := service.NewOpenSectionService(nil, nil, service.OpenSectionConfig{}, metrics, nil)

	return newRouter(cfg, zap.NewNop(), metrics, routes{
		schedules:    handler.NewScheduleGeneratorHandler(generator),
		saved:        handler.NewSavedScheduleHandler(saved),
		openSections: handler.NewOpenSectionHandler(openSections),
		catalog:      handler.NewCatalogHandler(service.NewRatingService(nil, metrics, nil)),
		metrics:      handler.NewMetricsHandler(metrics),
		tokens:       service.NewTokenVerifier("secret", ""),
	})
}

func TestRouterServesRoutes(t *testing.T) {
	router := newTestRouter(t)
	cases := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/ready", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/docs/index.html", "", http.StatusNotFound},
		{http.MethodPost, "/api/v1/schedules/generate", `{}`, http.StatusOK},
		{http.MethodPost, "/api/v1/preferences/redistribute", `{"values":[50,50],"index":0,"value":70}`, http.StatusOK},
		{http.MethodGet, "/api/v1/open-sections", "", http.StatusOK},
		{http.MethodGet, "/api/v1/core-codes", "", http.StatusOK},
		{http.MethodGet, "/api/v1/instructor-ratings?names=Hopper", "", http.StatusOK},
		{http.MethodGet, "/api/v1/instructor-ratings", "", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/saved-schedules", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/shared/not-a-token", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, "%s %s", tc.method, tc.path)
	}
}
