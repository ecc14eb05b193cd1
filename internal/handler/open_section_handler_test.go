package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
	"github.com/noah-isme/course-scheduler-api/internal/service"
)

type openSectionOracleStub struct {
	asOf time.Time
}

func (s openSectionOracleStub) Status() dto.OpenSectionsStatus {
	return dto.OpenSectionsStatus{AsOf: &s.asOf, Count: 2, Source: "feed"}
}

func (s openSectionOracleStub) Lookup(sectionID string) dto.OpenSectionLookup {
	return dto.OpenSectionLookup{SectionID: sectionID, Open: sectionID == "09876", AsOf: &s.asOf}
}

func TestOpenSectionHandlerStatus(t *testing.T) {
	handler := &OpenSectionHandler{service: openSectionOracleStub{asOf: time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)}}
	c, w := newJSONContext(http.MethodGet, "/open-sections", "")

	handler.Status(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(2), data["count"])
	assert.Equal(t, "2025-09-01T08:00:00Z", data["asOf"])
}

func TestOpenSectionHandlerLookup(t *testing.T) {
	handler := &OpenSectionHandler{service: openSectionOracleStub{}}

	c, w := newJSONContext(http.MethodGet, "/open-sections/09876", "")
	c.Params = gin.Params{{Key: "id", Value: "09876"}}
	handler.Lookup(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeEnvelope(t, w)["data"].(map[string]any)["open"])

	c, w = newJSONContext(http.MethodGet, "/open-sections/", "")
	c.Params = gin.Params{{Key: "id", Value: " "}}
	handler.Lookup(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsHandlerReady(t *testing.T) {
	healthy := NewMetricsHandler(nil, ReadinessCheck{Name: "postgres", Check: func(ctx context.Context) error { return nil }})
	c, w := newJSONContext(http.MethodGet, "/ready", "")
	healthy.Ready(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"postgres":"ok"`)

	failing := NewMetricsHandler(nil,
		ReadinessCheck{Name: "postgres", Check: func(ctx context.Context) error { return nil }},
		ReadinessCheck{Name: "redis", Check: func(ctx context.Context) error { return errors.New("connection refused") }},
	)
	c, w = newJSONContext(http.MethodGet, "/ready", "")
	failing.Ready(c)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"connection refused"`)
}

func TestMetricsHandlerSummary(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.ObserveGeneration(service.GenerationOutcomeOK, 3, 40*time.Millisecond)
	handler := NewMetricsHandler(metrics)
	c, w := newJSONContext(http.MethodGet, "/metrics/summary", "")

	handler.Summary(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeEnvelope(t, w), "data")

	c, _ = newJSONContext(http.MethodGet, "/metrics/summary", "")
	NewMetricsHandler(nil).Summary(c)
	assert.Equal(t, http.StatusServiceUnavailable, c.Writer.Status())
}
