package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(origins ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(origins))
	r.GET("/open-sections", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func request(r *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/open-sections", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestConfigNormalisesOrigins(t *testing.T) {
	cfg := Config([]string{" https://Planner.example.edu/ ", ""})
	assert.Equal(t, []string{"https://planner.example.edu"}, cfg.AllowOrigins)
	assert.True(t, cfg.AllowCredentials)
	assert.False(t, cfg.AllowAllOrigins)

	open := Config(nil)
	assert.True(t, open.AllowAllOrigins)
	assert.False(t, open.AllowCredentials)
}

func TestAllowAnyOrigin(t *testing.T) {
	w := request(newRouter(), http.MethodGet, "https://planner.example.edu")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestListedOrigin(t *testing.T) {
	r := newRouter("https://planner.example.edu")

	w := request(r, http.MethodOptions, "https://planner.example.edu")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://planner.example.edu", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	assert.Equal(t, http.StatusForbidden, request(r, http.MethodGet, "https://evil.example.com").Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "").Code)
}
