package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompressRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Brotli(brotli.BestSpeed, 64))
	r.GET("/large", func(c *gin.Context) {
		c.String(http.StatusOK, strings.Repeat("Monday 10:00 Calculus\n", 20))
	})
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/pdf", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/pdf", []byte(strings.Repeat("%PDF", 40)))
	})
	return r
}

func get(r *gin.Engine, path, encoding string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if encoding != "" {
		req.Header.Set("Accept-Encoding", encoding)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBrotliCompressesLargeBodies(t *testing.T) {
	w := get(newCompressRouter(), "/large", "gzip, br")

	require.Equal(t, "br", w.Header().Get("Content-Encoding"))
	decoded, err := io.ReadAll(brotli.NewReader(w.Body))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("Monday 10:00 Calculus\n", 20), string(decoded))
}

func TestBrotliPassesThroughOtherwise(t *testing.T) {
	r := newCompressRouter()

	small := get(r, "/small", "br")
	assert.Empty(t, small.Header().Get("Content-Encoding"))
	assert.Equal(t, "ok", small.Body.String())

	pdf := get(r, "/pdf", "br")
	assert.Empty(t, pdf.Header().Get("Content-Encoding"))
	assert.Equal(t, strings.Repeat("%PDF", 40), pdf.Body.String())

	plain := get(r, "/large", "gzip")
	assert.Empty(t, plain.Header().Get("Content-Encoding"))

	refused := get(r, "/large", "br;q=0")
	assert.Empty(t, refused.Header().Get("Content-Encoding"))
}
