package middleware

import (
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

const defaultCompressMinLength = 1024

// incompressible content types are passed through; they are compressed already.
var incompressible = []string{"application/pdf", "image/", "application/zip"}

type brotliWriter struct {
	gin.ResponseWriter
	encoder   *brotli.Writer
	buf       []byte
	minLength int
	started   bool
	bypass    bool
}

func (w *brotliWriter) Write(data []byte) (int, error) {
	switch {
	case w.bypass:
		return w.ResponseWriter.Write(data)
	case w.started:
		return w.encoder.Write(data)
	}
	w.buf = append(w.buf, data...)
	if len(w.buf) < w.minLength {
		return len(data), nil
	}
	if isIncompressible(w.Header().Get("Content-Type")) {
		w.bypass = true
	} else {
		w.started = true
		w.Header().Set("Content-Encoding", "br")
		w.Header().Del("Content-Length")
	}
	if err := w.drain(); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (w *brotliWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Flush drains pending bytes so streamed responses are not held back.
func (w *brotliWriter) Flush() {
	if !w.started && len(w.buf) > 0 {
		w.bypass = true
	}
	_ = w.drain()
	if w.started {
		_ = w.encoder.Flush()
	}
	w.ResponseWriter.Flush()
}

func (w *brotliWriter) drain() error {
	if len(w.buf) == 0 {
		return nil
	}
	var err error
	if w.started {
		_, err = w.encoder.Write(w.buf)
	} else {
		_, err = w.ResponseWriter.Write(w.buf)
	}
	w.buf = w.buf[:0]
	return err
}

func (w *brotliWriter) finish() error {
	if w.started {
		if err := w.drain(); err != nil {
			return err
		}
		return w.encoder.Close()
	}
	return w.drain()
}

// Brotli compresses responses of at least minLength bytes for clients that accept "br".
// Smaller bodies are written as-is. A non-positive minLength uses 1 KiB.
func Brotli(quality, minLength int) gin.HandlerFunc {
	if quality < brotli.BestSpeed || quality > brotli.BestCompression {
		quality = brotli.DefaultCompression
	}
	if minLength <= 0 {
		minLength = defaultCompressMinLength
	}
	return func(c *gin.Context) {
		if !acceptsBrotli(c.GetHeader("Accept-Encoding")) {
			c.Next()
			return
		}
		c.Header("Vary", "Accept-Encoding")

		w := &brotliWriter{
			ResponseWriter: c.Writer,
			encoder:        brotli.NewWriterLevel(c.Writer, quality),
			minLength:      minLength,
		}
		c.Writer = w
		defer func() {
			if err := w.finish(); err != nil {
				_ = c.Error(err)
			}
			c.Writer = w.ResponseWriter
		}()
		c.Next()
	}
}

func acceptsBrotli(header string) bool {
	for _, part := range strings.Split(header, ",") {
		encoding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(encoding), "br") {
			continue
		}
		return strings.ReplaceAll(strings.TrimSpace(params), " ", "") != "q=0"
	}
	return false
}

func isIncompressible(contentType string) bool {
	for _, prefix := range incompressible {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}
