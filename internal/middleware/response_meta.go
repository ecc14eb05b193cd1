package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// CacheStatusHeader reports whether a generation response was served from the cache.
const CacheStatusHeader = "X-Cache"

const (
	responseMetaKey = "response_meta"
	cacheHitKey     = "cache_hit"
	processingKey   = "processing_time_ms"
)

// ResponseMeta is the "meta" object attached to JSON envelopes.
type ResponseMeta map[string]interface{}

// WithResponseMeta opens a meta map for the request and stamps its processing time once the
// handler chain returns. Handlers that render before that point read the map by reference.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		meta := ResponseMeta{}
		c.Set(responseMetaKey, meta)
		c.Next()
		if _, ok := meta[processingKey]; !ok {
			meta[processingKey] = time.Since(start).Milliseconds()
		}
	}
}

// SetCacheHit records the cache outcome in the meta map and the X-Cache header.
func SetCacheHit(c *gin.Context, hit bool) {
	metaFor(c)[cacheHitKey] = hit
	if hit {
		c.Header(CacheStatusHeader, "HIT")
		return
	}
	c.Header(CacheStatusHeader, "MISS")
}

// ExtractMeta returns the meta map for the request, or nil outside WithResponseMeta.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	value, ok := c.Get(responseMetaKey)
	if !ok {
		return nil
	}
	meta, _ := value.(ResponseMeta)
	return meta
}

func metaFor(c *gin.Context) ResponseMeta {
	if meta := ExtractMeta(c); meta != nil {
		return meta
	}
	meta := ResponseMeta{}
	c.Set(responseMetaKey, meta)
	return meta
}
