package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jedsaxon/misinfodetector/internal/cache"
	"github.com/jedsaxon/misinfodetector/internal/logger"
	"go.uber.org/zap"
)

const (
	// CacheHeader reports HIT or MISS for cacheable requests
	CacheHeader = "X-Cache"

	responseCacheName = "response_cache"
	cacheKeyPrefix    = "response:"
)

// ResponseCacheMiddleware caches successful GET responses in Redis for ttl.
// It is a pass-through when no Redis client is configured.
func ResponseCacheMiddleware(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		redisClient := cache.GetRedisClient()
		if redisClient == nil {
			c.Next()
			return
		}

		cacheKey := CacheKey(c.Request.URL.Path, c.Request.URL.Query().Encode())
		ctx := c.Request.Context()
		cacheControl := fmt.Sprintf("public, max-age=%d", int(ttl.Seconds()))

		startTime := time.Now()
		cachedData, err := redisClient.Get(ctx, cacheKey)
		RecordCacheOperation("GET", responseCacheName, time.Since(startTime))

		if err == nil {
			RecordCacheHit(responseCacheName)
			logger.DebugWithFields("Cache hit", zap.String("key", cacheKey))

			c.Header(CacheHeader, "HIT")
			c.Header("Cache-Control", cacheControl)
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cachedData))
			c.Abort()
			return
		}

		RecordCacheMiss(responseCacheName)

		writer := &cachedResponseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer
		// Headers are flushed on the first write, so they must be set before the handler runs
		c.Header(CacheHeader, "MISS")
		c.Header("Cache-Control", cacheControl)

		c.Next()

		status := writer.Status()
		if status < 200 || status >= 300 || writer.body.Len() == 0 {
			return
		}

		setStart := time.Now()
		if err := redisClient.SetEx(ctx, cacheKey, writer.body.String(), ttl); err != nil {
			logger.Log.Debug("Failed to write response to cache",
				zap.String("key", cacheKey),
				zap.Error(err),
			)
			return
		}
		RecordCacheOperation("SET", responseCacheName, time.Since(setStart))
	}
}

// CacheKey builds the Redis key for a request path and its encoded query
func CacheKey(path, query string) string {
	key := cacheKeyPrefix + path
	if query != "" {
		key += ":" + query
	}
	return key
}

// CachePattern matches every cached response under path
func CachePattern(path string) string {
	return cacheKeyPrefix + path + "*"
}

// cachedResponseWriter captures the response body for caching
type cachedResponseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *cachedResponseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *cachedResponseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheInvalidationMiddleware drops cached responses matching patterns after a
// successful POST, PUT or DELETE.
func CacheInvalidationMiddleware(patterns ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			return
		}

		if status := c.Writer.Status(); status < 200 || status >= 300 {
			return
		}

		redisClient := cache.GetRedisClient()
		if redisClient == nil {
			return
		}

		ctx := c.Request.Context()
		for _, pattern := range patterns {
			removed, err := redisClient.DeletePattern(ctx, pattern)
			if err != nil {
				logger.Log.Warn("Failed to invalidate cache",
					zap.String("pattern", pattern),
					zap.Error(err),
				)
				continue
			}
			if removed > 0 {
				RecordCacheEviction(responseCacheName, removed)
				logger.Log.Debug("Cache invalidated",
					zap.String("pattern", pattern),
					zap.Int64("keys", removed),
				)
			}
		}
	}
}
