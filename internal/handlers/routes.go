package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jedsaxon/misinfodetector/internal/middleware"
)

// RegisterRoutes mounts the API on r. Read endpoints are served through the
// response cache; post creation invalidates cached post pages and the distribution.
func (h *Handlers) RegisterRoutes(r *gin.Engine, cacheTTL time.Duration) {
	r.GET("/health", Health)

	api := r.Group("/api")

	invalidate := middleware.CacheInvalidationMiddleware(
		middleware.CachePattern("/api/posts"),
		middleware.CachePattern("/api/data/misinfo-distribution"),
	)
	cached := middleware.ResponseCacheMiddleware(cacheTTL)

	posts := api.Group("/posts")
	{
		posts.GET("", cached, h.ListPosts)
		posts.POST("", invalidate, h.CreatePost)
		posts.PUT("", invalidate, h.CreatePost)
		posts.GET("/:id", cached, h.GetPost)
	}

	data := api.Group("/data", cached)
	{
		data.GET("/tnse-embeddings", h.ListTNSEEmbeddings)
		data.GET("/topic-activities", h.ListTopicActivities)
		data.GET("/misinfo-distribution", h.MisinfoDistribution)
		data.GET("/topic-sunburst", h.TopicSunburst)
		data.GET("/tnse-series", h.TNSESeries)
	}
}
