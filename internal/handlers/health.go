package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jedsaxon/misinfodetector/internal/cache"
	"github.com/jedsaxon/misinfodetector/internal/database"
	"github.com/jedsaxon/misinfodetector/internal/errors"
	"github.com/jedsaxon/misinfodetector/internal/logger"
)

// Health reports database and cache connectivity
// GET /health
func Health(c *gin.Context) {
	var unavailable *errors.APIError
	checks := gin.H{"database": "ok"}

	if err := database.Health(); err != nil {
		logger.WarnWithFields("Health check: database unavailable", err)
		unavailable = errors.ServiceUnavailable("database")
		checks["database"] = "unavailable"
	}

	if rc := cache.GetRedisClient(); rc != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := rc.Ping(ctx); err != nil {
			logger.WarnWithFields("Health check: redis unavailable", err)
			checks["cache"] = "unavailable"
		} else {
			checks["cache"] = "ok"
		}
	} else {
		checks["cache"] = "disabled"
	}

	body := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "misinfodetector-api",
		"checks":    checks,
	}
	if unavailable != nil {
		body["status"] = "unhealthy"
		body["error"] = unavailable
		c.JSON(unavailable.Status, body)
		return
	}
	c.JSON(http.StatusOK, body)
}
