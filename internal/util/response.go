package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jedsaxon/misinfodetector/internal/errors"
	"github.com/jedsaxon/misinfodetector/internal/logger"
	"github.com/jedsaxon/misinfodetector/internal/metrics"
	"go.uber.org/zap"
)

// RespondWithAPIError logs apiErr and writes it as the response body
func RespondWithAPIError(c *gin.Context, apiErr *errors.APIError) {
	fields := []zap.Field{
		zap.String("code", string(apiErr.Code)),
		zap.String("title", apiErr.Title),
		zap.String("description", apiErr.Description),
		zap.String("field", apiErr.Field),
		logger.WithStatus(apiErr.Status),
		zap.String("path", c.Request.URL.Path),
	}

	if apiErr.Status >= http.StatusInternalServerError {
		logger.Log.Error("API error", fields...)
	} else if apiErr.Status >= http.StatusBadRequest {
		logger.Log.Warn("API error", fields...)
	}

	endpoint := c.FullPath()
	if endpoint == "" {
		endpoint = c.Request.URL.Path
	}
	metrics.Get().ErrorsTotal.WithLabelValues(string(apiErr.Code), endpoint).Inc()

	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}

// RespondNotFound sends a 404 Not Found response
func RespondNotFound(c *gin.Context, resource string) {
	RespondWithAPIError(c, errors.NotFound(resource))
}

// RespondBadRequest sends a 400 Bad Request response
func RespondBadRequest(c *gin.Context, title, description string) {
	RespondWithAPIError(c, errors.BadRequest(title, description))
}

// RespondValidationError sends a 400 response naming the offending field
func RespondValidationError(c *gin.Context, field, description string) {
	RespondWithAPIError(c, errors.ValidationError(field, description))
}

// RespondInternalError sends a 500 Internal Server Error response
func RespondInternalError(c *gin.Context, description string) {
	RespondWithAPIError(c, errors.InternalError(description))
}
