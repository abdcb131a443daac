package util

import (
	"context"
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"github.com/jedsaxon/misinfodetector/internal/errors"
	"github.com/jedsaxon/misinfodetector/internal/logger"
	"github.com/jedsaxon/misinfodetector/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HandleDBError maps a repository error onto an HTTP response.
// It returns true when a response was sent.
func HandleDBError(c *gin.Context, err error, resourceName string) bool {
	if err == nil {
		return false
	}

	switch {
	case stderrors.Is(err, repository.ErrPostNotFound), stderrors.Is(err, gorm.ErrRecordNotFound):
		RespondNotFound(c, resourceName)
	case stderrors.Is(err, context.DeadlineExceeded):
		RespondWithAPIError(c, errors.Timeout("Fetching "+resourceName))
	default:
		logger.Log.Error("Database error", zap.String("resource", resourceName), zap.Error(err))
		RespondInternalError(c, "Failed to fetch "+resourceName)
	}
	return true
}
