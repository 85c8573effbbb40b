package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/domain"
)

// writeError maps a use case error onto the HTTP status and error body.
func writeError(c *gin.Context, logger *zap.Logger, op string, err error) {
	status, message := http.StatusInternalServerError, "Internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidLanguage),
		errors.Is(err, domain.ErrEmptySourceCode),
		errors.Is(err, domain.ErrInvalidFilter):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrPayloadTooLarge):
		status, message = http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, domain.ErrMissingUser):
		status, message = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, domain.ErrProblemNotFound):
		status, message = http.StatusNotFound, "Problem not found"
	case errors.Is(err, domain.ErrJobNotFound):
		status, message = http.StatusNotFound, "Judge job not found"
	case errors.Is(err, domain.ErrPersistenceFailure):
		status, message = http.StatusInternalServerError, domain.ErrPersistenceFailure.Error()
	case errors.Is(err, domain.ErrPublishFailed):
		status, message = http.StatusServiceUnavailable, "Service temporarily unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		status, message = http.StatusGatewayTimeout, "Judging timed out"
	case errors.Is(err, context.Canceled):
		// The client went away; nobody reads the body.
		status, message = 499, "Request cancelled"
	}

	if status >= http.StatusInternalServerError {
		logger.Error(op+" failed", zap.Error(err))
	} else {
		logger.Debug(op+" rejected", zap.Int("status", status), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{
		"status":  "error",
		"message": message,
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"message": message,
	})
}
