package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/delivery/http/middleware"
	"github.com/codedaily/judge/internal/usecase"
)

// StreakHandler serves the caller's daily streak.
type StreakHandler struct {
	getStreakUC *usecase.GetStreakUsecase
	logger      *zap.Logger
}

// NewStreakHandler creates a new StreakHandler.
func NewStreakHandler(getStreakUC *usecase.GetStreakUsecase, logger *zap.Logger) *StreakHandler {
	return &StreakHandler{getStreakUC: getStreakUC, logger: logger}
}

// Get handles GET /api/v1/users/me/streak
func (h *StreakHandler) Get(c *gin.Context) {
	state, err := h.getStreakUC.Execute(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		writeError(c, h.logger, "Get streak", err)
		return
	}
	c.JSON(http.StatusOK, state)
}
