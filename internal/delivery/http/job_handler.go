package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/delivery/http/middleware"
	"github.com/codedaily/judge/internal/usecase"
)

// JobHandler exposes the snapshots of asynchronous judge jobs.
type JobHandler struct {
	getJobUC *usecase.GetJudgeJobUsecase
	logger   *zap.Logger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(getJobUC *usecase.GetJudgeJobUsecase, logger *zap.Logger) *JobHandler {
	return &JobHandler{getJobUC: getJobUC, logger: logger}
}

// GetByID handles GET /api/v1/judge-jobs/:id
func (h *JobHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid job ID format")
		return
	}

	res, err := h.getJobUC.Execute(c.Request.Context(), id, c.GetString(middleware.UserIDKey))
	if err != nil {
		writeError(c, h.logger, "Get judge job", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
