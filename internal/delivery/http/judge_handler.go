package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/delivery/http/middleware"
	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/usecase"
)

// JudgeHandler serves the run and submit actions of a problem.
type JudgeHandler struct {
	runUC     *usecase.RunCodeUsecase
	submitUC  *usecase.SubmitCodeUsecase
	enqueueUC *usecase.EnqueueJudgeJobUsecase
	logger    *zap.Logger
}

// NewJudgeHandler creates a new JudgeHandler. enqueueUC may be nil, in which
// case asynchronous submits are refused.
func NewJudgeHandler(runUC *usecase.RunCodeUsecase, submitUC *usecase.SubmitCodeUsecase, enqueueUC *usecase.EnqueueJudgeJobUsecase, logger *zap.Logger) *JudgeHandler {
	return &JudgeHandler{
		runUC:     runUC,
		submitUC:  submitUC,
		enqueueUC: enqueueUC,
		logger:    logger,
	}
}

// Run handles POST /api/v1/problems/:id/run
func (h *JudgeHandler) Run(c *gin.Context) {
	var req domain.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.UserID = c.GetString(middleware.UserIDKey)
	req.ProblemID = c.Param("id")

	res, err := h.runUC.Execute(c.Request.Context(), &req)
	if err != nil {
		writeError(c, h.logger, "Run", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Submit handles POST /api/v1/problems/:id/submissions
//
// With ?async=true the job is queued and 202 is returned with the job id;
// otherwise the request blocks until the verdict is recorded.
func (h *JudgeHandler) Submit(c *gin.Context) {
	var req domain.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.UserID = c.GetString(middleware.UserIDKey)
	req.ProblemID = c.Param("id")

	async, err := strconv.ParseBool(c.DefaultQuery("async", "false"))
	if err != nil {
		badRequest(c, "Invalid async flag")
		return
	}

	if async {
		if h.enqueueUC == nil {
			writeError(c, h.logger, "Enqueue", domain.ErrPublishFailed)
			return
		}
		resp, err := h.enqueueUC.Execute(c.Request.Context(), &req)
		if err != nil {
			writeError(c, h.logger, "Enqueue", err)
			return
		}
		c.JSON(http.StatusAccepted, resp)
		return
	}

	res, err := h.submitUC.Execute(c.Request.Context(), &req)
	if err != nil {
		writeError(c, h.logger, "Submit", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
