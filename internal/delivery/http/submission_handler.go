package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/delivery/http/middleware"
	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/usecase"
)

// SubmissionHandler serves the caller's submission history.
type SubmissionHandler struct {
	listUC *usecase.ListSubmissionsUsecase
	logger *zap.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(listUC *usecase.ListSubmissionsUsecase, logger *zap.Logger) *SubmissionHandler {
	return &SubmissionHandler{listUC: listUC, logger: logger}
}

// List handles GET /api/v1/submissions?page&limit&problemId&result
func (h *SubmissionHandler) List(c *gin.Context) {
	page, err := queryInt(c, "page")
	if err != nil {
		badRequest(c, "Invalid page")
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		badRequest(c, "Invalid limit")
		return
	}

	filter := domain.SubmissionFilter{
		UserID:    c.GetString(middleware.UserIDKey),
		ProblemID: c.Query("problemId"),
		Result:    domain.SubmissionResult(strings.ToUpper(c.Query("result"))),
		Page:      page,
		Limit:     limit,
	}

	result, err := h.listUC.Execute(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, "List submissions", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// queryInt returns zero for an absent parameter.
func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
