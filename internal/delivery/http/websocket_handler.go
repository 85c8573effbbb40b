package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/delivery/http/middleware"
	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/format"
	"github.com/codedaily/judge/internal/usecase"
)

const streamInterval = 500 * time.Millisecond

// WebSocketHandler streams judge job snapshots until the job is final.
type WebSocketHandler struct {
	getJobUC *usecase.GetJudgeJobUsecase
	upgrader websocket.Upgrader
	interval time.Duration
	logger   *zap.Logger
}

// NewWebSocketHandler creates a new WebSocketHandler. Browser handshakes are
// accepted only from allowedOrigins; requests without an Origin header are
// not browser requests and always pass.
func NewWebSocketHandler(getJobUC *usecase.GetJudgeJobUsecase, allowedOrigins []string, logger *zap.Logger) *WebSocketHandler {
	originAllowed := middleware.OriginAllowed(allowedOrigins...)
	return &WebSocketHandler{
		getJobUC: getJobUC,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || originAllowed(origin)
			},
		},
		interval: streamInterval,
		logger:   logger,
	}
}

// Stream handles GET /api/v1/judge-jobs/:id/stream (WebSocket upgrade)
func (h *WebSocketHandler) Stream(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		badRequest(c, "Invalid job ID format")
		return
	}

	userID := c.GetString(middleware.UserIDKey)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Debug("WebSocket connection opened", zap.String("job_id", idStr))

	ctx := c.Request.Context()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	lastDone := -1
	for {
		res, err := h.getJobUC.Execute(ctx, id, userID)
		if err != nil {
			msg := "Internal server error"
			if errors.Is(err, domain.ErrJobNotFound) {
				msg = "Judge job not found"
			}
			_ = conn.WriteJSON(format.Error(msg))
			return
		}

		// Only push running snapshots that made progress.
		if res.IsFinal() || res.Done != lastDone {
			if err := conn.WriteJSON(res); err != nil {
				h.logger.Debug("WebSocket write failed (client disconnected)", zap.Error(err))
				return
			}
			lastDone = res.Done
		}

		if res.IsFinal() {
			h.logger.Debug("Judge job final, closing WebSocket", zap.String("job_id", idStr))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(res.Status)))
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
