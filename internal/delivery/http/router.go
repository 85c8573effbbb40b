package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/delivery/http/middleware"
	"github.com/codedaily/judge/internal/usecase"
)

// maxBodyBytes leaves room for JSON escaping around a 1 MiB source file.
const maxBodyBytes = 2 << 20

// RouterDeps carries the use cases and settings the router is built from.
// Enqueue and GetJob may be nil when the asynchronous path is disabled.
type RouterDeps struct {
	Run             *usecase.RunCodeUsecase
	Submit          *usecase.SubmitCodeUsecase
	Enqueue         *usecase.EnqueueJudgeJobUsecase
	GetJob          *usecase.GetJudgeJobUsecase
	ListSubmissions *usecase.ListSubmissionsUsecase
	GetStreak       *usecase.GetStreakUsecase
	HealthChecks    map[string]Pinger
	Logger          *zap.Logger
	RateLimitPerMin int
	AllowedOrigins  []string
}

// NewRouter creates and configures the Gin router with all routes and middleware.
func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(deps.AllowedOrigins...))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Identity())

	// Metrics endpoint (no rate limiting)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		healthHandler := NewHealthHandler(deps.HealthChecks, logger)
		v1.GET("/health", healthHandler.Health)

		langHandler := NewLanguageHandler()
		v1.GET("/languages", langHandler.List)

		// Judging (rate limited)
		judgeHandler := NewJudgeHandler(deps.Run, deps.Submit, deps.Enqueue, logger)
		judge := v1.Group("/problems/:id",
			middleware.RateLimiter(deps.RateLimitPerMin),
			middleware.BodySizeLimit(maxBodyBytes),
		)
		judge.POST("/run", middleware.RequireUser(), judgeHandler.Run)
		judge.POST("/submissions", middleware.RequireUser(), judgeHandler.Submit)

		// Caller-scoped reads
		me := v1.Group("", middleware.RequireUser())
		subHandler := NewSubmissionHandler(deps.ListSubmissions, logger)
		me.GET("/submissions", subHandler.List)
		streakHandler := NewStreakHandler(deps.GetStreak, logger)
		me.GET("/users/me/streak", streakHandler.Get)

		if deps.GetJob != nil {
			jobHandler := NewJobHandler(deps.GetJob, logger)
			me.GET("/judge-jobs/:id", jobHandler.GetByID)

			// WebSocket for real-time updates
			wsHandler := NewWebSocketHandler(deps.GetJob, deps.AllowedOrigins, logger)
			me.GET("/judge-jobs/:id/stream", wsHandler.Stream)
		}
	}

	return router
}
