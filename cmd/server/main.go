package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/config"
	handler "github.com/codedaily/judge/internal/delivery/http"
	"github.com/codedaily/judge/internal/executor"
	"github.com/codedaily/judge/internal/poller"
	"github.com/codedaily/judge/internal/publisher"
	"github.com/codedaily/judge/internal/repository/postgres"
	redisrepo "github.com/codedaily/judge/internal/repository/redis"
	"github.com/codedaily/judge/internal/usecase"
	"github.com/codedaily/judge/internal/verdict"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting judge API server")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	gin.SetMode(cfg.Server.GinMode)

	// Connect to PostgreSQL
	ctx := context.Background()
	dbPool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping PostgreSQL", zap.Error(err))
	}
	if err := postgres.Migrate(ctx, dbPool); err != nil {
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}
	logger.Info("Connected to PostgreSQL")

	// Connect to Redis
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("Failed to parse Redis URL", zap.Error(err))
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to ping Redis", zap.Error(err))
	}
	logger.Info("Connected to Redis")

	// Initialize RabbitMQ publisher
	pub, err := publisher.NewRabbitMQPublisher(cfg.RabbitMQ.URL, logger)
	if err != nil {
		logger.Fatal("Failed to initialize RabbitMQ publisher", zap.Error(err))
	}
	defer pub.Close()
	logger.Info("Connected to RabbitMQ")

	// Initialize repositories
	problemRepo := postgres.NewPostgresProblemRepository(dbPool)
	submissionRepo := postgres.NewPostgresSubmissionRepository(dbPool)
	streakRepo := postgres.NewPostgresStreakRepository(dbPool)
	snapshotStore := redisrepo.NewRedisSnapshotStore(rdb, cfg.Judge.SnapshotTTL)

	// Judge pipeline
	judge0 := executor.NewJudge0Client(executor.Options{
		BaseURL: cfg.Judge0.URL,
		APIKey:  cfg.Judge0.APIKey,
		APIHost: cfg.Judge0.APIHost,
		Timeout: cfg.Judge0.HTTPTimeout,
	}, logger)
	resultPoller := poller.New(judge0, cfg.Judge.PollMaxAttempts, cfg.Judge.PollInterval, logger)
	aggregator := verdict.NewAggregator(judge0, resultPoller, logger,
		verdict.WithConcurrency(cfg.Judge.TestCaseConcurrency))

	// Initialize use cases
	recorder := usecase.NewRecordSubmissionUsecase(submissionRepo, streakRepo, logger)

	router := handler.NewRouter(handler.RouterDeps{
		Run:             usecase.NewRunCodeUsecase(problemRepo, aggregator, cfg.Judge.RunSampleLimit, logger),
		Submit:          usecase.NewSubmitCodeUsecase(problemRepo, aggregator, recorder, logger),
		Enqueue:         usecase.NewEnqueueJudgeJobUsecase(problemRepo, pub, snapshotStore, logger),
		GetJob:          usecase.NewGetJudgeJobUsecase(snapshotStore),
		ListSubmissions: usecase.NewListSubmissionsUsecase(submissionRepo, logger),
		GetStreak:       usecase.NewGetStreakUsecase(streakRepo),
		HealthChecks: map[string]handler.Pinger{
			"postgres": dbPool.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Logger:          logger,
		RateLimitPerMin: cfg.Server.RateLimit,
		AllowedOrigins:  cfg.Server.CORSOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("API server listening",
			zap.Int("port", cfg.Server.Port),
			zap.Duration("worst_case_single_case_judge", cfg.WorstCaseJudgeTime(1)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("API server stopped")
}
