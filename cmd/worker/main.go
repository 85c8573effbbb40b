package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/config"
	amqpdelivery "github.com/codedaily/judge/internal/delivery/amqp"
	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/executor"
	"github.com/codedaily/judge/internal/poller"
	"github.com/codedaily/judge/internal/pool"
	"github.com/codedaily/judge/internal/repository/postgres"
	redisrepo "github.com/codedaily/judge/internal/repository/redis"
	"github.com/codedaily/judge/internal/usecase"
	"github.com/codedaily/judge/internal/verdict"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting judge worker")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to PostgreSQL
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
	redisOpts, err := goredis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("Invalid Redis URL", zap.Error(err))
	}
	redisClient := goredis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	// Initialize repositories
	problemRepo := postgres.NewPostgresProblemRepository(dbPool)
	submissionRepo := postgres.NewPostgresSubmissionRepository(dbPool)
	streakRepo := postgres.NewPostgresStreakRepository(dbPool)
	idempotencyStore := redisrepo.NewRedisIdempotencyStore(redisClient)
	snapshotStore := redisrepo.NewRedisSnapshotStore(redisClient, cfg.Judge.SnapshotTTL)

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
	submitUC := usecase.NewSubmitCodeUsecase(problemRepo, aggregator, recorder, logger)
	processUC := usecase.NewProcessJudgeJobUsecase(idempotencyStore, snapshotStore, submitUC, logger)

	// Create buffered job channel
	jobsChan := make(chan *domain.JudgeJobMessage, cfg.Worker.PoolSize*2)

	// Initialize AMQP consumer
	consumer, err := amqpdelivery.NewConsumer(cfg.RabbitMQ.URL, cfg.Worker.PoolSize, jobsChan, logger)
	if err != nil {
		logger.Fatal("Failed to initialize AMQP consumer", zap.Error(err))
	}
	defer consumer.Close()
	logger.Info("Connected to RabbitMQ")

	// Start worker pool
	workerPool := pool.NewWorkerPool(cfg.Worker.PoolSize, jobsChan, processUC, logger)
	workerPool.Start(ctx)

	// Start AMQP consumer in a goroutine
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error("AMQP consumer error", zap.Error(err))
			cancel()
		}
	}()

	// Start Prometheus metrics server
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Worker.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Metrics server listening", zap.String("addr", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()

	// Wait for workers to finish in-flight jobs
	workerPool.Stop()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	_ = metricsSrv.Shutdown(shutdownCtx)

	logger.Info("Worker stopped")
}
