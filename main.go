package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xpress-inn/feedback-api/config"
	"github.com/xpress-inn/feedback-api/db"
	"github.com/xpress-inn/feedback-api/handlers"
	"github.com/xpress-inn/feedback-api/logger"
	"github.com/xpress-inn/feedback-api/router"
	"github.com/xpress-inn/feedback-api/services"
	"github.com/xpress-inn/feedback-api/store/postgres"
)

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() {
		_ = logger.Close()
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// All shared handles (pool, redis, resend client, worker pool) are
	// created here, before the listener starts, so request handlers never
	// race on initialization.
	ctx := context.Background()

	pool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisOptions := &redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	if cfg.IsProduction() {
		redisOptions.TLSConfig = &tls.Config{
			ServerName: cfg.Redis.Address,
			MinVersion: tls.VersionTLS12,
		}
	}
	redisClient := redis.NewClient(redisOptions)
	defer func() {
		_ = redisClient.Close()
	}()

	emailService := services.NewEmailService(&cfg.Email)

	workerPool := services.NewWorkerPool(cfg.WorkerPool)
	workerPool.Start()

	feedbackStore := postgres.NewFeedbackStore(pool)
	feedbackService := services.NewFeedbackService(
		feedbackStore,
		emailService,
		workerPool,
		cfg.Email.BusinessAddress,
		time.Duration(cfg.Database.QueryTimeoutSeconds)*time.Second,
	)
	healthService := services.NewHealthService(pool, redisClient, cfg.Server.Version)
	rateLimitService := services.NewRateLimitService(redisClient)

	r := router.SetupRouter(router.Dependencies{
		Config:          cfg,
		FeedbackHandler: handlers.NewFeedbackHandler(feedbackService),
		HealthHandler:   handlers.NewHealthHandler(healthService),
		RateLimiter:     rateLimitService,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	// Stop accepting requests first, then drain queued notification jobs
	// so already-accepted submissions still get their emails.
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown failed", "error", err)
	}

	drainCtx, drainCancel := context.WithTimeout(ctx,
		time.Duration(cfg.WorkerPool.ShutdownTimeoutSeconds)*time.Second)
	defer drainCancel()
	if err := workerPool.Shutdown(drainCtx); err != nil {
		log.Warnw("Worker pool drain incomplete", "error", err)
	}

	log.Info("Server stopped")
}
