package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/estate-viewings/internal/audit"
	"github.com/BruksfildServices01/estate-viewings/internal/config"
	dbpkg "github.com/BruksfildServices01/estate-viewings/internal/db"
	"github.com/BruksfildServices01/estate-viewings/internal/logger"
	"github.com/BruksfildServices01/estate-viewings/internal/middleware"
	"github.com/BruksfildServices01/estate-viewings/internal/notify"
	"github.com/BruksfildServices01/estate-viewings/internal/routes"
	"github.com/BruksfildServices01/estate-viewings/internal/timezone"
	"github.com/BruksfildServices01/estate-viewings/internal/validators"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg)
	defer func() { _ = log.Sync() }()

	timezone.SetDefault(cfg.DefaultTimezone)
	if err := validators.Register(); err != nil {
		log.Fatal("failed to register validators", zap.Error(err))
	}

	db := dbpkg.NewDB(cfg, log)

	// ======================================================
	// REDIS / QUEUE
	// ======================================================
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisIdempotencyDB,
	})
	defer rdb.Close()

	queue := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	})
	defer queue.Close()

	auditDispatcher := audit.NewDispatcher(audit.New(db), log, 0)
	notifier := notify.NewDispatcher(queue, log, cfg.NotifyQueueSize)

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, routes.Deps{
		DB:          db,
		Config:      cfg,
		Log:         log,
		Audit:       auditDispatcher,
		Notifier:    notifier,
		Idempotency: middleware.NewRedisIdempotencyStore(rdb, cfg.IdempotencyTTL),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}

	// Drain after the server stops accepting bookings. Handlers still running
	// after a timed-out shutdown see closed dispatchers and drop their events.
	notifier.Close()
	auditDispatcher.Close()
}
