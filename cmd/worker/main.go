package main

import (
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/estate-viewings/internal/config"
	"github.com/BruksfildServices01/estate-viewings/internal/logger"
	"github.com/BruksfildServices01/estate-viewings/internal/notify"
	"github.com/BruksfildServices01/estate-viewings/internal/storage"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg)
	defer func() { _ = log.Sync() }()

	// Invites are only attached when a bucket is configured.
	var uploader notify.Uploader
	if store := storage.NewS3Store(cfg); store != nil {
		uploader = store
	} else {
		log.Warn("S3_BUCKET not set, calendar invites will not be uploaded")
	}

	handler := notify.NewHandler(uploader, notify.NewWebhookMailer(cfg.EmailWebhookURL), log)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisQueueDB,
		},
		asynq.Config{
			Concurrency: cfg.WorkerConcurrency,
			Logger:      log.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	handler.Register(mux)

	log.Info("notification worker starting", zap.Int("concurrency", cfg.WorkerConcurrency))
	if err := srv.Run(mux); err != nil {
		log.Fatal("worker stopped", zap.Error(err))
	}
}
