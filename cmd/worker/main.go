package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/rohankapur/finetune-studio/internal/config"
	"github.com/rohankapur/finetune-studio/internal/database"
	"github.com/rohankapur/finetune-studio/internal/project"
	"github.com/rohankapur/finetune-studio/internal/queue"
	"github.com/rohankapur/finetune-studio/internal/queue/workers"
	"github.com/rohankapur/finetune-studio/internal/storage"
	"github.com/rohankapur/finetune-studio/internal/training"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPool(context.Background(), cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	store := storage.NewSupabaseStore(cfg.Storage.URL, cfg.Storage.Key, cfg.Storage.Bucket)

	registry := queue.NewHandlersRegistry()

	exportWorker := workers.NewExportWorker(training.NewService(db), project.NewService(db), store)
	registry.Register(queue.TypeSessionExport, asynq.HandlerFunc(exportWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
