/**
 * ocrbench-worker - queued benchmark runs
 *
 * Consumes benchmark run tasks from the Redis-backed queue and executes
 * them with the same composition as the one-shot CLI. Concurrency defaults
 * to one run at a time so that heavyweight engines from different runs
 * never hold resources simultaneously.
 */

package main

import (
	"context"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/adverant/nexus/ocrbench-worker/internal/config"
	"github.com/adverant/nexus/ocrbench-worker/internal/logging"
	"github.com/adverant/nexus/ocrbench-worker/internal/queue"
	"github.com/adverant/nexus/ocrbench-worker/internal/run"
)

func main() {
	logger := logging.NewLogger("ocrbench-worker")

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.RedisURL == "" {
		logger.Error("REDIS_URL is required for worker mode")
		os.Exit(1)
	}

	srv, err := queue.NewServer(cfg.RedisURL, cfg.QueueName, cfg.WorkerConcurrency)
	if err != nil {
		logger.Error("Failed to initialize queue server", "error", err)
		os.Exit(1)
	}

	handler := queue.NewHandler(func(ctx context.Context, payload queue.RunPayload) error {
		file, err := config.LoadBenchmarkFile(cfg.ConfigPath)
		if err != nil {
			return err
		}

		_, err = run.Execute(ctx, cfg, file, run.Overrides{
			PDFPath:         payload.PDFPath,
			PagesDir:        payload.PagesDir,
			GroundTruthPath: payload.GroundTruthPath,
			OutDir:          payload.OutDir,
			DPI:             payload.DPI,
		}, logger)
		return err
	}, logger)

	mux := asynq.NewServeMux()
	mux.Handle(queue.TypeBenchmarkRun, handler)

	logger.Info("Worker ready",
		"queue", cfg.QueueName,
		"concurrency", cfg.WorkerConcurrency)

	if err := srv.Run(mux); err != nil {
		logger.Error("Queue server stopped", "error", err)
		os.Exit(1)
	}
}
