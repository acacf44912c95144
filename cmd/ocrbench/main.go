/**
 * ocrbench - OCR benchmark CLI
 *
 * One-shot entry point: rasterizes (or reuses) the page set, runs every
 * enabled engine over every page and writes summary.csv / summary.json.
 * With -enqueue the run is submitted to the Redis-backed queue instead and
 * executed by ocrbench-worker.
 */

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/adverant/nexus/ocrbench-worker/internal/config"
	"github.com/adverant/nexus/ocrbench-worker/internal/logging"
	"github.com/adverant/nexus/ocrbench-worker/internal/queue"
	"github.com/adverant/nexus/ocrbench-worker/internal/run"
)

func main() {
	logger := logging.NewLogger("ocrbench")

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var (
		configPath = flag.String("config", cfg.ConfigPath, "path to the benchmark config.json")
		pdfPath    = flag.String("pdf", "", "input PDF (overrides config default)")
		pagesDir   = flag.String("pages", "", "pre-rasterized page image directory (overrides config default)")
		gtPath     = flag.String("gt", "", "ground truth source: JSON file, text file or directory (overrides config default)")
		outDir     = flag.String("out_dir", "", "output directory (overrides config default)")
		dpi        = flag.Int("dpi", 0, "rasterization DPI (overrides config default)")
		enqueue    = flag.Bool("enqueue", false, "submit the run to the queue instead of executing it")
	)
	flag.Parse()

	file, err := config.LoadBenchmarkFile(*configPath)
	if err != nil {
		logger.Error("Failed to load benchmark configuration", "path", *configPath, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *enqueue {
		enqueueRun(ctx, cfg, queue.RunPayload{
			PDFPath:         *pdfPath,
			PagesDir:        *pagesDir,
			GroundTruthPath: *gtPath,
			OutDir:          *outDir,
			DPI:             *dpi,
		}, logger)
		return
	}

	result, err := run.Execute(ctx, cfg, file, run.Overrides{
		PDFPath:         *pdfPath,
		PagesDir:        *pagesDir,
		GroundTruthPath: *gtPath,
		OutDir:          *outDir,
		DPI:             *dpi,
	}, logger)
	if err != nil {
		logger.Error("Benchmark run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Benchmark complete",
		"run_id", result.Report.RunID,
		"rows", len(result.Report.Rows),
		"out_dir", result.OutDir)
}

func enqueueRun(ctx context.Context, cfg *config.Config, payload queue.RunPayload, logger *logging.Logger) {
	if cfg.RedisURL == "" {
		logger.Error("REDIS_URL is required to enqueue benchmark runs")
		os.Exit(1)
	}

	enqueuer, err := queue.NewEnqueuer(cfg.RedisURL, cfg.QueueName)
	if err != nil {
		logger.Error("Failed to connect to queue", "error", err)
		os.Exit(1)
	}
	defer enqueuer.Close()

	taskID, err := enqueuer.EnqueueRun(ctx, payload)
	if err != nil {
		logger.Error("Failed to enqueue benchmark run", "error", err)
		os.Exit(1)
	}

	logger.Info("Benchmark run enqueued", "task_id", taskID, "queue", cfg.QueueName)
}
