/**
 * Benchmark run composition
 *
 * Wires configuration, page-set resolution, ground-truth loading, engine
 * construction and the orchestrator into one executable run, then writes
 * the summary outputs. Used by both the one-shot CLI and the queued
 * worker.
 */

package run

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adverant/nexus/ocrbench-worker/internal/bench"
	"github.com/adverant/nexus/ocrbench-worker/internal/config"
	"github.com/adverant/nexus/ocrbench-worker/internal/engine"
	benchErrors "github.com/adverant/nexus/ocrbench-worker/internal/errors"
	"github.com/adverant/nexus/ocrbench-worker/internal/groundtruth"
	"github.com/adverant/nexus/ocrbench-worker/internal/logging"
	"github.com/adverant/nexus/ocrbench-worker/internal/pages"
	"github.com/adverant/nexus/ocrbench-worker/internal/storage"
)

// Overrides carries command-line or task-payload overrides over the
// config.json defaults. Zero values defer to the file.
type Overrides struct {
	PDFPath         string
	PagesDir        string
	GroundTruthPath string
	OutDir          string
	DPI             int
}

// Result describes a finished run and where its outputs went.
type Result struct {
	Report   *bench.Report
	OutDir   string
	CSVPath  string
	JSONPath string
}

// Execute performs one full benchmark run.
func Execute(ctx context.Context, cfg *config.Config, file *config.BenchmarkFile, ov Overrides, logger *logging.Logger) (*Result, error) {
	runCfg := file.BenchmarkRun

	outDir := firstNonEmpty(ov.OutDir, runCfg.DefaultOutDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	logger.Info("Results will be saved", "out_dir", outDir)

	specs := runCfg.EnabledSpecs()
	if len(specs) == 0 {
		return nil, benchErrors.NewConfigurationError("no models are enabled in the benchmark configuration")
	}

	// Inputs are resolved before any engine holds resources.
	refs, err := loadReferences(cfg, ov, &runCfg, logger)
	if err != nil {
		return nil, err
	}

	pageSet, cleanup, err := resolvePages(ctx, cfg, ov, &runCfg, logger)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	engines, failures, err := engine.BuildActive(specs, logger)
	if err != nil {
		return nil, err
	}
	if len(failures) > 0 {
		logger.Warn("Some engines were excluded from the run", "excluded", len(failures), "active", len(engines))
	}

	opts := []bench.Option{bench.WithHypothesisDumps(outDir)}

	var cache *storage.RedisCache
	if cfg.RedisURL != "" {
		cache, err = storage.NewRedisCache(cfg.RedisURL, logger)
		if err != nil {
			logger.Warn("Hypothesis cache unavailable, continuing without it", "error", err)
		} else {
			defer cache.Close()
			opts = append(opts, bench.WithHypothesisCache(cache))
		}
	}

	orch, err := bench.NewOrchestrator(engines, pageSet, refs, logger, opts...)
	if err != nil {
		return nil, err
	}

	report, err := orch.Run(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Report:   report,
		OutDir:   outDir,
		CSVPath:  filepath.Join(outDir, "summary.csv"),
		JSONPath: filepath.Join(outDir, "summary.json"),
	}

	if err := writeSummaries(report, result); err != nil {
		return nil, err
	}
	logger.Info("Summary written", "csv", result.CSVPath, "json", result.JSONPath)

	persistReport(ctx, cfg, report, logger)

	return result, nil
}

func loadReferences(cfg *config.Config, ov Overrides, runCfg *config.BenchmarkRun, logger *logging.Logger) (groundtruth.ReferenceSet, error) {
	gtPath := firstNonEmpty(ov.GroundTruthPath, runCfg.DefaultGroundTruth)
	if gtPath == "" {
		return nil, benchErrors.NewConfigurationError("no ground truth source configured")
	}

	resolved, err := pages.ResolveInput(gtPath, cfg.SampleDataDir, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Loading ground truth", "path", resolved)
	return groundtruth.Load(resolved)
}

// resolvePages returns the fixed page set for the run, either from a
// pre-rasterized directory or by rasterizing the input PDF into a
// temporary directory removed by the cleanup func.
func resolvePages(ctx context.Context, cfg *config.Config, ov Overrides, runCfg *config.BenchmarkRun, logger *logging.Logger) ([]pages.Page, func(), error) {
	noop := func() {}

	if dir := firstNonEmpty(ov.PagesDir, runCfg.DefaultPagesDir); dir != "" {
		pageSet, err := pages.FromDirectory(dir)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("Using pre-rasterized pages", "dir", dir, "pages", len(pageSet))
		return pageSet, noop, nil
	}

	pdfPath := firstNonEmpty(ov.PDFPath, runCfg.DefaultPDF)
	if pdfPath == "" {
		return nil, noop, benchErrors.NewConfigurationError("no input PDF or pages directory configured")
	}

	resolved, err := pages.ResolveInput(pdfPath, cfg.SampleDataDir, logger)
	if err != nil {
		return nil, noop, err
	}

	dpi := ov.DPI
	if dpi <= 0 {
		dpi = runCfg.DPI
	}

	tmpDir, err := os.MkdirTemp("", "ocrbench-pages-*")
	if err != nil {
		return nil, noop, fmt.Errorf("failed to create rasterization directory: %w", err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	logger.Info("Rasterizing PDF", "pdf", resolved, "dpi", dpi)
	pageSet, err := pages.Rasterize(ctx, resolved, dpi, tmpDir)
	if err != nil {
		cleanup()
		return nil, noop, err
	}
	logger.Info("Rasterization complete", "pages", len(pageSet))

	return pageSet, cleanup, nil
}

func writeSummaries(report *bench.Report, result *Result) error {
	csvFile, err := os.Create(result.CSVPath)
	if err != nil {
		return fmt.Errorf("failed to create summary CSV: %w", err)
	}
	defer csvFile.Close()

	if err := report.WriteCSV(csvFile); err != nil {
		return err
	}

	jsonFile, err := os.Create(result.JSONPath)
	if err != nil {
		return fmt.Errorf("failed to create summary JSON: %w", err)
	}
	defer jsonFile.Close()

	return report.WriteJSON(jsonFile)
}

// persistReport writes the report to the PostgreSQL sink when configured.
// Sink failures are logged, not fatal: the files on disk already hold the
// run.
func persistReport(ctx context.Context, cfg *config.Config, report *bench.Report, logger *logging.Logger) {
	if cfg.DatabaseURL == "" {
		return
	}

	sink, err := storage.NewPostgresSink(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Report sink unavailable", "error", err)
		return
	}
	defer sink.Close()

	if err := sink.EnsureSchema(ctx); err != nil {
		logger.Error("Failed to ensure report schema", "error", err)
		return
	}

	if err := sink.InsertReport(ctx, report); err != nil {
		logger.Error("Failed to persist report", "run_id", report.RunID, "error", err)
		return
	}
	logger.Info("Report persisted", "run_id", report.RunID, "rows", len(report.Rows))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
