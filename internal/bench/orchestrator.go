/**
 * Benchmark orchestrator for the OCR benchmark worker
 *
 * Drives every active engine over every page, sequentially: one engine at
 * a time, one page at a time, so that heavyweight engines never hold
 * resources concurrently. Each engine is released immediately after its
 * page loop completes, on success and on failure paths alike.
 *
 * Per-page recognition failures become a failure-marker hypothesis that is
 * still scored against the reference, so a broken engine stays visible in
 * the metrics instead of silently dropping rows.
 */

package bench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adverant/nexus/ocrbench-worker/internal/engine"
	benchErrors "github.com/adverant/nexus/ocrbench-worker/internal/errors"
	"github.com/adverant/nexus/ocrbench-worker/internal/groundtruth"
	"github.com/adverant/nexus/ocrbench-worker/internal/logging"
	"github.com/adverant/nexus/ocrbench-worker/internal/metrics"
	"github.com/adverant/nexus/ocrbench-worker/internal/pages"
)

// HypothesisCache lets reruns skip recognition for pages an engine already
// processed. Implementations must be safe to call sequentially; a nil cache
// disables caching.
type HypothesisCache interface {
	Get(ctx context.Context, engineName, imagePath string) (string, bool)
	Put(ctx context.Context, engineName, imagePath, text string)
}

// Orchestrator runs the engines x pages benchmark loop.
type Orchestrator struct {
	engines []engine.Engine
	pages   []pages.Page
	refs    groundtruth.ReferenceSet
	logger  *logging.Logger

	cache  HypothesisCache // optional
	outDir string          // optional per-page hypothesis dumps
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithHypothesisCache enables the hypothesis cache.
func WithHypothesisCache(cache HypothesisCache) Option {
	return func(o *Orchestrator) { o.cache = cache }
}

// WithHypothesisDumps writes every hypothesis to <dir>/<model>/page_N.txt.
func WithHypothesisDumps(dir string) Option {
	return func(o *Orchestrator) { o.outDir = dir }
}

// NewOrchestrator creates an orchestrator over a fixed page set. The engine
// slice order defines the report row grouping.
func NewOrchestrator(engines []engine.Engine, pageSet []pages.Page, refs groundtruth.ReferenceSet, logger *logging.Logger, opts ...Option) (*Orchestrator, error) {
	if len(engines) == 0 {
		return nil, benchErrors.NewConfigurationError("no active engines to benchmark")
	}
	if len(pageSet) == 0 {
		return nil, benchErrors.NewConfigurationError("page set is empty")
	}

	o := &Orchestrator{
		engines: engines,
		pages:   pageSet,
		refs:    refs,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// FailureMarker builds the hypothesis value recorded for a per-page
// recognition failure.
func FailureMarker(err error) string {
	return fmt.Sprintf("[OCR_ERROR: %v]", err)
}

// IsFailureMarker reports whether a hypothesis is a recorded failure.
func IsFailureMarker(hypothesis string) bool {
	return strings.HasPrefix(hypothesis, "[OCR_ERROR: ")
}

// Run executes the benchmark and assembles the report. Only configuration
// and input-resolution faults abort the run; engine failures are contained
// per (engine, page) unit.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}

	o.logger.Info("Starting OCR benchmark",
		"run_id", report.RunID,
		"engines", len(o.engines),
		"pages", len(o.pages))

	for _, eng := range o.engines {
		rows, err := o.runEngine(ctx, eng)
		if err != nil {
			return nil, err
		}
		report.Rows = append(report.Rows, rows...)
	}

	o.logger.Info("Benchmark finished", "run_id", report.RunID, "rows", len(report.Rows))
	return report, nil
}

// runEngine processes every page with one engine and releases the engine
// before returning.
func (o *Orchestrator) runEngine(ctx context.Context, eng engine.Engine) (_ []MetricRow, err error) {
	o.logger.Info("Running engine", "engine", eng.Name())

	defer func() {
		if closeErr := eng.Close(); closeErr != nil {
			o.logger.Warn("Failed to release engine resources", "engine", eng.Name(), "error", closeErr)
		} else {
			o.logger.Info("Released engine resources", "engine", eng.Name())
		}
	}()

	rows := make([]MetricRow, 0, len(o.pages))
	for _, page := range o.pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		hypothesis, failed := o.recognizePage(ctx, eng, page)

		if o.outDir != "" {
			if err := o.dumpHypothesis(eng.Name(), page.Number, hypothesis); err != nil {
				o.logger.Warn("Failed to write hypothesis dump", "engine", eng.Name(), "page", page.Number, "error", err)
			}
		}

		reference := o.refs.Page(page.Number)
		rows = append(rows, MetricRow{
			Model:       eng.Name(),
			Page:        page.Number,
			GTLenChars:  len([]rune(reference)),
			HypLenChars: len([]rune(hypothesis)),
			Metrics:     metrics.Compute(reference, hypothesis),
			Hypothesis:  hypothesis,
			Failed:      failed,
		})
	}

	return rows, nil
}

// recognizePage produces the hypothesis for one (engine, page) pair,
// converting recognition errors into the failure marker.
func (o *Orchestrator) recognizePage(ctx context.Context, eng engine.Engine, page pages.Page) (hypothesis string, failed bool) {
	if o.cache != nil {
		if cached, ok := o.cache.Get(ctx, eng.Name(), page.ImagePath); ok {
			o.logger.Debug("Hypothesis cache hit", "engine", eng.Name(), "page", page.Number)
			return cached, false
		}
	}

	text, err := eng.Recognize(ctx, page.ImagePath)
	if err != nil {
		runtimeErr := benchErrors.NewEngineRuntimeError(eng.Name(), page.Number, err)
		o.logger.Error("Engine failed on page", "engine", eng.Name(), "page", page.Number, "error", runtimeErr)
		return FailureMarker(err), true
	}

	if o.cache != nil {
		o.cache.Put(ctx, eng.Name(), page.ImagePath, text)
	}
	return text, false
}

func (o *Orchestrator) dumpHypothesis(model string, page int, text string) error {
	dir := filepath.Join(o.outDir, sanitizeName(model))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, fmt.Sprintf("page_%d.txt", page)), []byte(text), 0o644)
}

// sanitizeName makes an engine display name safe as a directory name.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, name)
}
