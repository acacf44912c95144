/**
 * Queued benchmark runs
 *
 * Benchmark runs can be enqueued as asynq tasks and executed by the
 * ocrbench-worker process. One task is one full benchmark run; retries are
 * disabled because a failed run is a result, not a transient fault.
 */

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/adverant/nexus/ocrbench-worker/internal/logging"
)

// TypeBenchmarkRun is the asynq task type for one benchmark run.
const TypeBenchmarkRun = "ocrbench:run"

// runTimeout bounds one queued benchmark run end to end.
const runTimeout = 4 * time.Hour

// RunPayload describes one queued benchmark run. Empty fields defer to the
// worker's config.json defaults.
type RunPayload struct {
	RunLabel        string `json:"runLabel,omitempty"`
	PDFPath         string `json:"pdfPath,omitempty"`
	PagesDir        string `json:"pagesDir,omitempty"`
	GroundTruthPath string `json:"groundTruthPath,omitempty"`
	OutDir          string `json:"outDir,omitempty"`
	DPI             int    `json:"dpi,omitempty"`
}

// NewRunTask builds the asynq task for a payload.
func NewRunTask(payload RunPayload, queueName string) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run payload: %w", err)
	}

	return asynq.NewTask(TypeBenchmarkRun, data,
		asynq.Queue(queueName),
		asynq.MaxRetry(0),
		asynq.Timeout(runTimeout),
	), nil
}

// Enqueuer submits benchmark runs to the queue.
type Enqueuer struct {
	client    *asynq.Client
	queueName string
}

// NewEnqueuer connects an enqueuer to Redis.
func NewEnqueuer(redisURL, queueName string) (*Enqueuer, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	return &Enqueuer{
		client:    asynq.NewClient(opt),
		queueName: queueName,
	}, nil
}

// EnqueueRun submits one benchmark run and returns the task ID.
func (e *Enqueuer) EnqueueRun(ctx context.Context, payload RunPayload) (string, error) {
	task, err := NewRunTask(payload, e.queueName)
	if err != nil {
		return "", err
	}

	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue benchmark run: %w", err)
	}
	return info.ID, nil
}

// Close releases the queue client.
func (e *Enqueuer) Close() error {
	return e.client.Close()
}

// RunnerFunc executes one benchmark run from a payload.
type RunnerFunc func(ctx context.Context, payload RunPayload) error

// Handler adapts a RunnerFunc to asynq task processing.
type Handler struct {
	runner RunnerFunc
	logger *logging.Logger
}

// NewHandler creates a task handler around the given runner.
func NewHandler(runner RunnerFunc, logger *logging.Logger) *Handler {
	return &Handler{runner: runner, logger: logger}
}

// ProcessTask unmarshals and executes one queued benchmark run.
func (h *Handler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload RunPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid run payload: %w", err)
	}

	h.logger.Info("Processing queued benchmark run", "label", payload.RunLabel)

	if err := h.runner(ctx, payload); err != nil {
		h.logger.Error("Queued benchmark run failed", "label", payload.RunLabel, "error", err)
		return err
	}

	h.logger.Info("Queued benchmark run finished", "label", payload.RunLabel)
	return nil
}

// NewServer builds the asynq server consuming the benchmark queue.
func NewServer(redisURL, queueName string, concurrency int) (*asynq.Server, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	return asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queueName: 1},
	}), nil
}
