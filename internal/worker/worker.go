package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driving"
)

// DefaultTaskTimeout bounds fetch, parse and store for one job.
const DefaultTaskTimeout = 2 * time.Minute

// Worker processes parse jobs from the task queue.
type Worker struct {
	taskQueue driven.TaskQueue
	parser    driving.ParserService
	metrics   driven.JobMetrics
	logger    *slog.Logger

	// Configuration
	concurrency    int
	dequeueTimeout int // seconds
	taskTimeout    time.Duration

	// Internal state
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// WorkerConfig holds configuration for the worker.
type WorkerConfig struct {
	TaskQueue      driven.TaskQueue
	Parser         driving.ParserService
	Metrics        driven.JobMetrics // Optional
	Logger         *slog.Logger
	Concurrency    int           // Number of concurrent task processors
	DequeueTimeout int           // Seconds to wait for a task before checking again
	TaskTimeout    time.Duration // default: 2m
}

// NewWorker creates a new task worker.
func NewWorker(cfg WorkerConfig) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	dequeueTimeout := cfg.DequeueTimeout
	if dequeueTimeout <= 0 {
		dequeueTimeout = 5
	}

	taskTimeout := cfg.TaskTimeout
	if taskTimeout <= 0 {
		taskTimeout = DefaultTaskTimeout
	}

	return &Worker{
		taskQueue:      cfg.TaskQueue,
		parser:         cfg.Parser,
		metrics:        cfg.Metrics,
		logger:         logger,
		concurrency:    concurrency,
		dequeueTimeout: dequeueTimeout,
		taskTimeout:    taskTimeout,
	}
}

// Start begins the worker loop.
// It runs until Stop is called or context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info("worker starting",
		"concurrency", w.concurrency,
		"dequeue_timeout", w.dequeueTimeout,
	)

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.processLoop(ctx, workerID)
		}(i)
	}

	go func() {
		wg.Wait()
		close(w.doneCh)
	}()

	return nil
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("worker stopped")
}

// Wait blocks until the worker stops.
func (w *Worker) Wait() {
	w.mu.RLock()
	done := w.doneCh
	w.mu.RUnlock()
	if done != nil {
		<-done
	}
}

// processLoop is the main processing loop for a worker goroutine.
func (w *Worker) processLoop(ctx context.Context, workerID int) {
	logger := w.logger.With("worker_id", workerID)
	logger.Debug("worker goroutine started")

	for {
		select {
		case <-ctx.Done():
			logger.Debug("worker context cancelled")
			return
		case <-w.stopCh:
			logger.Debug("worker stop signal received")
			return
		default:
		}

		task, err := w.taskQueue.DequeueWithTimeout(ctx, w.dequeueTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			logger.Error("failed to dequeue task", "error", err)
			w.backoff(ctx, time.Second)
			continue
		}

		if task == nil {
			continue
		}

		w.processTask(ctx, task, logger)
	}
}

func (w *Worker) backoff(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-w.stopCh:
	case <-time.After(d):
	}
}

// processTask runs one task and settles it on the queue:
// success and rejected documents are acked, permanent errors fail the task,
// anything else is nacked for retry.
func (w *Worker) processTask(ctx context.Context, task *domain.Task, logger *slog.Logger) {
	logger = logger.With("task_id", task.ID, "task_type", task.Type, "account_id", task.AccountID)
	logger.Info("processing task", "attempt", task.Attempts)

	taskCtx, cancel := context.WithTimeout(ctx, w.taskTimeout)
	defer cancel()

	startTime := time.Now()
	var (
		result map[string]string
		err    error
	)

	switch task.Type {
	case domain.TaskTypeParseDocument:
		result, err = w.handleParseDocument(taskCtx, task)
	default:
		err = fmt.Errorf("%w: unknown task type %q", domain.ErrInvalidInput, task.Type)
	}

	duration := time.Since(startTime)

	if pf, ok := domain.AsParseFailed(err); ok {
		logger.Warn("document rejected",
			"duration", duration,
			"kind", pf.Kind,
			"error", pf.Message,
		)
		w.record(domain.JobOutcomeRejected, duration)
		w.ack(ctx, task.ID, map[string]string{
			domain.ResultOK:          "false",
			domain.ResultFailureKind: pf.Kind,
			domain.ResultMessage:     pf.Message,
		}, logger)
		return
	}

	if err != nil {
		logger.Error("task failed", "duration", duration, "error", err)

		if domain.IsPermanent(err) {
			w.record(domain.JobOutcomeFailed, duration)
			if failErr := w.taskQueue.Fail(ctx, task.ID, err.Error()); failErr != nil {
				logger.Error("failed to fail task", "fail_error", failErr)
			}
			return
		}

		// Nack the task so it can be retried
		w.record(domain.JobOutcomeRetried, duration)
		if nackErr := w.taskQueue.Nack(ctx, task.ID, err.Error()); nackErr != nil {
			logger.Error("failed to nack task", "nack_error", nackErr)
		}
		return
	}

	logger.Info("task completed", "duration", duration, "report_id", result[domain.ResultReportID])
	w.record(domain.JobOutcomeStored, duration)
	w.ack(ctx, task.ID, result, logger)
}

func (w *Worker) record(outcome domain.JobOutcome, d time.Duration) {
	if w.metrics != nil {
		w.metrics.JobFinished(outcome, d)
	}
}

func (w *Worker) ack(ctx context.Context, taskID string, result map[string]string, logger *slog.Logger) {
	if ackErr := w.taskQueue.Ack(ctx, taskID, result); ackErr != nil {
		logger.Error("failed to ack task", "ack_error", ackErr)
	}
}

// handleParseDocument handles a parse_document task.
func (w *Worker) handleParseDocument(ctx context.Context, task *domain.Task) (map[string]string, error) {
	req := task.ParseRequest()
	if req.DownloadURL == "" {
		return nil, fmt.Errorf("%w: download_url not found in task payload", domain.ErrInvalidInput)
	}

	stored, err := w.parser.ParseFromURL(ctx, req)
	if err != nil {
		return nil, err
	}

	return map[string]string{
		domain.ResultOK:       "true",
		domain.ResultReportID: stored.ID,
		domain.ResultPartial:  strconv.FormatBool(stored.Partial),
	}, nil
}

// Health returns health status of the worker.
type Health struct {
	Running     bool   `json:"running"`
	QueueHealth bool   `json:"queue_health"`
	Error       string `json:"error,omitempty"`
}

// Health returns the health status of the worker.
func (w *Worker) Health(ctx context.Context) Health {
	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()

	health := Health{
		Running: running,
	}

	if err := w.taskQueue.Ping(ctx); err != nil {
		health.QueueHealth = false
		health.Error = err.Error()
	} else {
		health.QueueHealth = true
	}

	return health
}
