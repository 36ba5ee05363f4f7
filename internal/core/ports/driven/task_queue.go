package driven

import (
	"context"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
)

// TaskQueue carries parse jobs from the API to workers.
//
// A dequeued task is claimed by one worker until it is settled with Ack,
// Nack or Fail. Claims that are never settled become visible again.
type TaskQueue interface {
	Enqueue(ctx context.Context, task *domain.Task) error

	// DequeueWithTimeout claims the next ready task, blocking up to timeout
	// seconds. It returns nil, nil when nothing became ready.
	DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error)

	// Ack completes a claimed task with its result.
	Ack(ctx context.Context, taskID string, result map[string]string) error

	// Nack schedules a retry with backoff, or fails the task once its
	// attempts are used up.
	Nack(ctx context.Context, taskID string, reason string) error

	// Fail ends a claimed task without retry.
	Fail(ctx context.Context, taskID string, reason string) error

	// GetTask returns nil, nil for unknown ids.
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)

	Stats(ctx context.Context) (*QueueStats, error)
	Ping(ctx context.Context) error
	Close() error
}

// QueueStats counts tasks by status.
type QueueStats struct {
	PendingCount    int64 `json:"pending_count"`
	ProcessingCount int64 `json:"processing_count"`
	CompletedCount  int64 `json:"completed_count"`
	FailedCount     int64 `json:"failed_count"`
}
