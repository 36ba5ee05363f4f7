package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

const (
	// Stream names
	taskStream     = "rapidcrm:parse"
	taskGroup      = "rapidcrm:workers"
	scheduledTasks = "rapidcrm:parse:scheduled"

	// Key prefixes
	taskKeyPrefix = "rapidcrm:task:"
	msgKeySuffix  = ":msg"

	consumerPrefix = "worker-"

	// taskTTL bounds how long job state is kept for status polling
	taskTTL = 24 * time.Hour

	// Claim timeout - how long before a task is considered abandoned
	claimTimeout = 5 * time.Minute
)

// Verify interface compliance
var _ driven.TaskQueue = (*Queue)(nil)

// Config holds queue configuration
type Config struct {
	// ConsumerName should be unique per worker instance (e.g., hostname + PID)
	ConsumerName string
	Logger       *slog.Logger
}

// Queue implements TaskQueue using Redis Streams.
// Task state lives in a plain key next to the stream entry so status can be
// polled after the entry is acknowledged.
type Queue struct {
	client       *redis.Client
	consumerName string
	logger       *slog.Logger
}

// NewQueue creates a new Redis-backed task queue and its consumer group.
func NewQueue(ctx context.Context, client *redis.Client, cfg Config) (*Queue, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if cfg.ConsumerName == "" {
		cfg.ConsumerName = fmt.Sprintf("%s%d", consumerPrefix, time.Now().UnixNano())
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	q := &Queue{
		client:       client,
		consumerName: cfg.ConsumerName,
		logger:       cfg.Logger,
	}

	err := q.client.XGroupCreateMkStream(ctx, taskStream, taskGroup, "0").Err()
	if err != nil && !isGroupExistsError(err) {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return q, nil
}

// Enqueue adds a task to the queue for processing.
func (q *Queue) Enqueue(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return fmt.Errorf("%w: task is required", domain.ErrInvalidInput)
	}

	taskData, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	pipe := q.client.Pipeline()
	pipe.Set(ctx, taskKeyPrefix+task.ID, taskData, taskTTL)

	if task.ScheduledFor.After(time.Now()) {
		pipe.ZAdd(ctx, scheduledTasks, redis.Z{
			Score:  float64(task.ScheduledFor.Unix()),
			Member: task.ID,
		})
	} else {
		pipe.XAdd(ctx, streamEntry(task))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}

// DequeueWithTimeout retrieves the next available task, waiting up to timeout seconds.
// A timeout of 0 blocks until a task arrives or ctx is done.
func (q *Queue) DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error) {
	if err := q.promoteScheduledTasks(ctx); err != nil {
		q.logger.Warn("failed to promote scheduled tasks", "error", err)
	}

	task, err := q.claimAbandonedTask(ctx)
	if err == nil && task != nil {
		return task, nil
	}

	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    taskGroup,
		Consumer: q.consumerName,
		Streams:  []string{taskStream, ">"},
		Count:    1,
		Block:    time.Duration(timeout) * time.Second,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, nil
	}
	return q.startTask(ctx, streams[0].Messages[0])
}

// Ack acknowledges successful completion of a task and stores its result.
func (q *Queue) Ack(ctx context.Context, taskID string, result map[string]string) error {
	return q.finish(ctx, taskID, func(t *domain.Task) {
		t.MarkCompleted(result)
	})
}

// Fail marks a task failed without retry.
func (q *Queue) Fail(ctx context.Context, taskID string, reason string) error {
	return q.finish(ctx, taskID, func(t *domain.Task) {
		t.MarkFailed(reason)
	})
}

// Nack indicates task processing failed and should be retried.
// The task is rescheduled with backoff until its attempts run out.
func (q *Queue) Nack(ctx context.Context, taskID string, reason string) error {
	task, err := q.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return domain.ErrNotFound
	}

	msgID, _ := q.client.Get(ctx, taskKeyPrefix+taskID+msgKeySuffix).Result()

	pipe := q.client.Pipeline()
	if msgID != "" {
		pipe.XAck(ctx, taskStream, taskGroup, msgID)
		pipe.XDel(ctx, taskStream, msgID)
	}

	if task.CanRetry() {
		task.Retry(reason)
		pipe.ZAdd(ctx, scheduledTasks, redis.Z{
			Score:  float64(task.ScheduledFor.Unix()),
			Member: task.ID,
		})
	} else {
		task.MarkFailed(reason)
	}

	taskData, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}
	pipe.Set(ctx, taskKeyPrefix+taskID, taskData, taskTTL)
	pipe.Del(ctx, taskKeyPrefix+taskID+msgKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to nack task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by ID. Returns nil, nil when unknown.
func (q *Queue) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	data, err := q.client.Get(ctx, taskKeyPrefix+taskID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	var task domain.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &task, nil
}

// Stats returns queue statistics.
func (q *Queue) Stats(ctx context.Context) (*driven.QueueStats, error) {
	stats := &driven.QueueStats{}

	scheduled, err := q.client.ZCard(ctx, scheduledTasks).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get scheduled count: %w", err)
	}
	stats.PendingCount = scheduled

	// Stored task state is authoritative for everything else.
	var cursor uint64
	for {
		keys, next, err := q.client.Scan(ctx, cursor, taskKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan tasks: %w", err)
		}
		for _, key := range keys {
			if strings.HasSuffix(key, msgKeySuffix) {
				continue
			}
			data, err := q.client.Get(ctx, key).Bytes()
			if err != nil {
				continue
			}
			var task domain.Task
			if json.Unmarshal(data, &task) != nil {
				continue
			}
			switch task.Status {
			case domain.TaskStatusPending:
				if !task.ScheduledFor.After(time.Now()) {
					stats.PendingCount++
				}
			case domain.TaskStatusProcessing:
				stats.ProcessingCount++
			case domain.TaskStatusCompleted:
				stats.CompletedCount++
			case domain.TaskStatusFailed:
				stats.FailedCount++
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return stats, nil
}

// Ping checks if the queue backend is healthy.
func (q *Queue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

// Close cleans up resources.
func (q *Queue) Close() error {
	// Redis client is shared, don't close it here
	return nil
}

func (q *Queue) finish(ctx context.Context, taskID string, mark func(*domain.Task)) error {
	task, err := q.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return domain.ErrNotFound
	}

	msgID, err := q.client.Get(ctx, taskKeyPrefix+taskID+msgKeySuffix).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to get message ID: %w", err)
	}

	mark(task)
	taskData, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	pipe := q.client.Pipeline()
	if msgID != "" {
		pipe.XAck(ctx, taskStream, taskGroup, msgID)
		pipe.XDel(ctx, taskStream, msgID)
	}
	pipe.ZRem(ctx, scheduledTasks, taskID)
	pipe.Set(ctx, taskKeyPrefix+taskID, taskData, taskTTL)
	pipe.Del(ctx, taskKeyPrefix+taskID+msgKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update task %s: %w", taskID, err)
	}
	return nil
}

// startTask loads the task behind a stream message and marks it processing.
// Messages without a readable task are acknowledged and dropped.
func (q *Queue) startTask(ctx context.Context, msg redis.XMessage) (*domain.Task, error) {
	taskID, ok := msg.Values["task_id"].(string)
	if !ok {
		q.drop(ctx, msg.ID)
		return nil, nil
	}

	task, err := q.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task data: %w", err)
	}
	if task == nil || task.IsTerminal() {
		q.drop(ctx, msg.ID)
		return nil, nil
	}

	task.MarkProcessing()
	taskData, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task: %w", err)
	}

	pipe := q.client.Pipeline()
	pipe.Set(ctx, taskKeyPrefix+task.ID, taskData, taskTTL)
	pipe.Set(ctx, taskKeyPrefix+task.ID+msgKeySuffix, msg.ID, taskTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to mark task processing: %w", err)
	}
	return task, nil
}

func (q *Queue) drop(ctx context.Context, msgID string) {
	pipe := q.client.Pipeline()
	pipe.XAck(ctx, taskStream, taskGroup, msgID)
	pipe.XDel(ctx, taskStream, msgID)
	if _, err := pipe.Exec(ctx); err != nil {
		q.logger.Warn("failed to drop stream message", "message_id", msgID, "error", err)
	}
}

// promoteScheduledTasks moves due scheduled tasks to the main stream.
func (q *Queue) promoteScheduledTasks(ctx context.Context) error {
	due, err := q.client.ZRangeByScore(ctx, scheduledTasks, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", time.Now().Unix()),
	}).Result()
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	pipe := q.client.Pipeline()
	for _, taskID := range due {
		task, err := q.GetTask(ctx, taskID)
		if err == nil && task != nil && !task.IsTerminal() {
			pipe.XAdd(ctx, streamEntry(task))
		}
		pipe.ZRem(ctx, scheduledTasks, taskID)
	}

	_, err = pipe.Exec(ctx)
	return err
}

// claimAbandonedTask tries to claim a task that was abandoned by another worker.
func (q *Queue) claimAbandonedTask(ctx context.Context) (*domain.Task, error) {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: taskStream,
		Group:  taskGroup,
		Start:  "-",
		End:    "+",
		Count:  10,
		Idle:   claimTimeout,
	}).Result()
	if err != nil {
		return nil, err
	}

	for _, p := range pending {
		claimed, err := q.client.XClaim(ctx, &redis.XClaimArgs{
			Stream:   taskStream,
			Group:    taskGroup,
			Consumer: q.consumerName,
			MinIdle:  claimTimeout,
			Messages: []string{p.ID},
		}).Result()
		if err != nil || len(claimed) == 0 {
			continue
		}

		task, err := q.startTask(ctx, claimed[0])
		if err != nil || task == nil {
			continue
		}
		q.logger.Info("claimed abandoned task", "task_id", task.ID, "attempts", task.Attempts)
		return task, nil
	}

	return nil, nil
}

func streamEntry(task *domain.Task) *redis.XAddArgs {
	return &redis.XAddArgs{
		Stream: taskStream,
		Values: map[string]interface{}{
			"task_id":    task.ID,
			"type":       string(task.Type),
			"account_id": task.AccountID,
			"priority":   task.Priority,
		},
	}
}

func isGroupExistsError(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}
