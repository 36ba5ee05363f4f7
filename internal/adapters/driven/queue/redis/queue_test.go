package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestQueue(t *testing.T) (*Queue, *redis.Client, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	q, err := NewQueue(context.Background(), client, Config{ConsumerName: "test-worker"})
	if err != nil {
		t.Fatalf("NewQueue failed: %v", err)
	}

	return q, client, func() {
		client.Close()
		mr.Close()
	}
}

func parseTask() *domain.Task {
	return domain.NewParseDocumentTask(domain.ParseRequest{
		DownloadURL: "inline:demo",
		ObjectKey:   "uploads/demo.html",
		AccountID:   "acct-1",
	})
}

func TestNewQueue_RequiresClient(t *testing.T) {
	if _, err := NewQueue(context.Background(), nil, Config{}); err == nil {
		t.Error("expected error for nil client")
	}
}

func TestNewQueue_GroupAlreadyExists(t *testing.T) {
	_, client, cleanup := setupTestQueue(t)
	defer cleanup()

	if _, err := NewQueue(context.Background(), client, Config{}); err != nil {
		t.Errorf("second NewQueue should tolerate existing group: %v", err)
	}
}

func TestQueue_EnqueueDequeueAck(t *testing.T) {
	q, _, cleanup := setupTestQueue(t)
	defer cleanup()
	ctx := context.Background()

	task := parseTask()
	if err := q.Enqueue(ctx, task); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	got, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a task")
	}
	if got.ID != task.ID {
		t.Errorf("ID = %s, want %s", got.ID, task.ID)
	}
	if got.Status != domain.TaskStatusProcessing || got.Attempts != 1 {
		t.Errorf("unexpected state: status=%s attempts=%d", got.Status, got.Attempts)
	}
	if req := got.ParseRequest(); req.DownloadURL != "inline:demo" || req.AccountID != "acct-1" {
		t.Errorf("payload did not round-trip: %+v", req)
	}

	if err := q.Ack(ctx, task.ID, map[string]string{domain.ResultReportID: "r-1"}); err != nil {
		t.Fatalf("Ack failed: %v", err)
	}

	stored, err := q.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if stored.Status != domain.TaskStatusCompleted {
		t.Errorf("status = %s, want completed", stored.Status)
	}
	if stored.Result[domain.ResultReportID] != "r-1" {
		t.Errorf("result = %v", stored.Result)
	}

	stats, err := q.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.CompletedCount != 1 || stats.PendingCount != 0 || stats.ProcessingCount != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestQueue_DequeueEmpty(t *testing.T) {
	q, _, cleanup := setupTestQueue(t)
	defer cleanup()

	got, err := q.DequeueWithTimeout(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil task, got %+v", got)
	}
}

func TestQueue_EnqueueNil(t *testing.T) {
	q, _, cleanup := setupTestQueue(t)
	defer cleanup()

	if err := q.Enqueue(context.Background(), nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestQueue_NackReschedules(t *testing.T) {
	q, client, cleanup := setupTestQueue(t)
	defer cleanup()
	ctx := context.Background()

	task := parseTask()
	_ = q.Enqueue(ctx, task)
	if _, err := q.DequeueWithTimeout(ctx, 1); err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}

	if err := q.Nack(ctx, task.ID, "connection reset"); err != nil {
		t.Fatalf("Nack failed: %v", err)
	}

	stored, _ := q.GetTask(ctx, task.ID)
	if stored.Status != domain.TaskStatusPending {
		t.Errorf("status = %s, want pending", stored.Status)
	}
	if stored.Error != "connection reset" {
		t.Errorf("error = %q", stored.Error)
	}
	if !stored.ScheduledFor.After(time.Now()) {
		t.Error("expected retry to be scheduled in the future")
	}
	if n, _ := client.ZCard(ctx, scheduledTasks).Result(); n != 1 {
		t.Errorf("scheduled set size = %d, want 1", n)
	}

	// Not due yet
	got, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if got != nil {
		t.Error("retry should not be delivered before it is due")
	}

	// Make it due
	client.ZAdd(ctx, scheduledTasks, redis.Z{Score: float64(time.Now().Add(-time.Second).Unix()), Member: task.ID})

	got, err = q.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if got == nil || got.ID != task.ID {
		t.Fatalf("expected retried task, got %+v", got)
	}
	if got.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", got.Attempts)
	}
}

func TestQueue_NackExhausted(t *testing.T) {
	q, _, cleanup := setupTestQueue(t)
	defer cleanup()
	ctx := context.Background()

	task := parseTask()
	task.MaxAttempts = 1
	_ = q.Enqueue(ctx, task)
	_, _ = q.DequeueWithTimeout(ctx, 1)

	if err := q.Nack(ctx, task.ID, "timeout"); err != nil {
		t.Fatalf("Nack failed: %v", err)
	}

	stored, _ := q.GetTask(ctx, task.ID)
	if stored.Status != domain.TaskStatusFailed {
		t.Errorf("status = %s, want failed", stored.Status)
	}
}

func TestQueue_Fail(t *testing.T) {
	q, _, cleanup := setupTestQueue(t)
	defer cleanup()
	ctx := context.Background()

	task := parseTask()
	_ = q.Enqueue(ctx, task)
	_, _ = q.DequeueWithTimeout(ctx, 1)

	if err := q.Fail(ctx, task.ID, "parse failed (empty_document)"); err != nil {
		t.Fatalf("Fail failed: %v", err)
	}

	stored, _ := q.GetTask(ctx, task.ID)
	if stored.Status != domain.TaskStatusFailed || stored.Attempts != 1 {
		t.Errorf("unexpected state: %+v", stored)
	}

	stats, _ := q.Stats(ctx)
	if stats.FailedCount != 1 {
		t.Errorf("FailedCount = %d, want 1", stats.FailedCount)
	}
}

func TestQueue_UnknownTask(t *testing.T) {
	q, _, cleanup := setupTestQueue(t)
	defer cleanup()
	ctx := context.Background()

	got, err := q.GetTask(ctx, "missing")
	if err != nil || got != nil {
		t.Errorf("expected nil, nil; got %v, %v", got, err)
	}
	if err := q.Ack(ctx, "missing", nil); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Ack: expected ErrNotFound, got %v", err)
	}
	if err := q.Nack(ctx, "missing", "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Nack: expected ErrNotFound, got %v", err)
	}
}

func TestQueue_DelayedTaskCountsAsPending(t *testing.T) {
	q, _, cleanup := setupTestQueue(t)
	defer cleanup()
	ctx := context.Background()

	task := parseTask()
	task.ScheduledFor = time.Now().Add(time.Hour)
	if err := q.Enqueue(ctx, task); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	stats, err := q.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.PendingCount != 1 {
		t.Errorf("PendingCount = %d, want 1", stats.PendingCount)
	}
}

func TestQueue_Ping(t *testing.T) {
	q, _, cleanup := setupTestQueue(t)
	defer cleanup()

	if err := q.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
