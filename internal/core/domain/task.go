package domain

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// NewID returns a random 22-character URL-safe identifier.
func NewID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// TaskType names the work a queued job performs.
type TaskType string

// TaskTypeParseDocument fetches, parses and stores one credit report.
const TaskTypeParseDocument TaskType = "parse_document"

// parse_document payload keys
const (
	PayloadDownloadURL = "download_url"
	PayloadObjectKey   = "object_key"
	PayloadAccountID   = "account_id"
)

// parse_document result keys. A rejected document completes with ok=false
// plus the failure kind and message; a stored one carries the report id.
const (
	ResultOK          = "ok"
	ResultReportID    = "report_id"
	ResultPartial     = "partial"
	ResultFailureKind = "failure_kind"
	ResultMessage     = "message"
)

// JobOutcome is how one worker attempt at a parse job ended.
type JobOutcome string

const (
	JobOutcomeStored   JobOutcome = "stored"   // report saved
	JobOutcomeRejected JobOutcome = "rejected" // ParseFailed, acked with ok=false
	JobOutcomeFailed   JobOutcome = "failed"   // permanent error, not retried
	JobOutcomeRetried  JobOutcome = "retried"  // transient error, nacked
)

// TaskStatus is a job's lifecycle state:
// pending -> processing -> completed | failed, with processing -> pending on retry.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Retry policy
const (
	DefaultMaxAttempts = 3
	RetryBaseDelay     = 2 * time.Second
	RetryMaxDelay      = 5 * time.Minute
)

// Task is a queued job and its outcome.
type Task struct {
	ID        string   `json:"id"`
	Type      TaskType `json:"type"`
	AccountID string   `json:"account_id"`

	Payload map[string]string `json:"payload"`
	Result  map[string]string `json:"result,omitempty"`

	Status   TaskStatus `json:"status"`
	Priority int        `json:"priority"`

	// Attempts counts claims by a worker, including the current one
	Attempts    int    `json:"attempts"`
	MaxAttempts int    `json:"max_attempts"`
	Error       string `json:"error,omitempty"`

	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ScheduledFor time.Time  `json:"scheduled_for"`
}

// NewTask creates a pending task due now.
func NewTask(taskType TaskType, accountID string, payload map[string]string) *Task {
	now := time.Now()
	return &Task{
		ID:           NewID(),
		Type:         taskType,
		AccountID:    accountID,
		Payload:      payload,
		Status:       TaskStatusPending,
		MaxAttempts:  DefaultMaxAttempts,
		CreatedAt:    now,
		UpdatedAt:    now,
		ScheduledFor: now,
	}
}

// ParseRequest identifies a remote document to parse.
type ParseRequest struct {
	DownloadURL string `json:"downloadUrl"`
	ObjectKey   string `json:"objectKey"`
	AccountID   string `json:"accountId"`
}

// NewParseDocumentTask queues req for a worker.
func NewParseDocumentTask(req ParseRequest) *Task {
	return NewTask(TaskTypeParseDocument, req.AccountID, map[string]string{
		PayloadDownloadURL: req.DownloadURL,
		PayloadObjectKey:   req.ObjectKey,
		PayloadAccountID:   req.AccountID,
	})
}

// ParseRequest rebuilds the request carried by a parse_document payload.
// The task's AccountID fills a missing payload account.
func (t *Task) ParseRequest() ParseRequest {
	req := ParseRequest{
		DownloadURL: t.Payload[PayloadDownloadURL],
		ObjectKey:   t.Payload[PayloadObjectKey],
		AccountID:   t.Payload[PayloadAccountID],
	}
	if req.AccountID == "" {
		req.AccountID = t.AccountID
	}
	return req
}

// CanRetry reports whether another attempt is allowed.
func (t *Task) CanRetry() bool {
	return t.Attempts < t.MaxAttempts
}

// IsReady reports whether a worker may claim the task now.
func (t *Task) IsReady() bool {
	return t.Status == TaskStatusPending && time.Now().After(t.ScheduledFor)
}

// IsTerminal reports whether the task will never run again.
func (t *Task) IsTerminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}

// MarkProcessing records a claim by a worker.
func (t *Task) MarkProcessing() {
	now := time.Now()
	t.Status = TaskStatusProcessing
	t.Attempts++
	t.StartedAt = &now
	t.UpdatedAt = now
}

// MarkCompleted stores the result and clears any earlier error.
func (t *Task) MarkCompleted(result map[string]string) {
	t.finish(TaskStatusCompleted)
	t.Error = ""
	t.Result = result
}

// MarkFailed ends the task with reason.
func (t *Task) MarkFailed(reason string) {
	t.finish(TaskStatusFailed)
	t.Error = reason
}

func (t *Task) finish(status TaskStatus) {
	now := time.Now()
	t.Status = status
	t.UpdatedAt = now
	t.CompletedAt = &now
}

// Retry puts the task back to pending, due after RetryBackoff(Attempts).
func (t *Task) Retry(reason string) {
	now := time.Now()
	t.Status = TaskStatusPending
	t.Error = reason
	t.UpdatedAt = now
	t.ScheduledFor = now.Add(RetryBackoff(t.Attempts))
}

// RetryBackoff doubles from RetryBaseDelay per attempt, capped at RetryMaxDelay.
func RetryBackoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := RetryBaseDelay
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= RetryMaxDelay {
			return RetryMaxDelay
		}
	}
	return d
}
