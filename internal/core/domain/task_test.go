package domain

import (
	"testing"
	"time"
)

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if len(id) != 22 {
			t.Fatalf("expected 22-character id, got %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestNewParseDocumentTask(t *testing.T) {
	req := ParseRequest{
		DownloadURL: "inline:dummy",
		ObjectKey:   "seed/demo-report-1.html",
		AccountID:   "acct_123",
	}

	task := NewParseDocumentTask(req)

	if task.Type != TaskTypeParseDocument {
		t.Errorf("expected type %s, got %s", TaskTypeParseDocument, task.Type)
	}
	if task.AccountID != "acct_123" {
		t.Errorf("expected account acct_123, got %s", task.AccountID)
	}
	if task.Status != TaskStatusPending || task.Attempts != 0 || task.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("unexpected initial state: status=%s attempts=%d max=%d", task.Status, task.Attempts, task.MaxAttempts)
	}
	if !task.IsReady() {
		t.Error("new task should be ready")
	}
	if got := task.ParseRequest(); got != req {
		t.Errorf("expected request %+v, got %+v", req, got)
	}
}

func TestTask_ParseRequest(t *testing.T) {
	tests := []struct {
		name string
		task *Task
		want ParseRequest
	}{
		{
			name: "nil payload falls back to task account",
			task: &Task{AccountID: "acct_9"},
			want: ParseRequest{AccountID: "acct_9"},
		},
		{
			name: "payload account wins",
			task: &Task{AccountID: "acct_9", Payload: map[string]string{PayloadAccountID: "acct_1", PayloadDownloadURL: "https://x"}},
			want: ParseRequest{AccountID: "acct_1", DownloadURL: "https://x"},
		},
		{
			name: "empty payload account",
			task: &Task{AccountID: "acct_9", Payload: map[string]string{PayloadObjectKey: "k"}},
			want: ParseRequest{AccountID: "acct_9", ObjectKey: "k"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.ParseRequest(); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestTask_Readiness(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Minute)

	tests := []struct {
		status    TaskStatus
		scheduled time.Time
		ready     bool
		terminal  bool
	}{
		{TaskStatusPending, past, true, false},
		{TaskStatusPending, future, false, false},
		{TaskStatusProcessing, past, false, false},
		{TaskStatusCompleted, past, false, true},
		{TaskStatusFailed, past, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			task := &Task{Status: tt.status, ScheduledFor: tt.scheduled}
			if got := task.IsReady(); got != tt.ready {
				t.Errorf("IsReady = %v, want %v", got, tt.ready)
			}
			if got := task.IsTerminal(); got != tt.terminal {
				t.Errorf("IsTerminal = %v, want %v", got, tt.terminal)
			}
		})
	}
}

func TestTask_CompletesAfterRetry(t *testing.T) {
	task := NewParseDocumentTask(ParseRequest{DownloadURL: "https://files.example.com/r.html"})

	task.MarkProcessing()
	if task.Status != TaskStatusProcessing || task.StartedAt == nil || task.Attempts != 1 {
		t.Fatalf("unexpected processing state: %+v", task)
	}
	if !task.CanRetry() {
		t.Fatal("first attempt should be retryable")
	}

	task.Retry("connection reset")
	if task.Status != TaskStatusPending || task.Error != "connection reset" {
		t.Fatalf("unexpected retry state: %+v", task)
	}
	if task.IsReady() {
		t.Error("retried task should wait for its backoff")
	}

	task.MarkProcessing()
	task.MarkCompleted(map[string]string{ResultOK: "true", ResultReportID: "rep-1"})

	if task.Status != TaskStatusCompleted || task.CompletedAt == nil {
		t.Fatalf("unexpected completed state: %+v", task)
	}
	if task.Error != "" {
		t.Error("completion should clear the last error")
	}
	if task.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", task.Attempts)
	}
	if task.Result[ResultReportID] != "rep-1" {
		t.Errorf("expected report id in result, got %v", task.Result)
	}
}

func TestTask_ExhaustsAttempts(t *testing.T) {
	task := NewParseDocumentTask(ParseRequest{DownloadURL: "https://files.example.com/r.html"})
	for i := 0; i < DefaultMaxAttempts; i++ {
		task.MarkProcessing()
	}
	if task.CanRetry() {
		t.Fatal("expected attempts exhausted")
	}

	task.MarkFailed("fetch failed")
	if task.Status != TaskStatusFailed || task.Error != "fetch failed" || task.CompletedAt == nil {
		t.Errorf("unexpected failed state: %+v", task)
	}
}

func TestRetryBackoff(t *testing.T) {
	tests := []struct {
		attempts int
		want     time.Duration
	}{
		{0, 2 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{8, 256 * time.Second},
		{9, RetryMaxDelay},
		{40, RetryMaxDelay},
	}

	for _, tt := range tests {
		if got := RetryBackoff(tt.attempts); got != tt.want {
			t.Errorf("RetryBackoff(%d) = %v, want %v", tt.attempts, got, tt.want)
		}
	}
}

func TestTask_RetrySchedulesBackoff(t *testing.T) {
	task := NewParseDocumentTask(ParseRequest{DownloadURL: "https://x"})
	task.Attempts = 3

	before := time.Now()
	task.Retry("timeout")

	lo := before.Add(RetryBackoff(3))
	hi := time.Now().Add(RetryBackoff(3))
	if task.ScheduledFor.Before(lo) || task.ScheduledFor.After(hi) {
		t.Errorf("expected ScheduledFor in [%v, %v], got %v", lo, hi, task.ScheduledFor)
	}
}
