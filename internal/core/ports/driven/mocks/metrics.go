package mocks

import (
	"sync"
	"time"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
)

var _ driven.JobMetrics = (*MockJobMetrics)(nil)

// MockJobMetrics counts recorded job events
type MockJobMetrics struct {
	mu       sync.Mutex
	enqueued int
	outcomes map[domain.JobOutcome]int
}

// NewMockJobMetrics creates a new MockJobMetrics
func NewMockJobMetrics() *MockJobMetrics {
	return &MockJobMetrics{outcomes: make(map[domain.JobOutcome]int)}
}

func (m *MockJobMetrics) JobEnqueued() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enqueued++
}

func (m *MockJobMetrics) JobFinished(outcome domain.JobOutcome, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
}

// Enqueued returns the number of JobEnqueued calls
func (m *MockJobMetrics) Enqueued() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enqueued
}

// Outcomes returns the number of JobFinished calls with outcome
func (m *MockJobMetrics) Outcomes(outcome domain.JobOutcome) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[outcome]
}
