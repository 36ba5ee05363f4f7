package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
)

var _ driven.ReportCache = (*MockReportCache)(nil)

// MockReportCache is a mock implementation of ReportCache for testing.
// TTLs are recorded but never expire entries.
type MockReportCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.NormalizedReport
	ttls    map[string]time.Duration

	// Err, when set, is returned by every operation
	Err error
}

// NewMockReportCache creates a new MockReportCache
func NewMockReportCache() *MockReportCache {
	return &MockReportCache{
		entries: make(map[string]*domain.NormalizedReport),
		ttls:    make(map[string]time.Duration),
	}
}

func (m *MockReportCache) Get(ctx context.Context, fingerprint string) (*domain.NormalizedReport, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[fingerprint], nil
}

func (m *MockReportCache) Set(ctx context.Context, fingerprint string, report *domain.NormalizedReport, ttl time.Duration) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[fingerprint] = report
	m.ttls[fingerprint] = ttl
	return nil
}

func (m *MockReportCache) Delete(ctx context.Context, fingerprint string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, fingerprint)
	delete(m.ttls, fingerprint)
	return nil
}

// Len returns the number of cached entries
func (m *MockReportCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// TTL returns the ttl an entry was stored with
func (m *MockReportCache) TTL(fingerprint string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ttls[fingerprint]
}
