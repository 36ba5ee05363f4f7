package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
)

var _ driven.ReportStore = (*MockReportStore)(nil)

// MockReportStore is a mock implementation of ReportStore for testing
type MockReportStore struct {
	mu      sync.RWMutex
	reports map[string]*domain.StoredReport

	// SaveErr, when set, is returned by Save
	SaveErr error
	// PingErr, when set, is returned by Ping
	PingErr error
}

// NewMockReportStore creates a new MockReportStore
func NewMockReportStore() *MockReportStore {
	return &MockReportStore{
		reports: make(map[string]*domain.StoredReport),
	}
}

func (m *MockReportStore) Save(ctx context.Context, report *domain.StoredReport) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[report.ID] = report
	return nil
}

func (m *MockReportStore) Get(ctx context.Context, id string) (*domain.StoredReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *MockReportStore) ListRecent(ctx context.Context, limit, offset int) ([]*domain.ReportSummary, error) {
	return m.list(func(*domain.StoredReport) bool { return true }, limit, offset), nil
}

func (m *MockReportStore) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.ReportSummary, error) {
	return m.list(func(r *domain.StoredReport) bool { return r.AccountID == accountID }, limit, offset), nil
}

func (m *MockReportStore) Ping(ctx context.Context) error {
	return m.PingErr
}

// Count returns the number of stored reports
func (m *MockReportStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.reports)
}

func (m *MockReportStore) list(keep func(*domain.StoredReport) bool, limit, offset int) []*domain.ReportSummary {
	m.mu.RLock()
	var matched []*domain.StoredReport
	for _, r := range m.reports {
		if keep(r) {
			matched = append(matched, r)
		}
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return []*domain.ReportSummary{}
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}

	out := make([]*domain.ReportSummary, 0, end-offset)
	for _, r := range matched[offset:end] {
		s := &domain.ReportSummary{
			ID:        r.ID,
			AccountID: r.AccountID,
			ObjectKey: r.ObjectKey,
			Vendor:    r.Vendor,
			Partial:   r.Partial,
			CreatedAt: r.CreatedAt,
		}
		if r.Report != nil {
			s.ReportDate = r.Report.ReportDate
		}
		out = append(out, s)
	}
	return out
}
