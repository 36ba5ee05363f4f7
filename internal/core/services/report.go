package services

import (
	"context"
	"log/slog"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driving"
)

// Ensure reportService implements ReportService
var _ driving.ReportService = (*reportService)(nil)

// List pagination bounds
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// reportService implements the ReportService interface
type reportService struct {
	store  driven.ReportStore
	policy domain.Policy
	logger *slog.Logger
}

// NewReportService creates a new ReportService
func NewReportService(store driven.ReportStore, policy domain.Policy, logger *slog.Logger) driving.ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &reportService{
		store:  store,
		policy: policy.WithDefaults(),
		logger: logger,
	}
}

// Get retrieves a stored report by ID
func (s *reportService) Get(ctx context.Context, id string) (*domain.StoredReport, error) {
	return s.store.Get(ctx, id)
}

// List lists reports newest first, optionally filtered by account
func (s *reportService) List(ctx context.Context, accountID string, limit, offset int) ([]*domain.ReportSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	if accountID == "" {
		return s.store.ListRecent(ctx, limit, offset)
	}
	return s.store.ListByAccount(ctx, accountID, limit, offset)
}

// Audit builds the audit view of a stored report
func (s *reportService) Audit(ctx context.Context, id string) (*domain.Audit, error) {
	stored, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored.Report == nil {
		s.logger.Error("stored report has no document", "report_id", id)
		return nil, domain.ErrNotFound
	}

	audit := BuildAudit(stored.Report, s.policy)
	audit.ReportID = stored.ID
	return audit, nil
}
