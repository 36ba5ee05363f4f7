package driven

import (
	"context"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
)

// ReportStore handles normalized report persistence (PostgreSQL)
type ReportStore interface {
	// Save stores a report
	Save(ctx context.Context, report *domain.StoredReport) error

	// Get retrieves a report by ID. Returns domain.ErrNotFound when missing.
	Get(ctx context.Context, id string) (*domain.StoredReport, error)

	// ListRecent lists reports newest first
	ListRecent(ctx context.Context, limit, offset int) ([]*domain.ReportSummary, error)

	// ListByAccount lists an account's reports newest first
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.ReportSummary, error)

	// Ping checks the store is reachable
	Ping(ctx context.Context) error
}
