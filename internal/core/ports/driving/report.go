package driving

import (
	"context"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
)

// ReportService provides read-only access to stored reports
type ReportService interface {
	// Get retrieves a stored report by ID
	Get(ctx context.Context, id string) (*domain.StoredReport, error)

	// List lists reports newest first, optionally for one account
	List(ctx context.Context, accountID string, limit, offset int) ([]*domain.ReportSummary, error)

	// Audit builds the audit view of a stored report
	Audit(ctx context.Context, id string) (*domain.Audit, error)
}
