package driven

import (
	"context"
	"time"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
)

// ReportCache memoizes parse results keyed by payload fingerprint (Redis).
// Cache failures are never fatal to a parse.
type ReportCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, fingerprint string) (*domain.NormalizedReport, error)

	// Set stores a report for ttl.
	Set(ctx context.Context, fingerprint string, report *domain.NormalizedReport, ttl time.Duration) error

	// Delete removes an entry.
	Delete(ctx context.Context, fingerprint string) error
}
