package driven

import (
	"time"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
)

// JobMetrics records parse job lifecycle events.
// Implementations must be safe for concurrent use.
type JobMetrics interface {
	JobEnqueued()
	JobFinished(outcome domain.JobOutcome, duration time.Duration)
}
