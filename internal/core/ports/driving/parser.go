package driving

import (
	"context"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
)

// ParserService turns credit-report documents into NormalizedReports.
// Parse failures are returned as *domain.ParseFailedError.
type ParserService interface {
	// Parse runs the pipeline over an in-memory document (cached by payload fingerprint)
	Parse(ctx context.Context, doc domain.RawDocument) (*domain.NormalizedReport, error)

	// ParseAndStore parses a document and persists the report
	ParseAndStore(ctx context.Context, doc domain.RawDocument) (*domain.StoredReport, error)

	// ParseFromURL fetches, parses and persists a remote document
	ParseFromURL(ctx context.Context, req domain.ParseRequest) (*domain.StoredReport, error)

	// Enqueue schedules ParseFromURL on a worker
	Enqueue(ctx context.Context, req domain.ParseRequest) (*domain.Task, error)

	// JobStatus returns a queued job. Returns domain.ErrNotFound when unknown.
	JobStatus(ctx context.Context, taskID string) (*domain.Task, error)

	// Classify reports which vendor profile a document matches
	Classify(doc domain.RawDocument) (domain.VendorInfo, float64)

	// Vendors lists registered vendor profiles
	Vendors() []domain.VendorInfo
}
