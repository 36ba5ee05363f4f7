package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ReportStore = (*ReportStore)(nil)

const summaryColumns = `id, account_id, object_key, vendor, COALESCE(to_char(report_date, 'YYYY-MM-DD'), ''), partial, created_at`

// ReportStore implements driven.ReportStore using PostgreSQL.
// The full NormalizedReport is kept as JSONB; list columns are denormalized.
type ReportStore struct {
	db *DB
}

// NewReportStore creates a new ReportStore
func NewReportStore(db *DB) *ReportStore {
	return &ReportStore{db: db}
}

// Save creates or updates a report
func (s *ReportStore) Save(ctx context.Context, report *domain.StoredReport) error {
	if report == nil || report.Report == nil {
		return fmt.Errorf("%w: report is required", domain.ErrInvalidInput)
	}
	document, err := json.Marshal(report.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO credit_reports (id, account_id, object_key, vendor, report_date, partial, document, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			account_id = EXCLUDED.account_id,
			object_key = EXCLUDED.object_key,
			vendor = EXCLUDED.vendor,
			report_date = EXCLUDED.report_date,
			partial = EXCLUDED.partial,
			document = EXCLUDED.document
	`

	_, err = s.db.ExecContext(ctx, query,
		report.ID,
		report.AccountID,
		report.ObjectKey,
		report.Vendor,
		NullString(report.Report.ReportDate),
		report.Partial,
		document,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// Get retrieves a report by ID
func (s *ReportStore) Get(ctx context.Context, id string) (*domain.StoredReport, error) {
	query := `
		SELECT id, account_id, object_key, vendor, partial, document, created_at
		FROM credit_reports
		WHERE id = $1
	`

	var (
		stored   domain.StoredReport
		document []byte
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&stored.ID,
		&stored.AccountID,
		&stored.ObjectKey,
		&stored.Vendor,
		&stored.Partial,
		&document,
		&stored.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report domain.NormalizedReport
	if err := json.Unmarshal(document, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	stored.Report = &report
	return &stored, nil
}

// ListRecent lists reports newest first
func (s *ReportStore) ListRecent(ctx context.Context, limit, offset int) ([]*domain.ReportSummary, error) {
	query := `SELECT ` + summaryColumns + `
		FROM credit_reports
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// ListByAccount lists an account's reports newest first
func (s *ReportStore) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.ReportSummary, error) {
	query := `SELECT ` + summaryColumns + `
		FROM credit_reports
		WHERE account_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// Ping checks the database is reachable
func (s *ReportStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func scanSummaries(rows *sql.Rows) ([]*domain.ReportSummary, error) {
	summaries := make([]*domain.ReportSummary, 0)
	for rows.Next() {
		var sum domain.ReportSummary
		if err := rows.Scan(
			&sum.ID,
			&sum.AccountID,
			&sum.ObjectKey,
			&sum.Vendor,
			&sum.ReportDate,
			&sum.Partial,
			&sum.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		summaries = append(summaries, &sum)
	}
	return summaries, rows.Err()
}
