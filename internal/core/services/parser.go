package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driving"
)

// Ensure parserService implements ParserService
var _ driving.ParserService = (*parserService)(nil)

// DefaultCacheTTL is how long parse results stay cached.
const DefaultCacheTTL = 24 * time.Hour

// Pipeline is the pure parse pipeline the service drives.
type Pipeline interface {
	Run(doc domain.RawDocument) (*domain.NormalizedReport, error)
	Classify(doc domain.RawDocument) driven.Classification
	Vendors() []domain.VendorInfo
}

// ParserServiceConfig holds configuration for the parser service.
type ParserServiceConfig struct {
	Pipeline Pipeline
	Store    driven.ReportStore     // Required for ParseAndStore / ParseFromURL
	Cache    driven.ReportCache     // Optional: memoizes reports by payload fingerprint
	Fetcher  driven.DocumentFetcher // Required for ParseFromURL
	Queue    driven.TaskQueue       // Required for Enqueue / JobStatus
	Metrics  driven.JobMetrics      // Optional
	CacheTTL time.Duration          // default: 24h
	Logger   *slog.Logger
}

// parserService implements the ParserService interface
type parserService struct {
	pipeline Pipeline
	store    driven.ReportStore
	cache    driven.ReportCache
	fetcher  driven.DocumentFetcher
	queue    driven.TaskQueue
	metrics  driven.JobMetrics
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewParserService creates a new ParserService
func NewParserService(cfg ParserServiceConfig) driving.ParserService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &parserService{
		pipeline: cfg.Pipeline,
		store:    cfg.Store,
		cache:    cfg.Cache,
		fetcher:  cfg.Fetcher,
		queue:    cfg.Queue,
		metrics:  cfg.Metrics,
		cacheTTL: ttl,
		logger:   logger,
	}
}

// Parse runs the pipeline. Identical payloads are served from the cache with
// the caller's correlation ids stamped on the copy.
func (s *parserService) Parse(ctx context.Context, doc domain.RawDocument) (*domain.NormalizedReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fingerprint := doc.Fingerprint()
	if s.cache != nil && !doc.IsEmpty() {
		cached, err := s.cache.Get(ctx, fingerprint)
		if err != nil {
			s.logger.Warn("report cache read failed", "object_key", doc.ObjectKey, "error", err)
		} else if cached != nil {
			s.logger.Debug("report cache hit", "object_key", doc.ObjectKey, "vendor", cached.Vendor)
			return cached.WithCorrelation(doc.ObjectKey, doc.AccountID), nil
		}
	}

	report, err := s.pipeline.Run(doc)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, fingerprint, report, s.cacheTTL); err != nil {
			s.logger.Warn("report cache write failed", "object_key", doc.ObjectKey, "error", err)
		}
	}
	return report, nil
}

// ParseAndStore parses a document and persists the report
func (s *parserService) ParseAndStore(ctx context.Context, doc domain.RawDocument) (*domain.StoredReport, error) {
	if s.store == nil {
		return nil, fmt.Errorf("report store: %w", domain.ErrServiceUnavailable)
	}

	report, err := s.Parse(ctx, doc)
	if err != nil {
		return nil, err
	}

	stored := domain.NewStoredReport(report)
	if err := s.store.Save(ctx, stored); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	s.logger.Info("report stored",
		"report_id", stored.ID,
		"object_key", stored.ObjectKey,
		"account_id", stored.AccountID,
		"vendor", stored.Vendor,
		"partial", stored.Partial,
	)
	return stored, nil
}

// ParseFromURL fetches, parses and persists a remote document
func (s *parserService) ParseFromURL(ctx context.Context, req domain.ParseRequest) (*domain.StoredReport, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}
	if s.fetcher == nil {
		return nil, fmt.Errorf("document fetcher: %w", domain.ErrServiceUnavailable)
	}

	fetched, err := s.fetcher.Fetch(ctx, req.DownloadURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	doc := domain.NewRawDocument(fetched.Payload, fetched.MediaType, req.ObjectKey, req.AccountID)
	return s.ParseAndStore(ctx, doc)
}

// Enqueue schedules ParseFromURL on a worker
func (s *parserService) Enqueue(ctx context.Context, req domain.ParseRequest) (*domain.Task, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}
	if s.queue == nil {
		return nil, fmt.Errorf("task queue: %w", domain.ErrServiceUnavailable)
	}

	task := domain.NewParseDocumentTask(req)
	if err := s.queue.Enqueue(ctx, task); err != nil {
		return nil, fmt.Errorf("enqueue parse job: %w", err)
	}
	if s.metrics != nil {
		s.metrics.JobEnqueued()
	}

	s.logger.Info("parse job enqueued",
		"task_id", task.ID,
		"object_key", req.ObjectKey,
		"account_id", req.AccountID,
	)
	return task, nil
}

// JobStatus returns a queued job
func (s *parserService) JobStatus(ctx context.Context, taskID string) (*domain.Task, error) {
	if s.queue == nil {
		return nil, fmt.Errorf("task queue: %w", domain.ErrServiceUnavailable)
	}
	task, err := s.queue.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrNotFound
	}
	return task, nil
}

// Classify reports which vendor profile a document matches
func (s *parserService) Classify(doc domain.RawDocument) (domain.VendorInfo, float64) {
	c := s.pipeline.Classify(doc)
	return c.Vendor, c.Confidence
}

// Vendors lists registered vendor profiles
func (s *parserService) Vendors() []domain.VendorInfo {
	return s.pipeline.Vendors()
}

// normalizeRequest requires a download URL; the object key defaults to it.
func normalizeRequest(req domain.ParseRequest) (domain.ParseRequest, error) {
	req.DownloadURL = strings.TrimSpace(req.DownloadURL)
	req.ObjectKey = strings.TrimSpace(req.ObjectKey)
	req.AccountID = strings.TrimSpace(req.AccountID)
	if req.DownloadURL == "" {
		return req, fmt.Errorf("%w: downloadUrl is required", domain.ErrInvalidInput)
	}
	if req.ObjectKey == "" {
		req.ObjectKey = req.DownloadURL
	}
	return req, nil
}
