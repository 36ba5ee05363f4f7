package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.ReportCache = (*ReportCache)(nil)

// reportPrefix namespaces cached reports by payload fingerprint
const reportPrefix = "rapidcrm:report:"

// ReportCache implements driven.ReportCache using Redis.
// Entries expire through Redis TTL.
type ReportCache struct {
	client *redis.Client
}

// NewReportCache creates a new Redis-backed ReportCache
func NewReportCache(client *redis.Client) *ReportCache {
	return &ReportCache{client: client}
}

// Get returns the cached report for a fingerprint, or nil on a miss
func (c *ReportCache) Get(ctx context.Context, fingerprint string) (*domain.NormalizedReport, error) {
	data, err := c.client.Get(ctx, reportPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached report: %w", err)
	}

	var report domain.NormalizedReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached report: %w", err)
	}
	return &report, nil
}

// Set stores a report for ttl. A non-positive ttl stores nothing.
func (c *ReportCache) Set(ctx context.Context, fingerprint string, report *domain.NormalizedReport, ttl time.Duration) error {
	if report == nil || ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := c.client.Set(ctx, reportPrefix+fingerprint, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

// Delete removes an entry
func (c *ReportCache) Delete(ctx context.Context, fingerprint string) error {
	if err := c.client.Del(ctx, reportPrefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("failed to delete cached report: %w", err)
	}
	return nil
}
