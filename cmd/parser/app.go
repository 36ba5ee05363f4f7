package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/Fchery87/Rapid-CRM/internal/adapters/driven/auth"
	"github.com/Fchery87/Rapid-CRM/internal/adapters/driven/fetch"
	"github.com/Fchery87/Rapid-CRM/internal/adapters/driven/postgres"
	redisqueue "github.com/Fchery87/Rapid-CRM/internal/adapters/driven/queue/redis"
	redisadapter "github.com/Fchery87/Rapid-CRM/internal/adapters/driven/redis"
	"github.com/Fchery87/Rapid-CRM/internal/adapters/driving/http"
	"github.com/Fchery87/Rapid-CRM/internal/config"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driving"
	"github.com/Fchery87/Rapid-CRM/internal/core/services"
	"github.com/Fchery87/Rapid-CRM/internal/metrics"
	"github.com/Fchery87/Rapid-CRM/internal/pipeline"
)

// app holds the wired infrastructure for the api and worker modes.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	db          *postgres.DB
	redisClient *redis.Client

	queue       driven.TaskQueue
	metrics     *metrics.Metrics
	jobMetrics  driven.JobMetrics // nil when metrics are disabled
	credentials *auth.Adapter
	parser      driving.ParserService
	reports     driving.ReportService
	checks      map[string]http.Pinger
}

// newApp connects PostgreSQL (required) and Redis (optional; required when
// needQueue is set) and builds the services.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, needQueue bool) (*app, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%s is required", config.KeyDatabaseURL)
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		checks: make(map[string]http.Pinger),
	}

	// ===== PostgreSQL =====
	logger.Info("connecting to postgres")
	db, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		return nil, err
	}
	a.db = db
	if err := db.InitSchema(ctx); err != nil {
		a.Close()
		return nil, err
	}
	store := postgres.NewReportStore(db)
	a.checks["postgres"] = store

	// ===== Redis (optional) =====
	var cache driven.ReportCache
	if cfg.RedisURL != "" {
		logger.Info("connecting to redis")
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("parse %s: %w", config.KeyRedisURL, err)
		}
		a.redisClient = redis.NewClient(opts)
		if err := a.redisClient.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}

		cache = redisadapter.NewReportCache(a.redisClient)

		q, err := redisqueue.NewQueue(ctx, a.redisClient, redisqueue.Config{
			ConsumerName: consumerName(),
			Logger:       logger,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.queue = q
		a.checks["redis"] = q
	} else if needQueue {
		a.Close()
		return nil, fmt.Errorf("%s is required for the worker", config.KeyRedisURL)
	} else {
		logger.Warn("redis not configured: report cache and parse jobs disabled")
	}

	// ===== Metrics =====
	if cfg.MetricsEnabled {
		a.metrics = metrics.New(metrics.Config{Queue: a.queue, Logger: logger})
		a.jobMetrics = a.metrics
	}

	// ===== Services =====
	a.credentials = auth.NewAdapter(auth.Config{
		APIKeyHash: cfg.APIKeyHash,
		JWTSecret:  cfg.JWTSecret,
	})
	if !a.credentials.Enabled() {
		logger.Warn("no API key or JWT secret configured: the API is open")
	}

	fetcher := fetch.New(fetch.Config{
		Timeout:    cfg.FetchTimeout,
		MaxBytes:   cfg.FetchMaxBytes,
		MaxRetries: cfg.FetchMaxRetries,
		Logger:     logger,
	})

	a.parser = services.NewParserService(services.ParserServiceConfig{
		Pipeline: pipeline.New(pipeline.Config{Policy: cfg.Policy, Logger: logger}),
		Store:    store,
		Cache:    cache,
		Fetcher:  fetcher,
		Queue:    a.queue,
		Metrics:  a.jobMetrics,
		CacheTTL: cfg.CacheTTL,
		Logger:   logger,
	})
	a.reports = services.NewReportService(store, cfg.Policy, logger)

	return a, nil
}

// Close releases connections
func (a *app) Close() {
	var errs []error
	if a.redisClient != nil {
		errs = append(errs, a.redisClient.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("close failed", "error", err)
	}
}

func consumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
