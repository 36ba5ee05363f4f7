// Package config loads service configuration from defaults, .env files,
// an optional YAML config file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
)

// Config holds the settings for every run mode.
type Config struct {
	// HTTP
	Host           string
	Port           int
	Version        string
	MaxUploadBytes int64
	CORSOrigins    []string

	// Logging
	LogLevel  string
	LogFormat string

	// PostgreSQL
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration

	// Redis
	RedisURL string
	CacheTTL time.Duration

	// Auth
	APIKeyHash string
	JWTSecret  string
	TokenTTL   time.Duration

	// Worker
	WorkerConcurrency    int
	WorkerDequeueTimeout int
	WorkerTaskTimeout    time.Duration

	// Fetcher
	FetchTimeout    time.Duration
	FetchMaxBytes   int64
	FetchMaxRetries int

	// Metrics
	MetricsEnabled bool
	MetricsPort    int // worker-only listener; 0 disables it

	// Policy
	PolicyFile string
	Policy     domain.Policy
}

// Keys, also the environment variable names
const (
	KeyHost                 = "HOST"
	KeyPort                 = "PORT"
	KeyMaxUploadBytes       = "MAX_UPLOAD_BYTES"
	KeyCORSOrigins          = "CORS_ORIGINS"
	KeyLogLevel             = "LOG_LEVEL"
	KeyLogFormat            = "LOG_FORMAT"
	KeyDatabaseURL          = "DATABASE_URL"
	KeyDBMaxOpenConns       = "DB_MAX_OPEN_CONNS"
	KeyDBMaxIdleConns       = "DB_MAX_IDLE_CONNS"
	KeyDBConnMaxLifetimeSec = "DB_CONN_MAX_LIFETIME_SEC"
	KeyDBConnMaxIdleSec     = "DB_CONN_MAX_IDLE_SEC"
	KeyRedisURL             = "REDIS_URL"
	KeyCacheTTLSec          = "CACHE_TTL_SEC"
	KeyAPIKeyHash           = "API_KEY_HASH"
	KeyJWTSecret            = "JWT_SECRET"
	KeyTokenTTLSec          = "TOKEN_TTL_SEC"
	KeyWorkerConcurrency    = "WORKER_CONCURRENCY"
	KeyWorkerDequeueTimeout = "WORKER_DEQUEUE_TIMEOUT"
	KeyWorkerTaskTimeoutSec = "WORKER_TASK_TIMEOUT_SEC"
	KeyFetchTimeoutSec      = "FETCH_TIMEOUT_SEC"
	KeyFetchMaxBytes        = "FETCH_MAX_BYTES"
	KeyFetchMaxRetries      = "FETCH_MAX_RETRIES"
	KeyPolicyFile           = "POLICY_FILE"
	KeyMetricsEnabled       = "METRICS_ENABLED"
	KeyMetricsPort          = "METRICS_PORT"
)

var defaults = map[string]any{
	KeyHost:                 "",
	KeyPort:                 8080,
	KeyMaxUploadBytes:       10 << 20,
	KeyCORSOrigins:          "",
	KeyLogLevel:             "info",
	KeyLogFormat:            "json",
	KeyDatabaseURL:          "",
	KeyDBMaxOpenConns:       25,
	KeyDBMaxIdleConns:       5,
	KeyDBConnMaxLifetimeSec: 300,
	KeyDBConnMaxIdleSec:     60,
	KeyRedisURL:             "",
	KeyCacheTTLSec:          3600,
	KeyAPIKeyHash:           "",
	KeyJWTSecret:            "",
	KeyTokenTTLSec:          3600,
	KeyWorkerConcurrency:    2,
	KeyWorkerDequeueTimeout: 5,
	KeyWorkerTaskTimeoutSec: 120,
	KeyFetchTimeoutSec:      30,
	KeyFetchMaxBytes:        10 << 20,
	KeyFetchMaxRetries:      2,
	KeyPolicyFile:           "",
	KeyMetricsEnabled:       true,
	KeyMetricsPort:          9090,
}

// Options controls where Load looks for configuration.
type Options struct {
	// ConfigFile is an optional YAML file whose keys match the env names
	ConfigFile string

	// EnvFiles are loaded with godotenv before the environment is read.
	// Missing files are skipped. Defaults to ".env".
	EnvFiles []string

	// Version is stamped into Config.Version
	Version string
}

// Load builds a Config. Precedence, highest first: environment, .env files,
// config file, defaults.
func Load(opts Options) (*Config, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	loadEnvFiles(envFiles)

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
		// AutomaticEnv only covers keys viper already knows about
		_ = v.BindEnv(k)
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", opts.ConfigFile, err)
		}
	}

	cfg := &Config{
		Host:                 v.GetString(KeyHost),
		Port:                 v.GetInt(KeyPort),
		Version:              opts.Version,
		MaxUploadBytes:       v.GetInt64(KeyMaxUploadBytes),
		CORSOrigins:          splitList(v.GetString(KeyCORSOrigins)),
		LogLevel:             v.GetString(KeyLogLevel),
		LogFormat:            v.GetString(KeyLogFormat),
		DatabaseURL:          v.GetString(KeyDatabaseURL),
		DBMaxOpenConns:       v.GetInt(KeyDBMaxOpenConns),
		DBMaxIdleConns:       v.GetInt(KeyDBMaxIdleConns),
		DBConnMaxLifetime:    seconds(v.GetInt(KeyDBConnMaxLifetimeSec)),
		DBConnMaxIdleTime:    seconds(v.GetInt(KeyDBConnMaxIdleSec)),
		RedisURL:             v.GetString(KeyRedisURL),
		CacheTTL:             seconds(v.GetInt(KeyCacheTTLSec)),
		APIKeyHash:           v.GetString(KeyAPIKeyHash),
		JWTSecret:            v.GetString(KeyJWTSecret),
		TokenTTL:             seconds(v.GetInt(KeyTokenTTLSec)),
		WorkerConcurrency:    v.GetInt(KeyWorkerConcurrency),
		WorkerDequeueTimeout: v.GetInt(KeyWorkerDequeueTimeout),
		WorkerTaskTimeout:    seconds(v.GetInt(KeyWorkerTaskTimeoutSec)),
		FetchTimeout:         seconds(v.GetInt(KeyFetchTimeoutSec)),
		FetchMaxBytes:        v.GetInt64(KeyFetchMaxBytes),
		FetchMaxRetries:      v.GetInt(KeyFetchMaxRetries),
		MetricsEnabled:       v.GetBool(KeyMetricsEnabled),
		MetricsPort:          v.GetInt(KeyMetricsPort),
		PolicyFile:           v.GetString(KeyPolicyFile),
		Policy:               domain.DefaultPolicy(),
	}

	if cfg.PolicyFile != "" {
		policy, err := LoadPolicy(cfg.PolicyFile)
		if err != nil {
			return nil, err
		}
		cfg.Policy = policy
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %s must be in 1..65535, got %d", domain.ErrInvalidInput, KeyPort, c.Port)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, KeyMaxUploadBytes)
	}
	if c.FetchMaxBytes <= 0 {
		return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, KeyFetchMaxBytes)
	}
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		return fmt.Errorf("%w: %s must be in 0..65535, got %d", domain.ErrInvalidInput, KeyMetricsPort, c.MetricsPort)
	}
	if c.WorkerConcurrency < 0 {
		return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, KeyWorkerConcurrency)
	}
	return c.Policy.Validate()
}

// AuthEnabled reports whether the API requires credentials.
func (c *Config) AuthEnabled() bool {
	return c.APIKeyHash != "" || c.JWTSecret != ""
}

// LoadPolicy reads a policy YAML file. Omitted thresholds keep their defaults.
func LoadPolicy(path string) (domain.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes and validates policy YAML.
func ParsePolicy(data []byte) (domain.Policy, error) {
	var p domain.Policy
	if err := yaml.UnmarshalWithOptions(data, &p, yaml.Strict()); err != nil {
		return domain.Policy{}, fmt.Errorf("%w: policy: %s", domain.ErrInvalidInput, yaml.FormatError(err, false, false))
	}
	p = p.WithDefaults()
	if err := p.Validate(); err != nil {
		return domain.Policy{}, err
	}
	return p, nil
}

func loadEnvFiles(files []string) {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		// godotenv.Load never overrides variables already set
		_ = godotenv.Load(f)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
