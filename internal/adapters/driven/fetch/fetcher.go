// Package fetch retrieves source documents for the parse service.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
	"github.com/Fchery87/Rapid-CRM/internal/vendors/samples"
)

// Verify interface compliance
var _ driven.DocumentFetcher = (*Fetcher)(nil)

// Defaults
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxBytes   = 10 << 20
	DefaultMaxRetries = 2

	// InlineScheme serves bundled sample documents ("inline:dummy" serves the demo report)
	InlineScheme = "inline"
)

// Config holds fetcher configuration
type Config struct {
	// Timeout bounds each HTTP attempt
	Timeout time.Duration

	// MaxBytes caps the payload size
	MaxBytes int64

	// MaxRetries is how many times a 5xx response is retried
	MaxRetries int

	// RetryDelay is the base backoff between retries (multiplied by attempt)
	RetryDelay time.Duration

	// HTTPClient overrides the default client
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Fetcher implements driven.DocumentFetcher for http, https and inline URLs.
type Fetcher struct {
	httpClient *http.Client
	maxBytes   int64
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// New creates a Fetcher
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Fetcher{
		httpClient: cfg.HTTPClient,
		maxBytes:   cfg.MaxBytes,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
	}
}

// Fetch retrieves the document behind rawURL
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*driven.FetchedDocument, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return f.fetchHTTP(ctx, u.String())
	case InlineScheme:
		return f.fetchInline(u.Opaque)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedScheme, u.Scheme)
	}
}

// fetchInline serves a bundled sample by name, or the demo report for any
// other name.
func (f *Fetcher) fetchInline(name string) (*driven.FetchedDocument, error) {
	payload, err := samples.Get(name)
	if err != nil {
		payload = samples.MustGet(samples.DemoReport)
	}
	return &driven.FetchedDocument{Payload: payload, MediaType: "text/html; charset=utf-8"}, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, target string) (*driven.FetchedDocument, error) {
	var resp *http.Response
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "text/html, text/plain;q=0.9, */*;q=0.5")

		resp, err = f.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", redact(target), err)
		}
		if resp.StatusCode < 500 {
			break
		}

		resp.Body.Close()
		if attempt == f.maxRetries {
			return nil, fmt.Errorf("fetch %s: server error %d", redact(target), resp.StatusCode)
		}
		f.logger.Debug("retrying document fetch", "url", redact(target), "status", resp.StatusCode, "attempt", attempt+1)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * f.retryDelay):
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("fetch %s: %w", redact(target), domain.ErrNotFound)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("fetch %s: unexpected status %d", redact(target), resp.StatusCode)
	}

	if resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", domain.ErrDocumentTooLarge, resp.ContentLength, f.maxBytes)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(payload)) > f.maxBytes {
		return nil, fmt.Errorf("%w: limit %d bytes", domain.ErrDocumentTooLarge, f.maxBytes)
	}

	return &driven.FetchedDocument{
		Payload:   payload,
		MediaType: resp.Header.Get("Content-Type"),
	}, nil
}

// redact drops the query string, which often carries signed credentials
func redact(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return "<invalid url>"
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}
