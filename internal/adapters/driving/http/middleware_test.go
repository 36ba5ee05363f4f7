package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven/mocks"
	"github.com/Fchery87/Rapid-CRM/internal/metrics"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{
			name:     "valid bearer token",
			header:   "Bearer abc123",
			expected: "abc123",
		},
		{
			name:     "bearer with extra spaces",
			header:   "Bearer   token-with-spaces   ",
			expected: "token-with-spaces",
		},
		{
			name:     "lowercase bearer",
			header:   "bearer token123",
			expected: "token123",
		},
		{
			name:     "empty header",
			header:   "",
			expected: "",
		},
		{
			name:     "basic auth",
			header:   "Basic dXNlcjpwYXNz",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			result := extractBearerToken(req)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func principalEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := GetPrincipal(r.Context())
		if p == nil {
			writeError(w, http.StatusInternalServerError, "no principal")
			return
		}
		writeJSON(w, http.StatusOK, p)
	})
}

func TestAuthenticate(t *testing.T) {
	verifier := mocks.NewMockCredentialVerifier("secret-key", true)
	readToken, _ := verifier.GenerateToken(domain.NewTokenClaims("reader", []string{domain.ScopeRead}, time.Hour))
	expired, _ := verifier.GenerateToken(&domain.TokenClaims{Subject: "old", Scopes: []string{"*"}, ExpiresAt: time.Now().Add(-time.Minute).Unix()})

	tests := []struct {
		name        string
		apiKey      string
		bearer      string
		scope       string
		wantCode    int
		wantSubject string
	}{
		{"api key", "secret-key", "", domain.ScopeParse, http.StatusOK, "api-key"},
		{"wrong api key", "nope", "", domain.ScopeRead, http.StatusUnauthorized, ""},
		{"token with scope", "", readToken, domain.ScopeRead, http.StatusOK, "reader"},
		{"token without scope", "", readToken, domain.ScopeParse, http.StatusForbidden, ""},
		{"expired token", "", expired, domain.ScopeRead, http.StatusUnauthorized, ""},
		{"garbage token", "", "!!!", domain.ScopeRead, http.StatusUnauthorized, ""},
		{"no credentials", "", "", domain.ScopeRead, http.StatusUnauthorized, ""},
	}

	mw := NewAuthMiddleware(verifier)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.apiKey != "" {
				req.Header.Set(APIKeyHeader, tt.apiKey)
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}

			rr := httptest.NewRecorder()
			mw.Authenticate(principalEcho(), tt.scope).ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d: %s", tt.wantCode, rr.Code, rr.Body.String())
			}
			if tt.wantSubject != "" && !strings.Contains(rr.Body.String(), `"subject":"`+tt.wantSubject+`"`) {
				t.Errorf("unexpected principal: %s", rr.Body.String())
			}
		})
	}
}

func TestAuthenticate_OpenWhenUnconfigured(t *testing.T) {
	for name, mw := range map[string]*AuthMiddleware{
		"nil verifier":      NewAuthMiddleware(nil),
		"disabled verifier": NewAuthMiddleware(mocks.NewMockCredentialVerifier("", false)),
	} {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			mw.Authenticate(principalEcho(), domain.ScopeParse).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), `"method":"anonymous"`) {
				t.Errorf("expected anonymous principal: %s", rr.Body.String())
			}
		})
	}
}

func TestGetPrincipal(t *testing.T) {
	if GetPrincipal(context.Background()) != nil {
		t.Error("expected nil for context without principal")
	}
	ctx := context.WithValue(context.Background(), principalContextKey, domain.AnonymousPrincipal)
	if GetPrincipal(ctx) != domain.AnonymousPrincipal {
		t.Error("expected principal from context")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	h := NewRecoveryMiddleware(logger).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rr.Code)
	}
	if !strings.Contains(logs.String(), "panic recovered") {
		t.Errorf("expected panic to be logged, got %q", logs.String())
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	h := NewLoggingMiddleware(logger).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/brew", nil))

	out := logs.String()
	if !strings.Contains(out, `"status":418`) || !strings.Contains(out, `"path":"/brew"`) {
		t.Errorf("unexpected log line: %s", out)
	}
}

func TestCORSMiddleware(t *testing.T) {
	h := NewCORSMiddleware([]string{"https://app.example.com"}).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/parse", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected preflight 204, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "https://app.example.com" {
		t.Error("expected allowed origin header")
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Headers"), APIKeyHeader) {
		t.Error("expected API key header to be allowed")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unexpected CORS header for disallowed origin")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		header string
		echo   bool
	}{
		{name: "echoes caller id", header: "req-7f3a.42", echo: true},
		{name: "generates when missing", header: ""},
		{name: "replaces id with spaces", header: "bad id"},
		{name: "replaces header injection", header: "abc\r\nSet-Cookie: x"},
		{name: "replaces oversized id", header: strings.Repeat("a", maxRequestIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := NewRequestIDMiddleware().Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.header != "" {
				req.Header[RequestIDHeader] = []string{tt.header}
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			got := rr.Header().Get(RequestIDHeader)
			if got == "" {
				t.Fatal("expected X-Request-ID on the response")
			}
			if got != seen {
				t.Errorf("context id %q differs from header %q", seen, got)
			}
			if tt.echo && got != tt.header {
				t.Errorf("expected caller id echoed, got %q", got)
			}
			if !tt.echo && got == tt.header {
				t.Errorf("expected a generated id, got caller's %q", got)
			}
		})
	}
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	h := NewRequestIDMiddleware().Handler(NewLoggingMiddleware(logger).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(logs.String(), `"request_id":"trace-123"`) {
		t.Errorf("expected request_id in log line: %s", logs.String())
	}
}

func TestMetricsMiddleware_RouteLabels(t *testing.T) {
	m := metrics.New(metrics.Config{})
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/reports/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.Handle("GET /metrics", m.Handler())
	h := NewMetricsMiddleware(m).Handler(mux)

	for _, path := range []string{"/api/v1/reports/a1", "/api/v1/reports/b2", "/nowhere"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()

	if !strings.Contains(body, `http_requests_total{method="GET",route="GET /api/v1/reports/{id}",status="404"} 2`) {
		t.Errorf("expected requests counted by pattern:\n%s", body)
	}
	if !strings.Contains(body, `route="unmatched"`) {
		t.Errorf("expected unmatched route label:\n%s", body)
	}
	if strings.Contains(body, "/api/v1/reports/a1") {
		t.Error("raw paths must not become labels")
	}
}
