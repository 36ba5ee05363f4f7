package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven/mocks"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driving"
	"github.com/Fchery87/Rapid-CRM/internal/core/services"
	"github.com/Fchery87/Rapid-CRM/internal/metrics"
	"github.com/Fchery87/Rapid-CRM/internal/pipeline"
	"github.com/Fchery87/Rapid-CRM/internal/vendors/samples"
)

type testEnv struct {
	server  *Server
	handler http.Handler
	store   *mocks.MockReportStore
	fetcher *mocks.MockFetcher
	queue   *mocks.MockTaskQueue
}

func newTestEnv(t *testing.T, credentials *mocks.MockCredentialVerifier) *testEnv {
	t.Helper()
	store := mocks.NewMockReportStore()
	fetcher := mocks.NewMockFetcher()
	queue := mocks.NewMockTaskQueue()

	parser := services.NewParserService(services.ParserServiceConfig{
		Pipeline: pipeline.New(pipeline.Config{}),
		Store:    store,
		Cache:    mocks.NewMockReportCache(),
		Fetcher:  fetcher,
		Queue:    queue,
	})
	reports := services.NewReportService(store, domain.DefaultPolicy(), nil)

	cfg := DefaultConfig()
	cfg.Version = "1.2.3"
	cfg.MaxUploadBytes = 1 << 20

	var verifier = credentials
	if verifier == nil {
		verifier = mocks.NewMockCredentialVerifier("", false)
	}
	s := NewServer(cfg, parser, reports, verifier, map[string]Pinger{"postgres": store})
	return &testEnv{server: s, handler: s.Handler(), store: store, fetcher: fetcher, queue: queue}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func uploadRequest(t *testing.T, target string, payload []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if payload != nil {
		part, err := mw.CreateFormFile("file", "report.html")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = part.Write(payload)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(method, target string, v interface{}) *http.Request {
	data, _ := json.Marshal(v)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v (body %q)", err, rr.Body.String())
	}
}

// Health endpoints

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	rr := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp StatusResponse
	decode(t, rr, &resp)
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %s", resp.Status)
	}
}

func TestHandleReady(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	env.store.PingErr = errors.New("connection refused")
	rr = env.do(httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
	var resp ReadyResponse
	decode(t, rr, &resp)
	if resp.Checks["postgres"] != "unavailable" {
		t.Errorf("checks = %v", resp.Checks)
	}
}

func TestHandleVersion(t *testing.T) {
	env := newTestEnv(t, nil)
	rr := env.do(httptest.NewRequest(http.MethodGet, "/version", nil))

	var resp VersionResponse
	decode(t, rr, &resp)
	if resp.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", resp.Version)
	}
}

// Parse endpoints

func TestHandleParse_Demo(t *testing.T) {
	env := newTestEnv(t, nil)
	req := uploadRequest(t, "/api/v1/parse", samples.MustGet(samples.DemoReport), map[string]string{"accountId": "acct-9"})

	rr := env.do(req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var report domain.NormalizedReport
	decode(t, rr, &report)
	if !report.OK || report.Vendor != "demo-vendor" {
		t.Errorf("unexpected report header: ok=%v vendor=%s", report.OK, report.Vendor)
	}
	if report.ObjectKey != UploadObjectKey || report.AccountID != "acct-9" {
		t.Errorf("correlation ids = %q/%q", report.ObjectKey, report.AccountID)
	}
	if len(report.Bureaus) != 3 {
		t.Errorf("expected 3 bureau scores, got %d", len(report.Bureaus))
	}
	if env.store.Count() != 0 {
		t.Error("plain parse should not persist")
	}
}

func TestHandleParse_Store(t *testing.T) {
	env := newTestEnv(t, nil)
	req := uploadRequest(t, "/api/v1/parse?store=true", samples.MustGet(samples.GridReport), map[string]string{"objectKey": "uploads/grid.html"})

	rr := env.do(req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var stored domain.StoredReport
	decode(t, rr, &stored)
	if stored.ID == "" || stored.ObjectKey != "uploads/grid.html" {
		t.Errorf("unexpected stored report: %+v", stored)
	}
	if env.store.Count() != 1 {
		t.Errorf("expected 1 stored report, got %d", env.store.Count())
	}
}

func TestHandleParse_Failures(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name     string
		req      *http.Request
		wantCode int
		wantKind string
	}{
		{
			name:     "missing file",
			req:      uploadRequest(t, "/api/v1/parse", nil, nil),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "empty document",
			req:      uploadRequest(t, "/api/v1/parse", []byte("   "), nil),
			wantCode: http.StatusUnprocessableEntity,
			wantKind: domain.ParseFailureEmptyDocument,
		},
		{
			name:     "too large",
			req:      uploadRequest(t, "/api/v1/parse", bytes.Repeat([]byte("x"), (1<<20)+10), nil),
			wantCode: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(tt.req)
			if rr.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d: %s", tt.wantCode, rr.Code, rr.Body.String())
			}
			if tt.wantKind == "" {
				return
			}
			var resp struct {
				OK    bool `json:"ok"`
				Error struct {
					Kind      string `json:"kind"`
					Message   string `json:"message"`
					ObjectKey string `json:"objectKey"`
				} `json:"error"`
			}
			decode(t, rr, &resp)
			if resp.OK || resp.Error.Kind != tt.wantKind || resp.Error.ObjectKey != UploadObjectKey {
				t.Errorf("unexpected failure body: %+v", resp)
			}
		})
	}
}

func TestHandleParseFromURL(t *testing.T) {
	env := newTestEnv(t, nil)
	env.fetcher.Add("https://files.example.com/r.html", samples.MustGet(samples.DemoReport), "text/html")

	rr := env.do(jsonRequest(http.MethodPost, "/api/v1/parse-from-url", domain.ParseRequest{
		DownloadURL: "https://files.example.com/r.html",
		AccountID:   "acct-1",
	}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var stored domain.StoredReport
	decode(t, rr, &stored)
	if stored.ObjectKey != "https://files.example.com/r.html" {
		t.Errorf("objectKey should default to the URL, got %q", stored.ObjectKey)
	}
}

func TestHandleParseFromURL_Errors(t *testing.T) {
	env := newTestEnv(t, nil)
	env.fetcher.Fail("ftp://files/r.html", domain.ErrUnsupportedScheme)
	env.fetcher.Fail("https://big", fmt.Errorf("%w: 20MB", domain.ErrDocumentTooLarge))
	env.fetcher.Fail("https://down", errors.New("connection refused"))

	tests := []struct {
		name     string
		body     interface{}
		wantCode int
	}{
		{"bad json", "not-an-object", http.StatusBadRequest},
		{"missing url", domain.ParseRequest{}, http.StatusBadRequest},
		{"unsupported scheme", domain.ParseRequest{DownloadURL: "ftp://files/r.html"}, http.StatusBadRequest},
		{"too large", domain.ParseRequest{DownloadURL: "https://big"}, http.StatusRequestEntityTooLarge},
		{"fetch failed", domain.ParseRequest{DownloadURL: "https://down"}, http.StatusBadGateway},
		{"remote missing", domain.ParseRequest{DownloadURL: "https://nowhere"}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(jsonRequest(http.MethodPost, "/api/v1/parse-from-url", tt.body))
			if rr.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d: %s", tt.wantCode, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHandleParseJobs(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(jsonRequest(http.MethodPost, "/api/v1/parse-jobs", domain.ParseRequest{DownloadURL: "inline:dummy"}))
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", rr.Code, rr.Body.String())
	}
	var task domain.Task
	decode(t, rr, &task)
	if task.ID == "" || task.Status != domain.TaskStatusPending {
		t.Errorf("unexpected task: %+v", task)
	}

	rr = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/parse-jobs/"+task.ID, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	rr = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/parse-jobs/unknown", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

// Report endpoints

func storeDemo(t *testing.T, env *testEnv, accountID string) *domain.StoredReport {
	t.Helper()
	req := uploadRequest(t, "/api/v1/parse?store=true", samples.MustGet(samples.DemoReport), map[string]string{"accountId": accountID})
	rr := env.do(req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("store failed: %d %s", rr.Code, rr.Body.String())
	}
	var stored domain.StoredReport
	decode(t, rr, &stored)
	return &stored
}

func TestHandleReports(t *testing.T) {
	env := newTestEnv(t, nil)
	first := storeDemo(t, env, "acct-1")
	storeDemo(t, env, "acct-2")

	rr := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil))
	var all ListReportsResponse
	decode(t, rr, &all)
	if len(all.Reports) != 2 {
		t.Errorf("expected 2 reports, got %d", len(all.Reports))
	}

	rr = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/reports?accountId=acct-1&limit=5", nil))
	var filtered ListReportsResponse
	decode(t, rr, &filtered)
	if len(filtered.Reports) != 1 || filtered.Reports[0].ID != first.ID {
		t.Errorf("unexpected filtered list: %+v", filtered.Reports)
	}
	if filtered.Limit != 5 {
		t.Errorf("limit = %d", filtered.Limit)
	}

	rr = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/reports?limit=abc", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for bad limit, got %d", rr.Code)
	}

	rr = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+first.ID, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var got domain.StoredReport
	decode(t, rr, &got)
	if got.Report == nil || got.Report.Vendor != "demo-vendor" {
		t.Errorf("unexpected stored report: %+v", got)
	}

	rr = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/reports/missing", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleReportAudit(t *testing.T) {
	env := newTestEnv(t, nil)
	stored := storeDemo(t, env, "acct-1")

	rr := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+stored.ID+"/audit", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var audit domain.Audit
	decode(t, rr, &audit)
	if audit.ReportID != stored.ID {
		t.Errorf("reportId = %q", audit.ReportID)
	}
	if audit.KPIs.TradelineCount != 3 {
		t.Errorf("tradelineCount = %d, want 3", audit.KPIs.TradelineCount)
	}
	if len(audit.NegativeItems) == 0 {
		t.Error("expected negative items for the demo report")
	}
}

func TestHandleVendors(t *testing.T) {
	env := newTestEnv(t, nil)
	rr := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/vendors", nil))

	var resp VendorsResponse
	decode(t, rr, &resp)
	ids := make([]string, 0, len(resp.Vendors))
	for _, v := range resp.Vendors {
		ids = append(ids, v.ID)
	}
	joined := strings.Join(ids, ",")
	if !strings.Contains(joined, "demo-vendor") || !strings.Contains(joined, "tri-bureau-grid") {
		t.Errorf("unexpected vendors: %s", joined)
	}
}

func TestHandleSwaggerDoc_NotRegistered(t *testing.T) {
	env := newTestEnv(t, nil)
	rr := env.do(httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404 without registered docs, got %d", rr.Code)
	}
}

// writeServiceError

type failingReports struct {
	driving.ReportService
	err error
}

func (f failingReports) Get(ctx context.Context, id string) (*domain.StoredReport, error) {
	return nil, f.err
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			s := NewServer(DefaultConfig(), nil, failingReports{err: tt.err}, nil, nil)
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/reports/x", nil))
			if rr.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rr.Code)
			}
		})
	}
}

func TestWriteJSON_Unencodable(t *testing.T) {
	rec := httptest.NewRecorder()

	writeJSON(rec, http.StatusOK, map[string]float64{"balance": math.NaN()})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if resp.Error != "internal server error" {
		t.Errorf("unexpected error message %q", resp.Error)
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	store := mocks.NewMockReportStore()
	m := metrics.New(metrics.Config{Queue: queue})
	parser := services.NewParserService(services.ParserServiceConfig{
		Pipeline: pipeline.New(pipeline.Config{}),
		Store:    store,
		Queue:    queue,
		Metrics:  m,
	})
	cfg := DefaultConfig()
	cfg.Metrics = m
	handler := NewServer(cfg, parser, services.NewReportService(store, domain.DefaultPolicy(), nil),
		mocks.NewMockCredentialVerifier("", false), nil).Handler()

	body, _ := json.Marshal(domain.ParseRequest{DownloadURL: "inline:demo"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse-jobs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set(RequestIDHeader, "scrape-1")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Header().Get(RequestIDHeader) != "scrape-1" {
		t.Errorf("expected request id echoed, got %q", rr.Header().Get(RequestIDHeader))
	}
	out := rr.Body.String()
	for _, want := range []string{
		"parse_jobs_enqueued_total 1",
		"parse_queue_waiting 1",
		`http_requests_total{method="POST",route="POST /api/v1/parse-jobs",status="202"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in metrics output", want)
		}
	}
}

func TestServer_MetricsDisabled(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 without metrics, got %d", rr.Code)
	}
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a generated request id")
	}
}

func TestMetricsServer_Routes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics = metrics.New(metrics.Config{})
	handler := NewMetricsServer(cfg, map[string]Pinger{"redis": mocks.NewMockTaskQueue()}).Handler()

	tests := []struct {
		path string
		want int
	}{
		{"/health", http.StatusOK},
		{"/ready", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/v1/vendors", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rr.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rr.Code)
			}
		})
	}
}
