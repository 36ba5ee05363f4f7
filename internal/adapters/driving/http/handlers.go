package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/swaggo/swag"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
)

// UploadObjectKey is the object key stamped on direct multipart uploads
const UploadObjectKey = "uploaded"

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// ReadyResponse reports each dependency's readiness
// @Description Readiness response
type ReadyResponse struct {
	Status string            `json:"status" example:"ready"`
	Checks map[string]string `json:"checks,omitempty"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// ParseFailedResponse is the 422 body for documents that could not be parsed
// @Description Structured parse failure
type ParseFailedResponse struct {
	OK    bool                     `json:"ok" example:"false"`
	Error *domain.ParseFailedError `json:"error"`
}

// ListReportsResponse is a page of stored reports
// @Description Stored report page
type ListReportsResponse struct {
	Reports []*domain.ReportSummary `json:"reports"`
	Limit   int                     `json:"limit" example:"20"`
	Offset  int                     `json:"offset" example:"0"`
}

// VendorsResponse lists registered vendor profiles
// @Description Registered vendor profiles
type VendorsResponse struct {
	Vendors []domain.VendorInfo `json:"vendors"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Pings the report store and Redis when they are configured
// @Tags         Health
// @Produce      json
// @Success      200  {object}  ReadyResponse
// @Failure      503  {object}  ReadyResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := ReadyResponse{Status: "ready", Checks: make(map[string]string, len(s.checks))}
	status := http.StatusOK
	for name, p := range s.checks {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			s.logger.Warn("readiness check failed", "check", name, "error", err)
			resp.Checks[name] = "unavailable"
			resp.Status = "not ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	writeJSON(w, status, resp)
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

// handleSwaggerDoc serves the registered OpenAPI document
func (s *Server) handleSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusNotFound, "api documentation not registered")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc)
}

// Parse endpoints

// handleParse godoc
// @Summary      Parse an uploaded credit report
// @Description  Parses a multipart upload into a NormalizedReport. With store=true the report is persisted and the stored record is returned.
// @Tags         Parse
// @Accept       multipart/form-data
// @Produce      json
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Param        file       formData  file    true   "Credit report document"
// @Param        accountId  formData  string  false  "Owning account"
// @Param        objectKey  formData  string  false  "Correlation key (default: uploaded)"
// @Param        store      query     bool    false  "Persist the report"
// @Success      200  {object}  domain.NormalizedReport
// @Success      201  {object}  domain.StoredReport
// @Failure      400  {object}  ErrorResponse  "Missing file"
// @Failure      413  {object}  ErrorResponse  "Upload too large"
// @Failure      422  {object}  ParseFailedResponse
// @Router       /parse [post]
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+(1<<20))

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	if int64(len(payload)) > s.maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}

	objectKey := strings.TrimSpace(r.FormValue("objectKey"))
	if objectKey == "" {
		objectKey = UploadObjectKey
	}
	doc := domain.NewRawDocument(payload, header.Header.Get("Content-Type"), objectKey, strings.TrimSpace(r.FormValue("accountId")))

	if store, _ := strconv.ParseBool(r.URL.Query().Get("store")); store {
		stored, err := s.parserService.ParseAndStore(r.Context(), doc)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, stored)
		return
	}

	report, err := s.parserService.Parse(r.Context(), doc)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleParseFromURL godoc
// @Summary      Fetch, parse and store a remote report
// @Description  Downloads the document, parses it and persists the report. The objectKey defaults to the download URL.
// @Tags         Parse
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Param        request  body      domain.ParseRequest  true  "Document location"
// @Success      201      {object}  domain.StoredReport
// @Failure      400      {object}  ErrorResponse  "Invalid request or unsupported URL scheme"
// @Failure      413      {object}  ErrorResponse  "Document too large"
// @Failure      422      {object}  ParseFailedResponse
// @Failure      502      {object}  ErrorResponse  "Fetch failed"
// @Router       /parse-from-url [post]
func (s *Server) handleParseFromURL(w http.ResponseWriter, r *http.Request) {
	var req domain.ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stored, err := s.parserService.ParseFromURL(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

// handleCreateParseJob godoc
// @Summary      Queue a parse job
// @Description  Schedules fetch, parse and store on a background worker
// @Tags         Parse
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Param        request  body      domain.ParseRequest  true  "Document location"
// @Success      202      {object}  domain.Task
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      503      {object}  ErrorResponse  "Queue unavailable"
// @Router       /parse-jobs [post]
func (s *Server) handleCreateParseJob(w http.ResponseWriter, r *http.Request) {
	var req domain.ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := s.parserService.Enqueue(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, task)
}

// handleGetParseJob godoc
// @Summary      Get a parse job
// @Tags         Parse
// @Produce      json
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  domain.Task
// @Failure      404  {object}  ErrorResponse  "Job not found"
// @Router       /parse-jobs/{id} [get]
func (s *Server) handleGetParseJob(w http.ResponseWriter, r *http.Request) {
	task, err := s.parserService.JobStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Report endpoints

// handleListReports godoc
// @Summary      List stored reports
// @Description  Newest first, optionally for one account
// @Tags         Reports
// @Produce      json
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Param        accountId  query     string  false  "Filter by account"
// @Param        limit      query     int     false  "Page size (default 20, max 100)"
// @Param        offset     query     int     false  "Page offset"
// @Success      200  {object}  ListReportsResponse
// @Failure      400  {object}  ErrorResponse  "Invalid paging"
// @Router       /reports [get]
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, err := queryInt(q.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	reports, err := s.reportService.List(r.Context(), strings.TrimSpace(q.Get("accountId")), limit, offset)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListReportsResponse{Reports: reports, Limit: limit, Offset: offset})
}

// handleGetReport godoc
// @Summary      Get a stored report
// @Tags         Reports
// @Produce      json
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  domain.StoredReport
// @Failure      404  {object}  ErrorResponse  "Report not found"
// @Router       /reports/{id} [get]
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	stored, err := s.reportService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// handleGetReportAudit godoc
// @Summary      Audit a stored report
// @Description  KPIs, prioritized negative items, utilization, personal-info issues and duplicates
// @Tags         Reports
// @Produce      json
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  domain.Audit
// @Failure      404  {object}  ErrorResponse  "Report not found"
// @Router       /reports/{id}/audit [get]
func (s *Server) handleGetReportAudit(w http.ResponseWriter, r *http.Request) {
	audit, err := s.reportService.Audit(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, audit)
}

// handleListVendors godoc
// @Summary      List vendor profiles
// @Tags         Vendors
// @Produce      json
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Success      200  {object}  VendorsResponse
// @Router       /vendors [get]
func (s *Server) handleListVendors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VendorsResponse{Vendors: s.parserService.Vendors()})
}

// Helper functions

// writeServiceError maps domain errors to status codes
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	if pf, ok := domain.AsParseFailed(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, ParseFailedResponse{OK: false, Error: pf})
		return
	}

	switch {
	case errors.Is(err, domain.ErrUnsupportedScheme), errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDocumentTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrFetchFailed):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func queryInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("invalid integer")
	}
	return n, nil
}

// writeJSON encodes before writing the header, so an unencodable value
// becomes a 500 rather than a truncated body.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("encode response", "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: "internal server error"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
