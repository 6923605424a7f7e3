// Package chi exposes the retrieval pipeline over HTTP.
package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fredygallego8/wayuulingo-api/internal/domain"
	healthuc "github.com/fredygallego8/wayuulingo-api/internal/usecase/health"
	queryuc "github.com/fredygallego8/wayuulingo-api/internal/usecase/query"
)

const maxLimit = 10

// ErrorEnvelope is the structured error shape for handler-level failures
// (validation, panics). Pipeline-level search failures ride inside a 200
// SearchResponse instead.
type ErrorEnvelope struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

// SearchRequest is the inbound body for POST /api/v1/search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

// Server wires the HTTP handlers to the pipeline.
type Server struct {
	query  *queryuc.Service
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(query *queryuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{query: query, health: health, logger: logger}
}

// Routes mounts the API on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/v1/search", s.PerformSearch)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// PerformSearch handles POST /api/v1/search.
func (s *Server) PerformSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, r, http.StatusBadRequest, domain.ErrEmptyQuery.Error())
		return
	}

	limit := 0 // pipeline default
	if req.Limit != nil {
		if *req.Limit < 1 || *req.Limit > maxLimit {
			writeError(w, r, http.StatusBadRequest,
				fmt.Sprintf("limit must be between 1 and %d", maxLimit))
			return
		}
		limit = *req.Limit
	}

	resp := s.query.Search(r.Context(), req.Query, limit)
	if resp.Error != "" {
		s.logger.Warn("Search aborted",
			zap.String("query", req.Query), zap.String("error", resp.Error))
	}

	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, ErrorEnvelope{
		Message:    message,
		StatusCode: status,
		Error:      http.StatusText(status),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       r.URL.Path,
	})
}

// WriteError writes the standard error envelope; exported for middleware
// that lives outside this package (panic recovery).
func WriteError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeError(w, r, status, message)
}
