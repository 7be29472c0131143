// Package chi exposes the matching service over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobscope/internal/domain"
	healthuc "github.com/kailas-cloud/jobscope/internal/usecase/health"
	matchuc "github.com/kailas-cloud/jobscope/internal/usecase/match"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers for the matching API.
type Server struct {
	match         *matchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(match *matchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		match:  match,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyInput, http.StatusBadRequest, "empty_input"),
		sentinelHandler(domain.ErrNoVocabularyOverlap, http.StatusUnprocessableEntity, "no_vocabulary_overlap"),
		sentinelHandler(domain.ErrModelUnavailable, http.StatusServiceUnavailable, "model_unavailable"),
	}
	return s
}

// MatchRequest is the body of POST /api/v1/match.
type MatchRequest struct {
	Text string `json:"text"`
	TopN int    `json:"top_n,omitempty"`
}

// MatchItem is one ranked posting in a match response.
type MatchItem struct {
	Rank  int           `json:"rank"`
	Score float64       `json:"score"`
	Job   domain.Record `json:"job"`
}

// MatchResponse is the body of a successful match.
type MatchResponse struct {
	Matches []MatchItem `json:"matches"`
	Count   int         `json:"count"`
}

// JobsResponse is one page of the posting corpus.
type JobsResponse struct {
	Items   []domain.Record `json:"items"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Match handles POST /api/v1/match.
func (s *Server) Match(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.TopN < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "top_n must not be negative")
		return
	}

	matches, err := s.match.MatchTopN(r.Context(), req.Text, req.TopN)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]MatchItem, len(matches))
	for i, m := range matches {
		items[i] = MatchItem{Rank: m.Rank, Score: m.Score, Job: m.Record}
	}
	writeJSON(w, http.StatusOK, MatchResponse{Matches: items, Count: len(items)})
}

// Jobs handles GET /api/v1/jobs.
func (s *Server) Jobs(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	perPage, err := queryInt(r, "per_page", 10)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	items, total, err := s.match.Jobs(page, perPage)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, JobsResponse{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// JobStats handles GET /api/v1/jobs/stats.
func (s *Server) JobStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.match.Stats()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyInput,
		domain.ErrNoVocabularyOverlap,
		domain.ErrModelUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
