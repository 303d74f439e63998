package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchdemo/internal/domain"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/result"
	"github.com/kailas-cloud/searchdemo/internal/metrics"
	answeruc "github.com/kailas-cloud/searchdemo/internal/usecase/answer"
	healthuc "github.com/kailas-cloud/searchdemo/internal/usecase/health"
	searchuc "github.com/kailas-cloud/searchdemo/internal/usecase/search"
)

const maxAskBodyBytes = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server exposes the query facade over HTTP.
type Server struct {
	search        *searchuc.Service
	answer        *answeruc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. answer may be nil.
func NewServer(
	search *searchuc.Service,
	answer *answeruc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{search: search, answer: answer, health: health, logger: logger}
	s.errorHandlers = []errorHandler{
		messageHandler(domain.ErrValidation, http.StatusBadRequest, CodeValidationFailed),
		messageHandler(domain.ErrSchema, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrConfiguration, http.StatusNotImplemented, CodeNotConfigured),
		sentinelHandler(domain.ErrUnauthorized, http.StatusBadGateway, CodeServiceAuth),
		sentinelHandler(domain.ErrIndexNotFound, http.StatusNotFound, CodeIndexNotFound),
		sentinelHandler(domain.ErrService, http.StatusBadGateway, CodeServiceError),
	}
	return s
}

// Router builds the chi router with the standard middleware chain.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	r.Get("/healthz", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/search", func(r chi.Router) {
			r.Get("/keyword", s.SearchKeyword)
			r.Get("/category", s.SearchCategory)
			r.Get("/advanced", s.SearchAdvanced)
		})
		r.Post("/ask", s.Ask)
	})
	return r
}

// SearchKeyword handles GET /v1/search/keyword?q=&top=.
func (s *Server) SearchKeyword(w http.ResponseWriter, r *http.Request) {
	top, ok := parseTop(w, r)
	if !ok {
		return
	}
	results, err := s.search.Keyword(r.Context(), r.URL.Query().Get("q"), top)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse(results))
}

// SearchCategory handles GET /v1/search/category?category=&top=.
func (s *Server) SearchCategory(w http.ResponseWriter, r *http.Request) {
	top, ok := parseTop(w, r)
	if !ok {
		return
	}
	results, err := s.search.ByCategory(r.Context(), r.URL.Query().Get("category"), top)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse(results))
}

// SearchAdvanced handles GET /v1/search/advanced?q=&category=&top=.
func (s *Server) SearchAdvanced(w http.ResponseWriter, r *http.Request) {
	top, ok := parseTop(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	results, err := s.search.Advanced(r.Context(), q.Get("q"), q.Get("category"), top)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse(results))
}

// Ask handles POST /v1/ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	if s.answer == nil || !s.answer.Enabled() {
		writeError(w, http.StatusNotImplemented, CodeNotConfigured, "answer provider is not configured")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAskBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ans, err := s.answer.Ask(r.Context(), req.Question)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sources := make([]SearchResultItem, len(ans.Sources))
	for i := range ans.Sources {
		sources[i] = searchResultItem(&ans.Sources[i])
	}
	writeJSON(w, http.StatusOK, AskResponse{Answer: ans.Text, Sources: sources})
}

// HealthCheck handles GET /healthz.
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
	for k, msg := range report.Errors {
		s.logger.Warn("health check failed", zap.String("check", k), zap.String("error", msg))
	}

	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

func parseTop(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("top")
	if raw == "" {
		return 0, true
	}
	top, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, fmt.Sprintf("top must be an integer, got %q", raw))
		return 0, false
	}
	return top, true
}

func searchResponse(results []result.Result) SearchResponse {
	items := make([]SearchResultItem, len(results))
	for i := range results {
		items[i] = searchResultItem(&results[i])
	}
	return SearchResponse{Items: items, Count: len(items)}
}

func searchResultItem(r *result.Result) SearchResultItem {
	d := r.Document()
	return SearchResultItem{
		ID:       d.ID(),
		Title:    d.Title(),
		Content:  d.Content(),
		Category: d.Category(),
		Score:    r.Score(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// sentinelHandler answers with the sentinel text only, keeping service internals out of responses.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// messageHandler answers with the full error text; used for caller input errors.
func messageHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err), zap.String("kind", string(domain.KindOf(err))))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
