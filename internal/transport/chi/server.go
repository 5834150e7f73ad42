package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/patentcompass/internal/domain"
	logpkg "github.com/kailas-cloud/patentcompass/internal/logger"
	healthuc "github.com/kailas-cloud/patentcompass/internal/usecase/health"
	searchuc "github.com/kailas-cloud/patentcompass/internal/usecase/search"
)

// maxBodyBytes bounds the search request body.
const maxBodyBytes = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Options tune presentation of search results.
type Options struct {
	DefaultK     int
	SummaryRunes int
}

// Server implements ServerInterface.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	opts Options,
	logger *zap.Logger,
) *Server {
	if opts.DefaultK <= 0 {
		opts.DefaultK = 3
	}
	if opts.SummaryRunes <= 0 {
		opts.SummaryRunes = defaultSummaryRunes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search: search,
		health: health,
		opts:   opts,
		logger: logger,
	}
	// Order matters: query failures wrap their cause.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, ErrorResponseCodeEmptyQuery),
		sentinelHandler(domain.ErrInvalidK, http.StatusBadRequest, ErrorResponseCodeInvalidK),
		sentinelHandler(domain.ErrPatentNotFound, http.StatusNotFound, ErrorResponseCodePatentNotFound),
		sentinelHandler(domain.ErrNotReady, http.StatusServiceUnavailable, ErrorResponseCodeNotReady),
		sentinelHandler(domain.ErrModelUnavailable, http.StatusBadGateway, ErrorResponseCodeModelUnavailable),
		sentinelHandler(domain.ErrSchema, http.StatusInternalServerError, ErrorResponseCodeCorpusInvalid),
		sentinelHandler(domain.ErrQueryFailed, http.StatusInternalServerError, ErrorResponseCodeQueryFailed),
	}
	return s
}

// SearchPatents handles GET and POST /v1/search.
func (s *Server) SearchPatents(w http.ResponseWriter, r *http.Request, params SearchPatentsParams) {
	var req SearchRequest
	if r.Method == http.MethodPost {
		err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req)
		if err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
			return
		}
	} else if params.Q != nil {
		req.Query = *params.Q
	}

	k := s.opts.DefaultK
	switch {
	case req.K != nil:
		k = *req.K
	case params.K != nil:
		k = *params.K
	}

	ctx := logpkg.WithFields(r.Context(), zap.Int("k", k), zap.String("method", r.Method))
	results, err := s.search.Search(ctx, req.Query, k)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := SearchResponse{
		Query:   req.Query,
		K:       k,
		Results: make([]PatentCard, len(results)),
	}
	for i, res := range results {
		resp.Results[i] = cardFromResult(res, s.opts.SummaryRunes)
	}
	if len(results) == 0 {
		resp.Message = NoResultsMessage
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetPatent handles GET /v1/patents/{id}.
func (s *Server) GetPatent(w http.ResponseWriter, r *http.Request, id PatentID) {
	rec, err := s.search.Patent(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detailFromRecord(rec))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
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

// BindErrorHandler answers parameter binding failures with a JSON 400.
func BindErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	var pe *InvalidParamFormatError
	if errors.As(err, &pe) {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "invalid parameter "+pe.ParamName)
		return
	}
	writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "invalid request")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrInvalidK,
		domain.ErrPatentNotFound,
		domain.ErrNotReady,
		domain.ErrModelUnavailable,
		domain.ErrSchema,
		domain.ErrQueryFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, safeDomainMessage(err))
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
