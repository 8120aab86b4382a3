// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/okian/scoutmap/internal/adapters/repository"
	service "github.com/okian/scoutmap/internal/app"
	"github.com/okian/scoutmap/internal/domain/filter"
	"github.com/okian/scoutmap/internal/domain/finder"
	"github.com/okian/scoutmap/internal/domain/model"
	"github.com/okian/scoutmap/pkg/logger"
)

// Default recluster rate limit.
const (
	defaultReclusterRPS   = 2
	defaultReclusterBurst = 4
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	// Recluster queues a clustering run over the selected population.
	Recluster(ctx context.Context, criteria filter.Criteria, requestID string, withProjection bool) (string, error)

	// Read operations over the current snapshot.
	Clusters(ctx context.Context) (service.ClusterView, error)
	TopByOVR(ctx context.Context, clusterID, n int) ([]repository.Entry, error)
	Player(ctx context.Context, id string) (*model.Player, error)
	Find(ctx context.Context, q finder.Query) ([]*model.Player, error)
	Summary(ctx context.Context, clusterID *int) (finder.Summary, error)
	Projection(ctx context.Context) (service.ProjectionView, error)
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithReclusterLimit sets the token bucket guarding POST /recluster.
func WithReclusterLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithLogger sets the logger used for request failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps    Dependencies
	limiter *rate.Limiter
	logger  logger.Logger

	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	clustersHandler   *ClustersHandler
	playersHandler    *PlayersHandler
	summaryHandler    *SummaryHandler
	projectionHandler *ProjectionHandler
	reclusterHandler  *ReclusterHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:    deps,
		limiter: rate.NewLimiter(defaultReclusterRPS, defaultReclusterBurst),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.clustersHandler = NewClustersHandler(deps)
	s.playersHandler = NewPlayersHandler(deps)
	s.summaryHandler = NewSummaryHandler(deps)
	s.projectionHandler = NewProjectionHandler(deps)
	s.reclusterHandler = NewReclusterHandler(deps, s.logger)
	return s
}

// Router returns a new router with every route registered.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	s.Register(r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.Handle("/metrics", s.healthHandler.MetricsHandler()).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)
	r.HandleFunc("/clusters", MetricsMiddleware(s.clustersHandler.HandleGetClusters, "clusters")).Methods(http.MethodGet)
	r.HandleFunc("/clusters/{id:[0-9]+}/top", MetricsMiddleware(s.clustersHandler.HandleGetTop, "clusters_top")).Methods(http.MethodGet)
	r.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleFind, "players")).Methods(http.MethodGet)
	r.HandleFunc("/players/{id}", MetricsMiddleware(s.playersHandler.HandleGetPlayer, "player")).Methods(http.MethodGet)
	r.HandleFunc("/summary", MetricsMiddleware(s.summaryHandler.HandleSummary, "summary")).Methods(http.MethodGet)
	r.HandleFunc("/projection", MetricsMiddleware(s.projectionHandler.HandleProjection, "projection")).Methods(http.MethodGet)
	r.HandleFunc("/recluster", MetricsMiddleware(
		RateLimitMiddleware(s.limiter, s.reclusterHandler.HandlePostRecluster), "recluster",
	)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeReadError translates snapshot read failures to status codes.
func writeReadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNoSnapshot):
		writeError(w, http.StatusServiceUnavailable, "unavailable", ErrUnavailable)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrInvalidCluster), errors.Is(err, repository.ErrInvalidLimit), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
