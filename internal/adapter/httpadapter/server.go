package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/couchcryptid/asteroid-impact-service/internal/observability"
)

// AsteroidFeed is the cached NEO feed the API reads from.
type AsteroidFeed interface {
	domain.NEOFeed
	domain.AsteroidResolver
	Refresh(ctx context.Context, start, end time.Time) ([]domain.Asteroid, error)
}

// Server exposes the simulation API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	feed       AsteroidFeed
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server. feed may be nil when the NEO feed is disabled.
func NewServer(addr string, ready sharedobs.ReadinessChecker, feed AsteroidFeed, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		feed:    feed,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/asteroids", s.handleListAsteroids)
	mux.HandleFunc("POST /api/v1/asteroids/refresh", s.handleRefreshAsteroids)
	mux.HandleFunc("POST /api/v1/simulations", s.handleSimulate)
	mux.HandleFunc("GET /api/v1/population", s.handlePopulation)

	s.httpServer.Handler = requestID(s.instrument(mux))
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// AlwaysReady is a readiness checker for deployments without the scenario pipeline.
type AlwaysReady struct{}

// CheckReadiness always succeeds.
func (AlwaysReady) CheckReadiness(context.Context) error { return nil }
