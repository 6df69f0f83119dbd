package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/orbit-catalog-etl/internal/domain"
	"github.com/couchcryptid/orbit-catalog-etl/internal/position"
)

const maxGraphLimit = 5000

// API holds the read-side dependencies of the catalog endpoints. A nil Graph
// makes /api/graph answer 503.
type API struct {
	Catalog   domain.CatalogReader
	Graph     domain.GraphReader
	Projector position.Projector
}

// Server exposes health, readiness, metrics, and catalog HTTP endpoints.
type Server struct {
	httpServer *http.Server
	api        API
	logger     *slog.Logger
}

// SatelliteDetail is the body of GET /api/satellites/{name}.
type SatelliteDetail struct {
	Satellite domain.ParsedElement `json:"satellite"`
	Position  domain.GeodeticFix   `json:"position"`
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /api catalog routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, api API, logger *slog.Logger) *Server {
	if api.Graph == nil {
		api.Graph = disabledGraph{}
	}

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		api:    api,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/satellites", s.handleList)
	mux.HandleFunc("GET /api/satellites/search", s.handleSearch)
	// Names such as "SL-16 R/B" contain slashes.
	mux.HandleFunc("GET /api/satellites/{name...}", s.handleDetail)
	mux.HandleFunc("GET /api/graph", s.handleGraph)

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

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	var class domain.OrbitClass
	if raw := r.URL.Query().Get("orbit_class"); raw != "" {
		c, ok := domain.ParseOrbitClass(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown orbit_class "+strconv.Quote(raw))
			return
		}
		class = c
	}

	records, err := s.api.Catalog.List(r.Context(), class)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, records)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	records, err := s.api.Catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, records)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	el, err := s.api.Catalog.FindByName(r.Context(), name)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "satellite "+strconv.Quote(name)+" not found")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	detail := SatelliteDetail{Satellite: el}
	if s.api.Projector != nil {
		detail.Position = s.api.Projector.Project(el.Line1, el.Line2)
	}
	sharedobs.WriteJSON(w, http.StatusOK, detail)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxGraphLimit {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and "+strconv.Itoa(maxGraphLimit))
			return
		}
		limit = n
	}

	g, err := s.api.Graph.VisGraph(r.Context(), limit)
	if errors.Is(err, domain.ErrGraphDisabled) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, g)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}

type disabledGraph struct{}

func (disabledGraph) VisGraph(context.Context, int) (domain.VisGraph, error) {
	return domain.VisGraph{}, domain.ErrGraphDisabled
}
