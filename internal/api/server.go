// Package api exposes a minimal inspection HTTP surface over a
// drain.Index: health, the discovered groups, and a plain-text ingest
// endpoint for ad-hoc testing without a full OTLP client.
//
// Grounded on the teacher's internal/api/server.go: same chi router,
// same middleware stack (RequestID, RealIP, Logger, Recoverer,
// Timeout), same graceful Start/Shutdown shape. The pagination
// helpers, session handling, and the dozens of metric/trace/span
// query routes that server.go carried are dropped along with the
// storage backends they queried — this rework has no persisted
// metric/span/session data to page through, only an in-memory index
// of log groups.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nharring-adjacent/drain-flow/pkg/loggroup"
)

// GroupSource is anything the API can list discovered groups from —
// a *drain.Index directly, or a *sharding.Index fanning out across
// several.
type GroupSource interface {
	IterGroups() [][]*loggroup.LogGroup
}

// Ingester accepts a single raw line for classification.
type Ingester interface {
	ProcessLine(line string) (bool, error)
}

// Index is the dependency the API needs from whatever backs it — a
// *drain.Index directly, or a *sharding.Index fanning out across
// several.
type Index interface {
	GroupSource
	Ingester
}

// Server is the inspection API server.
type Server struct {
	index  Index
	router *chi.Mux
	server *http.Server
}

// NewServer creates a new API server bound to addr, backed by index.
func NewServer(addr string, index Index) *Server {
	s := &Server{index: index, router: chi.NewRouter()}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Get("/health", s.HandleHealth)
	s.router.Get("/groups", s.handleGroups)
	s.router.Post("/ingest", s.handleIngest)

	s.server = &http.Server{Addr: addr, Handler: s.router}
	return s
}

// Start starts the API server. It blocks until the server stops.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// groupView is the JSON-friendly rendering of a LogGroup for /groups.
type groupView struct {
	ID        string `json:"id"`
	Template  string `json:"template"`
	Examples  int    `json:"example_count"`
	Variables []int  `json:"variable_positions"`
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	buckets := s.index.IterGroups()
	views := make([]groupView, 0)
	for _, bucket := range buckets {
		for _, g := range bucket {
			vars := g.Variables()
			positions := make([]int, 0, len(vars))
			for pos := range vars {
				positions = append(positions, pos)
			}
			views = append(views, groupView{
				ID:        g.ID().String(),
				Template:  g.String(),
				Examples:  g.Len(),
				Variables: positions,
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(views)
}

type ingestRequest struct {
	Line string `json:"line"`
}

type ingestResponse struct {
	Added bool `json:"added"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	added, err := s.index.ProcessLine(req.Line)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ingestResponse{Added: added})
}
