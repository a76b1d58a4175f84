// Package server exposes the tournament editor over a small JSON HTTP API.
// Each request builds a short-lived editor service on top of the shared
// store, so the engine itself stays single-threaded per request.
package server

import (
	"net/http"

	"github.com/courtsidehq/courtside/internal/storage"
	"github.com/courtsidehq/courtside/internal/tournament/event"
)

// Server holds the shared collaborators behind the HTTP surface.
type Server struct {
	store     storage.TournamentStore
	publisher event.Publisher
}

// New creates a server backed by the given store and publisher.
func New(store storage.TournamentStore, publisher event.Publisher) *Server {
	return &Server{store: store, publisher: publisher}
}

// RegisterRoutes attaches all API routes to the mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/tournaments", s.CreateTournament)
	mux.HandleFunc("GET /api/tournaments/{id}", s.GetTournament)
	mux.HandleFunc("PATCH /api/tournaments/{id}", s.UpdateTournament)
	mux.HandleFunc("PUT /api/tournaments/{id}/stages/{number}", s.UpsertStage)
	mux.HandleFunc("GET /api/tournaments/{id}/validation", s.GetValidation)
	mux.HandleFunc("GET /api/tournaments/{id}/navigation", s.GetNavigation)
}

// Handler returns the fully routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux
}
